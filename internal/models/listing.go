// internal/models/listing.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is stored as a JSONB column so the area/coordinates shape can
// stay optional without extra nullable columns.
type Location struct {
	City        string       `json:"city"`
	Area        string       `json:"area,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for Location")
}

type Listing struct {
	BaseModel
	OwnerID     string          `json:"owner_id" gorm:"size:255;not null;index"`
	Category    ListingCategory `json:"category" gorm:"size:50;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Unit        ListingUnit     `json:"unit" gorm:"size:50;not null"`
	Pricing     PricingMode     `json:"pricing" gorm:"size:20;not null"`
	FixedPrice  *float64        `json:"fixed_price,omitempty" gorm:"type:decimal(10,2)"`
	Photos      pq.StringArray  `json:"photos,omitempty" gorm:"type:text[]"`
	Location    Location        `json:"location" gorm:"type:jsonb;not null"`
	Status      ListingStatus   `json:"status" gorm:"size:20;default:'available';index"`

	// Relationships
	Owner        *User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ExternalID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:ListingID"`
}
