// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/takabora/takabora-backend/internal/models"
	"github.com/takabora/takabora-backend/internal/utils"
)

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrListingNotDeletable = errors.New("only available listings can be deleted")
	ErrFixedPriceRequired  = errors.New("fixed price is required and must be greater than 0")
	ErrCityRequired        = errors.New("location city is required")
)

// InvalidFieldError reports a request field whose value is outside the
// accepted set.
type InvalidFieldError struct {
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

type CreateListingRequest struct {
	Category    string          `json:"category" validate:"required,waste_category"`
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	Unit        string          `json:"unit" validate:"required,waste_unit"`
	Pricing     string          `json:"pricing" validate:"required,pricing_mode"`
	FixedPrice  *float64        `json:"fixed_price,omitempty"`
	Photos      []string        `json:"photos,omitempty"`
	Location    models.Location `json:"location"`
}

type UpdateListingRequest struct {
	Category    string           `json:"category,omitempty" validate:"omitempty,waste_category"`
	Description string           `json:"description,omitempty"`
	Quantity    int              `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit        string           `json:"unit,omitempty" validate:"omitempty,waste_unit"`
	Pricing     string           `json:"pricing,omitempty" validate:"omitempty,pricing_mode"`
	FixedPrice  *float64         `json:"fixed_price,omitempty"`
	Photos      []string         `json:"photos,omitempty"`
	Location    *models.Location `json:"location,omitempty"`
	Status      string           `json:"status,omitempty"`
}

func (s *ListingService) CreateListing(ownerID string, req *CreateListingRequest) (*models.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Location.City == "" {
		return nil, ErrCityRequired
	}

	listing := &models.Listing{
		OwnerID:     ownerID,
		Category:    models.ListingCategory(req.Category),
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        models.ListingUnit(req.Unit),
		Pricing:     models.PricingMode(req.Pricing),
		Photos:      pq.StringArray(req.Photos),
		Location:    req.Location,
		Status:      models.ListingStatusAvailable,
	}

	// fixedPrice is present iff pricing is fixed
	if listing.Pricing == models.PricingFixed {
		if req.FixedPrice == nil || *req.FixedPrice <= 0 {
			return nil, ErrFixedPriceRequired
		}
		listing.FixedPrice = req.FixedPrice
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// GetListing returns a listing scoped to its owner. A listing that exists
// but belongs to someone else is reported as not found, so ownership is not
// leaked.
func (s *ListingService) GetListing(id uuid.UUID, ownerID string) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) GetOwnerListings(ownerID string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// BrowseListings is the public marketplace view: available listings only.
func (s *ListingService) BrowseListings(params utils.PaginationParams) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusAvailable)

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "quantity"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

func (s *ListingService) UpdateListing(id uuid.UUID, ownerID string, req *UpdateListingRequest) (*models.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	listing, err := s.GetListing(id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Quantity > 0 {
		updates["quantity"] = req.Quantity
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.Photos != nil {
		updates["photos"] = pq.StringArray(req.Photos)
	}
	if req.Location != nil {
		if req.Location.City == "" {
			return nil, ErrCityRequired
		}
		updates["location"] = *req.Location
	}
	if req.Status != "" {
		if !models.ListingStatus(req.Status).IsValid() {
			return nil, &InvalidFieldError{Field: "status", Value: req.Status}
		}
		updates["status"] = req.Status
	}

	// Keep the fixedPrice-iff-fixed invariant across pricing changes.
	pricing := listing.Pricing
	if req.Pricing != "" {
		pricing = models.PricingMode(req.Pricing)
		updates["pricing"] = req.Pricing
	}
	switch pricing {
	case models.PricingFixed:
		switch {
		case req.FixedPrice != nil:
			if *req.FixedPrice <= 0 {
				return nil, ErrFixedPriceRequired
			}
			updates["fixed_price"] = *req.FixedPrice
		case listing.FixedPrice == nil:
			return nil, ErrFixedPriceRequired
		}
	case models.PricingNegotiable:
		if listing.FixedPrice != nil || req.FixedPrice != nil {
			updates["fixed_price"] = nil
		}
	}

	if err := s.db.Model(listing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return s.GetListing(id, ownerID)
}

// DeleteListing removes an owner's listing. Listings referenced by a live
// transaction (pending or completed status) are refused.
func (s *ListingService) DeleteListing(id uuid.UUID, ownerID string) error {
	listing, err := s.GetListing(id, ownerID)
	if err != nil {
		return err
	}

	if listing.Status != models.ListingStatusAvailable {
		return ErrListingNotDeletable
	}

	if err := s.db.Delete(listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	return nil
}
