// internal/models/user.go
package models

// User mirrors a profile owned by the external identity provider. Rows are
// written only by the provider webhook; this service never stores
// credentials.
type User struct {
	BaseModel
	ExternalID   string   `json:"external_id" gorm:"uniqueIndex;size:255;not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Username     string   `json:"username" gorm:"size:255;not null"`
	FirstName    string   `json:"first_name" gorm:"size:255"`
	LastName     string   `json:"last_name" gorm:"size:255"`
	UserType     UserType `json:"user_type" gorm:"size:20;not null;index"`
	ProfileImage string   `json:"profile_image" gorm:"size:512"`
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
