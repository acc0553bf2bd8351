// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/takabora/takabora-backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserService maintains the local mirror of identity-provider profiles.
// The provider is the source of truth; rows change only in response to its
// webhook events.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProviderProfile is the normalized payload of a provider user event.
type ProviderProfile struct {
	ExternalID   string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	UserType     string
	ProfileImage string
}

func (p *ProviderProfile) username() string {
	if p.Username != "" {
		return p.Username
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.ExternalID
}

func (s *UserService) CreateFromProvider(profile *ProviderProfile) (*models.User, error) {
	userType := models.UserType(profile.UserType)
	if !userType.IsValid() {
		userType = models.UserTypeConsumer
	}

	user := &models.User{
		ExternalID:   profile.ExternalID,
		Email:        profile.Email,
		Username:     profile.username(),
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		UserType:     userType,
		ProfileImage: profile.ProfileImage,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateFromProvider(profile *ProviderProfile) (*models.User, error) {
	var user models.User
	if err := s.db.Where("external_id = ?", profile.ExternalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{
		"email":         profile.Email,
		"username":      profile.username(),
		"first_name":    profile.FirstName,
		"last_name":     profile.LastName,
		"profile_image": profile.ProfileImage,
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

func (s *UserService) DeleteByExternalID(externalID string) error {
	result := s.db.Where("external_id = ?", externalID).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUsersByType(userType models.UserType) ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("user_type = ?", userType).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUserByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
