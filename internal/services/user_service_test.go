// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/takabora/takabora-backend/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService
}

func (suite *UserServiceTestSuite) SetupSuite() {
	suite.db = openTestDB(suite.T(), "user_service_test")
	suite.service = NewUserService(suite.db)
}

func (suite *UserServiceTestSuite) SetupTest() {
	resetTables(suite.db)
}

func (suite *UserServiceTestSuite) TestCreateFromProvider() {
	user, err := suite.service.CreateFromProvider(&ProviderProfile{
		ExternalID: "user_abc123",
		Email:      "njeri@example.com",
		Username:   "njeri",
		FirstName:  "Njeri",
		LastName:   "Kamau",
		UserType:   "producer",
	})

	suite.NoError(err)
	suite.Equal("user_abc123", user.ExternalID)
	suite.Equal(models.UserTypeProducer, user.UserType)
	suite.Equal("Njeri Kamau", user.DisplayName())
}

func (suite *UserServiceTestSuite) TestCreateDefaultsToConsumer() {
	user, err := suite.service.CreateFromProvider(&ProviderProfile{
		ExternalID: "user_abc123",
		Email:      "someone@example.com",
		UserType:   "superadmin",
	})

	suite.NoError(err)
	suite.Equal(models.UserTypeConsumer, user.UserType)
	// Username falls back to the email local part.
	suite.Equal("someone", user.Username)
}

func (suite *UserServiceTestSuite) TestUpdateFromProvider() {
	_, err := suite.service.CreateFromProvider(&ProviderProfile{
		ExternalID: "user_abc123",
		Email:      "njeri@example.com",
		Username:   "njeri",
		UserType:   "producer",
	})
	suite.NoError(err)

	updated, err := suite.service.UpdateFromProvider(&ProviderProfile{
		ExternalID: "user_abc123",
		Email:      "njeri.kamau@example.com",
		Username:   "njerik",
		FirstName:  "Njeri",
		LastName:   "Kamau",
	})
	suite.NoError(err)
	suite.Equal("njeri.kamau@example.com", updated.Email)
	suite.Equal("njerik", updated.Username)

	_, err = suite.service.UpdateFromProvider(&ProviderProfile{ExternalID: "user_missing"})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestDeleteByExternalID() {
	_, err := suite.service.CreateFromProvider(&ProviderProfile{
		ExternalID: "user_abc123",
		Email:      "njeri@example.com",
		UserType:   "consumer",
	})
	suite.NoError(err)

	suite.NoError(suite.service.DeleteByExternalID("user_abc123"))
	suite.ErrorIs(suite.service.DeleteByExternalID("user_abc123"), ErrUserNotFound)

	_, err = suite.service.GetUserByExternalID("user_abc123")
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestGetUsersByType() {
	_, err := suite.service.CreateFromProvider(&ProviderProfile{
		ExternalID: "user_p1", Email: "p1@example.com", UserType: "producer",
	})
	suite.NoError(err)
	_, err = suite.service.CreateFromProvider(&ProviderProfile{
		ExternalID: "user_c1", Email: "c1@example.com", UserType: "consumer",
	})
	suite.NoError(err)

	producers, err := suite.service.GetUsersByType(models.UserTypeProducer)
	suite.NoError(err)
	suite.Require().Len(producers, 1)
	suite.Equal("user_p1", producers[0].ExternalID)

	all, err := suite.service.GetUsers()
	suite.NoError(err)
	suite.Len(all, 2)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
