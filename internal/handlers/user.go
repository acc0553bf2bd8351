// internal/handlers/user.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/takabora/takabora-backend/internal/i18n"
	"github.com/takabora/takabora-backend/internal/models"
	"github.com/takabora/takabora-backend/internal/services"
	"github.com/takabora/takabora-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"users": users,
	})
}

// GET /users/type/:type
func (h *UserHandler) GetUsersByType(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userType := models.UserType(c.Param("type"))
	if !userType.IsValid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUserInvalidType), nil)
		return
	}

	users, err := h.userService.GetUsersByType(userType)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"users": users,
	})
}

// GET /users/:externalID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByExternalID(c.Param("externalID"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}
