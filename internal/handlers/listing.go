// internal/handlers/listing.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/takabora/takabora-backend/internal/i18n"
	"github.com/takabora/takabora-backend/internal/services"
	"github.com/takabora/takabora-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
	storageService *services.StorageService
}

func NewListingHandler(listingService *services.ListingService, storageService *services.StorageService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		storageService: storageService,
	}
}

// GET /listings/all
func (h *ListingHandler) BrowseListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingService.BrowseListings(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /listings
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	listings, err := h.listingService.GetOwnerListings(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listings": listings,
	})
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	listing, err := h.listingService.GetListing(id, userID)
	if err != nil {
		h.respondListingError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// POST /listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	listing, err := h.listingService.CreateListing(userID, &req)
	if err != nil {
		h.respondListingError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCreated),
		"listing": listing,
	})
}

// PUT /listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req services.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	listing, err := h.listingService.UpdateListing(id, userID, &req)
	if err != nil {
		h.respondListingError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingUpdated),
		"listing": listing,
	})
}

// DELETE /listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	listing, err := h.listingService.GetListing(id, userID)
	if err != nil {
		h.respondListingError(c, err)
		return
	}

	if err := h.listingService.DeleteListing(id, userID); err != nil {
		h.respondListingError(c, err)
		return
	}

	// Best-effort cleanup of stored photos.
	for _, photo := range listing.Photos {
		key := services.StorageKeyFromURL(photo)
		if key == "" {
			continue
		}
		if err := h.storageService.DeleteFile(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to delete listing photo")
		}
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingDeleted),
	})
}

// POST /listings/photos
func (h *ListingHandler) UploadPhotos(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, exists := utils.GetUserIDFromContext(c); !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "upload"), err.Error())
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "photos is required", nil)
		return
	}

	options := services.ListingPhotoOptions()
	results := make([]*services.UploadResult, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadFailed), err.Error())
			return
		}

		result, err := h.storageService.UploadFile(file, header, options)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadFailed), err.Error())
			return
		}
		results = append(results, result)
	}

	utils.CreatedResponse(c, gin.H{
		"uploads": results,
	})
}

func (h *ListingHandler) respondListingError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var fieldErr *services.InvalidFieldError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrListingNotFound):
		utils.NotFoundResponse(c, "listing")
	case errors.Is(err, services.ErrListingNotDeletable):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyListingNotDeletable))
	case errors.Is(err, services.ErrFixedPriceRequired):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyListingFixedPriceReq), nil)
	case errors.Is(err, services.ErrCityRequired):
		utils.BadRequestResponse(c, "location.city is required", nil)
	case errors.As(err, &fieldErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, fieldErr.Field), nil)
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
	default:
		utils.InternalErrorResponse(c, "")
	}
}
