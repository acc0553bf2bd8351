// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/takabora/takabora-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("waste_category", validateWasteCategory)
	validate.RegisterValidation("waste_unit", validateWasteUnit)
	validate.RegisterValidation("pricing_mode", validatePricingMode)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateWasteCategory(fl validator.FieldLevel) bool {
	return models.ListingCategory(fl.Field().String()).IsValid()
}

func validateWasteUnit(fl validator.FieldLevel) bool {
	return models.ListingUnit(fl.Field().String()).IsValid()
}

func validatePricingMode(fl validator.FieldLevel) bool {
	return models.PricingMode(fl.Field().String()).IsValid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "waste_category":
		return e.Field() + " must be one of: Organic, Plastic, Paper, Glass, E-Waste, Textiles"
	case "waste_unit":
		return e.Field() + " must be a supported quantity unit"
	case "pricing_mode":
		return e.Field() + " must be either negotiable or fixed"
	default:
		return e.Field() + " is invalid"
	}
}
