// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amirphl/farm-storefront/app/dto"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const requestTimeout = 30 * time.Second

// ErrorResponse writes the standard JSON error envelope
func ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse writes the standard JSON success envelope
func SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// createRequestContext bounds a flow call by requestTimeout. The caller must
// invoke the returned cancel func.
func createRequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func requestID(c fiber.Ctx) string {
	if rid := c.Get(fiber.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// endpoint names the matched route template, e.g. "PUT /api/products/:uuid"
func endpoint(c fiber.Ctx) string {
	path := c.Path()
	if r := c.Route(); r != nil && r.Path != "" {
		path = r.Path
	}
	return c.Method() + " " + path
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get(fiber.HeaderUserAgent))
	metadata.SetRequestID(requestID(c))
	metadata.SetEndpoint(endpoint(c))
	return metadata
}

// bindAndValidate decodes the JSON body into req and validates it. When it
// reports false the error response has already been written.
func bindAndValidate(c fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	if err := v.Struct(req); err != nil {
		return false, ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}
	return true, nil
}

// validationMessages flattens validator errors into readable strings
func validationMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return messages
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "url":
		return err.Field() + " must be a valid URL"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// contentErrorResponse maps content flow errors to HTTP statuses
func contentErrorResponse(c fiber.Ctx, err error, fallback string) error {
	switch {
	case businessflow.IsInvalidUUID(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_UUID", nil)
	case businessflow.IsNotFound(err):
		return ErrorResponse(c, fiber.StatusNotFound, "Not found", "NOT_FOUND", nil)
	case businessflow.IsSlugTaken(err):
		return ErrorResponse(c, fiber.StatusConflict, businessMessage(err), "SLUG_TAKEN", nil)
	case businessflow.IsInvalidSlug(err):
		return ErrorResponse(c, fiber.StatusBadRequest, businessMessage(err), "INVALID_SLUG", nil)
	case businessflow.IsFileTooLarge(err):
		return ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "File too large", "FILE_TOO_LARGE", nil)
	case businessflow.IsUnsupportedMediaType(err):
		return ErrorResponse(c, fiber.StatusBadRequest, businessMessage(err), "INVALID_FILE_TYPE", nil)
	case businessflow.IsStorageUnavailable(err):
		return ErrorResponse(c, fiber.StatusServiceUnavailable, "Media storage is not configured", "STORAGE_UNAVAILABLE", nil)
	}

	log.Printf("%s: %v", fallback, err)
	return ErrorResponse(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", nil)
}

func businessMessage(err error) string {
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
