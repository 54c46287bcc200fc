// Package businessflow contains the admin session authority and content use cases
package businessflow

import (
	"errors"
	"fmt"

	"github.com/amirphl/farm-storefront/app/services"
)

// Business flow error constants
var (
	// Session errors
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrMissingToken         = errors.New("refresh token not found")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
	ErrTokenExpired         = services.ErrTokenExpired
	ErrTokenInvalid         = services.ErrTokenInvalid

	// Content errors
	ErrInvalidUUID          = errors.New("invalid uuid")
	ErrProductNotFound      = errors.New("product not found")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrInvalidSlug          = errors.New("slug must contain letters or digits")
	ErrTestimonialNotFound  = errors.New("testimonial not found")
	ErrTeamMemberNotFound   = errors.New("team member not found")
	ErrMediaNotFound        = errors.New("media not found")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrStorageUnavailable   = services.ErrStorageDisabled
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsMissingCredentials(err error) bool {
	return errors.Is(err, ErrMissingCredentials)
}

func IsMissingToken(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidRefreshToken(err error) bool {
	return errors.Is(err, ErrInvalidRefreshToken)
}

func IsTooManyLoginAttempts(err error) bool {
	return errors.Is(err, ErrTooManyLoginAttempts)
}

func IsTokenExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func IsTokenInvalid(err error) bool {
	return errors.Is(err, ErrTokenInvalid)
}

// IsNotFound covers every content lookup miss
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrTestimonialNotFound) ||
		errors.Is(err, ErrTeamMemberNotFound) ||
		errors.Is(err, ErrMediaNotFound)
}

func IsInvalidUUID(err error) bool {
	return errors.Is(err, ErrInvalidUUID)
}

func IsSlugTaken(err error) bool {
	return errors.Is(err, ErrSlugTaken)
}

func IsInvalidSlug(err error) bool {
	return errors.Is(err, ErrInvalidSlug)
}

func IsUnsupportedMediaType(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType)
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
