// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/services"
	"github.com/gofiber/fiber/v3"
)

const (
	adminPayloadLocal = "admin_payload"
	adminIDLocal      = "admin_id"
	requestIDLocal    = "request_id"
)

// AccessTokenVerifier checks an admin access token
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*services.AdminPayload, error)
}

// AuthMiddleware handles admin bearer token validation for protected endpoints
type AuthMiddleware struct {
	verifier AccessTokenVerifier
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(verifier AccessTokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// AdminAuthenticate validates the bearer access token. An expired token gets
// code TOKEN_EXPIRED so clients know to refresh; anything else is just "not valid".
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
				Message: dto.MessageNoToken,
			})
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
				Message: dto.MessageTokenNotValid,
			})
		}

		payload, err := m.verifier.VerifyAccessToken(c.Context(), token)
		if err != nil {
			return RespondTokenError(c, err)
		}

		c.Locals(adminPayloadLocal, payload)
		c.Locals(adminIDLocal, payload.AdminID)

		if requestID := c.Get(fiber.HeaderXRequestID); requestID != "" {
			c.Locals(requestIDLocal, requestID)
		}

		return c.Next()
	}
}

// RespondTokenError writes the 401 body for a failed access token check
func RespondTokenError(c fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrTokenExpired) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
			Message: dto.MessageTokenExpired,
			Code:    dto.ErrorTokenExpired,
		})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
		Message: dto.MessageTokenNotValid,
	})
}

// bearerToken extracts the token from "Bearer <token>"; the scheme is case-insensitive
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetAdminPayloadFromContext returns the verified token payload
func GetAdminPayloadFromContext(c fiber.Ctx) (*services.AdminPayload, bool) {
	payload, ok := c.Locals(adminPayloadLocal).(*services.AdminPayload)
	return payload, ok && payload != nil
}

// GetAdminIDFromContext extracts the admin's public id from the request context
func GetAdminIDFromContext(c fiber.Ctx) (string, bool) {
	adminID, ok := c.Locals(adminIDLocal).(string)
	return adminID, ok && adminID != ""
}
