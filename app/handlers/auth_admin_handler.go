package handlers

import (
	"log"
	"time"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/middleware"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminAuthHandlerInterface defines the contract for admin session handlers
type AdminAuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Verify(c fiber.Ctx) error
}

// AdminAuthHandler binds the session authority to HTTP. The refresh token only
// ever travels in the refreshToken cookie.
type AdminAuthHandler struct {
	flow         businessflow.AdminSessionFlow
	validator    *validator.Validate
	cookieSecure bool
}

// NewAdminAuthHandler creates the admin auth handler. cookieSecure sets the
// Secure attribute of the refresh cookie.
func NewAdminAuthHandler(flow businessflow.AdminSessionFlow, cookieSecure bool) *AdminAuthHandler {
	return &AdminAuthHandler{
		flow:         flow,
		validator:    validator.New(),
		cookieSecure: cookieSecure,
	}
}

// Login authenticates an admin
// @Summary Admin login
// @Description Verify email and password. The access token is returned in the body, the refresh token in an HttpOnly cookie.
// @Tags Admin Authentication
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.AdminLoginResponse "Login successful"
// @Header 200 {string} Set-Cookie "refreshToken=...; HttpOnly; SameSite=Strict; Max-Age=604800"
// @Failure 400 {object} dto.MessageResponse "Missing or invalid fields"
// @Failure 401 {object} dto.MessageResponse "Invalid credentials"
// @Failure 429 {object} dto.AuthErrorResponse "Too many attempts"
// @Failure 500 {object} dto.MessageResponse "Server error"
// @Router /admin/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "Invalid request body"})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: validationMessages(err)[0]})
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	session, err := h.flow.Login(ctx, &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsMissingCredentials(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "Email and password are required"})
		case businessflow.IsTooManyLoginAttempts(err):
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.AuthErrorResponse{
				Message: dto.MessageTooManyAttempts,
				Code:    dto.ErrorTooManyAttempts,
			})
		case businessflow.IsInvalidCredentials(err):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.MessageResponse{Message: dto.MessageInvalidLogin})
		}
		log.Println("Admin login failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "Server error"})
	}

	h.setRefreshCookie(c, session.RefreshToken)
	return c.Status(fiber.StatusOK).JSON(dto.AdminLoginResponse{
		AccessToken: session.AccessToken,
		Message:     "Login successful",
		Admin:       session.Admin,
	})
}

// RefreshToken rotates the refresh cookie and issues a new access token
// @Summary Refresh admin session
// @Description Exchange the refreshToken cookie for a new access token. The cookie is rotated; the old value stops working.
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse "Token refreshed"
// @Failure 401 {object} dto.MessageResponse "Missing or invalid refresh token"
// @Failure 500 {object} dto.MessageResponse "Server error"
// @Router /admin/refresh-token [post]
func (h *AdminAuthHandler) RefreshToken(c fiber.Ctx) error {
	presented := c.Cookies(utils.RefreshTokenCookieName)
	if presented == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.MessageResponse{Message: dto.MessageNoRefreshToken})
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	pair, err := h.flow.Refresh(ctx, presented, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsMissingToken(err):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.MessageResponse{Message: dto.MessageNoRefreshToken})
		case businessflow.IsInvalidRefreshToken(err):
			h.clearRefreshCookie(c)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.MessageResponse{Message: dto.MessageInvalidRefresh})
		}
		log.Println("Admin token refresh failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "Server error"})
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusOK).JSON(dto.RefreshTokenResponse{
		AccessToken: pair.AccessToken,
		Message:     "Token refreshed",
	})
}

// Logout ends the admin session
// @Summary Admin logout
// @Description Clears the stored refresh token when the cookie still matches it. Always succeeds.
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.MessageResponse "Logged out"
// @Router /admin/logout [post]
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	h.flow.Logout(ctx, c.Cookies(utils.RefreshTokenCookieName), clientMetadata(c))
	h.clearRefreshCookie(c)
	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// Verify reports the identity behind a valid access token
// @Summary Verify admin access token
// @Tags Admin Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.VerifyTokenResponse "Token is valid"
// @Failure 401 {object} dto.AuthErrorResponse "Token missing, invalid or expired"
// @Router /admin/verify [get]
func (h *AdminAuthHandler) Verify(c fiber.Ctx) error {
	payload, ok := middleware.GetAdminPayloadFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{Message: dto.MessageTokenNotValid})
	}

	return c.Status(fiber.StatusOK).JSON(dto.VerifyTokenResponse{
		Valid: true,
		Admin: dto.AdminPayloadDTO{
			IsAdmin: payload.IsAdmin,
			Email:   payload.Email,
			ID:      payload.AdminID,
		},
	})
}

func (h *AdminAuthHandler) setRefreshCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.RefreshTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   utils.RefreshTokenCookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AdminAuthHandler) clearRefreshCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.RefreshTokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   h.cookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
