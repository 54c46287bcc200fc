package dto

// Session error codes carried in 401/429 bodies
const (
	ErrorTokenExpired      = "TOKEN_EXPIRED"
	ErrorTooManyAttempts   = "TOO_MANY_ATTEMPTS"
	MessageTokenExpired    = "Token has expired"
	MessageTokenNotValid   = "Token is not valid"
	MessageNoToken         = "No token, authorization denied"
	MessageInvalidLogin    = "Invalid credentials"
	MessageInvalidRefresh  = "Invalid refresh token"
	MessageNoRefreshToken  = "Refresh token not found"
	MessageTooManyAttempts = "Too many login attempts, try again later"
)

// AdminLoginRequest is the body of POST /admin/login
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"owner@farm.example"`
	Password string `json:"password" validate:"required,max=128" example:"correct horse battery staple"`
}

// AdminSummaryDTO is the public view of the logged-in admin
type AdminSummaryDTO struct {
	Email string `json:"email" example:"owner@farm.example"`
	Role  string `json:"role" example:"admin"`
}

// AdminPayloadDTO mirrors the identity inside an access token
type AdminPayloadDTO struct {
	IsAdmin bool   `json:"isAdmin"`
	Email   string `json:"email"`
	ID      string `json:"id"`
}

// AdminSession is what Login hands to the transport layer. RefreshToken
// travels only in the cookie and is never serialized.
type AdminSession struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"-"`
	Admin        AdminSummaryDTO `json:"admin"`
}

// TokenPair is the result of a refresh rotation
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

// AdminLoginResponse is the body of a successful login
type AdminLoginResponse struct {
	AccessToken string          `json:"accessToken"`
	Message     string          `json:"message" example:"Login successful"`
	Admin       AdminSummaryDTO `json:"admin"`
}

// RefreshTokenResponse is the body of a successful refresh
type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
	Message     string `json:"message" example:"Token refreshed"`
}

// VerifyTokenResponse is the body of GET /admin/verify
type VerifyTokenResponse struct {
	Valid bool            `json:"valid"`
	Admin AdminPayloadDTO `json:"admin"`
}

// MessageResponse is a bare {message} body
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthErrorResponse is the 401/429 body; Code is set only for machine-actionable cases
type AuthErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
