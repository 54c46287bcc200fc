package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the default time-to-live for admin access tokens (15 minutes)
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the default time-to-live for admin refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// RefreshTokenCookieMaxAge mirrors RefreshTokenTTL in seconds (604800)
	RefreshTokenCookieMaxAge = 604800

	// RefreshTokenCookieName is the cookie carrying the admin refresh token
	RefreshTokenCookieName = "refreshToken"
)

// Content constants
const (
	AdminRole = "admin"

	// MaxUploadSize caps gallery uploads (25 MB)
	MaxUploadSize = 25 * 1024 * 1024

	DefaultPageSize = 50
	MaxPageSize     = 200
)
