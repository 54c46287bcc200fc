// Package services provides technical concerns such as token issuance, media storage and caching
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/farm-storefront/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenService issues and verifies admin JWTs. Access and refresh tokens are
// signed with different secrets, so neither verifies as the other.
type TokenService interface {
	IssueAccessToken(payload AdminPayload) (string, error)
	IssueRefreshToken(payload AdminPayload) (string, error)
	IssueTokenPair(payload AdminPayload) (accessToken, refreshToken string, err error)
	VerifyAccessToken(token string) (*AdminTokenClaims, error)
	VerifyRefreshToken(token string) (*AdminTokenClaims, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// AdminPayload is the identity carried inside admin tokens
type AdminPayload struct {
	IsAdmin bool   `json:"isAdmin"`
	Email   string `json:"email"`
	AdminID string `json:"id"`
}

// AdminTokenClaims represents claims for admin JWTs
type AdminTokenClaims struct {
	AdminPayload
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenServiceImpl implements TokenService with HS256
type TokenServiceImpl struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
	audience        string
	now             func() time.Time
}

// NewTokenService creates a new token service. Both secrets are required and must differ.
func NewTokenService(accessSecret, refreshSecret string, accessTokenTTL, refreshTokenTTL time.Duration, issuer, audience string) (TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("access and refresh secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("access and refresh secrets must differ")
	}
	if accessTokenTTL <= 0 {
		accessTokenTTL = utils.AccessTokenTTL
	}
	if refreshTokenTTL <= 0 {
		refreshTokenTTL = utils.RefreshTokenTTL
	}

	return &TokenServiceImpl{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		issuer:          issuer,
		audience:        audience,
		now:             utils.UTCNow,
	}, nil
}

func (s *TokenServiceImpl) AccessTokenTTL() time.Duration  { return s.accessTokenTTL }
func (s *TokenServiceImpl) RefreshTokenTTL() time.Duration { return s.refreshTokenTTL }

// IssueAccessToken signs a short-lived access token
func (s *TokenServiceImpl) IssueAccessToken(payload AdminPayload) (string, error) {
	return s.issue(payload, TokenTypeAccess, s.accessSecret, s.accessTokenTTL)
}

// IssueRefreshToken signs a long-lived refresh token
func (s *TokenServiceImpl) IssueRefreshToken(payload AdminPayload) (string, error) {
	return s.issue(payload, TokenTypeRefresh, s.refreshSecret, s.refreshTokenTTL)
}

// IssueTokenPair signs both tokens for the same payload
func (s *TokenServiceImpl) IssueTokenPair(payload AdminPayload) (accessToken, refreshToken string, err error) {
	accessToken, err = s.IssueAccessToken(payload)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.IssueRefreshToken(payload)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *TokenServiceImpl) issue(payload AdminPayload, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	tokenID, err := generateTokenID()
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := AdminTokenClaims{
		AdminPayload: payload,
		TokenType:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   payload.AdminID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// VerifyAccessToken checks signature, expiry and type of an access token
func (s *TokenServiceImpl) VerifyAccessToken(token string) (*AdminTokenClaims, error) {
	return s.verify(token, s.accessSecret, TokenTypeAccess)
}

// VerifyRefreshToken checks signature, expiry and type of a refresh token
func (s *TokenServiceImpl) VerifyRefreshToken(token string) (*AdminTokenClaims, error) {
	return s.verify(token, s.refreshSecret, TokenTypeRefresh)
}

// verify returns ErrTokenExpired only for a correctly signed token past its exp;
// every other failure is ErrTokenInvalid.
func (s *TokenServiceImpl) verify(token string, secret []byte, tokenType string) (*AdminTokenClaims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := &AdminTokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != tokenType || !claims.IsAdmin || claims.AdminID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// generateTokenID generates a unique token ID
func generateTokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
