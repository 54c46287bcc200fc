package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/handlers"
	"github.com/amirphl/farm-storefront/app/middleware"
	"github.com/amirphl/farm-storefront/app/services"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	liveAccessSecret  = "guard-access-secret-for-jwt-signing"
	liveRefreshSecret = "guard-refresh-secret-for-jwt-signing"
	liveIssuer        = "farm-storefront"
	liveAudience      = "farm-storefront-admin"
	liveEmail         = "owner@farm.example"
	livePassword      = "secret"
)

// singleAdminStore is an in-memory AdminRepository holding one account
type singleAdminStore struct {
	mu    sync.Mutex
	admin models.Admin
}

func (s *singleAdminStore) snapshot() *models.Admin {
	c := s.admin
	if s.admin.RefreshToken != nil {
		c.RefreshToken = utils.ToPtr(*s.admin.RefreshToken)
	}
	return &c
}

func (s *singleAdminStore) refreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin.RefreshToken == nil {
		return ""
	}
	return *s.admin.RefreshToken
}

func (s *singleAdminStore) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.admin.ID {
		return nil, nil
	}
	return s.snapshot(), nil
}

func (s *singleAdminStore) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []*models.Admin{s.snapshot()}, nil
}

func (s *singleAdminStore) Save(ctx context.Context, admin *models.Admin) error { return nil }

func (s *singleAdminStore) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	return 1, nil
}

func (s *singleAdminStore) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	return true, nil
}

func (s *singleAdminStore) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if utils.NormalizeEmail(email) != s.admin.Email {
		return nil, nil
	}
	return s.snapshot(), nil
}

func (s *singleAdminStore) ByUUID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.admin.UUID {
		return nil, nil
	}
	return s.snapshot(), nil
}

func (s *singleAdminStore) StoreRefreshToken(ctx context.Context, adminID uint, token string, loginAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin.RefreshToken = utils.ToPtr(token)
	s.admin.LastLoginAt = utils.ToPtr(loginAt)
	return nil
}

func (s *singleAdminStore) SwapRefreshToken(ctx context.Context, adminID uint, expected, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if adminID != s.admin.ID || expected == "" || s.admin.RefreshToken == nil || *s.admin.RefreshToken != expected {
		return false, nil
	}
	if next == "" {
		s.admin.RefreshToken = nil
	} else {
		s.admin.RefreshToken = utils.ToPtr(next)
	}
	return true, nil
}

type liveAdminAPI struct {
	server *httptest.Server
	store  *singleAdminStore
}

// newLiveAdminAPI serves the real session flow and handlers over HTTP
func newLiveAdminAPI(t *testing.T) *liveAdminAPI {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(livePassword), bcrypt.MinCost)
	require.NoError(t, err)
	store := &singleAdminStore{admin: models.Admin{
		ID:           1,
		UUID:         uuid.New(),
		Email:        liveEmail,
		PasswordHash: string(hash),
		Role:         utils.AdminRole,
		IsActive:     utils.ToPtr(true),
	}}

	tokens, err := services.NewTokenService(liveAccessSecret, liveRefreshSecret, 0, 0, liveIssuer, liveAudience)
	require.NoError(t, err)
	flow, err := businessflow.NewAdminSessionFlow(store, tokens, nil)
	require.NoError(t, err)

	app := fiber.New()
	h := handlers.NewAdminAuthHandler(flow, false)
	auth := middleware.NewAuthMiddleware(flow)
	app.Post("/admin/login", h.Login)
	app.Post("/admin/refresh-token", h.RefreshToken)
	app.Post("/admin/logout", h.Logout)
	app.Get("/admin/verify", auth.AdminAuthenticate(), h.Verify)

	server := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(server.Close)
	return &liveAdminAPI{server: server, store: store}
}

func (a *liveAdminAPI) expiredAccessToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.AdminTokenClaims{
		AdminPayload: services.AdminPayload{IsAdmin: true, Email: liveEmail, AdminID: a.store.admin.UUID.String()},
		TokenType:    services.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    liveIssuer,
			Audience:  jwt.ClaimStrings{liveAudience},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-45 * time.Minute)),
		},
	}).SignedString([]byte(liveAccessSecret))
	require.NoError(t, err)
	return token
}

// refreshWithCookie posts a refresh outside the guard's cookie jar
func (a *liveAdminAPI) refreshWithCookie(t *testing.T, refreshToken string) (int, dto.AuthErrorResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/admin/refresh-token", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: utils.RefreshTokenCookieName, Value: refreshToken})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.AuthErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func verifyThroughGuard(t *testing.T, guard *SessionGuard) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, guard.URL("/admin/verify"), nil)
	require.NoError(t, err)
	resp, err := guard.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestSessionLifecycleAgainstLiveFlow(t *testing.T) {
	api := newLiveAdminAPI(t)
	ctx := context.Background()

	guard, err := NewSessionGuard(api.server.URL, nil)
	require.NoError(t, err)
	_, err = guard.Login(ctx, liveEmail, livePassword)
	require.NoError(t, err)

	first := api.store.refreshToken()
	require.NotEmpty(t, first)
	assert.Equal(t, http.StatusOK, verifyThroughGuard(t, guard))

	// expired access token: the guard refreshes from its cookie jar and replays
	guard.SetAccessToken(api.expiredAccessToken(t))
	assert.Equal(t, http.StatusOK, verifyThroughGuard(t, guard))
	second := api.store.refreshToken()
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	// the rotated-away token is refused and the live one is untouched
	status, body := api.refreshWithCookie(t, first)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, dto.MessageInvalidRefresh, body.Message)
	assert.Equal(t, second, api.store.refreshToken())

	// the session keeps rotating with the cookie the guard holds
	guard.SetAccessToken(api.expiredAccessToken(t))
	assert.Equal(t, http.StatusOK, verifyThroughGuard(t, guard))
	third := api.store.refreshToken()
	assert.NotEqual(t, second, third)

	require.NoError(t, guard.Logout(ctx))
	assert.Empty(t, guard.AccessToken())
	assert.Empty(t, api.store.refreshToken())

	status, _ = api.refreshWithCookie(t, third)
	assert.Equal(t, http.StatusUnauthorized, status)
}
