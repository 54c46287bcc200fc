package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-for-jwt-signing-32"
	testRefreshSecret = "test-refresh-secret-for-jwt-signing-32"
)

var testPayload = AdminPayload{IsAdmin: true, Email: "owner@farm.example", AdminID: "6f1c2a5e-6c1f-4f0e-9a55-0c3c1d0b8d11"}

// createTestTokenService creates a token service with the default TTLs
func createTestTokenService(t testing.TB) *TokenServiceImpl {
	t.Helper()
	svc, err := NewTokenService(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour, "test-issuer", "test-audience")
	require.NoError(t, err)
	return svc.(*TokenServiceImpl)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
		expectError   bool
	}{
		{name: "distinct secrets", accessSecret: testAccessSecret, refreshSecret: testRefreshSecret},
		{name: "missing access secret", refreshSecret: testRefreshSecret, expectError: true},
		{name: "missing refresh secret", accessSecret: testAccessSecret, expectError: true},
		{name: "shared secret", accessSecret: testAccessSecret, refreshSecret: testAccessSecret, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewTokenService(tt.accessSecret, tt.refreshSecret, 0, 0, "iss", "aud")
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 15*time.Minute, svc.AccessTokenTTL())
			assert.Equal(t, 7*24*time.Hour, svc.RefreshTokenTTL())
		})
	}
}

func TestIssueTokenPair(t *testing.T) {
	svc := createTestTokenService(t)

	access, refresh, err := svc.IssueTokenPair(testPayload)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)
	assert.Len(t, strings.Split(access, "."), 3)

	claims, err := svc.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, testPayload, claims.AdminPayload)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	refreshClaims, err := svc.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refreshClaims.ExpiresAt.Time, 5*time.Second)
}

func TestTokensIssuedTogetherDiffer(t *testing.T) {
	svc := createTestTokenService(t)

	first, err := svc.IssueRefreshToken(testPayload)
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(testPayload)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsCrossedTokenKinds(t *testing.T) {
	svc := createTestTokenService(t)
	access, refresh, err := svc.IssueTokenPair(testPayload)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenExpiration(t *testing.T) {
	svc := createTestTokenService(t)

	issuedAt := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issuedAt }
	access, refresh, err := svc.IssueTokenPair(testPayload)
	require.NoError(t, err)

	svc.now = time.Now

	_, err = svc.VerifyAccessToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// refresh TTL is a week, so it is still good
	_, err = svc.VerifyRefreshToken(refresh)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }
	_, err = svc.VerifyRefreshToken(refresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSecurity(t *testing.T) {
	svc := createTestTokenService(t)

	other, err := NewTokenService("another-access-secret-32-characters", "another-refresh-secret-32-characters", 0, 0, "test-issuer", "test-audience")
	require.NoError(t, err)

	foreign, err := other.IssueAccessToken(testPayload)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenWithBadSignatureIsInvalid(t *testing.T) {
	svc := createTestTokenService(t)

	claims := AdminTokenClaims{
		AdminPayload: testPayload,
		TokenType:    TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Audience:  jwt.ClaimStrings{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-access-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenValidationEdgeCases(t *testing.T) {
	svc := createTestTokenService(t)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminTokenClaims{
		AdminPayload: testPayload,
		TokenType:    TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Audience:  jwt.ClaimStrings{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	notAdmin := testPayload
	notAdmin.IsAdmin = false
	notAdminToken, err := svc.IssueAccessToken(notAdmin)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"gibberish", "not-a-jwt"},
		{"two segments", "abc.def"},
		{"alg none", noneToken},
		{"payload without admin flag", notAdminToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestWrongAudienceIsInvalid(t *testing.T) {
	svc := createTestTokenService(t)
	other, err := NewTokenService(testAccessSecret, testRefreshSecret, 0, 0, "test-issuer", "storefront-public")
	require.NoError(t, err)

	token, err := other.IssueAccessToken(testPayload)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	svc := createTestTokenService(t)

	const n = 50
	var wg sync.WaitGroup
	tokens := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := svc.IssueRefreshToken(testPayload)
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, token := range tokens {
		_, dup := seen[token]
		assert.False(t, dup)
		seen[token] = struct{}{}
	}
}

func BenchmarkIssueTokenPair(b *testing.B) {
	svc := createTestTokenService(b)
	for b.Loop() {
		_, _, _ = svc.IssueTokenPair(testPayload)
	}
}

func BenchmarkVerifyAccessToken(b *testing.B) {
	svc := createTestTokenService(b)
	token, _ := svc.IssueAccessToken(testPayload)
	for b.Loop() {
		_, _ = svc.VerifyAccessToken(token)
	}
}
