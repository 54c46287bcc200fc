package businessflow

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/services"
	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/repository"
	"github.com/amirphl/farm-storefront/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminSessionFlow issues, rotates and revokes admin sessions.
//
// Each admin has at most one live refresh token, stored on the admin row.
// Login overwrites it, Refresh swaps it only if the presented token still
// matches, and Logout clears it the same way.
type AdminSessionFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminSession, error)
	Refresh(ctx context.Context, presented string, metadata *ClientMetadata) (*dto.TokenPair, error)
	Logout(ctx context.Context, presented string, metadata *ClientMetadata)
	VerifyAccessToken(ctx context.Context, token string) (*services.AdminPayload, error)
}

// AdminSessionFlowImpl implements AdminSessionFlow
type AdminSessionFlowImpl struct {
	adminRepo    repository.AdminRepository
	tokenService services.TokenService
	limiter      services.LoginLimiter
	dummyHash    []byte
}

// NewAdminSessionFlow creates the session authority. limiter may be nil.
func NewAdminSessionFlow(adminRepo repository.AdminRepository, tokenService services.TokenService, limiter services.LoginLimiter) (AdminSessionFlow, error) {
	// Compared against when the email is unknown so both paths cost one bcrypt run.
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to seed dummy hash: %w", err)
	}
	dummyHash, err := bcrypt.GenerateFromPassword(seed, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to build dummy hash: %w", err)
	}

	return &AdminSessionFlowImpl{
		adminRepo:    adminRepo,
		tokenService: tokenService,
		limiter:      limiter,
		dummyHash:    dummyHash,
	}, nil
}

// Login checks credentials, issues a token pair and stores the refresh token.
// Unknown email, wrong password and inactive account are indistinguishable.
func (f *AdminSessionFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminSession, error) {
	if req == nil || utils.NormalizeEmail(req.Email) == "" || req.Password == "" {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Email and password are required", ErrMissingCredentials)
	}
	email := utils.NormalizeEmail(req.Email)

	if f.limiter != nil {
		blocked, err := f.limiter.Blocked(ctx, email)
		if err != nil {
			log.Printf("login limiter unavailable for %s: %v", metadata, err)
		}
		if blocked {
			services.RecordAuthEvent("login", "locked")
			return nil, NewBusinessError("TOO_MANY_ATTEMPTS", "Too many login attempts", ErrTooManyLoginAttempts)
		}
	}

	admin, err := f.adminRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}

	hash := f.dummyHash
	if admin != nil {
		hash = []byte(admin.PasswordHash)
	}
	passwordErr := bcrypt.CompareHashAndPassword(hash, []byte(req.Password))

	if admin == nil || passwordErr != nil || !utils.IsTrue(admin.IsActive) {
		f.recordFailure(ctx, email, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid credentials", ErrInvalidCredentials)
	}

	accessToken, refreshToken, err := f.tokenService.IssueTokenPair(payloadFor(admin))
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	if err := f.adminRepo.StoreRefreshToken(ctx, admin.ID, refreshToken, utils.UTCNow()); err != nil {
		return nil, NewBusinessError("SESSION_STORE_FAILED", "Failed to store session", err)
	}

	if f.limiter != nil {
		if err := f.limiter.Reset(ctx, email); err != nil {
			log.Printf("login limiter reset failed for %s: %v", metadata, err)
		}
	}

	services.RecordAuthEvent("login", "success")
	log.Printf("admin %s logged in %s", admin.UUID, metadata)

	return &dto.AdminSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin: dto.AdminSummaryDTO{
			Email: admin.Email,
			Role:  admin.Role,
		},
	}, nil
}

func (f *AdminSessionFlowImpl) recordFailure(ctx context.Context, email string, metadata *ClientMetadata) {
	services.RecordAuthEvent("login", "rejected")
	if f.limiter == nil {
		return
	}
	n, err := f.limiter.RecordFailure(ctx, email)
	if err != nil {
		log.Printf("login limiter record failed for %s: %v", metadata, err)
		return
	}
	if n > 1 {
		log.Printf("repeated failed admin login (%d) %s", n, metadata)
	}
}

// Refresh rotates the refresh token. The presented token must verify and equal
// the stored one, and the swap only lands if nobody rotated it first.
func (f *AdminSessionFlowImpl) Refresh(ctx context.Context, presented string, metadata *ClientMetadata) (*dto.TokenPair, error) {
	if presented == "" {
		services.RecordAuthEvent("refresh", "missing")
		return nil, NewBusinessError("REFRESH_TOKEN_MISSING", "Refresh token not found", ErrMissingToken)
	}

	admin, err := f.adminForRefreshToken(ctx, presented)
	if err != nil {
		services.RecordAuthEvent("refresh", "rejected")
		return nil, err
	}
	if !utils.IsTrue(admin.IsActive) || !admin.HasSession() ||
		subtle.ConstantTimeCompare([]byte(*admin.RefreshToken), []byte(presented)) != 1 {
		services.RecordAuthEvent("refresh", "rejected")
		log.Printf("stale refresh token for admin %s %s", admin.UUID, metadata)
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Invalid refresh token", ErrInvalidRefreshToken)
	}

	accessToken, refreshToken, err := f.tokenService.IssueTokenPair(payloadFor(admin))
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	swapped, err := f.adminRepo.SwapRefreshToken(ctx, admin.ID, presented, refreshToken)
	if err != nil {
		return nil, NewBusinessError("SESSION_STORE_FAILED", "Failed to rotate session", err)
	}
	if !swapped {
		services.RecordAuthEvent("refresh", "raced")
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Invalid refresh token", ErrInvalidRefreshToken)
	}

	services.RecordAuthEvent("refresh", "success")
	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout clears the stored refresh token when the presented one still matches.
// It never fails; problems are logged.
func (f *AdminSessionFlowImpl) Logout(ctx context.Context, presented string, metadata *ClientMetadata) {
	services.RecordAuthEvent("logout", "success")
	if presented == "" {
		return
	}

	admin, err := f.adminForRefreshToken(ctx, presented)
	if err != nil {
		if !IsInvalidRefreshToken(err) {
			log.Printf("logout lookup failed %s: %v", metadata, err)
		}
		return
	}

	cleared, err := f.adminRepo.SwapRefreshToken(ctx, admin.ID, presented, "")
	if err != nil {
		log.Printf("logout failed to clear session for admin %s %s: %v", admin.UUID, metadata, err)
		return
	}
	if cleared {
		log.Printf("admin %s logged out %s", admin.UUID, metadata)
	}
}

// VerifyAccessToken is stateless: it never reads the credential store
func (f *AdminSessionFlowImpl) VerifyAccessToken(ctx context.Context, token string) (*services.AdminPayload, error) {
	claims, err := f.tokenService.VerifyAccessToken(token)
	if err != nil {
		if IsTokenExpired(err) {
			return nil, NewBusinessError("TOKEN_EXPIRED", "Token has expired", err)
		}
		return nil, NewBusinessError("TOKEN_INVALID", "Token is not valid", ErrTokenInvalid)
	}
	return &claims.AdminPayload, nil
}

func (f *AdminSessionFlowImpl) adminForRefreshToken(ctx context.Context, presented string) (*models.Admin, error) {
	claims, err := f.tokenService.VerifyRefreshToken(presented)
	if err != nil {
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Invalid refresh token", fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err))
	}

	adminUUID, err := utils.ParseUUID(claims.AdminID)
	if err != nil {
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Invalid refresh token", ErrInvalidRefreshToken)
	}

	admin, err := f.adminRepo.ByUUID(ctx, adminUUID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Invalid refresh token", ErrInvalidRefreshToken)
	}
	return admin, nil
}

func payloadFor(admin *models.Admin) services.AdminPayload {
	return services.AdminPayload{
		IsAdmin: true,
		Email:   admin.Email,
		AdminID: admin.UUID.String(),
	}
}

// EnsureBootstrapAdmin creates the configured admin if no admin with that
// email exists yet. It never changes an existing admin's password.
func EnsureBootstrapAdmin(ctx context.Context, adminRepo repository.AdminRepository, email, password string, bcryptCost int) (bool, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := adminRepo.ByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to lookup bootstrap admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Role:         utils.AdminRole,
		IsActive:     utils.ToPtr(true),
	}
	if err := adminRepo.Save(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return true, nil
}
