package testing

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/utils"
	"golang.org/x/crypto/bcrypt"
)

// ErrDatabaseUnavailable marks setup failures so callers can skip instead of fail
var ErrDatabaseUnavailable = errors.New("test database unavailable")

// TestAdminPassword is the plaintext password of every fixture admin
const TestAdminPassword = "Harvest-Moon-2024!"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// HashTestPassword hashes with the minimum bcrypt cost to keep tests fast
func HashTestPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CreateTestAdmin inserts an active admin with TestAdminPassword
func (tf *TestFixtures) CreateTestAdmin() (*models.Admin, error) {
	hashed, err := HashTestPassword(TestAdminPassword)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Email:        fmt.Sprintf("farmer.%d@example.com", rand.Intn(100000000)),
		PasswordHash: hashed,
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestProduct inserts a product in the given category
func (tf *TestFixtures) CreateTestProduct(name, category string, featured bool) (*models.Product, error) {
	product := &models.Product{
		Name:       name,
		Category:   category,
		PriceCents: int64(100 + rand.Intn(5000)),
		Unit:       "each",
		InStock:    utils.ToPtr(true),
		Featured:   utils.ToPtr(featured),
	}
	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}
