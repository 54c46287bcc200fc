package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/repository"
	testingutil "github.com/amirphl/farm-storefront/testing"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDB(t *testing.T, fn func(*testingutil.TestDB) error) {
	t.Helper()
	err := testingutil.TestWithDB(fn)
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping integration test: %v", err)
	}
	require.NoError(t, err)
}

func TestAdminRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewAdminRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		admin, err := fixtures.CreateTestAdmin()
		require.NoError(t, err)

		t.Run("ByEmailNormalizes", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, "  "+admin.Email+" ")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, admin.ID, found.ID)
			assert.Nil(t, found.RefreshToken)
		})

		t.Run("ByEmailNotFound", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, "nobody@example.com")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByUUID", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, admin.UUID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, admin.Email, found.Email)
		})

		t.Run("StoreAndSwapRefreshToken", func(t *testing.T) {
			require.NoError(t, repo.StoreRefreshToken(ctx, admin.ID, "token-a", utils.UTCNow()))

			swapped, err := repo.SwapRefreshToken(ctx, admin.ID, "token-a", "token-b")
			require.NoError(t, err)
			assert.True(t, swapped)

			// stale value no longer matches
			swapped, err = repo.SwapRefreshToken(ctx, admin.ID, "token-a", "token-c")
			require.NoError(t, err)
			assert.False(t, swapped)

			found, err := repo.ByID(ctx, admin.ID)
			require.NoError(t, err)
			require.NotNil(t, found.RefreshToken)
			assert.Equal(t, "token-b", *found.RefreshToken)
			assert.NotNil(t, found.LastLoginAt)
		})

		t.Run("SwapToEmptyClears", func(t *testing.T) {
			require.NoError(t, repo.StoreRefreshToken(ctx, admin.ID, "token-x", utils.UTCNow()))

			swapped, err := repo.SwapRefreshToken(ctx, admin.ID, "token-x", "")
			require.NoError(t, err)
			assert.True(t, swapped)

			found, err := repo.ByID(ctx, admin.ID)
			require.NoError(t, err)
			assert.Nil(t, found.RefreshToken)

			swapped, err = repo.SwapRefreshToken(ctx, admin.ID, "", "token-y")
			require.NoError(t, err)
			assert.False(t, swapped)
		})

		t.Run("ConcurrentSwapHasOneWinner", func(t *testing.T) {
			require.NoError(t, repo.StoreRefreshToken(ctx, admin.ID, "shared", utils.UTCNow()))

			const racers = 8
			var wg sync.WaitGroup
			results := make([]bool, racers)
			for i := range racers {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					ok, err := repo.SwapRefreshToken(context.Background(), admin.ID, "shared", uuid.NewString())
					assert.NoError(t, err)
					results[i] = ok
				}(i)
			}
			wg.Wait()

			winners := 0
			for _, ok := range results {
				if ok {
					winners++
				}
			}
			assert.Equal(t, 1, winners)
		})

		return nil
	})
}

func TestProductRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewProductRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		eggs, err := fixtures.CreateTestProduct("Free Range Eggs", "dairy", true)
		require.NoError(t, err)
		_, err = fixtures.CreateTestProduct("Heirloom Tomatoes", "vegetables", false)
		require.NoError(t, err)

		t.Run("BySlug", func(t *testing.T) {
			found, err := repo.BySlug(ctx, "free-range-eggs")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, eggs.UUID, found.UUID)
		})

		t.Run("ByFilter", func(t *testing.T) {
			featured, err := repo.ByFilter(ctx, models.ProductFilter{Featured: utils.ToPtr(true)}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, featured, 1)

			count, err := repo.Count(ctx, models.ProductFilter{Category: utils.ToPtr("vegetables")})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("UpdateAndDelete", func(t *testing.T) {
			eggs.PriceCents = 650
			require.NoError(t, repo.Update(ctx, eggs))

			found, err := repo.ByUUID(ctx, eggs.UUID)
			require.NoError(t, err)
			assert.Equal(t, int64(650), found.PriceCents)

			deleted, err := repo.DeleteByUUID(ctx, eggs.UUID)
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = repo.DeleteByUUID(ctx, eggs.UUID)
			require.NoError(t, err)
			assert.False(t, deleted)
		})

		return nil
	})
}

func TestSiteSettingsRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewSiteSettingsRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, settings)

		require.NoError(t, repo.Upsert(ctx, &models.SiteSettings{
			SiteName:    "Willow Creek Farm",
			SocialLinks: models.SocialLinks{"instagram": "https://instagram.com/willowcreek"},
		}))
		require.NoError(t, repo.Upsert(ctx, &models.SiteSettings{
			SiteName: "Willow Creek Farm & Dairy",
		}))

		settings, err = repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.Equal(t, "Willow Creek Farm & Dairy", settings.SiteName)
		assert.Empty(t, settings.SocialLinks)

		return nil
	})
}

func TestGalleryMediaDeleteWithObject(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewGalleryMediaRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		media := &models.GalleryMedia{
			Kind:             models.MediaKindImage,
			OriginalFilename: "orchard.jpg",
			ObjectKey:        "gallery/2026/10/orchard.jpg",
			PublicURL:        "https://media.farm.example/gallery/2026/10/orchard.jpg",
			MimeType:         "image/jpeg",
			SizeBytes:        2048,
		}
		require.NoError(t, repo.Save(ctx, media))

		t.Run("RollsBackWhenObjectRemovalFails", func(t *testing.T) {
			deleted, err := repo.DeleteWithObject(ctx, media.UUID, func(ctx context.Context) error {
				return errors.New("bucket unreachable")
			})
			require.Error(t, err)
			assert.False(t, deleted)

			kept, err := repo.ByUUID(ctx, media.UUID)
			require.NoError(t, err)
			assert.NotNil(t, kept)
		})

		t.Run("CommitsWhenObjectRemoved", func(t *testing.T) {
			var removed int
			deleted, err := repo.DeleteWithObject(ctx, media.UUID, func(ctx context.Context) error {
				removed++
				return nil
			})
			require.NoError(t, err)
			assert.True(t, deleted)
			assert.Equal(t, 1, removed)

			gone, err := repo.ByUUID(ctx, media.UUID)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})

		t.Run("MissingRowSkipsObjectRemoval", func(t *testing.T) {
			called := false
			deleted, err := repo.DeleteWithObject(ctx, uuid.New(), func(ctx context.Context) error {
				called = true
				return nil
			})
			require.NoError(t, err)
			assert.False(t, deleted)
			assert.False(t, called)
		})

		return nil
	})
}
