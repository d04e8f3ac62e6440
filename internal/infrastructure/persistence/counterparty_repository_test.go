package persistence

import (
	"context"
	"testing"

	"github.com/freightbooks/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCounterpartyTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&partner.Counterparty{})
	require.NoError(t, err)

	return db
}

func TestGormCounterpartyRepository(t *testing.T) {
	db := setupCounterpartyTestDB(t)
	repo := NewGormCounterpartyRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	vendor, err := partner.NewCounterparty(tenantID, partner.CounterpartyVendor, "Oceanic Freight LLC")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, vendor))

	customer, err := partner.NewCounterparty(tenantID, partner.CounterpartyCustomer, "Meridian Exports")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, customer))

	t.Run("finds by ID for the owning tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, vendor.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Oceanic Freight LLC", found.DisplayName)
	})

	t.Run("returns nil for another tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, uuid.New(), vendor.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("lists all for tenant", func(t *testing.T) {
		all, total, err := repo.FindAllForTenant(ctx, tenantID, partner.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)
		// ordered by display name
		assert.Equal(t, "Meridian Exports", all[0].DisplayName)
	})

	t.Run("filters by type", func(t *testing.T) {
		typ := partner.CounterpartyVendor
		all, total, err := repo.FindAllForTenant(ctx, tenantID, partner.Filter{Type: &typ})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, all, 1)
		assert.Equal(t, partner.CounterpartyVendor, all[0].Type)
	})

	t.Run("sorts by a whitelisted field", func(t *testing.T) {
		all, _, err := repo.FindAllForTenant(ctx, tenantID, partner.Filter{
			SortBy:  "display_name",
			SortDir: "desc",
		})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Oceanic Freight LLC", all[0].DisplayName)
	})

	t.Run("filters out deactivated counterparties", func(t *testing.T) {
		vendor.Deactivate()
		require.NoError(t, repo.Save(ctx, vendor))

		active := true
		all, total, err := repo.FindAllForTenant(ctx, tenantID, partner.Filter{Active: &active})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, all, 1)
		assert.Equal(t, "Meridian Exports", all[0].DisplayName)
	})
}
