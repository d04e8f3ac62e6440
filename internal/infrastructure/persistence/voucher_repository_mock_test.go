package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/freightbooks/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockVoucherRepository creates a GormVoucherRepository with a mocked SQL connection
func newMockVoucherRepository(t *testing.T) (*GormVoucherRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormVoucherRepository(gormDB), mock, mockDB
}

func TestGormVoucherRepository_DatabaseErrors(t *testing.T) {
	t.Run("find propagates connection errors", func(t *testing.T) {
		repo, mock, mockDB := newMockVoucherRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "vouchers"`).
			WillReturnError(sql.ErrConnDone)

		found, err := repo.FindByIDForTenant(context.Background(), tenantID, id)
		assert.Error(t, err)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list propagates count errors", func(t *testing.T) {
		repo, mock, mockDB := newMockVoucherRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "vouchers"`).
			WillReturnError(sql.ErrConnDone)

		vouchers, total, err := repo.FindAllForTenant(context.Background(), uuid.New(), voucher.Filter{})
		assert.Error(t, err)
		assert.Nil(t, vouchers)
		assert.Zero(t, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
