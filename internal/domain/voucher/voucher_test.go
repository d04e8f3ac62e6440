package voucher

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestVoucher(t *testing.T) *Voucher {
	t.Helper()
	v, err := NewVoucher(uuid.New(), KindVendor, "JV-2026-0001", "JOB-1001", "SUB-1")
	require.NoError(t, err)
	return v
}

func TestNewVoucher(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates voucher with valid inputs", func(t *testing.T) {
		v, err := NewVoucher(tenantID, KindCustomer, "JV-2026-0002", "JOB-1001", "")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, v.ID)
		assert.Equal(t, tenantID, v.TenantID)
		assert.Equal(t, KindCustomer, v.Kind)
		assert.Equal(t, StatusEditing, v.Status)
		assert.Equal(t, BaseCurrency, v.Currency)
		assert.Empty(t, v.LineItems)
	})

	t.Run("fails without job reference", func(t *testing.T) {
		_, err := NewVoucher(tenantID, KindVendor, "JV-2026-0003", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Job reference is required")
	})

	t.Run("fails with invalid kind", func(t *testing.T) {
		_, err := NewVoucher(tenantID, Kind("BOTH"), "JV-2026-0004", "JOB-1001", "")
		require.Error(t, err)
	})

	t.Run("fails with empty voucher number", func(t *testing.T) {
		_, err := NewVoucher(tenantID, KindVendor, "", "JOB-1001", "")
		require.Error(t, err)
	})
}

func TestVoucherReplaceLineItems(t *testing.T) {
	engine := testEngine()

	t.Run("assigns positions and recomputes derived fields", func(t *testing.T) {
		v := createTestVoucher(t)
		items := []LineItem{
			testRow(2, 100, 1, 18, INR),
			testRow(2, 100, 88.5, 18, USD),
		}

		require.NoError(t, v.ReplaceLineItems(engine, items))

		require.Len(t, v.LineItems, 2)
		assert.Equal(t, 0, v.LineItems[0].Position)
		assert.Equal(t, 1, v.LineItems[1].Position)
		assert.Equal(t, v.ID, v.LineItems[0].VoucherID)
		assertDecimal(t, "236.00", v.LineItems[0].LineTotal)
		assertDecimal(t, "20886.00", v.LineItems[1].LineTotal)
	})

	t.Run("stale derived values from a fetched record are overwritten", func(t *testing.T) {
		v := createTestVoucher(t)
		row := testRow(2, 100, 1, 18, INR)
		row.LineTotal = SafeDecimal(999999) // drifted value

		require.NoError(t, v.ReplaceLineItems(engine, []LineItem{row}))
		assertDecimal(t, "236.00", v.LineItems[0].LineTotal)
	})

	t.Run("rejected after submit", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.ReplaceLineItems(engine, []LineItem{testRow(1, 10, 1, 0, INR)}))
		require.NoError(t, v.Submit())

		err := v.ReplaceLineItems(engine, []LineItem{testRow(1, 20, 1, 0, INR)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUBMITTED")
	})
}

func TestVoucherSubmit(t *testing.T) {
	engine := testEngine()

	t.Run("submits an editing voucher with rows", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.ReplaceLineItems(engine, []LineItem{testRow(1, 10, 1, 18, INR)}))

		require.NoError(t, v.Submit())
		assert.Equal(t, StatusSubmitted, v.Status)
		assert.NotNil(t, v.SubmittedAt)
	})

	t.Run("rejects an empty voucher", func(t *testing.T) {
		v := createTestVoucher(t)
		err := v.Submit()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one line item")
	})

	t.Run("rejects a duplicate submit", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.ReplaceLineItems(engine, []LineItem{testRow(1, 10, 1, 18, INR)}))
		require.NoError(t, v.Submit())

		err := v.Submit()
		require.Error(t, err)
	})
}

func TestVoucherCancel(t *testing.T) {
	t.Run("cancels an editing voucher", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.Cancel())
		assert.Equal(t, StatusCancelled, v.Status)
		assert.NotNil(t, v.CancelledAt)
	})

	t.Run("cannot cancel a submitted voucher", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.ReplaceLineItems(testEngine(), []LineItem{testRow(1, 10, 1, 18, INR)}))
		require.NoError(t, v.Submit())

		err := v.Cancel()
		require.Error(t, err)
	})
}

func TestVoucherSetCounterparty(t *testing.T) {
	v := createTestVoucher(t)
	cpID := uuid.New()

	require.NoError(t, v.SetCounterparty(cpID, "Oceanic Freight LLC", "12 Marine Drive", "Maharashtra", "India", "27AAACO1234A1Z5"))
	assert.Equal(t, cpID, v.CounterpartyID)
	assert.Equal(t, "Oceanic Freight LLC", v.CounterpartyName)

	t.Run("rejects empty name", func(t *testing.T) {
		err := v.SetCounterparty(cpID, "", "", "", "", "")
		require.Error(t, err)
	})

	t.Run("rejects nil counterparty ID", func(t *testing.T) {
		err := v.SetCounterparty(uuid.Nil, "Someone", "", "", "", "")
		require.Error(t, err)
	})
}
