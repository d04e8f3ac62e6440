package partner

import (
	"encoding/json"
	"testing"

	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterpartyType_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		cpType CounterpartyType
		valid  bool
	}{
		{"vendor is valid", CounterpartyVendor, true},
		{"customer is valid", CounterpartyCustomer, true},
		{"empty is invalid", CounterpartyType(""), false},
		{"unknown is invalid", CounterpartyType("SUPPLIER"), false},
		{"lowercase is invalid", CounterpartyType("vendor"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.cpType.IsValid())
		})
	}
}

func TestNewCounterparty(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates an active vendor record", func(t *testing.T) {
		c, err := NewCounterparty(tenantID, CounterpartyVendor, "Maersk Line India")

		require.NoError(t, err)
		assert.Equal(t, tenantID, c.TenantID)
		assert.Equal(t, CounterpartyVendor, c.Type)
		assert.Equal(t, "Maersk Line India", c.DisplayName)
		assert.True(t, c.Active)
		assert.NotEqual(t, uuid.Nil, c.ID)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		_, err := NewCounterparty(tenantID, CounterpartyType("BROKER"), "Someone")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TYPE", domainErr.Code)
	})

	t.Run("rejects an empty display name", func(t *testing.T) {
		_, err := NewCounterparty(tenantID, CounterpartyCustomer, "")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("rejects a display name over 200 characters", func(t *testing.T) {
		long := make([]byte, 201)
		for i := range long {
			long[i] = 'a'
		}
		_, err := NewCounterparty(tenantID, CounterpartyCustomer, string(long))

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})
}

func TestCounterparty_UpdateContact(t *testing.T) {
	c, err := NewCounterparty(uuid.New(), CounterpartyVendor, "Evergreen Shipping")
	require.NoError(t, err)
	initialVersion := c.Version

	c.UpdateContact("12 Harbour Rd", "Maharashtra", "India", "27AAACE1234F1Z5", "+91-22-5550100", "")

	assert.Equal(t, "12 Harbour Rd", c.Address)
	assert.Equal(t, "Maharashtra", c.State)
	assert.Equal(t, "India", c.Country)
	assert.Equal(t, "27AAACE1234F1Z5", c.TaxID)
	assert.Equal(t, "+91-22-5550100", c.Phone)
	assert.Equal(t, "", c.Fax)
	assert.Greater(t, c.Version, initialVersion)
}

func TestCounterparty_Deactivate(t *testing.T) {
	c, err := NewCounterparty(uuid.New(), CounterpartyCustomer, "Acme Exports")
	require.NoError(t, err)
	require.True(t, c.Active)

	c.Deactivate()

	assert.False(t, c.Active)
}

func TestCounterparty_JSON(t *testing.T) {
	c, err := NewCounterparty(uuid.New(), CounterpartyVendor, "Hapag Lloyd")
	require.NoError(t, err)
	c.UpdateContact("", "", "Germany", "", "", "")

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "VENDOR", decoded["type"])
	assert.Equal(t, "Hapag Lloyd", decoded["display_name"])
	assert.Equal(t, "Germany", decoded["country"])
	assert.Equal(t, true, decoded["active"])
}
