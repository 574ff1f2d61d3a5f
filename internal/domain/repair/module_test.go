package repair

import (
	"testing"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleTypeIsValid(t *testing.T) {
	valid := []ModuleType{
		ModuleTypeFlatRate,
		ModuleTypeFixPrice,
		ModuleTypeAnnualFlatRate,
		ModuleTypeCoupon,
		ModuleTypePayAsYouGo,
	}
	for _, mt := range valid {
		assert.True(t, mt.IsValid(), string(mt))
	}
	assert.False(t, ModuleType("subscription").IsValid())
	assert.False(t, ModuleType("").IsValid())
}

func TestModuleTypeRequiresDefaultPrice(t *testing.T) {
	assert.True(t, ModuleTypeFlatRate.RequiresDefaultPrice())
	assert.True(t, ModuleTypeFixPrice.RequiresDefaultPrice())
	assert.True(t, ModuleTypeCoupon.RequiresDefaultPrice())
	assert.False(t, ModuleTypeAnnualFlatRate.RequiresDefaultPrice())
	assert.False(t, ModuleTypePayAsYouGo.RequiresDefaultPrice())
}

func TestNewModule(t *testing.T) {
	t.Run("creates module for account", func(t *testing.T) {
		accountID := uuid.New()

		m, err := NewModule(accountID, ModuleTypeCoupon)

		require.NoError(t, err)
		assert.Equal(t, accountID, m.AccountID)
		assert.Equal(t, ModuleTypeCoupon, m.Type)
	})

	t.Run("rejects empty account", func(t *testing.T) {
		_, err := NewModule(uuid.Nil, ModuleTypeCoupon)
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewModule(uuid.New(), ModuleType("bogus"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_MODULE_TYPE", domainErr.Code)
	})
}

func TestModuleNormalize(t *testing.T) {
	t.Run("clears default price for item-billed types", func(t *testing.T) {
		m, err := NewModule(uuid.New(), ModuleTypePayAsYouGo)
		require.NoError(t, err)
		price := decimal.NewFromInt(50)
		m.DefaultPrice = &price

		m.Normalize()

		assert.Nil(t, m.DefaultPrice)
	})

	t.Run("keeps default price for fixed-price types", func(t *testing.T) {
		m, err := NewModule(uuid.New(), ModuleTypeFixPrice)
		require.NoError(t, err)
		price := decimal.NewFromInt(50)
		m.DefaultPrice = &price

		m.Normalize()

		require.NotNil(t, m.DefaultPrice)
		assert.True(t, m.DefaultPrice.Equal(price))
	})
}

func TestValueObjectValidity(t *testing.T) {
	assert.True(t, PriceCalculationSum.IsValid())
	assert.True(t, PriceCalculationOperationHighestPrice.IsValid())
	assert.False(t, PriceCalculation("median").IsValid())

	assert.True(t, SwapPolicyStandard.IsValid())
	assert.True(t, SwapPolicyFast.IsValid())
	assert.False(t, SwapPolicy("instant").IsValid())

	assert.True(t, IdentifierTypeIMEI.IsValid())
	assert.True(t, IdentifierTypeSerialNumber.IsValid())
	assert.False(t, IdentifierType("mac").IsValid())

	assert.True(t, ItemTypeRepair.IsValid())
	assert.True(t, ItemTypeOperation.IsValid())
	assert.False(t, ItemType("spare_part").IsValid())
}
