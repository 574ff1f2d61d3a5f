package repair

import (
	"context"
	"testing"

	"github.com/fleetrepair/backend/internal/domain/partner"
	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type moduleTestEnv struct {
	service  *ModuleService
	modules  *fakeModuleRepo
	accounts *fakeAccountRepo
}

func newModuleTestEnv(t *testing.T) *moduleTestEnv {
	t.Helper()

	modules := newFakeModuleRepo()
	accounts := newFakeAccountRepo()
	txScope := NewNoOpTransactionScope(nil, nil, nil, nil, nil, modules, nil, nil, accounts)

	return &moduleTestEnv{
		service:  NewModuleService(txScope, zap.NewNop()),
		modules:  modules,
		accounts: accounts,
	}
}

func (env *moduleTestEnv) addSupplier(t *testing.T) *partner.Account {
	t.Helper()
	supplier, err := partner.NewAccount("Parts GmbH")
	require.NoError(t, err)
	supplier.Supplier = true
	require.NoError(t, env.accounts.Save(context.Background(), supplier))
	return supplier
}

func TestModuleServiceCreateModule(t *testing.T) {
	t.Run("creates a contract for an account", func(t *testing.T) {
		env := newModuleTestEnv(t)
		supplier := env.addSupplier(t)
		price := decimal.NewFromFloat(79.90)

		resp, err := env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID:              uuid.New(),
			SupplierID:             &supplier.ID,
			Type:                   string(repair.ModuleTypeFixPrice),
			Swap:                   string(repair.SwapPolicyFast),
			IdentifierType:         string(repair.IdentifierTypeIMEI),
			DefaultPrice:           &price,
			WarrantyLengthInMonths: 6,
		})

		require.NoError(t, err)
		assert.Equal(t, string(repair.ModuleTypeFixPrice), resp.Type)
		assert.Equal(t, string(repair.SwapPolicyFast), resp.Swap)
		require.NotNil(t, resp.DefaultPrice)
		assert.True(t, resp.DefaultPrice.Equal(price))
		assert.Equal(t, 6, resp.WarrantyLengthInMonths)
	})

	t.Run("rejects a second contract for the same account", func(t *testing.T) {
		env := newModuleTestEnv(t)
		accountID := uuid.New()

		_, err := env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID: accountID,
			Type:      string(repair.ModuleTypePayAsYouGo),
		})
		require.NoError(t, err)

		_, err = env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID: accountID,
			Type:      string(repair.ModuleTypeFixPrice),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MODULE_ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects a non-supplier supplier account", func(t *testing.T) {
		env := newModuleTestEnv(t)
		customer, err := partner.NewAccount("Just A Customer")
		require.NoError(t, err)
		require.NoError(t, env.accounts.Save(context.Background(), customer))

		_, err = env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID:  uuid.New(),
			SupplierID: &customer.ID,
			Type:       string(repair.ModuleTypeCoupon),
		})

		var fieldErr *shared.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "INVALID_SUPPLIER", fieldErr.Code)
	})

	t.Run("normalizes the default price for item-billed types", func(t *testing.T) {
		env := newModuleTestEnv(t)
		price := decimal.NewFromInt(50)

		resp, err := env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID:    uuid.New(),
			Type:         string(repair.ModuleTypePayAsYouGo),
			DefaultPrice: &price,
		})

		require.NoError(t, err)
		assert.Nil(t, resp.DefaultPrice)
	})

	t.Run("rejects invalid value objects", func(t *testing.T) {
		env := newModuleTestEnv(t)

		_, err := env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID: uuid.New(),
			Type:      string(repair.ModuleTypePayAsYouGo),
			Swap:      "instant",
		})
		var fieldErr *shared.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "INVALID_SWAP_POLICY", fieldErr.Code)

		_, err = env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID:      uuid.New(),
			Type:           string(repair.ModuleTypePayAsYouGo),
			IdentifierType: "mac",
		})
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "INVALID_IDENTIFIER_TYPE", fieldErr.Code)
	})
}

func TestModuleServiceUpdateModule(t *testing.T) {
	t.Run("switches the module type", func(t *testing.T) {
		env := newModuleTestEnv(t)
		created, err := env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID: uuid.New(),
			Type:      string(repair.ModuleTypePayAsYouGo),
		})
		require.NoError(t, err)

		price := decimal.NewFromInt(60)
		resp, err := env.service.UpdateModule(context.Background(), created.ID, CreateModuleRequest{
			Type:         string(repair.ModuleTypeCoupon),
			DefaultPrice: &price,
		})

		require.NoError(t, err)
		assert.Equal(t, string(repair.ModuleTypeCoupon), resp.Type)
		require.NotNil(t, resp.DefaultPrice)
		assert.True(t, resp.DefaultPrice.Equal(price))
	})

	t.Run("rejects an invalid type", func(t *testing.T) {
		env := newModuleTestEnv(t)
		created, err := env.service.CreateModule(context.Background(), CreateModuleRequest{
			AccountID: uuid.New(),
			Type:      string(repair.ModuleTypePayAsYouGo),
		})
		require.NoError(t, err)

		_, err = env.service.UpdateModule(context.Background(), created.ID, CreateModuleRequest{
			Type: "subscription",
		})

		var fieldErr *shared.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "INVALID_MODULE_TYPE", fieldErr.Code)
	})
}

func TestModuleServiceGetByAccount(t *testing.T) {
	env := newModuleTestEnv(t)
	accountID := uuid.New()

	resp, err := env.service.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = env.service.CreateModule(context.Background(), CreateModuleRequest{
		AccountID: accountID,
		Type:      string(repair.ModuleTypeAnnualFlatRate),
	})
	require.NoError(t, err)

	resp, err = env.service.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, accountID, resp.AccountID)
}
