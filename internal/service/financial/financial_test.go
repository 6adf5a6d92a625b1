package financial_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/service/financial"
)

func newService(t *testing.T) *financial.Service {
	t.Helper()

	s, err := financial.New(dbtest.New(t))
	require.NoError(t, err)

	return s
}

func TestAccounts(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	cash, err := s.Accounts.Create(ctx, &financial.AccountInput{Code: " 1000 ", Name: "Cash", Type: models.AccountAsset})
	require.NoError(t, err)
	assert.Equal(t, "1000", cash.Code)
	assert.True(t, cash.Active)

	_, err = s.Accounts.Create(ctx, &financial.AccountInput{Code: "1000", Name: "Again", Type: models.AccountAsset})
	require.ErrorIs(t, err, service.ErrConflict)
	assert.Contains(t, err.Error(), "Account with code '1000' already exists")

	inactive := false
	updated, err := s.Accounts.Update(ctx, cash.ID, &financial.AccountInput{
		Code: "1000", Name: "Cash on hand", Type: models.AccountAsset, Active: &inactive, Balance: 250,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.InDelta(t, 250, updated.Balance, 0.001)

	_, err = s.Accounts.Create(ctx, &financial.AccountInput{Code: "9", Name: "X", Type: "Magic"})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestTaxCodes(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	tx, err := s.TaxCodes.Create(ctx, &financial.TaxCodeInput{Code: "tx-state", Rate: 0.0625})
	require.NoError(t, err)
	assert.Equal(t, "TX-STATE", tx.Code)

	// tax codes and accounts do not share codes
	_, err = s.Accounts.Create(ctx, &financial.AccountInput{Code: "TX-STATE", Name: "Tax payable", Type: models.AccountLiability})
	require.NoError(t, err)

	_, err = s.TaxCodes.Create(ctx, &financial.TaxCodeInput{Code: "TX-STATE"})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = s.TaxCodes.Create(ctx, &financial.TaxCodeInput{Code: "BAD", Rate: 6.25})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	list, err := s.TaxCodes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
