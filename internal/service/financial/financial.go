// Package financial implements the chart of accounts and the tax codes.
package financial

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Financial Management API"

// AccountInput is the body of POST /api/accounts and PUT /api/accounts/:id.
type AccountInput struct {
	Code        string  `json:"code" validate:"required,max=20"`
	Name        string  `json:"name" validate:"required,max=200"`
	Type        string  `json:"type" validate:"required,oneof=Asset Liability Equity Revenue Expense"`
	Description string  `json:"description" validate:"max=500"`
	Active      *bool   `json:"active"`
	Balance     float64 `json:"balance"`
}

// TaxCodeInput is the body of POST /api/tax-codes and PUT /api/tax-codes/:id.
type TaxCodeInput struct {
	Code        string  `json:"code" validate:"required,max=20"`
	Description string  `json:"description" validate:"max=200"`
	Rate        float64 `json:"rate" validate:"min=0,max=1"`
	Active      *bool   `json:"active"`
}

// Accounts manages the chart of accounts.
type Accounts struct {
	service.CRUD[models.Account, string, models.Account, AccountInput, AccountInput]
}

// TaxCodes manages tax codes.
type TaxCodes struct {
	service.CRUD[models.TaxCode, string, models.TaxCode, TaxCodeInput, TaxCodeInput]
}

// Service bundles the financial services.
type Service struct {
	Accounts *Accounts
	TaxCodes *TaxCodes
}

// New creates the financial services on db.
func New(db *gorm.DB) (*Service, error) {
	accounts, err := repository.NewGorm[models.Account, string](db, "id")
	if err != nil {
		return nil, err
	}

	taxCodes, err := repository.NewGorm[models.TaxCode, string](db, "id")
	if err != nil {
		return nil, err
	}

	a := &Accounts{}
	a.CRUD = service.CRUD[models.Account, string, models.Account, AccountInput, AccountInput]{
		Repo:  accounts,
		Name:  "Account",
		ToDTO: service.Identity[models.Account],
		FromCreate: func(ctx context.Context, in *AccountInput) (*models.Account, error) {
			acc := &models.Account{Active: true}

			return acc, applyAccount(ctx, acc, in)
		},
		ApplyUpdate: applyAccount,
		Unique: func(ctx context.Context, acc *models.Account) error {
			return uniqueCode(ctx, accounts.DB(ctx).Model(&models.Account{}), "Account", acc.Code, acc.ID)
		},
	}

	t := &TaxCodes{}
	t.CRUD = service.CRUD[models.TaxCode, string, models.TaxCode, TaxCodeInput, TaxCodeInput]{
		Repo:  taxCodes,
		Name:  "Tax code",
		ToDTO: service.Identity[models.TaxCode],
		FromCreate: func(ctx context.Context, in *TaxCodeInput) (*models.TaxCode, error) {
			tc := &models.TaxCode{Active: true}

			return tc, applyTaxCode(ctx, tc, in)
		},
		ApplyUpdate: applyTaxCode,
		Unique: func(ctx context.Context, tc *models.TaxCode) error {
			return uniqueCode(ctx, taxCodes.DB(ctx).Model(&models.TaxCode{}), "Tax code", tc.Code, tc.ID)
		},
	}

	return &Service{Accounts: a, TaxCodes: t}, nil
}

func applyAccount(_ context.Context, acc *models.Account, in *AccountInput) error {
	acc.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	acc.Name = in.Name
	acc.Type = in.Type
	acc.Description = in.Description
	acc.Balance = in.Balance

	if in.Active != nil {
		acc.Active = *in.Active
	}

	return nil
}

func applyTaxCode(_ context.Context, tc *models.TaxCode, in *TaxCodeInput) error {
	tc.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	tc.Description = in.Description
	tc.Rate = in.Rate

	if in.Active != nil {
		tc.Active = *in.Active
	}

	return nil
}

// uniqueCode rejects a code used by another row of the table q is bound to.
func uniqueCode(_ context.Context, q *gorm.DB, name, code, id string) error {
	var found struct{ ID string }

	err := q.Select("id").Where("code = ? AND id <> ?", code, id).Take(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	return service.Conflictf("%s with code '%s' already exists", name, code)
}
