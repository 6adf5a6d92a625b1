// Package financial serves the account and tax code APIs.
package financial

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/db/models"
	financialsvc "github.com/apota/mydms-sub010/internal/service/financial"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Paths below /api.
const (
	AccountsPath = "/accounts"
	TaxCodesPath = "/tax-codes"
)

// HealthPath answers without a token.
const HealthPath = handler.APIPrefix + AccountsPath + "/health"

// Service is the financial handler service.
type Service struct {
	handler.Service
	svc *financialsvc.Service
}

// New creates the handler.
func New(svc *financialsvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Get(AccountsPath+"/health", func(c *fiber.Ctx) error {
		return c.JSON(web.HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: financialsvc.ServiceName})
	})

	accounts := &handler.Resource[string, models.Account, financialsvc.AccountInput, financialsvc.AccountInput]{
		Path:    AccountsPath,
		Tag:     "accounts",
		Service: s.svc.Accounts,
		ParseID: handler.StringID,
		IDOf:    func(a models.Account) string { return a.ID },
	}
	if err := accounts.Register(api, doc); err != nil {
		return err
	}

	taxCodes := &handler.Resource[string, models.TaxCode, financialsvc.TaxCodeInput, financialsvc.TaxCodeInput]{
		Path:    TaxCodesPath,
		Tag:     "tax-codes",
		Service: s.svc.TaxCodes,
		ParseID: handler.StringID,
		IDOf:    func(t models.TaxCode) string { return t.ID },
	}

	return taxCodes.Register(api, doc)
}

// PublicPaths implements handler.Public.
func (s *Service) PublicPaths() []string {
	return []string{HealthPath}
}
