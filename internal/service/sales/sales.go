// Package sales implements deals, with their pricing, and sales leads.
package sales

import (
	"context"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Sales Management API"

// Deals manages deals. Amounts derived from the price are recomputed on
// every write, and only draft deals may be edited.
type Deals struct {
	service.CRUD[models.Deal, string, models.Deal, DealInput, DealInput]
}

// Leads manages sales leads.
type Leads struct {
	service.CRUD[models.Lead, string, models.Lead, LeadInput, LeadInput]
}

// Service bundles the sales services.
type Service struct {
	Deals *Deals
	Leads *Leads
}

// New creates the sales services on db.
func New(db *gorm.DB) (*Service, error) {
	deals, err := repository.NewGorm[models.Deal, string](db, "id")
	if err != nil {
		return nil, err
	}

	leads, err := repository.NewGorm[models.Lead, string](db, "id")
	if err != nil {
		return nil, err
	}

	d := &Deals{}
	d.CRUD = service.CRUD[models.Deal, string, models.Deal, DealInput, DealInput]{
		Repo:        deals,
		Name:        "Deal",
		ToDTO:       service.Identity[models.Deal],
		FromCreate:  newDeal,
		ApplyUpdate: updateDeal,
	}

	l := &Leads{}
	l.CRUD = service.CRUD[models.Lead, string, models.Lead, LeadInput, LeadInput]{
		Repo:        leads,
		Name:        "Lead",
		ToDTO:       service.Identity[models.Lead],
		FromCreate:  newLead,
		ApplyUpdate: applyLead,
	}

	return &Service{Deals: d, Leads: l}, nil
}

func newDeal(_ context.Context, in *DealInput) (*models.Deal, error) {
	d := &models.Deal{Status: models.DealStatusDraft}

	return d, applyDeal(d, in)
}

func updateDeal(_ context.Context, d *models.Deal, in *DealInput) error {
	if d.Status != models.DealStatusDraft {
		return service.Invalid("status", "draft", "Cannot update a deal that is not in draft status")
	}

	return applyDeal(d, in)
}

func applyDeal(d *models.Deal, in *DealInput) error {
	d.CustomerID = in.CustomerID
	d.VehicleID = in.VehicleID
	d.SalesRepID = in.SalesRepID
	d.DealType = in.DealType
	d.PurchasePrice = in.PurchasePrice
	d.TradeInValue = in.TradeInValue
	d.DownPayment = in.DownPayment
	d.FinancingTermMonths = in.FinancingTermMonths
	d.FinancingRate = in.FinancingRate
	d.TaxRate = in.TaxRate
	d.Fees = fees(in.Fees)

	price(d)

	return nil
}

// Calculate validates in and prices it without storing anything.
func (s *Deals) Calculate(_ context.Context, in *CalculateInput) (Calculation, error) {
	if err := service.Validate(in); err != nil {
		return Calculation{}, err
	}

	return Calculate(in), nil
}

// SetStatus moves a deal to another status.
func (s *Deals) SetStatus(ctx context.Context, id string, in *StatusInput) (models.Deal, error) {
	if err := service.Validate(in); err != nil {
		return models.Deal{}, err
	}

	d, err := s.Load(ctx, id)
	if err != nil {
		return models.Deal{}, err
	}

	d.Status = in.Status

	return s.Save(ctx, d)
}

func newLead(ctx context.Context, in *LeadInput) (*models.Lead, error) {
	l := new(models.Lead)

	return l, applyLead(ctx, l, in)
}

func applyLead(_ context.Context, l *models.Lead, in *LeadInput) error {
	l.FirstName = in.FirstName
	l.LastName = in.LastName
	l.Email = in.Email
	l.Phone = in.Phone
	l.Source = in.Source
	l.InterestedVehicleID = in.InterestedVehicleID
	l.AssignedTo = in.AssignedTo
	l.Notes = in.Notes

	switch {
	case in.Status != "":
		l.Status = in.Status
	case l.Status == "":
		l.Status = models.LeadStatusNew
	}

	return nil
}
