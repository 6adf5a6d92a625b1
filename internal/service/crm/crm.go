// Package crm implements the customer relationship service: customers and
// the interactions recorded with them.
package crm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS CRM API"

// Service manages customers.
type Service struct {
	service.CRUD[models.Customer, string, models.Customer, CustomerInput, CustomerInput]

	customers    *repository.Gorm[models.Customer, string]
	interactions *repository.Gorm[models.CustomerInteraction, string]
}

// New creates the CRM service on db.
func New(db *gorm.DB) (*Service, error) {
	customers, err := repository.NewGorm[models.Customer, string](db, "id")
	if err != nil {
		return nil, err
	}

	interactions, err := repository.NewGorm[models.CustomerInteraction, string](db, "id")
	if err != nil {
		return nil, err
	}

	s := &Service{customers: customers, interactions: interactions}

	s.CRUD = service.CRUD[models.Customer, string, models.Customer, CustomerInput, CustomerInput]{
		Repo:        customers,
		Name:        "Customer",
		KeyName:     "id",
		ToDTO:       service.Identity[models.Customer],
		FromCreate:  fromInput,
		ApplyUpdate: applyInput,
	}

	return s, nil
}

func fromInput(ctx context.Context, in *CustomerInput) (*models.Customer, error) {
	c := new(models.Customer)

	return c, applyInput(ctx, c, in)
}

func applyInput(_ context.Context, c *models.Customer, in *CustomerInput) error {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.CustomerType = in.CustomerType
	c.Address = in.Address
	c.City = in.City
	c.State = in.State
	c.ZipCode = in.ZipCode
	c.Country = in.Country
	c.Notes = in.Notes

	if c.CustomerType == "" {
		c.CustomerType = models.CustomerTypeSales
	}

	if c.Country == "" {
		c.Country = models.DefaultCountry
	}

	return nil
}

// Search matches q against name, email and phone.
func (s *Service) Search(ctx context.Context, q string) ([]models.Customer, error) {
	like := service.Like(q)

	return s.customers.Find(ctx,
		"LOWER(name) LIKE ? "+service.LikeEscape+
			" OR LOWER(email) LIKE ? "+service.LikeEscape+
			" OR phone LIKE ? "+service.LikeEscape,
		like, like, like)
}

// SearchHits adapts Search for the gateway search.
func (s *Service) SearchHits(ctx context.Context, q, typ string) ([]service.SearchHit, error) {
	if !service.WantType(typ, "customer") {
		return nil, nil
	}

	found, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	hits := make([]service.SearchHit, len(found))
	for i, c := range found {
		hits[i] = service.SearchHit{ID: c.ID, Type: "customer", Title: c.Name, Subtitle: c.Email}
	}

	return hits, nil
}

// Interactions returns the interactions of a customer, newest first.
func (s *Service) Interactions(ctx context.Context, customerID string) ([]models.CustomerInteraction, error) {
	if _, err := s.Load(ctx, customerID); err != nil {
		return nil, err
	}

	var out []models.CustomerInteraction

	err := s.interactions.DB(ctx).Where("customer_id = ?", customerID).
		Order("occurred_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}

// AddInteraction records an interaction with a customer.
func (s *Service) AddInteraction(
	ctx context.Context, customerID string, in *InteractionInput,
) (models.CustomerInteraction, error) {
	if err := service.Validate(in); err != nil {
		return models.CustomerInteraction{}, err
	}

	if _, err := s.Load(ctx, customerID); err != nil {
		return models.CustomerInteraction{}, err
	}

	occurred := time.Now().UTC()
	if in.OccurredAt != nil {
		occurred = in.OccurredAt.UTC()
	}

	added, err := s.interactions.Add(ctx, &models.CustomerInteraction{
		CustomerID: customerID,
		Channel:    in.Channel,
		Subject:    in.Subject,
		Notes:      in.Notes,
		OccurredAt: occurred,
	})
	if err != nil {
		return models.CustomerInteraction{}, err
	}

	return *added, nil
}
