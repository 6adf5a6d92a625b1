// Package demo implements the in-memory customer API used for demos. Each
// Service owns its store, nothing is shared between instances.
package demo

import (
	"context"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository/memory"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS CRM Demo API"

// CustomerInput is the body of POST and PUT /api/customers.
type CustomerInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,max=255"`
	Phone        string `json:"phone" validate:"max=50"`
	CustomerType string `json:"customerType" validate:"max=50"`
	Address      string `json:"address" validate:"max=255"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	ZipCode      string `json:"zipCode" validate:"max=20"`
	Country      string `json:"country" validate:"max=100"`
}

// Seed is the data a new Service starts with.
func Seed() []models.DemoCustomer {
	return []models.DemoCustomer{
		{Name: "John Smith", Phone: "(555) 123-4567", Email: "john.smith@example.com", CustomerType: "Sales"},
		{Name: "Sarah Johnson", Phone: "(555) 987-6543", Email: "sarah.johnson@example.com", CustomerType: "Service"},
		{Name: "Michael Brown", Phone: "(555) 555-1234", Email: "michael.brown@example.com", CustomerType: "Parts"},
		{Name: "Emily Wilson", Phone: "(555) 777-8888", Email: "emily.wilson@example.com", CustomerType: "Lead"},
	}
}

// Service manages the demo customers.
type Service struct {
	service.CRUD[models.DemoCustomer, int, models.DemoCustomer, CustomerInput, CustomerInput]

	store *memory.Store[models.DemoCustomer, int]
}

// New creates a service seeded with seed.
func New(ctx context.Context, seed []models.DemoCustomer) (*Service, error) {
	store := memory.NewSequence[models.DemoCustomer](func(c *models.DemoCustomer, id int) { c.ID = id })

	for i := range seed {
		c := seed[i]
		fill(&c)

		if _, err := store.Add(ctx, &c); err != nil {
			return nil, err
		}
	}

	s := &Service{store: store}
	s.CRUD = service.CRUD[models.DemoCustomer, int, models.DemoCustomer, CustomerInput, CustomerInput]{
		Repo:        store,
		Name:        "Customer",
		KeyName:     "id",
		ToDTO:       service.Identity[models.DemoCustomer],
		FromCreate:  fromInput,
		ApplyUpdate: applyInput,
	}

	return s, nil
}

func fill(c *models.DemoCustomer) {
	if c.CustomerType == "" {
		c.CustomerType = models.CustomerTypeSales
	}

	if c.Country == "" {
		c.Country = models.DefaultCountry
	}
}

func fromInput(ctx context.Context, in *CustomerInput) (*models.DemoCustomer, error) {
	c := new(models.DemoCustomer)

	return c, applyInput(ctx, c, in)
}

func applyInput(_ context.Context, c *models.DemoCustomer, in *CustomerInput) error {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.CustomerType = in.CustomerType
	c.Address = in.Address
	c.City = in.City
	c.State = in.State
	c.ZipCode = in.ZipCode
	c.Country = in.Country
	fill(c)

	return nil
}
