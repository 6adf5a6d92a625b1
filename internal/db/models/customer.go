package models

import "time"

// Customer types.
const (
	CustomerTypeSales   = "Sales"
	CustomerTypeService = "Service"
	CustomerTypeFleet   = "Fleet"
)

// DefaultCountry is used when a customer is created without a country.
const DefaultCountry = "USA"

// Customer is a CRM customer.
type Customer struct {
	Base
	Name         string `gorm:"size:200;not null;index" json:"name"`
	Email        string `gorm:"size:255;not null;index" json:"email"`
	Phone        string `gorm:"size:50" json:"phone"`
	CustomerType string `gorm:"size:50;not null;default:'Sales'" json:"customerType"`
	Address      string `gorm:"size:255" json:"address"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	ZipCode      string `gorm:"size:20" json:"zipCode"`
	Country      string `gorm:"size:100;not null;default:'USA'" json:"country"`
	Notes        string `gorm:"size:2000" json:"notes"`

	Interactions []CustomerInteraction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// CustomerInteraction records a contact with a customer.
type CustomerInteraction struct {
	Base
	CustomerID string    `gorm:"size:36;not null;index" json:"customerId"`
	Channel    string    `gorm:"size:50;not null" json:"channel"` // Phone, Email, Visit, ...
	Subject    string    `gorm:"size:200;not null" json:"subject"`
	Notes      string    `gorm:"size:4000" json:"notes"`
	OccurredAt time.Time `json:"occurredAt"`
}

// DemoCustomer is the customer of the in-memory demo API, it uses integer ids.
type DemoCustomer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CustomerType string    `json:"customerType"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zipCode"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EntityID returns the demo customer id.
func (c DemoCustomer) EntityID() int {
	return c.ID
}

// Stamp sets UpdatedAt, and CreatedAt for new customers.
func (c *DemoCustomer) Stamp(now time.Time, created bool) {
	if created && c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	c.UpdatedAt = now
}
