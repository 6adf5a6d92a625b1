package crm

import "time"

// CustomerInput is the body of POST /api/customers and PUT /api/customers/:id.
type CustomerInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"max=50"`
	CustomerType string `json:"customerType" validate:"omitempty,oneof=Sales Service Fleet"`
	Address      string `json:"address" validate:"max=255"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	ZipCode      string `json:"zipCode" validate:"max=20"`
	Country      string `json:"country" validate:"max=100"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// InteractionInput is the body of POST /api/customers/:id/interactions.
type InteractionInput struct {
	Channel    string     `json:"channel" validate:"required,oneof=Phone Email Visit SMS Chat Other"`
	Subject    string     `json:"subject" validate:"required,max=200"`
	Notes      string     `json:"notes" validate:"max=4000"`
	OccurredAt *time.Time `json:"occurredAt"`
}
