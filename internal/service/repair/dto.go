package repair

import (
	"time"

	"github.com/apota/mydms-sub010/internal/db/models"
)

// OrderDTO is a repair order with its jobs and their total.
type OrderDTO struct {
	models.RepairOrder
	Total float64 `json:"total"`
}

// OrderInput is the body of POST /api/repair-orders and PUT /api/repair-orders/:id.
// Jobs are only read on create.
type OrderInput struct {
	CustomerID  string     `json:"customerId" validate:"required,max=36"`
	VehicleID   string     `json:"vehicleId" validate:"max=36"`
	VIN         string     `json:"vin" validate:"omitempty,len=17,alphanum"`
	Status      string     `json:"status" validate:"omitempty,oneof=Open InProgress Completed Closed"`
	Description string     `json:"description" validate:"max=2000"`
	Mileage     int        `json:"mileage" validate:"min=0"`
	PromisedAt  *time.Time `json:"promisedAt"`
	Jobs        []JobInput `json:"jobs" validate:"dive"`
}

// JobInput is the body of POST /api/repair-orders/:id/jobs and PUT /api/service-jobs/:id.
type JobInput struct {
	Description  string  `json:"description" validate:"required,max=500"`
	LaborHours   float64 `json:"laborHours" validate:"min=0"`
	LaborRate    float64 `json:"laborRate" validate:"min=0"`
	PartsCost    float64 `json:"partsCost" validate:"min=0"`
	TechnicianID string  `json:"technicianId" validate:"max=100"`
	Status       string  `json:"status" validate:"omitempty,oneof=Pending InProgress Done"`
}

// TotalDTO is the answer of GET /api/repair-orders/:id/total.
type TotalDTO struct {
	RepairOrderID string  `json:"repairOrderId"`
	Jobs          int     `json:"jobs"`
	Total         float64 `json:"total"`
}
