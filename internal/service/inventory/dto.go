package inventory

import (
	"time"

	"github.com/apota/mydms-sub010/internal/db/models"
)

// VehicleInput is the body of POST /api/vehicles and PUT /api/vehicles/:id.
type VehicleInput struct {
	VIN               string     `json:"vin" validate:"required,len=17,alphanum"`
	StockNumber       string     `json:"stockNumber" validate:"max=50"`
	Make              string     `json:"make" validate:"required,max=50"`
	Model             string     `json:"model" validate:"required,max=50"`
	Year              int        `json:"year" validate:"required,min=1900"`
	Trim              string     `json:"trim" validate:"max=50"`
	ExteriorColor     string     `json:"exteriorColor" validate:"max=50"`
	InteriorColor     string     `json:"interiorColor" validate:"max=50"`
	Mileage           int        `json:"mileage" validate:"min=0"`
	VehicleType       string     `json:"vehicleType" validate:"required,oneof=New Used CertifiedPreOwned"`
	Status            string     `json:"status" validate:"omitempty,oneof=InTransit Receiving InStock Reserved Sold Delivered Transferred Reconditioning"` //nolint:lll
	AcquisitionCost   float64    `json:"acquisitionCost" validate:"min=0"`
	ListPrice         float64    `json:"listPrice" validate:"min=0"`
	InvoicePrice      float64    `json:"invoicePrice" validate:"min=0"`
	MSRP              float64    `json:"msrp" validate:"min=0"`
	AcquisitionDate   *time.Time `json:"acquisitionDate"`
	AcquisitionSource string     `json:"acquisitionSource" validate:"max=100"`
	LotLocation       string     `json:"lotLocation" validate:"max=100"`
}

// TaskInput is the body of POST /api/workflows and POST /api/vehicles/:id/workflows.
type TaskInput struct {
	VehicleID  string `json:"vehicleId" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=Reconditioning Acquisition Transfer"`
	AssignedTo string `json:"assignedTo" validate:"max=100"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// TransitionInput is the body of POST /api/workflows/:id/transition.
type TransitionInput struct {
	State      models.WorkflowState `json:"state" validate:"required,oneof=created assigned approved rejected completed"`
	AssignedTo string               `json:"assignedTo" validate:"max=100"`
	Notes      string               `json:"notes" validate:"max=2000"`
}
