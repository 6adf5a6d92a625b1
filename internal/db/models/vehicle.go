package models

import "time"

// VehicleType values.
const (
	VehicleTypeNew               = "New"
	VehicleTypeUsed              = "Used"
	VehicleTypeCertifiedPreOwned = "CertifiedPreOwned"
)

// VehicleStatus values.
const (
	VehicleStatusInTransit   = "InTransit"
	VehicleStatusReceiving   = "Receiving"
	VehicleStatusInStock     = "InStock"
	VehicleStatusReserved    = "Reserved"
	VehicleStatusSold        = "Sold"
	VehicleStatusDelivered   = "Delivered"
	VehicleStatusTransferred = "Transferred"
	VehicleStatusRecon       = "Reconditioning"
)

// Vehicle is a unit of the dealership inventory.
type Vehicle struct {
	Base
	VIN               string     `gorm:"column:vin;size:17;not null;uniqueIndex" json:"vin"`
	StockNumber       string     `gorm:"size:50;not null;uniqueIndex" json:"stockNumber"`
	Make              string     `gorm:"size:50;not null;index" json:"make"`
	Model             string     `gorm:"size:50;not null;index" json:"model"`
	Year              int        `gorm:"not null" json:"year"`
	Trim              string     `gorm:"size:50" json:"trim"`
	ExteriorColor     string     `gorm:"size:50" json:"exteriorColor"`
	InteriorColor     string     `gorm:"size:50" json:"interiorColor"`
	Mileage           int        `json:"mileage"`
	VehicleType       string     `gorm:"size:30;not null" json:"vehicleType"`
	Status            string     `gorm:"size:30;not null;index" json:"status"`
	AcquisitionCost   float64    `json:"acquisitionCost"`
	ListPrice         float64    `json:"listPrice"`
	InvoicePrice      float64    `json:"invoicePrice"`
	MSRP              float64    `gorm:"column:msrp" json:"msrp"`
	AcquisitionDate   *time.Time `json:"acquisitionDate,omitempty"`
	AcquisitionSource string     `gorm:"size:100" json:"acquisitionSource"`
	LotLocation       string     `gorm:"size:100" json:"lotLocation"`

	Tasks []WorkflowTask `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
