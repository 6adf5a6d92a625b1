package models

import "gorm.io/datatypes"

// Deal status values.
const (
	DealStatusDraft     = "Draft"
	DealStatusPending   = "Pending"
	DealStatusApproved  = "Approved"
	DealStatusCompleted = "Completed"
	DealStatusCancelled = "Cancelled"
)

// Deal types.
const (
	DealTypeCash    = "Cash"
	DealTypeFinance = "Finance"
	DealTypeLease   = "Lease"
)

// Fee is an additional charge of a deal.
type Fee struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Deal is a vehicle sale.
type Deal struct {
	Base
	CustomerID          string                   `gorm:"size:36;not null;index" json:"customerId"`
	VehicleID           string                   `gorm:"size:36;not null;index" json:"vehicleId"`
	SalesRepID          string                   `gorm:"size:100" json:"salesRepId,omitempty"`
	Status              string                   `gorm:"size:20;not null;index" json:"status"`
	DealType            string                   `gorm:"size:20;not null" json:"dealType"`
	PurchasePrice       float64                  `json:"purchasePrice"`
	TradeInValue        float64                  `json:"tradeInValue"`
	DownPayment         float64                  `json:"downPayment"`
	FinancingTermMonths int                      `json:"financingTermMonths,omitempty"`
	FinancingRate       float64                  `json:"financingRate,omitempty"`
	MonthlyPayment      float64                  `json:"monthlyPayment,omitempty"`
	TaxRate             float64                  `json:"taxRate"`
	TaxAmount           float64                  `json:"taxAmount"`
	Fees                datatypes.JSONSlice[Fee] `json:"fees"`
	TotalPrice          float64                  `json:"totalPrice"`
}

// Lead status values.
const (
	LeadStatusNew       = "New"
	LeadStatusContacted = "Contacted"
	LeadStatusQualified = "Qualified"
	LeadStatusLost      = "Lost"
	LeadStatusConverted = "Converted"
)

// Lead is a sales prospect.
type Lead struct {
	Base
	FirstName           string `gorm:"size:100;not null" json:"firstName"`
	LastName            string `gorm:"size:100;not null" json:"lastName"`
	Email               string `gorm:"size:255;index" json:"email"`
	Phone               string `gorm:"size:50" json:"phone"`
	Source              string `gorm:"size:50" json:"source"`
	Status              string `gorm:"size:20;not null;index" json:"status"`
	InterestedVehicleID string `gorm:"size:36" json:"interestedVehicleId,omitempty"`
	AssignedTo          string `gorm:"size:100" json:"assignedTo,omitempty"`
	Notes               string `gorm:"size:2000" json:"notes,omitempty"`
}
