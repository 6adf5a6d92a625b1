package sales

import "github.com/apota/mydms-sub010/internal/db/models"

// FeeInput is one fee of a deal or a calculation.
type FeeInput struct {
	Type        string  `json:"type" validate:"required,max=50"`
	Amount      float64 `json:"amount" validate:"min=0"`
	Description string  `json:"description" validate:"max=200"`
}

// DealInput is the body of POST /api/deals and PUT /api/deals/:id.
type DealInput struct {
	CustomerID          string     `json:"customerId" validate:"required,max=36"`
	VehicleID           string     `json:"vehicleId" validate:"required,max=36"`
	SalesRepID          string     `json:"salesRepId" validate:"max=100"`
	DealType            string     `json:"dealType" validate:"required,oneof=Cash Finance Lease"`
	PurchasePrice       float64    `json:"purchasePrice" validate:"min=0"`
	TradeInValue        float64    `json:"tradeInValue" validate:"min=0"`
	DownPayment         float64    `json:"downPayment" validate:"min=0"`
	FinancingTermMonths int        `json:"financingTermMonths" validate:"min=0,max=120"`
	FinancingRate       float64    `json:"financingRate" validate:"min=0,max=100"`
	TaxRate             float64    `json:"taxRate" validate:"min=0,max=1"`
	Fees                []FeeInput `json:"fees" validate:"dive"`
}

// CalculateInput is the body of POST /api/deals/calculate. FinancingRate is
// a yearly percentage, TaxRate a fraction.
type CalculateInput struct {
	PurchasePrice       float64    `json:"purchasePrice" validate:"min=0"`
	TradeInValue        float64    `json:"tradeInValue" validate:"min=0"`
	DownPayment         float64    `json:"downPayment" validate:"min=0"`
	TaxRate             float64    `json:"taxRate" validate:"min=0,max=1"`
	FinancingTermMonths int        `json:"financingTermMonths" validate:"min=0,max=120"`
	FinancingRate       float64    `json:"financingRate" validate:"min=0,max=100"`
	Fees                []FeeInput `json:"fees" validate:"dive"`
}

// Calculation is the result of a deal calculation.
type Calculation struct {
	TaxAmount       float64  `json:"taxAmount"`
	TotalFees       float64  `json:"totalFees"`
	TotalPrice      float64  `json:"totalPrice"`
	AmountToFinance float64  `json:"amountToFinance"`
	MonthlyPayment  *float64 `json:"monthlyPayment,omitempty"`
}

// StatusInput is the body of POST /api/deals/:id/status.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=Draft Pending Approved Completed Cancelled"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// LeadInput is the body of POST /api/leads and PUT /api/leads/:id.
type LeadInput struct {
	FirstName           string `json:"firstName" validate:"required,max=100"`
	LastName            string `json:"lastName" validate:"required,max=100"`
	Email               string `json:"email" validate:"omitempty,email,max=255"`
	Phone               string `json:"phone" validate:"max=50"`
	Source              string `json:"source" validate:"max=50"`
	Status              string `json:"status" validate:"omitempty,oneof=New Contacted Qualified Lost Converted"`
	InterestedVehicleID string `json:"interestedVehicleId" validate:"max=36"`
	AssignedTo          string `json:"assignedTo" validate:"max=100"`
	Notes               string `json:"notes" validate:"max=2000"`
}

func fees(in []FeeInput) []models.Fee {
	out := make([]models.Fee, len(in))
	for i, f := range in {
		out[i] = models.Fee{Type: f.Type, Amount: f.Amount, Description: f.Description}
	}

	return out
}
