package models

// Account types of the chart of accounts.
const (
	AccountAsset     = "Asset"
	AccountLiability = "Liability"
	AccountEquity    = "Equity"
	AccountRevenue   = "Revenue"
	AccountExpense   = "Expense"
)

// Account is an entry of the chart of accounts.
type Account struct {
	Base
	Code        string  `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Name        string  `gorm:"size:200;not null" json:"name"`
	Type        string  `gorm:"size:20;not null;index" json:"type"`
	Description string  `gorm:"size:500" json:"description"`
	Active      bool    `json:"active"`
	Balance     float64 `json:"balance"`
}

// TaxCode is a sales tax rate.
type TaxCode struct {
	Base
	Code        string  `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Description string  `gorm:"size:200" json:"description"`
	Rate        float64 `json:"rate"`
	Active      bool    `json:"active"`
}
