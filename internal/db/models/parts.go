package models

// Supplier delivers parts.
type Supplier struct {
	Base
	Name        string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	ContactName string `gorm:"size:200" json:"contactName"`
	Email       string `gorm:"size:255" json:"email"`
	Phone       string `gorm:"size:50" json:"phone"`
	Website     string `gorm:"size:255" json:"website"`
}

// Part is a stocked part.
type Part struct {
	Base
	PartNumber     string  `gorm:"size:50;not null;uniqueIndex" json:"partNumber"`
	Name           string  `gorm:"size:200;not null;index" json:"name"`
	Description    string  `gorm:"size:2000" json:"description"`
	Category       string  `gorm:"size:100;index" json:"category"`
	Manufacturer   string  `gorm:"size:100" json:"manufacturer"`
	Cost           float64 `json:"cost"`
	ListPrice      float64 `json:"listPrice"`
	QuantityOnHand int     `json:"quantityOnHand"`
	ReorderPoint   int     `json:"reorderPoint"`
	BinLocation    string  `gorm:"size:50" json:"binLocation"`
	SupplierID     *string `gorm:"size:36;index" json:"supplierId,omitempty"`

	Supplier *Supplier `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// LowStock reports whether the part reached its reorder point.
func (p Part) LowStock() bool {
	return p.QuantityOnHand <= p.ReorderPoint
}
