package parts

// PartInput is the body of POST /api/parts and PUT /api/parts/:id.
type PartInput struct {
	PartNumber     string  `json:"partNumber" validate:"required,max=50"`
	Name           string  `json:"name" validate:"required,max=200"`
	Description    string  `json:"description" validate:"max=2000"`
	Category       string  `json:"category" validate:"max=100"`
	Manufacturer   string  `json:"manufacturer" validate:"max=100"`
	Cost           float64 `json:"cost" validate:"min=0"`
	ListPrice      float64 `json:"listPrice" validate:"min=0"`
	QuantityOnHand int     `json:"quantityOnHand" validate:"min=0"`
	ReorderPoint   int     `json:"reorderPoint" validate:"min=0"`
	BinLocation    string  `json:"binLocation" validate:"max=50"`
	SupplierID     *string `json:"supplierId" validate:"omitempty,max=36"`
}

// AdjustInput is the body of POST /api/parts/:id/adjust, Quantity is added
// to the stock and may be negative.
type AdjustInput struct {
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason" validate:"max=200"`
}

// SupplierInput is the body of POST /api/suppliers and PUT /api/suppliers/:id.
type SupplierInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	ContactName string `json:"contactName" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone" validate:"max=50"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
}
