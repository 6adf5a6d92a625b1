package sales

import (
	"math"

	"github.com/apota/mydms-sub010/internal/db/models"
)

// Calculate prices a deal:
//
//	tax     = price * taxRate
//	total   = price + tax + fees - trade-in
//	finance = total - down payment
//
// A monthly payment is returned when a term is given, amortised at
// financingRate percent per year.
func Calculate(in *CalculateInput) Calculation {
	var totalFees float64
	for _, f := range in.Fees {
		totalFees += f.Amount
	}

	tax := round(in.PurchasePrice * in.TaxRate)
	total := round(in.PurchasePrice + tax + totalFees - in.TradeInValue)

	out := Calculation{
		TaxAmount:       tax,
		TotalFees:       round(totalFees),
		TotalPrice:      total,
		AmountToFinance: round(total - in.DownPayment),
	}

	if in.FinancingTermMonths > 0 {
		p := MonthlyPayment(out.AmountToFinance, in.FinancingRate, in.FinancingTermMonths)
		out.MonthlyPayment = &p
	}

	return out
}

// MonthlyPayment returns the annuity paying off amount in months
// installments at ratePercent per year.
func MonthlyPayment(amount, ratePercent float64, months int) float64 {
	if months <= 0 || amount <= 0 {
		return 0
	}

	if ratePercent == 0 {
		return round(amount / float64(months))
	}

	r := ratePercent / 12 / 100
	f := math.Pow(1+r, float64(months))

	return round(amount * r * f / (f - 1))
}

// price recomputes the derived amounts of d.
func price(d *models.Deal) {
	in := &CalculateInput{
		PurchasePrice:       d.PurchasePrice,
		TradeInValue:        d.TradeInValue,
		DownPayment:         d.DownPayment,
		TaxRate:             d.TaxRate,
		FinancingTermMonths: d.FinancingTermMonths,
		FinancingRate:       d.FinancingRate,
	}
	for _, f := range d.Fees {
		in.Fees = append(in.Fees, FeeInput{Type: f.Type, Amount: f.Amount})
	}

	calc := Calculate(in)

	d.TaxAmount = calc.TaxAmount
	d.TotalPrice = calc.TotalPrice
	d.MonthlyPayment = 0

	if d.DealType == models.DealTypeFinance && calc.MonthlyPayment != nil {
		d.MonthlyPayment = *calc.MonthlyPayment
	}
}

// round rounds to cents.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
