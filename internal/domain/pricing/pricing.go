package pricing

import (
	"errors"
	"math"
)

var ErrUnknownPlan = errors.New("pricing: unknown rate plan")

// RatePlan is a named pricing policy affecting fees and discount. Selecting a
// plan never touches the date range.
type RatePlan string

const (
	PlanNonRefundable RatePlan = "non-refundable"
	PlanRefundable    RatePlan = "refundable"
)

// Valid reports whether the plan is one of the known variants.
func (p RatePlan) Valid() bool {
	return p == PlanNonRefundable || p == PlanRefundable
}

const (
	taxRate        = 0.11
	protectionRate = 0.08
	discountRate   = 0.05
)

// Totals is the derived checkout breakdown in integer minor units.
type Totals struct {
	Days          int   `json:"days"`
	DailyRate     int64 `json:"daily_rate"`
	Subtotal      int64 `json:"subtotal"`
	Taxes         int64 `json:"taxes"`
	ProtectionFee int64 `json:"protection_fee"`
	Discount      int64 `json:"discount"`
	Total         int64 `json:"total"`
}

// ComputeTotals derives the checkout breakdown from a day count and a plan.
// The flat 11% tax always applies; Refundable adds an 8% protection fee on
// the subtotal, NonRefundable takes a 5% discount on subtotal plus taxes.
// Pure, no error path; days below one bill as one.
func ComputeTotals(dailyRate int64, days int, plan RatePlan) Totals {
	if days < 1 {
		days = 1
	}
	subtotal := dailyRate * int64(days)
	taxes := roundMinor(float64(subtotal) * taxRate)

	var fee, discount int64
	switch plan {
	case PlanRefundable:
		fee = roundMinor(float64(subtotal) * protectionRate)
	default:
		discount = roundMinor(float64(subtotal+taxes) * discountRate)
	}

	return Totals{
		Days:          days,
		DailyRate:     dailyRate,
		Subtotal:      subtotal,
		Taxes:         taxes,
		ProtectionFee: fee,
		Discount:      discount,
		Total:         subtotal + taxes + fee - discount,
	}
}

// roundMinor rounds to the nearest whole minor-currency unit; no fractional
// cents are ever retained.
func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
