package matching

import (
	"github.com/shopspring/decimal"

	"factory-matching/internal/models"
)

const (
	// SetupFee is charged once when the monthly quantity is below SetupFeeThreshold.
	SetupFee          int64 = 500000
	SetupFeeThreshold       = 1000

	// ExpediteFee is the flat surcharge for an expedited schedule.
	ExpediteFee int64 = 200000
)

type discountTier struct {
	minQuantity int
	rate        decimal.Decimal
}

// Ordered from the largest threshold down; the first match wins.
var discountTiers = []discountTier{
	{minQuantity: 10000, rate: decimal.RequireFromString("0.15")},
	{minQuantity: 5000, rate: decimal.RequireFromString("0.10")},
	{minQuantity: 2000, rate: decimal.RequireFromString("0.05")},
}

// DiscountRate returns the volume discount for quantity as a fraction.
func DiscountRate(quantity int) decimal.Decimal {
	for _, tier := range discountTiers {
		if quantity >= tier.minQuantity {
			return tier.rate
		}
	}
	return decimal.Zero
}

// EstimateCost quotes the discounted unit and total cost for quantity units.
func EstimateCost(f models.Factory, quantity int) models.CostEstimate {
	base := decimal.NewFromFloat(f.BaseCostPerUnit)
	rate := DiscountRate(quantity)

	discounted := base.Mul(decimal.NewFromInt(1).Sub(rate)).Round(0)
	total := discounted.Mul(decimal.NewFromInt(int64(quantity))).Round(0)

	var setup int64
	if quantity < SetupFeeThreshold {
		setup = SetupFee
	}

	return models.CostEstimate{
		UnitCost:           f.BaseCostPerUnit,
		DiscountRate:       rate.Mul(decimal.NewFromInt(100)).InexactFloat64(),
		DiscountedUnitCost: discounted.IntPart(),
		TotalCost:          total.IntPart(),
		SetupFee:           setup,
	}
}

// EstimateLeadTime returns the standard lead time and, for urgent requests,
// an expedited schedule at 70% of standard rounded up.
func EstimateLeadTime(f models.Factory, urgency models.Urgency) models.LeadTimeEstimate {
	est := models.LeadTimeEstimate{Standard: f.LeadTime}
	if urgency != models.UrgencyUrgent {
		return est
	}

	// ceil(standard * 0.7) in integer arithmetic
	expedited := (f.LeadTime*7 + 9) / 10
	est.Expedited = &expedited
	est.ExpediteFee = ExpediteFee
	return est
}
