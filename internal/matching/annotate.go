package matching

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"factory-matching/internal/models"
)

const (
	specialtyReasonThreshold = 25.0
	ratingReasonThreshold    = 4.7
	priceReasonThreshold     = 15.0
	moqProximityFactor       = 1.2
	foodSafetyCertification  = "HACCP"
)

// MatchReasons explains why a candidate scored well, in fixed order:
// specialty, rating, food safety, pricing.
func MatchReasons(f models.Factory, b models.ScoreBreakdown) []string {
	reasons := []string{}

	if b.Specialty >= specialtyReasonThreshold {
		reasons = append(reasons, fmt.Sprintf("Dedicated production lines for %s", strings.Join(f.Specialties, ", ")))
	}
	if f.Rating >= ratingReasonThreshold {
		reasons = append(reasons, fmt.Sprintf("Highly rated at %s with %d successful projects", formatRating(f.Rating), f.SuccessfulProjects))
	}
	if f.HasCertification(foodSafetyCertification) {
		reasons = append(reasons, "HACCP certified for food safety")
	}
	if b.Price >= priceReasonThreshold {
		reasons = append(reasons, "Competitive unit pricing")
	}

	return reasons
}

// Warnings lists risks for a candidate, in fixed order: budget, MOQ proximity, busy equipment.
func Warnings(f models.Factory, req models.MatchRequest) []string {
	warnings := []string{}

	if req.Budget > 0 {
		estimate := f.BaseCostPerUnit * float64(req.MonthlyQuantity)
		if estimate > req.Budget {
			overage := int64(math.Round(estimate - req.Budget))
			warnings = append(warnings, fmt.Sprintf("Estimated cost exceeds budget by %s", humanize.Comma(overage)))
		}
	}

	if float64(req.MonthlyQuantity) < float64(f.MOQ)*moqProximityFactor {
		warnings = append(warnings, fmt.Sprintf("Quantity is close to the minimum order quantity (%s units)", humanize.Comma(int64(f.MOQ))))
	}

	if busy := busyEquipment(f, equipmentRequirements[req.RecipeCategory]); len(busy) > 0 {
		warnings = append(warnings, fmt.Sprintf("Some equipment is currently in use: %s", strings.Join(busy, ", ")))
	}

	return warnings
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
