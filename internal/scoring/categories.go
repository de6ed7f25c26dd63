package scoring

import (
	"fmt"
	"math"
	"strings"
)

// CategoryScore captures one category's contribution to the vector.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Tier     string   `json:"tier"`
	Reason   string   `json:"reason"`
}

func categoryScore(c Category, score int, reason string) CategoryScore {
	return CategoryScore{Category: c, Score: score, Tier: Tier(score), Reason: reason}
}

// --- Individual category calculators ---

// PriceScore sums two independent 50-point sub-scores: one against the budget
// cap, one against the market average. Each loses 10 points per $100 over its
// threshold, floored at 0.
func PriceScore(rent int, p Profile) CategoryScore {
	budget := rentSubScore(rent, p.BudgetCap)
	market := rentSubScore(rent, p.MarketAverageRent)

	var parts []string
	if rent <= p.BudgetCap {
		parts = append(parts, "at or under budget")
	} else {
		parts = append(parts, fmt.Sprintf("$%d over the $%d cap", rent-p.BudgetCap, p.BudgetCap))
	}
	if rent <= p.MarketAverageRent {
		parts = append(parts, "at or under market")
	} else {
		parts = append(parts, fmt.Sprintf("$%d over the $%d market average", rent-p.MarketAverageRent, p.MarketAverageRent))
	}

	return categoryScore(CategoryPrice, roundScore(budget+market), strings.Join(parts, ", "))
}

// rentSubScore is 50 at or under the threshold, minus 10 per $100 over it.
func rentSubScore(rent, threshold int) float64 {
	if rent <= threshold {
		return 50
	}
	over := float64(rent - threshold)
	return math.Max(0, 50-(over/100)*10)
}

// RoomsScore adds a 40-point bedroom match, a 40-point bathroom match, and a
// 20-point area tier. Being off by one room costs 20 points; off by two or
// more zeroes that component.
func RoomsScore(bedrooms, bathrooms int, sqft float64, p Profile) CategoryScore {
	bed := math.Max(0, 40-math.Abs(float64(bedrooms-p.IdealBedrooms))*20)
	bath := math.Max(0, 40-math.Abs(float64(bathrooms-p.IdealBathrooms))*20)

	var area float64
	switch {
	case sqft >= p.IdealAreaSqft:
		area = 20
	case sqft >= 0.8*p.IdealAreaSqft:
		area = 10
	}

	reason := fmt.Sprintf("%dbd/%dba vs %dbd/%dba ideal, %.0f sqft",
		bedrooms, bathrooms, p.IdealBedrooms, p.IdealBathrooms, sqft)
	return categoryScore(CategoryRooms, roundScore(bed+bath+area), reason)
}

// NecessitiesScore is a binary gate: 100 when every required amenity is
// present, exactly 0 when any one is missing. No partial credit.
func NecessitiesScore(amenities []AmenityID, p Profile) CategoryScore {
	var missing []string
	for _, need := range p.Necessities {
		if !hasAmenity(amenities, need) {
			missing = append(missing, string(need))
		}
	}
	if len(missing) > 0 {
		return categoryScore(CategoryNecessities, 0, "missing: "+strings.Join(missing, ", "))
	}
	if len(p.Necessities) == 0 {
		return categoryScore(CategoryNecessities, 100, "no required amenities")
	}
	return categoryScore(CategoryNecessities, 100, "all required amenities present")
}

// NiceToHavesScore grants proportional credit for covered preferences. An
// empty preference set counts as fully satisfied.
func NiceToHavesScore(amenities []AmenityID, p Profile) CategoryScore {
	total := len(p.NiceToHaves)
	if total == 0 {
		return categoryScore(CategoryNiceToHaves, 100, "no nice-to-have preferences")
	}
	count := 0
	for _, want := range p.NiceToHaves {
		if hasAmenity(amenities, want) {
			count++
		}
	}
	score := roundScore(100 * float64(count) / float64(total))
	return categoryScore(CategoryNiceToHaves, score, fmt.Sprintf("%d of %d nice-to-haves", count, total))
}

// NeighborhoodScore passes an externally supplied category value through. The
// engine never computes these itself: a missing value becomes the neutral
// midpoint and an out-of-range value is clamped to [0, 100].
func NeighborhoodScore(c Category, inputs NeighborhoodInputs) CategoryScore {
	v, ok := inputs[c]
	switch {
	case !ok:
		return categoryScore(c, roundScore(NeutralNeighborhood), "no data, neutral default")
	case v < 0:
		return categoryScore(c, 0, fmt.Sprintf("clamped out-of-range input %.0f", v))
	case v > 100:
		return categoryScore(c, 100, fmt.Sprintf("clamped out-of-range input %.0f", v))
	default:
		return categoryScore(c, roundScore(v), "external input")
	}
}
