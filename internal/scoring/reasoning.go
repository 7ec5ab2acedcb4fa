package scoring

import (
	"fmt"

	"github.com/homescout/recommendation_service/pkg/models"
)

// BuildReasoning narrates the component scores as one sentence per factor,
// in fixed factor order. Identical inputs always produce identical output.
func BuildReasoning(facts CandidateFacts, prefs PreferenceFacts, cs models.ComponentScores, cfg ReasoningConfig) []string {
	out := make([]string, 0, 6)
	out = append(out, priceReason(cs.Price, cfg.Price))
	out = append(out, bedroomReason(cs.Bedrooms, cfg.Bedrooms, facts, prefs))
	out = append(out, schoolReason(cs.School, cfg.School, facts))
	out = append(out, commuteReason(cs.Commute, cfg.Commute, facts))
	out = append(out, ageReason(cs.Age, cfg.Age, facts))
	out = append(out, amenitiesReason(cs.Amenities, cfg.Amenities, facts))
	return out
}

func priceReason(score float64, t Tier) string {
	switch {
	case score >= t.Excellent:
		return "Excellent price match within your budget."
	case score >= t.Good:
		return "Good price match with minor budget considerations."
	default:
		return "Price exceeds budget but may still offer value."
	}
}

func bedroomReason(score float64, t Tier, facts CandidateFacts, prefs PreferenceFacts) string {
	switch {
	case score >= t.Excellent:
		if prefs.MinBedrooms != nil && *prefs.MinBedrooms > 0 {
			return fmt.Sprintf("Meets your %d+ bedroom requirement.", *prefs.MinBedrooms)
		}
		return fmt.Sprintf("Has %d bedrooms with no minimum required.", facts.Bedrooms)
	case score >= t.Good:
		return fmt.Sprintf("Has %d bedrooms, close to your requirement.", facts.Bedrooms)
	default:
		return fmt.Sprintf("Has %d bedrooms, below your requirement.", facts.Bedrooms)
	}
}

func schoolReason(score float64, t Tier, facts CandidateFacts) string {
	if facts.SchoolRating == nil {
		return "No school rating available."
	}
	switch {
	case score >= t.Excellent:
		return fmt.Sprintf("Excellent school district (%.1f/10).", *facts.SchoolRating)
	case score >= t.Good:
		return fmt.Sprintf("Good school district (%.1f/10).", *facts.SchoolRating)
	default:
		return fmt.Sprintf("Below-average school district (%.1f/10).", *facts.SchoolRating)
	}
}

func commuteReason(score float64, t Tier, facts CandidateFacts) string {
	if facts.CommuteTime == nil {
		return "Commute time unknown."
	}
	switch {
	case score >= t.Excellent:
		return fmt.Sprintf("Short commute to city center (%d min).", *facts.CommuteTime)
	case score >= t.Good:
		return fmt.Sprintf("Reasonable commute time (%d min).", *facts.CommuteTime)
	default:
		return fmt.Sprintf("Long commute time (%d min).", *facts.CommuteTime)
	}
}

func ageReason(score float64, t Tier, facts CandidateFacts) string {
	if facts.YearBuilt == nil {
		return "Construction year unknown."
	}
	switch {
	case score >= t.Excellent:
		return fmt.Sprintf("Modern construction (built %d).", *facts.YearBuilt)
	case score >= t.Good:
		return fmt.Sprintf("Well-maintained property (built %d).", *facts.YearBuilt)
	default:
		return fmt.Sprintf("Older construction (built %d).", *facts.YearBuilt)
	}
}

func amenitiesReason(score float64, t Tier, facts CandidateFacts) string {
	if len(facts.Amenities) == 0 {
		return "No amenity information listed."
	}
	switch {
	case score >= t.Excellent:
		return "Includes most of your preferred amenities."
	case score >= t.Good:
		return "Good amenity selection."
	default:
		return "Few of your preferred amenities are available."
	}
}
