package scoring

import "math"

// NeutralScore is assigned when a factor's input data is missing, avoiding
// both unfair penalty and unfair boost.
const NeutralScore = 50.0

// PriceMatchScore scores how the estimated price relates to the budget.
// At or under budget scores 100; above budget the score falls linearly and
// reaches 0 at twice the budget.
func PriceMatchScore(predicted, budget float64) float64 {
	if predicted <= budget {
		return 100
	}
	penalty := (predicted - budget) / budget * 100
	return math.Max(0, 100-penalty)
}

// BedroomScore scores bedroom adequacy. An absent or zero minimum means no
// requirement and scores 100 outright.
func BedroomScore(bedrooms int, minBedrooms *int) float64 {
	if minBedrooms == nil || *minBedrooms <= 0 {
		return 100
	}
	if bedrooms >= *minBedrooms {
		return 100
	}
	return float64(bedrooms) / float64(*minBedrooms) * 100
}

// SchoolRatingScore maps a 0-10 rating onto 0-100; unknown is neutral.
func SchoolRatingScore(rating *float64) float64 {
	if rating == nil {
		return NeutralScore
	}
	return *rating * 10
}

// CommuteScore is a step function over commute minutes; unknown is neutral.
func CommuteScore(minutes *int) float64 {
	if minutes == nil {
		return NeutralScore
	}
	switch m := *minutes; {
	case m <= 15:
		return 100
	case m <= 30:
		return 80
	case m <= 45:
		return 50
	default:
		return 20
	}
}

// PropertyAgeScore is a step function over property age relative to the
// configured reference year; unknown construction year is neutral.
func PropertyAgeScore(yearBuilt *int, referenceYear int) float64 {
	if yearBuilt == nil {
		return NeutralScore
	}
	switch age := referenceYear - *yearBuilt; {
	case age <= 5:
		return 100
	case age <= 15:
		return 80
	case age <= 30:
		return 60
	default:
		return 40
	}
}

// AmenitiesScore scores amenity match. A property listing no amenities is
// neutral regardless of preferences. With no preferred list the score grows
// with the total amenity count; otherwise it is the matched fraction.
func AmenitiesScore(amenities, preferred []string) float64 {
	if len(amenities) == 0 {
		return NeutralScore
	}
	if len(preferred) == 0 {
		return math.Min(100, float64(len(amenities))*20)
	}
	have := make(map[string]struct{}, len(amenities))
	for _, a := range amenities {
		have[a] = struct{}{}
	}
	matched := 0
	for _, want := range preferred {
		if _, ok := have[want]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(preferred)) * 100
}

// round2 rounds to 2 decimal places for reporting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
