package scoring

import (
	"strings"

	"github.com/homescout/recommendation_service/pkg/models"
)

// CandidateFacts is the canonical view of a property that the scorers read.
// Optional fields stay pointers: unknown is unknown, never zero.
type CandidateFacts struct {
	ID           string
	ListPrice    float64
	Bedrooms     int
	YearBuilt    *int
	SchoolRating *float64
	CommuteTime  *int
	Amenities    []string
}

// PreferenceFacts is the canonical view of a preference snapshot.
type PreferenceFacts struct {
	Budget             float64
	MinBedrooms        *int
	MaxCommuteTime     *int
	PreferredAmenities []string
}

// NormalizeProperty validates mandatory fields and canonicalizes amenity
// labels for matching. Missing optional fields pass through as nil.
func NormalizeProperty(p models.Property) (CandidateFacts, error) {
	if p.Price <= 0 {
		return CandidateFacts{}, &ValidationError{Field: "price", Reason: "must be > 0"}
	}
	if p.Bedrooms < 0 {
		return CandidateFacts{}, &ValidationError{Field: "bedrooms", Reason: "must be >= 0"}
	}
	if p.CommuteTime != nil && *p.CommuteTime < 0 {
		return CandidateFacts{}, &ValidationError{Field: "commute_time", Reason: "must be >= 0"}
	}
	if p.SchoolRating != nil && (*p.SchoolRating < 0 || *p.SchoolRating > 10) {
		return CandidateFacts{}, &ValidationError{Field: "school_rating", Reason: "must be within 0-10"}
	}
	return CandidateFacts{
		ID:           p.ID,
		ListPrice:    p.Price,
		Bedrooms:     p.Bedrooms,
		YearBuilt:    p.YearBuilt,
		SchoolRating: p.SchoolRating,
		CommuteTime:  p.CommuteTime,
		Amenities:    canonicalLabels(p.Amenities),
	}, nil
}

// NormalizePreference validates the snapshot and canonicalizes the
// preferred-amenity labels. Budget is the only mandatory numeric field.
func NormalizePreference(u models.UserPreference) (PreferenceFacts, error) {
	if u.Budget <= 0 {
		return PreferenceFacts{}, &ValidationError{Field: "budget", Reason: "must be > 0"}
	}
	if u.MinBedrooms != nil && *u.MinBedrooms < 0 {
		return PreferenceFacts{}, &ValidationError{Field: "min_bedrooms", Reason: "must be >= 0"}
	}
	if u.MaxCommuteTime != nil && *u.MaxCommuteTime < 0 {
		return PreferenceFacts{}, &ValidationError{Field: "max_commute_time", Reason: "must be >= 0"}
	}
	return PreferenceFacts{
		Budget:             u.Budget,
		MinBedrooms:        u.MinBedrooms,
		MaxCommuteTime:     u.MaxCommuteTime,
		PreferredAmenities: canonicalLabels(u.PreferredAmenities),
	}, nil
}

// canonicalLabels trims and case-folds amenity labels so matching is not
// sensitive to input casing. Empty labels are dropped.
func canonicalLabels(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
