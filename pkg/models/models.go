package models

import (
	"time"

	dbtypes "github.com/homescout/recommendation_service/internal/db"
)

// Property is a candidate listing record used across the service.
//
// Price and Bedrooms are always present. The remaining numeric fields are
// pointers: a missing value means "unknown" and must never be read as zero,
// because the scorers assign a neutral score to unknown data.
type Property struct {
	ID           string              `db:"id" json:"id"`
	Title        string              `db:"title" json:"title"`
	Location     string              `db:"location" json:"location"`
	Price        float64             `db:"price" json:"price"`
	Bedrooms     int                 `db:"bedrooms" json:"bedrooms"`
	Bathrooms    int                 `db:"bathrooms" json:"bathrooms"`
	SizeSqft     int                 `db:"size_sqft" json:"size_sqft"`
	YearBuilt    *int                `db:"year_built" json:"year_built,omitempty"`
	SchoolRating *float64            `db:"school_rating" json:"school_rating,omitempty"`
	CommuteTime  *int                `db:"commute_time" json:"commute_time,omitempty"`
	Amenities    dbtypes.StringSlice `db:"amenities" json:"amenities"`
	ImageURLs    dbtypes.StringSlice `db:"image_urls" json:"image_urls"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
}

// UserPreference is one immutable preference snapshot for a session.
// A session may submit many snapshots; the most recent one wins.
type UserPreference struct {
	ID                 string              `db:"id" json:"id"`
	SessionID          string              `db:"session_id" json:"session_id"`
	Budget             float64             `db:"budget" json:"budget"`
	Location           string              `db:"location" json:"location,omitempty"`
	MinBedrooms        *int                `db:"min_bedrooms" json:"min_bedrooms,omitempty"`
	MaxCommuteTime     *int                `db:"max_commute_time" json:"max_commute_time,omitempty"`
	MinSchoolRating    *float64            `db:"min_school_rating" json:"min_school_rating,omitempty"`
	PreferredAmenities dbtypes.StringSlice `db:"preferred_amenities" json:"preferred_amenities"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
}

// ComponentScores holds the six factor scores, each in [0,100].
type ComponentScores struct {
	Price     float64 `json:"price"`
	Bedrooms  float64 `json:"bedrooms"`
	School    float64 `json:"school"`
	Commute   float64 `json:"commute"`
	Age       float64 `json:"age"`
	Amenities float64 `json:"amenities"`
}

// ScoredRecommendation is computed per request and never persisted.
type ScoredRecommendation struct {
	Property        Property        `json:"property"`
	PredictedPrice  float64         `json:"predicted_price"`
	TotalScore      float64         `json:"total_score"`
	ComponentScores ComponentScores `json:"component_scores"`
	Reasoning       []string        `json:"reasoning"`
}
