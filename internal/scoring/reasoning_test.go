package scoring

import (
	"reflect"
	"strings"
	"testing"

	"github.com/homescout/recommendation_service/pkg/models"
)

func TestBuildReasoningOneSentencePerFactor(t *testing.T) {
	facts := CandidateFacts{
		ID:           "p1",
		ListPrice:    450000,
		Bedrooms:     3,
		SchoolRating: floatPtr(8.5),
		CommuteTime:  intPtr(20),
		YearBuilt:    intPtr(2018),
		Amenities:    []string{"gym", "pool"},
	}
	prefs := PreferenceFacts{Budget: 500000, MinBedrooms: intPtr(2)}
	cs := models.ComponentScores{Price: 100, Bedrooms: 100, School: 85, Commute: 80, Age: 80, Amenities: 100}

	out := BuildReasoning(facts, prefs, cs, DefaultReasoning())
	if len(out) != 6 {
		t.Fatalf("expected 6 sentences, got %d", len(out))
	}
	for i, s := range out {
		if s == "" || !strings.HasSuffix(s, ".") {
			t.Errorf("sentence %d malformed: %q", i, s)
		}
	}
	if !strings.Contains(out[0], "Excellent price match") {
		t.Errorf("price sentence = %q, want excellent tier", out[0])
	}
	if !strings.Contains(out[1], "2+ bedroom") {
		t.Errorf("bedroom sentence = %q, want minimum named", out[1])
	}
}

func TestBuildReasoningTiers(t *testing.T) {
	facts := CandidateFacts{Bedrooms: 1, SchoolRating: floatPtr(4), CommuteTime: intPtr(60), YearBuilt: intPtr(1960), Amenities: []string{"garden"}}
	prefs := PreferenceFacts{Budget: 300000, MinBedrooms: intPtr(3)}
	cs := models.ComponentScores{Price: 40, Bedrooms: 33.33, School: 40, Commute: 20, Age: 40, Amenities: 0}

	out := BuildReasoning(facts, prefs, cs, DefaultReasoning())
	wantFragments := []string{
		"exceeds budget",
		"below your requirement",
		"Below-average school district",
		"Long commute",
		"Older construction",
		"Few of your preferred amenities",
	}
	for i, frag := range wantFragments {
		if !strings.Contains(out[i], frag) {
			t.Errorf("sentence %d = %q, want fragment %q", i, out[i], frag)
		}
	}
}

func TestBuildReasoningUnknownData(t *testing.T) {
	facts := CandidateFacts{Bedrooms: 2}
	prefs := PreferenceFacts{Budget: 300000}
	cs := models.ComponentScores{Price: 100, Bedrooms: 100, School: 50, Commute: 50, Age: 50, Amenities: 50}

	out := BuildReasoning(facts, prefs, cs, DefaultReasoning())
	if !strings.Contains(out[2], "No school rating") {
		t.Errorf("school sentence = %q", out[2])
	}
	if !strings.Contains(out[3], "unknown") {
		t.Errorf("commute sentence = %q", out[3])
	}
	if !strings.Contains(out[4], "unknown") {
		t.Errorf("age sentence = %q", out[4])
	}
	if !strings.Contains(out[5], "No amenity information") {
		t.Errorf("amenities sentence = %q", out[5])
	}
}

func TestBuildReasoningDeterministic(t *testing.T) {
	facts := CandidateFacts{Bedrooms: 3, SchoolRating: floatPtr(7), CommuteTime: intPtr(25), YearBuilt: intPtr(2010), Amenities: []string{"gym"}}
	prefs := PreferenceFacts{Budget: 400000, MinBedrooms: intPtr(2), PreferredAmenities: []string{"gym", "pool"}}
	cs := models.ComponentScores{Price: 95, Bedrooms: 100, School: 70, Commute: 80, Age: 80, Amenities: 50}

	first := BuildReasoning(facts, prefs, cs, DefaultReasoning())
	for i := 0; i < 20; i++ {
		if got := BuildReasoning(facts, prefs, cs, DefaultReasoning()); !reflect.DeepEqual(first, got) {
			t.Fatal("reasoning differs across identical invocations")
		}
	}
}
