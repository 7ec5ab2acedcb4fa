package scoring

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/homescout/recommendation_service/pkg/models"
)

// DefaultTopN is used when the caller does not request a result count.
const DefaultTopN = 3

// Oracle produces a price estimate for a property. Implementations must
// return ErrOracleUnavailable (or any error) rather than panic; the engine
// always falls back to the listing price.
type Oracle interface {
	Estimate(ctx context.Context, p models.Property) (float64, error)
}

// Engine scores candidate properties against a preference snapshot and
// ranks them. It is stateless per candidate and safe for concurrent use.
type Engine struct {
	cfg    *Config
	oracle Oracle
	log    *zap.Logger
}

// NewEngine validates the weight table once; a bad table is a startup
// error, never a request-time one. A nil oracle disables prediction and
// every candidate scores against its listing price.
func NewEngine(cfg *Config, oracle Oracle, log *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.ApplyDefaults()
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, oracle: oracle, log: log}, nil
}

// estimatePrice asks the oracle for a prediction and falls back to the
// listing price on any failure. Oracle errors never propagate.
func (e *Engine) estimatePrice(ctx context.Context, p models.Property) float64 {
	if e.oracle == nil {
		return p.Price
	}
	predicted, err := e.oracle.Estimate(ctx, p)
	if err != nil || predicted <= 0 {
		e.log.Debug("price oracle fallback",
			zap.String("property_id", p.ID),
			zap.Error(err))
		return p.Price
	}
	return predicted
}

// ScoreProperty computes the six component scores, the weighted total and
// the reasoning narrative for one candidate.
func (e *Engine) ScoreProperty(ctx context.Context, p models.Property, prefs PreferenceFacts) (models.ScoredRecommendation, error) {
	facts, err := NormalizeProperty(p)
	if err != nil {
		return models.ScoredRecommendation{}, &ScoringError{PropertyID: p.ID, Err: err}
	}

	predicted := e.estimatePrice(ctx, p)

	cs := models.ComponentScores{
		Price:     PriceMatchScore(predicted, prefs.Budget),
		Bedrooms:  BedroomScore(facts.Bedrooms, prefs.MinBedrooms),
		School:    SchoolRatingScore(facts.SchoolRating),
		Commute:   CommuteScore(facts.CommuteTime),
		Age:       PropertyAgeScore(facts.YearBuilt, e.cfg.ReferenceYear),
		Amenities: AmenitiesScore(facts.Amenities, prefs.PreferredAmenities),
	}

	w := e.cfg.Weights
	total := w.Price*cs.Price +
		w.Bedrooms*cs.Bedrooms +
		w.School*cs.School +
		w.Commute*cs.Commute +
		w.Age*cs.Age +
		w.Amenities*cs.Amenities

	reasoning := BuildReasoning(facts, prefs, cs, e.cfg.Reasoning)

	cs.Price = round2(cs.Price)
	cs.Bedrooms = round2(cs.Bedrooms)
	cs.School = round2(cs.School)
	cs.Commute = round2(cs.Commute)
	cs.Age = round2(cs.Age)
	cs.Amenities = round2(cs.Amenities)

	return models.ScoredRecommendation{
		Property:        p,
		PredictedPrice:  predicted,
		TotalScore:      round2(total),
		ComponentScores: cs,
		Reasoning:       reasoning,
	}, nil
}

// Rank scores every candidate, sorts descending by total score and returns
// at most topN results. One candidate's failure is logged and skipped, never
// aborting the batch. Equal totals keep their input order.
func (e *Engine) Rank(ctx context.Context, properties []models.Property, pref models.UserPreference, topN int) ([]models.ScoredRecommendation, error) {
	prefs, err := NormalizePreference(pref)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	// Each worker writes only its own slot; order is preserved for the
	// stable tie-break below.
	results := make([]*models.ScoredRecommendation, len(properties))

	g := new(errgroup.Group)
	g.SetLimit(e.cfg.MaxConcurrency)
	for i, p := range properties {
		if ctx.Err() != nil {
			// Cancelled batch: stop submitting new candidates.
			break
		}
		i, p := i, p
		g.Go(func() error {
			rec, err := e.ScoreProperty(ctx, p, prefs)
			if err != nil {
				e.log.Warn("skipping candidate", zap.String("property_id", p.ID), zap.Error(err))
				return nil
			}
			results[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]models.ScoredRecommendation, 0, len(results))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, *r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}
