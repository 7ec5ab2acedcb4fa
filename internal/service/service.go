package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/homescout/recommendation_service/internal/scoring"
	"github.com/homescout/recommendation_service/internal/store"
	"github.com/homescout/recommendation_service/pkg/models"
)

// ErrSessionNotFound means the session has never submitted preferences.
var ErrSessionNotFound = errors.New("no preferences found for session")

// ErrPropertyNotFound means the requested listing does not exist.
var ErrPropertyNotFound = errors.New("property not found")

// ErrNoProperties means there are no candidates to rank.
var ErrNoProperties = errors.New("no properties available")

// PropertyStore is the persistence surface the service needs for listings.
type PropertyStore interface {
	SaveProperties([]*models.Property) error
	ListProperties(store.PropertyFilter) ([]*models.Property, error)
	AllProperties(limit int) ([]*models.Property, error)
	GetPropertyByID(id string) (*models.Property, error)
}

// PreferenceStore is the persistence surface for preference snapshots.
type PreferenceStore interface {
	SavePreference(*models.UserPreference) error
	LatestPreference(sessionID string) (*models.UserPreference, error)
}

type Service struct {
	properties  PropertyStore
	preferences PreferenceStore
	engine      *scoring.Engine
	oracle      scoring.Oracle
	log         *zap.Logger
}

// NewService wires the stores, the scoring engine and the (possibly nil)
// oracle. When rdb is non-nil, oracle estimates are cached per property id.
func NewService(properties PropertyStore, preferences PreferenceStore, cfg *scoring.Config, orc scoring.Oracle, rdb *redis.Client, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if orc != nil && rdb != nil {
		orc = &cachedOracle{inner: orc, rdb: rdb, ttl: 10 * time.Minute, log: log}
	}
	engine, err := scoring.NewEngine(cfg, orc, log)
	if err != nil {
		return nil, err
	}
	return &Service{
		properties:  properties,
		preferences: preferences,
		engine:      engine,
		oracle:      orc,
		log:         log,
	}, nil
}

// OracleEnabled reports whether a price oracle is configured.
func (s *Service) OracleEnabled() bool { return s.oracle != nil }

// SubmitPreferences validates and stores a new snapshot for the session.
func (s *Service) SubmitPreferences(ctx context.Context, pref *models.UserPreference) error {
	if pref.SessionID == "" {
		return &scoring.ValidationError{Field: "session_id", Reason: "required"}
	}
	if _, err := scoring.NormalizePreference(*pref); err != nil {
		return err
	}
	if err := s.preferences.SavePreference(pref); err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	s.log.Info("preference snapshot stored",
		zap.String("session_id", pref.SessionID),
		zap.String("preference_id", pref.ID))
	return nil
}

// RecommendForSession ranks all stored properties against the latest
// preference snapshot of the session.
func (s *Service) RecommendForSession(ctx context.Context, sessionID string, topN int) ([]models.ScoredRecommendation, error) {
	pref, err := s.preferences.LatestPreference(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load preference: %w", err)
	}
	if pref == nil {
		return nil, ErrSessionNotFound
	}

	candidates, err := s.properties.AllProperties(0)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoProperties
	}

	props := make([]models.Property, 0, len(candidates))
	for _, c := range candidates {
		props = append(props, *c)
	}
	return s.engine.Rank(ctx, props, *pref, topN)
}

// Recommend ranks the supplied candidates directly, without touching the
// store. This is the stateless request shape.
func (s *Service) Recommend(ctx context.Context, pref models.UserPreference, properties []models.Property, topN int) ([]models.ScoredRecommendation, error) {
	return s.engine.Rank(ctx, properties, pref, topN)
}

// IngestProperties stores a batch of listings.
func (s *Service) IngestProperties(ctx context.Context, properties []*models.Property) error {
	for _, p := range properties {
		if _, err := scoring.NormalizeProperty(*p); err != nil {
			return err
		}
	}
	return s.properties.SaveProperties(properties)
}

// ListProperties returns listings matching the filter.
func (s *Service) ListProperties(ctx context.Context, f store.PropertyFilter) ([]*models.Property, error) {
	return s.properties.ListProperties(f)
}

// GetProperty returns one listing or ErrPropertyNotFound.
func (s *Service) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.properties.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

// EstimatePrice exposes the oracle directly. Unlike recommendation scoring
// it surfaces ErrOracleUnavailable so the caller can report it.
func (s *Service) EstimatePrice(ctx context.Context, p models.Property) (float64, error) {
	if s.oracle == nil {
		return 0, scoring.ErrOracleUnavailable
	}
	return s.oracle.Estimate(ctx, p)
}

// cachedOracle memoizes estimates per property id in Redis. The cache is
// best-effort: any Redis failure falls through to the inner oracle.
type cachedOracle struct {
	inner scoring.Oracle
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func (c *cachedOracle) Estimate(ctx context.Context, p models.Property) (float64, error) {
	key := "oracle:price:" + p.ID
	if p.ID != "" {
		if v, err := c.rdb.Get(ctx, key).Result(); err == nil {
			if price, perr := strconv.ParseFloat(v, 64); perr == nil && price > 0 {
				return price, nil
			}
		}
	}

	price, err := c.inner.Estimate(ctx, p)
	if err != nil {
		return 0, err
	}

	if p.ID != "" {
		if err := c.rdb.Set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), c.ttl).Err(); err != nil {
			c.log.Debug("price cache write failed", zap.String("property_id", p.ID), zap.Error(err))
		}
	}
	return price, nil
}
