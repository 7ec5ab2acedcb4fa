package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	dbtypes "github.com/homescout/recommendation_service/internal/db"
	"github.com/homescout/recommendation_service/pkg/models"
)

type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS properties(
  id UUID PRIMARY KEY,
  title TEXT,
  location TEXT,
  price DOUBLE PRECISION NOT NULL,
  bedrooms INTEGER NOT NULL,
  bathrooms INTEGER DEFAULT 0,
  size_sqft INTEGER DEFAULT 0,
  year_built INTEGER,
  school_rating DOUBLE PRECISION,
  commute_time INTEGER,
  amenities JSONB,
  image_urls JSONB,
  created_at TIMESTAMP DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_properties_price ON properties(price);
CREATE INDEX IF NOT EXISTS idx_properties_bedrooms ON properties(bedrooms);
-- GIN index for jsonb array search on amenities
CREATE INDEX IF NOT EXISTS idx_properties_amenities ON properties USING GIN (amenities);

CREATE TABLE IF NOT EXISTS user_preferences(
  id UUID PRIMARY KEY,
  session_id TEXT NOT NULL,
  budget DOUBLE PRECISION NOT NULL,
  location TEXT,
  min_bedrooms INTEGER,
  max_commute_time INTEGER,
  min_school_rating DOUBLE PRECISION,
  preferred_amenities JSONB,
  created_at TIMESTAMP DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_preferences_session ON user_preferences(session_id, created_at DESC);
`
	_, err := db.Exec(initSQL)
	return err
}

// SaveProperties upserts a batch of listings. Ids are assigned when missing
// and jsonb slices are written through dbtypes.StringSlice.
func (p *PgStore) SaveProperties(properties []*models.Property) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO properties (id, title, location, price, bedrooms, bathrooms, size_sqft, year_built, school_rating, commute_time, amenities, image_urls, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::jsonb,$12::jsonb,$13)
ON CONFLICT (id) DO UPDATE SET
 title=EXCLUDED.title,
 location=EXCLUDED.location,
 price=EXCLUDED.price,
 bedrooms=EXCLUDED.bedrooms,
 bathrooms=EXCLUDED.bathrooms,
 size_sqft=EXCLUDED.size_sqft,
 year_built=EXCLUDED.year_built,
 school_rating=EXCLUDED.school_rating,
 commute_time=EXCLUDED.commute_time,
 amenities=EXCLUDED.amenities,
 image_urls=EXCLUDED.image_urls;
`

	for _, prop := range properties {
		if prop.ID == "" {
			prop.ID = uuid.New().String()
		}
		if prop.Amenities == nil {
			prop.Amenities = dbtypes.StringSlice{}
		}
		if prop.ImageURLs == nil {
			prop.ImageURLs = dbtypes.StringSlice{}
		}
		if prop.CreatedAt.IsZero() {
			prop.CreatedAt = time.Now().UTC()
		}

		_, err := tx.Exec(stmt,
			prop.ID,
			prop.Title,
			prop.Location,
			prop.Price,
			prop.Bedrooms,
			prop.Bathrooms,
			prop.SizeSqft,
			prop.YearBuilt,
			prop.SchoolRating,
			prop.CommuteTime,
			prop.Amenities,
			prop.ImageURLs,
			prop.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert property id=%s: %w", prop.ID, err)
		}
	}

	return tx.Commit()
}

// PropertyFilter narrows ListProperties results. Zero values mean "no filter".
type PropertyFilter struct {
	Location    string
	MinBedrooms int
	MaxPrice    float64
	Limit       int
	Offset      int
}

func (p *PgStore) ListProperties(f PropertyFilter) ([]*models.Property, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := []string{}
	args := []interface{}{}
	n := 1
	if f.Location != "" {
		where = append(where, "location ILIKE $"+strconv.Itoa(n))
		args = append(args, "%"+f.Location+"%")
		n++
	}
	if f.MinBedrooms > 0 {
		where = append(where, "bedrooms >= $"+strconv.Itoa(n))
		args = append(args, f.MinBedrooms)
		n++
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= $"+strconv.Itoa(n))
		args = append(args, f.MaxPrice)
		n++
	}

	query := `
SELECT id,title,location,price,bedrooms,bathrooms,size_sqft,year_built,school_rating,commute_time,amenities,image_urls,created_at
FROM properties
`
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += fmt.Sprintf("ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, f.Limit, f.Offset)

	rows := []*models.Property{}
	err := p.db.Select(&rows, query, args...)
	return rows, err
}

// AllProperties returns every listing, capped at limit.
func (p *PgStore) AllProperties(limit int) ([]*models.Property, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	rows := []*models.Property{}
	query := `
SELECT id,title,location,price,bedrooms,bathrooms,size_sqft,year_built,school_rating,commute_time,amenities,image_urls,created_at
FROM properties
ORDER BY created_at DESC
LIMIT $1
`
	err := p.db.Select(&rows, query, limit)
	return rows, err
}

// GetPropertyByID returns the listing or nil when it does not exist.
func (p *PgStore) GetPropertyByID(id string) (*models.Property, error) {
	row := models.Property{}
	query := `
SELECT id,title,location,price,bedrooms,bathrooms,size_sqft,year_built,school_rating,commute_time,amenities,image_urls,created_at
FROM properties
WHERE id = $1
LIMIT 1
`
	err := p.db.Get(&row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SavePreference inserts a new immutable snapshot. Snapshots are never
// updated in place; a resubmission under the same session creates a new row.
func (p *PgStore) SavePreference(pref *models.UserPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.New().String()
	}
	if pref.PreferredAmenities == nil {
		pref.PreferredAmenities = dbtypes.StringSlice{}
	}
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = time.Now().UTC()
	}

	stmt := `
INSERT INTO user_preferences (id, session_id, budget, location, min_bedrooms, max_commute_time, min_school_rating, preferred_amenities, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9)
`
	_, err := p.db.Exec(stmt,
		pref.ID,
		pref.SessionID,
		pref.Budget,
		pref.Location,
		pref.MinBedrooms,
		pref.MaxCommuteTime,
		pref.MinSchoolRating,
		pref.PreferredAmenities,
		pref.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert preference session=%s: %w", pref.SessionID, err)
	}
	return nil
}

// LatestPreference returns the most recent snapshot for the session, or nil
// when the session has never submitted one.
func (p *PgStore) LatestPreference(sessionID string) (*models.UserPreference, error) {
	row := models.UserPreference{}
	query := `
SELECT id,session_id,budget,location,min_bedrooms,max_commute_time,min_school_rating,preferred_amenities,created_at
FROM user_preferences
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	err := p.db.Get(&row, query, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
