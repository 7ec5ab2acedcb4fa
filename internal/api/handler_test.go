package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homescout/recommendation_service/internal/scoring"
	"github.com/homescout/recommendation_service/internal/service"
	"github.com/homescout/recommendation_service/internal/store"
	"github.com/homescout/recommendation_service/pkg/models"
)

type memStore struct {
	properties  []*models.Property
	preferences []*models.UserPreference
}

func (m *memStore) SaveProperties(props []*models.Property) error {
	for i, p := range props {
		if p.ID == "" {
			p.ID = fmt.Sprintf("mem-%d", len(m.properties)+i)
		}
	}
	m.properties = append(m.properties, props...)
	return nil
}

func (m *memStore) ListProperties(f store.PropertyFilter) ([]*models.Property, error) {
	return m.properties, nil
}

func (m *memStore) AllProperties(limit int) ([]*models.Property, error) {
	return m.properties, nil
}

func (m *memStore) GetPropertyByID(id string) (*models.Property, error) {
	for _, p := range m.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) SavePreference(pref *models.UserPreference) error {
	if pref.ID == "" {
		pref.ID = fmt.Sprintf("pref-%d", len(m.preferences))
	}
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = time.Now().UTC()
	}
	m.preferences = append(m.preferences, pref)
	return nil
}

func (m *memStore) LatestPreference(sessionID string) (*models.UserPreference, error) {
	var latest *models.UserPreference
	for _, p := range m.preferences {
		if p.SessionID != sessionID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return latest, nil
}

func newTestRouter(t *testing.T, m *memStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := scoring.DefaultConfig()
	cfg.ReferenceYear = 2024

	svc, err := service.NewService(m, m, cfg, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	router := gin.New()
	RegisterRoutes(router, NewHandler(svc))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &memStore{})
	w := doJSON(t, router, http.MethodGet, "/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["oracle_enabled"] != false {
		t.Errorf("oracle_enabled = %v, want false", resp["oracle_enabled"])
	}
}

func TestSubmitPreferences(t *testing.T) {
	router := newTestRouter(t, &memStore{})

	w := doJSON(t, router, http.MethodPost, "/v1/preferences", map[string]any{
		"session_id":          "s1",
		"budget":              500000,
		"min_bedrooms":        2,
		"preferred_amenities": []string{"Gym", "Pool"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["session_id"] != "s1" || resp["preference_id"] == "" {
		t.Errorf("unexpected response: %v", resp)
	}
}

func TestSubmitPreferencesMissingBudget(t *testing.T) {
	router := newTestRouter(t, &memStore{})
	w := doJSON(t, router, http.MethodPost, "/v1/preferences", map[string]any{
		"session_id": "s1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestIngestAndGetProperty(t *testing.T) {
	router := newTestRouter(t, &memStore{})

	w := doJSON(t, router, http.MethodPost, "/v1/properties", []map[string]any{
		{"id": "p1", "title": "Home", "price": 450000, "bedrooms": 3},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/v1/properties/p1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/v1/properties/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing property status = %d, want 404", w.Code)
	}
}

func TestIngestInvalidProperty(t *testing.T) {
	router := newTestRouter(t, &memStore{})
	w := doJSON(t, router, http.MethodPost, "/v1/properties", []map[string]any{
		{"title": "no price", "bedrooms": 2},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRecommendStateless(t *testing.T) {
	router := newTestRouter(t, &memStore{})

	w := doJSON(t, router, http.MethodPost, "/v1/recommendations", map[string]any{
		"top_n": 2,
		"preferences": map[string]any{
			"session_id":          "s1",
			"budget":              500000,
			"min_bedrooms":        2,
			"max_commute_time":    30,
			"preferred_amenities": []string{"Gym", "Pool"},
		},
		"properties": []map[string]any{
			{"id": "good", "price": 450000, "bedrooms": 3, "school_rating": 8.5, "commute_time": 20, "year_built": 2018, "amenities": []string{"Gym", "Pool", "Parking"}},
			{"id": "pricey", "price": 950000, "bedrooms": 3},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []models.ScoredRecommendation `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("count = %d, want 2", len(resp.Data))
	}
	best := resp.Data[0]
	if best.Property.ID != "good" {
		t.Errorf("best = %s, want good", best.Property.ID)
	}
	if best.TotalScore != 92.75 {
		t.Errorf("total = %v, want 92.75", best.TotalScore)
	}
	if best.ComponentScores.School != 85 || best.ComponentScores.Commute != 80 {
		t.Errorf("component scores = %+v", best.ComponentScores)
	}
	if len(best.Reasoning) != 6 {
		t.Errorf("reasoning length = %d, want 6", len(best.Reasoning))
	}
}

func TestRecommendForSessionNotFound(t *testing.T) {
	router := newTestRouter(t, &memStore{})
	w := doJSON(t, router, http.MethodGet, "/v1/recommendations?session_id=ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRecommendForSessionMissingParam(t *testing.T) {
	router := newTestRouter(t, &memStore{})
	w := doJSON(t, router, http.MethodGet, "/v1/recommendations", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRecommendForSessionFlow(t *testing.T) {
	router := newTestRouter(t, &memStore{})

	w := doJSON(t, router, http.MethodPost, "/v1/properties", []map[string]any{
		{"id": "p1", "price": 300000, "bedrooms": 2},
		{"id": "p2", "price": 800000, "bedrooms": 2},
	})
	if w.Code != http.StatusCreated {
		t.Fatal(w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/v1/preferences", map[string]any{
		"session_id": "s1", "budget": 400000,
	})
	if w.Code != http.StatusCreated {
		t.Fatal(w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/v1/recommendations?session_id=s1&top_n=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []models.ScoredRecommendation `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Property.ID != "p1" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestEstimatePriceUnavailable(t *testing.T) {
	router := newTestRouter(t, &memStore{})
	w := doJSON(t, router, http.MethodPost, "/v1/price/estimate", map[string]any{
		"price": 450000, "bedrooms": 3,
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
