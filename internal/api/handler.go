package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homescout/recommendation_service/internal/scoring"
	"github.com/homescout/recommendation_service/internal/service"
	"github.com/homescout/recommendation_service/internal/store"
	"github.com/homescout/recommendation_service/pkg/models"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.GET("/health", h.Health)
		v1.POST("/properties", h.IngestProperties)
		v1.GET("/properties", h.ListProperties)
		v1.GET("/properties/:id", h.GetProperty)
		v1.POST("/preferences", h.SubmitPreferences)
		v1.GET("/recommendations", h.RecommendForSession)
		v1.POST("/recommendations", h.Recommend)
		v1.POST("/price/estimate", h.EstimatePrice)
	}
}

// Health: GET /v1/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"oracle_enabled": h.svc.OracleEnabled(),
	})
}

// IngestProperties: POST /v1/properties
// Body: JSON array of properties
func (h *Handler) IngestProperties(c *gin.Context) {
	var payload []*models.Property
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.IngestProperties(c.Request.Context(), payload); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"meta": gin.H{"imported": len(payload)},
	})
}

// ListProperties: GET /v1/properties?location=...&min_bedrooms=2&max_price=500000&limit=50&offset=0
func (h *Handler) ListProperties(c *gin.Context) {
	minBedrooms, _ := strconv.Atoi(c.Query("min_bedrooms"))
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	f := store.PropertyFilter{
		Location:    c.Query("location"),
		MinBedrooms: minBedrooms,
		MaxPrice:    maxPrice,
		Limit:       parseLimit(c.DefaultQuery("limit", "50")),
		Offset:      offset,
	}
	res, err := h.svc.ListProperties(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"count":  len(res),
			"limit":  f.Limit,
			"offset": f.Offset,
		},
		"data": res,
	})
}

// GetProperty: GET /v1/properties/:id
func (h *Handler) GetProperty(c *gin.Context) {
	p, err := h.svc.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PreferenceRequest is the preference submission payload.
type PreferenceRequest struct {
	SessionID          string   `json:"session_id" binding:"required"`
	Budget             float64  `json:"budget" binding:"required,gt=0"`
	Location           string   `json:"location"`
	MinBedrooms        *int     `json:"min_bedrooms"`
	MaxCommuteTime     *int     `json:"max_commute_time"`
	MinSchoolRating    *float64 `json:"min_school_rating"`
	PreferredAmenities []string `json:"preferred_amenities"`
}

// SubmitPreferences: POST /v1/preferences
func (h *Handler) SubmitPreferences(c *gin.Context) {
	var req PreferenceRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	pref := &models.UserPreference{
		SessionID:          req.SessionID,
		Budget:             req.Budget,
		Location:           req.Location,
		MinBedrooms:        req.MinBedrooms,
		MaxCommuteTime:     req.MaxCommuteTime,
		MinSchoolRating:    req.MinSchoolRating,
		PreferredAmenities: req.PreferredAmenities,
	}
	if err := h.svc.SubmitPreferences(c.Request.Context(), pref); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "preferences submitted",
		"preference_id": pref.ID,
		"session_id":    pref.SessionID,
	})
}

// RecommendForSession: GET /v1/recommendations?session_id=...&top_n=3
func (h *Handler) RecommendForSession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session_id parameter"})
		return
	}
	topN, _ := strconv.Atoi(c.DefaultQuery("top_n", "3"))

	res, err := h.svc.RecommendForSession(c.Request.Context(), sessionID, topN)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"session_id": sessionID,
			"count":      len(res),
			"top_n":      topN,
		},
		"data": res,
	})
}

// RecommendRequest is the stateless ranking payload.
type RecommendRequest struct {
	Preferences models.UserPreference `json:"preferences" binding:"required"`
	Properties  []models.Property     `json:"properties" binding:"required"`
	TopN        int                   `json:"top_n"`
}

// Recommend: POST /v1/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	res, err := h.svc.Recommend(c.Request.Context(), req.Preferences, req.Properties, req.TopN)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(res)},
		"data": res,
	})
}

// EstimatePrice: POST /v1/price/estimate
// Proxies the oracle; reports 503 when it is unavailable.
func (h *Handler) EstimatePrice(c *gin.Context) {
	var p models.Property
	if err := c.BindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	price, err := h.svc.EstimatePrice(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, scoring.ErrOracleUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price oracle unavailable"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"predicted_price": price,
		"property":        p,
	})
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var verr *scoring.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, service.ErrNoProperties):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseLimit ensures a sane integer limit, with bounds
func parseLimit(s string) int {
	l, err := strconv.Atoi(s)
	if err != nil || l <= 0 {
		return 50
	}
	if l > 200 {
		return 200
	}
	return l
}
