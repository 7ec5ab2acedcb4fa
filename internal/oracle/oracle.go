package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/homescout/recommendation_service/internal/scoring"
	"github.com/homescout/recommendation_service/pkg/models"
)

// Client is a minimal HTTP client for an external price-prediction service.
// Every internal failure (transport, bad status, unparseable body) is mapped
// to scoring.ErrOracleUnavailable so callers can fall back to the listing
// price without inspecting the cause.
type Client struct {
	url     string
	hc      *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient creates a new client. If httpClient is nil, a default with a
// bounded timeout is used.
func NewClient(url string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:     url,
		hc:      httpClient,
		limiter: rate.NewLimiter(rate.Limit(50), 100),
		log:     log,
	}
}

// NewClientFromEnv builds a client from ORACLE_URL, or returns nil when the
// variable is unset. A nil client means prediction is disabled and the
// engine scores against listing prices.
func NewClientFromEnv(log *zap.Logger) *Client {
	url := os.Getenv("ORACLE_URL")
	if url == "" {
		return nil
	}
	return NewClient(url, nil, log)
}

// features is the payload the prediction service expects.
type features struct {
	Bedrooms       int    `json:"bedrooms"`
	Bathrooms      int    `json:"bathrooms"`
	SizeSqft       int    `json:"size_sqft"`
	YearBuilt      *int   `json:"year_built,omitempty"`
	Location       string `json:"location"`
	AmenitiesCount int    `json:"amenities_count"`
}

// Estimate returns a predicted price for the property, or
// scoring.ErrOracleUnavailable wrapped with the cause.
func (c *Client) Estimate(ctx context.Context, p models.Property) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: rate limit: %v", scoring.ErrOracleUnavailable, err)
	}

	body, err := json.Marshal(features{
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		SizeSqft:       p.SizeSqft,
		YearBuilt:      p.YearBuilt,
		Location:       p.Location,
		AmenitiesCount: len(p.Amenities),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: marshal features: %v", scoring.ErrOracleUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: new request: %v", scoring.ErrOracleUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("oracle request failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return 0, fmt.Errorf("%w: %v", scoring.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: status=%d", scoring.ErrOracleUnavailable, resp.StatusCode)
	}

	price, ok := parsePrice(respBody)
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%w: unrecognized response shape", scoring.ErrOracleUnavailable)
	}
	return price, nil
}

// parsePrice tries the response shapes seen across prediction backends:
// 1) {"predicted_price": 123.0}
// 2) {"price": 123.0}
// 3) {"prediction": 123.0}
// 4) {"predictions": [123.0, ...]}
func parsePrice(body []byte) (float64, bool) {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, false
	}
	for _, key := range []string{"predicted_price", "price", "prediction"} {
		if v, ok := parsed[key]; ok {
			if f, ok := v.(float64); ok {
				return f, true
			}
		}
	}
	if v, ok := parsed["predictions"]; ok {
		if arr, ok := v.([]any); ok && len(arr) > 0 {
			if f, ok := arr[0].(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}
