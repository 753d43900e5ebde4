package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

// Health reports server health. An unhealthy server answers 503 with a
// report; that report is returned without an error.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", nil, nil, &hs)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		if jsonErr := json.Unmarshal(apiErr.body, &hs); jsonErr == nil && hs.Status != "" {
			return hs, nil
		}
	}
	return hs, err
}
