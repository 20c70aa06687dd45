package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LockClient requests time-bounded access credentials from the
// access-control subsystem. Issuing a duplicate PIN for the same window is
// acceptable on retry; skipping issuance is not.
type LockClient interface {
	IssuePIN(ctx context.Context, boxID uuid.UUID, validFrom, validTo time.Time) (string, error)
}

// HTTPLockClient talks to the lock service over HTTP
type HTTPLockClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPLockClient(baseURL string) *HTTPLockClient {
	return &HTTPLockClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type issuePINRequest struct {
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
}

type issuePINResponse struct {
	PIN string `json:"pin"`
}

func (c *HTTPLockClient) IssuePIN(ctx context.Context, boxID uuid.UUID, validFrom, validTo time.Time) (string, error) {
	body, err := json.Marshal(issuePINRequest{ValidFrom: validFrom, ValidTo: validTo})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/locks/%s/pins", c.baseURL, boxID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lock service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("lock service returned status %d", resp.StatusCode)
	}

	var out issuePINResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("lock service response decode failed: %w", err)
	}
	if out.PIN == "" {
		return "", fmt.Errorf("lock service returned empty pin")
	}
	return out.PIN, nil
}
