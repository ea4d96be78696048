// Package submit is the client for the fallback venue-intake API, used
// when the service runs without its own database (static demo deploys
// submitting into a central moderation queue).
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ziorum/internal/store"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type addVenueResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type pendingVenuesResponse struct {
	OK   bool          `json:"ok"`
	Data []store.Venue `json:"data"`
}

type actionRequest struct {
	Action    string   `json:"action"`
	ID        string   `json:"id"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// AddVenue submits a venue for moderation and returns the queue id.
// A "table does not exist" failure triggers one best-effort schema
// bootstrap followed by a single retry.
func (c *Client) AddVenue(ctx context.Context, v store.Venue) (string, error) {
	id, err := c.addVenue(ctx, v)
	if err != nil && strings.Contains(err.Error(), "does not exist") {
		if initErr := c.InitDB(ctx); initErr == nil {
			return c.addVenue(ctx, v)
		}
	}
	return id, err
}

func (c *Client) addVenue(ctx context.Context, v store.Venue) (string, error) {
	var resp addVenueResponse
	if err := c.post(ctx, "/api/add-venue", v, &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("submission rejected")
	}
	return resp.ID, nil
}

// PendingVenues lists the moderation queue.
func (c *Client) PendingVenues(ctx context.Context) ([]store.Venue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pending-venues", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var resp pendingVenuesResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("pending venues request failed")
	}
	return resp.Data, nil
}

// VenueAction approves or rejects a queued venue.
func (c *Client) VenueAction(ctx context.Context, action, id string, lat, lon *float64) error {
	var resp struct {
		OK bool `json:"ok"`
	}
	body := actionRequest{Action: action, ID: id, Latitude: lat, Longitude: lon}
	if err := c.post(ctx, "/api/venue-action", body, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("venue action %q failed", action)
	}
	return nil
}

// InitDB asks the upstream to bootstrap its schema.
func (c *Client) InitDB(ctx context.Context) error {
	return c.post(ctx, "/api/init-db", struct{}{}, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&errBody)
		if errBody.Error != "" {
			return fmt.Errorf("%s: %s", path, errBody.Error)
		}
		return fmt.Errorf("%s: status %d", path, res.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
