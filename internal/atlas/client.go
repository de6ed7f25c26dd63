// Package atlas talks to the neighborhood data service and turns its raw
// place counts, ratings, and distances into the 0-100 category inputs the
// scoring engine consumes.
package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// NeighborhoodData is the raw payload for one address.
type NeighborhoodData struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// SchoolRatings are 1-10 ratings of nearby schools; empty means no data.
	SchoolRatings []float64 `json:"school_ratings,omitempty"`

	// CrimeIndex is 0-100 where 100 is most dangerous; nil means no data.
	CrimeIndex *float64 `json:"crime_index,omitempty"`

	RestaurantCount     int      `json:"restaurant_count"`
	RestaurantAvgRating *float64 `json:"restaurant_avg_rating,omitempty"`

	NightlifeCount     int      `json:"nightlife_count"`
	NightlifeAvgRating *float64 `json:"nightlife_avg_rating,omitempty"`

	GroceryStores []GroceryStore `json:"grocery_stores,omitempty"`

	TransitStopCount int `json:"transit_stop_count"`

	// DriveMinutes is the commute estimate if the service computed one;
	// when nil it is estimated locally from the coordinates.
	DriveMinutes *int `json:"drive_minutes,omitempty"`
}

type GroceryStore struct {
	Name          string  `json:"name"`
	DistanceMiles float64 `json:"distance_miles"`
}

type Client interface {
	Lookup(ctx context.Context, address string) (*NeighborhoodData, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient builds a client for the neighborhood data service. A
// non-positive timeout falls back to 10s.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("atlas %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) Lookup(ctx context.Context, address string) (*NeighborhoodData, error) {
	data, err := c.doReq(ctx, "GET", "/v1/neighborhood?address="+url.QueryEscape(address))
	if err != nil {
		return nil, err
	}
	var nd NeighborhoodData
	if err := json.Unmarshal(data, &nd); err != nil {
		return nil, fmt.Errorf("atlas decode: %w", err)
	}
	return &nd, nil
}
