package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/fieldforce-crm/internal/config"
)

// Place is a geocoding candidate for a facility address.
type Place struct {
	PlaceID          string
	FormattedAddress string
	Latitude         float64
	Longitude        float64
}

// Client resolves facility names and addresses against a places provider.
// All lookups are best effort. A nil client or a missing API key disables lookups.
type Client struct {
	cfg    config.GeocodingConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a geocoding client. Returns nil when no API key is configured.
func NewClient(cfg config.GeocodingConfig, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// Search finds the best candidate for a facility name within a city.
func (c *Client) Search(ctx context.Context, name, city string) (*Place, error) {
	if c == nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", name+" "+city)
	params.Set("key", c.cfg.APIKey)

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			PlaceID          string `json:"place_id"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/place/textsearch/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" || len(payload.Results) == 0 {
		return nil, nil
	}

	best := payload.Results[0]
	return &Place{
		PlaceID:          best.PlaceID,
		FormattedAddress: best.FormattedAddress,
		Latitude:         best.Geometry.Location.Lat,
		Longitude:        best.Geometry.Location.Lng,
	}, nil
}

// Details fetches coordinates for a known place ID.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	if c == nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,formatted_address,geometry")
	params.Set("key", c.cfg.APIKey)

	var payload struct {
		Status string `json:"status"`
		Result struct {
			PlaceID          string `json:"place_id"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/place/details/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, nil
	}

	return &Place{
		PlaceID:          payload.Result.PlaceID,
		FormattedAddress: payload.Result.FormattedAddress,
		Latitude:         payload.Result.Geometry.Location.Lat,
		Longitude:        payload.Result.Geometry.Location.Lng,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.cfg.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode geocoding response: %w", err)
	}
	return nil
}
