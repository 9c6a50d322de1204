package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Geocoder turns coordinates into a human-readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// NominatimGeocoder uses the OpenStreetMap Nominatim API. It is externally
// rate-limited, so callers must treat failures as expected.
type NominatimGeocoder struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:    "https://nominatim.openstreetmap.org",
		UserAgent:  "MiTicaje-App/1.0",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	u, err := url.Parse(g.BaseURL + "/reverse")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("reverse geocode failed with status code %d: %s", resp.StatusCode, string(b))
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode returned no address")
	}
	return body.DisplayName, nil
}

// FormatCoordinates is the address fallback when reverse geocoding fails.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
