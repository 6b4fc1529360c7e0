// In file: internal/weather/client.go

// Package weather talks to the external data providers behind the get-weather
// tool: a geocoder that turns a place name into coordinates and a forecast
// service that reports current conditions for those coordinates.
//
// Provider responses are normalized into Coordinates and Conditions. Provider
// and network failures surface as ErrUpstreamUnavailable, distinct from
// ErrLocationNotFound, and no call is ever retried here; see RetryingClient
// for an opt-in decorator.
package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultGeocoderURL   = "https://nominatim.openstreetmap.org/search"
	DefaultConditionsURL = "https://api.open-meteo.com/v1/forecast"
	DefaultUserAgent     = "Weather-Agent-Gateway/1.0"
	DefaultTimeout       = 15 * time.Second

	maxBodyBytes = 1 << 20
)

// Coordinates is a resolved position in decimal degrees.
type Coordinates struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Conditions is the provider's current-weather report. WeatherCode is left as
// the provider's numeric code; callers map it with ConditionText.
type Conditions struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
	Time        string  `json:"time,omitempty"`
}

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	ResolveCoordinates(ctx context.Context, place string) (Coordinates, error)
}

// ConditionsProvider reports the current conditions at a position.
type ConditionsProvider interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (*Conditions, error)
}

// DataClient is the full external data surface used by the weather tool.
type DataClient interface {
	Geocoder
	ConditionsProvider
}

// Config holds the provider endpoints and the per-call timeout.
type Config struct {
	GeocoderURL   string
	ConditionsURL string
	UserAgent     string
	Timeout       time.Duration
}

// Client is the HTTP implementation of DataClient, backed by Nominatim for
// geocoding and Open-Meteo for conditions.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Statically verify that Client satisfies the DataClient contract.
var _ DataClient = (*Client)(nil)

// NewClient creates a provider client. Zero-valued config fields fall back to
// the public endpoints and DefaultTimeout.
func NewClient(cfg Config) *Client {
	if cfg.GeocoderURL == "" {
		cfg.GeocoderURL = DefaultGeocoderURL
	}
	if cfg.ConditionsURL == "" {
		cfg.ConditionsURL = DefaultConditionsURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ResolveCoordinates returns the first match the geocoder reports for place.
func (c *Client) ResolveCoordinates(ctx context.Context, place string) (Coordinates, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", place)

	body, err := c.get(ctx, c.cfg.GeocoderURL, params)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding '%s': %w", place, err)
	}

	matches := gjson.ParseBytes(body)
	if !matches.IsArray() {
		return Coordinates{}, fmt.Errorf("%w: geocoder returned a non-array body", ErrUpstreamUnavailable)
	}
	candidates := matches.Array()
	if len(candidates) == 0 {
		return Coordinates{}, fmt.Errorf("%w: '%s'", ErrLocationNotFound, place)
	}

	first := candidates[0]
	lat, err := parseDegrees(first.Get("lat"))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: bad latitude: %w", ErrUpstreamUnavailable, err)
	}
	lon, err := parseDegrees(first.Get("lon"))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: bad longitude: %w", ErrUpstreamUnavailable, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon, DisplayName: first.Get("display_name").String()}, nil
}

// CurrentConditions fetches the current weather block for a position.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (*Conditions, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("temperature_unit", "celsius")

	body, err := c.get(ctx, c.cfg.ConditionsURL, params)
	if err != nil {
		return nil, fmt.Errorf("fetching conditions: %w", err)
	}

	current := gjson.GetBytes(body, "current_weather")
	if !current.IsObject() {
		return nil, fmt.Errorf("%w: conditions response has no current_weather block", ErrUpstreamUnavailable)
	}
	for _, field := range []string{"temperature", "windspeed", "weathercode"} {
		if !current.Get(field).Exists() {
			return nil, fmt.Errorf("%w: current_weather.%s is missing", ErrUpstreamUnavailable, field)
		}
	}
	return &Conditions{
		Temperature: current.Get("temperature").Float(),
		WindSpeed:   current.Get("windspeed").Float(),
		WeatherCode: int(current.Get("weathercode").Int()),
		Time:        current.Get("time").String(),
	}, nil
}

// get performs one GET request and returns a validated JSON body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint %q: %w", ErrUpstreamUnavailable, endpoint, err)
	}
	base.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	// Nominatim rejects requests without an identifying User-Agent.
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstreamUnavailable, base.Host, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrUpstreamUnavailable, base.Host)
	}
	return body, nil
}

// parseDegrees accepts both the string form Nominatim uses and plain numbers.
func parseDegrees(v gjson.Result) (float64, error) {
	if !v.Exists() {
		return 0, errors.New("field missing")
	}
	if v.Type == gjson.Number {
		return v.Float(), nil
	}
	return strconv.ParseFloat(v.String(), 64)
}
