package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrCityNotFound = errors.New("city not found")

type Config struct {
	GeocodingURL string        `split_words:"true" default:"https://geocoding-api.open-meteo.com/v1/search"`
	ForecastURL  string        `split_words:"true" default:"https://api.open-meteo.com/v1/forecast"`
	Timeout      time.Duration `split_words:"true" default:"5s"`
}

// Client is a thin wrapper around the Open-Meteo geocoding and forecast APIs.
type Client struct {
	geocodingURL string
	forecastURL  string
	httpClient   *http.Client
}

type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
	Time        string  `json:"time"`
}

func NewClient(cfg Config) (*Client, error) {
	geocodingURL := strings.TrimSpace(cfg.GeocodingURL)
	if geocodingURL == "" {
		return nil, errors.New("geocoding url is required")
	}
	if _, err := url.ParseRequestURI(geocodingURL); err != nil {
		return nil, err
	}

	forecastURL := strings.TrimSpace(cfg.ForecastURL)
	if forecastURL == "" {
		return nil, errors.New("forecast url is required")
	}
	if _, err := url.ParseRequestURI(forecastURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Geocode resolves a city name to its best-matching location.
func (c *Client) Geocode(ctx context.Context, city string) (*Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.New("city is required")
	}

	query := url.Values{}
	query.Set("name", city)
	query.Set("count", "1")
	query.Set("language", "en")
	query.Set("format", "json")

	var payload struct {
		Results []Location `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodingURL, query, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}

	loc := payload.Results[0]
	return &loc, nil
}

// Current fetches current conditions for a coordinate pair.
func (c *Client) Current(ctx context.Context, latitude, longitude float64) (*CurrentWeather, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("current_weather", "true")

	var payload struct {
		CurrentWeather *CurrentWeather `json:"current_weather"`
	}
	if err := c.getJSON(ctx, c.forecastURL, query, &payload); err != nil {
		return nil, err
	}
	if payload.CurrentWeather == nil {
		return nil, errors.New("current weather is not available")
	}

	return payload.CurrentWeather, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
