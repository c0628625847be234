package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
	openmeteox "github.com/shoplite/phone-shop-agent/pkg/openmeteo"
)

// WeatherOutput mirrors the report shape the agents expect.
type WeatherOutput struct {
	Status string `json:"status"`
	Report string `json:"report,omitempty"`
}

func executeWeather(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	city, ok := stringArg(args, "city")
	if !ok {
		return contractx.ToolResult{Tool: ToolGetWeather, Error: "city is required"}, nil
	}

	if deps.Weather == nil {
		return contractx.ToolResult{Tool: ToolGetWeather, Error: "weather service is not configured"}, nil
	}

	location, err := deps.Weather.Geocode(ctx, city)
	if err != nil {
		if errors.Is(err, openmeteox.ErrCityNotFound) {
			return contractx.ToolResult{
				Tool:  ToolGetWeather,
				Error: fmt.Sprintf("City '%s' not found.", city),
			}, nil
		}
		log.Error().Err(err).Str("city", city).Msg("geocoding failed")
		return contractx.ToolResult{Tool: ToolGetWeather, Error: "Failed to fetch location data."}, nil
	}

	current, err := deps.Weather.Current(ctx, location.Latitude, location.Longitude)
	if err != nil {
		log.Error().Err(err).Str("city", city).Msg("weather lookup failed")
		return contractx.ToolResult{Tool: ToolGetWeather, Error: "Failed to fetch weather data."}, nil
	}

	return contractx.ToolResult{
		Tool: ToolGetWeather,
		Result: WeatherOutput{
			Status: "success",
			Report: fmt.Sprintf("The weather in %s is %.1f°C with windspeed of %.1f km/h.",
				location.Name, current.Temperature, current.Windspeed),
		},
	}, nil
}

// executeCurrentTime resolves the city's timezone through the geocoding
// lookup and reports the local time there.
func executeCurrentTime(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	city, ok := stringArg(args, "city")
	if !ok {
		return contractx.ToolResult{Tool: ToolCurrentTime, Error: "city is required"}, nil
	}

	if deps.Weather == nil {
		return contractx.ToolResult{Tool: ToolCurrentTime, Error: "weather service is not configured"}, nil
	}

	location, err := deps.Weather.Geocode(ctx, city)
	if err != nil {
		if errors.Is(err, openmeteox.ErrCityNotFound) {
			return contractx.ToolResult{
				Tool:  ToolCurrentTime,
				Error: fmt.Sprintf("City '%s' not found.", city),
			}, nil
		}
		log.Error().Err(err).Str("city", city).Msg("geocoding failed")
		return contractx.ToolResult{Tool: ToolCurrentTime, Error: "Failed to fetch location data."}, nil
	}

	if location.Timezone == "" {
		return contractx.ToolResult{
			Tool:  ToolCurrentTime,
			Error: fmt.Sprintf("No timezone information available for '%s'.", city),
		}, nil
	}

	loc, err := time.LoadLocation(location.Timezone)
	if err != nil {
		log.Error().Err(err).Str("timezone", location.Timezone).Msg("unknown timezone")
		return contractx.ToolResult{
			Tool:  ToolCurrentTime,
			Error: fmt.Sprintf("Unknown timezone '%s' for city '%s'.", location.Timezone, city),
		}, nil
	}

	now := deps.Now().In(loc)
	return contractx.ToolResult{
		Tool: ToolCurrentTime,
		Result: WeatherOutput{
			Status: "success",
			Report: fmt.Sprintf("The current time in %s is %s.", location.Name, now.Format("2006-01-02 15:04:05 MST-0700")),
		},
	}, nil
}
