package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
)

// OpenMeteoClient talks to the free open-meteo forecast and geocoding APIs.
// Outbound calls share one rate limiter.
type OpenMeteoClient struct {
	*BaseClient
	baseURL    string
	geocodeURL string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type openMeteoGeocodeResponse struct {
	Results []models.GeoLocation `json:"results"`
}

func NewOpenMeteoClient(baseURL, geocodeURL string, rps float64, burst int, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	baseClient := NewBaseClient("openmeteo", config, logger)
	return &OpenMeteoClient{
		BaseClient: baseClient,
		baseURL:    baseURL,
		geocodeURL: geocodeURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}
}

// Geocode resolves a city name to coordinates. It returns nil without error
// when the API has no match.
func (c *OpenMeteoClient) Geocode(ctx context.Context, city, country string) (*models.GeoLocation, error) {
	params := url.Values{
		"name":  {city},
		"count": {"1"},
	}
	if country != "" {
		params.Set("country", country)
	}

	data, err := c.get(ctx, c.geocodeURL+"/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %s: %w", city, err)
	}

	var response openMeteoGeocodeResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(response.Results) == 0 {
		return nil, nil
	}
	return &response.Results[0], nil
}

// Forecast fetches current conditions and an 8-day daily forecast in the
// location's own timezone.
func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current":       {"temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code"},
		"daily":         {"temperature_2m_max,temperature_2m_min,weather_code"},
		"forecast_days": {"8"},
		"timezone":      {"auto"},
	}

	data, err := c.get(ctx, c.baseURL+"/forecast?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var forecast models.Forecast
	if err := json.Unmarshal(data, &forecast); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	return &forecast, nil
}

func (c *OpenMeteoClient) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.Get(ctx, u)
}

// WeatherCodeDescription maps a WMO weather interpretation code to text.
func WeatherCodeDescription(code int) string {
	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return "Unknown"
}

var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Icy fog",
	51: "Light drizzle",
	53: "Drizzle",
	55: "Heavy drizzle",
	61: "Light rain",
	63: "Rain",
	65: "Heavy rain",
	71: "Light snow",
	73: "Snow",
	75: "Heavy snow",
	80: "Rain showers",
	81: "Rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
}
