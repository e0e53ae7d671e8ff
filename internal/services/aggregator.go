package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
	"github.com/bobby-s-dev/life-dashboard/internal/observability"
	"github.com/bobby-s-dev/life-dashboard/pkg/client"
)

const forecastDays = 7

var ErrLocationNotFound = errors.New("location not found")

type FireSource interface {
	FetchFireData(ctx context.Context) models.FireDataSnapshot
}

type WeatherClient interface {
	Geocode(ctx context.Context, city, country string) (*models.GeoLocation, error)
	Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error)
}

// Aggregator assembles the dashboard card for each location from the
// open-meteo forecast and the current fire snapshot.
type Aggregator struct {
	weather   WeatherClient
	fire      FireSource
	cache     *GeocodeCache
	locations []models.Location
	logger    *zap.Logger
	metrics   *observability.Metrics
}

func NewAggregator(weather WeatherClient, fire FireSource, cache *GeocodeCache, locations []models.Location, logger *zap.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		weather:   weather,
		fire:      fire,
		cache:     cache,
		locations: locations,
		logger:    logger,
		metrics:   metrics,
	}
}

func (a *Aggregator) Locations() []models.Location {
	return a.locations
}

func (a *Aggregator) GetFireData(ctx context.Context) models.FireDataSnapshot {
	return a.fire.FetchFireData(ctx)
}

// GetAll fetches the fire snapshot once and assembles every configured
// location. Results keep the configured order; the first failure fails the
// whole call.
func (a *Aggregator) GetAll(ctx context.Context) ([]*models.WeatherResponse, error) {
	startTime := time.Now()
	snapshot := a.fire.FetchFireData(ctx)

	results := make([]*models.WeatherResponse, len(a.locations))
	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range a.locations {
		g.Go(func() error {
			resp, err := a.GetWeather(gctx, loc, snapshot)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Info("Weather fetch completed",
		zap.Int("locations", len(a.locations)),
		zap.Duration("duration", time.Since(startTime)))
	return results, nil
}

// GetWeather builds one location's card. A nil snapshot means no fire data.
func (a *Aggregator) GetWeather(ctx context.Context, loc models.Location, snapshot models.FireDataSnapshot) (*models.WeatherResponse, error) {
	resp, err := a.getWeather(ctx, loc, snapshot)
	switch {
	case err == nil:
		a.metrics.WeatherRequests.WithLabelValues("success").Inc()
	case errors.Is(err, ErrLocationNotFound):
		a.metrics.WeatherRequests.WithLabelValues("not_found").Inc()
	default:
		a.metrics.WeatherRequests.WithLabelValues("error").Inc()
		a.logger.Error("Failed to fetch weather for location",
			zap.String("city", loc.City),
			zap.String("country", loc.Country),
			zap.Error(err))
	}
	return resp, err
}

func (a *Aggregator) getWeather(ctx context.Context, loc models.Location, snapshot models.FireDataSnapshot) (*models.WeatherResponse, error) {
	geo, err := a.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	forecast, err := a.weather.Forecast(ctx, geo.Latitude, geo.Longitude)
	if err != nil {
		return nil, err
	}

	daily := forecast.Daily
	n := len(daily.Time)
	if n < forecastDays+1 || len(daily.Temperature2MMin) < n || len(daily.Temperature2MMax) < n {
		return nil, fmt.Errorf("incomplete daily forecast for %s: %d days", geo.Name, n)
	}

	week := make([]models.DayForecast, 0, forecastDays)
	for i := 1; i <= forecastDays; i++ {
		date, err := time.Parse(time.DateOnly, daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("invalid forecast date %q: %w", daily.Time[i], err)
		}
		week = append(week, models.DayForecast{
			Day:     date.Weekday().String()[:1],
			TempMin: int(math.RoundToEven(daily.Temperature2MMin[i])),
			TempMax: int(math.RoundToEven(daily.Temperature2MMax[i])),
		})
	}

	resp := &models.WeatherResponse{
		Location:     geo.Name,
		Temperature:  forecast.Current.Temperature2M,
		Description:  client.WeatherCodeDescription(forecast.Current.WeatherCode),
		Humidity:     forecast.Current.RelativeHumidity2M,
		WindSpeed:    forecast.Current.WindSpeed10M,
		TempMin:      daily.Temperature2MMin[0],
		TempMax:      daily.Temperature2MMax[0],
		Forecast7Day: week,
		BomTodayURL:  loc.BomURL + "#today",
		Bom7DayURL:   loc.BomURL + "#7-days",
	}

	if loc.FireDistrict != "" {
		if status, ok := snapshot[loc.FireDistrict]; ok {
			resp.TotalFireBan = status.TotalFireBan
			if loc.ShowFireDanger {
				resp.FireDanger = status.FireDanger
			}
		}
	}

	return resp, nil
}

// resolve prefers configured coordinates and falls back to a cached geocode.
func (a *Aggregator) resolve(ctx context.Context, loc models.Location) (models.GeoLocation, error) {
	if loc.Latitude != nil && loc.Longitude != nil {
		name := loc.Name
		if name == "" {
			name = loc.City
		}
		return models.GeoLocation{Name: name, Latitude: *loc.Latitude, Longitude: *loc.Longitude}, nil
	}

	if geo, ok := a.cache.Get(loc.City, loc.Country); ok {
		return geo, nil
	}

	geo, err := a.weather.Geocode(ctx, loc.City, loc.Country)
	if err != nil {
		return models.GeoLocation{}, err
	}
	if geo == nil {
		return models.GeoLocation{}, fmt.Errorf("%w: %s, %s", ErrLocationNotFound, loc.City, loc.Country)
	}

	a.cache.Set(loc.City, loc.Country, *geo)
	return *geo, nil
}
