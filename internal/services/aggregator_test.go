package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
	"github.com/bobby-s-dev/life-dashboard/internal/observability"
)

const bomURL = "https://www.bom.gov.au/location/australia/victoria/north-central/bvic_pt012-castlemaine"

type fakeWeatherClient struct {
	mu           sync.Mutex
	geo          map[string]*models.GeoLocation
	geocodeErr   error
	forecastErr  error
	geocodeCalls int
	forecastAt   []float64
}

func (f *fakeWeatherClient) Geocode(_ context.Context, city, _ string) (*models.GeoLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodeCalls++
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return f.geo[city], nil
}

func (f *fakeWeatherClient) Forecast(_ context.Context, lat, _ float64) (*models.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecastAt = append(f.forecastAt, lat)
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return castlemaineForecast(), nil
}

type fakeFireSource struct {
	snapshot models.FireDataSnapshot
	calls    int
}

func (f *fakeFireSource) FetchFireData(context.Context) models.FireDataSnapshot {
	f.calls++
	return f.snapshot
}

func castlemaineForecast() *models.Forecast {
	f := &models.Forecast{}
	f.Current.Temperature2M = 17.8
	f.Current.RelativeHumidity2M = 55
	f.Current.WindSpeed10M = 12.3
	f.Current.WeatherCode = 2
	f.Daily.Time = []string{
		"2026-02-19", "2026-02-20", "2026-02-21", "2026-02-22",
		"2026-02-23", "2026-02-24", "2026-02-25", "2026-02-26",
	}
	f.Daily.Temperature2MMax = []float64{24.1, 23.4, 25.0, 21.3, 19.8, 22.5, 26.1, 24.7}
	f.Daily.Temperature2MMin = []float64{11.2, 12.7, 13.1, 10.5, 9.9, 11.8, 13.4, 12.0}
	f.Daily.WeatherCode = []int{2, 3, 61, 0, 1, 2, 3, 63}
	return f
}

func castlemaineGeo() map[string]*models.GeoLocation {
	return map[string]*models.GeoLocation{
		"Castlemaine": {Name: "Castlemaine", Latitude: -37.0688, Longitude: 144.2197},
		"Melbourne":   {Name: "Melbourne", Latitude: -37.814, Longitude: 144.9633},
	}
}

func northCentralSnapshot() models.FireDataSnapshot {
	index := 36
	return models.FireDataSnapshot{
		"North Central": {
			TotalFireBan: true,
			FireDanger:   []models.DangerDay{{Day: "F", Rating: "High", Index: &index}},
		},
	}
}

func newTestAggregator(t *testing.T, weather WeatherClient, fire FireSource, locations []models.Location) (*Aggregator, *observability.Metrics) {
	t.Helper()
	cache := NewGeocodeCache(time.Hour, 10, zap.NewNop())
	t.Cleanup(cache.Stop)
	metrics := observability.NewMetricsForTesting()
	return NewAggregator(weather, fire, cache, locations, zap.NewNop(), metrics), metrics
}

func TestGetWeather_CurrentConditions(t *testing.T) {
	agg, metrics := newTestAggregator(t, &fakeWeatherClient{geo: castlemaineGeo()}, &fakeFireSource{}, nil)

	resp, err := agg.GetWeather(context.Background(), models.Location{City: "Castlemaine", Country: "AU", BomURL: bomURL}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Castlemaine", resp.Location)
	assert.Equal(t, 17.8, resp.Temperature)
	assert.Equal(t, "Partly cloudy", resp.Description)
	assert.Equal(t, 55, resp.Humidity)
	assert.Equal(t, 12.3, resp.WindSpeed)
	assert.Equal(t, 11.2, resp.TempMin)
	assert.Equal(t, 24.1, resp.TempMax)
	assert.Equal(t, bomURL+"#today", resp.BomTodayURL)
	assert.Equal(t, bomURL+"#7-days", resp.Bom7DayURL)
	assert.False(t, resp.TotalFireBan)
	assert.Nil(t, resp.FireDanger)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WeatherRequests.WithLabelValues("success")))
}

func TestGetWeather_SevenDayForecast(t *testing.T) {
	agg, _ := newTestAggregator(t, &fakeWeatherClient{geo: castlemaineGeo()}, &fakeFireSource{}, nil)

	resp, err := agg.GetWeather(context.Background(), models.Location{City: "Castlemaine", Country: "AU"}, nil)
	require.NoError(t, err)

	require.Len(t, resp.Forecast7Day, 7)
	assert.Equal(t, models.DayForecast{Day: "F", TempMin: 13, TempMax: 23}, resp.Forecast7Day[0])
	assert.Equal(t, models.DayForecast{Day: "T", TempMin: 12, TempMax: 25}, resp.Forecast7Day[6])

	days := make([]string, 0, 7)
	for _, d := range resp.Forecast7Day {
		days = append(days, d.Day)
	}
	assert.Equal(t, []string{"F", "S", "S", "M", "T", "W", "T"}, days)
}

func TestGetWeather_LocationNotFound(t *testing.T) {
	agg, metrics := newTestAggregator(t, &fakeWeatherClient{geo: castlemaineGeo()}, &fakeFireSource{}, nil)

	_, err := agg.GetWeather(context.Background(), models.Location{City: "Atlantis", Country: "AU"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Contains(t, err.Error(), "Atlantis")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WeatherRequests.WithLabelValues("not_found")))
}

func TestGetWeather_UpstreamError(t *testing.T) {
	weather := &fakeWeatherClient{geo: castlemaineGeo(), forecastErr: errors.New("HTTP 503")}
	agg, metrics := newTestAggregator(t, weather, &fakeFireSource{}, nil)

	_, err := agg.GetWeather(context.Background(), models.Location{City: "Castlemaine", Country: "AU"}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocationNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WeatherRequests.WithLabelValues("error")))
}

func TestGetWeather_IncompleteForecast(t *testing.T) {
	weather := &shortForecastClient{}
	agg, _ := newTestAggregator(t, weather, &fakeFireSource{}, nil)

	lat, lon := -37.0, 144.0
	_, err := agg.GetWeather(context.Background(), models.Location{City: "X", Latitude: &lat, Longitude: &lon}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete daily forecast")
}

type shortForecastClient struct{}

func (shortForecastClient) Geocode(context.Context, string, string) (*models.GeoLocation, error) {
	return nil, nil
}

func (shortForecastClient) Forecast(context.Context, float64, float64) (*models.Forecast, error) {
	f := castlemaineForecast()
	f.Daily.Time = f.Daily.Time[:3]
	return f, nil
}

func TestGetWeather_ConfiguredCoordinatesSkipGeocode(t *testing.T) {
	weather := &fakeWeatherClient{geo: castlemaineGeo()}
	agg, _ := newTestAggregator(t, weather, &fakeFireSource{}, nil)

	lat, lon := -37.1, 144.2
	resp, err := agg.GetWeather(context.Background(), models.Location{
		Name: "Home", City: "Castlemaine", Latitude: &lat, Longitude: &lon,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Home", resp.Location)
	assert.Zero(t, weather.geocodeCalls)
	assert.Equal(t, []float64{-37.1}, weather.forecastAt)
}

func TestGetWeather_GeocodeCached(t *testing.T) {
	weather := &fakeWeatherClient{geo: castlemaineGeo()}
	agg, _ := newTestAggregator(t, weather, &fakeFireSource{}, nil)
	loc := models.Location{City: "Castlemaine", Country: "AU"}

	for i := 0; i < 3; i++ {
		_, err := agg.GetWeather(context.Background(), loc, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, weather.geocodeCalls)
}

func TestGetWeather_FireData(t *testing.T) {
	snapshot := northCentralSnapshot()

	tests := []struct {
		name       string
		loc        models.Location
		wantBan    bool
		wantDanger bool
	}{
		{
			name:       "district with danger shown",
			loc:        models.Location{City: "Castlemaine", FireDistrict: "North Central", ShowFireDanger: true},
			wantBan:    true,
			wantDanger: true,
		},
		{
			name:    "district with danger hidden",
			loc:     models.Location{City: "Castlemaine", FireDistrict: "North Central"},
			wantBan: true,
		},
		{
			name: "district missing from snapshot",
			loc:  models.Location{City: "Castlemaine", FireDistrict: "Mallee", ShowFireDanger: true},
		},
		{
			name: "no district",
			loc:  models.Location{City: "Castlemaine", ShowFireDanger: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, _ := newTestAggregator(t, &fakeWeatherClient{geo: castlemaineGeo()}, &fakeFireSource{}, nil)

			resp, err := agg.GetWeather(context.Background(), tt.loc, snapshot)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBan, resp.TotalFireBan)
			if tt.wantDanger {
				assert.Equal(t, snapshot["North Central"].FireDanger, resp.FireDanger)
			} else {
				assert.Nil(t, resp.FireDanger)
			}
		})
	}
}

func TestGetAll_PreservesOrderAndFetchesFireOnce(t *testing.T) {
	fire := &fakeFireSource{snapshot: northCentralSnapshot()}
	locations := []models.Location{
		{City: "Melbourne", Country: "AU", FireDistrict: "Central"},
		{City: "Castlemaine", Country: "AU", FireDistrict: "North Central", ShowFireDanger: true},
	}
	agg, _ := newTestAggregator(t, &fakeWeatherClient{geo: castlemaineGeo()}, fire, locations)

	results, err := agg.GetAll(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Melbourne", results[0].Location)
	assert.False(t, results[0].TotalFireBan)
	assert.Equal(t, "Castlemaine", results[1].Location)
	assert.True(t, results[1].TotalFireBan)
	assert.Len(t, results[1].FireDanger, 1)
	assert.Equal(t, 1, fire.calls)
}

func TestGetAll_AnyFailureFailsAll(t *testing.T) {
	locations := []models.Location{
		{City: "Castlemaine", Country: "AU"},
		{City: "Atlantis", Country: "AU"},
	}
	agg, _ := newTestAggregator(t, &fakeWeatherClient{geo: castlemaineGeo()}, &fakeFireSource{}, locations)

	results, err := agg.GetAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Nil(t, results)
}

func TestGetAll_NoLocations(t *testing.T) {
	agg, _ := newTestAggregator(t, &fakeWeatherClient{}, &fakeFireSource{}, nil)

	results, err := agg.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}
