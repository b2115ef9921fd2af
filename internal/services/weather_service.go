package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/geo"
	"github.com/rverbytskyi/planora/internal/models"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

// Snapshots older than this are refreshed from Open-Meteo.
const weatherSnapshotTTL = 30 * time.Minute

// WeatherServiceOption customises the WeatherService.
type WeatherServiceOption func(*WeatherService)

// WithWeatherClock overrides the clock, primarily for testing.
func WithWeatherClock(now func() time.Time) WeatherServiceOption {
	return func(s *WeatherService) {
		if now != nil {
			s.now = now
		}
	}
}

// WeatherService serves city forecasts, caching the latest snapshot on
// the city row.
type WeatherService struct {
	db      *gorm.DB
	weather *geo.WeatherClient
	now     func() time.Time
}

// NewWeatherService constructs a WeatherService.
func NewWeatherService(db *gorm.DB, weather *geo.WeatherClient, opts ...WeatherServiceOption) (*WeatherService, error) {
	if db == nil {
		return nil, errors.New("weather service: db is required")
	}
	if weather == nil {
		return nil, errors.New("weather service: weather client is required")
	}
	svc := &WeatherService{db: db, weather: weather, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ForecastForCity returns the forecast for a catalog city, serving the
// cached snapshot while it is fresh.
func (s *WeatherService) ForecastForCity(ctx context.Context, cityID string) (*geo.Forecast, error) {
	ctx = ensureContext(ctx)

	var city models.City
	if err := s.db.WithContext(ctx).Where("id = ?", cityID).First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("weather service: load city: %w", err)
	}

	now := s.now()
	if snapshot := s.cachedForecast(city, now); snapshot != nil {
		return snapshot, nil
	}

	forecast, err := s.weather.Forecast(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(forecast); marshalErr == nil {
		fetchedAt := now.Unix()
		_ = s.db.WithContext(ctx).Model(&city).Updates(map[string]any{
			"weather":            datatypes.JSON(data),
			"weather_fetched_at": fetchedAt,
		}).Error
	}

	return forecast, nil
}

// ForecastForCoordinates proxies a forecast lookup without caching.
func (s *WeatherService) ForecastForCoordinates(ctx context.Context, latitude, longitude float64) (*geo.Forecast, error) {
	return s.weather.Forecast(ensureContext(ctx), latitude, longitude)
}

func (s *WeatherService) cachedForecast(city models.City, now time.Time) *geo.Forecast {
	if len(city.Weather) == 0 || city.WeatherFetchedAt == nil {
		return nil
	}
	if now.Sub(time.Unix(*city.WeatherFetchedAt, 0)) > weatherSnapshotTTL {
		return nil
	}

	var forecast geo.Forecast
	if err := json.Unmarshal(city.Weather, &forecast); err != nil {
		return nil
	}
	return &forecast
}
