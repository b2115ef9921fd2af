package geo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Forecast is the weather payload returned to clients.
type Forecast struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Timezone  string         `json:"timezone"`
	Current   CurrentWeather `json:"current_weather"`
	Hourly    HourlyForecast `json:"hourly"`
}

// CurrentWeather holds the instantaneous conditions.
type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
	Time        string  `json:"time"`
}

// HourlyForecast holds parallel arrays of hourly values.
type HourlyForecast struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m"`
	Precipitation []float64 `json:"precipitation_probability"`
}

// WeatherClient queries the Open-Meteo forecast API.
type WeatherClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewWeatherClient constructs a WeatherClient. A nil httpClient falls
// back to a default with the supplied timeout.
func NewWeatherClient(baseURL string, httpClient *http.Client, timeout time.Duration) (*WeatherClient, error) {
	if baseURL == "" {
		return nil, errors.New("weather client: base url is required")
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient(timeout)
	}
	return &WeatherClient{httpClient: httpClient, baseURL: baseURL}, nil
}

// Forecast fetches current conditions and the hourly outlook for a location.
func (c *WeatherClient) Forecast(ctx context.Context, latitude, longitude float64) (*Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', 4, 64))
	params.Set("current_weather", "true")
	params.Set("hourly", "temperature_2m,precipitation_probability")
	params.Set("forecast_days", "2")
	params.Set("timezone", "auto")

	var forecast Forecast
	if err := getJSON(ctx, c.httpClient, c.baseURL, params, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}
