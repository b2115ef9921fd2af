package geo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Place is a geocoding match.
type Place struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
	Country     string  `json:"country,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// GeocodingClient queries the Open-Meteo geocoding API.
type GeocodingClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewGeocodingClient constructs a GeocodingClient.
func NewGeocodingClient(baseURL string, httpClient *http.Client, timeout time.Duration) (*GeocodingClient, error) {
	if baseURL == "" {
		return nil, errors.New("geocoding client: base url is required")
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient(timeout)
	}
	return &GeocodingClient{httpClient: httpClient, baseURL: baseURL}, nil
}

// Search resolves a place name to coordinates.
func (c *GeocodingClient) Search(ctx context.Context, name string, limit int) ([]Place, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(limit))
	params.Set("language", "en")
	params.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := getJSON(ctx, c.httpClient, c.baseURL, params, &payload); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		places = append(places, Place{
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return places, nil
}

// NominatimClient queries the OpenStreetMap Nominatim API. Nominatim's
// usage policy caps clients at one request per second, enforced here.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string

	mu       sync.Mutex
	last     time.Time
	interval time.Duration
	sleep    func(time.Duration)
}

// NewNominatimClient constructs a NominatimClient with the given
// minimum interval between requests.
func NewNominatimClient(baseURL string, httpClient *http.Client, interval, timeout time.Duration) (*NominatimClient, error) {
	if baseURL == "" {
		return nil, errors.New("nominatim client: base url is required")
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient(timeout)
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &NominatimClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		interval:   interval,
		sleep:      time.Sleep,
	}, nil
}

// Forward resolves a free-form address to coordinates.
func (c *NominatimClient) Forward(ctx context.Context, query string, limit int) ([]Place, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))

	var payload []nominatimResult
	if err := c.get(ctx, c.baseURL+"/search", params, &payload); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(payload))
	for _, r := range payload {
		places = append(places, r.toPlace())
	}
	return places, nil
}

// Reverse resolves coordinates to the nearest address.
func (c *NominatimClient) Reverse(ctx context.Context, latitude, longitude float64) (*Place, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(latitude, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(longitude, 'f', 6, 64))
	params.Set("format", "jsonv2")

	var payload nominatimResult
	if err := c.get(ctx, c.baseURL+"/reverse", params, &payload); err != nil {
		return nil, err
	}

	place := payload.toPlace()
	return &place, nil
}

func (c *NominatimClient) get(ctx context.Context, rawURL string, params url.Values, out any) error {
	c.throttle()
	return getJSON(ctx, c.httpClient, rawURL, params, out)
}

// throttle blocks until the minimum interval since the previous request
// has elapsed.
func (c *NominatimClient) throttle() {
	c.mu.Lock()
	wait := c.interval - time.Since(c.last)
	if wait > 0 {
		c.sleep(wait)
	}
	c.last = time.Now()
	c.mu.Unlock()
}

type nominatimResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (r nominatimResult) toPlace() Place {
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lon, _ := strconv.ParseFloat(r.Lon, 64)
	return Place{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
	}
}
