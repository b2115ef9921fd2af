package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Route summarises an OSRM routing response.
type Route struct {
	DistanceMeters  float64  `json:"distance_meters"`
	DurationSeconds float64  `json:"duration_seconds"`
	Steps           []string `json:"steps,omitempty"`
}

// NearbyPlace is a point of interest returned by Overpass.
type NearbyPlace struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapsClient queries OSRM for routing and Overpass for nearby places.
type MapsClient struct {
	httpClient  *http.Client
	osrmURL     string
	overpassURL string
}

// NewMapsClient constructs a MapsClient.
func NewMapsClient(osrmURL, overpassURL string, httpClient *http.Client, timeout time.Duration) (*MapsClient, error) {
	if osrmURL == "" || overpassURL == "" {
		return nil, errors.New("maps client: osrm and overpass urls are required")
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient(timeout)
	}
	return &MapsClient{
		httpClient:  httpClient,
		osrmURL:     osrmURL,
		overpassURL: overpassURL,
	}, nil
}

// Route computes the driving route between two coordinates.
func (c *MapsClient) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f",
		c.osrmURL, fromLon, fromLat, toLon, toLat)

	params := url.Values{}
	params.Set("overview", "false")
	params.Set("steps", "true")

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Legs     []struct {
				Steps []struct {
					Name     string `json:"name"`
					Maneuver struct {
						Type     string `json:"type"`
						Modifier string `json:"modifier"`
					} `json:"maneuver"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := getJSON(ctx, c.httpClient, endpoint, params, &payload); err != nil {
		return nil, err
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, fmt.Errorf("maps client: no route found (code %s)", payload.Code)
	}

	best := payload.Routes[0]
	route := &Route{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}
	for _, leg := range best.Legs {
		for _, step := range leg.Steps {
			desc := step.Maneuver.Type
			if step.Maneuver.Modifier != "" {
				desc += " " + step.Maneuver.Modifier
			}
			if step.Name != "" {
				desc += " onto " + step.Name
			}
			route.Steps = append(route.Steps, desc)
		}
	}
	return route, nil
}

// Nearby finds points of interest of the given kind around a coordinate.
// Kind maps to an OSM amenity or tourism tag, e.g. "restaurant" or "museum".
func (c *MapsClient) Nearby(ctx context.Context, latitude, longitude float64, radiusMeters int, kind string) ([]NearbyPlace, error) {
	if radiusMeters <= 0 || radiusMeters > 10000 {
		radiusMeters = 1000
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "restaurant"
	}

	query := fmt.Sprintf(`[out:json][timeout:10];
(
  node["amenity"=%q](around:%d,%f,%f);
  node["tourism"=%q](around:%d,%f,%f);
);
out body 25;`,
		kind, radiusMeters, latitude, longitude,
		kind, radiusMeters, latitude, longitude)

	params := url.Values{}
	params.Set("data", query)

	var payload struct {
		Elements []struct {
			Lat  float64           `json:"lat"`
			Lon  float64           `json:"lon"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := getJSON(ctx, c.httpClient, c.overpassURL, params, &payload); err != nil {
		return nil, err
	}

	places := make([]NearbyPlace, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		places = append(places, NearbyPlace{
			Name:      name,
			Kind:      kind,
			Latitude:  el.Lat,
			Longitude: el.Lon,
		})
	}
	return places, nil
}
