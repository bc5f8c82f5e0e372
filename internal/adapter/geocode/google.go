package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"places-service/internal/domain/place"
	apperrors "places-service/pkg/errors"
	"places-service/pkg/logger"
	"places-service/pkg/metrics"
)

const maxResponseBytes = 1 << 20

// Google resolves addresses with the Google Geocoding API.
type Google struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
}

// NewGoogle creates a Google geocoder. A nil client gets one with the given timeout.
func NewGoogle(client *http.Client, baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Google {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Google{client: client, baseURL: baseURL, apiKey: apiKey, log: log}
}

// Geocode returns the first match for address. An address without matches
// is an unresolved GeocodeError, every other failure is a provider error.
func (g *Google) Geocode(ctx context.Context, address string) (place.Location, error) {
	log := logger.WithContext(ctx, g.log)
	start := time.Now()

	loc, err := g.lookup(ctx, address)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var ge *apperrors.GeocodeError
		if errors.As(err, &ge) && ge.Unresolved {
			outcome = "zero_results"
		}
		log.Warn("geocoding failed", zap.String("address", address), zap.Error(err))
	}
	metrics.ObserveGeocode(outcome, time.Since(start))
	return loc, err
}

func (g *Google) lookup(ctx context.Context, address string) (place.Location, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return place.Location{}, apperrors.NewGeocodeProviderError(address, fmt.Errorf("build request: %w", err))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return place.Location{}, apperrors.NewGeocodeProviderError(address, fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return place.Location{}, apperrors.NewGeocodeProviderError(address, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return place.Location{}, apperrors.NewGeocodeProviderError(address, fmt.Errorf("read body: %w", err))
	}
	if !gjson.ValidBytes(body) {
		return place.Location{}, apperrors.NewGeocodeProviderError(address, errors.New("invalid json response"))
	}

	parsed := gjson.ParseBytes(body)
	switch status := parsed.Get("status").String(); status {
	case "OK":
	case "ZERO_RESULTS":
		return place.Location{}, apperrors.NewAddressNotFoundError(address)
	default:
		msg := parsed.Get("error_message").String()
		return place.Location{}, apperrors.NewGeocodeProviderError(address, fmt.Errorf("status %s: %s", status, msg))
	}

	first := parsed.Get("results.0.geometry.location")
	if !first.Exists() {
		return place.Location{}, apperrors.NewAddressNotFoundError(address)
	}
	lat, lng := first.Get("lat"), first.Get("lng")
	if lat.Type != gjson.Number || lng.Type != gjson.Number {
		return place.Location{}, apperrors.NewGeocodeProviderError(address, errors.New("malformed location"))
	}

	return place.Location{Lat: lat.Float(), Lng: lng.Float()}, nil
}
