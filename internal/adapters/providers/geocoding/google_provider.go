package geocoding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
	"github.com/kruthikhak/Care-Connect/pkg/retry"
)

const (
	googleGeocodeURL   = "https://maps.googleapis.com/maps/api/geocode/json"
	geocodeCacheTTL    = 60 * 60 * 24
	defaultHTTPTimeout = 8 * time.Second
)

// GoogleProvider implements GeocodingProvider using the Google Geocoding API.
type GoogleProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
	retry      retry.Config
}

// NewGoogleProvider creates a new Google geocoder. cache may be nil.
func NewGoogleProvider(apiKey string, cache providers.CacheProvider) *GoogleProvider {
	return NewGoogleProviderWithOptions(apiKey, cache, googleGeocodeURL, nil)
}

// NewGoogleProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *GoogleProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
		retry: retry.Config{
			MaxAttempts:     3,
			InitialDelay:    200 * time.Millisecond,
			MaxDelay:        2 * time.Second,
			BackoffFactor:   2,
			MaxTotalTimeout: 10 * time.Second,
		},
	}
}

// WithRetry replaces the retry policy for upstream calls.
func (g *GoogleProvider) WithRetry(cfg retry.Config) *GoogleProvider {
	g.retry = cfg
	return g
}

// Geocode converts an address to a location.
func (g *GoogleProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if g.apiKey == "" {
		return nil, apperrors.NewExternalError("google maps api key is required", nil)
	}

	cacheKey := "geo:geocode:" + hashKey(strings.ToLower(trimmed))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil {
			var addr providers.GeocodedAddress
			if err := json.Unmarshal(cached, &addr); err == nil && addr.Coordinate.Valid() {
				return &addr, nil
			}
		}
	}

	var resp *googleGeocodeResponse
	logger := observability.LoggerFromContext(ctx)
	err := retry.Do(ctx, g.retry, "google geocode",
		func() error {
			var err error
			resp, err = g.doGeocodeRequest(ctx, trimmed)
			return err
		},
		func(attempt int, err error, next time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", next).Msg("geocode request failed")
		},
	)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.NewExternalError("geocoding failed", err)
	}

	result := resp.Results[0]
	addr := providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		City:             component(result.AddressComponents, "locality", "administrative_area_level_2"),
		State:            component(result.AddressComponents, "administrative_area_level_1"),
		Country:          component(result.AddressComponents, "country"),
		Coordinate:       geo.Coordinate{Lat: result.Geometry.Location.Lat, Lon: result.Geometry.Location.Lng},
	}

	if g.cache != nil {
		if payload, err := json.Marshal(addr); err == nil {
			if err := g.cache.Set(ctx, cacheKey, payload, geocodeCacheTTL); err != nil {
				logger.Warn().Err(err).Msg("failed to cache geocode result")
			}
		}
	}

	return &addr, nil
}

// doGeocodeRequest performs one call. Answers that retrying cannot change
// are wrapped as permanent.
func (g *GoogleProvider) doGeocodeRequest(ctx context.Context, address string) (*googleGeocodeResponse, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to build geocode request: %w", err))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retry.Permanent(apperrors.NewExternalError(fmt.Sprintf("geocode request returned status %d", resp.StatusCode), nil))
	}

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, retry.Permanent(apperrors.NewExternalError("failed to decode geocode response", err))
	}

	switch payload.Status {
	case "OK":
		if len(payload.Results) == 0 {
			return nil, retry.Permanent(apperrors.NewNotFoundError(fmt.Sprintf("location %q not found", address)))
		}
		return &payload, nil
	case "ZERO_RESULTS":
		return nil, retry.Permanent(apperrors.NewNotFoundError(fmt.Sprintf("location %q not found", address)))
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return nil, fmt.Errorf("geocode request failed: %s", payload.Status)
	default:
		msg := "geocode request failed: " + payload.Status
		if payload.ErrorMessage != "" {
			msg += " - " + payload.ErrorMessage
		}
		return nil, retry.Permanent(apperrors.NewExternalError(msg, nil))
	}
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func component(components []googleAddressComponent, primary string, fallback ...string) string {
	for _, want := range append([]string{primary}, fallback...) {
		for _, comp := range components {
			if slices.Contains(comp.Types, want) {
				return comp.LongName
			}
		}
	}
	return ""
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress  string                   `json:"formatted_address"`
	AddressComponents []googleAddressComponent `json:"address_components"`
	Geometry          struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type googleAddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}
