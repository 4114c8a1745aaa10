package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"weathernow/internal/models"
	"weathernow/pkg/logger"
)

const (
	NominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"
)

// NominatimRepository reverse-geocodes coordinates against the OSM Nominatim
// API. Nominatim rejects requests without an identifying User-Agent, so the
// app name is sent with every call.
type NominatimRepository struct {
	BaseURL    string
	userAgent  string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewNominatimRepository(baseURL, userAgent string, l *logger.Logger, httpClient HTTPClient) *NominatimRepository {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}
	return &NominatimRepository{
		BaseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}
}

func (n *NominatimRepository) Name() string {
	return "nominatim"
}

type nominatimResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
	} `json:"address"`
}

// ReverseLookup resolves coordinates to a locality name. A successful lookup
// for a place with no locality returns "" and a nil error.
func (n *NominatimRepository) ReverseLookup(ctx context.Context, coords models.Coordinates) (string, error) {
	url := fmt.Sprintf("%s?format=jsonv2&lat=%f&lon=%f&zoom=10", n.BaseURL, coords.Latitude, coords.Longitude)

	n.l.Info("making nominatim API request", map[string]any{
		"params": coords.RequestParams(),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to do request")
	}
	defer resp.Body.Close()

	n.l.Info("received nominatim API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var response nominatimResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return "", errors.Wrap(err, "failed to parse JSON response")
	}

	return locality(response), nil
}

// locality picks the first populated locality field, most specific first.
func locality(response nominatimResponse) string {
	for _, name := range []string{
		response.Address.City,
		response.Address.Town,
		response.Address.Village,
		response.Address.Municipality,
	} {
		if name != "" {
			return name
		}
	}
	return ""
}
