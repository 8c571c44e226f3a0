// Package fred reads series observations from the FRED API.
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"macroflow/logger"
	"macroflow/models"
	"macroflow/reader"
)

const (
	DefaultURL = "https://api.stlouisfed.org/fred"
	pageLimit  = 100000
	// missingValue is how FRED encodes an empty observation.
	missingValue = "."
)

type observationsResponse struct {
	Count        int `json:"count"`
	Offset       int `json:"offset"`
	Limit        int `json:"limit"`
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

type errorResponse struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

type Reader struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Log
}

// New returns a FRED reader. The API key is mandatory.
func New(apiKey string, opts reader.Options) (reader.Adapter, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: FRED requires an API key", reader.ErrCredential)
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultURL
	}
	return &Reader{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  apiKey,
		client:  opts.Client(),
		log:     logger.GetLogger(),
	}, nil
}

func (r *Reader) Provider() models.Provider { return models.ProviderFRED }

func (r *Reader) Fetch(ctx context.Context, nativeID string, since time.Time) (models.Series, error) {
	log := r.log.WithComponent("fred_reader").WithFields(logger.Fields{"series_id": nativeID})

	var (
		obs   []models.Observation
		nulls int
	)
	for offset := 0; ; {
		page, err := r.fetchPage(ctx, nativeID, since, offset)
		if err != nil {
			return models.Series{}, err
		}
		for _, o := range page.Observations {
			if o.Value == missingValue || o.Value == "" {
				nulls++
				continue
			}
			d, err := models.ParseDate(o.Date)
			if err != nil {
				return models.Series{}, fmt.Errorf("fred %s: bad date %q: %w", nativeID, o.Date, err)
			}
			v, err := strconv.ParseFloat(o.Value, 64)
			if err != nil {
				return models.Series{}, fmt.Errorf("fred %s: bad value %q on %s: %w", nativeID, o.Value, o.Date, err)
			}
			obs = append(obs, models.Observation{Date: d, Value: v})
		}
		offset += len(page.Observations)
		if len(page.Observations) == 0 || offset >= page.Count {
			break
		}
	}

	log.WithFields(logger.Fields{"observations": len(obs), "nulls": nulls}).Debug("fetched series")
	return models.Series{Observations: models.SortObservations(obs), Nulls: nulls}, nil
}

func (r *Reader) fetchPage(ctx context.Context, nativeID string, since time.Time, offset int) (*observationsResponse, error) {
	q := url.Values{}
	q.Set("series_id", nativeID)
	q.Set("api_key", r.apiKey)
	q.Set("file_type", "json")
	q.Set("limit", strconv.Itoa(pageLimit))
	q.Set("offset", strconv.Itoa(offset))
	if !since.IsZero() {
		q.Set("observation_start", since.Format(models.DateLayout))
	}

	status, body, err := reader.Get(ctx, r.client, models.ProviderFRED, r.baseURL+"/series/observations?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classify(nativeID, status, body)
	}

	var page observationsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: fred %s: decode response: %v", reader.ErrProviderUnavailable, nativeID, err)
	}
	reader.Record(models.ProviderFRED, len(page.Observations))
	return &page, nil
}

// classify maps FRED error bodies. FRED answers 400 for both a bad key and
// an unknown series, so the message decides.
func classify(nativeID string, status int, body []byte) error {
	var e errorResponse
	_ = json.Unmarshal(body, &e)
	msg := strings.ToLower(e.Message)

	if status == http.StatusBadRequest || status == http.StatusForbidden || status == http.StatusUnauthorized {
		if strings.Contains(msg, "api_key") || strings.Contains(msg, "api key") {
			return fmt.Errorf("%w: fred: %s", reader.ErrCredential, e.Message)
		}
	}
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		return fmt.Errorf("%w: fred %s: %s", reader.ErrSeriesNotFound, nativeID, e.Message)
	}
	return reader.StatusError(models.ProviderFRED, status, body)
}
