// Package worldbank reads annual indicators from the World Bank v2 API.
package worldbank

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
	DefaultURL = "https://api.worldbank.org/v2"
	perPage    = 1000
	// firstYear bounds full history requests.
	firstYear = 1960
)

type pageInfo struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

type point struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type Reader struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
	log     *logger.Log
}

// New returns a World Bank reader. The API is keyless.
func New(_ string, opts reader.Options) (reader.Adapter, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultURL
	}
	return &Reader{
		baseURL: strings.TrimRight(base, "/"),
		client:  opts.Client(),
		now:     time.Now,
		log:     logger.GetLogger(),
	}, nil
}

func (r *Reader) Provider() models.Provider { return models.ProviderWorldBank }

// Fetch expects nativeID as "<country>/<indicator>", e.g. "USA/FP.CPI.TOTL.ZG".
// Annual values are dated on December 31st.
func (r *Reader) Fetch(ctx context.Context, nativeID string, since time.Time) (models.Series, error) {
	country, indicator, ok := strings.Cut(strings.TrimSpace(nativeID), "/")
	if !ok || country == "" || indicator == "" {
		return models.Series{}, fmt.Errorf("%w: world bank identifier %q is not <country>/<indicator>", reader.ErrSeriesNotFound, nativeID)
	}

	from := firstYear
	if !since.IsZero() {
		from = since.Year()
	}
	dateRange := fmt.Sprintf("%d:%d", from, r.now().UTC().Year())

	var (
		obs   []models.Observation
		nulls int
	)
	for page := 1; ; page++ {
		info, points, err := r.fetchPage(ctx, country, indicator, dateRange, page)
		if err != nil {
			return models.Series{}, err
		}
		for _, p := range points {
			if p.Value == nil {
				nulls++
				continue
			}
			y, err := strconv.Atoi(strings.TrimSpace(p.Date))
			if err != nil {
				return models.Series{}, fmt.Errorf("world bank %s: bad year %q: %w", nativeID, p.Date, err)
			}
			obs = append(obs, models.Observation{Date: time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC), Value: *p.Value})
		}
		if info.Pages <= page {
			break
		}
	}

	r.log.WithComponent("worldbank_reader").WithFields(logger.Fields{
		"indicator":    nativeID,
		"observations": len(obs),
		"nulls":        nulls,
	}).Debug("fetched series")
	return models.Series{Observations: models.SortObservations(obs), Nulls: nulls}, nil
}

func (r *Reader) fetchPage(ctx context.Context, country, indicator, dateRange string, page int) (pageInfo, []point, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("date", dateRange)
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?%s", r.baseURL, url.PathEscape(country), url.PathEscape(indicator), q.Encode())

	status, body, err := reader.Get(ctx, r.client, models.ProviderWorldBank, endpoint)
	if err != nil {
		return pageInfo{}, nil, err
	}
	if status != http.StatusOK {
		return pageInfo{}, nil, reader.StatusError(models.ProviderWorldBank, status, body)
	}

	// The body is a two element array: paging info, then the data points.
	// Errors come back as a single element array carrying a message.
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil || len(parts) == 0 {
		return pageInfo{}, nil, fmt.Errorf("%w: world bank: unexpected body", reader.ErrProviderUnavailable)
	}
	var info pageInfo
	if err := json.Unmarshal(parts[0], &info); err != nil {
		return pageInfo{}, nil, fmt.Errorf("%w: world bank: decode paging: %v", reader.ErrProviderUnavailable, err)
	}
	if len(info.Message) > 0 {
		m := info.Message[0]
		return pageInfo{}, nil, fmt.Errorf("%w: world bank %s/%s: %s %s", reader.ErrSeriesNotFound, country, indicator, m.Key, m.Value)
	}

	var points []point
	if len(parts) > 1 {
		if err := json.Unmarshal(parts[1], &points); err != nil {
			return pageInfo{}, nil, fmt.Errorf("%w: world bank: decode points: %v", reader.ErrProviderUnavailable, err)
		}
	}
	reader.Record(models.ProviderWorldBank, len(points))
	return info, points, nil
}
