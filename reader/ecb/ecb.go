// Package ecb reads series from the ECB data portal SDMX REST API in its CSV
// representation.
package ecb

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"macroflow/logger"
	"macroflow/models"
	"macroflow/reader"
)

const DefaultURL = "https://data-api.ecb.europa.eu/service"

type Reader struct {
	baseURL string
	client  *http.Client
	log     *logger.Log
}

// New returns an ECB reader. The ECB API is keyless, so secret is ignored.
func New(_ string, opts reader.Options) (reader.Adapter, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultURL
	}
	return &Reader{
		baseURL: strings.TrimRight(base, "/"),
		client:  opts.Client(),
		log:     logger.GetLogger(),
	}, nil
}

func (r *Reader) Provider() models.Provider { return models.ProviderECB }

// splitKey splits "ICP.M.U2.Y.000000.3.INX" into the dataflow "ICP" and the
// series key "M.U2.Y.000000.3.INX".
func splitKey(nativeID string) (flow, key string, err error) {
	flow, key, ok := strings.Cut(strings.TrimSpace(nativeID), ".")
	if !ok || flow == "" || key == "" {
		return "", "", fmt.Errorf("%w: ecb identifier %q is not <flow>.<key>", reader.ErrSeriesNotFound, nativeID)
	}
	return flow, key, nil
}

func (r *Reader) Fetch(ctx context.Context, nativeID string, since time.Time) (models.Series, error) {
	flow, key, err := splitKey(nativeID)
	if err != nil {
		return models.Series{}, err
	}

	q := url.Values{}
	q.Set("format", "csvdata")
	q.Set("detail", "dataonly")
	if !since.IsZero() {
		q.Set("startPeriod", since.Format(models.DateLayout))
	}
	endpoint := fmt.Sprintf("%s/data/%s/%s?%s", r.baseURL, url.PathEscape(flow), url.PathEscape(key), q.Encode())

	status, body, err := reader.Get(ctx, r.client, models.ProviderECB, endpoint)
	if err != nil {
		return models.Series{}, err
	}
	switch {
	case status == http.StatusNotFound && !since.IsZero():
		// The portal answers 404 when a valid series has nothing after startPeriod.
		reader.Record(models.ProviderECB, 0)
		return models.Series{}, nil
	case status != http.StatusOK:
		return models.Series{}, reader.StatusError(models.ProviderECB, status, body)
	}

	series, err := parseCSV(body)
	if err != nil {
		return models.Series{}, fmt.Errorf("%w: ecb %s: %v", reader.ErrProviderUnavailable, nativeID, err)
	}
	reader.Record(models.ProviderECB, len(series.Observations))

	r.log.WithComponent("ecb_reader").WithFields(logger.Fields{
		"series_key":   nativeID,
		"observations": len(series.Observations),
		"nulls":        series.Nulls,
	}).Debug("fetched series")
	return series, nil
}

func parseCSV(body []byte) (models.Series, error) {
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\ufeff"))))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.Series{}, nil
	}
	if err != nil {
		return models.Series{}, fmt.Errorf("read header: %w", err)
	}
	periodCol, valueCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "TIME_PERIOD":
			periodCol = i
		case "OBS_VALUE":
			valueCol = i
		}
	}
	if periodCol < 0 || valueCol < 0 {
		return models.Series{}, fmt.Errorf("missing TIME_PERIOD or OBS_VALUE column in %v", header)
	}

	var (
		obs   []models.Observation
		nulls int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Series{}, fmt.Errorf("read row: %w", err)
		}
		if len(rec) <= periodCol || len(rec) <= valueCol {
			continue
		}
		raw := strings.TrimSpace(rec[valueCol])
		if raw == "" || strings.EqualFold(raw, "NaN") {
			nulls++
			continue
		}
		d, err := ParsePeriod(rec[periodCol])
		if err != nil {
			return models.Series{}, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Series{}, fmt.Errorf("bad value %q for %s: %w", raw, rec[periodCol], err)
		}
		obs = append(obs, models.Observation{Date: d, Value: v})
	}
	return models.Series{Observations: models.SortObservations(obs), Nulls: nulls}, nil
}

// ParsePeriod converts an SDMX TIME_PERIOD to the first day of the period:
// 2020-01-15 (daily), 2020-W03 (ISO week, Monday), 2020-01 (month),
// 2020-Q2 (quarter), 2020-S2 (half year) and 2020 (year).
func ParsePeriod(p string) (time.Time, error) {
	p = strings.TrimSpace(p)
	bad := fmt.Errorf("unsupported period %q", p)

	switch {
	case len(p) == 10:
		return models.ParseDate(p)
	case len(p) == 4:
		y, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, bad
		}
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}

	year, rest, ok := strings.Cut(p, "-")
	if !ok || len(year) != 4 || rest == "" {
		return time.Time{}, bad
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, bad
	}

	var n int
	switch rest[0] {
	case 'Q', 'S', 'W':
		n, err = strconv.Atoi(rest[1:])
	default:
		n, err = strconv.Atoi(rest)
	}
	if err != nil || n < 1 {
		return time.Time{}, bad
	}

	switch rest[0] {
	case 'Q':
		if n > 4 {
			return time.Time{}, bad
		}
		return time.Date(y, time.Month(3*(n-1)+1), 1, 0, 0, 0, 0, time.UTC), nil
	case 'S':
		if n > 2 {
			return time.Time{}, bad
		}
		return time.Date(y, time.Month(6*(n-1)+1), 1, 0, 0, 0, 0, time.UTC), nil
	case 'W':
		if n > 53 {
			return time.Time{}, bad
		}
		return isoWeekStart(y, n), nil
	default:
		if n > 12 {
			return time.Time{}, bad
		}
		return time.Date(y, time.Month(n), 1, 0, 0, 0, 0, time.UTC), nil
	}
}

// isoWeekStart returns the Monday of ISO week w in year y. Week 1 holds
// January 4th.
func isoWeekStart(y, w int) time.Time {
	jan4 := time.Date(y, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+7*(w-1))
}
