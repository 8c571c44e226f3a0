package worldbank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"macroflow/models"
	"macroflow/reader"
)

func newTestReader(t *testing.T, h http.HandlerFunc) *Reader {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	a, err := New("", reader.Options{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := a.(*Reader)
	r.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestFetchPaginatesAndSkipsNulls(t *testing.T) {
	var dates []string
	r := newTestReader(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/country/USA/indicator/FP.CPI.TOTL.ZG" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		dates = append(dates, req.URL.Query().Get("date"))
		switch req.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[{"page":1,"pages":2,"per_page":1000,"total":3},[{"date":"2023","value":4.1},{"date":"2022","value":null}]]`)
		default:
			fmt.Fprint(w, `[{"page":2,"pages":2,"per_page":1000,"total":3},[{"date":"2021","value":4.7}]]`)
		}
	})

	since, _ := models.ParseDate("2021-12-31")
	s, err := r.Fetch(context.Background(), "USA/FP.CPI.TOTL.ZG", since)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2021:2024" {
		t.Fatalf("unexpected date ranges %v", dates)
	}
	if len(s.Observations) != 2 || s.Nulls != 1 {
		t.Fatalf("expected 2 observations and 1 null, got %+v", s)
	}
	if got := s.Observations[0].Date.Format(models.DateLayout); got != "2021-12-31" {
		t.Fatalf("unexpected first date %s", got)
	}
	if s.Observations[1].Value != 4.1 {
		t.Fatalf("unexpected value %v", s.Observations[1].Value)
	}
}

func TestFetchInvalidIndicator(t *testing.T) {
	r := newTestReader(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `[{"message":[{"id":"120","key":"Invalid value","value":"The provided parameter value is not valid"}]}]`)
	})
	if _, err := r.Fetch(context.Background(), "USA/NOPE", time.Time{}); !errors.Is(err, reader.ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}
}

func TestFetchEmptyResult(t *testing.T) {
	r := newTestReader(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("date") != "1960:2024" {
			t.Errorf("unexpected full history range %s", req.URL.Query().Get("date"))
		}
		fmt.Fprint(w, `[{"page":1,"pages":0,"per_page":1000,"total":0},null]`)
	})
	s, err := r.Fetch(context.Background(), "EMU/NY.GDP.MKTP.KD.ZG", time.Time{})
	if err != nil || len(s.Observations) != 0 {
		t.Fatalf("expected empty series, got %+v, %v", s, err)
	}
}

func TestFetchBadIdentifier(t *testing.T) {
	r := newTestReader(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request expected")
	})
	if _, err := r.Fetch(context.Background(), "FP.CPI.TOTL.ZG", time.Time{}); !errors.Is(err, reader.ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}
}
