package reader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"macroflow/models"
)

type stubAdapter struct{ p models.Provider }

func (s stubAdapter) Provider() models.Provider { return s.p }

func (s stubAdapter) Fetch(context.Context, string, time.Time) (models.Series, error) {
	return models.Series{}, nil
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()
	r.Register(models.ProviderFRED, true, func(secret string, opts Options) (Adapter, error) {
		return stubAdapter{p: models.ProviderFRED}, nil
	})

	if _, err := r.Build(models.ProviderOECD, "", Options{}); !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("expected ErrNoAdapter, got %v", err)
	}
	if _, err := r.Build(models.ProviderFRED, "", Options{}); !errors.Is(err, ErrCredential) {
		t.Fatalf("expected ErrCredential, got %v", err)
	}
	a, err := r.Build(models.ProviderFRED, "key", Options{})
	if err != nil || a.Provider() != models.ProviderFRED {
		t.Fatalf("unexpected build result %v, %v", a, err)
	}
	if !r.RequiresSecret(models.ProviderFRED) || r.RequiresSecret(models.ProviderECB) {
		t.Fatalf("unexpected secret requirements")
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{401, ErrCredential},
		{403, ErrCredential},
		{404, ErrSeriesNotFound},
		{400, ErrSeriesNotFound},
		{429, ErrProviderUnavailable},
		{502, ErrProviderUnavailable},
	}
	for _, tt := range tests {
		if err := StatusError(models.ProviderECB, tt.status, nil); !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
	if err := StatusError(models.ProviderECB, 200, nil); err != nil {
		t.Errorf("200 should not be an error: %v", err)
	}
	if !Retryable(StatusError(models.ProviderECB, 503, nil)) || Retryable(StatusError(models.ProviderECB, 404, nil)) {
		t.Errorf("only unavailable errors are retryable")
	}
}

func TestGetSetsUserAgentAndWrapsTransportErrors(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		agent = req.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	client := NewHTTPClient(time.Second)

	status, body, err := Get(context.Background(), client, models.ProviderECB, srv.URL)
	if err != nil || status != 200 || string(body) != "ok" {
		t.Fatalf("unexpected response %d %q %v", status, body, err)
	}
	if agent != "macroflow/1.0" {
		t.Fatalf("unexpected user agent %q", agent)
	}

	srv.Close()
	if _, _, err := Get(context.Background(), client, models.ProviderECB, srv.URL); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestGetRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("0123456789abcdef"))
	}))
	defer srv.Close()

	old := maxBody
	maxBody = 8
	defer func() { maxBody = old }()

	_, body, err := Get(context.Background(), NewHTTPClient(time.Second), models.ProviderFRED, srv.URL)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("expected ErrResponseTooLarge, got %v", err)
	}
	if body != nil {
		t.Fatalf("expected no body, got %q", body)
	}
	if Retryable(err) {
		t.Fatalf("oversized body should not be retried")
	}

	maxBody = 16
	if _, body, err := Get(context.Background(), NewHTTPClient(time.Second), models.ProviderFRED, srv.URL); err != nil || len(body) != 16 {
		t.Fatalf("body at the limit should pass, got %d bytes, %v", len(body), err)
	}
}
