package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"macroflow/logger"
	"macroflow/models"
)

var (
	// ErrProviderUnavailable covers network failures, throttling and 5xx
	// answers. It is the only retryable error.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrSeriesNotFound means the provider rejected the native identifier.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrCredential means the provider secret is missing or was rejected.
	ErrCredential = errors.New("invalid or missing credential")
	// ErrNoAdapter means no adapter is registered for the provider.
	ErrNoAdapter = errors.New("no adapter registered for provider")
	// ErrResponseTooLarge means the body exceeded maxBody. Retrying returns
	// the same body, so it is not retryable.
	ErrResponseTooLarge = errors.New("provider response too large")
)

// Adapter fetches one series from a provider. A zero since fetches the full
// history; otherwise only observations dated on or after since are
// requested. An empty result is not an error.
type Adapter interface {
	Provider() models.Provider
	Fetch(ctx context.Context, nativeID string, since time.Time) (models.Series, error)
}

// Retryable reports whether err should be retried.
func Retryable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// Options configures an adapter.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client returns the configured HTTP client or builds one.
func (o Options) Client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return NewHTTPClient(o.Timeout)
}

// Factory builds an adapter from a secret and options.
type Factory func(secret string, opts Options) (Adapter, error)

type registration struct {
	factory        Factory
	requiresSecret bool
}

// Registry maps providers to adapter factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[models.Provider]registration
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[models.Provider]registration)}
}

// Register adds or replaces the factory for p.
func (r *Registry) Register(p models.Provider, requiresSecret bool, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[p] = registration{factory: f, requiresSecret: requiresSecret}
}

func (r *Registry) Has(p models.Provider) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[p]
	return ok
}

// RequiresSecret reports whether the adapter for p needs a credential.
func (r *Registry) RequiresSecret(p models.Provider) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[p].requiresSecret
}

// Build creates the adapter for p.
func (r *Registry) Build(p models.Provider, secret string, opts Options) (Adapter, error) {
	r.mu.RLock()
	reg, ok := r.entries[p]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, p)
	}
	if reg.requiresSecret && secret == "" {
		return nil, fmt.Errorf("%w: no secret configured for %s", ErrCredential, p)
	}
	return reg.factory(secret, opts)
}

// NewHTTPClient returns a client with pooled connections and a hard timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Transport: userAgentTransport{agent: "macroflow/1.0", base: transport},
		Timeout:   timeout,
	}
}

// maxBody caps provider responses.
var maxBody int64 = 64 << 20

// Get performs a GET and returns status and body. Transport failures are
// wrapped in ErrProviderUnavailable.
func Get(ctx context.Context, client *http.Client, provider models.Provider, url string) (int, []byte, error) {
	log := logger.GetLogger().WithComponent("reader").WithFields(logger.Fields{"provider": string(provider)})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %s: read body: %v", ErrProviderUnavailable, provider, err)
	}
	if int64(len(body)) > maxBody {
		return resp.StatusCode, nil, fmt.Errorf("%w: %s: more than %d bytes", ErrResponseTooLarge, provider, maxBody)
	}
	logger.LogPerformanceEntry(log, "reader", "api_request", time.Since(start), logger.Fields{
		"status": resp.StatusCode,
	})
	return resp.StatusCode, body, nil
}

// StatusError maps the generic HTTP classes to the error taxonomy. Adapters
// handle provider specific bodies before falling back to it.
func StatusError(provider models.Provider, status int, body []byte) error {
	snippet := string(body)
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", ErrCredential, provider, status)
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s returned %d: %s", ErrSeriesNotFound, provider, status, snippet)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: %s returned %d", ErrProviderUnavailable, provider, status)
	case status >= 300:
		return fmt.Errorf("%w: %s returned unexpected status %d", ErrProviderUnavailable, provider, status)
	}
	return nil
}

// Record counts a completed provider request for the run report.
func Record(provider models.Provider, observations int) {
	logger.RecordProviderRequest(string(provider), observations)
}

// userAgentTransport stamps outgoing requests unless the caller already set
// a User-Agent.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(out)
}
