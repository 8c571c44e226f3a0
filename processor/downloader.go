package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"macroflow/catalog"
	appconfig "macroflow/config"
	"macroflow/internal/ratelimit"
	"macroflow/internal/retry"
	"macroflow/internal/table"
	"macroflow/logger"
	"macroflow/models"
	"macroflow/reader"
	"macroflow/reader/providers"
)

var (
	// ErrBatchAborted wraps every whole-batch failure. Per-series failures
	// never produce it; they end up in the audit log.
	ErrBatchAborted = errors.New("batch aborted")
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrNoCredentials means no credential set was supplied while a provider
	// used by the catalog needs a secret.
	ErrNoCredentials = errors.New("no credentials supplied")
)

const (
	causeDeadline = "deadline exceeded"
	causeCanceled = "canceled"
)

// Options configures a Downloader.
type Options struct {
	Workers int
	// RequestTimeout bounds a single attempt independently of Deadline.
	RequestTimeout time.Duration
	// Deadline bounds the whole run. Zero means no deadline.
	Deadline time.Duration
	Retry    retry.Policy
	Limits   map[models.Provider]ratelimit.Limit
	Adapters map[models.Provider]reader.Options
	// Registry defaults to providers.Default().
	Registry *reader.Registry
	// Clock defaults to the real clock.
	Clock retry.Clock
}

// OptionsFromConfig maps the reader and source sections onto Options.
func OptionsFromConfig(cfg *appconfig.Config) Options {
	opts := Options{
		Workers:        cfg.Reader.MaxWorkers,
		RequestTimeout: cfg.Reader.Timeout,
		Deadline:       cfg.Reader.Deadline,
		Retry: retry.Policy{
			MaxAttempts: cfg.Reader.Retry.MaxAttempts,
			BaseDelay:   cfg.Reader.Retry.BaseDelay,
			MaxDelay:    cfg.Reader.Retry.MaxDelay,
			Multiplier:  cfg.Reader.Retry.BackoffMultiplier,
			Jitter:      cfg.Reader.Retry.Jitter,
		},
		Limits:   make(map[models.Provider]ratelimit.Limit),
		Adapters: make(map[models.Provider]reader.Options),
	}
	for _, p := range []models.Provider{models.ProviderFRED, models.ProviderECB, models.ProviderWorldBank} {
		src, _ := cfg.Source.Provider(p)
		opts.Limits[p] = ratelimit.Limit{Interval: src.RateLimit.Interval, Burst: src.RateLimit.Burst}
		opts.Adapters[p] = reader.Options{BaseURL: src.URL, Timeout: cfg.Reader.Timeout}
	}
	return opts
}

// Result is the outcome of a completed batch. Table may be partial; Audit
// always holds exactly one row per catalog definition, in catalog order.
type Result struct {
	RunID     string
	Mode      models.FetchMode
	Table     *table.MasterTable
	Audit     []models.AuditRecord
	Succeeded int
	Failed    int
	// TimedOut counts failures caused by the deadline or cancellation. They
	// are included in Failed.
	TimedOut int
}

// Completed reports whether the batch ran to the end. Aborted batches
// return no Result at all.
func (r *Result) Completed() bool { return r != nil }

// Failures returns the failed audit rows.
func (r *Result) Failures() []models.AuditRecord {
	var out []models.AuditRecord
	for _, a := range r.Audit {
		if !a.Succeeded() {
			out = append(out, a)
		}
	}
	return out
}

// Downloader fetches every catalog definition from its provider and merges
// the results into a master table.
type Downloader struct {
	opts     Options
	registry *reader.Registry
	limiter  *ratelimit.Limiter
	clock    retry.Clock
	log      *logger.Log
}

func NewDownloader(opts Options) *Downloader {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.Registry == nil {
		opts.Registry = providers.Default()
	}
	if opts.Clock == nil {
		opts.Clock = retry.RealClock()
	}
	return &Downloader{
		opts:     opts,
		registry: opts.Registry,
		limiter:  ratelimit.New(opts.Limits),
		clock:    opts.Clock,
		log:      logger.GetLogger(),
	}
}

type job struct {
	def   models.VariableDefinition
	mode  models.FetchMode
	since time.Time
}

type outcome struct {
	record models.AuditRecord
	series models.Series
	states []State
}

// DownloadAll fetches the full history of every definition and builds a
// fresh master table.
func (d *Downloader) DownloadAll(ctx context.Context, cat *catalog.Catalog, creds map[models.Provider]string) (*Result, error) {
	if err := d.precheck(cat, creds); err != nil {
		return nil, err
	}
	jobs := make([]job, 0, cat.Len())
	for _, def := range cat.ListDefinitions() {
		jobs = append(jobs, job{def: def, mode: models.FetchFull})
	}

	res, outcomes := d.run(ctx, models.FetchFull, jobs, creds)
	tbl := table.New()
	for _, o := range outcomes {
		if o.record.Succeeded() {
			tbl.SetSeries(o.record.Code, o.series.Observations)
		}
	}
	res.Table = tbl
	return res, nil
}

// UpdateExisting refreshes existing from the last known date of each column,
// inclusive, so provider revisions of that date are picked up. Fetched values
// overwrite the overlapping dates, everything else in existing is kept.
// Definitions without data in existing get a full fetch.
func (d *Downloader) UpdateExisting(ctx context.Context, existing *table.MasterTable, cat *catalog.Catalog, creds map[models.Provider]string) (*Result, error) {
	if err := d.precheck(cat, creds); err != nil {
		return nil, err
	}
	if existing == nil {
		existing = table.New()
	}

	jobs := make([]job, 0, cat.Len())
	for _, def := range cat.ListDefinitions() {
		j := job{def: def, mode: models.FetchFull}
		if last, ok := existing.LastDate(def.Code); ok {
			j.mode = models.FetchIncremental
			j.since = last
		}
		jobs = append(jobs, j)
	}

	res, outcomes := d.run(ctx, models.FetchIncremental, jobs, creds)
	tbl := existing.Clone()
	for _, o := range outcomes {
		if o.record.Succeeded() {
			tbl.Upsert(o.record.Code, o.series.Observations)
		}
	}
	res.Table = tbl
	return res, nil
}

func (d *Downloader) precheck(cat *catalog.Catalog, creds map[models.Provider]string) error {
	if cat == nil || cat.Len() == 0 {
		return fmt.Errorf("%w: %w", ErrBatchAborted, ErrEmptyCatalog)
	}
	if creds != nil {
		return nil
	}
	for _, p := range cat.Providers() {
		if d.registry.Has(p) && d.registry.RequiresSecret(p) {
			return fmt.Errorf("%w: %w: %s requires a secret", ErrBatchAborted, ErrNoCredentials, p)
		}
	}
	return nil
}

func (d *Downloader) run(ctx context.Context, mode models.FetchMode, jobs []job, creds map[models.Provider]string) (*Result, []outcome) {
	runID := uuid.New().String()
	log := d.log.WithComponent("downloader").WithFields(logger.Fields{
		"run_id":      runID,
		"mode":        string(mode),
		"definitions": len(jobs),
		"workers":     d.opts.Workers,
	})
	log.Info("starting download run")
	start := time.Now()

	runCtx := ctx
	if d.opts.Deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.opts.Deadline)
		defer cancel()
	}

	adapters := make(map[models.Provider]reader.Adapter)
	buildErrs := make(map[models.Provider]error)
	for _, j := range jobs {
		p := j.def.Provider
		if _, ok := adapters[p]; ok {
			continue
		}
		if _, ok := buildErrs[p]; ok {
			continue
		}
		a, err := d.registry.Build(p, creds[p], d.opts.Adapters[p])
		if err != nil {
			log.WithFields(logger.Fields{"provider": string(p)}).WithError(err).Warn("provider adapter unavailable")
			buildErrs[p] = err
			continue
		}
		adapters[p] = a
	}

	outcomes := make([]outcome, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(d.opts.Workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			outcomes[i] = d.fetchOne(runCtx, runID, j, adapters[j.def.Provider], buildErrs[j.def.Provider])
			return nil
		})
	}
	// Single writer barrier: nothing is merged before every job is terminal.
	_ = g.Wait()

	res := &Result{RunID: runID, Mode: mode, Audit: make([]models.AuditRecord, len(outcomes))}
	var attempts, observations int
	for i, o := range outcomes {
		res.Audit[i] = o.record
		attempts += o.record.Attempts
		if o.record.Succeeded() {
			res.Succeeded++
			observations += o.record.Observations
			continue
		}
		res.Failed++
		if o.record.Cause == causeDeadline || o.record.Cause == causeCanceled {
			res.TimedOut++
		}
	}

	fields := logger.Fields{"mode": string(mode)}
	d.log.LogMetric("downloader", "series_succeeded", res.Succeeded, "counter", fields)
	d.log.LogMetric("downloader", "series_failed", res.Failed, "counter", fields)
	d.log.LogMetric("downloader", "series_timed_out", res.TimedOut, "counter", fields)
	d.log.LogMetric("downloader", "fetch_attempts", attempts, "counter", fields)
	d.log.LogMetric("downloader", "observations_fetched", observations, "counter", fields)
	logger.LogPerformanceEntry(log, "downloader", "run", time.Since(start), logger.Fields{
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
		"timed_out": res.TimedOut,
	})
	return res, outcomes
}

func (d *Downloader) fetchOne(runCtx context.Context, runID string, j job, adapter reader.Adapter, buildErr error) (out outcome) {
	def := j.def
	m := newMachine(def.Code)
	log := d.log.WithComponent("downloader").WithFields(logger.Fields{
		"run_id":    runID,
		"code":      def.Code,
		"provider":  string(def.Provider),
		"native_id": def.NativeID,
	})

	rec := models.AuditRecord{
		RunID:     runID,
		Code:      def.Code,
		Name:      def.Name,
		Provider:  def.Provider,
		NativeID:  def.NativeID,
		FetchedAt: d.clock.Now(),
		Mode:      j.mode,
		Since:     j.since,
	}

	fail := func(cause string) outcome {
		if !m.State().Terminal() {
			_ = m.To(FailedTerminal) // rejected transitions are kept by Annotate
		}
		rec.Status = models.AuditFailed
		rec.Cause = m.Annotate(cause)
		return outcome{record: rec, states: m.History()}
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logger.Fields{"panic": fmt.Sprint(r)}).Error("adapter panicked")
			out = fail(fmt.Sprintf("panic: %v", r))
		}
	}()

	if buildErr != nil {
		return fail(buildErr.Error())
	}
	if cause, stopped := stopCause(runCtx); stopped {
		return fail(cause)
	}

	var series models.Series
	r := retry.New(d.opts.Retry, d.clock, reader.Retryable)
	r.OnRetry = func(attempt int, err error, delay time.Duration) {
		if terr := m.To(FailedRetryable); terr != nil {
			log.WithError(terr).Error("illegal state transition")
		}
		log.WithFields(logger.Fields{"attempt": attempt, "delay": delay.String()}).WithError(err).Warn("fetch failed, retrying")
	}

	attempts, err := r.Execute(runCtx, func(ctx context.Context, attempt int) error {
		if err := m.To(Fetching); err != nil {
			return err
		}
		if err := d.limiter.Wait(ctx, def.Provider); err != nil {
			return err
		}
		// The attempt outlives the run deadline but not its own timeout.
		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.RequestTimeout)
		defer cancel()
		s, err := adapter.Fetch(attemptCtx, def.NativeID, j.since)
		if err != nil {
			return err
		}
		series = s
		return nil
	})
	rec.Attempts = attempts

	if err != nil {
		if cause, stopped := stopCause(runCtx); stopped && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
			log.WithFields(logger.Fields{"attempts": attempts}).Warn("definition stopped by deadline")
			return fail(cause)
		}
		log.WithFields(logger.Fields{"attempts": attempts}).WithError(err).Warn("definition failed")
		return fail(err.Error())
	}

	if err := m.To(Succeeded); err != nil {
		return fail("state machine rejected success")
	}
	series.Code = def.Code
	if !j.since.IsZero() {
		series.Observations = series.Since(j.since)
	}
	rec.Status = models.AuditSucceeded
	rec.ApplyStats(series)

	log.WithFields(logger.Fields{
		"attempts":     attempts,
		"observations": rec.Observations,
		"mode":         string(j.mode),
	}).Debug("definition succeeded")
	return outcome{record: rec, series: series, states: m.History()}
}

func stopCause(ctx context.Context) (string, bool) {
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return causeDeadline, true
	case err != nil:
		return causeCanceled, true
	}
	return "", false
}
