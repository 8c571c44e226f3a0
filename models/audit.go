package models

import (
	"math"
	"time"
)

// AuditStatus is the terminal outcome of one definition in a run.
type AuditStatus string

const (
	AuditSucceeded AuditStatus = "succeeded"
	AuditFailed    AuditStatus = "failed"
)

// FetchMode distinguishes full history fetches from incremental ones.
type FetchMode string

const (
	FetchFull        FetchMode = "full"
	FetchIncremental FetchMode = "incremental"
)

// AuditRecord is the provenance and quality row for one definition in one run.
type AuditRecord struct {
	RunID     string
	Code      string
	Name      string
	Provider  Provider
	NativeID  string
	FetchedAt time.Time
	Mode      FetchMode
	Since     time.Time
	Attempts  int
	Status    AuditStatus
	Cause     string

	FirstDate    time.Time
	LastDate     time.Time
	Observations int
	Nulls        int
	NullPct      float64
	Mean         float64
	Min          float64
	Max          float64
}

// Succeeded reports whether the record describes a successful fetch.
func (r AuditRecord) Succeeded() bool { return r.Status == AuditSucceeded }

// HasStats reports whether summary statistics were computed.
func (r AuditRecord) HasStats() bool { return r.Observations > 0 }

// ApplyStats fills the window statistics from a fetched series.
func (r *AuditRecord) ApplyStats(s Series) {
	r.Observations = len(s.Observations)
	r.Nulls = s.Nulls
	if total := r.Observations + r.Nulls; total > 0 {
		r.NullPct = float64(r.Nulls) / float64(total) * 100
	}
	if r.Observations == 0 {
		return
	}
	r.FirstDate = s.Observations[0].Date
	r.LastDate = s.Observations[r.Observations-1].Date

	sum := 0.0
	r.Min = math.Inf(1)
	r.Max = math.Inf(-1)
	for _, o := range s.Observations {
		sum += o.Value
		r.Min = math.Min(r.Min, o.Value)
		r.Max = math.Max(r.Max, o.Value)
	}
	r.Mean = sum / float64(r.Observations)
}
