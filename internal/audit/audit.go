// Package audit records every tool invocation to one or more sinks. Writes
// are asynchronous and never fail a tool call.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
)

// writeTimeout bounds a single sink write.
const writeTimeout = 5 * time.Second

// Record is one tool invocation.
type Record struct {
	ID          string
	Tool        string
	Arguments   map[string]any
	ResultCount int
	Duration    time.Duration
	Error       string
	Client      string // transport that made the call: "mcp" or "rest"
	CreatedAt   time.Time
}

// NewRecord stamps a record with a fresh id and the current time.
func NewRecord(tool string, args map[string]any, resultCount int, duration time.Duration, err error) Record {
	rec := Record{
		ID:          uuid.NewString(),
		Tool:        tool,
		Arguments:   args,
		ResultCount: resultCount,
		Duration:    duration,
		CreatedAt:   time.Now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

func (r Record) argumentsJSON() (string, error) {
	if r.Arguments == nil {
		return "{}", nil
	}
	data, err := json.Marshal(r.Arguments)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToolStats aggregates the recorded calls of one tool.
type ToolStats struct {
	Tool   string  `json:"tool"`
	Calls  int64   `json:"calls"`
	Errors int64   `json:"errors"`
	AvgMs  float64 `json:"avg_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// Sink persists records.
type Sink interface {
	Name() string
	Write(ctx context.Context, rec Record) error
	Close() error
}

// StatsSource is implemented by sinks that can aggregate what they stored.
type StatsSource interface {
	ToolStats(ctx context.Context) ([]ToolStats, error)
}

// Recorder fans records out to its sinks.
type Recorder struct {
	sinks []Sink
	log   logger.Logger
	wg    sync.WaitGroup
}

// NewRecorder returns a recorder writing to sinks. With no sinks every call is a no-op.
func NewRecorder(log logger.Logger, sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks, log: log}
}

// Enabled reports whether any sink is configured.
func (r *Recorder) Enabled() bool {
	return r != nil && len(r.sinks) > 0
}

// RecordAsync writes rec to every sink in the background.
func (r *Recorder) RecordAsync(rec Record) {
	if !r.Enabled() {
		return
	}
	for _, s := range r.sinks {
		r.wg.Add(1)
		go func(s Sink) {
			defer r.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := s.Write(ctx, rec); err != nil {
				r.log.Warn("audit write failed", "sink", s.Name(), "tool", rec.Tool, "error", err)
			}
		}(s)
	}
}

// Stats returns the tool statistics of the first sink that can aggregate.
func (r *Recorder) Stats(ctx context.Context) ([]ToolStats, error) {
	if r != nil {
		for _, s := range r.sinks {
			if src, ok := s.(StatsSource); ok {
				return src.ToolStats(ctx)
			}
		}
	}
	return nil, ErrNoStats
}

// ErrNoStats is returned by Stats when no sink supports aggregation.
var ErrNoStats = errors.New("no audit sink supports statistics")

// Close waits for pending writes and closes every sink.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.wg.Wait()
	var errs []error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
