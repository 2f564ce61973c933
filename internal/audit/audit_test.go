package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	records []Record
	fail    bool
	closed  bool
}

func (m *memorySink) Name() string { return "memory" }

func (m *memorySink) Write(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("list_datasets", map[string]any{"erddap_url": "https://x"}, 1, 1500*time.Millisecond, errors.New("boom"))
	assert.Len(t, rec.ID, 36)
	assert.Equal(t, "list_datasets", rec.Tool)
	assert.Equal(t, "boom", rec.Error)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)

	args, err := rec.argumentsJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"erddap_url":"https://x"}`, args)

	args, err = Record{}.argumentsJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", args)
}

func TestRecorderFansOut(t *testing.T) {
	a, b := &memorySink{}, &memorySink{fail: true}
	r := NewRecorder(logger.Nop(), a, b)
	require.True(t, r.Enabled())

	r.RecordAsync(NewRecord("search_datasets", nil, 3, time.Millisecond, nil))
	r.RecordAsync(NewRecord("list_datasets", nil, 1, time.Millisecond, nil))
	require.NoError(t, r.Close())

	assert.Len(t, a.records, 2)
	assert.Empty(t, b.records)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestRecorderWithoutSinks(t *testing.T) {
	r := NewRecorder(logger.Nop())
	assert.False(t, r.Enabled())
	r.RecordAsync(NewRecord("list_datasets", nil, 1, 0, nil))

	_, err := r.Stats(context.Background())
	assert.ErrorIs(t, err, ErrNoStats)
	assert.NoError(t, r.Close())

	var nilRecorder *Recorder
	assert.False(t, nilRecorder.Enabled())
	assert.NoError(t, nilRecorder.Close())
}

func TestDuckDBSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.duckdb")
	sink, err := OpenDuckDB(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Write(ctx, NewRecord("search_datasets", map[string]any{"page": 1}, 5, 100*time.Millisecond, nil)))
	require.NoError(t, sink.Write(ctx, NewRecord("search_datasets", nil, 0, 300*time.Millisecond, errors.New("timeout"))))
	require.NoError(t, sink.Write(ctx, NewRecord("list_datasets", nil, 1, 50*time.Millisecond, nil)))

	r := NewRecorder(logger.Nop(), sink)
	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ToolStats{
		{Tool: "search_datasets", Calls: 2, Errors: 1, AvgMs: 200, MaxMs: 300},
		{Tool: "list_datasets", Calls: 1, Errors: 0, AvgMs: 50, MaxMs: 50},
	}, stats)
	require.NoError(t, r.Close())

	// Reopening keeps the data and skips the migration.
	sink, err = OpenDuckDB(path)
	require.NoError(t, err)
	defer sink.Close()
	stats, err = sink.ToolStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 2)
}

func TestPostgresSink(t *testing.T) {
	dsn := os.Getenv("AUDIT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUDIT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	sink, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer sink.Close()

	rec := NewRecord("get_variable_standard_names", map[string]any{"erddap_url": "https://x"}, 10, time.Second, nil)
	require.NoError(t, sink.Write(ctx, rec))

	stats, err := sink.ToolStats(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stats)
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "")
	assert.Error(t, err)
}
