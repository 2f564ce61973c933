package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

const schemaVersion = 1

// DuckDBSink stores records in a local DuckDB file.
type DuckDBSink struct {
	db *sql.DB
}

// OpenDuckDB opens (or creates) the DuckDB file at path and migrates its schema.
func OpenDuckDB(path string) (*DuckDBSink, error) {
	db, err := sql.Open("duckdb", path+"?access_mode=READ_WRITE")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	// DuckDB works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	s := &DuckDBSink{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *DuckDBSink) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return err
	}
	if version >= schemaVersion {
		return nil
	}

	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS erddap_tool_calls (
		id           VARCHAR PRIMARY KEY,
		tool_name    VARCHAR,
		arguments    JSON,
		result_count INTEGER,
		duration_ms  DOUBLE,
		error        VARCHAR,
		client_info  VARCHAR,
		created_at   TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_tool_calls_tool ON erddap_tool_calls(tool_name);
	CREATE INDEX IF NOT EXISTS idx_tool_calls_created ON erddap_tool_calls(created_at);
	DELETE FROM schema_version;
	`)
	if err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
	return err
}

func (s *DuckDBSink) Name() string { return "duckdb" }

func (s *DuckDBSink) Write(ctx context.Context, rec Record) error {
	args, err := rec.argumentsJSON()
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO erddap_tool_calls (id, tool_name, arguments, result_count, duration_ms, error, client_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Tool, args, rec.ResultCount, float64(rec.Duration.Milliseconds()), rec.Error, rec.Client, rec.CreatedAt)
	return err
}

func (s *DuckDBSink) ToolStats(ctx context.Context) ([]ToolStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool_name, COUNT(*) AS calls,
			COUNT(*) FILTER (WHERE error <> '') AS errors,
			AVG(duration_ms) AS avg_ms, MAX(duration_ms) AS max_ms
		FROM erddap_tool_calls
		GROUP BY tool_name
		ORDER BY calls DESC, tool_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ToolStats
	for rows.Next() {
		var st ToolStats
		if err := rows.Scan(&st.Tool, &st.Calls, &st.Errors, &st.AvgMs, &st.MaxMs); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *DuckDBSink) Close() error {
	return s.db.Close()
}
