package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSink stores records in a PostgreSQL table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the audit table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSink, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS erddap_tool_calls (
			id           TEXT PRIMARY KEY,
			tool_name    TEXT NOT NULL,
			arguments    JSONB,
			result_count INTEGER,
			duration_ms  DOUBLE PRECISION,
			error        TEXT,
			client_info  TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Write(ctx context.Context, rec Record) error {
	args, err := rec.argumentsJSON()
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO erddap_tool_calls (id, tool_name, arguments, result_count, duration_ms, error, client_info, created_at)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Tool, args, rec.ResultCount, float64(rec.Duration.Milliseconds()), rec.Error, rec.Client, rec.CreatedAt)
	return err
}

func (s *PostgresSink) ToolStats(ctx context.Context) ([]ToolStats, error) {
	rows, err := s.pool.Query(ctx, `
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

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
