// Package warehouse loads transformed movie rows into the Postgres
// warehouse table declared by the schema mapping.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/reeldata/reelpipe/internal/schema"
)

// insertBatchSize bounds rows per multi-row INSERT statement.
const insertBatchSize = 500

// Loader writes rows into the warehouse table.
type Loader struct {
	Config *Config
	DB     *sql.DB
}

// NewLoader opens a pooled connection to the warehouse.
func NewLoader(config map[string]any) (*Loader, error) {
	cfg := ParseConfig(config)

	db, err := sql.Open("postgres", cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Loader{Config: cfg, DB: db}, nil
}

// Table reports the configured target table.
func (l *Loader) Table() string {
	return l.Config.Table
}

// Close releases database resources.
func (l *Loader) Close() error {
	if l.DB != nil {
		return l.DB.Close()
	}
	return nil
}

// Validate tests the warehouse connection and reports the server version.
func (l *Loader) Validate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := l.DB.PingContext(ctx); err != nil {
		return "", fmt.Errorf("warehouse unreachable: %w", err)
	}

	var version string
	if err := l.DB.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		log.Printf("warehouse version probe failed: %v", err)
	}
	return version, nil
}

// Provision creates the target table from the mapping-derived DDL.
func (l *Loader) Provision(ctx context.Context) error {
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		l.Config.Table,
		strings.Join(schema.ColumnDDLs(), ",\n\t"),
	)
	if _, err := l.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("provision table %s: %w", l.Config.Table, err)
	}
	return nil
}

// Load appends transformed rows in batched multi-row inserts. Rows are
// keyed by target column name; missing keys insert NULL.
func (l *Loader) Load(ctx context.Context, rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	columns := schema.TargetColumns()

	var written int64
	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := l.insertBatch(ctx, columns, rows[start:end])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func (l *Loader) insertBatch(ctx context.Context, columns []string, rows []map[string]any) (int64, error) {
	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	arg := 1
	for _, row := range rows {
		ph := make([]string, len(columns))
		for i, col := range columns {
			ph[i] = fmt.Sprintf("$%d", arg)
			args = append(args, row[col])
			arg++
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		l.Config.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	res, err := l.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return int64(len(rows)), nil
	}
	return n, nil
}

// CountRows probes the current row count of the target table.
func (l *Loader) CountRows(ctx context.Context) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", l.Config.Table)
	if err := l.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}
