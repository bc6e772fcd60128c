// Package querier executes SQL against the database for the agent.
//
// Execution failures never escape as errors; they come back on the result's
// Error field with the engine's error text verbatim, because that text is the
// correction step's repair signal.
package querier

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultMaxRows caps how many rows are kept from a result set.
const DefaultMaxRows = 500

// Config holds the configuration for a Querier.
type Config struct {
	Logger  *slog.Logger
	DB      *sql.DB
	Timeout time.Duration // per-query timeout, 0 disables
	MaxRows int
}

func (cfg *Config) Validate() error {
	if cfg.DB == nil {
		return fmt.Errorf("database is required")
	}
	return nil
}

// Row is one result row keyed by column name.
type Row map[string]any

// Result holds the outcome of one SQL execution. Exactly one of Rows or
// Error is meaningful.
type Result struct {
	SQL       string   `json:"sql"`
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"rows"`
	Count     int      `json:"count"`
	Truncated bool     `json:"truncated,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Querier runs read queries against a database/sql handle.
type Querier struct {
	log *slog.Logger
	cfg Config
}

// New creates a Querier.
func New(cfg Config) (*Querier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate querier config: %w", err)
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	return &Querier{log: cfg.Logger, cfg: cfg}, nil
}

// Query executes a single SQL statement. Database errors are folded into the
// result's Error field; the error return is reserved for a nil receiver
// misuse and is always nil in practice.
func (q *Querier) Query(ctx context.Context, sqlText string) (Result, error) {
	sqlText = strings.TrimSuffix(strings.TrimSpace(sqlText), ";")
	if sqlText == "" {
		return Result{Error: "empty SQL statement"}, nil
	}

	if q.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.cfg.Timeout)
		defer cancel()
	}

	rows, err := q.cfg.DB.QueryContext(ctx, sqlText)
	if err != nil {
		return Result{SQL: sqlText, Error: err.Error()}, nil
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{SQL: sqlText, Error: err.Error()}, nil
	}

	result := Result{SQL: sqlText, Columns: columns}
	for rows.Next() {
		if len(result.Rows) >= q.cfg.MaxRows {
			result.Truncated = true
			break
		}
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return Result{SQL: sqlText, Error: err.Error()}, nil
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			default:
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{SQL: sqlText, Error: err.Error()}, nil
	}
	result.Count = len(result.Rows)

	if q.log != nil {
		q.log.Debug("querier: query executed", "rows", result.Count, "truncated", result.Truncated)
	}
	return result, nil
}

// Format renders a result for inclusion in an LLM prompt.
func Format(result Result) string {
	if result.Error != "" {
		return fmt.Sprintf("Error: %s", result.Error)
	}
	if result.Count == 0 {
		return "Query returned no results."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(result.Columns, ", ")))
	sb.WriteString(fmt.Sprintf("Rows (%d total):\n", result.Count))

	maxRows := min(50, len(result.Rows))
	for i := 0; i < maxRows; i++ {
		values := make([]string, len(result.Columns))
		for j, col := range result.Columns {
			values[j] = formatValue(result.Rows[i][col])
		}
		sb.WriteString(strings.Join(values, " | ") + "\n")
	}
	if result.Count > maxRows {
		sb.WriteString(fmt.Sprintf("... and %d more rows\n", result.Count-maxRows))
	}
	return sb.String()
}

// formatValue formats a single value for the LLM. Floats are rounded to two
// decimals so long repeating decimals don't read like encoded values.
func formatValue(v any) string {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case float32:
		if val == float32(int32(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case nil:
		return ""
	default:
		s := fmt.Sprintf("%v", v)
		if r := []rune(s); len(r) > 100 {
			s = string(r[:97]) + "..."
		}
		return s
	}
}
