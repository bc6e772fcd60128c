// Package schema provides read-only access to database metadata.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultCacheTTL is how long schema text stays cached. Table structure
// changes rarely relative to question traffic.
const DefaultCacheTTL = 5 * time.Minute

// Config holds the configuration for an Inspector.
type Config struct {
	Logger *slog.Logger
	DB     *sql.DB
	// Dialect selects the metadata queries: "duckdb", "pgx" or "clickhouse".
	Dialect  string
	CacheTTL time.Duration
}

func (cfg *Config) Validate() error {
	if cfg.DB == nil {
		return fmt.Errorf("database is required")
	}
	switch cfg.Dialect {
	case "duckdb", "pgx", "clickhouse":
	default:
		return fmt.Errorf("unsupported dialect: %q", cfg.Dialect)
	}
	return nil
}

// Inspector lists tables and renders DDL-style schema text for the agent.
type Inspector struct {
	log   *slog.Logger
	cfg   Config
	cache *ttlcache.Cache[string, string]
}

// New creates an Inspector.
func New(cfg Config) (*Inspector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate inspector config: %w", err)
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Inspector{
		log: cfg.Logger,
		cfg: cfg,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
		),
	}, nil
}

// ListTables returns the names of all user tables, ordered by name.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	rows, err := i.cfg.DB.QueryContext(ctx, i.tableListQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table list: %w", err)
	}
	return tables, nil
}

// LoadSchema returns CREATE TABLE-style text for the given tables. Results
// are cached per table set.
func (i *Inspector) LoadSchema(ctx context.Context, tables []string) (string, error) {
	if len(tables) == 0 {
		return "", fmt.Errorf("no tables to load schema for")
	}

	key := cacheKey(tables)
	if item := i.cache.Get(key); item != nil {
		if i.log != nil {
			i.log.Debug("schema: cache hit", "tables", len(tables))
		}
		return item.Value(), nil
	}

	columns, err := i.fetchColumns(ctx)
	if err != nil {
		return "", err
	}

	wanted := make(map[string]bool, len(tables))
	for _, t := range tables {
		wanted[t] = true
	}

	text := formatSchema(tables, wanted, columns)
	if text == "" {
		return "", fmt.Errorf("no columns found for tables: %s", strings.Join(tables, ", "))
	}

	i.cache.Set(key, text, ttlcache.DefaultTTL)
	return text, nil
}

type columnInfo struct {
	Table string
	Name  string
	Type  string
}

// fetchColumns reads all user table columns in one metadata query; callers
// filter to the tables they care about. A single unparameterized query avoids
// per-driver placeholder differences.
func (i *Inspector) fetchColumns(ctx context.Context) ([]columnInfo, error) {
	rows, err := i.cfg.DB.QueryContext(ctx, i.columnQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch columns: %w", err)
	}
	defer rows.Close()

	var columns []columnInfo
	for rows.Next() {
		var c columnInfo
		if err := rows.Scan(&c.Table, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	return columns, nil
}

func (i *Inspector) tableListQuery() string {
	switch i.cfg.Dialect {
	case "clickhouse":
		return `SELECT name FROM system.tables WHERE database = currentDatabase() ORDER BY name`
	case "pgx":
		return `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`
	default: // duckdb
		return `SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name`
	}
}

func (i *Inspector) columnQuery() string {
	switch i.cfg.Dialect {
	case "clickhouse":
		return `SELECT table, name, type FROM system.columns WHERE database = currentDatabase() ORDER BY table, position`
	case "pgx":
		return `SELECT table_name, column_name, data_type FROM information_schema.columns WHERE table_schema = 'public' ORDER BY table_name, ordinal_position`
	default: // duckdb
		return `SELECT table_name, column_name, data_type FROM information_schema.columns WHERE table_schema = 'main' ORDER BY table_name, ordinal_position`
	}
}

// formatSchema renders the columns of the wanted tables as CREATE TABLE text,
// in the caller's table order.
func formatSchema(tables []string, wanted map[string]bool, columns []columnInfo) string {
	byTable := make(map[string][]columnInfo)
	for _, c := range columns {
		if wanted[c.Table] {
			byTable[c.Table] = append(byTable[c.Table], c)
		}
	}

	var sb strings.Builder
	for _, t := range tables {
		cols := byTable[t]
		if len(cols) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", t))
		for idx, c := range cols {
			sb.WriteString(fmt.Sprintf("\t%s %s", c.Name, c.Type))
			if idx < len(cols)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(");\n")
	}
	return sb.String()
}

func cacheKey(tables []string) string {
	sorted := make([]string, len(tables))
	copy(sorted, tables)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
