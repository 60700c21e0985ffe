// Package store holds the SQLite storage connector.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// SQLiteStore executes read queries against a single-file SQLite database.
// The pool hands each call its own connection, so concurrent pipeline
// invocations never share a statement handle.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path. The file is opened read-write so
// SQLite can maintain its journal, but the safety policy keeps queries
// read-only.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Execute implements ports.Store. Every value in params binds by name;
// nothing is ever interpolated into the query text here.
func (s *SQLiteStore) Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, []string, error) {
	args := make([]any, 0, len(params))
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, sql.Named(name, params[name]))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return out, columns, nil
}

// ListTables returns user tables in name order.
func (s *SQLiteStore) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableInfo describes a table's columns. PRAGMA cannot bind the table name,
// so the identifier is validated before it enters the statement.
func (s *SQLiteStore) TableInfo(ctx context.Context, table string) ([]domain.ColumnInfo, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []domain.ColumnInfo
	for rows.Next() {
		var col domain.ColumnInfo
		var notNull, pk int
		var defaultValue sql.NullString
		if err := rows.Scan(&col.CID, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		if defaultValue.Valid {
			col.DefaultValue = defaultValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// Close releases the connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// normalize converts driver byte slices to strings so results compare and
// serialize predictably.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

var _ ports.Store = (*SQLiteStore)(nil)
