package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open setup db: %v", err)
	}
	setup := []string{
		`CREATE TABLE expenses (date TEXT, category TEXT, merchant TEXT, tags TEXT, amount REAL, description TEXT)`,
		`INSERT INTO expenses VALUES ('2025-09-01', 'groceries', 'corner store', '', 42.50, 'weekly shop')`,
		`INSERT INTO expenses VALUES ('2025-09-02', 'transport', 'metro', '', 2.75, 'commute')`,
		`INSERT INTO expenses VALUES ('2025-09-15', 'groceries', 'market', '', 30.00, 'fruit')`,
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close setup db: %v", err)
	}

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestExecuteBindsNamedParams(t *testing.T) {
	store := newTestStore(t)

	rows, columns, err := store.Execute(context.Background(),
		"SELECT category, SUM(amount) AS total FROM expenses WHERE category = :cat GROUP BY category",
		map[string]any{"cat": "groceries"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(columns) != 2 || columns[0] != "category" || columns[1] != "total" {
		t.Fatalf("columns = %v", columns)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %v, want one grouped row", rows)
	}
	if rows[0]["category"] != "groceries" {
		t.Fatalf("category = %v", rows[0]["category"])
	}
	if total, ok := rows[0]["total"].(float64); !ok || total != 72.5 {
		t.Fatalf("total = %v (%T), want 72.5", rows[0]["total"], rows[0]["total"])
	}
}

func TestExecuteEmptyResultIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	rows, columns, err := store.Execute(context.Background(),
		"SELECT category FROM expenses WHERE category = :cat",
		map[string]any{"cat": "absent"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(rows) != 0 || len(columns) != 1 {
		t.Fatalf("rows = %v, columns = %v", rows, columns)
	}
}

func TestExecuteSurfacesQueryErrors(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Execute(context.Background(), "SELECT * FROM missing_table", nil)
	if err == nil {
		t.Fatal("Execute accepted a missing table")
	}
}

func TestListTables(t *testing.T) {
	store := newTestStore(t)

	tables, err := store.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 1 || tables[0] != "expenses" {
		t.Fatalf("tables = %v", tables)
	}
}

func TestTableInfo(t *testing.T) {
	store := newTestStore(t)

	columns, err := store.TableInfo(context.Background(), "expenses")
	if err != nil {
		t.Fatalf("TableInfo: %v", err)
	}
	if len(columns) != 6 {
		t.Fatalf("columns = %v, want 6", columns)
	}
	if columns[0].Name != "date" || columns[0].Type != "TEXT" {
		t.Fatalf("first column = %+v", columns[0])
	}
}

func TestTableInfoRejectsInvalidIdentifier(t *testing.T) {
	store := newTestStore(t)

	for _, table := range []string{"expenses; drop", "1bad", "pragma"} {
		if _, err := store.TableInfo(context.Background(), table); err == nil {
			t.Errorf("TableInfo(%q) accepted an invalid identifier", table)
		}
	}
}
