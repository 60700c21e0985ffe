package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func TestLogAppendsDailyFile(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONLStore(dir, nopLogger{})
	store.clock = func() time.Time {
		return time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)
	}

	id := store.Log(domain.AuditRecord{
		Query:       "spending last month",
		IntentType:  "spending_by_category",
		SQL:         "SELECT 1",
		ResultCount: 3,
	})
	if id == "" {
		t.Fatal("Log returned an empty id")
	}

	data, err := os.ReadFile(filepath.Join(dir, "run_20250930.jsonl"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, `"query":"spending last month"`) {
		t.Fatalf("record not serialized: %s", line)
	}
	if !strings.Contains(line, `"query_id":"`+id+`"`) {
		t.Fatalf("record missing assigned id: %s", line)
	}
}

func TestLogSwallowsWriteFailures(t *testing.T) {
	// Point the store at a path that cannot be a directory.
	blocked := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	store := NewJSONLStore(filepath.Join(blocked, "logs"), nopLogger{})

	if id := store.Log(domain.AuditRecord{Query: "q"}); id == "" {
		t.Fatal("Log must return an id even when persistence fails")
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONLStore(dir, nopLogger{})

	days := []time.Time{
		time.Date(2025, 9, 28, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 30, 10, 0, 0, 0, time.UTC),
	}
	for i, day := range days {
		day := day
		store.clock = func() time.Time { return day }
		store.Log(domain.AuditRecord{Query: []string{"first", "second", "third"}[i]})
	}

	records, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Query != "third" || records[1].Query != "second" {
		t.Fatalf("order = %s, %s; want newest first", records[0].Query, records[1].Query)
	}
}

func TestRecentMissingDirIsEmpty(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "absent"), nopLogger{})

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %v, want none", records)
	}
}
