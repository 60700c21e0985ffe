// Package audit appends one JSONL record per query to a daily log file. The
// trail is best-effort: a write failure is logged and swallowed, never
// surfaced to the user-facing query.
package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// JSONLStore writes audit records under dir as run_YYYYMMDD.jsonl files.
type JSONLStore struct {
	dir    string
	logger ports.Logger
	clock  ports.Clock
	mu     sync.Mutex
}

// NewJSONLStore builds a store rooted at dir, defaulting to ~/.finq/logs.
func NewJSONLStore(dir string, logger ports.Logger) *JSONLStore {
	if dir == "" {
		dir = filepath.Join(userHome(), ".finq", "logs")
	}
	return &JSONLStore{dir: dir, logger: logger, clock: time.Now}
}

// Log implements ports.AuditLogger. It always returns a record id, assigning
// one when the caller left it empty.
func (s *JSONLStore) Log(record domain.AuditRecord) string {
	if record.QueryID == "" {
		record.QueryID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.clock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.append(record); err != nil && s.logger != nil {
		s.logger.Warn("audit write failed", map[string]interface{}{
			"query_id": record.QueryID,
			"error":    err.Error(),
		})
	}
	return record.QueryID
}

func (s *JSONLStore) append(record domain.AuditRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, "run_"+record.Timestamp.Format("20060102")+".jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Recent returns up to limit records, newest first, across all log files.
func (s *JSONLStore) Recent(limit int) ([]domain.AuditRecord, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".jsonl" {
			names = append(names, f.Name())
		}
	}
	// Daily file names sort chronologically; walk newest file first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var records []domain.AuditRecord
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
		// Within a file, later lines are newer.
		for i := len(lines) - 1; i >= 0; i-- {
			if len(lines[i]) == 0 {
				continue
			}
			var record domain.AuditRecord
			if err := json.Unmarshal(lines[i], &record); err != nil {
				continue
			}
			records = append(records, record)
			if limit > 0 && len(records) >= limit {
				return records, nil
			}
		}
	}
	return records, nil
}

// Dir returns the audit directory path.
func (s *JSONLStore) Dir() string {
	return s.dir
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.AuditLogger = (*JSONLStore)(nil)
