package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

func newTestPolicy(t *testing.T) *Policy {
	t.Helper()
	policy, err := NewPolicy("")
	if err != nil {
		t.Fatalf("NewPolicy error: %v", err)
	}
	return policy
}

func TestPolicyAllowsPlainSelect(t *testing.T) {
	policy := newTestPolicy(t)
	queries := []string{
		"SELECT category, SUM(amount) AS total FROM expenses GROUP BY category",
		"select date, amount from expenses where date >= :time_start",
		"WITH current_period AS (SELECT SUM(amount) AS v FROM expenses) SELECT v FROM current_period",
	}
	for _, q := range queries {
		if err := policy.Check(q); err != nil {
			t.Errorf("Check(%q) = %v, want nil", q, err)
		}
	}
}

func TestPolicyDeniesWriteStatements(t *testing.T) {
	policy := newTestPolicy(t)
	queries := []string{
		"DROP TABLE expenses",
		"DELETE FROM expenses",
		"INSERT INTO expenses VALUES (1)",
		"UPDATE expenses SET amount = 0",
		"ALTER TABLE expenses ADD COLUMN x TEXT",
		"CREATE TABLE evil (id)",
		"REPLACE INTO expenses VALUES (1)",
		"ATTACH DATABASE 'x' AS y",
		"DETACH DATABASE y",
		"VACUUM",
		"PRAGMA table_info(expenses)",
		"REINDEX expenses",
	}
	for _, q := range queries {
		err := policy.Check(q)
		var safetyErr *domain.SafetyError
		if !errors.As(err, &safetyErr) {
			t.Errorf("Check(%q) = %v, want SafetyError", q, err)
		}
	}
}

func TestPolicyDeniesEmbeddedKeyword(t *testing.T) {
	policy := newTestPolicy(t)
	q := "SELECT amount FROM expenses; DROP TABLE expenses"
	err := policy.Check(q)
	var safetyErr *domain.SafetyError
	if !errors.As(err, &safetyErr) {
		t.Fatalf("Check(%q) = %v, want SafetyError", q, err)
	}
	if !strings.Contains(safetyErr.Reason, "drop") {
		t.Fatalf("Reason = %q, want the matched keyword", safetyErr.Reason)
	}
}

func TestPolicyAllowsKeywordInsideIdentifier(t *testing.T) {
	policy := newTestPolicy(t)
	// "updates" and "created_at" contain denied verbs as substrings but not
	// as whole words.
	q := "SELECT updates, created_at FROM expenses"
	if err := policy.Check(q); err != nil {
		t.Fatalf("Check(%q) = %v, want nil", q, err)
	}
}

func TestPolicyStripsCommentsBeforeMatching(t *testing.T) {
	policy := newTestPolicy(t)

	// A denied verb hidden in a comment must not poison an otherwise safe
	// statement, but a real statement smuggled behind a comment must still
	// be caught.
	if err := policy.Check("SELECT amount FROM expenses -- drop nothing"); err != nil {
		t.Fatalf("line comment should be ignored, got %v", err)
	}
	if err := policy.Check("SELECT amount /* delete */ FROM expenses"); err != nil {
		t.Fatalf("block comment should be ignored, got %v", err)
	}
	if err := policy.Check("/* harmless */ DELETE FROM expenses"); err == nil {
		t.Fatal("statement behind a comment must be denied")
	}
}

func TestPolicyRequiresSelectPrefix(t *testing.T) {
	policy := newTestPolicy(t)
	for _, q := range []string{"", "   ", "EXPLAIN SELECT 1", "BEGIN"} {
		err := policy.Check(q)
		var safetyErr *domain.SafetyError
		if !errors.As(err, &safetyErr) {
			t.Errorf("Check(%q) = %v, want SafetyError", q, err)
		}
	}
}

func TestPolicyExtraRulesAddOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "rules:\n  deny_patterns:\n    - pattern: \"\\\\btags\\\\b\"\n      message: \"tag queries are disabled\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	policy, err := NewPolicy(path)
	if err != nil {
		t.Fatalf("NewPolicy error: %v", err)
	}

	err = policy.Check("SELECT tags FROM expenses")
	var safetyErr *domain.SafetyError
	if !errors.As(err, &safetyErr) {
		t.Fatalf("extra rule not applied: %v", err)
	}
	if safetyErr.Reason != "tag queries are disabled" {
		t.Fatalf("Reason = %q, want configured message", safetyErr.Reason)
	}

	// Built-ins survive regardless of what the file contains.
	if err := policy.Check("DROP TABLE expenses"); err == nil {
		t.Fatal("built-in deny list must remain in force")
	}
}

func TestPolicyMissingRulesFileIsNotFatal(t *testing.T) {
	policy, err := NewPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewPolicy error: %v", err)
	}
	if err := policy.Check("SELECT 1"); err != nil {
		t.Fatalf("Check error: %v", err)
	}
}
