// Package security enforces the read-only SQL boundary. Every statement the
// planner produces passes through the Policy before touching the database.
package security

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// Policy implements the SafetyPolicy port. The built-in deny list is fixed;
// rules loaded from disk can only add restrictions, never relax them.
type Policy struct {
	extra []compiledRule
}

type compiledRule struct {
	re   *regexp.Regexp
	rule DenyRule
}

// DenyRule describes one additional regex restriction.
type DenyRule struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root for extra deny rules.
type RulesFile struct {
	Rules struct {
		DenyPatterns []DenyRule `yaml:"deny_patterns"`
	} `yaml:"rules"`
}

var (
	lineComments  = regexp.MustCompile(`--[^\n]*`)
	blockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// Write and schema statements, plus SQLite maintenance verbs, matched as
	// whole words anywhere in the statement.
	deniedKeywords = regexp.MustCompile(`\b(drop|alter|delete|insert|update|replace|create|attach|detach|vacuum|pragma|reindex)\b`)
)

// NewPolicy builds a policy with the built-in rules plus any extra deny
// patterns found at path. A missing file is not an error.
func NewPolicy(path string) (*Policy, error) {
	policy := &Policy{}
	if path == "" {
		return policy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, nil
	}
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	for _, rule := range rules.Rules.DenyPatterns {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		policy.extra = append(policy.extra, compiledRule{re: re, rule: rule})
	}
	return policy, nil
}

// Check implements ports.SafetyPolicy. Comments are stripped before keyword
// matching so a denied verb cannot hide inside one, and nothing but a SELECT
// may lead the statement.
func (p *Policy) Check(query string) error {
	stripped := blockComments.ReplaceAllString(query, " ")
	stripped = lineComments.ReplaceAllString(stripped, " ")
	stripped = strings.TrimSpace(stripped)

	lowered := strings.ToLower(stripped)
	if !strings.HasPrefix(lowered, "select") && !strings.HasPrefix(lowered, "with") {
		return &domain.SafetyError{Reason: "only SELECT statements are permitted"}
	}
	if match := deniedKeywords.FindString(lowered); match != "" {
		return &domain.SafetyError{Reason: "statement contains forbidden keyword: " + match}
	}
	for _, rule := range p.extra {
		if rule.re.MatchString(lowered) {
			reason := rule.rule.Message
			if reason == "" {
				reason = "statement matches deny pattern: " + rule.rule.Pattern
			}
			return &domain.SafetyError{Reason: reason}
		}
	}
	return nil
}

var _ ports.SafetyPolicy = (*Policy)(nil)
