package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern is the only shape an identifier may take before it is
// placed in query text.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_]\w*$`)

// reservedWords can never be used as identifiers even when they match the
// identifier pattern.
var reservedWords = map[string]struct{}{
	"select": {}, "insert": {}, "update": {}, "delete": {}, "drop": {},
	"alter": {}, "create": {}, "replace": {}, "attach": {}, "detach": {},
	"vacuum": {}, "pragma": {}, "reindex": {}, "table": {}, "from": {},
	"where": {}, "group": {}, "by": {}, "order": {}, "having": {},
	"join": {}, "inner": {}, "outer": {}, "left": {}, "right": {},
	"as": {}, "and": {}, "or": {}, "not": {}, "in": {}, "like": {},
	"between": {}, "is": {}, "null": {}, "true": {}, "false": {},
}

// ValidateIdentifier rejects anything that is not a plain SQL identifier.
// Every identifier headed for query text passes through here.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	if _, reserved := reservedWords[strings.ToLower(name)]; reserved {
		return fmt.Errorf("identifier %q is a reserved word", name)
	}
	return nil
}
