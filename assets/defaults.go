package assets

import (
	_ "embed"
)

// DefaultSynonymsYAML contains the embedded canonical categories and their
// synonyms, used to seed a fresh installation.
//
//go:embed defaults/synonyms.yaml
var DefaultSynonymsYAML []byte

// DefaultRulesYAML contains the embedded example extra safety rules.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte
