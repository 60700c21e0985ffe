// Package embed provides the embedding backends behind the category
// resolver: the Gemini API, a local Ollama server, and a deterministic
// offline fallback.
package embed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// NewEmbedder builds the backend selected by the resolver settings. Unknown
// providers are an error; an empty provider means the offline fallback.
func NewEmbedder(ctx context.Context, cfg domain.ResolverSettings) (ports.Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "genai", "gemini":
		apiKey := os.Getenv(cfg.APIKeyEnvVar)
		if apiKey == "" && cfg.APIKeyEnvVar != "GEMINI_API_KEY" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		return NewGenAIEmbedder(ctx, apiKey, cfg.GenAIModel)
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaEndpoint, cfg.OllamaModel), nil
	case "lexical", "":
		return NewLexicalEmbedder(), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
