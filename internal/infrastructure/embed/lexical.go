package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

const lexicalDimensions = 256

// LexicalEmbedder is the offline fallback backend: it hashes character
// trigrams into a fixed-size normalized vector. Deterministic, needs no
// network, and keeps cosine similarity meaningful for short category phrases
// that share word fragments.
type LexicalEmbedder struct{}

// NewLexicalEmbedder builds the offline embedder.
func NewLexicalEmbedder() *LexicalEmbedder {
	return &LexicalEmbedder{}
}

// Embed implements ports.Embedder.
func (e *LexicalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, lexicalDimensions)
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	padded := " " + normalized + " "

	for i := 0; i+3 <= len(padded); i++ {
		h := fnv.New32a()
		h.Write([]byte(padded[i : i+3]))
		vector[h.Sum32()%lexicalDimensions]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

// EmbedBatch implements ports.Embedder.
func (e *LexicalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (e *LexicalEmbedder) Dimensions() int {
	return lexicalDimensions
}

func (e *LexicalEmbedder) Name() string {
	return "lexical"
}

var _ ports.Embedder = (*LexicalEmbedder)(nil)
