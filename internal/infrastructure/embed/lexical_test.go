package embed

import (
	"context"
	"math"
	"testing"
)

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func TestLexicalEmbedIsDeterministic(t *testing.T) {
	e := NewLexicalEmbedder()

	first, err := e.Embed(context.Background(), "groceries")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := e.Embed(context.Background(), "groceries")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(first) != lexicalDimensions {
		t.Fatalf("len = %d, want %d", len(first), lexicalDimensions)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("vectors differ at %d", i)
		}
	}
}

func TestLexicalEmbedIsNormalized(t *testing.T) {
	e := NewLexicalEmbedder()

	vector, err := e.Embed(context.Background(), "dining out")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Fatalf("norm = %f, want 1", math.Sqrt(norm))
	}
}

func TestLexicalSimilarityOrdersRelatedText(t *testing.T) {
	e := NewLexicalEmbedder()
	ctx := context.Background()

	groceries, _ := e.Embed(ctx, "groceries")
	grocery, _ := e.Embed(ctx, "grocery shopping")
	transport, _ := e.Embed(ctx, "transport")

	related := cosine(groceries, grocery)
	unrelated := cosine(groceries, transport)
	if related <= unrelated {
		t.Fatalf("related similarity %f <= unrelated %f", related, unrelated)
	}
}

func TestLexicalEmbedBatch(t *testing.T) {
	e := NewLexicalEmbedder()

	vectors, err := e.EmbedBatch(context.Background(), []string{"rent", "utilities", "travel"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len = %d, want 3", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != lexicalDimensions {
			t.Fatalf("vector %d has %d dims", i, len(v))
		}
	}
}
