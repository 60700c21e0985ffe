// Package category resolves free-text category mentions to canonical
// categories using a synonym table with a semantic-similarity fallback.
package category

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// Resolver maps category mentions to canonical names. Lookup is two-phase:
// case-insensitive exact match against canonical names and synonyms, then
// cosine similarity against precomputed canonical embeddings.
//
// The table is append-only at runtime. Appends build a fresh snapshot and swap
// it atomically, so concurrent reads never observe a partially-updated
// embedding matrix.
type Resolver struct {
	embedder  ports.Embedder
	logger    ports.Logger
	threshold float64
	path      string // synonyms file; empty disables persistence

	mu   sync.Mutex // serializes appends
	snap atomic.Pointer[snapshot]
}

// snapshot is an immutable view of the synonym table and embedding matrix.
// categories[i] corresponds to vectors[i]; vectors is nil when no embedding
// space exists.
type snapshot struct {
	categories []string
	synonyms   map[string][]string
	vectors    [][]float32
}

// Options configures a Resolver.
type Options struct {
	Embedder     ports.Embedder
	Logger       ports.Logger
	Threshold    float64
	SynonymsFile string
	// Defaults seeds the table when SynonymsFile is absent or empty.
	Defaults map[string][]string
}

// New loads the synonym table and precomputes canonical-category embeddings.
// Embedding failures degrade the resolver to exact-match only; they do not
// fail construction.
func New(ctx context.Context, opts Options) (*Resolver, error) {
	if opts.Threshold <= 0 {
		opts.Threshold = domain.DefaultSimilarityThreshold
	}

	synonyms, err := loadSynonyms(opts.SynonymsFile)
	if err != nil {
		return nil, err
	}
	if len(synonyms) == 0 {
		synonyms = cloneTable(opts.Defaults)
	}

	r := &Resolver{
		embedder:  opts.Embedder,
		logger:    opts.Logger,
		threshold: opts.Threshold,
		path:      opts.SynonymsFile,
	}

	categories := make([]string, 0, len(synonyms))
	for canonical := range synonyms {
		categories = append(categories, canonical)
	}
	sort.Strings(categories)

	var vectors [][]float32
	if r.embedder != nil && len(categories) > 0 {
		vectors, err = r.embedder.EmbedBatch(ctx, categories)
		if err != nil {
			r.warn("category embeddings unavailable, exact match only", err)
			vectors = nil
		}
	}

	r.snap.Store(&snapshot{categories: categories, synonyms: synonyms, vectors: vectors})
	return r, nil
}

// Resolve maps one mention to a canonical category. It never fails: no match
// is reported as an empty canonical name with score 0.
func (r *Resolver) Resolve(ctx context.Context, text string) domain.ResolvedCategory {
	out := domain.ResolvedCategory{Original: text}
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return out
	}

	snap := r.snap.Load()
	if snap == nil || len(snap.categories) == 0 {
		return out
	}

	for canonical, syns := range snap.synonyms {
		if strings.EqualFold(canonical, needle) {
			out.Canonical = canonical
			out.Score = 1.0
			return out
		}
		for _, s := range syns {
			if strings.EqualFold(s, needle) {
				out.Canonical = canonical
				out.Score = 1.0
				return out
			}
		}
	}

	if snap.vectors == nil || r.embedder == nil {
		return out
	}

	query, err := r.embedder.Embed(ctx, needle)
	if err != nil {
		r.warn("embed failed during category resolution", err)
		return out
	}

	bestIdx, bestScore := -1, 0.0
	for i, vec := range snap.vectors {
		if score := cosine(query, vec); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx >= 0 && bestScore >= r.threshold {
		out.Canonical = snap.categories[bestIdx]
		out.Score = bestScore
	}
	return out
}

// AddSynonym registers synonym under canonical, creating the canonical
// category when it is new. Adding to an existing category recomputes no
// embeddings; a new category appends exactly one row to the matrix.
func (r *Resolver) AddSynonym(ctx context.Context, canonical, synonym string) error {
	canonical = strings.TrimSpace(canonical)
	synonym = strings.TrimSpace(synonym)
	if canonical == "" {
		return fmt.Errorf("canonical category must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snap.Load()
	next := &snapshot{
		categories: append([]string(nil), old.categories...),
		synonyms:   cloneTable(old.synonyms),
		vectors:    old.vectors, // rows are immutable; share until append
	}

	if _, exists := next.synonyms[canonical]; !exists {
		next.synonyms[canonical] = nil
		next.categories = append(next.categories, canonical)
		if next.vectors != nil && r.embedder != nil {
			vec, err := r.embedder.Embed(ctx, canonical)
			if err != nil {
				r.warn("embed failed for new category, dropping embedding space", err)
				next.vectors = nil
			} else {
				next.vectors = append(append([][]float32(nil), old.vectors...), vec)
			}
		}
	}

	if synonym != "" && !containsFold(next.synonyms[canonical], synonym) {
		next.synonyms[canonical] = append(append([]string(nil), next.synonyms[canonical]...), synonym)
	}

	r.snap.Store(next)
	return r.persist(next)
}

// Categories returns the canonical category names, sorted.
func (r *Resolver) Categories() []string {
	snap := r.snap.Load()
	if snap == nil {
		return nil
	}
	out := append([]string(nil), snap.categories...)
	sort.Strings(out)
	return out
}

func (r *Resolver) persist(snap *snapshot) error {
	if r.path == "" {
		return nil
	}
	data, err := yaml.Marshal(snap.synonyms)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *Resolver) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}

func loadSynonyms(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse synonyms file %s: %w", path, err)
	}
	return table, nil
}

func cloneTable(table map[string][]string) map[string][]string {
	out := make(map[string][]string, len(table))
	for k, v := range table {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.EqualFold(v, needle) {
			return true
		}
	}
	return false
}

// cosine computes cosine similarity between two vectors, 0 on dimension
// mismatch or zero magnitude.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

var _ ports.CategoryResolver = (*Resolver)(nil)
