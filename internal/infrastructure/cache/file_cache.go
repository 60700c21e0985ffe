// Package cache persists embedding vectors between runs so canonical
// categories are not re-embedded on every invocation.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// VectorCache stores embedding vectors as JSON blobs addressed by a hash of
// backend name plus input text. Entries never expire; a backend change yields
// new keys.
type VectorCache struct {
	dir string
	mu  sync.Mutex
}

type vectorEntry struct {
	Backend   string    `json:"backend"`
	Text      string    `json:"text"`
	Vector    []float32 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVectorCache returns a cache rooted at dir, defaulting to
// ~/.finq/cache/embeddings.
func NewVectorCache(dir string) *VectorCache {
	if dir == "" {
		dir = filepath.Join(userHome(), ".finq", "cache", "embeddings")
	}
	return &VectorCache{dir: dir}
}

// Get retrieves a cached vector. A miss or unreadable entry returns ok=false.
func (c *VectorCache) Get(backend, text string) ([]float32, bool) {
	data, err := os.ReadFile(c.pathFor(backend, text))
	if err != nil {
		return nil, false
	}
	var entry vectorEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Backend != backend || entry.Text != text {
		return nil, false
	}
	return entry.Vector, true
}

// Set stores a vector. Errors are returned for the caller to log; the cache
// is best-effort and callers must treat failures as non-fatal.
func (c *VectorCache) Set(backend, text string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(vectorEntry{
		Backend:   backend,
		Text:      text,
		Vector:    vector,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(backend, text), data, 0o644)
}

// Dir exposes the cache directory path.
func (c *VectorCache) Dir() string {
	return c.dir
}

// Clear removes all cached entries.
func (c *VectorCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *VectorCache) pathFor(backend, text string) string {
	sum := sha256.Sum256([]byte(backend + "\x00" + text))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
