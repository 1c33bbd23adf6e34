// Package embeddings compares and caches name embeddings.
package embeddings

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"lukechampine.com/blake3"
)

// DefaultCacheSize is the number of vectors kept in memory.
const DefaultCacheSize = 1024

// Embedder turns texts into embedding vectors, one per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Cache is an Embedder that remembers vectors in memory and, when a
// directory is set, on disk. Only texts missing from both are sent to the
// wrapped Embedder.
type Cache struct {
	next  Embedder
	model string
	fs    afero.Fs
	dir   string
	mem   *lru.Cache[string, []float64]
}

// NewCache wraps next. An empty dir keeps vectors in memory only.
func NewCache(next Embedder, model string, fs afero.Fs, dir string, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	mem, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Cache{next: next, model: model, fs: fs, dir: dir, mem: mem}, nil
}

// Key identifies the vector of text under model.
func Key(model, text string) string {
	sum := blake3.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".bin")
}

func (c *Cache) lookup(key string) ([]float64, bool) {
	if vec, ok := c.mem.Get(key); ok {
		return vec, true
	}
	if c.dir == "" {
		return nil, false
	}
	vec, err := ReadEmbedding(c.fs, c.path(key))
	if err != nil {
		return nil, false
	}
	c.mem.Add(key, vec)
	return vec, true
}

// Embed returns one vector per text in input order.
func (c *Cache) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	keys := make([]string, len(texts))

	var missing []string
	pending := make(map[string][]int)
	for i, text := range texts {
		keys[i] = Key(c.model, text)
		if vec, ok := c.lookup(keys[i]); ok {
			out[i] = vec
			continue
		}
		if _, ok := pending[keys[i]]; !ok {
			missing = append(missing, text)
		}
		pending[keys[i]] = append(pending[keys[i]], i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(vecs))
	}

	for i, text := range missing {
		key := Key(c.model, text)
		c.mem.Add(key, vecs[i])
		for _, idx := range pending[key] {
			out[idx] = vecs[i]
		}
		if c.dir != "" {
			// a failed disk write only costs a later recomputation
			_ = WriteEmbedding(c.fs, c.path(key), vecs[i])
		}
	}
	return out, nil
}
