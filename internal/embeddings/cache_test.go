package embeddings

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

type countingEmbedder struct {
	calls [][]string
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	c.calls = append(c.calls, append([]string(nil), texts...))
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = []float64{float64(len(text)), 1}
	}
	return out, nil
}

func TestKey(t *testing.T) {
	a := Key("nomic-embed-text", "Primary")
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a != Key("nomic-embed-text", "Primary") {
		t.Error("key must be deterministic")
	}
	if a == Key("mxbai-embed-large", "Primary") {
		t.Error("key must depend on the model")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("model and text must be separated")
	}
}

func TestCacheDeduplicatesRequests(t *testing.T) {
	next := &countingEmbedder{}
	cache, err := NewCache(next, "m", afero.NewMemMapFs(), "", 0)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	vecs, err := cache.Embed(context.Background(), []string{"Primary", "Error", "Primary"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 3 || vecs[0][0] != 7 || vecs[1][0] != 5 || vecs[2][0] != 7 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
	if len(next.calls) != 1 || len(next.calls[0]) != 2 {
		t.Fatalf("expected one call with two texts, got %v", next.calls)
	}

	if _, err := cache.Embed(context.Background(), []string{"Error", "Primary"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.calls) != 1 {
		t.Errorf("expected memory hits, got calls %v", next.calls)
	}
}

func TestCachePersistsToDisk(t *testing.T) {
	fs := afero.NewMemMapFs()

	first := &countingEmbedder{}
	cache, _ := NewCache(first, "m", fs, "/cache", 0)
	if _, err := cache.Embed(context.Background(), []string{"Surface"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := Key("m", "Surface")
	if exists, _ := afero.Exists(fs, "/cache/"+key[:2]+"/"+key+".bin"); !exists {
		t.Fatal("expected vector on disk")
	}

	second := &countingEmbedder{}
	fresh, _ := NewCache(second, "m", fs, "/cache", 0)
	vecs, err := fresh.Embed(context.Background(), []string{"Surface"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.calls) != 0 {
		t.Errorf("expected disk hit, got calls %v", second.calls)
	}
	if vecs[0][0] != 7 {
		t.Errorf("unexpected vector %v", vecs[0])
	}
}

func TestCachePropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	cache, _ := NewCache(&countingEmbedder{err: boom}, "m", nil, "", 0)

	if _, err := cache.Embed(context.Background(), []string{"Primary"}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped embedder error, got %v", err)
	}
}
