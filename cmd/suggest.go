package cmd

import (
	"context"

	"github.com/pders01/figma-sync/internal/colors"
	"github.com/pders01/figma-sync/internal/config"
	"github.com/pders01/figma-sync/internal/embeddings"
	"github.com/pders01/figma-sync/internal/ollama"
	"github.com/pders01/figma-sync/internal/report"
)

// newSuggester returns nil unless alias suggestion is enabled and the
// embedding server is ready.
func newSuggester(ctx context.Context, out *report.Printer) *colors.Suggester {
	if !colorsSuggest && !config.GetAliasSuggestEnabled() {
		return nil
	}

	url := config.GetOllamaURL()
	if !ollama.IsAvailable(url) {
		out.Warn("Ollama is not reachable at %s, skipping alias suggestions", url)
		return nil
	}

	client, err := ollama.NewClient(url, config.GetEmbeddingModel(), nil)
	if err != nil {
		out.Warn("skipping alias suggestions: %v", err)
		return nil
	}
	if err := client.CheckModel(ctx); err != nil {
		out.Warn("skipping alias suggestions: %v", err)
		return nil
	}

	cache, err := embeddings.NewCache(client, client.Model(), appFs, config.GetEmbeddingCacheDir(), 0)
	if err != nil {
		out.Warn("skipping alias suggestions: %v", err)
		return nil
	}

	return &colors.Suggester{Embedder: cache, Threshold: config.GetAliasThreshold()}
}
