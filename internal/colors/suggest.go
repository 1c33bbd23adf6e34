package colors

import (
	"context"
	"fmt"
	"strings"

	"github.com/pders01/figma-sync/internal/embeddings"
	"github.com/pders01/figma-sync/internal/models"
)

// Suggester proposes aliases the keyword table left unbound by comparing
// embeddings of color names with embeddings of each rule's keywords.
type Suggester struct {
	Embedder  embeddings.Embedder
	Threshold float64
}

func ruleText(r AliasRule) string {
	return r.Alias + ": " + strings.Join(r.Keywords, ", ")
}

// Suggest returns an alias for every unbound rule whose closest color scores
// at least the threshold. Suggestions never replace keyword-derived aliases.
func (s *Suggester) Suggest(ctx context.Context, colors []models.ColorToken, bound models.Aliases) (models.Aliases, error) {
	var open []AliasRule
	for _, rule := range AliasRules {
		if _, ok := bound.Get(rule.Alias); !ok {
			open = append(open, rule)
		}
	}
	if len(open) == 0 || len(colors) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(open)+len(colors))
	for _, rule := range open {
		texts = append(texts, ruleText(rule))
	}
	for _, c := range colors {
		texts = append(texts, c.Name)
	}

	vecs, err := s.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed color names: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}

	ruleVecs, colorVecs := vecs[:len(open)], vecs[len(open):]

	var suggested models.Aliases
	for i, rule := range open {
		idx, score, err := embeddings.Nearest(ruleVecs[i], colorVecs)
		if err != nil {
			return nil, err
		}
		if idx < 0 || score < s.Threshold {
			continue
		}
		suggested = append(suggested, models.AliasEntry{Alias: rule.Alias, Token: colors[idx].Token})
	}
	return suggested, nil
}
