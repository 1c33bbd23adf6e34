package colors

import (
	"sort"

	"github.com/pders01/figma-sync/internal/models"
	"github.com/pders01/figma-sync/internal/nameparse"
)

// Dedupe keeps the first swatch of every token.
func Dedupe(swatches []Swatch) []Swatch {
	seen := make(map[string]struct{}, len(swatches))
	out := make([]Swatch, 0, len(swatches))
	for _, s := range swatches {
		if _, ok := seen[s.Token]; ok {
			continue
		}
		seen[s.Token] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Merge joins deduplicated light and dark swatches by token. A token found
// in one mode only has a nil value for the other. Names come from the light
// frame when both modes have the token. The result is sorted numerically by
// token.
func Merge(light, dark []Swatch) []models.ColorToken {
	byToken := make(map[string]*models.ColorToken, len(light)+len(dark))
	var order []string

	for _, s := range light {
		color := s.Color
		byToken[s.Token] = &models.ColorToken{Token: s.Token, Name: s.Name, Light: &color}
		order = append(order, s.Token)
	}

	for _, s := range dark {
		color := s.Color
		if existing, ok := byToken[s.Token]; ok {
			existing.Dark = &color
			continue
		}
		byToken[s.Token] = &models.ColorToken{Token: s.Token, Name: s.Name, Dark: &color}
		order = append(order, s.Token)
	}

	merged := make([]models.ColorToken, 0, len(order))
	for _, token := range order {
		merged = append(merged, *byToken[token])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return nameparse.CompareNumeric(merged[i].Token, merged[j].Token) < 0
	})
	return merged
}
