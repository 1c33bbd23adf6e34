// Package typography syncs the type scale from a Figma frame.
package typography

import (
	"fmt"
	"sort"

	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/models"
	"github.com/pders01/figma-sync/internal/nameparse"
	"github.com/pders01/figma-sync/internal/units"
	"github.com/pders01/figma-sync/internal/walk"
)

// Style defaults for text nodes that omit a field.
const (
	DefaultFamily = "SF Pro"
	DefaultWeight = 400
	DefaultSize   = 16

	lineHeightRatio = 1.4
)

var weightNames = map[float64]string{
	100: "Thin",
	200: "ExtraLight",
	300: "Light",
	400: "Regular",
	500: "Medium",
	600: "SemiBold",
	700: "Bold",
	800: "ExtraBold",
	900: "Black",
}

// WeightName maps a numeric font weight to its name, e.g. 600 -> SemiBold.
func WeightName(weight float64) string {
	if name, ok := weightNames[weight]; ok {
		return name
	}
	return fmt.Sprintf("Weight%g", weight)
}

// Extract converts a text node's style into a TypographyStyle. Nodes without
// a style payload are skipped.
func Extract(n *figma.Text) (models.TypographyStyle, bool) {
	if n.Style == nil {
		return models.TypographyStyle{}, false
	}
	s := n.Style

	family := s.FontFamily
	if family == "" {
		family = DefaultFamily
	}
	weight := s.FontWeight
	if weight == 0 {
		weight = DefaultWeight
	}
	size := s.FontSize
	if size == 0 {
		size = DefaultSize
	}
	lineHeight := size * lineHeightRatio
	if s.LineHeightPx != nil && *s.LineHeightPx != 0 {
		lineHeight = *s.LineHeightPx
	}

	weightName := WeightName(weight)
	if s.Italic {
		weightName += " Italic"
	}

	return models.TypographyStyle{
		Name:       n.Name,
		Font:       family,
		Weight:     weightName,
		Size:       size,
		LineHeight: int(units.RoundHalfUp(lineHeight)),
		Kerning:    units.RoundTo(s.LetterSpacing, 1),
	}, true
}

// FindStyles returns the styles of every text node under root in traversal
// order.
func FindStyles(root figma.Node) ([]models.TypographyStyle, error) {
	return walk.Collect(root, nil, func(n figma.Node) []models.TypographyStyle {
		text, ok := n.(*figma.Text)
		if !ok {
			return nil
		}
		if style, ok := Extract(text); ok {
			return []models.TypographyStyle{style}
		}
		return nil
	})
}

// Categorize splits styles into headings, named h1, h2, ..., and body
// styles. Headings are ordered by level and body styles by size, largest
// first. Equal keys keep their input order.
func Categorize(styles []models.TypographyStyle) (headings, body []models.TypographyStyle) {
	headings = []models.TypographyStyle{}
	body = []models.TypographyStyle{}

	for _, s := range styles {
		if nameparse.IsHeading(s.Name) {
			headings = append(headings, s)
		} else {
			body = append(body, s)
		}
	}

	sort.SliceStable(headings, func(i, j int) bool {
		a, _ := nameparse.HeadingLevel(headings[i].Name)
		b, _ := nameparse.HeadingLevel(headings[j].Name)
		return a < b
	})
	sort.SliceStable(body, func(i, j int) bool {
		return body[i].Size > body[j].Size
	})
	return headings, body
}
