// Package colors syncs light and dark color tokens from Figma frames.
package colors

import (
	"fmt"

	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/nameparse"
	"github.com/pders01/figma-sync/internal/units"
	"github.com/pders01/figma-sync/internal/walk"
)

// Swatch is a color found in one mode's frame.
type Swatch struct {
	Token   string
	Name    string
	Color   string
	FigmaID string
}

// Extract returns the color of a painted node as "#RRGGBB", with a
// " NN%" suffix when the fill is translucent. Only the top fill is
// considered; when it is not a solid color the node background is used.
func Extract(n figma.Painted) (string, bool) {
	if paints := n.Paints(); len(paints) > 0 && paints[0].IsSolid() {
		p := paints[0]
		hex := units.Hex(p.Color.R, p.Color.G, p.Color.B)
		opacity := 1.0
		if p.Opacity != nil {
			opacity = *p.Opacity
		}
		if opacity < 1 {
			return fmt.Sprintf("%s %d%%", hex, units.Percent(opacity)), true
		}
		return hex, true
	}

	if bg := n.Background(); bg != nil {
		return units.Hex(bg.R, bg.G, bg.B), true
	}
	return "", false
}

// painted narrows n to the node types that may represent a swatch.
func painted(n figma.Node) (figma.Painted, bool) {
	switch v := n.(type) {
	case *figma.Rectangle:
		return v, true
	case *figma.Frame:
		return v, true
	case *figma.Component:
		return v, true
	case *figma.Instance:
		return v, true
	case *figma.Text, *figma.Other:
		return nil, false
	default:
		return nil, false
	}
}

func displayName(name string) string {
	if clean := nameparse.CleanName(name); clean != "" {
		return clean
	}
	return name
}

// swatchesAt returns the swatches a single node contributes. A node may
// match directly through its own fills, and a numbered frame may also match
// through its first filled rectangle child. Both can fire for one node.
func swatchesAt(n figma.Node) []Swatch {
	base := n.Base()
	token, ok := nameparse.Token(base.Name)
	if !ok {
		return nil
	}

	var out []Swatch
	if p, ok := painted(n); ok && len(p.Paints()) > 0 {
		if color, ok := Extract(p); ok {
			out = append(out, Swatch{Token: token, Name: displayName(base.Name), Color: color, FigmaID: base.ID})
		}
	}

	if frame, ok := n.(*figma.Frame); ok {
		for _, child := range frame.Children {
			rect, ok := child.(*figma.Rectangle)
			if !ok || len(rect.Fills) == 0 {
				continue
			}
			if color, ok := Extract(rect); ok {
				out = append(out, Swatch{Token: token, Name: displayName(base.Name), Color: color, FigmaID: base.ID})
				break
			}
		}
	}

	return out
}

// FindSwatches walks a mode frame and returns its swatches in traversal
// order, duplicates included.
func FindSwatches(root figma.Node) ([]Swatch, error) {
	return walk.Collect(root, nil, swatchesAt)
}
