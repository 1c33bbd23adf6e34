// Package walk traverses decoded Figma node trees.
package walk

import (
	"errors"

	"github.com/pders01/figma-sync/internal/figma"
)

// MaxDepth bounds recursion.
const MaxDepth = figma.MaxDepth

// ErrTooDeep is returned when a tree nests deeper than MaxDepth.
var ErrTooDeep = errors.New("walk: tree exceeds maximum depth")

// VisitFunc is called once per node in pre-order.
type VisitFunc func(n figma.Node, depth int) error

// Walk visits root and its descendants depth-first, parents before children
// and children in source order. A node whose id was already visited is
// skipped together with its subtree.
func Walk(root figma.Node, fn VisitFunc) error {
	if root == nil {
		return nil
	}
	seen := make(map[string]struct{})
	return walk(root, 0, seen, fn)
}

func walk(n figma.Node, depth int, seen map[string]struct{}, fn VisitFunc) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}

	base := n.Base()
	if base.ID != "" {
		if _, ok := seen[base.ID]; ok {
			return nil
		}
		seen[base.ID] = struct{}{}
	}

	if err := fn(n, depth); err != nil {
		return err
	}

	for _, child := range base.Children {
		if child == nil {
			continue
		}
		if err := walk(child, depth+1, seen, fn); err != nil {
			return err
		}
	}
	return nil
}

// Predicate selects nodes of interest.
type Predicate func(figma.Node) bool

// Collect walks root and appends extract(n) for every node match accepts.
// A nil match accepts every node.
func Collect[T any](root figma.Node, match Predicate, extract func(figma.Node) []T) ([]T, error) {
	var out []T
	err := Walk(root, func(n figma.Node, _ int) error {
		if match == nil || match(n) {
			out = append(out, extract(n)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
