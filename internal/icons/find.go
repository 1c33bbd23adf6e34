// Package icons exports icon components from a Figma frame as SVG files.
package icons

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pders01/figma-sync/internal/figma"
	"github.com/pders01/figma-sync/internal/nameparse"
	"github.com/pders01/figma-sync/internal/walk"
)

// Icon is the identity of an icon node.
type Icon struct {
	ID   string
	Name string
	Type figma.NodeType
}

var errContainer = errors.New("container descendant")

func isContainer(n figma.Node) bool {
	switch n.(type) {
	case *figma.Frame, *figma.Component, *figma.Instance:
		return true
	}
	return false
}

// hasContainerDescendant reports whether any node below n is a frame,
// component or instance.
func hasContainerDescendant(n figma.Node) bool {
	for _, child := range n.Base().Children {
		err := walk.Walk(child, func(d figma.Node, _ int) error {
			if isContainer(d) {
				return errContainer
			}
			return nil
		})
		if err != nil {
			return true
		}
	}
	return false
}

// IsIcon reports whether n is an icon: a component, an instance, or a frame
// with children and no nested frame, component or instance. Containers are
// not icons themselves but their descendants are still considered.
func IsIcon(n figma.Node) bool {
	switch v := n.(type) {
	case *figma.Component, *figma.Instance:
		return true
	case *figma.Frame:
		return len(v.Children) > 0 && !hasContainerDescendant(v)
	default:
		return false
	}
}

// Filter drops icons whose names match any exclude pattern.
type Filter struct {
	patterns []string
}

// NewFilter validates doublestar patterns.
func NewFilter(patterns []string) (*Filter, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid icons.exclude pattern %q", p)
		}
	}
	return &Filter{patterns: patterns}, nil
}

// Excluded reports whether name matches an exclude pattern.
func (f *Filter) Excluded(name string) bool {
	if f == nil {
		return false
	}
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Find returns the icons under root in traversal order, minus excluded ones.
func Find(root figma.Node, filter *Filter) ([]Icon, error) {
	return walk.Collect(root, IsIcon, func(n figma.Node) []Icon {
		base := n.Base()
		if filter.Excluded(base.Name) {
			return nil
		}
		return []Icon{{ID: base.ID, Name: base.Name, Type: base.Type}}
	})
}

// Entry is an icon with its output file name.
type Entry struct {
	Icon
	FileName string
}

// Collision records an icon renamed because its slug was taken.
type Collision struct {
	Name     string
	Slug     string
	FileName string
}

// AssignFileNames derives "<slug>.svg" for every icon. A slug already taken
// by an earlier icon gets a -2, -3, ... suffix. Names without any
// alphanumeric character fall back to the node id.
func AssignFileNames(icons []Icon) ([]Entry, []Collision) {
	taken := make(map[string]bool, len(icons))
	entries := make([]Entry, 0, len(icons))
	var collisions []Collision

	for _, icon := range icons {
		slug := nameparse.FileSlug(icon.Name)
		if slug == "" {
			slug = "icon-" + nameparse.FileSlug(icon.ID)
		}

		name := slug
		if taken[name] {
			for i := 2; ; i++ {
				name = fmt.Sprintf("%s-%d", slug, i)
				if !taken[name] {
					break
				}
			}
			collisions = append(collisions, Collision{Name: icon.Name, Slug: slug, FileName: name + ".svg"})
		}
		taken[name] = true

		entries = append(entries, Entry{Icon: icon, FileName: name + ".svg"})
	}
	return entries, collisions
}
