package figma

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxDepth bounds how deep a document tree may nest.
const MaxDepth = 512

// ErrTooDeep is returned when a tree nests deeper than MaxDepth.
var ErrTooDeep = errors.New("node tree exceeds maximum depth")

// NodeType is the Figma node type tag.
type NodeType string

const (
	TypeRectangle NodeType = "RECTANGLE"
	TypeFrame     NodeType = "FRAME"
	TypeComponent NodeType = "COMPONENT"
	TypeInstance  NodeType = "INSTANCE"
	TypeText      NodeType = "TEXT"
)

// Node is one element of a document tree. Concrete values are *Rectangle,
// *Frame, *Component, *Instance, *Text and *Other.
type Node interface {
	Base() *NodeBase
}

// NodeBase holds the fields every node carries.
type NodeBase struct {
	ID       string
	Name     string
	Type     NodeType
	Children []Node
}

// Base returns the shared node fields.
func (b *NodeBase) Base() *NodeBase { return b }

// Color is an RGBA color with 0-1 channels.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Paint is a fill applied to a node. Only SOLID paints carry a color.
type Paint struct {
	Type    string   `json:"type"`
	Color   *Color   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// IsSolid reports whether the paint is a solid color.
func (p Paint) IsSolid() bool {
	return p.Type == "SOLID" && p.Color != nil
}

// TypeStyle is the text style payload of a TEXT node.
type TypeStyle struct {
	FontFamily    string   `json:"fontFamily"`
	FontWeight    float64  `json:"fontWeight"`
	FontSize      float64  `json:"fontSize"`
	LineHeightPx  *float64 `json:"lineHeightPx,omitempty"`
	LetterSpacing float64  `json:"letterSpacing"`
	TextCase      string   `json:"textCase,omitempty"`
	Italic        bool     `json:"italic"`
}

// Rectangle is a RECTANGLE node.
type Rectangle struct {
	NodeBase
	Fills []Paint
}

// Frame is a FRAME node.
type Frame struct {
	NodeBase
	Fills           []Paint
	BackgroundColor *Color
}

// Component is a COMPONENT node.
type Component struct {
	NodeBase
	Fills           []Paint
	BackgroundColor *Color
}

// Instance is an INSTANCE node.
type Instance struct {
	NodeBase
	Fills           []Paint
	BackgroundColor *Color
}

// Text is a TEXT node.
type Text struct {
	NodeBase
	Style *TypeStyle
}

// Other is any node type the pipelines do not inspect (GROUP, VECTOR, ...).
type Other struct {
	NodeBase
}

// Painted is implemented by node types that can carry fills.
type Painted interface {
	Node
	Paints() []Paint
	Background() *Color
}

func (n *Rectangle) Paints() []Paint    { return n.Fills }
func (n *Rectangle) Background() *Color { return nil }
func (n *Frame) Paints() []Paint        { return n.Fills }
func (n *Frame) Background() *Color     { return n.BackgroundColor }
func (n *Component) Paints() []Paint    { return n.Fills }
func (n *Component) Background() *Color { return n.BackgroundColor }
func (n *Instance) Paints() []Paint     { return n.Fills }
func (n *Instance) Background() *Color  { return n.BackgroundColor }

type rawNode struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Type            NodeType          `json:"type"`
	Children        []json.RawMessage `json:"children"`
	Fills           []Paint           `json:"fills"`
	BackgroundColor *Color            `json:"backgroundColor"`
	Style           *TypeStyle        `json:"style"`
}

// DecodeNode decodes a JSON document node and its subtree.
func DecodeNode(data []byte) (Node, error) {
	return decodeNode(data, 0)
}

func decodeNode(data []byte, depth int) (Node, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}

	base := NodeBase{ID: raw.ID, Name: raw.Name, Type: raw.Type}
	for _, childData := range raw.Children {
		child, err := decodeNode(childData, depth+1)
		if err != nil {
			return nil, err
		}
		base.Children = append(base.Children, child)
	}

	switch raw.Type {
	case TypeRectangle:
		return &Rectangle{NodeBase: base, Fills: raw.Fills}, nil
	case TypeFrame:
		return &Frame{NodeBase: base, Fills: raw.Fills, BackgroundColor: raw.BackgroundColor}, nil
	case TypeComponent:
		return &Component{NodeBase: base, Fills: raw.Fills, BackgroundColor: raw.BackgroundColor}, nil
	case TypeInstance:
		return &Instance{NodeBase: base, Fills: raw.Fills, BackgroundColor: raw.BackgroundColor}, nil
	case TypeText:
		return &Text{NodeBase: base, Style: raw.Style}, nil
	default:
		return &Other{NodeBase: base}, nil
	}
}
