package models

import (
	"bytes"
	"encoding/json"
)

// ColorToken is one entry of colors.json. Light and Dark are nil when the
// token exists in only one mode.
type ColorToken struct {
	Token string  `json:"token"`
	Name  string  `json:"name"`
	Light *string `json:"light"`
	Dark  *string `json:"dark"`
}

// AliasEntry binds a semantic alias to a color token.
type AliasEntry struct {
	Alias string
	Token string
}

// Aliases is an ordered alias map. It serializes as a JSON object whose keys
// keep their claim order.
type Aliases []AliasEntry

// Get returns the token bound to alias.
func (a Aliases) Get(alias string) (string, bool) {
	for _, e := range a {
		if e.Alias == alias {
			return e.Token, true
		}
	}
	return "", false
}

// MarshalJSON writes the aliases as an object in claim order.
func (a Aliases) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Alias)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Token)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ColorFrames names the light and dark source frames.
type ColorFrames struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// ColorSync is the figmaSync block of colors.json.
type ColorSync struct {
	FileKey      string      `json:"fileKey"`
	Frames       ColorFrames `json:"frames"`
	LastSyncedAt string      `json:"lastSyncedAt"`
	FigmaVersion string      `json:"figmaVersion"`
	TotalColors  int         `json:"totalColors"`
}

// ColorPalette is the colors.json document.
type ColorPalette struct {
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Colors           []ColorToken `json:"colors"`
	SemanticAliases  Aliases      `json:"semanticAliases"`
	SuggestedAliases Aliases      `json:"suggestedAliases,omitempty"`
	FigmaSync        ColorSync    `json:"figmaSync"`
}
