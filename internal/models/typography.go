package models

// TypographyStyle is one text style of typography.json.
type TypographyStyle struct {
	Name       string  `json:"name"`
	Font       string  `json:"font"`
	Weight     string  `json:"weight"`
	Size       float64 `json:"size"`
	LineHeight int     `json:"lineHeight"`
	Kerning    float64 `json:"kerning"`
}

// FontFamilies maps each platform to its native typeface.
type FontFamilies struct {
	IOS     string `json:"iOS"`
	MacOS   string `json:"macOS"`
	Android string `json:"android"`
	Windows string `json:"windows"`
}

// TypographySync is the figmaSync block of typography.json.
type TypographySync struct {
	FileKey      string `json:"fileKey"`
	NodeID       string `json:"nodeId"`
	FrameURL     string `json:"frameUrl,omitempty"`
	LastSyncedAt string `json:"lastSyncedAt"`
	FigmaVersion string `json:"figmaVersion"`
	TotalStyles  int    `json:"totalStyles"`
}

// TypographyScale is the typography.json document.
type TypographyScale struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	FontFamilies FontFamilies      `json:"fontFamilies"`
	Note         string            `json:"note"`
	Headings     []TypographyStyle `json:"headings"`
	Body         []TypographyStyle `json:"body"`
	FigmaSync    TypographySync    `json:"figmaSync"`
}
