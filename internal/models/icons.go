package models

// IconRecord is one entry of icons.json.
type IconRecord struct {
	Name     string `json:"name"`
	FileName string `json:"fileName"`
	FigmaID  string `json:"figmaId"`
	Type     string `json:"type"`
}

// IconSync is the figmaSync block of icons.json.
type IconSync struct {
	FileKey      string `json:"fileKey"`
	NodeID       string `json:"nodeId"`
	LastSyncedAt string `json:"lastSyncedAt"`
	FigmaVersion string `json:"figmaVersion"`
	TotalIcons   int    `json:"totalIcons"`
}
