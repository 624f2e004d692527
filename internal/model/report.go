package model

// SystemCount summarises one system after a catalog build.
type SystemCount struct {
	System string `json:"system"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// ScanReport is the JSON output of the scan command.
type ScanReport struct {
	Systems     []SystemCount `json:"systems"`
	Total       int           `json:"total"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
}

// ArtSystemReport summarises artwork coverage for one system.
type ArtSystemReport struct {
	System         string   `json:"system"`
	Entries        int      `json:"entries"`
	TitleImages    int      `json:"title_images"`
	PreviewImages  int      `json:"preview_images"`
	MissingTitle   []string `json:"missing_title,omitempty"`
	MissingPreview []string `json:"missing_preview,omitempty"`
}

// ArtReport is the JSON output of the art command.
type ArtReport struct {
	Systems []ArtSystemReport `json:"systems"`
}
