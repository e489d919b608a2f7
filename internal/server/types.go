package server

import (
	"encoding/json"

	"github.com/matthewsawatzky/whitelabel/internal/extract"
	"github.com/matthewsawatzky/whitelabel/internal/generate"
	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

type Options struct {
	DataDir         string
	Bind            string
	Port            int
	LogLevel        string
	APIKey          string
	AllowedOrigins  []string
	MaxUploadSizeMB int64
	NeutralColorVar string
	Languages       []string
	Version         string
}

type faviconFile struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
	Encoding string `json:"encoding,omitempty"`
}

type faviconResponse struct {
	Success bool                   `json:"success"`
	Files   map[string]faviconFile `json:"files"`
	HTML    string                 `json:"html"`
}

type themeRequest struct {
	WhiteLabelName string          `json:"whiteLabelName"`
	Document       json.RawMessage `json:"document"`
}

type themeResponse struct {
	generate.Artifacts
	ThemeData       theme.Model              `json:"themeData"`
	ColorCollection []extract.ColorEntry     `json:"colorCollection"`
	Collections     []extract.CollectionInfo `json:"collections"`
	Applied         int                      `json:"applied"`
	Skipped         int                      `json:"skipped"`
	RunID           string                   `json:"runId,omitempty"`
}
