package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matthewsawatzky/whitelabel/internal/db"
	"github.com/matthewsawatzky/whitelabel/internal/extract"
	"github.com/matthewsawatzky/whitelabel/internal/favicon"
	"github.com/matthewsawatzky/whitelabel/internal/pipeline"
)

const (
	errNoImage         = "No image file provided"
	errFaviconsFailed  = "Failed to generate favicons"
	errInvalidDocument = "invalid document"
)

func (a *App) maxBytes() int64 {
	return a.opts.MaxUploadSizeMB * 1024 * 1024
}

func decodeJSONBody(r *http.Request, out any, limit int64) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, limit))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		a.enforceMethod(w, r, http.MethodGet)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *App) handleGenerateFavicons(w http.ResponseWriter, r *http.Request) {
	if !a.enforceMethod(w, r, http.MethodPost) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.maxBytes())
	if err := r.ParseMultipartForm(a.maxBytes()); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			a.writeErrorMessage(w, http.StatusRequestEntityTooLarge, "File too large",
				fmt.Sprintf("uploads are limited to %d MB", a.opts.MaxUploadSizeMB))
			return
		}
		a.writeError(w, http.StatusBadRequest, errNoImage)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, errNoImage)
		return
	}
	defer file.Close()
	siteName := strings.TrimSpace(r.FormValue("siteName"))

	img, format, err := favicon.Decode(file)
	if err != nil {
		a.logger.Error("favicon generation failed", "filename", header.Filename, "err", err)
		a.writeErrorMessage(w, http.StatusInternalServerError, errFaviconsFailed, err.Error())
		return
	}
	set, err := a.favicons.Generate(r.Context(), img, siteName)
	if err != nil {
		a.logger.Error("favicon generation failed", "filename", header.Filename, "err", err)
		a.writeErrorMessage(w, http.StatusInternalServerError, errFaviconsFailed, err.Error())
		return
	}

	resp := faviconResponse{Success: true, Files: make(map[string]faviconFile, len(set.Files)), HTML: set.HTML}
	for name, f := range set.Files {
		out := faviconFile{MimeType: f.MimeType}
		if f.Binary {
			out.Content = base64.StdEncoding.EncodeToString(f.Content)
			out.Encoding = "base64"
		} else {
			out.Content = string(f.Content)
		}
		resp.Files[name] = out
	}

	summary := map[string]any{"files": set.Names(), "format": format, "size": header.Size}
	a.recordRun(siteName, db.RunFavicons, summary)
	a.audit(r, "favicons.generate", siteName, summary)
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleGenerateTheme(w http.ResponseWriter, r *http.Request) {
	if !a.enforceMethod(w, r, http.MethodPost) {
		return
	}
	var req themeRequest
	if err := decodeJSONBody(r, &req, a.maxBytes()); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	doc := &extract.Document{}
	if raw := bytes.TrimSpace(req.Document); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		decoded, err := extract.Decode(raw, extract.FormatJSON)
		if err != nil {
			a.writeErrorMessage(w, http.StatusBadRequest, errInvalidDocument, err.Error())
			return
		}
		doc = decoded
	}

	out, err := a.pipeline.Run(doc, req.WhiteLabelName)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrNoBrand) {
			status = http.StatusBadRequest
		}
		a.writeError(w, status, err.Error())
		return
	}

	summary := out.Summary()
	runID := a.recordRun(out.Brand, db.RunGenerate, summary)
	a.audit(r, "theme.generate", out.Brand, summary)
	a.writeJSON(w, http.StatusOK, themeResponse{
		Artifacts:       out.Artifacts,
		ThemeData:       out.Extracted.Model,
		ColorCollection: out.Extracted.Colors,
		Collections:     out.Extracted.Collections,
		Applied:         out.Extracted.Applied,
		Skipped:         out.Extracted.Skipped,
		RunID:           runID,
	})
}
