// Package favicon turns one uploaded image into the set of icons and the
// web manifest a site needs.
package favicon

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image has no pixels")

// File is one generated asset. Binary files are base64-encoded on the wire.
type File struct {
	Content  []byte
	MimeType string
	Binary   bool
}

type Set struct {
	Files map[string]File
	HTML  string
}

// Names returns the generated file names in a stable order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(fileOrder))
	for _, name := range fileOrder {
		if _, ok := s.Files[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

const (
	NameICO          = "favicon.ico"
	NamePNG96        = "favicon-96x96.png"
	NameSVG          = "favicon.svg"
	NameAppleTouch   = "apple-touch-icon.png"
	NameManifest192  = "web-app-manifest-192x192.png"
	NameManifest512  = "web-app-manifest-512x512.png"
	NameWebManifest  = "site.webmanifest"
	defaultSiteName  = "Site"
	svgMasterSize    = 512
	manifestThemeHex = "#ffffff"
)

var fileOrder = []string{NameICO, NamePNG96, NameSVG, NameAppleTouch, NameManifest192, NameManifest512, NameWebManifest}

var pngSizes = []struct {
	name string
	size int
}{
	{NamePNG96, 96},
	{NameAppleTouch, 180},
	{NameManifest192, 192},
	{NameManifest512, svgMasterSize},
}

var icoSizes = []int{16, 32, 48}

var mimeTypes = map[string]string{
	"ico":         "image/x-icon",
	"png":         "image/png",
	"svg":         "image/svg+xml",
	"jpg":         "image/jpeg",
	"jpeg":        "image/jpeg",
	"json":        "application/json",
	"xml":         "application/xml",
	"html":        "text/html",
	"webmanifest": "application/manifest+json",
}

// MimeType guesses a content type from the file extension.
func MimeType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	return "application/octet-stream"
}

// Decode reads a PNG, JPEG, GIF, BMP or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, "", ErrEmptyImage
	}
	return img, format, nil
}

type Generator struct {
	logger *slog.Logger
	// BasePath prefixes every href in the markup and manifest.
	BasePath string
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger, BasePath: "/"}
}

// Generate renders the favicon set for img. siteName names the web app;
// empty means "Site".
func (g *Generator) Generate(ctx context.Context, img image.Image, siteName string) (*Set, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	siteName = strings.TrimSpace(siteName)
	if siteName == "" {
		siteName = defaultSiteName
	}

	set := &Set{Files: make(map[string]File, len(fileOrder))}
	for _, p := range pngSizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := encodePNG(square(img, p.size))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		set.Files[p.name] = File{Content: b, MimeType: MimeType(p.name), Binary: true}
	}

	icons := make([]icoImage, 0, len(icoSizes))
	for _, size := range icoSizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := encodePNG(square(img, size))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", NameICO, err)
		}
		icons = append(icons, icoImage{size: size, png: b})
	}
	ico, err := encodeICO(icons)
	if err != nil {
		return nil, err
	}
	set.Files[NameICO] = File{Content: ico, MimeType: MimeType(NameICO), Binary: true}

	set.Files[NameSVG] = File{Content: wrapSVG(set.Files[NameManifest512].Content, svgMasterSize), MimeType: MimeType(NameSVG)}

	manifest, err := g.webManifest(siteName)
	if err != nil {
		return nil, err
	}
	set.Files[NameWebManifest] = File{Content: manifest, MimeType: MimeType(NameWebManifest)}

	set.HTML = g.markup(siteName)
	g.logger.Debug("favicons generated", "site_name", siteName, "files", len(set.Files))
	return set, nil
}

func (g *Generator) href(name string) string {
	base := g.BasePath
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + name
}

func (g *Generator) markup(siteName string) string {
	lines := []string{
		fmt.Sprintf(`<link rel="icon" type="image/png" href="%s" sizes="96x96" />`, g.href(NamePNG96)),
		fmt.Sprintf(`<link rel="icon" type="image/svg+xml" href="%s" />`, g.href(NameSVG)),
		fmt.Sprintf(`<link rel="shortcut icon" href="%s" />`, g.href(NameICO)),
		fmt.Sprintf(`<link rel="apple-touch-icon" sizes="180x180" href="%s" />`, g.href(NameAppleTouch)),
		fmt.Sprintf(`<meta name="apple-mobile-web-app-title" content="%s" />`, html.EscapeString(siteName)),
		fmt.Sprintf(`<link rel="manifest" href="%s" />`, g.href(NameWebManifest)),
	}
	return strings.Join(lines, "\n")
}

type manifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Icons           []manifestIcon `json:"icons"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Display         string         `json:"display"`
}

func (g *Generator) webManifest(siteName string) ([]byte, error) {
	m := webManifest{
		Name:      siteName,
		ShortName: siteName,
		Icons: []manifestIcon{
			{Src: g.href(NameManifest192), Sizes: "192x192", Type: "image/png", Purpose: "maskable"},
			{Src: g.href(NameManifest512), Sizes: "512x512", Type: "image/png", Purpose: "maskable"},
		},
		ThemeColor:      manifestThemeHex,
		BackgroundColor: manifestThemeHex,
		Display:         "standalone",
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return b, nil
}

// square scales src to fit a size×size canvas, centered on transparency.
func square(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	b := src.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}
	x0 := (size - w) / 2
	y0 := (size - h) / 2
	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, b, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wrapSVG(pngData []byte, size int) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	fmt.Fprintf(&b, `<image width="%d" height="%d" href="data:image/png;base64,%s"/>`, size, size, base64.StdEncoding.EncodeToString(pngData))
	b.WriteString("</svg>\n")
	return []byte(b.String())
}
