package favicon

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 60, A: 255})
		}
	}
	return img
}

func TestGenerateFileSet(t *testing.T) {
	set, err := NewGenerator(nil).Generate(context.Background(), testImage(300, 150), "Acme & Co")
	require.NoError(t, err)
	require.Equal(t, fileOrder, set.Names())

	for name, size := range map[string]int{
		NamePNG96:       96,
		NameAppleTouch:  180,
		NameManifest192: 192,
		NameManifest512: 512,
	} {
		f := set.Files[name]
		require.True(t, f.Binary, name)
		require.Equal(t, "image/png", f.MimeType, name)
		cfg, err := png.DecodeConfig(bytes.NewReader(f.Content))
		require.NoError(t, err, name)
		require.Equal(t, size, cfg.Width, name)
		require.Equal(t, size, cfg.Height, name)
	}

	svg := set.Files[NameSVG]
	require.False(t, svg.Binary)
	require.Equal(t, "image/svg+xml", svg.MimeType)
	require.True(t, strings.HasPrefix(string(svg.Content), "<svg "))
	require.Contains(t, string(svg.Content), "data:image/png;base64,")

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(set.Files[NameWebManifest].Content, &manifest))
	require.Equal(t, "Acme & Co", manifest["name"])
	require.Equal(t, "Acme & Co", manifest["short_name"])
	require.Len(t, manifest["icons"], 2)
	require.Equal(t, "application/manifest+json", set.Files[NameWebManifest].MimeType)

	lines := strings.Split(set.HTML, "\n")
	require.Len(t, lines, 6)
	require.Contains(t, set.HTML, `content="Acme &amp; Co"`)
	require.Contains(t, set.HTML, `href="/favicon.ico"`)
}

func TestGenerateDefaultsSiteName(t *testing.T) {
	g := NewGenerator(nil)
	g.BasePath = "/static"
	set, err := g.Generate(context.Background(), testImage(10, 10), "  ")
	require.NoError(t, err)
	require.Contains(t, set.HTML, `content="Site"`)
	require.Contains(t, set.HTML, `href="/static/site.webmanifest"`)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(nil).Generate(ctx, testImage(10, 10), "x")
	require.True(t, errors.Is(err, context.Canceled))
}

func TestGenerateEmptyImage(t *testing.T) {
	_, err := NewGenerator(nil).Generate(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 0)), "x")
	require.ErrorIs(t, err, ErrEmptyImage)
}

func TestICOLayout(t *testing.T) {
	set, err := NewGenerator(nil).Generate(context.Background(), testImage(64, 64), "x")
	require.NoError(t, err)
	ico := set.Files[NameICO].Content

	le := binary.LittleEndian
	require.Equal(t, uint16(0), le.Uint16(ico[0:]))
	require.Equal(t, uint16(1), le.Uint16(ico[2:]))
	require.Equal(t, uint16(len(icoSizes)), le.Uint16(ico[4:]))

	for i, size := range icoSizes {
		entry := ico[icoHeaderLen+i*icoEntryLen:]
		require.Equal(t, byte(size), entry[0])
		require.Equal(t, byte(size), entry[1])
		length := le.Uint32(entry[8:])
		offset := le.Uint32(entry[12:])
		data := ico[offset : offset+length]
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, size, cfg.Width)
	}
}

func TestEncodeICORejectsBadSizes(t *testing.T) {
	_, err := encodeICO(nil)
	require.Error(t, err)
	_, err = encodeICO([]icoImage{{size: 300, png: []byte{1}}})
	require.Error(t, err)

	b, err := encodeICO([]icoImage{{size: 256, png: []byte{1, 2}}})
	require.NoError(t, err)
	require.Equal(t, byte(0), b[icoHeaderLen])
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(4, 2)))
	img, format, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 4, img.Bounds().Dx())

	_, _, err = Decode(strings.NewReader("not an image"))
	require.Error(t, err)
}

func TestMimeType(t *testing.T) {
	tests := map[string]string{
		"favicon.ico":      "image/x-icon",
		"a/B.PNG":          "image/png",
		"site.webmanifest": "application/manifest+json",
		"manifest.json":    "application/json",
		"photo.jpeg":       "image/jpeg",
		"unknown.bin":      "application/octet-stream",
		"noext":            "application/octet-stream",
	}
	for name, want := range tests {
		if got := MimeType(name); got != want {
			t.Fatalf("MimeType(%q) = %q, want %q", name, got, want)
		}
	}
}
