package pipeline

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthewsawatzky/whitelabel/internal/extract"
	"github.com/matthewsawatzky/whitelabel/internal/generate"
)

func TestRunBrandDocument(t *testing.T) {
	doc, err := extract.Load(filepath.Join("..", "extract", "testdata", "brand.json"))
	require.NoError(t, err)

	out, err := New(generate.Options{}, nil).Run(doc, " Acme ")
	require.NoError(t, err)
	require.Equal(t, "Acme", out.Brand)
	require.Equal(t, 5, out.Extracted.Applied)
	require.Equal(t, 1, out.Extracted.Skipped)
	require.True(t, strings.Contains(out.Artifacts.Theme, "@include setCssVariables();"))
	require.NotEmpty(t, out.Artifacts.AppConfig)

	s := out.Summary()
	require.Equal(t, 5, s.Applied)
	require.Equal(t, len(out.Extracted.Colors), s.Colors)
}

func TestRunRequiresBrand(t *testing.T) {
	_, err := New(generate.Options{}, nil).Run(&extract.Document{}, "  ")
	require.ErrorIs(t, err, ErrNoBrand)
}

func TestRunEmptyDocument(t *testing.T) {
	out, err := New(generate.Options{}, nil).Run(nil, "Acme")
	require.NoError(t, err)
	require.Zero(t, out.Extracted.Applied)
	require.Contains(t, out.Artifacts.Theme, "$theme-colors")
}
