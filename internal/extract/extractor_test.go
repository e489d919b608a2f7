package extract

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

func TestExtractEndToEnd(t *testing.T) {
	doc := &Document{
		Collections: []Collection{{
			Name:        "Colors",
			Modes:       []Mode{{ModeID: "m1", Name: "Default"}},
			VariableIDs: []string{"a", "b"},
		}},
		Variables: []Variable{
			{ID: "a", Name: "brand/primary/default", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m1": ColorValue(1, 0, 0)}},
			{ID: "b", Name: "status/open/default", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m1": StringValue("#00FF00")}},
		},
	}

	res := New(nil).Extract(doc, theme.NewAccumulator())

	require.Equal(t, "#FF0000", res.Model.Primary.Default())
	require.Equal(t, "#00FF00", res.Model.Status.Error.Default())
}

func TestExtractGroupRoleWithoutTint(t *testing.T) {
	doc := &Document{
		Collections: []Collection{{
			Name:        "Status",
			Modes:       []Mode{{ModeID: "m1", Name: "Default"}},
			VariableIDs: []string{"open", "done"},
		}},
		Variables: []Variable{
			{ID: "open", Name: "status/open", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m1": ColorValue(0, 0, 1)}},
			{ID: "done", Name: "status/done", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m1": ColorValue(0, 1, 0)}},
		},
	}

	res := New(nil).Extract(doc, theme.NewAccumulator())

	require.Equal(t, 2, res.Applied)
	require.Equal(t, "#0000FF", res.Model.Status.Open.Default())
	require.Equal(t, "#0000FF", res.Model.Status.Error.Default())
	require.Equal(t, "#00FF00", res.Model.Status.Done.Default())
}

func TestExtractFixture(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "brand.json"))
	require.NoError(t, err)

	res := New(nil).Extract(doc, theme.NewAccumulator())

	// Variables win over the paint style of the same name.
	require.Equal(t, "#FF0000", res.Model.Primary.Default())
	require.Equal(t, "#FF0000", res.Model.Accent.Default(), "alias resolves to the target's first mode")
	warn, ok := res.Model.Semantic.Warning.Get(theme.TintLight)
	require.True(t, ok)
	require.Equal(t, "#FF8000", warn)
	require.Equal(t, "#00FF00", res.Model.Status.Open.Default())
	require.Equal(t, "#00FF00", res.Model.Status.Error.Default())

	require.Equal(t, 5, res.Applied)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Colors, 8)

	require.Equal(t, ColorEntry{
		Type: "SOLID", Name: "semantic/warning/light",
		RGB: "rgb(255, 128, 0)", RGBA: "rgba(255, 128, 0, 0.8)",
		Hex: "#FF8000", Opacity: 0.8, VariableID: "S:2", Mode: "style",
	}, res.Colors[1])

	var nl *ColorEntry
	for i := range res.Colors {
		if res.Colors[i].VariableID == "VariableID:1" && res.Colors[i].Mode == "nl" {
			nl = &res.Colors[i]
		}
	}
	require.NotNil(t, nl)
	require.Equal(t, "#0000FF", nl.Hex)
	require.Equal(t, "rgba(0, 0, 255, 0.5)", nl.RGBA)

	require.Equal(t, []CollectionInfo{{Name: "Brand", Modes: []string{"en", "nl"}, VariableCount: 6}}, res.Collections)

	name, ok := res.Strings.Get("app name")
	require.True(t, ok)
	require.Equal(t, "Acme", name)
	name, ok = res.Strings.ForMode("App name", "NL")
	require.True(t, ok)
	require.Equal(t, "Acme NL", name)
	require.Equal(t, []string{"App name"}, res.Strings.Names())
}

func TestExtractYAMLMatchesJSON(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "brand.yaml"))
	require.NoError(t, err)

	res := New(nil).Extract(doc, theme.NewAccumulator())
	require.Equal(t, "#FF0000", res.Model.Primary.Default())
	require.Equal(t, "#00FF00", res.Model.Status.Error.Default())
	require.Equal(t, "Tokens", res.Collections[0].Name)
}

func TestExtractAliasCycle(t *testing.T) {
	doc := &Document{
		Collections: []Collection{{
			Name:        "Loop",
			Modes:       []Mode{{ModeID: "m", Name: "Default"}},
			VariableIDs: []string{"x", "y", "z"},
		}},
		Variables: []Variable{
			{ID: "x", Name: "primary", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m": AliasValue("y")}},
			{ID: "y", Name: "accent", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m": AliasValue("x")}},
			{ID: "z", Name: "positive", ResolvedType: TypeColor, ValuesByMode: map[string]Value{"m": AliasValue("missing")}},
		},
	}

	res := New(nil).Extract(doc, theme.NewAccumulator())
	require.Equal(t, theme.Model{}, res.Model)
	require.Empty(t, res.Colors)
}

func TestExtractIgnoresUnknownVariables(t *testing.T) {
	doc := &Document{
		Collections: []Collection{
			{Name: "Empty"},
			{Name: "Dangling", Modes: []Mode{{ModeID: "m", Name: "Default"}}, VariableIDs: []string{"gone"}},
		},
	}

	res := New(nil).Extract(doc, theme.NewAccumulator())
	require.Len(t, res.Collections, 2)
	require.Equal(t, 1, res.Collections[1].VariableCount)
	require.Zero(t, res.Applied)
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte("{}"), Format("toml"))
	require.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Load("tokens.txt")
	require.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestValueDecoding(t *testing.T) {
	doc, err := Decode([]byte(`{"variables":[{"id":"v","name":"n","resolvedType":"FLOAT","valuesByMode":{
		"a": {"r": 0.1, "g": 0.2, "b": 0.3},
		"b": {"type": "VARIABLE_ALIAS", "id": "w"},
		"c": "text",
		"d": 4.5,
		"e": true,
		"f": null
	}}]}`), FormatJSON)
	require.NoError(t, err)

	vals := doc.Variables[0].ValuesByMode
	require.Equal(t, KindColor, vals["a"].Kind)
	require.Equal(t, 1.0, vals["a"].Color.Alpha())
	require.Equal(t, Value{Kind: KindAlias, Alias: "w"}, vals["b"])
	require.Equal(t, Value{Kind: KindString, String: "text"}, vals["c"])
	require.Equal(t, Value{Kind: KindNumber, Number: 4.5}, vals["d"])
	require.Equal(t, Value{Kind: KindBool, Bool: true}, vals["e"])
	require.Equal(t, KindNull, vals["f"].Kind)

	_, err = Decode([]byte(`{"variables":[{"valuesByMode":{"x":{"foo":1}}}]}`), FormatJSON)
	require.Error(t, err)
}
