package theme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAccumulatorIngest(t *testing.T) {
	acc := NewAccumulator()
	require.True(t, acc.Ingest("brand/primary/500", "#ff0000"))
	require.True(t, acc.Ingest("brand/primary/100", "ffcccc"))
	require.True(t, acc.Ingest("semantic/positive/default", "#0f0"))
	require.False(t, acc.Ingest("background/default", "#000000"))
	require.False(t, acc.Ingest("brand/accent/500", "not a color"))

	m := acc.Model()
	require.Equal(t, "#FF0000", m.Primary.Default())
	v, ok := m.Primary.Get(TintLighter)
	require.True(t, ok)
	require.Equal(t, "#FFCCCC", v)
	require.Equal(t, "#00FF00", m.Semantic.Positive.Default())
	require.True(t, m.Accent.Empty())

	applied, skipped := acc.Stats()
	require.Equal(t, 3, applied)
	require.Equal(t, 2, skipped)
}

func TestAccumulatorLastWriteWins(t *testing.T) {
	acc := NewAccumulator()
	acc.Ingest("primary/500", "#111111")
	acc.Ingest("brand/primary/default", "#222222")

	require.Equal(t, "#222222", acc.Model().Primary.Default())
}

func TestAccumulatorErrorFallsBackToOpen(t *testing.T) {
	first := NewAccumulator()
	first.Ingest("status/open/default", "#112233")
	first.Ingest("status/done/default", "#445566")

	second := NewAccumulator()
	second.Ingest("status/done/default", "#445566")
	second.Ingest("status/open/default", "#112233")

	require.Equal(t, "#112233", first.Model().Status.Error.Default())
	require.Equal(t, first.Model(), second.Model())
}

func TestAccumulatorGroupRoleWithoutTint(t *testing.T) {
	acc := NewAccumulator()
	require.True(t, acc.Ingest("status/open", "#112233"))
	require.True(t, acc.Ingest("brand/accent", "#abcdef"))
	require.True(t, acc.Ingest("semantic/negative", "#FF0000"))

	m := acc.Model()
	require.Equal(t, "#112233", m.Status.Open.Default())
	require.Equal(t, "#112233", m.Status.Error.Default())
	require.Equal(t, "#ABCDEF", m.Accent.Default())
	require.Equal(t, "#FF0000", m.Semantic.Negative.Default())
}

func TestAccumulatorExplicitErrorWins(t *testing.T) {
	for _, order := range [][]string{{"open", "error"}, {"error", "open"}} {
		acc := NewAccumulator()
		for _, role := range order {
			hex := "#112233"
			if role == "error" {
				hex = "#AA0000"
			}
			acc.Ingest("status/"+role+"/default", hex)
		}
		m := acc.Model()
		require.Equal(t, "#AA0000", m.Status.Error.Default(), "order %v", order)
		require.Equal(t, "#112233", m.Status.Open.Default(), "order %v", order)
	}
}

func TestAccumulatorReset(t *testing.T) {
	acc := NewAccumulator()
	acc.Ingest("accent", "#123456")
	acc.Reset()

	require.Equal(t, Model{}, acc.Model())
	applied, skipped := acc.Stats()
	require.Zero(t, applied)
	require.Zero(t, skipped)
}

func TestModelJSON(t *testing.T) {
	acc := NewAccumulator()
	acc.Ingest("primary/darker", "#000000")
	acc.Ingest("primary/lighter", "#ffffff")

	b, err := json.Marshal(acc.Model())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Equal(t, map[string]any{"lighter": "#FFFFFF", "darker": "#000000"}, raw["primary"])

	var back Model
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, acc.Model(), back)
}

var (
	roleSegments = []string{"primary", "accent", "positive", "warning", "negative", "neutral", "open", "done", "progress", "closed", "error", "grey"}
	tintSegments = []string{"50", "100", "300", "500", "700", "900", "light", "darker", "custom-1", "weird"}
)

func genName() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		role := rapid.SampledFrom(roleSegments).Draw(t, "role")
		tint := rapid.SampledFrom(tintSegments).Draw(t, "tint")
		group := rapid.SampledFrom([]string{"brand", "semantic", "status"}).Draw(t, "group")
		switch rapid.IntRange(0, 3).Draw(t, "shape") {
		case 0:
			return role
		case 1:
			return role + "/" + tint
		case 2:
			return group + "/" + role
		default:
			return group + "/" + role + "/" + tint
		}
	})
}

func genHex() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		return HexFromRGB(
			rapid.Float64Range(0, 1).Draw(t, "r"),
			rapid.Float64Range(0, 1).Draw(t, "g"),
			rapid.Float64Range(0, 1).Draw(t, "b"),
		)
	})
}

type pair struct{ name, hex string }

func genPairs() *rapid.Generator[[]pair] {
	return rapid.SliceOf(rapid.Custom(func(t *rapid.T) pair {
		return pair{name: genName().Draw(t, "name"), hex: genHex().Draw(t, "hex")}
	}))
}

func TestAccumulatorIdempotentIngest(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pairs := genPairs().Draw(rt, "pairs")
		once := NewAccumulator()
		twice := NewAccumulator()
		for _, p := range pairs {
			once.Ingest(p.name, p.hex)
			twice.Ingest(p.name, p.hex)
			twice.Ingest(p.name, p.hex)
		}
		if once.Model() != twice.Model() {
			rt.Fatalf("double ingest changed the model")
		}
	})
}

func TestAccumulatorHexInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		acc := NewAccumulator()
		for _, p := range genPairs().Draw(rt, "pairs") {
			acc.Ingest(p.name, p.hex)
		}
		for _, hex := range acc.Model().Hexes() {
			if !IsHex(hex) {
				rt.Fatalf("stored value %q is not #RRGGBB", hex)
			}
		}
	})
}

func TestAccumulatorErrorFallbackOrderIndependent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pairs := genPairs().Draw(rt, "pairs")
		openHex := genHex().Draw(rt, "open")

		var withoutError []pair
		for _, p := range pairs {
			if parsed, ok := ParseName(p.name); ok && (parsed.Role == RoleError || parsed.Role == RoleOpen) {
				continue
			}
			withoutError = append(withoutError, p)
		}

		openFirst := NewAccumulator()
		openFirst.Ingest("status/open/default", openHex)
		for _, p := range withoutError {
			openFirst.Ingest(p.name, p.hex)
		}

		openLast := NewAccumulator()
		for _, p := range withoutError {
			openLast.Ingest(p.name, p.hex)
		}
		openLast.Ingest("status/open/default", openHex)

		if got := openLast.Model().Status.Error.Default(); got != openHex {
			rt.Fatalf("error.default = %q, want %q", got, openHex)
		}
		if openFirst.Model() != openLast.Model() {
			rt.Fatalf("model depends on open ordering")
		}
	})
}
