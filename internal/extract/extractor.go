package extract

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

const defaultMaxAliasDepth = 16

// ColorEntry is one color value for one mode, kept alongside the theme
// for consumers that need the raw collection.
type ColorEntry struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	RGB        string  `json:"rgb"`
	RGBA       string  `json:"rgba"`
	Hex        string  `json:"hex"`
	Opacity    float64 `json:"opacity"`
	VariableID string  `json:"variableId"`
	Mode       string  `json:"mode"`
}

type CollectionInfo struct {
	Name          string   `json:"name"`
	Modes         []string `json:"modes"`
	VariableCount int      `json:"variableCount"`
}

type Result struct {
	Model       theme.Model      `json:"themeData"`
	Colors      []ColorEntry     `json:"colorCollection"`
	Strings     *StringTable     `json:"-"`
	Collections []CollectionInfo `json:"collections"`
	Applied     int              `json:"applied"`
	Skipped     int              `json:"skipped"`
}

type Extractor struct {
	logger        *slog.Logger
	maxAliasDepth int
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger, maxAliasDepth: defaultMaxAliasDepth}
}

// resolved is a color reduced to normalized channels.
type resolved struct {
	r, g, b, a float64
}

func (c resolved) hex() string {
	return theme.HexFromRGB(c.r, c.g, c.b)
}

// Extract walks the document's paint styles and then its collections in
// document order, ingesting the first mode's value of every color into
// acc. Values that are not colors are skipped without error.
func (e *Extractor) Extract(doc *Document, acc *theme.Accumulator) Result {
	x := &extraction{
		e:         e,
		acc:       acc,
		vars:      make(map[string]*Variable, len(doc.Variables)),
		firstMode: make(map[string]string),
		strings:   newStringTable(),
	}
	for i := range doc.Variables {
		v := &doc.Variables[i]
		x.vars[v.ID] = v
	}
	for _, c := range doc.Collections {
		if len(c.Modes) == 0 {
			continue
		}
		for _, id := range c.VariableIDs {
			if _, ok := x.firstMode[id]; !ok {
				x.firstMode[id] = c.Modes[0].ModeID
			}
		}
	}

	for _, s := range doc.PaintStyles {
		x.paintStyle(s)
	}

	var infos []CollectionInfo
	for _, c := range doc.Collections {
		infos = append(infos, x.collection(c))
	}

	applied, skipped := acc.Stats()
	e.logger.Debug("document extracted",
		"collections", len(doc.Collections),
		"paint_styles", len(doc.PaintStyles),
		"applied", applied,
		"skipped", skipped,
		"color_entries", len(x.colors),
	)
	return Result{
		Model:       acc.Model(),
		Colors:      x.colors,
		Strings:     x.strings,
		Collections: infos,
		Applied:     applied,
		Skipped:     skipped,
	}
}

type extraction struct {
	e         *Extractor
	acc       *theme.Accumulator
	vars      map[string]*Variable
	firstMode map[string]string
	colors    []ColorEntry
	strings   *StringTable
}

func (x *extraction) collection(c Collection) CollectionInfo {
	info := CollectionInfo{Name: c.Name, VariableCount: len(c.VariableIDs), Modes: make([]string, 0, len(c.Modes))}
	for _, m := range c.Modes {
		info.Modes = append(info.Modes, m.Name)
	}
	if len(c.Modes) == 0 {
		return info
	}
	first := c.Modes[0]

	for _, id := range c.VariableIDs {
		v, ok := x.vars[id]
		if !ok {
			x.e.logger.Debug("variable not found", "collection", c.Name, "variable_id", id)
			continue
		}
		switch v.ResolvedType {
		case TypeColor:
			if col, ok := x.resolveColor(v.ValuesByMode[first.ModeID]); ok {
				x.acc.Ingest(v.Name, col.hex())
			}
			for _, m := range c.Modes {
				if col, ok := x.resolveColor(v.ValuesByMode[m.ModeID]); ok {
					x.colors = append(x.colors, colorEntry(v.Name, v.ID, m.Name, col))
				}
			}
		case TypeString:
			for i, m := range c.Modes {
				s, ok := x.resolveString(v.ValuesByMode[m.ModeID])
				if !ok {
					continue
				}
				x.strings.set(v.Name, m.Name, s, i == 0)
			}
		}
	}
	return info
}

func (x *extraction) paintStyle(s PaintStyle) {
	for _, p := range s.Paints {
		if p.Type != "SOLID" {
			continue
		}
		var (
			col resolved
			ok  bool
		)
		if p.BoundVariables.Color != nil {
			col, ok = x.follow(p.BoundVariables.Color.ID, 0, nil)
		}
		if !ok && p.Color != nil {
			col, ok = resolved{r: p.Color.R, g: p.Color.G, b: p.Color.B, a: p.Color.Alpha()}, true
		}
		if !ok {
			continue
		}
		if p.Opacity != nil {
			col.a = *p.Opacity
		}
		x.acc.Ingest(s.Name, col.hex())
		x.colors = append(x.colors, colorEntry(s.Name, s.ID, "style", col))
		return
	}
}

func (x *extraction) resolveColor(v Value) (resolved, bool) {
	return x.resolveColorDepth(v, 0, nil)
}

func (x *extraction) resolveColorDepth(v Value, depth int, seen map[string]bool) (resolved, bool) {
	switch v.Kind {
	case KindColor:
		return resolved{r: v.Color.R, g: v.Color.G, b: v.Color.B, a: v.Color.Alpha()}, true
	case KindString:
		hex, ok := theme.NormalizeHex(v.String)
		if !ok {
			return resolved{}, false
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return resolved{}, false
		}
		return resolved{r: c.R, g: c.G, b: c.B, a: 1}, true
	case KindAlias:
		return x.follow(v.Alias, depth, seen)
	}
	return resolved{}, false
}

// follow resolves an alias to the target variable's first-mode value.
// Chains are followed up to maxAliasDepth; cycles resolve to nothing.
func (x *extraction) follow(id string, depth int, seen map[string]bool) (resolved, bool) {
	if depth >= x.e.maxAliasDepth || seen[id] {
		x.e.logger.Debug("alias chain abandoned", "variable_id", id, "depth", depth)
		return resolved{}, false
	}
	target, ok := x.vars[id]
	if !ok {
		return resolved{}, false
	}
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[id] = true
	return x.resolveColorDepth(x.firstValue(target), depth+1, seen)
}

func (x *extraction) resolveString(v Value) (string, bool) {
	seen := map[string]bool{}
	for depth := 0; depth < x.e.maxAliasDepth; depth++ {
		switch v.Kind {
		case KindString:
			return v.String, true
		case KindNumber:
			return strconv.FormatFloat(v.Number, 'f', -1, 64), true
		case KindBool:
			return strconv.FormatBool(v.Bool), true
		case KindAlias:
			target, ok := x.vars[v.Alias]
			if !ok || seen[v.Alias] {
				return "", false
			}
			seen[v.Alias] = true
			v = x.firstValue(target)
		default:
			return "", false
		}
	}
	return "", false
}

// firstValue returns a variable's value in the first mode of its
// collection. Variables outside every collection fall back to their
// lowest mode id.
func (x *extraction) firstValue(v *Variable) Value {
	if mode, ok := x.firstMode[v.ID]; ok {
		return v.ValuesByMode[mode]
	}
	if len(v.ValuesByMode) == 0 {
		return Value{}
	}
	keys := make([]string, 0, len(v.ValuesByMode))
	for k := range v.ValuesByMode {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return v.ValuesByMode[keys[0]]
}

func colorEntry(name, id, mode string, c resolved) ColorEntry {
	r, g, b := theme.RGB8(c.r, c.g, c.b)
	return ColorEntry{
		Type:       "SOLID",
		Name:       name,
		RGB:        fmt.Sprintf("rgb(%d, %d, %d)", r, g, b),
		RGBA:       fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(c.a, 'f', -1, 64)),
		Hex:        c.hex(),
		Opacity:    c.a,
		VariableID: id,
		Mode:       mode,
	}
}
