package generate

import (
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	gocache "github.com/patrickmn/go-cache"

	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

type paletteColor struct {
	ident string
	color colorful.Color
}

// Namer maps hex colors to the closest named color. Lookups are memoized;
// a Namer is safe for concurrent use.
type Namer struct {
	palette []paletteColor
	cache   *gocache.Cache
}

func NewNamer() *Namer {
	palette := make([]paletteColor, 0, len(namedColors))
	for _, nc := range namedColors {
		c, err := colorful.Hex(nc.hex)
		if err != nil {
			panic("generate: bad palette entry " + nc.name)
		}
		palette = append(palette, paletteColor{ident: pascal(nc.name), color: c})
	}
	return &Namer{
		palette: palette,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

var defaultNamer = NewNamer()

// Nearest returns the PascalCase name of the palette color closest to hex
// in CIE Lab space, e.g. "DarkOrange". Unparseable input yields "Color".
func (n *Namer) Nearest(hex string) string {
	norm, ok := theme.NormalizeHex(hex)
	if !ok {
		return "Color"
	}
	if v, found := n.cache.Get(norm); found {
		if name, ok := v.(string); ok {
			return name
		}
	}

	target, _ := colorful.Hex(norm)
	best, bestDist := "", -1.0
	for _, p := range n.palette {
		d := target.DistanceLab(p.color)
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.ident, d
		}
	}
	n.cache.SetDefault(norm, best)
	return best
}

// ColorName derives the identifier a generated file uses for hex, e.g.
// ("#FF0000", "Acme") → "acmeRed".
func (n *Namer) ColorName(hex, brand string) string {
	return lowerFirst(pascal(brand)) + n.Nearest(hex)
}

// ColorName uses the package's shared Namer.
func ColorName(hex, brand string) string {
	return defaultNamer.ColorName(hex, brand)
}

// pascal joins the alphanumeric words of s, upper-casing each first
// letter. "dark sea green" → "DarkSeaGreen"; "acme-corp" → "AcmeCorp".
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToLower(rs[0])
	return string(rs)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
