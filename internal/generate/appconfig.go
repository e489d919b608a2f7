package generate

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

// Text variable names read from the design document.
const (
	VarBrandID     = "Brand id"
	VarSubdomain   = "Subdomain"
	VarAppName     = "App name"
	VarBrandName   = "Brand name"
	VarSlogan      = "Slogan"
	VarProvider    = "Provider"
	VarGoogleDrive = "Google Drive"

	VarStoreName        = "App Store name"
	VarStoreDescription = "Store Description"
	VarStoreKeywords    = "Store keywords"
)

const defaultSplashColor = "#FFFFFF"

type AppConfig struct {
	App    AppMeta      `json:"app_config"`
	Store  StoreConfig  `json:"store_config"`
	Colors []NamedColor `json:"colors"`
	Theme  ThemeRefs    `json:"theme"`
}

type AppMeta struct {
	BrandID           string `json:"brand_id"`
	Subdomain         string `json:"subdomain"`
	AppName           string `json:"app_name"`
	BrandName         string `json:"brand_name"`
	Slogan            string `json:"slogan"`
	SplashScreenColor string `json:"splash_screen_color"`
	ProviderName      string `json:"provider_name"`
	GoogleDrive       string `json:"google_drive"`
}

type StoreConfig struct {
	StoreName   []Translation `json:"store_name"`
	Description []Translation `json:"description"`
	Keywords    []Translation `json:"keywords"`
}

type Translation struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type NamedColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// RoleRef lists, for one role, which app color each tint refers to.
type RoleRef struct {
	Role  string
	Tints []TintRef
}

type TintRef struct {
	Tint string
	Name string
}

// ThemeRefs encodes as an object keyed by role, in role order.
type ThemeRefs []RoleRef

func (t ThemeRefs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rr := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(rr.Role)
		buf.Write(key)
		buf.WriteString(":{")
		for j, tr := range rr.Tints {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(tr.Tint)
			v, _ := json.Marshal(tr.Name)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// appShade is the app palette step used for each tint.
var appShade = [...]string{
	theme.TintLighter: "50",
	theme.TintLight:   "100",
	theme.TintDefault: "200",
	theme.TintDark:    "300",
	theme.TintDarker:  "400",
}

// BuildAppConfig assembles the app configuration. strs may be nil.
func (g *Generator) BuildAppConfig(m theme.Model, strs Strings) AppConfig {
	get := func(name string) string {
		if strs == nil {
			return ""
		}
		v, _ := strs.Get(name)
		return v
	}

	splash := m.Primary.Default()
	if splash == "" {
		splash = defaultSplashColor
	}

	cfg := AppConfig{
		App: AppMeta{
			BrandID:           get(VarBrandID),
			Subdomain:         get(VarSubdomain),
			AppName:           get(VarAppName),
			BrandName:         get(VarBrandName),
			Slogan:            get(VarSlogan),
			SplashScreenColor: splash,
			ProviderName:      get(VarProvider),
			GoogleDrive:       get(VarGoogleDrive),
		},
		Store: StoreConfig{
			StoreName:   g.translations(strs, VarStoreName),
			Description: g.translations(strs, VarStoreDescription),
			Keywords:    g.translations(strs, VarStoreKeywords),
		},
		Colors: []NamedColor{},
	}

	for _, r := range paletteRoles {
		ref := RoleRef{Role: r.String()}
		for _, e := range m.Role(r).Entries() {
			name := r.String() + "_" + appShade[e.Tint]
			cfg.Colors = append(cfg.Colors, NamedColor{Name: name, Hex: e.Hex})
			ref.Tints = append(ref.Tints, TintRef{Tint: e.Tint.String(), Name: name})
		}
		cfg.Theme = append(cfg.Theme, ref)
	}
	return cfg
}

// AppConfig renders BuildAppConfig as indented JSON.
func (g *Generator) AppConfig(m theme.Model, strs Strings) ([]byte, error) {
	return json.MarshalIndent(g.BuildAppConfig(m, strs), "", "  ")
}

// translations resolves a store text for every configured language. A mode
// named after the language wins, then a "<name> <LANG>" variable, then the
// first language's value.
func (g *Generator) translations(strs Strings, name string) []Translation {
	out := make([]Translation, 0, len(g.opts.Languages))
	var base string
	for i, lang := range g.opts.Languages {
		v := lookupText(strs, name, lang, i == 0)
		if i == 0 {
			base = v
		} else if v == "" {
			v = base
		}
		out = append(out, Translation{Language: lang, Value: v})
	}
	return out
}

func lookupText(strs Strings, name, lang string, primary bool) string {
	if strs == nil {
		return ""
	}
	if v, ok := strs.ForMode(name, lang); ok && v != "" {
		return v
	}
	if primary {
		v, _ := strs.Get(name)
		return v
	}
	v, _ := strs.Get(name + " " + strings.ToUpper(lang))
	return v
}
