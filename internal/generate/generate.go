// Package generate renders a theme model into the source files and
// configuration a white-label build consumes. Every generator is a pure
// function of its inputs and tolerates empty roles.
package generate

import (
	"fmt"
	"strings"

	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

const DefaultNeutralColorVar = "neutralGray"

var DefaultLanguages = []string{"en", "nl"}

// Strings looks up text variables exported with the theme.
type Strings interface {
	Get(name string) (string, bool)
	ForMode(name, mode string) (string, bool)
}

type Options struct {
	// NeutralColorVar is the style variable the email theme uses for the
	// neutral and closed roles.
	NeutralColorVar string
	Languages       []string
	Namer           *Namer
}

type Generator struct {
	opts Options
}

func New(opts Options) *Generator {
	if strings.TrimSpace(opts.NeutralColorVar) == "" {
		opts.NeutralColorVar = DefaultNeutralColorVar
	}
	opts.NeutralColorVar = strings.TrimPrefix(opts.NeutralColorVar, "$")
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages
	}
	if opts.Namer == nil {
		opts.Namer = defaultNamer
	}
	return &Generator{opts: opts}
}

// Ident turns a white-label name into the identifier used for exports and
// file names: "Acme Corp" → "acmeCorp".
func Ident(brand string) string {
	return lowerFirst(pascal(brand))
}

// Artifacts is the full generated output for one white label.
type Artifacts struct {
	TypeScript string `json:"typescript"`
	Colors     string `json:"scss"`
	Theme      string `json:"scssTheme"`
	Email      string `json:"scssEmail"`
	AppConfig  string `json:"appConfig"`
}

type File struct {
	Path    string
	Content []byte
}

// Files lays the theme sources out the way the app repository expects.
func (a Artifacts) Files(brand string) []File {
	id := Ident(brand)
	return []File{
		{Path: "themes/" + id + ".brand.ts", Content: []byte(a.TypeScript)},
		{Path: "themes/" + id + ".colors.scss", Content: []byte(a.Colors)},
		{Path: "themes/" + id + ".scss", Content: []byte(a.Theme)},
		{Path: "themes/" + id + "-email.scss", Content: []byte(a.Email)},
	}
}

// AppConfigPath is where the app config of brand is written.
func AppConfigPath(brand string) string {
	return "config/" + Ident(brand) + ".json"
}

// All runs every generator.
func (g *Generator) All(m theme.Model, brand string, strs Strings) (Artifacts, error) {
	cfg, err := g.AppConfig(m, strs)
	if err != nil {
		return Artifacts{}, err
	}
	return Artifacts{
		TypeScript: g.TypeScript(m, brand),
		Colors:     g.Colors(m, brand),
		Theme:      g.ThemeMap(m, brand),
		Email:      g.EmailTheme(m, brand),
		AppConfig:  string(cfg),
	}, nil
}

// paletteRoles are the roles that get their own color definitions.
// Neutral and closed reuse a shared gray.
var paletteRoles = []theme.Role{
	theme.RolePrimary, theme.RoleAccent,
	theme.RolePositive, theme.RoleWarning, theme.RoleNegative,
	theme.RoleOpen, theme.RoleDone, theme.RoleProgress, theme.RoleError,
}

type namedRole struct {
	role  theme.Role
	name  string
	tints theme.TintMap
}

// defined returns the palette roles that have a default tint, paired with
// their derived color name.
func (g *Generator) defined(m theme.Model, brand string) []namedRole {
	var out []namedRole
	for _, r := range paletteRoles {
		tm := m.Role(r)
		if tm.Default() == "" {
			continue
		}
		out = append(out, namedRole{role: r, name: g.opts.Namer.ColorName(tm.Default(), brand), tints: tm})
	}
	return out
}

// themeRef returns the variable a role points at, falling back to open for
// error. Missing roles render as SCSS null.
func (g *Generator) themeRef(m theme.Model, r theme.Role, brand string) string {
	hex := m.Role(r).Default()
	if hex == "" && r == theme.RoleError {
		hex = m.Status.Open.Default()
	}
	if hex == "" {
		return "null"
	}
	return "$" + g.opts.Namer.ColorName(hex, brand)
}

// Colors renders the color maps file: one SCSS map per distinct color.
func (g *Generator) Colors(m theme.Model, brand string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s Theme Colors\n", brand)
	seen := make(map[string]bool)
	for _, nr := range g.defined(m, brand) {
		if seen[nr.name] {
			continue
		}
		seen[nr.name] = true
		entries := nr.tints.Entries()
		fmt.Fprintf(&b, "\n$%s: (\n", nr.name)
		for i, e := range entries {
			sep := ","
			if i == len(entries)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  '%s': %s%s\n", e.Tint, e.Hex, sep)
		}
		b.WriteString(");\n")
	}
	return b.String()
}

const themeImports = `@import '../../patterns/common/colors';
@import '../../patterns/common/theme-variables';
@import 'colors';
`

func (g *Generator) writeThemeColors(b *strings.Builder, m theme.Model, brand string, neutral string) {
	type line struct{ key, ref string }
	var lines []line
	for _, r := range theme.Roles() {
		switch r {
		case theme.RoleNeutral, theme.RoleClosed:
			if neutral == "" {
				continue
			}
			lines = append(lines, line{r.String(), "$" + neutral})
		default:
			lines = append(lines, line{r.String(), g.themeRef(m, r, brand)})
		}
	}
	b.WriteString("\n$theme-colors: (\n")
	for i, l := range lines {
		sep := ","
		if i == len(lines)-1 {
			sep = ""
		}
		fmt.Fprintf(b, "  '%s': %s%s\n", l.key, l.ref, sep)
	}
	b.WriteString(");\n")
}

// ThemeMap renders the theme entry point mapping each role to its color.
func (g *Generator) ThemeMap(m theme.Model, brand string) string {
	var b strings.Builder
	b.WriteString(themeImports)
	g.writeThemeColors(&b, m, brand, "")
	b.WriteString("\n@include setCssVariables();\n")
	return b.String()
}

// EmailTheme renders the email stylesheet entry point.
func (g *Generator) EmailTheme(m theme.Model, brand string) string {
	var b strings.Builder
	b.WriteString(themeImports)
	g.writeThemeColors(&b, m, brand, g.opts.NeutralColorVar)
	b.WriteString("\n$color-email-accent: themeColor('accent', 'default');\n")
	b.WriteString("$color-email-primary: themeColor('primary', 'default');\n")
	b.WriteString("\n@import '../../email/email';\n")
	return b.String()
}

// TypeScript renders the typed theme module.
func (g *Generator) TypeScript(m theme.Model, brand string) string {
	id := Ident(brand)
	var exports, assigns strings.Builder
	seen := make(map[string]bool)
	for _, nr := range g.defined(m, brand) {
		fmt.Fprintf(&assigns, "  themeVariables.colors.%s = %s;\n", nr.role, nr.name)
		if seen[nr.name] {
			continue
		}
		seen[nr.name] = true
		entries := nr.tints.Entries()
		fmt.Fprintf(&exports, "\nexport const %s = {\n", nr.name)
		for i, e := range entries {
			sep := ","
			if i == len(entries)-1 {
				sep = ""
			}
			fmt.Fprintf(&exports, "  %s: \"%s\"%s\n", e.Tint, e.Hex, sep)
		}
		exports.WriteString("};\n")
	}

	var b strings.Builder
	b.WriteString("import { Theme } from '@emotion/react';\n")
	b.WriteString(exports.String())
	fmt.Fprintf(&b, "\nexport function %sTheme(themeVariables: Theme): Theme {\n", id)
	b.WriteString(assigns.String())
	b.WriteString("\n  return themeVariables;\n}\n")
	fmt.Fprintf(&b, "\nexport default %sTheme;\n", id)
	return b.String()
}
