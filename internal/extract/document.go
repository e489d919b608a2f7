// Package extract reads an exported design-tool document and feeds its
// color variables into a theme accumulator.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown document format")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Document mirrors the design tool's local variables and styles.
type Document struct {
	Collections []Collection `json:"collections"`
	Variables   []Variable   `json:"variables"`
	PaintStyles []PaintStyle `json:"paintStyles"`
}

type Mode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Modes       []Mode   `json:"modes"`
	VariableIDs []string `json:"variableIds"`
}

const (
	TypeColor   = "COLOR"
	TypeString  = "STRING"
	TypeFloat   = "FLOAT"
	TypeBoolean = "BOOLEAN"
)

type Variable struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	ResolvedType string           `json:"resolvedType"`
	ValuesByMode map[string]Value `json:"valuesByMode"`
}

type PaintStyle struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Paints []Paint `json:"paints"`
}

type Paint struct {
	Type           string         `json:"type"`
	Color          *RGBA          `json:"color,omitempty"`
	Opacity        *float64       `json:"opacity,omitempty"`
	BoundVariables BoundVariables `json:"boundVariables"`
}

type BoundVariables struct {
	Color *Alias `json:"color,omitempty"`
}

// RGBA holds normalized 0..1 channels. A nil A means fully opaque.
type RGBA struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

func (c RGBA) Alpha() float64 {
	if c.A == nil {
		return 1
	}
	return *c.A
}

type Alias struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ValueKind int

const (
	KindNull ValueKind = iota
	KindColor
	KindAlias
	KindString
	KindNumber
	KindBool
)

// Value is one per-mode variable value. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind   ValueKind
	Color  RGBA
	Alias  string
	String string
	Number float64
	Bool   bool
}

func ColorValue(r, g, b float64) Value {
	return Value{Kind: KindColor, Color: RGBA{R: r, G: g, B: b}}
}

func AliasValue(id string) Value {
	return Value{Kind: KindAlias, Alias: id}
}

func StringValue(s string) Value {
	return Value{Kind: KindString, String: s}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*v = Value{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		v.Kind = KindString
		return json.Unmarshal(b, &v.String)
	case 't', 'f':
		v.Kind = KindBool
		return json.Unmarshal(b, &v.Bool)
	case '{':
		var probe struct {
			Type string   `json:"type"`
			ID   string   `json:"id"`
			R    *float64 `json:"r"`
			G    *float64 `json:"g"`
			B    *float64 `json:"b"`
			A    *float64 `json:"a"`
		}
		if err := json.Unmarshal(b, &probe); err != nil {
			return err
		}
		if probe.Type == "VARIABLE_ALIAS" {
			v.Kind = KindAlias
			v.Alias = probe.ID
			return nil
		}
		if probe.R != nil && probe.G != nil && probe.B != nil {
			v.Kind = KindColor
			v.Color = RGBA{R: *probe.R, G: *probe.G, B: *probe.B, A: probe.A}
			return nil
		}
		return fmt.Errorf("unrecognised value object %s", b)
	default:
		v.Kind = KindNumber
		return json.Unmarshal(b, &v.Number)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindColor:
		return json.Marshal(v.Color)
	case KindAlias:
		return json.Marshal(Alias{Type: "VARIABLE_ALIAS", ID: v.Alias})
	case KindString:
		return json.Marshal(v.String)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

// Load reads a document from disk, choosing the decoder by extension.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a JSON or YAML document. YAML is converted to the JSON
// shape first so both formats share one set of struct tags.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		converted, err := json.Marshal(stringKeys(raw))
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &doc, nil
}

// stringKeys rewrites map[any]any nodes, which yaml produces for
// non-string keys such as numeric mode ids, into JSON-encodable maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	}
	return v
}
