// Package theme holds the brand theme taxonomy and the pipeline that
// classifies design-tool color names into it.
package theme

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Category int

const (
	CategoryPrimary Category = iota
	CategoryAccent
	CategorySemantic
	CategoryStatus
)

func (c Category) String() string {
	switch c {
	case CategoryPrimary:
		return "primary"
	case CategoryAccent:
		return "accent"
	case CategorySemantic:
		return "semantic"
	case CategoryStatus:
		return "status"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Role is one semantic purpose a color serves in the theme. The set is
// closed: adding a role means adding a field to Model.
type Role int

const (
	RolePrimary Role = iota
	RoleAccent
	RolePositive
	RoleWarning
	RoleNegative
	RoleNeutral
	RoleOpen
	RoleDone
	RoleProgress
	RoleClosed
	RoleError
)

var roleNames = [...]string{
	RolePrimary:  "primary",
	RoleAccent:   "accent",
	RolePositive: "positive",
	RoleWarning:  "warning",
	RoleNegative: "negative",
	RoleNeutral:  "neutral",
	RoleOpen:     "open",
	RoleDone:     "done",
	RoleProgress: "progress",
	RoleClosed:   "closed",
	RoleError:    "error",
}

// Roles lists every role in taxonomy order.
func Roles() []Role {
	return []Role{
		RolePrimary, RoleAccent,
		RolePositive, RoleWarning, RoleNegative, RoleNeutral,
		RoleOpen, RoleDone, RoleProgress, RoleClosed, RoleError,
	}
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Category reports the group a role nests under.
func (r Role) Category() Category {
	switch r {
	case RolePrimary:
		return CategoryPrimary
	case RoleAccent:
		return CategoryAccent
	case RolePositive, RoleWarning, RoleNegative, RoleNeutral:
		return CategorySemantic
	case RoleOpen, RoleDone, RoleProgress, RoleClosed, RoleError:
		return CategoryStatus
	}
	panic(fmt.Sprintf("theme: unknown role %d", int(r)))
}

// RoleByName looks up a role by its lower-case name.
func RoleByName(name string) (Role, bool) {
	for i, n := range roleNames {
		if n == name {
			return Role(i), true
		}
	}
	return 0, false
}

// Tint is one of the five intensity steps within a role.
type Tint int

const (
	TintLighter Tint = iota
	TintLight
	TintDefault
	TintDark
	TintDarker

	tintCount = 5
)

var tintNames = [tintCount]string{"lighter", "light", "default", "dark", "darker"}

// Tints lists the slots from lightest to darkest.
func Tints() []Tint {
	return []Tint{TintLighter, TintLight, TintDefault, TintDark, TintDarker}
}

func (t Tint) String() string {
	if t < 0 || t >= tintCount {
		return fmt.Sprintf("Tint(%d)", int(t))
	}
	return tintNames[t]
}

// TintMap maps tint slots to #RRGGBB hex strings. The zero value is empty.
type TintMap struct {
	slots [tintCount]string
}

func (m TintMap) Get(t Tint) (string, bool) {
	if t < 0 || t >= tintCount {
		return "", false
	}
	v := m.slots[t]
	return v, v != ""
}

// Default returns the representative color of the role, or "".
func (m TintMap) Default() string {
	return m.slots[TintDefault]
}

func (m *TintMap) set(t Tint, hex string) {
	m.slots[t] = hex
}

func (m TintMap) Len() int {
	n := 0
	for _, v := range m.slots {
		if v != "" {
			n++
		}
	}
	return n
}

func (m TintMap) Empty() bool {
	return m.Len() == 0
}

// Entry is one populated slot of a TintMap.
type Entry struct {
	Tint Tint
	Hex  string
}

// Entries returns the populated slots in lighter→darker order.
func (m TintMap) Entries() []Entry {
	out := make([]Entry, 0, tintCount)
	for i, v := range m.slots {
		if v != "" {
			out = append(out, Entry{Tint: Tint(i), Hex: v})
		}
	}
	return out
}

func (m TintMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%q", e.Tint.String(), e.Hex)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *TintMap) UnmarshalJSON(b []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = TintMap{}
	for i, name := range tintNames {
		v, ok := raw[name]
		if !ok {
			continue
		}
		hex, ok := NormalizeHex(v)
		if !ok {
			return fmt.Errorf("tint %s: invalid color %q", name, v)
		}
		m.slots[i] = hex
	}
	return nil
}

type Semantic struct {
	Positive TintMap `json:"positive"`
	Warning  TintMap `json:"warning"`
	Negative TintMap `json:"negative"`
	Neutral  TintMap `json:"neutral"`
}

type Status struct {
	Open     TintMap `json:"open"`
	Done     TintMap `json:"done"`
	Progress TintMap `json:"progress"`
	Closed   TintMap `json:"closed"`
	Error    TintMap `json:"error"`
}

// Model is the fully populated role → tint → hex structure consumed by the
// output generators. It is a plain value; copies do not share state.
type Model struct {
	Primary  TintMap  `json:"primary"`
	Accent   TintMap  `json:"accent"`
	Semantic Semantic `json:"semantic"`
	Status   Status   `json:"status"`
}

// Role returns the tint map held for r.
func (m Model) Role(r Role) TintMap {
	return *m.slot(r)
}

func (m *Model) slot(r Role) *TintMap {
	switch r {
	case RolePrimary:
		return &m.Primary
	case RoleAccent:
		return &m.Accent
	case RolePositive:
		return &m.Semantic.Positive
	case RoleWarning:
		return &m.Semantic.Warning
	case RoleNegative:
		return &m.Semantic.Negative
	case RoleNeutral:
		return &m.Semantic.Neutral
	case RoleOpen:
		return &m.Status.Open
	case RoleDone:
		return &m.Status.Done
	case RoleProgress:
		return &m.Status.Progress
	case RoleClosed:
		return &m.Status.Closed
	case RoleError:
		return &m.Status.Error
	}
	panic(fmt.Sprintf("theme: unknown role %d", int(r)))
}

// Hexes returns every stored color in taxonomy order.
func (m Model) Hexes() []string {
	var out []string
	for _, r := range Roles() {
		for _, e := range m.Role(r).Entries() {
			out = append(out, e.Hex)
		}
	}
	return out
}
