package extract

import "strings"

// StringTable holds STRING variables by name. Lookups ignore case and
// surrounding space. The first mode's value is the primary one.
type StringTable struct {
	order   []string
	entries map[string]*stringEntry
}

type stringEntry struct {
	name   string
	value  string
	byMode map[string]string
}

func newStringTable() *StringTable {
	return &StringTable{entries: make(map[string]*stringEntry)}
}

// NewStringTable builds a table of single-mode values, mostly for callers
// that have no document.
func NewStringTable(values map[string]string) *StringTable {
	t := newStringTable()
	for k, v := range values {
		t.set(k, "", v, true)
	}
	return t
}

func tableKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t *StringTable) set(name, mode, value string, first bool) {
	key := tableKey(name)
	e, ok := t.entries[key]
	if !ok {
		e = &stringEntry{name: name, byMode: make(map[string]string)}
		t.entries[key] = e
		t.order = append(t.order, key)
	}
	if mode != "" {
		e.byMode[tableKey(mode)] = value
	}
	if first {
		e.value = value
	}
}

// Get returns the first-mode value of name.
func (t *StringTable) Get(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	e, ok := t.entries[tableKey(name)]
	if !ok {
		return "", false
	}
	return e.value, true
}

// ForMode returns the value of name in the mode called mode.
func (t *StringTable) ForMode(name, mode string) (string, bool) {
	if t == nil {
		return "", false
	}
	e, ok := t.entries[tableKey(name)]
	if !ok {
		return "", false
	}
	v, ok := e.byMode[tableKey(mode)]
	return v, ok
}

// Names lists variable names in the order they were first seen.
func (t *StringTable) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.entries[key].name)
	}
	return out
}

func (t *StringTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
