package theme

// Accumulator builds a Model from (name, hex) pairs. Create one per
// extraction pass; it is not safe for concurrent use.
type Accumulator struct {
	model   Model
	applied int
	skipped int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Reset empties every role.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Ingest classifies name and stores hex in the matching role and tint
// slot, replacing any earlier value for that slot. Names outside the
// taxonomy and values that are not colors are ignored; the result reports
// whether the pair was stored.
func (a *Accumulator) Ingest(name, hex string) bool {
	parsed, ok := ParseName(name)
	if !ok {
		a.skipped++
		return false
	}
	value, ok := NormalizeHex(hex)
	if !ok {
		a.skipped++
		return false
	}
	a.model.slot(parsed.Role).set(NormalizeVariant(parsed.Variant), value)
	a.applied++
	return true
}

// Stats reports how many pairs were stored and skipped since the last Reset.
func (a *Accumulator) Stats() (applied, skipped int) {
	return a.applied, a.skipped
}

// Model returns a snapshot of the theme. When no error status colors were
// ingested, the error role mirrors the open role. The rule is applied here
// rather than during Ingest so that input order does not matter.
func (a *Accumulator) Model() Model {
	m := a.model
	if m.Status.Error.Empty() {
		m.Status.Error = m.Status.Open
	}
	return m
}
