package curve

import "fmt"

// Curve is the capability contract an embedding environment must provide
// for one animation channel (one scalar degree of freedom). The analysis
// and blending code depends only on this interface, never on a concrete
// authoring-tool type.
type Curve interface {
	// ID identifies the curve for caching. No two curves share an ID.
	ID() string
	// Range returns the first and last integer frame of the valid domain.
	Range() (start, end int)
	// Evaluate returns the interpolated value at a (possibly fractional)
	// frame position inside the valid range.
	Evaluate(frame float64) (float64, error)
	// Upsert writes a value at a frame: an existing sample within
	// ±0.5 frames is overwritten, otherwise a new sample is inserted.
	Upsert(frame, value float64) error
}

// Group is an x/y/z triple of channels for one tracked point (typically a
// foot). Callers build groups themselves; the core does not discover
// bone or object topology.
type Group struct {
	X Curve
	Y Curve
	Z Curve // vertical axis
}

// Curves returns the group's channels in x, y, z order.
func (g Group) Curves() []Curve {
	return []Curve{g.X, g.Y, g.Z}
}

// Complete reports whether all three channels are present.
func (g Group) Complete() bool {
	return g.X != nil && g.Y != nil && g.Z != nil
}

// Key addresses one channel of one entity in a Table.
type Key struct {
	Entity  string // bone or object name
	Channel string // "location_x", "location_y", "location_z", ...
}

// Table is an explicit (entity, channel) -> Curve lookup built once by
// the caller. It replaces parsing identifiers out of data-path strings.
type Table struct {
	curves map[Key]Curve
	order  []Key
}

// NewTable creates an empty lookup table.
func NewTable() *Table {
	return &Table{curves: make(map[Key]Curve)}
}

// Put registers a curve under a key, replacing any previous entry.
func (t *Table) Put(key Key, c Curve) {
	if _, exists := t.curves[key]; !exists {
		t.order = append(t.order, key)
	}
	t.curves[key] = c
}

// Get returns the curve registered for a key.
func (t *Table) Get(key Key) (Curve, bool) {
	c, ok := t.curves[key]
	return c, ok
}

// Keys returns all keys in insertion order.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.order))
	copy(keys, t.order)
	return keys
}

// Len returns the number of registered curves.
func (t *Table) Len() int {
	return len(t.curves)
}

// GroupFor assembles the x/y/z triple for an entity from the standard
// location channels.
func (t *Table) GroupFor(entity string) (Group, error) {
	x, okX := t.Get(Key{Entity: entity, Channel: "location_x"})
	y, okY := t.Get(Key{Entity: entity, Channel: "location_y"})
	z, okZ := t.Get(Key{Entity: entity, Channel: "location_z"})

	if !okX || !okY || !okZ {
		return Group{}, fmt.Errorf("entity %q is missing location channels (x:%v y:%v z:%v)", entity, okX, okY, okZ)
	}

	return Group{X: x, Y: y, Z: z}, nil
}

// Entities returns the distinct entity names in insertion order.
func (t *Table) Entities() []string {
	seen := make(map[string]bool)
	entities := []string{}
	for _, key := range t.order {
		if !seen[key.Entity] {
			seen[key.Entity] = true
			entities = append(entities, key.Entity)
		}
	}
	return entities
}
