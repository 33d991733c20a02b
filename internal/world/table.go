package world

import (
	"fmt"
	"sort"

	"github.com/dekarrin/cmdblock/internal/command"
)

// Property is an agent value that can be read and set by name.
type Property struct {
	Name string

	// Kind is the part of an agent the property belongs to, such as
	// "health" or "locomotion". Agents without that part cannot have the
	// property set.
	Kind string

	// Type is the type of argument the value is read as.
	Type command.TypeTag

	Get func(a Agent) (any, error)
	Set func(a Agent, v any) error
}

// Setting is a world value that can be read and set by name.
type Setting struct {
	Name string
	Type command.TypeTag
	Get  func() any
	Set  func(v any) error
}

func (p Property) entryName() string          { return p.Name }
func (p Property) entryType() command.TypeTag { return p.Type }
func (s Setting) entryName() string           { return s.Name }
func (s Setting) entryType() command.TypeTag  { return s.Type }

// Entry is a named, typed member of a Table.
type Entry interface {
	Property | Setting

	entryName() string
	entryType() command.TypeTag
}

// Table is a fixed set of entries looked up by name. It is built once and
// never changes.
type Table[E Entry] struct {
	entries map[string]E
	names   []string
}

// NewTable creates a Table from entries. Names must be unique and non-empty.
func NewTable[E Entry](entries ...E) (*Table[E], error) {
	t := &Table[E]{entries: make(map[string]E, len(entries))}
	for _, e := range entries {
		name := e.entryName()
		if name == "" {
			return nil, fmt.Errorf("entry with empty name")
		}
		if _, dup := t.entries[name]; dup {
			return nil, fmt.Errorf("duplicate entry %q", name)
		}
		t.entries[name] = e
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t, nil
}

// Lookup returns the entry with the given name.
func (t *Table[E]) Lookup(name string) (E, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// TypeOf returns the value type of the named entry.
func (t *Table[E]) TypeOf(name string) (command.TypeTag, bool) {
	e, ok := t.entries[name]
	if !ok {
		return command.TypeString, false
	}
	return e.entryType(), true
}

// Names returns the name of every entry in alphabetical order.
func (t *Table[E]) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}
