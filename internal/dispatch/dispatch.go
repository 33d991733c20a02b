// Package dispatch holds the table of known commands. It runs command lines
// against that table and completes partially typed ones.
package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/dekarrin/cmdblock/internal/suggest"
)

// DefaultMaxDepth is how deeply commands may run other commands when Options
// does not say otherwise.
const DefaultMaxDepth = 32

var (
	// ErrCommandNotFound is the error reported for a line whose first token
	// is not a registered command.
	ErrCommandNotFound = errors.New("command not found")

	// ErrRecursionLimit is the error reported when commands that run other
	// commands nest deeper than the configured maximum.
	ErrRecursionLimit = errors.New("commands are nested too deeply")
)

// Operation performs a command. It reads its arguments from the Invocation
// in the same order its Shape declares them.
type Operation func(inv *Invocation) error

// Shape declares the arguments of a command on a completion cursor.
type Shape func(c *suggest.Cursor)

// Descriptor is everything the registry knows about one command.
type Descriptor struct {
	// Name is what the user types to run the command.
	Name string

	// Aliases are alternate names. They run the same command but are not
	// listed in usages or offered as completions.
	Aliases []string

	// Usage is shown to users who ask how to run the command.
	Usage string

	// Help is a one-line summary of what the command does.
	Help string

	Operation Operation
	Shape     Shape
}

// Usages is a read-only snapshot of every command's usage text.
type Usages struct {
	names []string
	usage map[string]string
	help  map[string]string
}

// Names returns every command name in alphabetical order.
func (u Usages) Names() []string {
	names := make([]string, len(u.names))
	copy(names, u.names)
	return names
}

// Get returns the usage of the named command.
func (u Usages) Get(name string) (string, bool) {
	usage, ok := u.usage[name]
	return usage, ok
}

// Help returns the one-line summary of the named command.
func (u Usages) Help(name string) string {
	return u.help[name]
}

// Len returns the number of commands.
func (u Usages) Len() int {
	return len(u.names)
}

// Options returns each command as a completion option described by its
// usage.
func (u Usages) Options() []suggest.Option {
	opts := make([]suggest.Option, len(u.names))
	for i, n := range u.names {
		opts[i] = suggest.Option{Value: n, Description: u.usage[n]}
	}
	return opts
}

// Builder collects Descriptors before they are frozen into a Registry.
type Builder struct {
	cmds    map[string]Descriptor
	aliases map[string]string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		cmds:    map[string]Descriptor{},
		aliases: map[string]string{},
	}
}

// Register adds a command. It is an error to register a name or alias that is
// already taken or to leave out the Operation or Shape.
func (b *Builder) Register(d Descriptor) error {
	if err := validName(d.Name); err != nil {
		return err
	}
	if d.Operation == nil {
		return fmt.Errorf("command %q: no operation", d.Name)
	}
	if d.Shape == nil {
		return fmt.Errorf("command %q: no shape", d.Name)
	}
	if b.taken(d.Name) {
		return fmt.Errorf("command %q: name already registered", d.Name)
	}
	for _, a := range d.Aliases {
		if err := validName(a); err != nil {
			return fmt.Errorf("command %q: alias: %w", d.Name, err)
		}
		if b.taken(a) || a == d.Name {
			return fmt.Errorf("command %q: alias %q already registered", d.Name, a)
		}
	}

	b.cmds[d.Name] = d
	for _, a := range d.Aliases {
		b.aliases[a] = d.Name
	}
	return nil
}

// MustRegister is Register but panics on error.
func (b *Builder) MustRegister(d Descriptor) {
	if err := b.Register(d); err != nil {
		panic(err.Error())
	}
}

func (b *Builder) taken(name string) bool {
	_, isCmd := b.cmds[name]
	_, isAlias := b.aliases[name]
	return isCmd || isAlias
}

func validName(name string) error {
	if name == "" {
		return errors.New("command name is empty")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 || strings.ContainsAny(name, `"\`) {
		return fmt.Errorf("command name %q contains whitespace, quotes, or backslashes", name)
	}
	return nil
}

// Build freezes the registered commands into a Registry. The Builder may
// keep being used afterwards without affecting the Registry.
func (b *Builder) Build(opts Options) *Registry {
	reg := &Registry{
		cmds:    make(map[string]Descriptor, len(b.cmds)),
		aliases: make(map[string]string, len(b.aliases)),
		opts:    opts.withDefaults(),
	}

	usages := Usages{
		usage: make(map[string]string, len(b.cmds)),
		help:  make(map[string]string, len(b.cmds)),
	}
	for name, d := range b.cmds {
		d.Aliases = append([]string(nil), d.Aliases...)
		reg.cmds[name] = d
		usages.names = append(usages.names, name)
		usages.usage[name] = d.Usage
		usages.help[name] = d.Help
	}
	sort.Strings(usages.names)
	for a, name := range b.aliases {
		reg.aliases[a] = name
	}
	reg.usages = usages

	return reg
}
