package commands

import (
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
	"golang.org/x/text/cases"
)

func templateOptions(h world.Host) []suggest.Option {
	ts := h.Templates()
	opts := make([]suggest.Option, len(ts))
	for i, t := range ts {
		opts[i] = suggest.Option{Value: t.Name, Description: t.Display}
	}
	return opts
}

// findTemplate looks up a template by name without regard to case.
func findTemplate(h world.Host, name string) (world.Template, bool) {
	fold := cases.Fold()
	want := fold.String(name)
	for _, t := range h.Templates() {
		if fold.String(t.Name) == want {
			return t, true
		}
	}
	return world.Template{}, false
}

func summonCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "summon",
		Usage: "summon <creature> <x> <y> <z> [rotation=0]",
		Help:  "create a creature",
		Operation: func(inv *dispatch.Invocation) error {
			name, err := inv.NextString()
			if err != nil {
				return err
			}
			t, ok := findTemplate(e.Host, name)
			if !ok {
				return &command.WrongArgumentTypeError{Token: name, Expected: "creature"}
			}
			at, err := inv.NextVector()
			if err != nil {
				return err
			}
			rotation, err := inv.NextFloatOr(0)
			if err != nil {
				return err
			}
			return e.Host.Apply(world.Summon{Template: t.Name, At: at, Rotation: rotation})
		},
		Shape: func(c *suggest.Cursor) {
			c.EnumDescribed(templateOptions(e.Host)).Vector().Float()
		},
	}
}

func tpCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "tp",
		Usage: "tp <x> <y> <z>",
		Help:  "move the creature running the command",
		Operation: func(inv *dispatch.Invocation) error {
			to, err := inv.NextVector()
			if err != nil {
				return err
			}
			self, err := e.executor(inv)
			if err != nil {
				return err
			}
			return e.Host.Apply(world.Teleport{Target: self, To: to})
		},
		Shape: func(c *suggest.Cursor) {
			c.Vector()
		},
	}
}
