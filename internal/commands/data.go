package commands

import (
	"fmt"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
)

func tableOptions[E world.Entry](t *world.Table[E]) []suggest.Option {
	names := t.Names()
	opts := make([]suggest.Option, len(names))
	for i, n := range names {
		typ, _ := t.TypeOf(n)
		opts[i] = suggest.Option{Value: n, Description: typ.String()}
	}
	return opts
}

// typedFromTable declares a value of the type of the table entry named by
// the last accepted token.
func typedFromTable[E world.Entry](t *world.Table[E]) func(c *suggest.Cursor) {
	return func(c *suggest.Cursor) {
		typ, _ := t.TypeOf(c.Last())
		c.Typed(typ)
	}
}

func setdataCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "setdata",
		Usage: "setdata <selector> <property> <value> [<selector> <property> <value>...]",
		Help:  "set properties of agents",
		Operation: func(inv *dispatch.Invocation) error {
			props := e.Host.Properties()
			for {
				targets, err := e.selectAgents(inv)
				if err != nil {
					return err
				}
				name, err := inv.NextString()
				if err != nil {
					return err
				}
				prop, ok := props.Lookup(name)
				if !ok {
					return &command.WrongArgumentTypeError{Token: name, Expected: "property"}
				}
				value, err := inv.NextTyped(prop.Type)
				if err != nil {
					return err
				}

				err = e.applyEach(targets, func(a world.Agent) world.Action {
					return world.SetProperty{Target: a, Property: prop.Name, Value: value}
				})
				if err != nil {
					return err
				}

				if !inv.HasNext() {
					return nil
				}
			}
		},
		Shape: func(c *suggest.Cursor) {
			props := e.Host.Properties()
			c.Repeat(func(c *suggest.Cursor) {
				c.Selector().EnumDescribed(tableOptions(props)).Then(typedFromTable(props))
			})
		},
	}
}

func gameinfoCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "gameinfo",
		Usage: "gameinfo <setting> [value]",
		Help:  "show or change a world setting",
		Operation: func(inv *dispatch.Invocation) error {
			settings := e.Host.Settings()
			name, err := inv.NextString()
			if err != nil {
				return err
			}
			setting, ok := settings.Lookup(name)
			if !ok {
				return &command.WrongArgumentTypeError{Token: name, Expected: "setting"}
			}

			if !inv.HasNext() {
				return e.tell(inv, fmt.Sprintf("%s is %v", setting.Name, setting.Get()))
			}

			value, err := inv.NextTyped(setting.Type)
			if err != nil {
				return err
			}
			return e.Host.Apply(world.SetSetting{Setting: setting.Name, Value: value})
		},
		Shape: func(c *suggest.Cursor) {
			settings := e.Host.Settings()
			c.EnumDescribed(tableOptions(settings)).Then(typedFromTable(settings))
		},
	}
}
