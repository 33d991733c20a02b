package commands

import (
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
)

func strikeCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "strike",
		Usage: "strike <x> <y> <z>",
		Help:  "call down lightning",
		Operation: func(inv *dispatch.Invocation) error {
			at, err := inv.NextVector()
			if err != nil {
				return err
			}
			return e.Host.Apply(world.Strike{At: at.Point()})
		},
		Shape: func(c *suggest.Cursor) {
			c.Vector()
		},
	}
}

func setblockCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "setblock",
		Usage: "setblock <x> <y> <z> <value>",
		Help:  "replace a block",
		Operation: func(inv *dispatch.Invocation) error {
			at, err := inv.NextPoint()
			if err != nil {
				return err
			}
			value, err := inv.NextInt()
			if err != nil {
				return err
			}
			return e.Host.Apply(world.SetBlock{At: at, Value: value})
		},
		Shape: func(c *suggest.Cursor) {
			c.Point().Int()
		},
	}
}

func placeblockCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "placeblock",
		Usage: "placeblock <x> <y> <z> <value> [sound=false] [drop=false]",
		Help:  "place a block as a player would, optionally dropping the old one",
		Operation: func(inv *dispatch.Invocation) error {
			at, err := inv.NextPoint()
			if err != nil {
				return err
			}
			value, err := inv.NextInt()
			if err != nil {
				return err
			}
			sound, err := inv.NextBoolOr(false)
			if err != nil {
				return err
			}
			drop, err := inv.NextBoolOr(false)
			if err != nil {
				return err
			}
			return e.Host.Apply(world.PlaceBlock{At: at, Value: value, Sound: sound, DropOld: drop})
		},
		Shape: func(c *suggest.Cursor) {
			c.Point().Int().Bool().Bool()
		},
	}
}

func fillCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "fill",
		Usage: "fill <x1> <y1> <z1> <x2> <y2> <z2> <value>",
		Help:  "set every block in a box, corners included",
		Operation: func(inv *dispatch.Invocation) error {
			from, err := inv.NextPoint()
			if err != nil {
				return err
			}
			to, err := inv.NextPoint()
			if err != nil {
				return err
			}
			value, err := inv.NextInt()
			if err != nil {
				return err
			}
			return e.Host.Apply(world.Fill{Region: geom.BoxOf(from, to), Value: value})
		},
		Shape: func(c *suggest.Cursor) {
			c.Point().Point().Int()
		},
	}
}

func timeCommand(e *Env) dispatch.Descriptor {
	const usage = "time add|set <fraction of day>"

	return dispatch.Descriptor{
		Name:  "time",
		Usage: usage,
		Help:  "change the time of day, where 0 is midnight and 0.5 is noon",
		Operation: func(inv *dispatch.Invocation) error {
			mode, err := inv.NextString()
			if err != nil {
				return err
			}
			if mode != "add" && mode != "set" {
				return usageError(mode, usage)
			}
			amount, err := inv.NextFloat()
			if err != nil {
				return err
			}

			if mode == "add" {
				return e.Host.Apply(world.AddTime{Delta: amount})
			}
			return e.Host.Apply(world.SetTime{Of: amount})
		},
		Shape: func(c *suggest.Cursor) {
			c.Enum("add", "set").Float()
		},
	}
}
