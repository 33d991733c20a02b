package commands

import (
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
)

func additemCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "additem",
		Usage: "additem <x> <y> <z> <value> [count=1] [<vx> <vy> <vz>]",
		Help:  "drop items into the world, optionally thrown with a velocity",
		Operation: func(inv *dispatch.Invocation) error {
			at, err := inv.NextVector()
			if err != nil {
				return err
			}
			value, err := inv.NextInt()
			if err != nil {
				return err
			}
			count, err := inv.NextIntOr(1)
			if err != nil {
				return err
			}

			var velocity *geom.Vector3
			if inv.HasNext() {
				v, err := inv.NextVector()
				if err != nil {
					return err
				}
				velocity = &v
			}

			return e.Host.Apply(world.AddItem{At: at, Value: value, Count: count, Velocity: velocity})
		},
		Shape: func(c *suggest.Cursor) {
			c.Vector().Int().Int().Vector()
		},
	}
}

func giveCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "give",
		Usage: "give <player|selector> <value> [count=1]",
		Help:  "put items in players' inventories",
		Operation: func(inv *dispatch.Invocation) error {
			players, err := e.selectPlayers(inv)
			if err != nil {
				return err
			}
			value, err := inv.NextInt()
			if err != nil {
				return err
			}
			count, err := inv.NextIntOr(1)
			if err != nil {
				return err
			}

			return e.applyEach(players, func(a world.Agent) world.Action {
				return world.Give{To: a, Value: value, Count: count}
			})
		},
		Shape: func(c *suggest.Cursor) {
			c.Target(world.PlayerNames(e.Host)).Int().Int()
		},
	}
}
