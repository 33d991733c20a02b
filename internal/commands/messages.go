package commands

import (
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
)

func msgCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "msg",
		Usage: "msg <player|selector> <text> [sound=true] [wrap=true]",
		Help:  "show a message to players",
		Operation: func(inv *dispatch.Invocation) error {
			players, err := e.selectPlayers(inv)
			if err != nil {
				return err
			}
			text, err := inv.NextString()
			if err != nil {
				return err
			}
			sound, err := inv.NextBoolOr(true)
			if err != nil {
				return err
			}
			wrap, err := inv.NextBoolOr(true)
			if err != nil {
				return err
			}

			return e.applyEach(players, func(a world.Agent) world.Action {
				return world.ShowMessage{To: a, Text: text, Sound: sound, Wrap: wrap}
			})
		},
		Shape: func(c *suggest.Cursor) {
			c.Target(world.PlayerNames(e.Host)).Text().Bool().Bool()
		},
	}
}

func msglCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "msgl",
		Usage: "msgl <player|selector> <title> <subtitle> [duration=5] [delay=0]",
		Help:  "show a large message across players' screens",
		Operation: func(inv *dispatch.Invocation) error {
			players, err := e.selectPlayers(inv)
			if err != nil {
				return err
			}
			title, err := inv.NextString()
			if err != nil {
				return err
			}
			subtitle, err := inv.NextString()
			if err != nil {
				return err
			}
			duration, err := inv.NextFloatOr(5)
			if err != nil {
				return err
			}
			delay, err := inv.NextFloatOr(0)
			if err != nil {
				return err
			}

			return e.applyEach(players, func(a world.Agent) world.Action {
				return world.ShowLargeMessage{To: a, Title: title, Subtitle: subtitle, Duration: duration, Delay: delay}
			})
		},
		Shape: func(c *suggest.Cursor) {
			c.Target(world.PlayerNames(e.Host)).Text().Text().Float().Float()
		},
	}
}
