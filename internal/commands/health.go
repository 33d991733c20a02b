package commands

import (
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
)

const defaultReason = "magic"

func killCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "kill",
		Usage: "kill <selector> [reason=magic]",
		Help:  "kill agents outright",
		Operation: func(inv *dispatch.Invocation) error {
			targets, err := e.selectAgents(inv)
			if err != nil {
				return err
			}
			reason := inv.NextStringOr(defaultReason)

			return e.applyEach(targets, func(a world.Agent) world.Action {
				return world.Kill{Target: a, Reason: reason}
			})
		},
		Shape: func(c *suggest.Cursor) {
			c.Selector().Text()
		},
	}
}

func healthCommand(e *Env) dispatch.Descriptor {
	const usage = "health heal|injure [amount=1] [reason=magic]"

	return dispatch.Descriptor{
		Name:  "health",
		Usage: usage,
		Help:  "heal or injure the creature running the command by a fraction of its maximum health",
		Operation: func(inv *dispatch.Invocation) error {
			mode, err := inv.NextString()
			if err != nil {
				return err
			}

			var act func(a world.Agent) (world.Action, error)
			switch mode {
			case "heal":
				act = func(a world.Agent) (world.Action, error) {
					amount, err := inv.NextFloatOr(1)
					return world.Heal{Target: a, Amount: amount}, err
				}
			case "injure":
				act = func(a world.Agent) (world.Action, error) {
					amount, err := inv.NextFloatOr(1)
					if err != nil {
						return nil, err
					}
					return world.Injure{Target: a, Amount: amount, Reason: inv.NextStringOr(defaultReason)}, nil
				}
			default:
				return usageError(mode, usage)
			}

			self, err := e.executor(inv)
			if err != nil {
				return err
			}
			a, err := act(self)
			if err != nil {
				return err
			}
			return e.Host.Apply(a)
		},
		Shape: func(c *suggest.Cursor) {
			c.Enum("heal", "injure").Then(func(c *suggest.Cursor) {
				injure := c.Last() == "injure"
				c.Float()
				if injure {
					c.Text()
				}
			})
		},
	}
}
