package commands

import (
	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
)

func executeCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "execute",
		Usage: "execute <selector> <command...>",
		Help:  "run a command as each selected agent, from its position",
		Operation: func(inv *dispatch.Invocation) error {
			agents, err := e.selectAgents(inv)
			if err != nil {
				return err
			}
			line, err := inv.RestTokens()
			if err != nil {
				return err
			}

			// each run reports its own failure
			for _, a := range agents {
				inv.Exec(command.AgentOrigin(a), line)
			}
			return nil
		},
		Shape: func(c *suggest.Cursor) {
			c.Selector().Nested(e.complete)
		},
	}
}

func triggerCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "trigger",
		Usage: "trigger <x> <y> <z>",
		Help:  "run the chain of command blocks starting at a block",
		Operation: func(inv *dispatch.Invocation) error {
			at, err := inv.NextPoint()
			if err != nil {
				return err
			}
			if e.Blocks == nil {
				return cberrors.Operationf("there are no command blocks in this world")
			}

			_, err = e.Blocks.Trigger(inv.Context(), at, inv.ExecLine)
			if err != nil {
				return cberrors.WrapOperationf(err, "cannot trigger %s: %s", at, err)
			}
			return nil
		},
		Shape: func(c *suggest.Cursor) {
			c.Point()
		},
	}
}
