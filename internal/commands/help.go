package commands

import (
	"fmt"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/rosed"
)

// HelpText returns a table of every command and what it does.
func HelpText(u dispatch.Usages, width int) string {
	names := u.Names()
	defs := make([][2]string, len(names))
	for i, n := range names {
		defs[i] = [2]string{n, u.Help(n)}
	}

	return rosed.Edit("").
		WithOptions(rosed.Options{ParagraphSeparator: "\n", NoTrailingLineSeparators: true}).
		Insert(rosed.End, "Here are the commands you can use:\n").
		InsertDefinitionsTable(rosed.End, defs, width).
		String()
}

func helpCommand(e *Env) dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:  "help",
		Usage: "help [command]",
		Help:  "list the commands, or show how to use one",
		Operation: func(inv *dispatch.Invocation) error {
			u := inv.Usages()
			if !inv.HasNext() {
				return e.tell(inv, HelpText(u, 80))
			}

			name, _ := inv.NextString()
			usage, ok := u.Get(name)
			if !ok {
				return &command.WrongArgumentTypeError{Token: name, Expected: "command"}
			}
			return e.tell(inv, fmt.Sprintf("%s: %s\nusage: %s", name, u.Help(name), usage))
		},
		Shape: func(c *suggest.Cursor) {
			if e.reg == nil {
				return
			}
			c.EnumDescribed(e.reg.Usages().Options())
		},
	}
}
