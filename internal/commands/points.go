package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/dekarrin/rosed"
)

func pointCommand(e *Env) dispatch.Descriptor {
	const usage = "point set <name> <x> <y> <z> | point get|remove <name> | point list"

	return dispatch.Descriptor{
		Name:    "point",
		Aliases: []string{"points"},
		Usage:   usage,
		Help:    "save, look up, and forget named block positions",
		Operation: func(inv *dispatch.Invocation) error {
			if e.Points == nil {
				return cberrors.Operationf("named points are not available")
			}
			ctx := inv.Context()

			mode, err := inv.NextString()
			if err != nil {
				return err
			}

			switch mode {
			case "set":
				name, err := inv.NextString()
				if err != nil {
					return err
				}
				at, err := inv.NextPoint()
				if err != nil {
					return err
				}
				if _, err := e.Points.Upsert(ctx, dao.Point{Name: name, At: at}); err != nil {
					return cberrors.WrapOperationf(err, "could not save %s", name)
				}
				return e.tell(inv, fmt.Sprintf("%s is now %s", name, at))
			case "get":
				name, err := inv.NextString()
				if err != nil {
					return err
				}
				p, err := e.Points.GetByName(ctx, name)
				if err != nil {
					return pointError(err, name)
				}
				return e.tell(inv, fmt.Sprintf("%s is %s", p.Name, p.At))
			case "remove":
				name, err := inv.NextString()
				if err != nil {
					return err
				}
				if _, err := e.Points.Delete(ctx, name); err != nil {
					return pointError(err, name)
				}
				return e.tell(inv, fmt.Sprintf("forgot %s", name))
			case "list":
				all, err := e.Points.GetAll(ctx)
				if err != nil {
					return cberrors.WrapOperationf(err, "could not list points")
				}
				if len(all) == 0 {
					return e.tell(inv, "there are no named points")
				}

				defs := make([][2]string, len(all))
				for i := range all {
					defs[i] = [2]string{all[i].Name, all[i].At.String()}
				}
				out := rosed.Edit("").
					WithOptions(rosed.Options{ParagraphSeparator: "\n", NoTrailingLineSeparators: true}).
					InsertDefinitionsTable(0, defs, 80).
					String()
				return e.tell(inv, out)
			default:
				return usageError(mode, usage)
			}
		},
		Shape: func(c *suggest.Cursor) {
			c.Enum("set", "get", "remove", "list").Then(func(c *suggest.Cursor) {
				switch c.Last() {
				case "set":
					c.Text().Point()
				case "get", "remove":
					c.EnumDescribed(e.pointOptions())
				}
			})
		},
	}
}

func (e *Env) pointOptions() []suggest.Option {
	if e.Points == nil {
		return nil
	}
	all, err := e.Points.GetAll(context.Background())
	if err != nil {
		return nil
	}
	opts := make([]suggest.Option, len(all))
	for i := range all {
		opts[i] = suggest.Option{Value: all[i].Name, Description: all[i].At.String()}
	}
	return opts
}

func pointError(err error, name string) error {
	if errors.Is(err, dao.ErrNotFound) {
		return cberrors.WrapOperationf(err, "there is no point called %s", name)
	}
	return cberrors.WrapOperationf(err, "could not look up %s", name)
}
