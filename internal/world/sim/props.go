package sim

import (
	"fmt"

	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/world"
)

const (
	kindHealth     = "health"
	kindLocomotion = "locomotion"
	kindBody       = "body"
)

// creatureField builds a Property over one field of a Creature.
func creatureField[T any](name, kind string, t command.TypeTag, field func(c *Creature) *T, check func(v T) error) world.Property {
	return world.Property{
		Name: name,
		Kind: kind,
		Type: t,
		Get: func(a world.Agent) (any, error) {
			c, ok := a.(*Creature)
			if !ok {
				return nil, fmt.Errorf("%s has no %s", a.Name(), kind)
			}
			return *field(c), nil
		},
		Set: func(a world.Agent, v any) error {
			c, ok := a.(*Creature)
			if !ok {
				return cberrors.Operationf("%s has no %s", a.Name(), kind)
			}
			typed, ok := v.(T)
			if !ok {
				return cberrors.Operation(
					fmt.Sprintf("%s must be a %s", name, t),
					fmt.Sprintf("property %s: got value of type %T", name, v),
				)
			}
			if check != nil {
				if err := check(typed); err != nil {
					return err
				}
			}
			*field(c) = typed
			return nil
		},
	}
}

func nonNegative(name string) func(v float64) error {
	return func(v float64) error {
		if v < 0 {
			return cberrors.Operationf("%s cannot be negative", name)
		}
		return nil
	}
}

func creatureProperties() []world.Property {
	return []world.Property{
		creatureField("health.value", kindHealth, command.TypeFloat,
			func(c *Creature) *float64 { return &c.Health }, nonNegative("health.value")),
		creatureField("health.max", kindHealth, command.TypeFloat,
			func(c *Creature) *float64 { return &c.MaxHealth }, nonNegative("health.max")),
		creatureField("locomotion.walkspeed", kindLocomotion, command.TypeFloat,
			func(c *Creature) *float64 { return &c.WalkSpeed }, nonNegative("locomotion.walkspeed")),
		creatureField[bool]("locomotion.flying", kindLocomotion, command.TypeBool,
			func(c *Creature) *bool { return &c.Flying }, nil),
		creatureField("body.scale", kindBody, command.TypeFloat,
			func(c *Creature) *float64 { return &c.Scale }, nonNegative("body.scale")),
		creatureField[float64]("body.rotation", kindBody, command.TypeFloat,
			func(c *Creature) *float64 { return &c.Rotation }, nil),
		creatureField[geom.Vector3]("body.position", kindBody, command.TypeVector3,
			func(c *Creature) *geom.Vector3 { return &c.Pos }, nil),
	}
}

func (w *World) worldSettings() []world.Setting {
	return []world.Setting{
		{
			Name: "daylength",
			Type: command.TypeFloat,
			Get:  func() any { return w.dayLength },
			Set: func(v any) error {
				f, ok := v.(float64)
				if !ok || f <= 0 {
					return cberrors.Operationf("daylength must be a positive float")
				}
				w.dayLength = f
				return nil
			},
		},
		{
			Name: "pvp",
			Type: command.TypeBool,
			Get:  func() any { return w.pvp },
			Set: func(v any) error {
				b, ok := v.(bool)
				if !ok {
					return cberrors.Operationf("pvp must be true or false")
				}
				w.pvp = b
				return nil
			},
		},
		{
			Name: "environment",
			Type: command.TypeString,
			Get:  func() any { return w.environment },
			Set: func(v any) error {
				s, ok := v.(string)
				if !ok {
					return cberrors.Operationf("environment must be a string")
				}
				switch s {
				case "survival", "creative", "peaceful":
					w.environment = s
					return nil
				default:
					return cberrors.Operationf("environment must be survival, creative, or peaceful")
				}
			},
		},
	}
}
