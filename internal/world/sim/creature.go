package sim

import (
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/google/uuid"
)

// Creature is an agent in a World. Players are creatures too.
type Creature struct {
	id       uuid.UUID
	name     string
	template string
	player   bool

	Pos       geom.Vector3
	Rotation  float64
	Health    float64
	MaxHealth float64
	WalkSpeed float64
	Flying    bool
	Scale     float64
	Dead      bool

	// Inventory maps item value to count. It is nil for creatures that
	// cannot carry anything.
	Inventory map[int]int
}

// NewCreature creates a living creature with full health.
func NewCreature(name, template string, pos geom.Vector3) *Creature {
	return &Creature{
		id:        uuid.New(),
		name:      name,
		template:  template,
		Pos:       pos,
		Health:    1,
		MaxHealth: 1,
		WalkSpeed: 1,
		Scale:     1,
	}
}

// NewPlayer creates a living player with full health and an empty inventory.
func NewPlayer(name string, pos geom.Vector3) *Creature {
	c := NewCreature(name, PlayerTemplate, pos)
	c.player = true
	c.Inventory = map[int]int{}
	return c
}

func (c *Creature) ID() uuid.UUID          { return c.id }
func (c *Creature) Name() string           { return c.name }
func (c *Creature) TemplateName() string   { return c.template }
func (c *Creature) Position() geom.Vector3 { return c.Pos }
func (c *Creature) IsPlayer() bool         { return c.player }
