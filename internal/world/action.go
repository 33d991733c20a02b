package world

import (
	"github.com/dekarrin/cmdblock/internal/geom"
)

// Action is one change a command asks the Host to make. It is one of the
// types declared in this file.
type Action interface {
	action()
}

// ShowMessage shows text to a player.
type ShowMessage struct {
	To    Agent
	Text  string
	Sound bool
	Wrap  bool
}

// ShowLargeMessage shows a title and subtitle across a player's screen.
type ShowLargeMessage struct {
	To       Agent
	Title    string
	Subtitle string
	Duration float64
	Delay    float64
}

// Kill kills an agent outright.
type Kill struct {
	Target Agent
	Reason string
}

// Injure removes a fraction of an agent's maximum health.
type Injure struct {
	Target Agent
	Amount float64
	Reason string
}

// Heal restores a fraction of an agent's maximum health.
type Heal struct {
	Target Agent
	Amount float64
}

// Strike calls lightning down on a block.
type Strike struct {
	At geom.Point3
}

// SetBlock replaces a block with no side effects.
type SetBlock struct {
	At    geom.Point3
	Value int
}

// PlaceBlock places a block as though a player had, optionally playing the
// placement sound and dropping whatever was there before.
type PlaceBlock struct {
	At      geom.Point3
	Value   int
	Sound   bool
	DropOld bool
}

// Fill sets every block in a box.
type Fill struct {
	Region geom.Box
	Value  int
}

// SetTime sets the time of day, where 0 is midnight and 0.5 is noon.
type SetTime struct {
	Of float64
}

// AddTime moves the time of day forward by a fraction of a day.
type AddTime struct {
	Delta float64
}

// Summon creates a new creature from a template.
type Summon struct {
	Template string
	At       geom.Vector3
	Rotation float64
}

// Teleport moves an agent.
type Teleport struct {
	Target Agent
	To     geom.Vector3
}

// AddItem drops items into the world.
type AddItem struct {
	At       geom.Vector3
	Value    int
	Count    int
	Velocity *geom.Vector3
}

// Give puts items in a player's inventory.
type Give struct {
	To    Agent
	Value int
	Count int
}

// SetProperty sets a named property of an agent. Value has the Go type of the
// property's Type.
type SetProperty struct {
	Target   Agent
	Property string
	Value    any
}

// SetSetting sets a named world setting. Value has the Go type of the
// setting's Type.
type SetSetting struct {
	Setting string
	Value   any
}

func (ShowMessage) action()      {}
func (ShowLargeMessage) action() {}
func (Kill) action()             {}
func (Injure) action()           {}
func (Heal) action()             {}
func (Strike) action()           {}
func (SetBlock) action()         {}
func (PlaceBlock) action()       {}
func (Fill) action()             {}
func (SetTime) action()          {}
func (AddTime) action()          {}
func (Summon) action()           {}
func (Teleport) action()         {}
func (AddItem) action()          {}
func (Give) action()             {}
func (SetProperty) action()      {}
func (SetSetting) action()       {}
