// Package world defines what commands need from the game they control. The
// game is represented by a Host, which owns the agents and performs Actions.
package world

import (
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/google/uuid"
)

// Agent is a creature or player in the world.
type Agent interface {
	ID() uuid.UUID

	// Name is the display name of the agent.
	Name() string

	// TemplateName is the name of the kind of creature the agent is, such as
	// "goblin". Players have the template name "player".
	TemplateName() string

	Position() geom.Vector3
	IsPlayer() bool
}

// Template is a kind of creature that can be summoned.
type Template struct {
	// Name is the key used to summon it.
	Name string

	// Display is the name given to creatures made from it.
	Display string
}

// Host is the game that commands act upon.
type Host interface {
	// Agents returns every living agent in a stable order.
	Agents() []Agent

	// Players returns every agent that is a player.
	Players() []Agent

	// Templates returns every summonable creature kind.
	Templates() []Template

	// Broadcast shows msg to every player.
	Broadcast(msg string)

	// Apply performs a single action.
	Apply(a Action) error

	// Properties returns the agent properties that may be set by name.
	Properties() *Table[Property]

	// Settings returns the world settings that may be set by name.
	Settings() *Table[Setting]
}

// PlayerNames returns the display names of every player on h.
func PlayerNames(h Host) []string {
	players := h.Players()
	names := make([]string, len(players))
	for i := range players {
		names[i] = players[i].Name()
	}
	return names
}

// FindPlayer returns the player on h with the given display name.
func FindPlayer(h Host, name string) (Agent, bool) {
	for _, p := range h.Players() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
