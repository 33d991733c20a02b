// Package command turns a line of command text into tokens and reads typed
// arguments from those tokens on behalf of a command operation.
package command

import (
	"github.com/dekarrin/cmdblock/internal/geom"
)

// Actor is anything that can run a command from a position in the world, such
// as a player typing into the console.
type Actor interface {
	// Name is the display name of the actor.
	Name() string

	// Position is the live world position of the actor. It is read each time
	// a relative coordinate is resolved, so it may change between reads.
	Position() geom.Vector3
}

// Origin is where a command is being run from. It is bound to exactly one of
// an Actor or a fixed anchor position, such as a command block.
//
// The zero value is an anchor origin at (0, 0, 0).
type Origin struct {
	agent  Actor
	anchor geom.Vector3
}

// AgentOrigin returns an Origin bound to the given actor. If a is nil, the
// returned Origin is an anchor at the world origin.
func AgentOrigin(a Actor) Origin {
	return Origin{agent: a}
}

// AnchorOrigin returns an Origin fixed at the given block position.
func AnchorOrigin(p geom.Point3) Origin {
	return Origin{anchor: p.Vector()}
}

// Agent returns the bound actor, or nil if the origin is an anchor.
func (o Origin) Agent() Actor {
	return o.agent
}

// HasAgent returns whether an actor is bound.
func (o Origin) HasAgent() bool {
	return o.agent != nil
}

// Position gives the current world position of the origin: the actor's live
// position if one is bound, otherwise the anchor.
func (o Origin) Position() geom.Vector3 {
	if o.agent != nil {
		return o.agent.Position()
	}
	return o.anchor
}

// Describe returns a short human readable name for the origin.
func (o Origin) Describe() string {
	if o.agent != nil {
		return o.agent.Name()
	}
	return "block at " + o.anchor.Point().String()
}

// Reader is a type that can be used for getting command input.
type Reader interface {
	// ReadCommand reads a single line of command input. It will block until
	// one is ready. If there is an error or output is at end (EOF), the
	// returned string will be empty, otherwise it will always be non-empty.
	//
	// When error is io.EOF, string will always be empty. If EOF was
	// encountered on a call but some input was received, the input will be
	// returned and error will be nil, and the next call to ReadCommand will
	// return "", io.EOF.
	ReadCommand() (string, error)

	// AllowBlank sets whether ReadCommand may return a blank line.
	AllowBlank(allow bool)

	// Close performs any operations required to clean the resources created
	// by the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}
