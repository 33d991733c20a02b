// Package commands has the built-in commands that act on a world.Host.
//
// Every command is registered with both an Operation that runs it and a Shape
// that completes it, and the two read their arguments in the same order.
package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dekarrin/cmdblock/internal/blocks"
	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/selector"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world"
	"github.com/dekarrin/cmdblock/server/dao"
)

// Env is what the built-in commands act on.
type Env struct {
	Host world.Host

	// Points stores named points. If nil, the point command always fails.
	Points dao.PointRepository

	// Blocks holds the command blocks that trigger runs. If nil, trigger
	// always fails.
	Blocks *blocks.Chain

	// Rand picks agents for @r selectors. If nil, a time-seeded source is
	// used.
	Rand *rand.Rand

	reg *dispatch.Registry
}

type builtin func(e *Env) dispatch.Descriptor

var builtins = []builtin{
	msgCommand,
	msglCommand,
	killCommand,
	healthCommand,
	strikeCommand,
	setblockCommand,
	placeblockCommand,
	fillCommand,
	timeCommand,
	executeCommand,
	setdataCommand,
	gameinfoCommand,
	summonCommand,
	tpCommand,
	additemCommand,
	giveCommand,
	pointCommand,
	triggerCommand,
	helpCommand,
}

// Register adds every built-in command to b.
func Register(b *dispatch.Builder, e *Env) error {
	for _, mk := range builtins {
		if err := b.Register(mk(e)); err != nil {
			return err
		}
	}
	return nil
}

// Build registers the built-in commands and builds a Registry from them.
// Commands that complete or run other command lines go through the returned
// Registry.
func Build(e *Env, opts dispatch.Options) (*dispatch.Registry, error) {
	if e.Host == nil {
		return nil, fmt.Errorf("no world host")
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := dispatch.NewBuilder()
	if err := Register(b, e); err != nil {
		return nil, err
	}
	e.reg = b.Build(opts)
	return e.reg, nil
}

// complete completes a command line nested inside another command.
func (e *Env) complete(tokens []string, ready bool, sink suggest.Sink) {
	if e.reg == nil {
		return
	}
	e.reg.AutocompleteTokens(tokens, ready, sink)
}

// selectAgents reads a selector and returns the agents it picks.
func (e *Env) selectAgents(inv *dispatch.Invocation) ([]world.Agent, error) {
	tok, err := inv.NextString()
	if err != nil {
		return nil, err
	}
	if !selector.IsSelector(tok) {
		return nil, &command.WrongArgumentTypeError{Token: tok, Expected: "selector"}
	}
	return e.resolve(inv, tok)
}

func (e *Env) resolve(inv *dispatch.Invocation, tok string) ([]world.Agent, error) {
	agents := e.Host.Agents()
	q, err := selector.Parse(tok, inv.Origin().Position(), len(agents))
	if err != nil {
		return nil, err
	}

	candidates := make([]selector.Agent, len(agents))
	for i := range agents {
		candidates[i] = agents[i]
	}

	picked := q.Select(candidates, e.Rand)
	selected := make([]world.Agent, len(picked))
	for i := range picked {
		selected[i] = picked[i].(world.Agent)
	}
	return selected, nil
}

// selectPlayers reads either a selector or a player name and returns the
// players it refers to.
func (e *Env) selectPlayers(inv *dispatch.Invocation) ([]world.Agent, error) {
	tok, err := inv.NextString()
	if err != nil {
		return nil, err
	}

	if !selector.IsSelector(tok) {
		p, ok := world.FindPlayer(e.Host, tok)
		if !ok {
			return nil, &command.WrongArgumentTypeError{Token: tok, Expected: "player"}
		}
		return []world.Agent{p}, nil
	}

	selected, err := e.resolve(inv, tok)
	if err != nil {
		return nil, err
	}
	players := selected[:0]
	for _, a := range selected {
		if a.IsPlayer() {
			players = append(players, a)
		}
	}
	return players, nil
}

// executor returns the agent running the command.
func (e *Env) executor(inv *dispatch.Invocation) (world.Agent, error) {
	if inv.Origin().HasAgent() {
		if a, ok := inv.Origin().Agent().(world.Agent); ok {
			return a, nil
		}
	}
	return nil, cberrors.Operation(
		fmt.Sprintf("only creatures can run %s; use execute to run it as one", inv.Name()),
		fmt.Sprintf("%s run from %s with no agent", inv.Name(), inv.Origin().Describe()),
	)
}

// tell shows text to whoever ran the command, or to everyone if that was not
// a player.
func (e *Env) tell(inv *dispatch.Invocation, text string) error {
	if inv.Origin().HasAgent() {
		if a, ok := inv.Origin().Agent().(world.Agent); ok && a.IsPlayer() {
			return e.Host.Apply(world.ShowMessage{To: a, Text: text})
		}
	}
	e.Host.Broadcast(text)
	return nil
}

// applyEach applies the action made for each agent, stopping at the first
// failure.
func (e *Env) applyEach(agents []world.Agent, act func(a world.Agent) world.Action) error {
	for _, a := range agents {
		if err := e.Host.Apply(act(a)); err != nil {
			return err
		}
	}
	return nil
}

func usageError(d string, usage string) error {
	return cberrors.Operation("usage: "+usage, fmt.Sprintf("bad subcommand %q", d))
}
