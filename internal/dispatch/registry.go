package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/internal/suggest"
)

// Broadcaster sends a message to every player.
type Broadcaster interface {
	Broadcast(msg string)
}

// BroadcastFunc adapts a function to a Broadcaster.
type BroadcastFunc func(msg string)

// Broadcast calls f(msg).
func (f BroadcastFunc) Broadcast(msg string) {
	f(msg)
}

// Result describes one finished top-level dispatch.
type Result struct {
	Line    []string
	Origin  command.Origin
	Command string
	Success bool

	// Err is the failure, if any. It is nil on success and when a completion
	// signal ended the command.
	Err error
}

// Options configures a Registry.
type Options struct {
	// Broadcaster receives failure messages. If nil, they are dropped.
	Broadcaster Broadcaster

	// Log receives details of every failure. If nil, nothing is logged.
	Log logging.Logger

	// MaxDepth limits how deeply commands may run other commands. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Observer, if set, is called after each top-level dispatch.
	Observer func(Result)
}

func (o Options) withDefaults() Options {
	if o.Broadcaster == nil {
		o.Broadcaster = BroadcastFunc(func(string) {})
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Registry runs and completes commands. It is not modified after Build and
// may be read from multiple goroutines, but the operations it runs usually
// touch shared world state and should be serialized by the caller.
type Registry struct {
	cmds    map[string]Descriptor
	aliases map[string]string
	usages  Usages
	opts    Options
}

// Invocation is the context an Operation runs in. It embeds the Stream the
// arguments are read from.
type Invocation struct {
	*command.Stream

	ctx   context.Context
	reg   *Registry
	depth int
}

// Context is the context the command was dispatched with.
func (inv *Invocation) Context() context.Context {
	return inv.ctx
}

// Depth is how many commands are running this one, 0 for a command run
// directly.
func (inv *Invocation) Depth() int {
	return inv.depth
}

// ExecLine is Exec for a line that has not been tokenized.
func (inv *Invocation) ExecLine(ctx context.Context, origin command.Origin, line string) bool {
	return inv.reg.run(ctx, origin, command.Tokenize(line), inv.depth+1)
}

// Usages returns the usages of every command that could be run.
func (inv *Invocation) Usages() Usages {
	return inv.reg.usages
}

// Exec runs another command line as a child of this one, reporting its
// failures itself. It returns whether the child succeeded.
func (inv *Invocation) Exec(origin command.Origin, tokens []string) bool {
	return inv.reg.run(inv.ctx, origin, tokens, inv.depth+1)
}

// Usages returns the snapshot of every command's usage.
func (r *Registry) Usages() Usages {
	return r.usages
}

// Lookup returns the command with the given name or alias.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	if canon, ok := r.aliases[name]; ok {
		name = canon
	}
	d, ok := r.cmds[name]
	return d, ok
}

// Dispatch runs a command line from origin. Any failure is logged and
// reported to players as "<command>: <message>"; Dispatch itself only says
// whether the command succeeded.
func (r *Registry) Dispatch(origin command.Origin, line string) bool {
	return r.DispatchContext(context.Background(), origin, line)
}

// DispatchContext is Dispatch with a context that operations can use for
// calls to storage.
func (r *Registry) DispatchContext(ctx context.Context, origin command.Origin, line string) bool {
	return r.DispatchTokens(ctx, origin, command.Tokenize(line))
}

// DispatchTokens is DispatchContext for a line that is already tokenized.
func (r *Registry) DispatchTokens(ctx context.Context, origin command.Origin, tokens []string) bool {
	return r.run(ctx, origin, tokens, 0)
}

func (r *Registry) run(ctx context.Context, origin command.Origin, tokens []string, depth int) bool {
	var name string
	var err error
	if len(tokens) == 0 {
		err = ErrCommandNotFound
	} else {
		name = tokens[0]
		err = r.invoke(ctx, origin, tokens, depth)
	}
	ok := err == nil

	if err != nil && !errors.Is(err, suggest.ErrSuggestionEmitted) {
		r.opts.Log.Error("command failed", "command", name, "origin", origin.Describe(), "depth", depth, "error", err)
		msg := cberrors.UserMessage(err)
		if name != "" {
			msg = fmt.Sprintf("%s: %s", name, msg)
		}
		r.opts.Broadcaster.Broadcast(msg)
	}

	if depth == 0 && r.opts.Observer != nil {
		res := Result{Line: tokens, Origin: origin, Command: name, Success: ok}
		if !errors.Is(err, suggest.ErrSuggestionEmitted) {
			res.Err = err
		}
		r.opts.Observer(res)
	}

	return ok
}

func (r *Registry) invoke(ctx context.Context, origin command.Origin, tokens []string, depth int) (err error) {
	if depth > r.opts.MaxDepth {
		return ErrRecursionLimit
	}

	d, ok := r.Lookup(tokens[0])
	if !ok {
		return ErrCommandNotFound
	}

	defer func() {
		if panicErr := recover(); panicErr != nil {
			r.opts.Log.Error("command panicked", "command", d.Name, "panic", panicErr, "stack", string(debug.Stack()))
			err = cberrors.Operation("internal error", fmt.Sprintf("panic: %v", panicErr))
		}
	}()

	inv := &Invocation{
		Stream: command.FromTokens(tokens, origin),
		ctx:    ctx,
		reg:    r,
		depth:  depth,
	}
	return d.Operation(inv)
}

// Autocomplete sends at most one suggestion to sink for a partially typed
// command line.
func (r *Registry) Autocomplete(line string, sink suggest.Sink) {
	r.AutocompleteTokens(command.Tokenize(line), command.EndsReady(line), sink)
}

// AutocompleteTokens is Autocomplete for a line that is already tokenized.
// ready is whether the user has finished typing the last token.
func (r *Registry) AutocompleteTokens(tokens []string, ready bool, sink suggest.Sink) {
	if len(tokens) == 0 {
		sink.Suggest(suggest.Choose(r.usages.Options()))
		return
	}

	d, ok := r.Lookup(tokens[0])
	if !ok {
		sink.Suggest(suggest.Narrow(tokens[0], r.usages.Options()))
		return
	}

	defer func() {
		if panicErr := recover(); panicErr != nil {
			r.opts.Log.Error("completion panicked", "command", d.Name, "panic", panicErr, "stack", string(debug.Stack()))
		}
	}()

	c := suggest.NewCursor(command.FromTokens(tokens, command.Origin{}), ready, sink)
	d.Shape(c)
}
