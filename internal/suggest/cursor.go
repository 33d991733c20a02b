package suggest

import (
	"fmt"
	"strings"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/selector"
)

// Cursor walks the arguments of a partially typed command one declaration at
// a time. Each declaration consumes the matching tokens if they are valid and
// returns the Cursor so that declarations can be chained:
//
//	c.Enum("heal", "injure").Selector().Float().Text()
//
// The first declaration that cannot be satisfied either emits exactly one
// Suggestion to the Sink or decides there is nothing to suggest. From then on
// the Cursor is done and every further declaration does nothing.
type Cursor struct {
	stream  *command.Stream
	ready   bool
	sink    Sink
	done    bool
	emitted bool
	last    string
}

// NewCursor creates a Cursor over the arguments in s. ready is whether the
// user has finished the last token, which is normally whether the line ends
// in whitespace.
func NewCursor(s *command.Stream, ready bool, sink Sink) *Cursor {
	return &Cursor{stream: s, ready: ready, sink: sink}
}

// Done returns whether the chain has stopped.
func (c *Cursor) Done() bool {
	return c.done
}

// Err returns ErrSuggestionEmitted if a suggestion was sent to the Sink, and
// nil otherwise.
func (c *Cursor) Err() error {
	if c.emitted {
		return ErrSuggestionEmitted
	}
	return nil
}

// Last returns the most recent token a declaration accepted.
func (c *Cursor) Last() string {
	return c.last
}

// Origin is the origin of the underlying stream.
func (c *Cursor) Origin() command.Origin {
	return c.stream.Origin()
}

func (c *Cursor) emit(s Suggestion) *Cursor {
	c.sink.Suggest(s)
	c.emitted = true
	c.done = true
	return c
}

// missing handles a declaration with no token to read.
func (c *Cursor) missing(s Suggestion) *Cursor {
	if c.ready {
		return c.emit(s)
	}
	c.done = true
	return c
}

// Typed declares an argument of the given primitive type.
func (c *Cursor) Typed(t command.TypeTag) *Cursor {
	if c.done {
		return c
	}
	before := c.stream.Peek()
	if _, err := c.stream.NextTyped(t); err != nil {
		if command.IsNotFound(err) {
			return c.missing(Expect(t))
		}
		return c.emit(Error(err.Error()))
	}
	c.last = before
	return c
}

// Text declares any single token.
func (c *Cursor) Text() *Cursor { return c.Typed(command.TypeString) }

// Bool declares a boolean.
func (c *Cursor) Bool() *Cursor { return c.Typed(command.TypeBool) }

// Int declares an integer.
func (c *Cursor) Int() *Cursor { return c.Typed(command.TypeInt) }

// Float declares a float.
func (c *Cursor) Float() *Cursor { return c.Typed(command.TypeFloat) }

// Point declares a block position of three tokens.
func (c *Cursor) Point() *Cursor { return c.Typed(command.TypePoint3) }

// Vector declares a world position of three tokens.
func (c *Cursor) Vector() *Cursor { return c.Typed(command.TypeVector3) }

// Enum declares a token that must be one of values.
func (c *Cursor) Enum(values ...string) *Cursor {
	return c.EnumDescribed(Options(values...))
}

// EnumDescribed declares a token that must be the Value of one of opts.
func (c *Cursor) EnumDescribed(opts []Option) *Cursor {
	if c.done {
		return c
	}
	if !c.stream.HasNext() {
		return c.missing(Choose(opts))
	}
	tok, _ := c.stream.NextString()
	for _, o := range opts {
		if o.Value == tok {
			c.last = tok
			return c
		}
	}
	return c.emit(Narrow(tok, opts))
}

// Custom declares a token of a named type that check validates. A nil check
// accepts any token.
func (c *Cursor) Custom(typeName string, check func(tok string) error) *Cursor {
	if c.done {
		return c
	}
	if !c.stream.HasNext() {
		return c.missing(ExpectType(typeName))
	}
	tok, _ := c.stream.NextString()
	if check != nil {
		if err := check(tok); err != nil {
			return c.emit(Error(err.Error()))
		}
	}
	c.last = tok
	return c
}

// Selector declares an agent selector such as @p or @e[r=5].
func (c *Cursor) Selector() *Cursor {
	return c.selectorOr(nil)
}

// Target declares either an agent selector or the name of one of players.
func (c *Cursor) Target(players []string) *Cursor {
	return c.selectorOr(players)
}

func (c *Cursor) selectorOr(players []string) *Cursor {
	if c.done {
		return c
	}

	opts := make([]Option, 0, len(selector.Modes)+len(players))
	for _, m := range selector.Modes {
		opts = append(opts, Option{Value: m, Description: selector.ModeDescriptions[m]})
	}
	for _, p := range players {
		opts = append(opts, Option{Value: p, Description: "player"})
	}

	if !c.stream.HasNext() {
		return c.missing(Choose(opts))
	}
	tok, _ := c.stream.NextString()

	if selector.IsSelector(tok) {
		if _, err := selector.Parse(tok, geom.Vector3{}, 0); err != nil {
			if c.stillTyping() {
				if !strings.Contains(tok, "[") {
					return c.emit(Narrow(tok, opts))
				}
				if !strings.HasSuffix(tok, "]") {
					// filters are still being typed
					c.done = true
					return c
				}
			}
			return c.emit(Error(err.Error()))
		}
		c.last = tok
		return c
	}

	for _, p := range players {
		if p == tok {
			c.last = tok
			return c
		}
	}
	return c.emit(Narrow(tok, opts))
}

// stillTyping is whether the token just consumed is the one under the
// user's cursor.
func (c *Cursor) stillTyping() bool {
	return !c.ready && !c.stream.HasNext()
}

// Rest declares that every remaining token is free text.
func (c *Cursor) Rest() *Cursor {
	if c.done {
		return c
	}
	toks, err := c.stream.RestTokens()
	if err != nil {
		return c.missing(Expect(command.TypeString))
	}
	c.last = toks[len(toks)-1]
	return c
}

// Nested hands every remaining token to fn, which completes them as a command
// line of its own. Anything fn sends to its sink counts as this Cursor's
// suggestion. fn is not called while the token before the nested line is
// still being typed. Nested always ends the chain.
func (c *Cursor) Nested(fn func(tokens []string, ready bool, sink Sink)) *Cursor {
	if c.done {
		return c
	}
	toks, err := c.stream.RestTokens()
	c.done = true
	if err != nil && !c.ready {
		return c
	}
	fn(toks, c.ready, SinkFunc(func(s Suggestion) {
		c.sink.Suggest(s)
		c.emitted = true
	}))
	return c
}

// Then runs fn if the chain has not stopped. It lets a shape pick its next
// declarations from a token it already accepted.
func (c *Cursor) Then(fn func(c *Cursor)) *Cursor {
	if c.done {
		return c
	}
	fn(c)
	return c
}

// Repeat runs fn once, then again for as long as tokens remain after it.
func (c *Cursor) Repeat(fn func(c *Cursor)) *Cursor {
	for !c.done {
		fn(c)
		if !c.stream.HasNext() {
			break
		}
	}
	return c
}

// Fail emits an error suggestion and ends the chain.
func (c *Cursor) Fail(format string, a ...interface{}) *Cursor {
	if c.done {
		return c
	}
	return c.emit(Error(fmt.Sprintf(format, a...)))
}
