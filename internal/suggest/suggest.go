// Package suggest produces completion suggestions for partially typed command
// lines. A command describes its arguments once, as a chain of declarations
// on a Cursor, and the Cursor works out what the user should type next.
package suggest

import (
	"errors"
	"strings"

	"github.com/dekarrin/cmdblock/internal/command"
	"golang.org/x/text/cases"
)

// ErrSuggestionEmitted is the signal that a suggestion has been produced and
// the rest of a declaration chain should not run. It is never shown to users.
var ErrSuggestionEmitted = errors.New("suggestion emitted")

// Kind is the kind of a Suggestion.
type Kind int

const (
	// KindExpect asks for a value of a primitive type.
	KindExpect Kind = iota

	// KindExpectType asks for a value of a named type that has no fixed set
	// of members.
	KindExpectType

	// KindChoose offers a fixed set of options.
	KindChoose

	// KindNarrow offers the options that match what was typed so far.
	KindNarrow

	// KindError reports that what was typed cannot be valid.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindExpect:
		return "expect"
	case KindExpectType:
		return "expect-type"
	case KindChoose:
		return "choose"
	case KindNarrow:
		return "narrow"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Option is one choice in a KindChoose or KindNarrow suggestion.
type Option struct {
	Value       string
	Description string
}

// Options makes undescribed Options from values.
func Options(values ...string) []Option {
	opts := make([]Option, len(values))
	for i := range values {
		opts[i] = Option{Value: values[i]}
	}
	return opts
}

// Suggestion is the one piece of advice produced for a partial command line.
// Which fields are meaningful depends on Kind.
type Suggestion struct {
	Kind Kind

	// Type is the expected primitive type for KindExpect.
	Type command.TypeTag

	// TypeName is the expected type for KindExpectType.
	TypeName string

	// Options is every valid choice for KindChoose and KindNarrow.
	Options []Option

	// Partial is the token typed so far for KindNarrow.
	Partial string

	// Matches are the Options that contain Partial, for KindNarrow.
	Matches []Option

	// Message explains a KindError.
	Message string
}

// Expect creates a KindExpect suggestion.
func Expect(t command.TypeTag) Suggestion {
	return Suggestion{Kind: KindExpect, Type: t}
}

// ExpectType creates a KindExpectType suggestion.
func ExpectType(name string) Suggestion {
	return Suggestion{Kind: KindExpectType, TypeName: name}
}

// Choose creates a KindChoose suggestion.
func Choose(opts []Option) Suggestion {
	return Suggestion{Kind: KindChoose, Options: opts}
}

// Narrow creates a KindNarrow suggestion, filling in which options contain
// partial. Matching ignores case.
func Narrow(partial string, opts []Option) Suggestion {
	fold := cases.Fold()
	want := fold.String(partial)

	var matches []Option
	for _, o := range opts {
		if strings.Contains(fold.String(o.Value), want) {
			matches = append(matches, o)
		}
	}

	return Suggestion{Kind: KindNarrow, Partial: partial, Options: opts, Matches: matches}
}

// Error creates a KindError suggestion.
func Error(msg string) Suggestion {
	return Suggestion{Kind: KindError, Message: msg}
}

// Sink receives suggestions.
type Sink interface {
	Suggest(s Suggestion)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(s Suggestion)

// Suggest calls f(s).
func (f SinkFunc) Suggest(s Suggestion) {
	f(s)
}

// Recorder is a Sink that keeps the last suggestion it was given.
type Recorder struct {
	Suggestion Suggestion
	Got        bool
}

// Suggest records s.
func (r *Recorder) Suggest(s Suggestion) {
	r.Suggestion = s
	r.Got = true
}
