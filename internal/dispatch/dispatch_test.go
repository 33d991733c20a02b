package dispatch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/stretchr/testify/assert"
)

type broadcasts struct {
	msgs []string
}

func (b *broadcasts) Broadcast(msg string) {
	b.msgs = append(b.msgs, msg)
}

func testRegistry(out *broadcasts, opts Options) (*Registry, *[]string) {
	var ran []string
	b := NewBuilder()

	b.MustRegister(Descriptor{
		Name:  "health",
		Usage: "usage: health heal/injure @a/r/p [float=1] [string=magic]",
		Operation: func(inv *Invocation) error {
			action, err := inv.NextString()
			if err != nil {
				return err
			}
			if action != "heal" && action != "injure" {
				return cberrors.Operationf("usage: health heal/injure @a/r/p [float=1] [string=magic]")
			}
			if _, err := inv.NextString(); err != nil {
				return err
			}
			if _, err := inv.NextFloatOr(1); err != nil {
				return err
			}
			ran = append(ran, "health "+action)
			return nil
		},
		Shape: func(c *suggest.Cursor) {
			c.Enum("heal", "injure").Selector().Float().Text()
		},
	})
	b.MustRegister(Descriptor{
		Name:    "say",
		Aliases: []string{"echo"},
		Usage:   "usage: say <text>",
		Operation: func(inv *Invocation) error {
			text, err := inv.Rest()
			if err != nil {
				return err
			}
			ran = append(ran, "say "+text)
			return nil
		},
		Shape: func(c *suggest.Cursor) { c.Rest() },
	})
	b.MustRegister(Descriptor{
		Name:  "again",
		Usage: "usage: again <command>",
		Operation: func(inv *Invocation) error {
			rest, err := inv.RestTokens()
			if err != nil {
				return err
			}
			if !inv.Exec(inv.Origin(), rest) {
				return cberrors.Operationf("inner command failed")
			}
			return nil
		},
		Shape: func(c *suggest.Cursor) { c.Rest() },
	})
	b.MustRegister(Descriptor{
		Name:  "boom",
		Usage: "usage: boom",
		Operation: func(inv *Invocation) error {
			panic("kaboom")
		},
		Shape: func(c *suggest.Cursor) {},
	})
	b.MustRegister(Descriptor{
		Name:  "quiet",
		Usage: "usage: quiet",
		Operation: func(inv *Invocation) error {
			return suggest.ErrSuggestionEmitted
		},
		Shape: func(c *suggest.Cursor) {},
	})

	opts.Broadcaster = out
	return b.Build(opts), &ran
}

func Test_Registry_Dispatch(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectOK     bool
		expectRan    []string
		expectOutput []string
	}{
		{
			name:      "runs command",
			input:     "health heal @p 2",
			expectOK:  true,
			expectRan: []string{"health heal"},
		},
		{
			name:      "defaulted arguments",
			input:     "health injure @a",
			expectOK:  true,
			expectRan: []string{"health injure"},
		},
		{
			name:      "alias",
			input:     `echo "hi there" you`,
			expectOK:  true,
			expectRan: []string{"say hi there you"},
		},
		{
			name:         "unknown command",
			input:        "fly 1 2 3",
			expectOutput: []string{"fly: command not found"},
		},
		{
			name:         "missing argument",
			input:        "health heal",
			expectOutput: []string{"health: another string is expected after heal"},
		},
		{
			name:         "wrong argument type",
			input:        "health heal @p lots",
			expectOutput: []string{"health: lots is not a float"},
		},
		{
			name:         "operation error shows user message",
			input:        "health hurt @p",
			expectOutput: []string{"health: usage: health heal/injure @a/r/p [float=1] [string=magic]"},
		},
		{
			name:         "panic is contained",
			input:        "boom",
			expectOutput: []string{"boom: internal error"},
		},
		{
			name:  "completion signal is silent",
			input: "quiet",
		},
		{
			name:         "empty line",
			input:        "   ",
			expectOutput: []string{"command not found"},
		},
		{
			name:      "nested command",
			input:     "again say hello",
			expectOK:  true,
			expectRan: []string{"say hello"},
		},
		{
			name:         "nested failure reported once per level",
			input:        "again nope",
			expectOutput: []string{"nope: command not found", "again: inner command failed"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			out := &broadcasts{}
			reg, ran := testRegistry(out, Options{})

			ok := reg.Dispatch(command.Origin{}, tc.input)

			assert.Equal(tc.expectOK, ok)
			assert.Equal(tc.expectRan, *ran)
			assert.Equal(tc.expectOutput, out.msgs)
		})
	}
}

func Test_Registry_Dispatch_recursionLimit(t *testing.T) {
	assert := assert.New(t)
	out := &broadcasts{}
	reg, ran := testRegistry(out, Options{MaxDepth: 2})

	ok := reg.Dispatch(command.Origin{}, "again again again say deep")

	assert.False(ok)
	assert.Nil(*ran)
	if assert.NotEmpty(out.msgs) {
		assert.Equal("say: commands are nested too deeply", out.msgs[0])
	}

	out.msgs = nil
	ok = reg.Dispatch(command.Origin{}, "again again say shallow")
	assert.True(ok)
	assert.Equal([]string{"say shallow"}, *ran)
	assert.Empty(out.msgs)
}

func Test_Registry_Dispatch_logsFailures(t *testing.T) {
	assert := assert.New(t)
	var logBuf bytes.Buffer
	out := &broadcasts{}
	reg, _ := testRegistry(out, Options{Log: logging.New(&logBuf, clog.DebugLevel)})

	reg.Dispatch(command.Origin{}, "health heal @p lots")
	reg.Dispatch(command.Origin{}, "quiet")

	logged := logBuf.String()
	assert.Contains(logged, "command failed")
	assert.Contains(logged, "health")
	assert.Contains(logged, "lots is not a float")
	assert.NotContains(logged, "quiet")
}

func Test_Registry_Observer(t *testing.T) {
	assert := assert.New(t)
	var results []Result
	reg, _ := testRegistry(&broadcasts{}, Options{Observer: func(r Result) { results = append(results, r) }})

	reg.Dispatch(command.Origin{}, "again say hi")
	reg.Dispatch(command.Origin{}, "fly")
	reg.Dispatch(command.Origin{}, "")

	if !assert.Len(results, 3) {
		return
	}
	assert.True(results[0].Success)
	assert.Equal("again", results[0].Command)
	assert.NoError(results[0].Err)
	assert.False(results[1].Success)
	assert.True(errors.Is(results[1].Err, ErrCommandNotFound))
	assert.False(results[2].Success)
	assert.Empty(results[2].Command)
	assert.True(errors.Is(results[2].Err, ErrCommandNotFound))
}

func Test_Registry_Autocomplete(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectGot bool
		expect    suggest.Suggestion
	}{
		{
			name:      "empty lists every command",
			input:     "",
			expectGot: true,
			expect: suggest.Choose([]suggest.Option{
				{Value: "again", Description: "usage: again <command>"},
				{Value: "boom", Description: "usage: boom"},
				{Value: "health", Description: "usage: health heal/injure @a/r/p [float=1] [string=magic]"},
				{Value: "quiet", Description: "usage: quiet"},
				{Value: "say", Description: "usage: say <text>"},
			}),
		},
		{
			name:      "partial command name narrows",
			input:     "hea",
			expectGot: true,
			expect: suggest.Suggestion{
				Kind:    suggest.KindNarrow,
				Partial: "hea",
				Options: []suggest.Option{
					{Value: "again", Description: "usage: again <command>"},
					{Value: "boom", Description: "usage: boom"},
					{Value: "health", Description: "usage: health heal/injure @a/r/p [float=1] [string=magic]"},
					{Value: "quiet", Description: "usage: quiet"},
					{Value: "say", Description: "usage: say <text>"},
				},
				Matches: []suggest.Option{
					{Value: "health", Description: "usage: health heal/injure @a/r/p [float=1] [string=magic]"},
				},
			},
		},
		{
			name:      "finished unknown command narrows to nothing",
			input:     "fly ",
			expectGot: true,
			expect: suggest.Suggestion{
				Kind:    suggest.KindNarrow,
				Partial: "fly",
				Options: []suggest.Option{
					{Value: "again", Description: "usage: again <command>"},
					{Value: "boom", Description: "usage: boom"},
					{Value: "health", Description: "usage: health heal/injure @a/r/p [float=1] [string=magic]"},
					{Value: "quiet", Description: "usage: quiet"},
					{Value: "say", Description: "usage: say <text>"},
				},
			},
		},
		{
			name:      "unknown command with arguments narrows on its name",
			input:     "fly x",
			expectGot: true,
			expect: suggest.Suggestion{
				Kind:    suggest.KindNarrow,
				Partial: "fly",
				Options: []suggest.Option{
					{Value: "again", Description: "usage: again <command>"},
					{Value: "boom", Description: "usage: boom"},
					{Value: "health", Description: "usage: health heal/injure @a/r/p [float=1] [string=magic]"},
					{Value: "quiet", Description: "usage: quiet"},
					{Value: "say", Description: "usage: say <text>"},
				},
			},
		},
		{
			name:      "health choose",
			input:     "health ",
			expectGot: true,
			expect:    suggest.Choose(suggest.Options("heal", "injure")),
		},
		{
			name:      "health expect float",
			input:     "health heal @p ",
			expectGot: true,
			expect:    suggest.Expect(command.TypeFloat),
		},
		{
			name:      "health narrow",
			input:     "health he",
			expectGot: true,
			expect:    suggest.Narrow("he", suggest.Options("heal", "injure")),
		},
		{
			name:      "alias runs shape",
			input:     "echo ",
			expectGot: true,
			expect:    suggest.Expect(command.TypeString),
		},
		{
			name:      "still typing a known command",
			input:     "health",
			expectGot: false,
		},
		{
			name:      "shape without arguments gives nothing",
			input:     "boom ",
			expectGot: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			reg, _ := testRegistry(&broadcasts{}, Options{})
			rec := &suggest.Recorder{}

			reg.Autocomplete(tc.input, rec)

			assert.Equal(tc.expectGot, rec.Got)
			if tc.expectGot {
				assert.Equal(tc.expect, rec.Suggestion)
			}
		})
	}
}

func Test_Registry_Autocomplete_enumThenFloat(t *testing.T) {
	b := NewBuilder()
	b.MustRegister(Descriptor{
		Name:  "health",
		Usage: "usage: health heal/injure <float>",
		Operation: func(inv *Invocation) error {
			if _, err := inv.NextString(); err != nil {
				return err
			}
			_, err := inv.NextFloat()
			return err
		},
		Shape: func(c *suggest.Cursor) { c.Enum("heal", "injure").Float() },
	})
	reg := b.Build(Options{})

	testCases := []struct {
		name   string
		input  string
		expect suggest.Suggestion
	}{
		{name: "choose", input: "health ", expect: suggest.Choose(suggest.Options("heal", "injure"))},
		{name: "expect float", input: "health heal ", expect: suggest.Expect(command.TypeFloat)},
		{name: "narrow", input: "health he", expect: suggest.Narrow("he", suggest.Options("heal", "injure"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			rec := &suggest.Recorder{}

			reg.Autocomplete(tc.input, rec)

			assert.True(rec.Got)
			assert.Equal(tc.expect, rec.Suggestion)
			if tc.expect.Kind == suggest.KindNarrow {
				assert.Equal("he", rec.Suggestion.Partial)
				assert.Equal(suggest.Options("heal"), rec.Suggestion.Matches)
			}
		})
	}
}

func Test_Registry_DispatchContext(t *testing.T) {
	assert := assert.New(t)
	type ctxKey struct{}
	var seen any
	b := NewBuilder()
	b.MustRegister(Descriptor{
		Name:  "peek",
		Usage: "usage: peek",
		Operation: func(inv *Invocation) error {
			seen = inv.Context().Value(ctxKey{})
			return nil
		},
		Shape: func(c *suggest.Cursor) {},
	})
	reg := b.Build(Options{})

	ctx := context.WithValue(context.Background(), ctxKey{}, "carried")
	ok := reg.DispatchContext(ctx, command.Origin{}, "peek")

	assert.True(ok)
	assert.Equal("carried", seen)
}

func Test_Registry_Usages(t *testing.T) {
	assert := assert.New(t)
	reg, _ := testRegistry(&broadcasts{}, Options{})

	u := reg.Usages()
	names := u.Names()
	names[0] = "mutated"

	assert.Equal([]string{"again", "boom", "health", "quiet", "say"}, u.Names())
	usage, ok := u.Get("say")
	assert.True(ok)
	assert.Equal("usage: say <text>", usage)
	_, ok = u.Get("echo")
	assert.False(ok)
	assert.Equal(5, u.Len())
}

func Test_Builder_Register_rejects(t *testing.T) {
	op := func(inv *Invocation) error { return nil }
	shape := func(c *suggest.Cursor) {}

	testCases := []struct {
		name  string
		input Descriptor
	}{
		{name: "empty name", input: Descriptor{Operation: op, Shape: shape}},
		{name: "space in name", input: Descriptor{Name: "two words", Operation: op, Shape: shape}},
		{name: "no operation", input: Descriptor{Name: "x", Shape: shape}},
		{name: "no shape", input: Descriptor{Name: "x", Operation: op}},
		{name: "duplicate", input: Descriptor{Name: "taken", Operation: op, Shape: shape}},
		{name: "alias collides", input: Descriptor{Name: "y", Aliases: []string{"taken"}, Operation: op, Shape: shape}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			b := NewBuilder()
			b.MustRegister(Descriptor{Name: "taken", Operation: op, Shape: shape})

			err := b.Register(tc.input)

			assert.Error(err)
		})
	}
}

func Test_Builder_Build_isSnapshot(t *testing.T) {
	assert := assert.New(t)
	op := func(inv *Invocation) error { return nil }
	shape := func(c *suggest.Cursor) {}
	b := NewBuilder()
	b.MustRegister(Descriptor{Name: "first", Operation: op, Shape: shape})

	reg := b.Build(Options{})
	b.MustRegister(Descriptor{Name: "second", Operation: op, Shape: shape})

	_, ok := reg.Lookup("second")
	assert.False(ok)
	assert.Equal([]string{"first"}, reg.Usages().Names())
}
