package suggest

import (
	"strings"
	"testing"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/stretchr/testify/assert"
)

func run(line string, shape func(c *Cursor)) (*Cursor, *Recorder) {
	rec := &Recorder{}
	c := NewCursor(command.NewStream(line, command.Origin{}), command.EndsReady(line), rec)
	shape(c)
	return c, rec
}

func healthShape(c *Cursor) {
	c.Enum("heal", "injure").Selector().Float().Text()
}

func Test_Cursor_health(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectGot bool
		expect    Suggestion
	}{
		{
			name:      "choose action",
			input:     "health ",
			expectGot: true,
			expect:    Choose(Options("heal", "injure")),
		},
		{
			name:      "narrow partial action",
			input:     "health he",
			expectGot: true,
			expect: Suggestion{
				Kind:    KindNarrow,
				Partial: "he",
				Options: Options("heal", "injure"),
				Matches: Options("heal"),
			},
		},
		{
			name:      "typing a valid action suggests nothing",
			input:     "health heal",
			expectGot: false,
		},
		{
			name:      "expect float after selector",
			input:     "health heal @p ",
			expectGot: true,
			expect:    Expect(command.TypeFloat),
		},
		{
			name:      "wrong type is an error",
			input:     "health heal @p lots ",
			expectGot: true,
			expect:    Error("lots is not a float"),
		},
		{
			name:      "everything given",
			input:     "health heal @p 2 fire",
			expectGot: false,
		},
		{
			name:      "expect reason",
			input:     "health injure @a 2 ",
			expectGot: true,
			expect:    Expect(command.TypeString),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			c, rec := run(tc.input, healthShape)

			assert.True(c.Done() || !tc.expectGot)
			assert.Equal(tc.expectGot, rec.Got)
			if tc.expectGot {
				assert.Equal(tc.expect, rec.Suggestion)
				assert.ErrorIs(c.Err(), ErrSuggestionEmitted)
			} else {
				assert.NoError(c.Err())
			}
		})
	}
}

func Test_Cursor_onlyOneSuggestion(t *testing.T) {
	assert := assert.New(t)
	count := 0
	sink := SinkFunc(func(s Suggestion) { count++ })

	c := NewCursor(command.NewStream("cmd ", command.Origin{}), true, sink)
	c.Int().Int().Float().Enum("a").Rest()

	assert.Equal(1, count)
	assert.True(c.Done())
}

func Test_Cursor_selector(t *testing.T) {
	players := []string{"Alice", "Bob"}

	testCases := []struct {
		name       string
		input      string
		target     bool
		expectGot  bool
		expectKind Kind
		expectVals []string
	}{
		{
			name:       "missing selector offers modes",
			input:      "kill ",
			expectGot:  true,
			expectKind: KindChoose,
			expectVals: []string{"@a", "@r", "@p", "@e"},
		},
		{
			name:       "missing target offers modes and players",
			input:      "give ",
			target:     true,
			expectGot:  true,
			expectKind: KindChoose,
			expectVals: []string{"@a", "@r", "@p", "@e", "Alice", "Bob"},
		},
		{
			name:       "bare at narrows to modes",
			input:      "kill @",
			expectGot:  true,
			expectKind: KindNarrow,
			expectVals: []string{"@a", "@r", "@p", "@e"},
		},
		{
			name:      "open filter is still being typed",
			input:     "kill @e[na",
			expectGot: false,
		},
		{
			name:       "unknown mode while typing narrows",
			input:      "kill @z",
			expectGot:  true,
			expectKind: KindNarrow,
		},
		{
			name:       "unknown mode while typing a target narrows",
			input:      "give @z",
			target:     true,
			expectGot:  true,
			expectKind: KindNarrow,
		},
		{
			name:       "finished unknown mode is an error",
			input:      "kill @z ",
			expectGot:  true,
			expectKind: KindError,
		},
		{
			name:       "bad mode is an error",
			input:      "kill @q ",
			expectGot:  true,
			expectKind: KindError,
		},
		{
			name:       "plain name narrows for kill",
			input:      "kill Alice",
			expectGot:  true,
			expectKind: KindNarrow,
		},
		{
			name:       "player name accepted by target",
			input:      "give Alice ",
			target:     true,
			expectGot:  true,
			expectKind: KindExpect,
		},
		{
			name:       "partial player name narrows",
			input:      "give Ali",
			target:     true,
			expectGot:  true,
			expectKind: KindNarrow,
			expectVals: []string{"Alice"},
		},
		{
			name:       "full selector accepted",
			input:      "kill @e[name=Goblin,r=5] ",
			expectGot:  true,
			expectKind: KindExpect,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, rec := run(tc.input, func(c *Cursor) {
				if tc.target {
					c.Target(players).Int()
				} else {
					c.Selector().Int()
				}
			})

			assert.Equal(tc.expectGot, rec.Got)
			if !tc.expectGot {
				return
			}
			assert.Equal(tc.expectKind, rec.Suggestion.Kind)
			if tc.expectKind == KindNarrow {
				assert.Equal(strings.Fields(tc.input)[1], rec.Suggestion.Partial)
			}

			if tc.expectVals != nil {
				opts := rec.Suggestion.Options
				if tc.expectKind == KindNarrow {
					opts = rec.Suggestion.Matches
				}
				var vals []string
				for _, o := range opts {
					vals = append(vals, o.Value)
				}
				assert.Equal(tc.expectVals, vals)
			}
		})
	}
}

func Test_Cursor_points(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectGot bool
		expect    Suggestion
	}{
		{name: "partial point while typing", input: "tp 1 2", expectGot: false},
		{name: "partial point ready", input: "tp 1 2 ", expectGot: true, expect: Expect(command.TypeVector3)},
		{name: "relative coordinates", input: "tp ~ ~1 ~ ", expectGot: true, expect: Expect(command.TypeInt)},
		{name: "bad coordinate", input: "tp ~ x", expectGot: true, expect: Error("x is not a float")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, rec := run(tc.input, func(c *Cursor) { c.Vector().Int() })

			assert.Equal(tc.expectGot, rec.Got)
			if tc.expectGot {
				assert.Equal(tc.expect, rec.Suggestion)
			}
		})
	}
}

func Test_Cursor_Custom(t *testing.T) {
	assert := assert.New(t)

	_, rec := run("point set ", func(c *Cursor) { c.Enum("set").Custom("point name", nil) })
	assert.Equal(ExpectType("point name"), rec.Suggestion)

	_, rec = run("point set x ", func(c *Cursor) { c.Enum("set").Custom("point name", nil).Point() })
	assert.Equal(Expect(command.TypePoint3), rec.Suggestion)
}

func Test_Cursor_Nested(t *testing.T) {
	assert := assert.New(t)
	var gotTokens []string
	var gotReady bool

	c, rec := run(`execute @a msg @s "hi there" `, func(c *Cursor) {
		c.Selector().Nested(func(tokens []string, ready bool, sink Sink) {
			gotTokens = tokens
			gotReady = ready
			sink.Suggest(Expect(command.TypeBool))
		})
	})

	assert.Equal([]string{"msg", "@s", "hi there"}, gotTokens)
	assert.True(gotReady)
	assert.True(rec.Got)
	assert.Equal(Expect(command.TypeBool), rec.Suggestion)
	assert.ErrorIs(c.Err(), ErrSuggestionEmitted)
}

func Test_Cursor_Nested_lineNotStarted(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectCalled bool
		expectGot    bool
	}{
		{
			name:         "selector still being typed",
			input:        "execute @a",
			expectCalled: false,
			expectGot:    false,
		},
		{
			name:         "selector finished",
			input:        "execute @a ",
			expectCalled: true,
			expectGot:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			called := false

			c, rec := run(tc.input, func(c *Cursor) {
				c.Selector().Nested(func(tokens []string, ready bool, sink Sink) {
					called = true
					assert.Empty(tokens)
					sink.Suggest(Choose(Options("msg", "time")))
				})
			})

			assert.Equal(tc.expectCalled, called)
			assert.Equal(tc.expectGot, rec.Got)
			assert.True(c.Done())
		})
	}
}

func Test_Cursor_Then(t *testing.T) {
	assert := assert.New(t)

	shape := func(c *Cursor) {
		c.Enum("add", "set").Then(func(c *Cursor) {
			if c.Last() == "set" {
				c.Float()
			} else {
				c.Int()
			}
		})
	}

	_, rec := run("time set ", shape)
	assert.Equal(Expect(command.TypeFloat), rec.Suggestion)

	_, rec = run("time add ", shape)
	assert.Equal(Expect(command.TypeInt), rec.Suggestion)
}

func Test_Narrow(t *testing.T) {
	assert := assert.New(t)

	s := Narrow("OB", Options("goblin", "bob", "wolf"))

	assert.Equal(KindNarrow, s.Kind)
	assert.Equal(Options("goblin", "bob"), s.Matches)
	assert.Len(s.Options, 3)
}
