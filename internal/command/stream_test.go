package command

import (
	"testing"

	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/stretchr/testify/assert"
)

type testActor struct {
	pos geom.Vector3
}

func (a *testActor) Name() string           { return "tester" }
func (a *testActor) Position() geom.Vector3 { return a.pos }

func Test_Stream_typedReads(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(`cmd word true 42 -3.5 "two words"`, Origin{})

	assert.Equal("cmd", s.Name())

	str, err := s.NextString()
	assert.NoError(err)
	assert.Equal("word", str)

	b, err := s.NextBool()
	assert.NoError(err)
	assert.True(b)

	i, err := s.NextInt()
	assert.NoError(err)
	assert.Equal(42, i)

	f, err := s.NextFloat()
	assert.NoError(err)
	assert.Equal(-3.5, f)

	assert.Equal("two words", s.Peek())
	rest, err := s.Rest()
	assert.NoError(err)
	assert.Equal("two words", rest)

	assert.False(s.HasNext())
	assert.Equal("", s.Peek())
}

func Test_Stream_errors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		read      func(s *Stream) error
		expectNF  bool
		expectWT  bool
		expectMsg string
	}{
		{
			name:      "missing int",
			input:     "give @a",
			read:      func(s *Stream) error { s.NextString(); _, err := s.NextInt(); return err },
			expectNF:  true,
			expectMsg: "another integer is expected after @a",
		},
		{
			name:      "bad int",
			input:     "give x",
			read:      func(s *Stream) error { _, err := s.NextInt(); return err },
			expectWT:  true,
			expectMsg: "x is not an integer",
		},
		{
			name:      "bool is literal only",
			input:     "msg yes",
			read:      func(s *Stream) error { _, err := s.NextBool(); return err },
			expectWT:  true,
			expectMsg: "yes is not a boolean",
		},
		{
			name:      "bad float",
			input:     "time set noon",
			read:      func(s *Stream) error { s.NextString(); _, err := s.NextFloat(); return err },
			expectWT:  true,
			expectMsg: "noon is not a float",
		},
		{
			name:      "rest with nothing left",
			input:     "execute",
			read:      func(s *Stream) error { _, err := s.Rest(); return err },
			expectNF:  true,
			expectMsg: "another string is expected after execute",
		},
		{
			name:     "point with too few tokens",
			input:    "tp 1 2",
			read:     func(s *Stream) error { _, err := s.NextPoint(); return err },
			expectNF: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.read(NewStream(tc.input, Origin{}))

			assert.Equal(tc.expectNF, IsNotFound(err), "not found")
			assert.Equal(tc.expectWT, IsWrongType(err), "wrong type")
			if tc.expectMsg != "" {
				assert.EqualError(err, tc.expectMsg)
			}
		})
	}
}

func Test_Stream_defaults(t *testing.T) {
	assert := assert.New(t)

	s := NewStream("give 5", Origin{})

	n, err := s.NextInt()
	assert.NoError(err)
	assert.Equal(5, n)

	n, err = s.NextIntOr(7)
	assert.NoError(err)
	assert.Equal(7, n)

	b, err := s.NextBoolOr(true)
	assert.NoError(err)
	assert.True(b)

	f, err := s.NextFloatOr(1.5)
	assert.NoError(err)
	assert.Equal(1.5, f)

	assert.Equal("magic", s.NextStringOr("magic"))
}

func Test_Stream_defaultsDoNotHideWrongType(t *testing.T) {
	assert := assert.New(t)

	s := NewStream("health heal @a lots", Origin{})
	s.NextString()
	s.NextString()

	_, err := s.NextFloatOr(1)

	assert.True(IsWrongType(err))
}

func Test_Stream_NextPoint(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		origin    Origin
		expect    geom.Point3
		expectErr bool
	}{
		{
			name:   "absolute",
			input:  "tp 1 2 3",
			origin: AnchorOrigin(geom.Point3{X: 10, Y: 20, Z: 30}),
			expect: geom.Point3{X: 1, Y: 2, Z: 3},
		},
		{
			name:   "relative to anchor",
			input:  "tp ~ ~5 10",
			origin: AnchorOrigin(geom.Point3{X: 10, Y: 20, Z: 30}),
			expect: geom.Point3{X: 10, Y: 25, Z: 10},
		},
		{
			name:   "negative offset",
			input:  "tp ~-1 ~ ~-30",
			origin: AnchorOrigin(geom.Point3{X: 10, Y: 20, Z: 30}),
			expect: geom.Point3{X: 9, Y: 20, Z: 0},
		},
		{
			name:   "relative to agent rounds position",
			input:  "tp ~ ~1 ~",
			origin: AgentOrigin(&testActor{pos: geom.Vector3{X: 1.6, Y: 2.2, Z: -0.7}}),
			expect: geom.Point3{X: 2, Y: 3, Z: -1},
		},
		{
			name:      "fractional offset is not a point",
			input:     "tp ~0.5 1 1",
			origin:    Origin{},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := NewStream(tc.input, tc.origin).NextPoint()
			if tc.expectErr {
				assert.True(IsWrongType(err))
				return
			} else if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Stream_NextVector(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		origin Origin
		expect geom.Vector3
	}{
		{
			name:   "relative to agent",
			input:  "tp ~ ~5 10",
			origin: AgentOrigin(&testActor{pos: geom.Vector3{X: 1.5, Y: 2.25, Z: 3}}),
			expect: geom.Vector3{X: 1.5, Y: 7.25, Z: 10},
		},
		{
			name:   "fractional offsets",
			input:  "tp ~0.5 ~-0.25 2.5",
			origin: AnchorOrigin(geom.Point3{X: 1, Y: 1, Z: 1}),
			expect: geom.Vector3{X: 1.5, Y: 0.75, Z: 2.5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := NewStream(tc.input, tc.origin).NextVector()
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Stream_agentPositionIsLive(t *testing.T) {
	assert := assert.New(t)
	actor := &testActor{pos: geom.Vector3{X: 0, Y: 0, Z: 0}}

	s := NewStream("tp ~ ~ ~ ~ ~ ~", AgentOrigin(actor))

	first, err := s.NextVector()
	assert.NoError(err)
	actor.pos = geom.Vector3{X: 5, Y: 5, Z: 5}
	second, err := s.NextVector()
	assert.NoError(err)

	assert.Equal(geom.Vector3{}, first)
	assert.Equal(geom.Vector3{X: 5, Y: 5, Z: 5}, second)
}

func Test_Stream_PeekPoint(t *testing.T) {
	assert := assert.New(t)

	s := NewStream("fill 1 2 3 4 5 6 7", Origin{})

	peeked, err := s.PeekPoint()
	assert.NoError(err)
	read, err := s.NextPoint()
	assert.NoError(err)

	assert.Equal(peeked, read)
	assert.Equal("4", s.Peek())
}

func Test_Stream_RestTokens(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(`execute @a msg @s "hi there"`, Origin{})
	s.NextString()

	toks, err := s.RestTokens()

	assert.NoError(err)
	assert.Equal([]string{"msg", "@s", "hi there"}, toks)
	assert.Equal(0, s.Remaining())
}

func Test_Stream_NextTyped(t *testing.T) {
	origin := AnchorOrigin(geom.Point3{X: 1, Y: 1, Z: 1})

	testCases := []struct {
		name   string
		input  string
		tag    TypeTag
		expect any
	}{
		{name: "string", input: "setdata x", tag: TypeString, expect: "x"},
		{name: "bool", input: "setdata false", tag: TypeBool, expect: false},
		{name: "int", input: "setdata -4", tag: TypeInt, expect: -4},
		{name: "float", input: "setdata 0.5", tag: TypeFloat, expect: 0.5},
		{name: "point2", input: "setdata ~1 2", tag: TypePoint2, expect: geom.Point2{X: 2, Y: 2}},
		{name: "vector2", input: "setdata 0.5 ~", tag: TypeVector2, expect: geom.Vector2{X: 0.5, Y: 1}},
		{name: "point3", input: "setdata ~ ~ ~", tag: TypePoint3, expect: geom.Point3{X: 1, Y: 1, Z: 1}},
		{name: "vector3", input: "setdata 1 2 3", tag: TypeVector3, expect: geom.Vector3{X: 1, Y: 2, Z: 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := NewStream(tc.input, origin).NextTyped(tc.tag)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ParseTypeTag(t *testing.T) {
	assert := assert.New(t)

	tag, err := ParseTypeTag("Float")
	assert.NoError(err)
	assert.Equal(TypeFloat, tag)

	_, err = ParseTypeTag("quaternion")
	assert.Error(err)
}

func Test_FromTokens_empty(t *testing.T) {
	assert := assert.New(t)

	s := FromTokens(nil, Origin{})

	assert.Equal("", s.Name())
	assert.False(s.HasNext())
}
