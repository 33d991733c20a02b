package command

import (
	"strconv"
	"strings"

	"github.com/dekarrin/cmdblock/internal/geom"
)

// Stream hands out the arguments of one command invocation in order. The
// first token is the command name and is never returned by the Next methods.
//
// A Stream is used by a single goroutine for a single invocation and is then
// discarded.
type Stream struct {
	tokens []string
	cur    int
	origin Origin
}

// NewStream tokenizes line and returns a Stream positioned at the first
// argument after the command name.
func NewStream(line string, origin Origin) *Stream {
	return FromTokens(Tokenize(line), origin)
}

// FromTokens returns a Stream over already tokenized text. tokens[0] is taken
// to be the command name.
func FromTokens(tokens []string, origin Origin) *Stream {
	toks := make([]string, len(tokens))
	copy(toks, tokens)

	cur := 1
	if len(toks) == 0 {
		cur = 0
	}

	return &Stream{
		tokens: toks,
		cur:    cur,
		origin: origin,
	}
}

// Name returns the command name, or "" if there were no tokens at all.
func (s *Stream) Name() string {
	if len(s.tokens) == 0 {
		return ""
	}
	return s.tokens[0]
}

// Tokens returns a copy of every token, including the command name.
func (s *Stream) Tokens() []string {
	toks := make([]string, len(s.tokens))
	copy(toks, s.tokens)
	return toks
}

// Origin returns where the command is being run from.
func (s *Stream) Origin() Origin {
	return s.origin
}

// HasNext returns whether any argument tokens remain.
func (s *Stream) HasNext() bool {
	return s.cur < len(s.tokens)
}

// Peek returns the next token without consuming it. It returns "" if no tokens
// remain.
func (s *Stream) Peek() string {
	if !s.HasNext() {
		return ""
	}
	return s.tokens[s.cur]
}

// Remaining returns the number of tokens not yet consumed.
func (s *Stream) Remaining() int {
	return len(s.tokens) - s.cur
}

func (s *Stream) next(expected string) (string, error) {
	if !s.HasNext() {
		after := ""
		if s.cur > 0 {
			after = s.tokens[s.cur-1]
		}
		return "", &ArgumentNotFoundError{Expected: expected, After: after}
	}
	tok := s.tokens[s.cur]
	s.cur++
	return tok, nil
}

// NextString returns the next token as-is.
func (s *Stream) NextString() (string, error) {
	return s.next(TypeString.String())
}

// NextBool reads the literal "true" or "false".
func (s *Stream) NextBool() (bool, error) {
	tok, err := s.next(TypeBool.String())
	if err != nil {
		return false, err
	}
	return parseBool(tok)
}

// NextInt reads a base-10 integer.
func (s *Stream) NextInt() (int, error) {
	tok, err := s.next(TypeInt.String())
	if err != nil {
		return 0, err
	}
	return parseInt(tok)
}

// NextFloat reads a decimal floating-point number.
func (s *Stream) NextFloat() (float64, error) {
	tok, err := s.next(TypeFloat.String())
	if err != nil {
		return 0, err
	}
	return parseFloat(tok)
}

// NextStringOr returns the next token, or def if no tokens remain.
func (s *Stream) NextStringOr(def string) string {
	if !s.HasNext() {
		return def
	}
	tok, _ := s.NextString()
	return tok
}

// NextBoolOr is NextBool but gives def if no tokens remain. A token that is
// present but not a boolean is still an error.
func (s *Stream) NextBoolOr(def bool) (bool, error) {
	v, err := s.NextBool()
	if IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// NextIntOr is NextInt but gives def if no tokens remain. A token that is
// present but not an integer is still an error.
func (s *Stream) NextIntOr(def int) (int, error) {
	v, err := s.NextInt()
	if IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// NextFloatOr is NextFloat but gives def if no tokens remain. A token that is
// present but not a float is still an error.
func (s *Stream) NextFloatOr(def float64) (float64, error) {
	v, err := s.NextFloat()
	if IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// NextPoint reads three coordinate tokens as an integer block position. Each
// token is an absolute number N, or ~ or ~N for an offset from the block
// containing the origin.
func (s *Stream) NextPoint() (geom.Point3, error) {
	base := s.origin.Position().Point()
	var p geom.Point3

	axes := []struct {
		dest *int
		base int
	}{{&p.X, base.X}, {&p.Y, base.Y}, {&p.Z, base.Z}}

	for _, a := range axes {
		tok, err := s.next(TypePoint3.String())
		if err != nil {
			return geom.Point3{}, err
		}
		v, err := intCoord(tok, a.base)
		if err != nil {
			return geom.Point3{}, err
		}
		*a.dest = v
	}

	return p, nil
}

// NextVector reads three coordinate tokens as a world position. Each token is
// an absolute number N, or ~ or ~N for an offset from the origin.
func (s *Stream) NextVector() (geom.Vector3, error) {
	base := s.origin.Position()
	var v geom.Vector3

	axes := []struct {
		dest *float64
		base float64
	}{{&v.X, base.X}, {&v.Y, base.Y}, {&v.Z, base.Z}}

	for _, a := range axes {
		tok, err := s.next(TypeVector3.String())
		if err != nil {
			return geom.Vector3{}, err
		}
		f, err := floatCoord(tok, a.base)
		if err != nil {
			return geom.Vector3{}, err
		}
		*a.dest = f
	}

	return v, nil
}

// NextPoint2 reads two coordinate tokens as an integer plane position relative
// to the X and Y of the origin.
func (s *Stream) NextPoint2() (geom.Point2, error) {
	base := s.origin.Position().Point()

	xTok, err := s.next(TypePoint2.String())
	if err != nil {
		return geom.Point2{}, err
	}
	x, err := intCoord(xTok, base.X)
	if err != nil {
		return geom.Point2{}, err
	}
	yTok, err := s.next(TypePoint2.String())
	if err != nil {
		return geom.Point2{}, err
	}
	y, err := intCoord(yTok, base.Y)
	if err != nil {
		return geom.Point2{}, err
	}

	return geom.Point2{X: x, Y: y}, nil
}

// NextVector2 reads two coordinate tokens as a plane position relative to the
// X and Y of the origin.
func (s *Stream) NextVector2() (geom.Vector2, error) {
	base := s.origin.Position()

	xTok, err := s.next(TypeVector2.String())
	if err != nil {
		return geom.Vector2{}, err
	}
	x, err := floatCoord(xTok, base.X)
	if err != nil {
		return geom.Vector2{}, err
	}
	yTok, err := s.next(TypeVector2.String())
	if err != nil {
		return geom.Vector2{}, err
	}
	y, err := floatCoord(yTok, base.Y)
	if err != nil {
		return geom.Vector2{}, err
	}

	return geom.Vector2{X: x, Y: y}, nil
}

// PeekPoint reads a point like NextPoint but leaves the stream where it was.
func (s *Stream) PeekPoint() (geom.Point3, error) {
	saved := s.cur
	defer func() { s.cur = saved }()
	return s.NextPoint()
}

// Rest consumes every remaining token and joins them with single spaces.
func (s *Stream) Rest() (string, error) {
	toks, err := s.RestTokens()
	if err != nil {
		return "", err
	}
	return strings.Join(toks, " "), nil
}

// RestTokens consumes every remaining token and returns them unchanged. Unlike
// Rest, tokens that contained whitespace keep their boundaries.
func (s *Stream) RestTokens() ([]string, error) {
	if !s.HasNext() {
		_, err := s.next(TypeString.String())
		return nil, err
	}
	toks := make([]string, len(s.tokens)-s.cur)
	copy(toks, s.tokens[s.cur:])
	s.cur = len(s.tokens)
	return toks, nil
}

func parseBool(tok string) (bool, error) {
	switch tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &WrongArgumentTypeError{Token: tok, Expected: TypeBool.String()}
	}
}

func parseInt(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &WrongArgumentTypeError{Token: tok, Expected: TypeInt.String()}
	}
	return v, nil
}

func parseFloat(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &WrongArgumentTypeError{Token: tok, Expected: TypeFloat.String()}
	}
	return v, nil
}

func intCoord(tok string, base int) (int, error) {
	rel, ok := strings.CutPrefix(tok, "~")
	if !ok {
		return parseInt(tok)
	}
	if rel == "" {
		return base, nil
	}
	off, err := parseInt(rel)
	if err != nil {
		return 0, &WrongArgumentTypeError{Token: tok, Expected: TypeInt.String()}
	}
	return base + off, nil
}

func floatCoord(tok string, base float64) (float64, error) {
	rel, ok := strings.CutPrefix(tok, "~")
	if !ok {
		return parseFloat(tok)
	}
	if rel == "" {
		return base, nil
	}
	off, err := parseFloat(rel)
	if err != nil {
		return 0, &WrongArgumentTypeError{Token: tok, Expected: TypeFloat.String()}
	}
	return base + off, nil
}
