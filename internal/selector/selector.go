// Package selector parses and evaluates agent selector queries such as
// @p or @e[name=Goblin,r=5].
//
// A selector starts with @ and a mode letter, optionally followed by filters
// in square brackets:
//
//	@a  every player
//	@r  one random player
//	@p  the nearest player
//	@e  every agent, players or not
//
// Filters are comma separated key=value pairs. An underscore in a key or
// value stands for a space. The recognized keys are:
//
//	r         radius around the origin. Positive keeps agents inside it,
//	          negative keeps agents at or beyond it.
//	name      display name, or template name in any case, to match. A
//	          leading ! negates it.
//	c         maximum number of agents to select.
//	x, y, z   replace one axis of the origin.
//	dx,dy,dz  half-extents of a box around the origin. All three must be
//	          given for the box to apply, and it replaces the radius.
//
// Unknown keys are ignored.
package selector

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/geom"
	"golang.org/x/text/cases"
)

// Mode is the selection strategy named by the letter after the @.
type Mode rune

const (
	ModeAll      Mode = 'a'
	ModeRandom   Mode = 'r'
	ModeNearest  Mode = 'p'
	ModeEntities Mode = 'e'
)

// Modes lists every selector literal without filters, in the order they are
// offered as completions.
var Modes = []string{"@a", "@r", "@p", "@e"}

// ModeDescriptions describes each selector literal for completion listings.
var ModeDescriptions = map[string]string{
	"@a": "all players",
	"@r": "a random player",
	"@p": "the nearest player",
	"@e": "all agents",
}

// IsPlayersOnly returns whether the mode only considers players.
func (m Mode) IsPlayersOnly() bool {
	return m != ModeEntities
}

// Agent is the view of a world agent that selection needs.
type Agent interface {
	Name() string
	TemplateName() string
	Position() geom.Vector3
	IsPlayer() bool
}

// SyntaxError is returned when text is not a selector at all.
type SyntaxError struct {
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s; use @a/r/p/e[<key>=<value>,...] to select agents", e.Text, e.Reason)
}

// Query is a parsed selector.
type Query struct {
	Mode Mode

	// Origin is the point distances are measured from.
	Origin geom.Vector3

	// Name filters on template or display name when not empty.
	Name string

	// NegateName inverts the Name filter.
	NegateName bool

	// Count is the most agents that will be selected.
	Count int

	// Radius limits by distance from Origin. Zero disables it.
	Radius float64

	// Extent holds the box half-extents. It only applies when HasVolume is
	// set, and then Radius is ignored.
	Extent    geom.Vector3
	HasVolume bool
}

// IsSelector returns whether text looks like a selector rather than a name.
func IsSelector(text string) bool {
	return strings.HasPrefix(text, "@")
}

// Parse reads a selector. origin is where distances are measured from unless
// overridden by x, y, or z filters. defaultCount is the count used by the @a
// and @e modes when no c filter is given; it is usually the number of agents
// known to the world.
func Parse(text string, origin geom.Vector3, defaultCount int) (Query, error) {
	if !IsSelector(text) || len(text) < 2 {
		return Query{}, &SyntaxError{Text: text, Reason: "not a selector"}
	}

	q := Query{Mode: Mode(text[1]), Origin: origin}
	switch q.Mode {
	case ModeAll, ModeEntities:
		q.Count = defaultCount
	case ModeRandom, ModeNearest:
		q.Count = 1
	default:
		return Query{}, &SyntaxError{Text: text, Reason: fmt.Sprintf("unknown mode %q", text[1:2])}
	}

	filters := text[2:]
	if filters == "" {
		return q, nil
	}
	if filters[0] != '[' {
		return Query{}, &SyntaxError{Text: text, Reason: "filters must be in square brackets"}
	}
	filters = filters[1:]
	if end := strings.IndexByte(filters, ']'); end >= 0 {
		if end != len(filters)-1 {
			return Query{}, &SyntaxError{Text: text, Reason: "unexpected text after ]"}
		}
		filters = filters[:end]
	}

	var dx, dy, dz *int
	for _, pair := range strings.Split(filters, ",") {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Query{}, &SyntaxError{Text: text, Reason: fmt.Sprintf("filter %q has no value", pair)}
		}
		key = strings.ReplaceAll(key, "_", " ")
		value = strings.ReplaceAll(value, "_", " ")

		switch key {
		case "name":
			q.Name, q.NegateName = strings.CutPrefix(value, "!")
			q.NegateName = q.NegateName && q.Name != ""
		case "r":
			n, err := filterInt(value)
			if err != nil {
				return Query{}, err
			}
			q.Radius = float64(n)
		case "c":
			n, err := filterInt(value)
			if err != nil {
				return Query{}, err
			}
			q.Count = n
		case "x", "y", "z":
			n, err := filterInt(value)
			if err != nil {
				return Query{}, err
			}
			switch key {
			case "x":
				q.Origin.X = float64(n)
			case "y":
				q.Origin.Y = float64(n)
			case "z":
				q.Origin.Z = float64(n)
			}
		case "dx", "dy", "dz":
			n, err := filterInt(value)
			if err != nil {
				return Query{}, err
			}
			switch key {
			case "dx":
				dx = &n
			case "dy":
				dy = &n
			case "dz":
				dz = &n
			}
		}
	}

	if dx != nil && dy != nil && dz != nil {
		q.HasVolume = true
		q.Extent = geom.Vector3{
			X: math.Abs(float64(*dx)),
			Y: math.Abs(float64(*dy)),
			Z: math.Abs(float64(*dz)),
		}
	}

	return q, nil
}

func filterInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &command.WrongArgumentTypeError{Token: value, Expected: command.TypeInt.String()}
	}
	return n, nil
}

// Select returns the agents the query picks out of agents. rnd is used by the
// random mode; if it is nil, a time-seeded source is used.
func (q Query) Select(agents []Agent, rnd *rand.Rand) []Agent {
	var picked []Agent
	for _, a := range agents {
		if q.Mode.IsPlayersOnly() && !a.IsPlayer() {
			continue
		}
		if !q.matchesName(a) || !q.inRange(a) {
			continue
		}
		picked = append(picked, a)
	}

	switch q.Mode {
	case ModeRandom:
		if rnd == nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		for i := len(picked) - 1; i > 0; i-- {
			j := rnd.Intn(i + 1)
			picked[i], picked[j] = picked[j], picked[i]
		}
	case ModeNearest:
		sort.SliceStable(picked, func(i, j int) bool {
			return picked[i].Position().DistanceSquared(q.Origin) < picked[j].Position().DistanceSquared(q.Origin)
		})
	}

	n := q.Count
	if n < 0 {
		n = 0
	}
	if n < len(picked) {
		picked = picked[:n]
	}
	return picked
}

// Each calls fn with every agent the query selects, in selection order. It
// stops at and returns the first error fn returns.
func (q Query) Each(agents []Agent, rnd *rand.Rand, fn func(Agent) error) error {
	for _, a := range q.Select(agents, rnd) {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

func (q Query) matchesName(a Agent) bool {
	if q.Name == "" {
		return true
	}
	fold := cases.Fold()
	match := q.Name == a.Name() || fold.String(q.Name) == fold.String(a.TemplateName())
	return match != q.NegateName
}

func (q Query) inRange(a Agent) bool {
	pos := a.Position()

	if q.HasVolume {
		d := pos.Sub(q.Origin)
		return math.Abs(d.X) <= q.Extent.X && math.Abs(d.Y) <= q.Extent.Y && math.Abs(d.Z) <= q.Extent.Z
	}

	if q.Radius == 0 {
		return true
	}
	distSq := pos.DistanceSquared(q.Origin)
	rSq := q.Radius * q.Radius
	if q.Radius > 0 {
		return distSq < rSq
	}
	return distSq >= rSq
}
