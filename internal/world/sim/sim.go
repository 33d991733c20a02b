// Package sim is a small in-memory world that performs every world.Action.
// It backs the interactive interpreter, the server, and tests.
//
// A World is not safe for concurrent use; callers serialize access to it.
package sim

import (
	"fmt"
	"math"

	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/world"
	"golang.org/x/text/cases"
)

// PlayerTemplate is the template name of every player.
const PlayerTemplate = "player"

// MaxFillVolume is the largest number of blocks a single Fill may change.
const MaxFillVolume = 32768

// MessageLimit is how many of the most recent messages a World keeps.
const MessageLimit = 1000

// Message is something shown to players.
type Message struct {
	// To is the display name of the player, or "" for a broadcast.
	To string

	Text  string
	Title string
}

// Item is a stack of items lying in the world.
type Item struct {
	At       geom.Vector3
	Value    int
	Count    int
	Velocity geom.Vector3
}

// World is an in-memory world.Host.
type World struct {
	creatures []*Creature
	templates []world.Template
	byFolded  map[string]world.Template

	blocks    map[geom.Point3]int
	items     []Item
	strikes   []geom.Point3
	timeOfDay float64
	messages  []Message

	dayLength   float64
	pvp         bool
	environment string

	props    *world.Table[world.Property]
	settings *world.Table[world.Setting]

	// OnMessage, if set, is called with every message as it is shown.
	OnMessage func(m Message)
}

// New creates an empty World that can summon the given templates.
func New(templates ...world.Template) *World {
	w := &World{
		blocks:      map[geom.Point3]int{},
		byFolded:    map[string]world.Template{},
		dayLength:   1200,
		environment: "survival",
	}
	for _, t := range templates {
		w.AddTemplate(t)
	}

	var err error
	w.props, err = world.NewTable(creatureProperties()...)
	if err != nil {
		panic(fmt.Sprintf("building property table: %v", err))
	}
	w.settings, err = world.NewTable(w.worldSettings()...)
	if err != nil {
		panic(fmt.Sprintf("building settings table: %v", err))
	}
	return w
}

// AddTemplate makes a creature kind summonable. Template names are matched
// without regard to case.
func (w *World) AddTemplate(t world.Template) {
	if t.Display == "" {
		t.Display = t.Name
	}
	key := cases.Fold().String(t.Name)
	if _, exists := w.byFolded[key]; !exists {
		w.templates = append(w.templates, t)
	}
	w.byFolded[key] = t
}

// Template returns the template with the given name, ignoring case.
func (w *World) Template(name string) (world.Template, bool) {
	t, ok := w.byFolded[cases.Fold().String(name)]
	return t, ok
}

// Spawn adds a creature to the world.
func (w *World) Spawn(c *Creature) {
	w.creatures = append(w.creatures, c)
}

// Creature returns the creature for a world agent.
func (w *World) Creature(a world.Agent) (*Creature, error) {
	c, ok := a.(*Creature)
	if !ok {
		return nil, fmt.Errorf("agent %q does not belong to this world", a.Name())
	}
	return c, nil
}

// Agents returns every living creature in the order they were spawned.
func (w *World) Agents() []world.Agent {
	var agents []world.Agent
	for _, c := range w.creatures {
		if !c.Dead {
			agents = append(agents, c)
		}
	}
	return agents
}

// Players returns every living player.
func (w *World) Players() []world.Agent {
	var players []world.Agent
	for _, c := range w.creatures {
		if c.player && !c.Dead {
			players = append(players, c)
		}
	}
	return players
}

// Templates returns every summonable kind in the order added.
func (w *World) Templates() []world.Template {
	ts := make([]world.Template, len(w.templates))
	copy(ts, w.templates)
	return ts
}

// Broadcast shows msg to every player.
func (w *World) Broadcast(msg string) {
	w.show(Message{Text: msg})
}

func (w *World) show(m Message) {
	if len(w.messages) >= MessageLimit {
		n := copy(w.messages, w.messages[len(w.messages)-MessageLimit+1:])
		w.messages = w.messages[:n]
	}
	w.messages = append(w.messages, m)
	if w.OnMessage != nil {
		w.OnMessage(m)
	}
}

// Messages returns the last MessageLimit messages shown, oldest first.
func (w *World) Messages() []Message {
	msgs := make([]Message, len(w.messages))
	copy(msgs, w.messages)
	return msgs
}

// Block returns the value of the block at p. Unset blocks are air, 0.
func (w *World) Block(p geom.Point3) int {
	return w.blocks[p]
}

// Items returns the items lying in the world.
func (w *World) Items() []Item {
	items := make([]Item, len(w.items))
	copy(items, w.items)
	return items
}

// Strikes returns every block lightning has struck.
func (w *World) Strikes() []geom.Point3 {
	s := make([]geom.Point3, len(w.strikes))
	copy(s, w.strikes)
	return s
}

// TimeOfDay returns the time of day in [0, 1).
func (w *World) TimeOfDay() float64 {
	return w.timeOfDay
}

// Properties returns the creature properties that setdata can change.
func (w *World) Properties() *world.Table[world.Property] {
	return w.props
}

// Settings returns the world settings that gameinfo can change.
func (w *World) Settings() *world.Table[world.Setting] {
	return w.settings
}

// Apply performs a single action.
func (w *World) Apply(a world.Action) error {
	switch act := a.(type) {
	case world.ShowMessage:
		w.show(Message{To: act.To.Name(), Text: act.Text})
	case world.ShowLargeMessage:
		w.show(Message{To: act.To.Name(), Title: act.Title, Text: act.Subtitle})
	case world.Kill:
		c, err := w.Creature(act.Target)
		if err != nil {
			return err
		}
		c.Health = 0
		c.Dead = true
	case world.Injure:
		c, err := w.Creature(act.Target)
		if err != nil {
			return err
		}
		if act.Amount < 0 {
			return cberrors.Operationf("cannot injure by a negative amount")
		}
		c.Health = math.Max(0, c.Health-act.Amount*c.MaxHealth)
		if c.Health == 0 {
			c.Dead = true
		}
	case world.Heal:
		c, err := w.Creature(act.Target)
		if err != nil {
			return err
		}
		if act.Amount < 0 {
			return cberrors.Operationf("cannot heal by a negative amount")
		}
		c.Health = math.Min(c.MaxHealth, c.Health+act.Amount*c.MaxHealth)
	case world.Strike:
		w.strikes = append(w.strikes, act.At)
	case world.SetBlock:
		if act.Value < 0 {
			return cberrors.Operationf("%d is not a block value", act.Value)
		}
		w.setBlock(act.At, act.Value)
	case world.PlaceBlock:
		if act.Value < 0 {
			return cberrors.Operationf("%d is not a block value", act.Value)
		}
		if old := w.blocks[act.At]; act.DropOld && old != 0 {
			w.items = append(w.items, Item{At: act.At.Vector(), Value: old, Count: 1})
		}
		w.setBlock(act.At, act.Value)
	case world.Fill:
		if act.Value < 0 {
			return cberrors.Operationf("%d is not a block value", act.Value)
		}
		if vol := act.Region.Volume(); vol > MaxFillVolume {
			return cberrors.Operationf("cannot fill %d blocks at once; the limit is %d", vol, MaxFillVolume)
		}
		act.Region.Each(func(p geom.Point3) { w.setBlock(p, act.Value) })
	case world.SetTime:
		w.timeOfDay = wrapDay(act.Of)
	case world.AddTime:
		w.timeOfDay = wrapDay(w.timeOfDay + act.Delta)
	case world.Summon:
		t, ok := w.Template(act.Template)
		if !ok {
			return cberrors.Operationf("there is no creature called %s", act.Template)
		}
		c := NewCreature(t.Display, t.Name, act.At)
		c.Rotation = act.Rotation
		w.Spawn(c)
	case world.Teleport:
		c, err := w.Creature(act.Target)
		if err != nil {
			return err
		}
		c.Pos = act.To
	case world.AddItem:
		if act.Count < 1 {
			return cberrors.Operationf("cannot add %d items", act.Count)
		}
		item := Item{At: act.At, Value: act.Value, Count: act.Count}
		if act.Velocity != nil {
			item.Velocity = *act.Velocity
		}
		w.items = append(w.items, item)
	case world.Give:
		c, err := w.Creature(act.To)
		if err != nil {
			return err
		}
		if c.Inventory == nil {
			return cberrors.Operationf("%s cannot carry items", c.Name())
		}
		if act.Count < 1 {
			return cberrors.Operationf("cannot give %d items", act.Count)
		}
		c.Inventory[act.Value] += act.Count
	case world.SetProperty:
		prop, ok := w.props.Lookup(act.Property)
		if !ok {
			return cberrors.Operationf("there is no property called %s", act.Property)
		}
		return prop.Set(act.Target, act.Value)
	case world.SetSetting:
		setting, ok := w.settings.Lookup(act.Setting)
		if !ok {
			return cberrors.Operationf("there is no setting called %s", act.Setting)
		}
		return setting.Set(act.Value)
	default:
		return fmt.Errorf("unsupported action %T", a)
	}
	return nil
}

func (w *World) setBlock(p geom.Point3, value int) {
	if value == 0 {
		delete(w.blocks, p)
		return
	}
	w.blocks[p] = value
}

func wrapDay(t float64) float64 {
	t = math.Mod(t, 1)
	if t < 0 {
		t++
	}
	return t
}
