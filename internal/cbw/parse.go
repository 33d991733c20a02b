package cbw

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dekarrin/cmdblock/internal/blocks"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/world"
	"github.com/dekarrin/cmdblock/internal/util"
	"github.com/dekarrin/cmdblock/internal/world/sim"
)

func parseScenario(cbw topLevelScenario) (Scenario, error) {
	scen := Scenario{
		Points: map[string]geom.Point3{},
	}
	isPlayerTemplate := util.NewFoldedSet(sim.PlayerTemplate).Has
	templates := util.NewFoldedSet(sim.PlayerTemplate)
	for i, t := range cbw.Templates {
		if err := checkID(t.ID); err != nil {
			return scen, fmt.Errorf("template[%d]: %w", i, err)
		}
		if templates.Has(t.ID) {
			return scen, fmt.Errorf("template[%d]: id %q is already defined", i, t.ID)
		}
		templates.Add(t.ID)

		display := t.Display
		if display == "" {
			display = t.ID
		}
		scen.Templates = append(scen.Templates, world.Template{Name: t.ID, Display: display})
	}

	players := map[string]bool{}
	for i, a := range cbw.Agents {
		if strings.TrimSpace(a.Name) == "" {
			return scen, fmt.Errorf("agent[%d]: name must not be blank", i)
		}
		pos, err := vector(a.Position)
		if err != nil {
			return scen, fmt.Errorf("agent %q: position: %w", a.Name, err)
		}

		if a.Player {
			if a.Template != "" && !isPlayerTemplate(a.Template) {
				return scen, fmt.Errorf("agent %q: players cannot have template %q", a.Name, a.Template)
			}
			if players[a.Name] {
				return scen, fmt.Errorf("agent %q: there is already a player with that name", a.Name)
			}
			players[a.Name] = true
		} else if !templates.Has(a.Template) || isPlayerTemplate(a.Template) {
			return scen, fmt.Errorf("agent %q: no template with id %q exists", a.Name, a.Template)
		}

		health := a.Health
		if health == 0 {
			health = 1
		}
		if health < 0 {
			return scen, fmt.Errorf("agent %q: health must be positive", a.Name)
		}

		scen.Agents = append(scen.Agents, Agent{
			Name:     a.Name,
			Template: a.Template,
			Position: pos,
			Player:   a.Player,
			Health:   health,
		})
	}

	chain := blocks.New()
	for i, b := range cbw.Blocks {
		at, err := toPoint(b.Position)
		if err != nil {
			return scen, fmt.Errorf("block[%d]: position: %w", i, err)
		}
		if _, exists := chain.Get(at); exists {
			return scen, fmt.Errorf("block[%d]: there is already a block at %s", i, at)
		}

		blk := blocks.Block{At: at, Command: b.Command}
		if b.Next != nil {
			next, err := toPoint(b.Next)
			if err != nil {
				return scen, fmt.Errorf("block at %s: next: %w", at, err)
			}
			blk.Next = &next
		}

		if err := chain.Place(blk); err != nil {
			return scen, fmt.Errorf("block[%d]: %w", i, err)
		}
	}
	for _, b := range chain.Blocks() {
		if _, err := chain.Path(b.At); err != nil {
			return scen, err
		}
	}
	scen.Blocks = chain.Blocks()

	for i, p := range cbw.Points {
		if err := checkID(p.Name); err != nil {
			return scen, fmt.Errorf("point[%d]: %w", i, err)
		}
		if _, exists := scen.Points[p.Name]; exists {
			return scen, fmt.Errorf("point %q: already defined", p.Name)
		}
		at, err := toPoint(p.Position)
		if err != nil {
			return scen, fmt.Errorf("point %q: position: %w", p.Name, err)
		}
		scen.Points[p.Name] = at
	}

	if cbw.Anchor != nil {
		at, err := toPoint(cbw.Anchor.Position)
		if err != nil {
			return scen, fmt.Errorf("anchor: position: %w", err)
		}
		scen.Anchor = at
	}

	return scen, nil
}

// checkID checks that id could be typed as a single command argument.
func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("id must not be blank")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 || strings.ContainsAny(id, `"\@`) {
		return fmt.Errorf("%q contains whitespace, quotes, backslashes, or @", id)
	}
	return nil
}

func toPoint(coords []int) (geom.Point3, error) {
	if len(coords) != 3 {
		return geom.Point3{}, fmt.Errorf("must have exactly 3 coordinates but has %d", len(coords))
	}
	return geom.Point3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func vector(coords []float64) (geom.Vector3, error) {
	if len(coords) != 3 {
		return geom.Vector3{}, fmt.Errorf("must have exactly 3 coordinates but has %d", len(coords))
	}
	return geom.Vector3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
