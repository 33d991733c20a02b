// Package cbw has functions for loading scenarios using the CBW (Command Block
// World) file format, a TOML-based format that lists the creature templates,
// agents, command blocks, and named points a world starts with.
package cbw

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/cmdblock/internal/blocks"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/util"
	"github.com/dekarrin/cmdblock/internal/world"
	"github.com/dekarrin/cmdblock/internal/world/sim"
	"github.com/dekarrin/cmdblock/server/dao"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when manifests include
	// other manifests more than MaxManifestRecursionDepth levels deep.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest includes,
	// directly or not, itself.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest contains data loaded from a CBW Manifest file.
type Manifest struct {
	Files []string
}

// Agent is a creature or player that a scenario starts with.
type Agent struct {
	Name     string
	Template string
	Position geom.Vector3
	Player   bool

	// Health is the agent's maximum health. It starts at full health.
	Health float64
}

// Scenario contains data loaded from one or more CBW Data files.
type Scenario struct {
	Templates []world.Template
	Agents    []Agent
	Blocks    []blocks.Block

	// Points are named points to store before the first command runs.
	Points map[string]geom.Point3

	// Anchor is where commands typed at a console that is not a player run
	// from.
	Anchor geom.Point3
}

// FileInfo contains the essential information all CBW format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadResourceBundle loads a scenario from the given CBW file. The file can
// either be "DATA" type or "MANIFEST" type; if it's manifest type, the files
// listed in it relative to it are loaded as well, recursively. Everything
// loaded is combined before being checked.
func LoadResourceBundle(path string) (Scenario, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return Scenario{}, err
	}

	return parseScenario(unmarshaled)
}

// LoadManifestFile loads manifest data from a CBW file.
func LoadManifestFile(path string) (Manifest, error) {
	manifestData, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Files: unmarshaled.Files}, nil
}

// LoadScenarioFile loads a scenario from a single data file.
func LoadScenarioFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	return ParseScenario(data)
}

// ParseScenario reads a scenario from the contents of a data file.
func ParseScenario(data []byte) (Scenario, error) {
	unmarshaled, err := unmarshalScenario(data)
	if err != nil {
		return Scenario{}, err
	}
	return parseScenario(unmarshaled)
}

// ScanFileInfo reads the CBW header from data. Only the bytes up to the first
// table header are parsed.
func ScanFileInfo(data []byte) (FileInfo, error) {
	var topLevelEnd int = -1
	var onNewLine bool
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

// Populate adds the scenario's templates and agents to w and its command
// blocks to chain.
func (s Scenario) Populate(w *sim.World, chain *blocks.Chain) error {
	for _, t := range s.Templates {
		w.AddTemplate(t)
	}

	for _, a := range s.Agents {
		var c *sim.Creature
		if a.Player {
			c = sim.NewPlayer(a.Name, a.Position)
		} else {
			t, ok := w.Template(a.Template)
			if !ok {
				return fmt.Errorf("agent %q: no template %q", a.Name, a.Template)
			}
			c = sim.NewCreature(a.Name, t.Name, a.Position)
		}
		c.MaxHealth = a.Health
		c.Health = a.Health
		w.Spawn(c)
	}

	for _, b := range s.Blocks {
		if err := chain.Place(b); err != nil {
			return err
		}
	}
	return nil
}

// SavePoints stores the scenario's named points in repo. Points that repo
// already has a position for are left alone.
func (s Scenario) SavePoints(ctx context.Context, repo dao.PointRepository) error {
	for _, name := range util.OrderedKeys(s.Points) {
		_, err := repo.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, dao.ErrNotFound) {
			return fmt.Errorf("point %q: %w", name, err)
		}

		if _, err := repo.Upsert(ctx, dao.Point{Name: name, At: s.Points[name]}); err != nil {
			return fmt.Errorf("point %q: %w", name, err)
		}
	}
	return nil
}
