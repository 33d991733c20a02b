package cbw

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelScenario is every key in a complete CBW 'DATA' type file.
type topLevelScenario struct {
	Format    string     `toml:"format"`
	Type      string     `toml:"type"`
	Templates []template `toml:"template"`
	Agents    []agent    `toml:"agent"`
	Blocks    []block    `toml:"block"`
	Points    []point    `toml:"point"`
	Anchor    *anchor    `toml:"anchor"`
}

type template struct {
	ID      string `toml:"id"`
	Display string `toml:"display"`
}

type agent struct {
	Name     string    `toml:"name"`
	Template string    `toml:"template"`
	Position []float64 `toml:"position"`
	Player   bool      `toml:"player"`
	Health   float64   `toml:"health"`
}

type block struct {
	Position []int  `toml:"position"`
	Command  string `toml:"command"`
	Next     []int  `toml:"next"`
}

type point struct {
	Name     string `toml:"name"`
	Position []int  `toml:"position"`
}

type anchor struct {
	Position []int `toml:"position"`
}
