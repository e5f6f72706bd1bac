package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LevelInfo holds metadata for a single level, loaded from its YAML file.
type LevelInfo struct {
	Name     string `yaml:"name"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	TileSize int    `yaml:"tile_size"`
}

// LayerDef names one tile layer. Layers draw in file order, bottom first.
type LayerDef struct {
	Name    string `yaml:"name"`
	Texture string `yaml:"texture"`
}

// SpawnDef places one entity on the level at load time.
type SpawnDef struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"` // "sprite" or "object"
	X         float32 `yaml:"x"`
	Y         float32 `yaml:"y"`
	Blocking  bool    `yaml:"blocking"`
	Behaviour string  `yaml:"behaviour"` // script name, empty for inert entities
	Focus     bool    `yaml:"focus"`
}

// Level is one parsed level definition.
type Level struct {
	Info   LevelInfo  `yaml:"level"`
	Layers []LayerDef `yaml:"layers"`
	Spawns []SpawnDef `yaml:"spawns"`
}

// LoadLevel parses a single level YAML file and validates it.
func LoadLevel(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	var lvl Level
	if err := yaml.Unmarshal(raw, &lvl); err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}

	if lvl.Info.Width <= 0 || lvl.Info.Height <= 0 {
		return nil, fmt.Errorf("level %s: bad dimensions %dx%d",
			path, lvl.Info.Width, lvl.Info.Height)
	}

	// Out-of-bounds spawns are dropped rather than failing the whole level.
	kept := lvl.Spawns[:0]
	for _, s := range lvl.Spawns {
		if s.X < 0 || s.Y < 0 ||
			s.X >= float32(lvl.Info.Width) || s.Y >= float32(lvl.Info.Height) {
			continue
		}
		if s.Kind != "sprite" && s.Kind != "object" {
			continue
		}
		kept = append(kept, s)
	}
	lvl.Spawns = kept

	return &lvl, nil
}

// LevelTable indexes every level under a directory by name.
type LevelTable struct {
	levels map[string]*Level
}

// LoadLevelTable loads every *.yaml file under dir. A file that fails to
// parse fails the whole load; missing directories do too.
func LoadLevelTable(dir string) (*LevelTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read level dir %s: %w", dir, err)
	}

	table := &LevelTable{levels: make(map[string]*Level)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		lvl, err := LoadLevel(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		name := lvl.Info.Name
		if name == "" {
			name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		table.levels[name] = lvl
	}
	return table, nil
}

// Count returns the number of levels loaded.
func (t *LevelTable) Count() int {
	return len(t.levels)
}

// Get returns the level with the given name, or nil if not found.
func (t *LevelTable) Get(name string) *Level {
	return t.levels[name]
}

// Names returns the loaded level names in sorted order.
func (t *LevelTable) Names() []string {
	names := make([]string, 0, len(t.levels))
	for name := range t.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
