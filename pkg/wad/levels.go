package wad

import "fmt"

// Level is a marker lump plus the recognised map lumps that follow it.
type Level struct {
	Name   string
	Marker Lump
	Lumps  []Lump
}

// levelLumpNames are the map lump categories that can belong to a level.
var levelLumpNames = map[string]bool{
	"THINGS":   true,
	"LINEDEFS": true,
	"SIDEDEFS": true,
	"VERTEXES": true,
	"SEGS":     true,
	"SSECTORS": true,
	"NODES":    true,
	"SECTORS":  true,
	"REJECT":   true,
	"BLOCKMAP": true,
}

// IsLevelLump reports whether name is one of the recognised map lump categories.
func IsLevelLump(name string) bool {
	return levelLumpNames[truncName(name)]
}

// Lump returns the first sub-lump named name.
func (l *Level) Lump(name string) (Lump, bool) {
	key := truncName(name)
	for _, sub := range l.Lumps {
		if sub.Name == key {
			return sub, true
		}
	}
	return Lump{}, false
}

// Has checks if the level carries a sub-lump named name.
func (l *Level) Has(name string) bool {
	_, ok := l.Lump(name)
	return ok
}

// groupLevels partitions the directory into levels. Every zero-size lump
// opens a new candidate; it becomes a level once a recognised lump follows it.
func (a *Archive) groupLevels() {
	a.levels = make(map[string]*Level)
	a.levelOrder = nil

	var current *Level
	for _, l := range a.lumps {
		if l.Size == 0 {
			current = &Level{Name: l.Name, Marker: l}
			continue
		}
		if current == nil || !levelLumpNames[l.Name] {
			continue
		}

		current.Lumps = append(current.Lumps, l)
		if _, seen := a.levels[current.Name]; !seen {
			a.levelOrder = append(a.levelOrder, current.Name)
		}
		a.levels[current.Name] = current
	}
}

// Level returns the level named name.
func (a *Archive) Level(name string) (*Level, error) {
	level, ok := a.levels[truncName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: level %q", ErrNotFound, name)
	}
	return level, nil
}

// LevelNames returns registered level names in the order they first appear.
func (a *Archive) LevelNames() []string {
	names := make([]string, len(a.levelOrder))
	copy(names, a.levelOrder)
	return names
}
