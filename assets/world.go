package assets

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/automoto/tiledworld/shared/geom"
)

// WorldAsset composes several maps into one spatial layout: children in
// source order, each with its placement rectangle in render coordinates,
// plus the union bounding rectangle. Immutable once built.
type WorldAsset struct {
	Source string
	Maps   []WorldMap
	Rect   geom.Rect
}

// WorldMap is one child of a world.
type WorldMap struct {
	Rect   geom.Rect
	Handle MapHandle
}

// Tiled .world files are JSON: explicit map entries plus optional
// filename patterns expanded against the world's directory.
type worldFile struct {
	Maps     []worldFileMap     `json:"maps"`
	Patterns []worldFilePattern `json:"patterns"`
	Type     string             `json:"type"`
}

type worldFileMap struct {
	FileName string  `json:"fileName"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type worldFilePattern struct {
	RegExp      string  `json:"regexp"`
	MultiplierX float64 `json:"multiplierX"`
	MultiplierY float64 `json:"multiplierY"`
	OffsetX     float64 `json:"offsetX"`
	OffsetY     float64 `json:"offsetY"`
}

// buildWorldAsset parses a world document and resolves every child map to
// a handle. Any unresolvable reference fails the whole build.
func (s *Store) buildWorldAsset(source string, data []byte) (*WorldAsset, error) {
	var doc worldFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}

	entries := doc.Maps
	expanded, err := expandPatterns(s.fsys, path.Dir(source), doc.Patterns)
	if err != nil {
		return nil, err
	}
	entries = append(entries, expanded...)

	asset := &WorldAsset{Source: source}
	baseDir := path.Dir(source)
	for i, m := range entries {
		mapPath := path.Join(baseDir, m.FileName)
		if _, err := fs.Stat(s.fsys, mapPath); err != nil {
			return nil, fmt.Errorf("world map %q: %w", m.FileName, err)
		}
		// Tiled world coordinates are Y-down pixels; flip into the render
		// convention so min/max corners stay min/max.
		rect := geom.NewRect(m.X, -(m.Y + m.Height), m.X+m.Width, -m.Y)
		asset.Maps = append(asset.Maps, WorldMap{Rect: rect, Handle: s.LoadMap(mapPath)})
		if i == 0 {
			asset.Rect = rect
		} else {
			asset.Rect = asset.Rect.Union(rect)
		}
	}
	return asset, nil
}

// expandPatterns lists the world's directory and turns every filename that
// matches a pattern into a map entry. The two capture groups are the grid
// coordinates; maps in a patterned world are uniformly sized, so the
// multiplier doubles as the map's pixel size.
func expandPatterns(fsys fs.FS, dir string, patterns []worldFilePattern) ([]worldFileMap, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	names, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("world patterns: %w", err)
	}

	var out []worldFileMap
	for _, p := range patterns {
		re, err := regexp.Compile(p.RegExp)
		if err != nil {
			return nil, fmt.Errorf("world pattern %q: %w", p.RegExp, err)
		}
		for _, e := range names {
			if e.IsDir() {
				continue
			}
			m := re.FindStringSubmatch(e.Name())
			if m == nil || len(m) < 3 {
				continue
			}
			gx, err1 := strconv.Atoi(m[1])
			gy, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			out = append(out, worldFileMap{
				FileName: e.Name(),
				X:        float64(gx)*p.MultiplierX + p.OffsetX,
				Y:        float64(gy)*p.MultiplierY + p.OffsetY,
				Width:    p.MultiplierX,
				Height:   p.MultiplierY,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}
