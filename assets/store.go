package assets

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"path"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lafriks/go-tiled"
	"github.com/sirupsen/logrus"
)

// MapHandle identifies a loaded map inside a store. Handles stay valid
// across reloads; the asset behind them is replaced wholesale.
type MapHandle uint32

// WorldHandle identifies a loaded world inside a store.
type WorldHandle uint32

// LoadState is the lifecycle of a handle's asset.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "not loaded"
	}
}

type mapEntry struct {
	source   string
	state    LoadState
	err      error
	asset    *MapAsset
	refs     int
	version  uint64
	textures []string
}

type worldEntry struct {
	source  string
	state   LoadState
	err     error
	asset   *WorldAsset
	refs    int
	version uint64
}

type textureEntry struct {
	image *ebiten.Image
	refs  int
}

// Store owns every loaded map, world, texture and atlas layout, keyed by
// handle. Loads are queued and performed during Update, so a handle is
// observable in the Loading state before its asset exists. The store is
// driven from the game loop and is not safe for concurrent use.
type Store struct {
	fsys fs.FS

	maps   map[MapHandle]*mapEntry
	worlds map[WorldHandle]*worldEntry

	mapBySource   map[string]MapHandle
	worldBySource map[string]WorldHandle

	textures map[string]*textureEntry
	layouts  map[string]*AtlasLayout

	pendingMaps   []MapHandle
	pendingWorlds []WorldHandle

	nextMap   MapHandle
	nextWorld WorldHandle
}

// NewStore builds a store reading sources from the given filesystem.
func NewStore(fsys fs.FS) *Store {
	return &Store{
		fsys:          fsys,
		maps:          make(map[MapHandle]*mapEntry),
		worlds:        make(map[WorldHandle]*worldEntry),
		mapBySource:   make(map[string]MapHandle),
		worldBySource: make(map[string]WorldHandle),
		textures:      make(map[string]*textureEntry),
		layouts:       make(map[string]*AtlasLayout),
		nextMap:       1,
		nextWorld:     1,
	}
}

// LoadMap returns a handle for the map at the given path, queueing the load
// if the path is new. Loading the same path twice shares one entry.
func (s *Store) LoadMap(source string) MapHandle {
	if h, ok := s.mapBySource[source]; ok {
		s.maps[h].refs++
		return h
	}
	h := s.nextMap
	s.nextMap++
	s.maps[h] = &mapEntry{source: source, state: Loading, refs: 1}
	s.mapBySource[source] = h
	s.pendingMaps = append(s.pendingMaps, h)
	return h
}

// LoadWorld returns a handle for the world at the given path, queueing the
// load if the path is new.
func (s *Store) LoadWorld(source string) WorldHandle {
	if h, ok := s.worldBySource[source]; ok {
		s.worlds[h].refs++
		return h
	}
	h := s.nextWorld
	s.nextWorld++
	s.worlds[h] = &worldEntry{source: source, state: Loading, refs: 1}
	s.worldBySource[source] = h
	s.pendingWorlds = append(s.pendingWorlds, h)
	return h
}

// Update drains the load queues. A world load enqueues its child maps, so
// the drain loops until both queues stay empty.
func (s *Store) Update() {
	for len(s.pendingMaps) > 0 || len(s.pendingWorlds) > 0 {
		worlds := s.pendingWorlds
		s.pendingWorlds = nil
		for _, h := range worlds {
			s.performWorldLoad(h)
		}
		maps := s.pendingMaps
		s.pendingMaps = nil
		for _, h := range maps {
			s.performMapLoad(h)
		}
	}
}

func (s *Store) performMapLoad(h MapHandle) {
	entry, ok := s.maps[h]
	if !ok {
		return
	}
	asset, textures, err := s.buildMapAsset(entry.source)
	if err != nil {
		entry.state = Failed
		entry.err = fmt.Errorf("could not load map: %w", err)
		entry.version++
		logrus.WithField("map", entry.source).WithError(err).Error("map load failed")
		return
	}
	s.releaseTextures(entry.textures)
	entry.asset = asset
	entry.textures = textures
	entry.state = Loaded
	entry.err = nil
	entry.version++
	logrus.WithFields(logrus.Fields{
		"map":      entry.source,
		"layers":   len(asset.Document.Layers),
		"tilesets": len(asset.Document.Tilesets),
		"infinite": asset.Document.Infinite,
	}).Info("map loaded")
}

func (s *Store) buildMapAsset(source string) (*MapAsset, []string, error) {
	data, err := fs.ReadFile(s.fsys, source)
	if err != nil {
		return nil, nil, err
	}

	baseDir := path.Dir(source)
	resolver := NewResolver(data, func(p string) ([]byte, error) {
		return fs.ReadFile(s.fsys, path.Join(baseDir, p))
	})

	var doc *MapDocument
	var tiledMap *tiled.Map
	if IsInfinite(data) {
		doc, err = DecodeInfiniteMap(data, source, resolver)
		if err != nil {
			return nil, nil, err
		}
	} else {
		tiledMap, err = tiled.LoadFile(source, tiled.WithFileSystem(s.fsys))
		if err != nil {
			return nil, nil, err
		}
		doc = DocumentFromTiled(source, tiledMap)
	}

	var textures []string
	deps := BuildDeps{
		LoadTexture: func(p string) (*ebiten.Image, error) {
			img, err := s.acquireTexture(p)
			if err != nil {
				return nil, err
			}
			textures = append(textures, p)
			return img, nil
		},
		RegisterLayout: func(name string, layout *AtlasLayout) {
			s.layouts[name] = layout
		},
	}
	asset, err := BuildMapAsset(doc, deps)
	if err != nil {
		s.releaseTextures(textures)
		return nil, nil, err
	}
	asset.Map = tiledMap
	return asset, textures, nil
}

func (s *Store) performWorldLoad(h WorldHandle) {
	entry, ok := s.worlds[h]
	if !ok {
		return
	}
	data, err := fs.ReadFile(s.fsys, entry.source)
	var asset *WorldAsset
	if err == nil {
		asset, err = s.buildWorldAsset(entry.source, data)
	}
	if err != nil {
		entry.state = Failed
		entry.err = fmt.Errorf("could not load world: %w", err)
		entry.version++
		logrus.WithField("world", entry.source).WithError(err).Error("world load failed")
		return
	}
	entry.asset = asset
	entry.state = Loaded
	entry.err = nil
	entry.version++
	logrus.WithFields(logrus.Fields{
		"world": entry.source,
		"maps":  len(asset.Maps),
	}).Info("world loaded")
}

// Map returns the asset and state for a handle. The asset is nil unless the
// state is Loaded.
func (s *Store) Map(h MapHandle) (*MapAsset, LoadState) {
	entry, ok := s.maps[h]
	if !ok {
		return nil, NotLoaded
	}
	return entry.asset, entry.state
}

// World returns the asset and state for a handle.
func (s *Store) World(h WorldHandle) (*WorldAsset, LoadState) {
	entry, ok := s.worlds[h]
	if !ok {
		return nil, NotLoaded
	}
	return entry.asset, entry.state
}

// MapState returns the load state for a handle.
func (s *Store) MapState(h MapHandle) LoadState {
	if entry, ok := s.maps[h]; ok {
		return entry.state
	}
	return NotLoaded
}

// WorldState returns the world's own load state, ignoring children.
func (s *Store) WorldState(h WorldHandle) LoadState {
	if entry, ok := s.worlds[h]; ok {
		return entry.state
	}
	return NotLoaded
}

// RecursiveWorldState folds the world's state with every child map's:
// any failure wins, then any child still loading, then loaded.
func (s *Store) RecursiveWorldState(h WorldHandle) LoadState {
	entry, ok := s.worlds[h]
	if !ok {
		return NotLoaded
	}
	if entry.state != Loaded {
		return entry.state
	}
	state := Loaded
	for _, m := range entry.asset.Maps {
		switch s.MapState(m.Handle) {
		case Failed:
			return Failed
		case Loading, NotLoaded:
			state = Loading
		}
	}
	return state
}

// MapError returns the failure cause for a handle in the Failed state.
func (s *Store) MapError(h MapHandle) error {
	if entry, ok := s.maps[h]; ok {
		return entry.err
	}
	return nil
}

// WorldError returns the failure cause for a handle in the Failed state.
func (s *Store) WorldError(h WorldHandle) error {
	if entry, ok := s.worlds[h]; ok {
		return entry.err
	}
	return nil
}

// MapVersion counts completed loads of a handle. Consumers compare it
// against the version they last materialized to detect modified assets.
func (s *Store) MapVersion(h MapHandle) uint64 {
	if entry, ok := s.maps[h]; ok {
		return entry.version
	}
	return 0
}

// WorldVersion counts completed loads of a world handle.
func (s *Store) WorldVersion(h WorldHandle) uint64 {
	if entry, ok := s.worlds[h]; ok {
		return entry.version
	}
	return 0
}

// ReloadMap re-queues a map load from its source path. The handle moves
// back to Loading and its version bumps when the load completes.
func (s *Store) ReloadMap(h MapHandle) {
	entry, ok := s.maps[h]
	if !ok {
		return
	}
	entry.state = Loading
	s.pendingMaps = append(s.pendingMaps, h)
}

// ReloadWorld re-queues a world load from its source path.
func (s *Store) ReloadWorld(h WorldHandle) {
	entry, ok := s.worlds[h]
	if !ok {
		return
	}
	entry.state = Loading
	s.pendingWorlds = append(s.pendingWorlds, h)
}

// ReleaseMap drops one reference; the entry and its textures are freed
// when the last reference goes.
func (s *Store) ReleaseMap(h MapHandle) {
	entry, ok := s.maps[h]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}
	s.releaseTextures(entry.textures)
	delete(s.mapBySource, entry.source)
	delete(s.maps, h)
}

// ReleaseWorld drops one reference; the last release also releases every
// child map the world loaded.
func (s *Store) ReleaseWorld(h WorldHandle) {
	entry, ok := s.worlds[h]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}
	if entry.asset != nil {
		for _, m := range entry.asset.Maps {
			s.ReleaseMap(m.Handle)
		}
	}
	delete(s.worldBySource, entry.source)
	delete(s.worlds, h)
}

// RemoveWorld frees a world unconditionally, regardless of refcount.
func (s *Store) RemoveWorld(h WorldHandle) {
	if entry, ok := s.worlds[h]; ok {
		entry.refs = 1
		s.ReleaseWorld(h)
	}
}

// Layout returns an atlas layout registered under a tileset name.
func (s *Store) Layout(name string) *AtlasLayout {
	return s.layouts[name]
}

// LayoutNames returns the registered layout names, sorted.
func (s *Store) LayoutNames() []string {
	names := make([]string, 0, len(s.layouts))
	for name := range s.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) acquireTexture(p string) (*ebiten.Image, error) {
	if entry, ok := s.textures[p]; ok {
		entry.refs++
		return entry.image, nil
	}
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", p, err)
	}
	texture := ebiten.NewImageFromImage(img)
	s.textures[p] = &textureEntry{image: texture, refs: 1}
	return texture, nil
}

func (s *Store) releaseTextures(paths []string) {
	for _, p := range paths {
		entry, ok := s.textures[p]
		if !ok {
			continue
		}
		entry.refs--
		if entry.refs <= 0 {
			entry.image.Deallocate()
			delete(s.textures, p)
		}
	}
}
