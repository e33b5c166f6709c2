package assets

import (
	"strings"
	"testing"
	"testing/fstest"
)

const twoMapWorld = `{
  "maps": [
    {"fileName": "map0.tmx", "x": 0, "y": -10, "width": 10, "height": 10},
    {"fileName": "map1.tmx", "x": 20, "y": -30, "width": 10, "height": 10}
  ],
  "type": "world"
}`

func worldFS() fstest.MapFS {
	fsys := testFS()
	fsys["two.world"] = &fstest.MapFile{Data: []byte(twoMapWorld)}
	return fsys
}

func TestStoreLoadWorld(t *testing.T) {
	store := NewStore(worldFS())
	h := store.LoadWorld("two.world")
	store.Update()

	asset, state := store.World(h)
	if state != Loaded {
		t.Fatalf("expected Loaded, got %v (err: %v)", state, store.WorldError(h))
	}
	if len(asset.Maps) != 2 {
		t.Fatalf("expected 2 children in source order, got %d", len(asset.Maps))
	}

	// World coordinates are Y-down; rectangles come out Y-up.
	first := asset.Maps[0].Rect
	if first.Min.X != 0 || first.Min.Y != 0 || first.Max.X != 10 || first.Max.Y != 10 {
		t.Fatalf("expected child 0 at (0,0)-(10,10), got (%v)-(%v)", first.Min, first.Max)
	}
	second := asset.Maps[1].Rect
	if second.Min.X != 20 || second.Min.Y != 20 || second.Max.X != 30 || second.Max.Y != 30 {
		t.Fatalf("expected child 1 at (20,20)-(30,30), got (%v)-(%v)", second.Min, second.Max)
	}
	union := asset.Rect
	if union.Min.X != 0 || union.Min.Y != 0 || union.Max.X != 30 || union.Max.Y != 30 {
		t.Fatalf("expected union (0,0)-(30,30), got (%v)-(%v)", union.Min, union.Max)
	}

	// Children were queued and drained in the same Update pass.
	if state := store.RecursiveWorldState(h); state != Loaded {
		t.Fatalf("expected recursive state Loaded, got %v", state)
	}
}

func TestStoreLoadWorldUnresolvableChild(t *testing.T) {
	fsys := worldFS()
	fsys["bad.world"] = &fstest.MapFile{Data: []byte(
		`{"maps":[{"fileName":"missing.tmx","x":0,"y":0,"width":10,"height":10}]}`)}

	store := NewStore(fsys)
	h := store.LoadWorld("bad.world")
	store.Update()

	if state := store.WorldState(h); state != Failed {
		t.Fatalf("expected whole world build to fail, got %v", state)
	}
	err := store.WorldError(h)
	if err == nil || !strings.Contains(err.Error(), "could not load world") {
		t.Fatalf("expected wrapped world error, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.tmx") {
		t.Fatalf("expected error to name the unresolvable child, got %v", err)
	}
}

func TestStoreLoadWorldMalformed(t *testing.T) {
	fsys := worldFS()
	fsys["bad.world"] = &fstest.MapFile{Data: []byte("{not json")}

	store := NewStore(fsys)
	h := store.LoadWorld("bad.world")
	store.Update()

	if state := store.WorldState(h); state != Failed {
		t.Fatalf("expected Failed for malformed world, got %v", state)
	}
}

func TestRecursiveWorldStateFoldsChildFailure(t *testing.T) {
	fsys := worldFS()
	fsys["mixed.world"] = &fstest.MapFile{Data: []byte(
		`{"maps":[
			{"fileName":"map0.tmx","x":0,"y":0,"width":10,"height":10},
			{"fileName":"broken.tmx","x":10,"y":0,"width":10,"height":10}
		]}`)}

	store := NewStore(fsys)
	h := store.LoadWorld("mixed.world")
	store.Update()

	if state := store.WorldState(h); state != Loaded {
		t.Fatalf("expected the world document itself to load, got %v", state)
	}
	if state := store.RecursiveWorldState(h); state != Failed {
		t.Fatalf("expected recursive state to fold in the broken child, got %v", state)
	}
}

func TestStoreReleaseWorldReleasesChildren(t *testing.T) {
	store := NewStore(worldFS())
	h := store.LoadWorld("two.world")
	store.Update()

	asset, _ := store.World(h)
	child := asset.Maps[0].Handle
	store.ReleaseWorld(h)

	if _, state := store.World(h); state != NotLoaded {
		t.Fatalf("expected world gone after release, got %v", state)
	}
	if _, state := store.Map(child); state != NotLoaded {
		t.Fatalf("expected child maps released with the world, got %v", state)
	}
}

func TestWorldPatterns(t *testing.T) {
	fsys := fstest.MapFS{
		"grid/map_0-0.tmx": {Data: []byte(finiteMapTMX)},
		"grid/map_1-0.tmx": {Data: []byte(finiteMapTMX)},
		"grid/grid.world": {Data: []byte(`{
			"maps": [],
			"patterns": [
				{"regexp": "map_(\\d+)-(\\d+)\\.tmx", "multiplierX": 32, "multiplierY": 32, "offsetX": 0, "offsetY": 0}
			]
		}`)},
	}

	store := NewStore(fsys)
	h := store.LoadWorld("grid/grid.world")
	store.Update()

	asset, state := store.World(h)
	if state != Loaded {
		t.Fatalf("expected Loaded, got %v (err: %v)", state, store.WorldError(h))
	}
	if len(asset.Maps) != 2 {
		t.Fatalf("expected 2 pattern-expanded children, got %d", len(asset.Maps))
	}
	// grid (0,0) at Tiled (0,0), grid (1,0) at Tiled (32,0); both 32x32
	first := asset.Maps[0].Rect
	if first.Min.X != 0 || first.Max.X != 32 || first.Min.Y != -32 || first.Max.Y != 0 {
		t.Fatalf("expected child 0 at (0,-32)-(32,0), got (%v)-(%v)", first.Min, first.Max)
	}
	second := asset.Maps[1].Rect
	if second.Min.X != 32 || second.Max.X != 64 {
		t.Fatalf("expected child 1 shifted by the multiplier, got (%v)-(%v)", second.Min, second.Max)
	}
}
