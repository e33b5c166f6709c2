package assets

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
)

const infiniteMapCSV = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="0" height="0" tilewidth="16" tileheight="16" infinite="1">
 <tileset firstgid="1" name="ground" tilewidth="16" tileheight="16" tilecount="8">
  <image source="ground.png" width="64" height="32"/>
 </tileset>
 <tileset firstgid="9" name="props" tilewidth="16" tileheight="16" tilecount="4">
  <image source="props.png" width="64" height="16"/>
 </tileset>
 <layer id="1" name="terrain" width="4" height="4">
  <data encoding="csv">
   <chunk x="-4" y="0" width="4" height="4">
1,0,0,0,
0,0,0,0,
0,0,0,0,
0,0,0,10
   </chunk>
   <chunk x="0" y="0" width="4" height="4">
2,2,2,2,
0,0,0,0,
0,0,0,0,
0,0,0,0
   </chunk>
  </data>
 </layer>
 <objectgroup id="2" name="markers"/>
</map>`

func TestIsInfinite(t *testing.T) {
	if !IsInfinite([]byte(infiniteMapCSV)) {
		t.Fatalf("expected infinite=1 document to report infinite")
	}
	finite := `<map orientation="orthogonal" width="2" height="2" infinite="0"></map>`
	if IsInfinite([]byte(finite)) {
		t.Fatalf("expected infinite=0 document to report finite")
	}
	if IsInfinite([]byte("not xml at all")) {
		t.Fatalf("expected unparsable bytes to report finite")
	}
}

func TestDecodeInfiniteMapCSV(t *testing.T) {
	doc, err := DecodeInfiniteMap([]byte(infiniteMapCSV), "maps/test.tmx", NewResolver([]byte(infiniteMapCSV), nil))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !doc.Infinite {
		t.Fatalf("expected document to be marked infinite")
	}
	if len(doc.Tilesets) != 2 {
		t.Fatalf("expected 2 tilesets, got %d", len(doc.Tilesets))
	}
	if len(doc.Layers) != 2 {
		t.Fatalf("expected tile layer plus object group, got %d layers", len(doc.Layers))
	}
	if doc.Layers[1].Kind != LayerOther || doc.Layers[1].Name != "markers" {
		t.Fatalf("expected second layer to be the object group, got %+v", doc.Layers[1])
	}

	layer := doc.Layers[0]
	if len(layer.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(layer.Chunks))
	}
	left := layer.Chunks[0]
	if left.X != -1 || left.Y != 0 {
		t.Fatalf("expected chunk coordinates (-1,0), got (%d,%d)", left.X, left.Y)
	}

	// gid 1 = tileset 0 id 0; gid 10 = tileset 1 id 1
	if tile := left.At(0, 0); tile.Nil || tile.TilesetIndex != 0 || tile.ID != 0 {
		t.Fatalf("expected gid 1 to resolve to tileset 0 id 0, got %+v", tile)
	}
	if tile := left.At(3, 3); tile.Nil || tile.TilesetIndex != 1 || tile.ID != 1 {
		t.Fatalf("expected gid 10 to resolve to tileset 1 id 1, got %+v", tile)
	}
	if tile := left.At(1, 0); !tile.Nil {
		t.Fatalf("expected gid 0 to be a nil tile, got %+v", tile)
	}
}

func TestDecodeInfiniteMapBase64Zlib(t *testing.T) {
	gids := []uint32{
		1 | gidFlipH, 0, 0, 0,
		0, 2 | gidFlipV | gidFlipD, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 3,
	}
	var raw bytes.Buffer
	zw := zlib.NewWriter(&raw)
	if err := binary.Write(zw, binary.LittleEndian, gids); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw.Bytes())

	src := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<map orientation="orthogonal" width="0" height="0" tilewidth="16" tileheight="16" infinite="1">
 <tileset firstgid="1" name="ground" tilewidth="16" tileheight="16" tilecount="8">
  <image source="ground.png" width="64" height="32"/>
 </tileset>
 <layer id="1" name="terrain">
  <data encoding="base64" compression="zlib">
   <chunk x="0" y="0" width="4" height="4">%s</chunk>
  </data>
 </layer>
</map>`, encoded)

	doc, err := DecodeInfiniteMap([]byte(src), "test.tmx", NewResolver([]byte(src), nil))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	chunk := doc.Layers[0].Chunks[0]
	if tile := chunk.At(0, 0); !tile.FlipH || tile.FlipV || tile.FlipD || tile.ID != 0 {
		t.Fatalf("expected horizontally flipped tile id 0, got %+v", tile)
	}
	if tile := chunk.At(1, 1); !tile.FlipV || !tile.FlipD || tile.FlipH || tile.ID != 1 {
		t.Fatalf("expected vertically and diagonally flipped tile id 1, got %+v", tile)
	}
	if tile := chunk.At(3, 3); tile.ID != 2 {
		t.Fatalf("expected plain tile id 2, got %+v", tile)
	}
}

func TestDecodeInfiniteMapExternalTileset(t *testing.T) {
	tsx := `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="ground" tilewidth="16" tileheight="16" tilecount="8" spacing="1" margin="2">
 <image source="img/ground.png" width="64" height="32"/>
</tileset>`
	src := `<?xml version="1.0" encoding="UTF-8"?>
<map orientation="orthogonal" width="0" height="0" tilewidth="16" tileheight="16" infinite="1">
 <tileset firstgid="1" source="tilesets/ground.tsx"/>
 <layer id="1" name="terrain">
  <data encoding="csv">
   <chunk x="0" y="0" width="2" height="2">1,0,0,0</chunk>
  </data>
 </layer>
</map>`

	loads := 0
	resolver := NewResolver([]byte(src), func(p string) ([]byte, error) {
		loads++
		if p != "tilesets/ground.tsx" {
			return nil, fmt.Errorf("unexpected secondary load %q", p)
		}
		return []byte(tsx), nil
	})

	doc, err := DecodeInfiniteMap([]byte(src), "test.tmx", resolver)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if loads != 1 {
		t.Fatalf("expected exactly one secondary load, got %d", loads)
	}
	ts := doc.Tilesets[0]
	if ts.Name != "ground" || ts.FirstGID != 1 || ts.Spacing != 1 || ts.Margin != 2 {
		t.Fatalf("external tileset attributes not preserved: %+v", ts)
	}
	// image paths inside the .tsx resolve relative to the .tsx location
	if ts.Image == nil || ts.Image.Source != "tilesets/img/ground.png" {
		t.Fatalf("expected rebased image path tilesets/img/ground.png, got %+v", ts.Image)
	}
}

func TestDecodeInfiniteMapExternalTilesetMissing(t *testing.T) {
	src := `<map orientation="orthogonal" infinite="1">
 <tileset firstgid="1" source="missing.tsx"/>
</map>`
	_, err := DecodeInfiniteMap([]byte(src), "test.tmx", NewResolver([]byte(src), nil))
	if err == nil {
		t.Fatalf("expected failure for unresolvable external tileset")
	}
	if !strings.Contains(err.Error(), "missing.tsx") {
		t.Fatalf("expected error to name the missing tileset, got %v", err)
	}
}

func TestDecodeCSVCountMismatch(t *testing.T) {
	if _, err := decodeCSV("1,2,3", 4); err == nil {
		t.Fatalf("expected error for short csv data")
	}
}

func TestDecodeGIDsUnsupportedEncoding(t *testing.T) {
	if _, err := decodeGIDs("", "base85", "", 4); err == nil {
		t.Fatalf("expected error for unsupported encoding")
	}
}
