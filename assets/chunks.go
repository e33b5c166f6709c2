package assets

import (
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// GID flip flags, stored in the top bits of each global tile id.
const (
	gidFlipH = 0x80000000
	gidFlipV = 0x40000000
	gidFlipD = 0x20000000
	gidMask  = ^uint32(gidFlipH | gidFlipV | gidFlipD)
)

// go-tiled flattens layer data into one dense grid, which only exists for
// finite maps. Infinite maps keep their tiles in signed-coordinate chunks,
// so they get their own decode pass over the same bytes.

type xmlMapDoc struct {
	XMLName     xml.Name      `xml:"map"`
	Orientation string        `xml:"orientation,attr"`
	Infinite    bool          `xml:"infinite,attr"`
	Width       int           `xml:"width,attr"`
	Height      int           `xml:"height,attr"`
	TileWidth   int           `xml:"tilewidth,attr"`
	TileHeight  int           `xml:"tileheight,attr"`
	Tilesets    []xmlTileset  `xml:"tileset"`
	Layers      []xmlLayerDoc `xml:"layer"`
	Objects     []xmlNamed    `xml:"objectgroup"`
	Images      []xmlNamed    `xml:"imagelayer"`
}

type xmlTileset struct {
	FirstGID   uint32      `xml:"firstgid,attr"`
	Source     string      `xml:"source,attr"`
	Name       string      `xml:"name,attr"`
	TileWidth  int         `xml:"tilewidth,attr"`
	TileHeight int         `xml:"tileheight,attr"`
	Spacing    int         `xml:"spacing,attr"`
	Margin     int         `xml:"margin,attr"`
	TileCount  int         `xml:"tilecount,attr"`
	Image      *xmlImage   `xml:"image"`
	Tiles      []xmlTSTile `xml:"tile"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlTSTile struct {
	ID    uint32    `xml:"id,attr"`
	Image *xmlImage `xml:"image"`
}

type xmlLayerDoc struct {
	Name    string   `xml:"name,attr"`
	OffsetX float64  `xml:"offsetx,attr"`
	OffsetY float64  `xml:"offsety,attr"`
	Data    *xmlData `xml:"data"`
}

type xmlData struct {
	Encoding    string     `xml:"encoding,attr"`
	Compression string     `xml:"compression,attr"`
	Chunks      []xmlChunk `xml:"chunk"`
}

type xmlChunk struct {
	X      int    `xml:"x,attr"`
	Y      int    `xml:"y,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Raw    string `xml:",chardata"`
}

type xmlNamed struct {
	Name string `xml:"name,attr"`
}

// IsInfinite reports whether the raw TMX document declares infinite="1".
func IsInfinite(data []byte) bool {
	var probe struct {
		XMLName  xml.Name `xml:"map"`
		Infinite bool     `xml:"infinite,attr"`
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Infinite
}

// DecodeInfiniteMap parses an infinite TMX document into the normalized
// model, resolving external tilesets through the given resolver.
func DecodeInfiniteMap(data []byte, source string, resolver *Resolver) (*MapDocument, error) {
	var raw xmlMapDoc
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}

	doc := &MapDocument{
		Source:      source,
		Orientation: parseOrientation(raw.Orientation),
		Infinite:    true,
		Width:       raw.Width,
		Height:      raw.Height,
		TileWidth:   raw.TileWidth,
		TileHeight:  raw.TileHeight,
	}

	for i, ts := range raw.Tilesets {
		info, err := tilesetInfo(i, ts, resolver)
		if err != nil {
			return nil, err
		}
		doc.Tilesets = append(doc.Tilesets, info)
	}
	// Descending FirstGID order makes gid resolution a first-match scan.
	resolution := make([]*TilesetInfo, len(doc.Tilesets))
	copy(resolution, doc.Tilesets)
	sort.Slice(resolution, func(i, j int) bool { return resolution[i].FirstGID > resolution[j].FirstGID })

	index := 0
	for _, l := range raw.Layers {
		layer := &LayerInfo{
			Index:   index,
			Name:    l.Name,
			Kind:    LayerTiles,
			OffsetX: l.OffsetX,
			OffsetY: l.OffsetY,
		}
		if l.Data != nil {
			for _, c := range l.Data.Chunks {
				chunk, err := decodeChunk(c, l.Data.Encoding, l.Data.Compression, resolution)
				if err != nil {
					return nil, fmt.Errorf("layer %q chunk (%d,%d): %w", l.Name, c.X, c.Y, err)
				}
				layer.Chunks = append(layer.Chunks, chunk)
			}
		}
		doc.Layers = append(doc.Layers, layer)
		index++
	}
	for _, og := range raw.Objects {
		doc.Layers = append(doc.Layers, &LayerInfo{Index: index, Name: og.Name, Kind: LayerOther})
		index++
	}
	for _, il := range raw.Images {
		doc.Layers = append(doc.Layers, &LayerInfo{Index: index, Name: il.Name, Kind: LayerOther})
		index++
	}

	return doc, nil
}

func tilesetInfo(index int, ts xmlTileset, resolver *Resolver) (*TilesetInfo, error) {
	imageDir := ""
	if ts.Source != "" {
		data, err := resolver.resolveBytes(ts.Source)
		if err != nil {
			return nil, fmt.Errorf("external tileset %q: %w", ts.Source, err)
		}
		firstGID := ts.FirstGID
		if err := xml.Unmarshal(data, &ts); err != nil {
			return nil, fmt.Errorf("parse tileset %q: %w", ts.Source, err)
		}
		ts.FirstGID = firstGID
		// image paths inside a .tsx are relative to the .tsx itself
		imageDir = path.Dir(ts.Source)
	}

	info := &TilesetInfo{
		Index:      index,
		Name:       ts.Name,
		FirstGID:   ts.FirstGID,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Spacing:    ts.Spacing,
		Margin:     ts.Margin,
		TileCount:  ts.TileCount,
	}
	if ts.Image != nil {
		info.Image = imageRef(ts.Image, imageDir)
	}
	for _, t := range ts.Tiles {
		info.Tiles = append(info.Tiles, TileInfo{ID: t.ID, Image: imageRef(t.Image, imageDir)})
	}
	return info, nil
}

func imageRef(img *xmlImage, dir string) *ImageRef {
	if img == nil {
		return nil
	}
	src := img.Source
	if dir != "" && dir != "." {
		src = path.Join(dir, src)
	}
	return &ImageRef{Source: src, Width: img.Width, Height: img.Height}
}

func decodeChunk(c xmlChunk, encoding, compression string, tilesets []*TilesetInfo) (Chunk, error) {
	gids, err := decodeGIDs(c.Raw, encoding, compression, c.Width*c.Height)
	if err != nil {
		return Chunk{}, err
	}
	chunk := Chunk{
		X:      c.X / c.Width,
		Y:      c.Y / c.Height,
		Width:  c.Width,
		Height: c.Height,
		Tiles:  make([]TileData, len(gids)),
	}
	for i, gid := range gids {
		chunk.Tiles[i] = tileFromGID(gid, tilesets)
	}
	return chunk, nil
}

func tileFromGID(gid uint32, tilesets []*TilesetInfo) TileData {
	id := gid & gidMask
	if id == 0 {
		return TileData{Nil: true}
	}
	for _, ts := range tilesets {
		if id >= ts.FirstGID {
			return TileData{
				TilesetIndex: ts.Index,
				ID:           id - ts.FirstGID,
				FlipH:        gid&gidFlipH != 0,
				FlipV:        gid&gidFlipV != 0,
				FlipD:        gid&gidFlipD != 0,
			}
		}
	}
	return TileData{Nil: true}
}

func decodeGIDs(raw, encoding, compression string, count int) ([]uint32, error) {
	switch encoding {
	case "csv", "":
		return decodeCSV(raw, count)
	case "base64":
		return decodeBase64(raw, compression, count)
	default:
		return nil, fmt.Errorf("unsupported tile data encoding %q", encoding)
	}
}

func decodeCSV(raw string, count int) ([]uint32, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	if len(fields) != count {
		return nil, fmt.Errorf("expected %d tiles, got %d", count, len(fields))
	}
	gids := make([]uint32, count)
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		gids[i] = uint32(v)
	}
	return gids, nil
}

func decodeBase64(raw, compression string, count int) ([]uint32, error) {
	buf, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	var r io.Reader = strings.NewReader(string(buf))
	switch compression {
	case "":
	case "zlib":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		defer zr.Close()
		r = zr
	case "gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gr.Close()
		r = gr
	default:
		return nil, fmt.Errorf("unsupported tile data compression %q", compression)
	}

	gids := make([]uint32, count)
	if err := binary.Read(r, binary.LittleEndian, gids); err != nil {
		return nil, fmt.Errorf("tile data: %w", err)
	}
	return gids, nil
}
