package world

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// mapDocument is the on-disk JSON map format.
type mapDocument struct {
	HubTile         string     `json:"hub_tile"`
	InferNeighbours bool       `json:"infer_neighbours,omitempty"`
	Tiles           []tileJSON `json:"tiles"`
}

type tileJSON struct {
	ID         string   `json:"id"`
	Type       Kind     `json:"type"`
	Colours    []string `json:"colours"`
	Coords     [2]int   `json:"coords"`
	Neighbours []string `json:"neighbours,omitempty"`
}

// DecodeGrid reads a JSON map document and builds a validated grid.
func DecodeGrid(r io.Reader, req Requirements) (*Grid, error) {
	var doc mapDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}

	tiles := make([]*Tile, 0, len(doc.Tiles))
	for _, tj := range doc.Tiles {
		tiles = append(tiles, &Tile{
			ID:         tj.ID,
			Kind:       tj.Type,
			Coord:      HexCoord{Q: tj.Coords[0], R: tj.Coords[1]},
			Colours:    tj.Colours,
			Neighbours: tj.Neighbours,
		})
	}

	return NewGrid(tiles, doc.HubTile, GridOptions{
		InferNeighbours: doc.InferNeighbours,
		Requirements:    req,
	})
}

// LoadGrid opens a JSON map file.
func LoadGrid(path string, req Requirements) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()
	return DecodeGrid(f, req)
}

// EncodeGrid writes the grid as a JSON map document.
func EncodeGrid(w io.Writer, g *Grid) error {
	doc := mapDocument{HubTile: g.hubID}
	for _, id := range g.ids {
		t := g.tiles[id]
		colours := t.Colours
		if colours == nil {
			colours = []string{}
		}
		doc.Tiles = append(doc.Tiles, tileJSON{
			ID:         t.ID,
			Type:       t.Kind,
			Colours:    colours,
			Coords:     [2]int{t.Coord.Q, t.Coord.R},
			Neighbours: t.Neighbours,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// SaveGrid writes the grid to path, creating parent directories.
func SaveGrid(path string, g *Grid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create map dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	defer f.Close()
	if err := EncodeGrid(f, g); err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	return nil
}
