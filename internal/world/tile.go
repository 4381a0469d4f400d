package world

import (
	"fmt"
	"slices"
)

// Kind is the closed set of tile kinds.
type Kind uint8

const (
	KindWater         Kind = iota // Traversable
	KindMonster                   // Slay; no cargo
	KindOffering                  // Offering pickup
	KindStatueSource              // Statue pickup
	KindStatueIsland              // Statue delivery
	KindTemple                    // Offering delivery
	KindShrine                    // Shrine build site
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	KindWater,
	KindMonster,
	KindOffering,
	KindStatueSource,
	KindStatueIsland,
	KindTemple,
	KindShrine,
}

// TaskKinds lists the kinds that carry tasks, in selection order.
var TaskKinds = []Kind{
	KindMonster,
	KindOffering,
	KindStatueSource,
	KindStatueIsland,
	KindTemple,
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWater:
		return "water"
	case KindMonster:
		return "monster"
	case KindOffering:
		return "offering"
	case KindStatueSource:
		return "statue_source"
	case KindStatueIsland:
		return "statue_island"
	case KindTemple:
		return "temple"
	case KindShrine:
		return "shrine"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind resolves a wire name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tile kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Tile is a single hex on the map.
type Tile struct {
	ID         string
	Kind       Kind
	Coord      HexCoord
	Colours    []string
	Neighbours []string // Sorted tile ids
}

// IsWater reports whether the tile is water.
func (t *Tile) IsWater() bool {
	return t.Kind == KindWater
}

// HasColour reports whether the tile carries the given colour tag.
func (t *Tile) HasColour(colour string) bool {
	return slices.Contains(t.Colours, colour)
}

// IsNeighbour reports whether id is adjacent to the tile.
func (t *Tile) IsNeighbour(id string) bool {
	_, found := slices.BinarySearch(t.Neighbours, id)
	return found
}
