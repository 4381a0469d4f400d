package world

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallMap = `{
  "hub_tile": "w0",
  "infer_neighbours": true,
  "tiles": [
    {"id": "w0", "type": "water", "colours": [], "coords": [0, 0]},
    {"id": "w1", "type": "water", "colours": [], "coords": [1, 0]},
    {"id": "m0", "type": "monster", "colours": ["red"], "coords": [2, 0]},
    {"id": "s0", "type": "shrine", "colours": [], "coords": [1, 1]}
  ]
}`

func TestDecodeGridInfersNeighbours(t *testing.T) {
	g, err := DecodeGrid(strings.NewReader(smallMap), Requirements{})
	require.NoError(t, err)

	assert.Equal(t, "w0", g.HubID())
	assert.Equal(t, KindMonster, g.Tile("m0").Kind)
	assert.Equal(t, []string{"m0", "s0", "w0"}, g.Tile("w1").Neighbours)
	assert.True(t, g.Adjacent("s0", "w1"))
	assert.False(t, g.Adjacent("s0", "w0"))
}

func TestDecodeGridRejectsUnknownKind(t *testing.T) {
	doc := strings.Replace(smallMap, `"monster"`, `"volcano"`, 1)
	_, err := DecodeGrid(strings.NewReader(doc), Requirements{})
	assert.ErrorContains(t, err, `unknown tile kind "volcano"`)
}

func TestSaveAndLoadGrid(t *testing.T) {
	g, err := DecodeGrid(strings.NewReader(smallMap), Requirements{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "maps", "small.json")
	require.NoError(t, SaveGrid(path, g))

	loaded, err := LoadGrid(path, Requirements{})
	require.NoError(t, err)
	assert.Equal(t, g.IDs(), loaded.IDs())
	assert.Equal(t, g.Tile("w1").Neighbours, loaded.Tile("w1").Neighbours)

	var buf bytes.Buffer
	require.NoError(t, EncodeGrid(&buf, loaded))
	assert.Contains(t, buf.String(), `"type": "shrine"`)
}
