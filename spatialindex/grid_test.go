package spatialindex

import (
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/stretchr/testify/assert"
)

func TestGridInsertAndQueryRadius(t *testing.T) {
	g := NewGrid(embryogen.V3(0, 0, 0), embryogen.V3(100, 100, 100), 5)
	g.InsertMicron(1, embryogen.V3(10, 10, 10))
	g.InsertMicron(2, embryogen.V3(50, 50, 50))

	ids := g.QueryRadius(embryogen.V3(10, 10, 10), 2)
	assert.Contains(t, ids, 1)
	assert.NotContains(t, ids, 2)
}

func TestGridClearEmptiesCells(t *testing.T) {
	g := NewGrid(embryogen.V3(0, 0, 0), embryogen.V3(10, 10, 10), 1)
	g.InsertMicron(1, embryogen.V3(1, 1, 1))
	g.Clear()
	assert.Empty(t, g.QueryCell(embryogen.V3(1, 1, 1)))
}

func TestGridInsertAABBCoversOverlappingCells(t *testing.T) {
	g := NewGrid(embryogen.V3(0, 0, 0), embryogen.V3(20, 20, 20), 2)
	box := embryogen.AABB{Min: embryogen.V3(1, 1, 1), Max: embryogen.V3(5, 5, 5)}
	g.InsertAABB(7, box)

	found := g.QueryAABB(box)
	assert.Contains(t, found, 7)
}
