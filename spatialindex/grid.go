// Package spatialindex implements the uniform-grid "agents map" of spec.md
// §3: a spatial bucketing of agent AABBs supporting range queries by cell
// or by sphere. Grounded on the teacher's mod_spatialgrid.go
// (SpatialHashGrid), generalised from an unbounded hash map of entity ids
// to the explicit (minCorner, maxCorner, cellSize)-bounded grid spec.md §3
// calls for, with the default per-cell capacity taken from
// original_source/src/util/AgentsMap.hpp.
package spatialindex

import "github.com/embryogen/embryogen"

type Vec3 = embryogen.Vec3
type AABB = embryogen.AABB

// defaultCellCapacity mirrors AgentsMap.hpp's initial per-cell reservation.
const defaultCellCapacity = 100

type cellKey struct{ X, Y, Z int }

// Grid is a uniform 3-D grid of cells, each cell a small slice of agent
// ids, constructed from a (minCorner, maxCorner, cellSize) triple in µm,
// per spec.md §3.
type Grid struct {
	Min, Max Vec3
	CellSize float32
	cells    map[cellKey][]int
}

func NewGrid(min, max Vec3, cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{Min: min, Max: max, CellSize: cellSize, cells: make(map[cellKey][]int)}
}

// Clear empties every cell, ready for the next round's rebuild — AABBs are
// short-lived, rebuilt every round from incoming broadcasts (spec.md §3).
func (g *Grid) Clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

func (g *Grid) cellIndex(p Vec3) cellKey {
	return cellKey{
		X: int((p.X - g.Min.X) / g.CellSize),
		Y: int((p.Y - g.Min.Y) / g.CellSize),
		Z: int((p.Z - g.Min.Z) / g.CellSize),
	}
}

// InsertMicron inserts an agent id at the cell containing a single µm
// point.
func (g *Grid) InsertMicron(id int, p Vec3) {
	g.insertAtKey(id, g.cellIndex(p))
}

// InsertAABB inserts an agent id into every cell its AABB overlaps.
func (g *Grid) InsertAABB(id int, box AABB) {
	lo := g.cellIndex(box.Min)
	hi := g.cellIndex(box.Max)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				g.insertAtKey(id, cellKey{x, y, z})
			}
		}
	}
}

func (g *Grid) insertAtKey(id int, k cellKey) {
	list, ok := g.cells[k]
	if !ok {
		list = make([]int, 0, defaultCellCapacity)
	}
	g.cells[k] = append(list, id)
}

// QueryCell returns the ids bucketed in the single cell containing p.
func (g *Grid) QueryCell(p Vec3) []int {
	return g.cells[g.cellIndex(p)]
}

// QueryRadius returns the (deduplicated) ids in every cell touched by a
// sphere around centre, per spec.md §3.
func (g *Grid) QueryRadius(centre Vec3, radius float32) []int {
	box := embryogen.SphereAABB(centre, radius)
	return g.QueryAABB(box)
}

// QueryAABB returns the (deduplicated) ids in every cell the box overlaps.
func (g *Grid) QueryAABB(box AABB) []int {
	lo := g.cellIndex(box.Min)
	hi := g.cellIndex(box.Max)
	seen := make(map[int]struct{})
	var out []int
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				for _, id := range g.cells[cellKey{x, y, z}] {
					if _, ok := seen[id]; !ok {
						seen[id] = struct{}{}
						out = append(out, id)
					}
				}
			}
		}
	}
	return out
}
