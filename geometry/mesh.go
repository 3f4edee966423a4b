package geometry

import "github.com/embryogen/embryogen"

// Triangle is a single mesh face, three µm-space vertices.
type Triangle struct {
	A, B, C Vec3
}

// MeshShape is a triangle mesh. Grounded on
// original_source/src/Geometries/Mesh.h, which is itself a stub ("not
// implemented in full" per spec.md §3) — only AABB bookkeeping is
// implemented here; getDistance pairs involving a mesh fall through the
// "unsupported pair" path of distance.go and are logged, not fatal, per
// spec.md §7.
type MeshShape struct {
	Triangles []Triangle
}

func NewMesh(tris []Triangle) (*MeshShape, error) {
	if len(tris) == 0 {
		return nil, embryogen.ErrInvalidGeometry("Mesh: at least one triangle required")
	}
	cp := make([]Triangle, len(tris))
	copy(cp, tris)
	return &MeshShape{Triangles: cp}, nil
}

func (m *MeshShape) computeAABB() AABB {
	box := embryogen.EmptyAABB()
	for _, t := range m.Triangles {
		for _, v := range [3]Vec3{t.A, t.B, t.C} {
			box = box.Union(AABB{Min: v, Max: v})
		}
	}
	return box
}
