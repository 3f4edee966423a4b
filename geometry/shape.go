// Package geometry implements the closed family of shape representations
// and the symmetric polymorphic getDistance query of spec.md §4.1, grounded
// on original_source/src/Geometries/Geometry.h. Dispatch is a Go
// tagged-variant plus a double-dispatch table instead of C++ virtual calls,
// per spec.md §9's "Polymorphism over shape variants" design note.
package geometry

import "github.com/embryogen/embryogen"

type Vec3 = embryogen.Vec3
type AABB = embryogen.AABB

// ShapeKind tags which payload a Geometry actually carries.
type ShapeKind int

const (
	KindSpheres ShapeKind = iota
	KindScalarImg
	KindVectorImg
	KindMesh
	KindUndefined
)

func (k ShapeKind) String() string {
	switch k {
	case KindSpheres:
		return "Spheres"
	case KindScalarImg:
		return "ScalarImg"
	case KindVectorImg:
		return "VectorImg"
	case KindMesh:
		return "Mesh"
	default:
		return "undefined"
	}
}

// Geometry is the tagged-variant shape value every agent carries, per
// spec.md §3. Every variant carries its own AABB and a monotonically
// increasing version counter bumped on every update.
type Geometry struct {
	Kind    ShapeKind
	Box     AABB
	Version uint64

	Spheres    *SpheresShape
	ScalarImg  *ScalarImgShape
	VectorImg  *VectorImgShape
	Mesh       *MeshShape
}

// updateOwnAABB recomputes Box from the primary data and bumps Version, per
// spec.md §4.1.4.
func (g *Geometry) UpdateOwnAABB() {
	switch g.Kind {
	case KindSpheres:
		g.Box = g.Spheres.computeAABB()
	case KindScalarImg:
		g.Box = g.ScalarImg.computeAABB()
	case KindVectorImg:
		g.Box = g.VectorImg.computeAABB()
	case KindMesh:
		g.Box = g.Mesh.computeAABB()
	}
	g.Version++
}

func NewSpheresGeometry(s *SpheresShape) *Geometry {
	g := &Geometry{Kind: KindSpheres, Spheres: s}
	g.UpdateOwnAABB()
	return g
}

func NewScalarImgGeometry(s *ScalarImgShape) *Geometry {
	g := &Geometry{Kind: KindScalarImg, ScalarImg: s}
	g.UpdateOwnAABB()
	return g
}

func NewVectorImgGeometry(s *VectorImgShape) *Geometry {
	g := &Geometry{Kind: KindVectorImg, VectorImg: s}
	g.UpdateOwnAABB()
	return g
}

func NewMeshGeometry(s *MeshShape) *Geometry {
	g := &Geometry{Kind: KindMesh, Mesh: s}
	g.UpdateOwnAABB()
	return g
}
