package geometry

import "github.com/embryogen/embryogen"

// Sphere is a single (centre, radius) pair; radius may be zero.
type Sphere struct {
	Centre Vec3
	Radius float32
}

func (s Sphere) AABB() AABB { return embryogen.SphereAABB(s.Centre, s.Radius) }

// SpheresShape is an ordered sequence of N spheres, N fixed at
// construction, per spec.md §3.
type SpheresShape struct {
	List []Sphere
}

func NewSpheres(spheres []Sphere) (*SpheresShape, error) {
	if len(spheres) == 0 {
		return nil, embryogen.ErrInvalidGeometry("Spheres: at least one sphere required")
	}
	cp := make([]Sphere, len(spheres))
	copy(cp, spheres)
	return &SpheresShape{List: cp}, nil
}

func (s *SpheresShape) computeAABB() AABB {
	box := embryogen.EmptyAABB()
	for _, sph := range s.List {
		box = box.Union(sph.AABB())
	}
	return box
}

// getDistanceSpheresSpheres implements spec.md §4.1.1: for each local
// sphere with radius>0, find the nearest foreign sphere by surface-to-
// surface distance and emit one pair per local sphere.
func getDistanceSpheresSpheres(local, other *SpheresShape, out *[]ProximityPair) {
	for i, ls := range local.List {
		if ls.Radius <= 0 {
			continue
		}
		bestJ := -1
		var bestDist float32
		for j, os := range other.List {
			d := ls.Centre.DistTo(os.Centre) - ls.Radius - os.Radius
			if bestJ == -1 || d < bestDist {
				bestJ = j
				bestDist = d
			}
		}
		if bestJ == -1 {
			continue
		}
		os := other.List[bestJ]
		dir := os.Centre.Sub(ls.Centre).Normalized()
		*out = append(*out, ProximityPair{
			LocalPos:  ls.Centre.Add(dir.Mul(ls.Radius)),
			OtherPos:  os.Centre.Sub(dir.Mul(os.Radius)),
			Distance:  bestDist,
			LocalHint: i,
			OtherHint: bestJ,
		})
	}
}
