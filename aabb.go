package embryogen

import "math"

// AABB is an axis-aligned bounding box in µm space, per spec.md §3.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns the canonical empty box: min=+inf, max=-inf, so that
// unioning any real box with it yields that box unchanged.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{min32(b.Min.X, o.Min.X), min32(b.Min.Y, o.Min.Y), min32(b.Min.Z, o.Min.Z)},
		Max: Vec3{max32(b.Max.X, o.Max.X), max32(b.Max.Y, o.Max.Y), max32(b.Max.Z, o.Max.Z)},
	}
}

// Intersects reports whether the two boxes overlap (touching counts as
// intersecting).
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// SqDistance returns the squared axial minimum distance between two AABBs;
// zero whenever they intersect, per spec.md §3.
func (b AABB) SqDistance(o AABB) float32 {
	d := axialGap(b.Min.X, b.Max.X, o.Min.X, o.Max.X)
	d2 := d * d
	d = axialGap(b.Min.Y, b.Max.Y, o.Min.Y, o.Max.Y)
	d2 += d * d
	d = axialGap(b.Min.Z, b.Max.Z, o.Min.Z, o.Max.Z)
	d2 += d * d
	return d2
}

func axialGap(aMin, aMax, bMin, bMax float32) float32 {
	if aMax < bMin {
		return bMin - aMax
	}
	if bMax < aMin {
		return aMin - bMax
	}
	return 0
}

func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func SphereAABB(centre Vec3, radius float32) AABB {
	r := Vec3{radius, radius, radius}
	return AABB{Min: centre.Sub(r), Max: centre.Add(r)}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// NamedAABB additionally carries the owning agent's id and a 64-bit
// agent-type hash, per spec.md §3. This is the payload broadcast during the
// round-robin AABB exchange (§4.5, §6).
type NamedAABB struct {
	AABB
	AgentID        int
	AgentTypeHash  uint64
	GeometryVer    uint64
}
