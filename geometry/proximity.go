package geometry

// ProximityPair summarises the nearest-point relationship between two
// shapes, per spec.md §3. A negative Distance signals penetration depth.
// Direction convention: OtherPos-LocalPos has magnitude |Distance|; for
// collisions the two points are the deepest-penetration representatives.
type ProximityPair struct {
	LocalPos   Vec3
	OtherPos   Vec3
	Distance   float32
	LocalHint  int
	OtherHint  int
	CallerHint any
}

// Reversed swaps LocalPos/OtherPos and their hints for the fallback case
// where (A,B) is served by calling (B,A), per spec.md §4.1's dispatch
// contract: "swap localPos/otherPos, swap hints, flip nothing about
// distance".
func (p ProximityPair) Reversed() ProximityPair {
	return ProximityPair{
		LocalPos:   p.OtherPos,
		OtherPos:   p.LocalPos,
		Distance:   p.Distance,
		LocalHint:  p.OtherHint,
		OtherHint:  p.LocalHint,
		CallerHint: p.CallerHint,
	}
}
