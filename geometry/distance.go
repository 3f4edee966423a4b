package geometry

import "github.com/embryogen/embryogen"

// GetDistance implements the getDistance(self, other, outList) contract of
// spec.md §4.1: append to out a set of ProximityPair values summarising the
// nearest-point relationship between local and other. Pairs are additive —
// callers may accumulate pairs from multiple shapes into one list.
//
// Implementations are provided for every ordered pair the original source
// actually implements; the remaining pairs are served by calling the
// reverse order and reversing each resulting pair, per spec.md §4.1's
// dispatch contract. An unimplemented pair (spec.md §7: "Unsupported
// geometry pair") is logged as a warning and returns without appending —
// by design, so new shape variants can be added incrementally without
// breaking dispatch (spec.md §9).
func GetDistance(local, other *Geometry, out *[]ProximityPair, logger embryogen.Logger) {
	if logger == nil {
		logger = embryogen.NewNopLogger()
	}

	switch {
	case local.Kind == KindSpheres && other.Kind == KindSpheres:
		getDistanceSpheresSpheres(local.Spheres, other.Spheres, out)

	case local.Kind == KindScalarImg && other.Kind == KindSpheres:
		getDistanceSpheresScalarImg(local.ScalarImg, other.Spheres, out)
	case local.Kind == KindSpheres && other.Kind == KindScalarImg:
		appendReversed(out, func(tmp *[]ProximityPair) {
			getDistanceSpheresScalarImg(other.ScalarImg, local.Spheres, tmp)
		})

	case local.Kind == KindVectorImg && other.Kind == KindSpheres:
		getDistanceSpheresVectorImg(local.VectorImg, other.Spheres, out)
	case local.Kind == KindSpheres && other.Kind == KindVectorImg:
		appendReversed(out, func(tmp *[]ProximityPair) {
			getDistanceSpheresVectorImg(other.VectorImg, local.Spheres, tmp)
		})

	default:
		logger.Warnf("getDistance: unsupported geometry pair (%s,%s), ignored", local.Kind, other.Kind)
	}
}

// appendReversed runs fn (which appends pairs in the reversed ordering)
// into a scratch slice, then appends each pair's Reversed() form to out.
func appendReversed(out *[]ProximityPair, fn func(tmp *[]ProximityPair)) {
	var tmp []ProximityPair
	fn(&tmp)
	for _, p := range tmp {
		*out = append(*out, p.Reversed())
	}
}
