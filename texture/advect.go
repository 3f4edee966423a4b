package texture

import (
	"math"

	"github.com/embryogen/embryogen"
	"github.com/go-gl/mathgl/mgl32"
)

// SphereMotion is the old/new (centre, radius, orientation) triple of a
// single sphere between two consecutive rounds, the input to dot advection
// for the 4-sphere nucleus variant, per spec.md §4.6.
type SphereMotion struct {
	PrevCentre, NewCentre         embryogen.Vec3
	PrevRadius, NewRadius         float32
	PrevOrientation, NewOrientation embryogen.Vec3
}

func toMgl(v embryogen.Vec3) mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }
func fromMgl(v mgl32.Vec3) embryogen.Vec3 { return embryogen.V3(v[0], v[1], v[2]) }

// rotateByOrientationChange applies the rotation that takes prevOri to
// newOri to v, via the quaternion (cos(theta/2), sin(theta/2)*axis) with
// axis the unit cross product of the two orientations — the identity
// rotation if they are nearly parallel, per spec.md §4.6.
func rotateByOrientationChange(v, prevOri, newOri embryogen.Vec3) embryogen.Vec3 {
	a := toMgl(prevOri).Normalize()
	b := toMgl(newOri).Normalize()
	axis := a.Cross(b)
	if axis.Len() < 1e-6 {
		return v
	}
	axis = axis.Normalize()
	cosTheta := a.Dot(b)
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	theta := float32(math.Acos(float64(cosTheta)))
	q := mgl32.QuatRotate(theta, axis)
	return fromMgl(q.Rotate(toMgl(v)))
}

// AdvectDots implements spec.md §4.6's dot-advection rule for the 4S
// variant: every dot is pulled along by whichever spheres it lies within
// (weighted by penetration depth into the old sphere), rotated by that
// sphere's orientation change and rescaled by its radius change. Dots with
// zero total weight (outside every old sphere) are left in place and
// counted as outliers.
func AdvectDots(cloud *DotCloud, motions []SphereMotion) (outliers int) {
	for i, dot := range cloud.Pos {
		var weightSum float32
		var weighted embryogen.Vec3

		for _, m := range motions {
			w := m.PrevRadius - dot.DistTo(m.PrevCentre)
			if w <= 0 {
				continue
			}
			rel := dot.Sub(m.PrevCentre)
			rotated := rotateByOrientationChange(rel, m.PrevOrientation, m.NewOrientation)
			scale := float32(1)
			if m.PrevRadius != 0 {
				scale = m.NewRadius / m.PrevRadius
			}
			candidate := rotated.Mul(scale).Add(m.NewCentre)
			weighted = weighted.Add(candidate.Mul(w))
			weightSum += w
		}

		if weightSum == 0 {
			outliers++
			continue
		}
		cloud.Pos[i] = weighted.Mul(1 / weightSum)
	}
	return outliers
}
