// Package physics implements the force-assembly and integration pipeline of
// spec.md §4.2: ForceVector3d, the per-sphere force list, semi-implicit
// Euler integration, and the drive/friction couple. Grounded on the
// teacher's mod_physics.go (RigidBodyComponent.ApplyImpulse,
// PhysicsWorld/physicsLoop) generalised from a single rigid body to a
// per-sphere array, and on original_source/src/Agents/NucleusAgent.h for
// the force-type tags and constants.
package physics

import "github.com/embryogen/embryogen"

type Vec3 = embryogen.Vec3

// ForceName is the stable string tag identifying a force family, carried
// verbatim from original_source/src/Agents/NucleusAgent.h so that a debug
// draw path (or a human reading a log) can group forces by origin.
type ForceName string

const (
	ForceSphereSphere    ForceName = "sphere-sphere"
	ForceDesiredMovement ForceName = "desired movement"
	ForceFriction        ForceName = "friction"
	ForceRepulsive       ForceName = "repulsive"
	ForceNoOverlapBody   ForceName = "no overlap (body)"
	ForceNoSliding       ForceName = "no sliding"
	ForceSphereHinter    ForceName = "sphere-hinter"
)

// ForceVector3d is a Vector3d extended with its application point and a
// hint (typically the sphere index within the owning geometry), per
// spec.md §3.
type ForceVector3d struct {
	Vec3
	Base Vec3
	Hint int
	Tag  ForceName
}

func NewForce(v Vec3, base Vec3, hint int, tag ForceName) ForceVector3d {
	return ForceVector3d{Vec3: v, Base: base, Hint: hint, Tag: tag}
}

// ForceList is the per-agent list of currently acting forces, cleared at
// the start of every advanceAndBuildIntForces round (spec.md §4.2, §9).
type ForceList struct {
	Forces []ForceVector3d
}

func (l *ForceList) Clear() { l.Forces = l.Forces[:0] }

func (l *ForceList) Add(f ForceVector3d) { l.Forces = append(l.Forces, f) }

// SumOnHint sums the vector component of every force whose Hint matches
// sphereIdx — the per-sphere net force used by the integrator.
func (l *ForceList) SumOnHint(sphereIdx int) Vec3 {
	var sum Vec3
	for _, f := range l.Forces {
		if f.Hint == sphereIdx {
			sum = sum.Add(f.Vec3)
		}
	}
	return sum
}

// MaxMagnitude returns the largest force magnitude currently in the list,
// used by the stability guard of spec.md §4.2.2.
func (l *ForceList) MaxMagnitude() float32 {
	var m float32
	for _, f := range l.Forces {
		if mag := f.Len(); mag > m {
			m = mag
		}
	}
	return m
}
