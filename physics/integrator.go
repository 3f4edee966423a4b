package physics

// ParticleState is the per-sphere dynamical state the integrator advances:
// centre position, velocity, and the weight (default 1) forces are divided
// by, per spec.md §3/§4.2.1.
type ParticleState struct {
	Centre   Vec3
	Velocity Vec3
	Weight   float32
}

// IntegrateSphere performs one semi-implicit Euler step for a single
// sphere, per spec.md §4.2.1:
//
//	a = netForce / weight
//	v += a * dt
//	c += v * dt
func IntegrateSphere(s ParticleState, netForce Vec3, dtMin float32) ParticleState {
	w := s.Weight
	if w == 0 {
		w = 1
	}
	accel := netForce.Mul(1 / w)
	s.Velocity = s.Velocity.Add(accel.Mul(dtMin))
	s.Centre = s.Centre.Add(s.Velocity.Mul(dtMin))
	return s
}

// DriveFrictionForces implements the autonomous drive/friction couple of
// spec.md §4.2.1, always emitted during advanceAndBuildIntForces:
//
//	drive    =  (weight/persistence) * vDesired
//	friction = -(weight/persistence) * vCurrent
//
// Summed, this is an exponential relaxation of vCurrent toward vDesired
// with time constant equal to persistenceMin.
func DriveFrictionForces(weight, persistenceMin float32, vDesired, vCurrent Vec3, sphereHint int, base Vec3) (drive, friction ForceVector3d) {
	if persistenceMin <= 0 {
		persistenceMin = 1
	}
	k := weight / persistenceMin
	drive = NewForce(vDesired.Mul(k), base, sphereHint, ForceDesiredMovement)
	friction = NewForce(vCurrent.Mul(-k), base, sphereHint, ForceFriction)
	return
}

// BoundaryGuard implements spec.md §4.2.2's scene-boundary clamp: axial
// force components exceeding clipMagnitude (3 N) are clipped; if either the
// x or y component exceeds dieMagnitude (4 N), the caller should flag the
// agent for removal (it has wandered out of the simulation volume). The
// clip is applied in place on a copy and returned alongside the die flag.
func BoundaryGuard(f Vec3, clipMagnitude, dieMagnitude float32) (clipped Vec3, shouldDie bool) {
	clip := func(v, limit float32) float32 {
		if v > limit {
			return limit
		}
		if v < -limit {
			return -limit
		}
		return v
	}
	clipped = Vec3{
		X: clip(f.X, clipMagnitude),
		Y: clip(f.Y, clipMagnitude),
		Z: clip(f.Z, clipMagnitude),
	}
	if absF(f.X) > dieMagnitude || absF(f.Y) > dieMagnitude {
		shouldDie = true
	}
	return
}

func absF(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// SustainedForceGuard implements the other half of spec.md §4.2.2: if for
// more than maxFraction of the cell-cycle length the agent has been
// subject to any single force with magnitude greater than maxForce while
// not in mitosis (phase >= 3), the agent flags itself for removal. The
// caller accumulates secondsOverThreshold across rounds and compares it to
// fraction*cycleLength here.
func SustainedForceGuard(secondsOverThreshold, cycleLengthSeconds, maxFraction float32) bool {
	return secondsOverThreshold > maxFraction*cycleLengthSeconds
}
