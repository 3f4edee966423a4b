package physics

import (
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/stretchr/testify/assert"
)

func TestIntegrateSphereSemiImplicitEuler(t *testing.T) {
	s := ParticleState{Centre: embryogen.V3(0, 0, 0), Velocity: embryogen.V3(0, 0, 0), Weight: 1}
	force := embryogen.V3(1, 0, 0) // 1 N on weight 1 => a = 1 um/min^2
	dt := float32(0.1)

	next := IntegrateSphere(s, force, dt)
	assert.InDelta(t, 0.1, next.Velocity.X, 1e-6)
	assert.InDelta(t, 0.01, next.Centre.X, 1e-6)
}

func TestDriveFrictionRelaxesTowardDesired(t *testing.T) {
	weight := float32(1)
	persistence := float32(2)
	vDesired := embryogen.V3(1, 0, 0)
	state := ParticleState{Velocity: embryogen.V3(0, 0, 0), Weight: weight}
	dt := float32(0.01)

	for i := 0; i < 2000; i++ {
		drive, friction := DriveFrictionForces(weight, persistence, vDesired, state.Velocity, 0, state.Centre)
		net := drive.Vec3.Add(friction.Vec3)
		state = IntegrateSphere(state, net, dt)
	}
	assert.InDelta(t, 1.0, state.Velocity.X, 0.05)
}

func TestBoundaryGuardClipsAndFlagsDeath(t *testing.T) {
	f := embryogen.V3(10, 0, 0)
	clipped, die := BoundaryGuard(f, 3, 4)
	assert.Equal(t, float32(3), clipped.X)
	assert.True(t, die)

	f2 := embryogen.V3(2, 0, 0)
	clipped2, die2 := BoundaryGuard(f2, 3, 4)
	assert.Equal(t, float32(2), clipped2.X)
	assert.False(t, die2)
}

func TestSustainedForceGuard(t *testing.T) {
	assert.True(t, SustainedForceGuard(2, 10, 0.05))
	assert.False(t, SustainedForceGuard(0.1, 10, 0.05))
}
