package agent

import (
	"testing"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSphereNucleus(t *testing.T) *NucleusAgent {
	t.Helper()
	cfg := embryogen.DefaultConfig()
	spheres := []geometry.Sphere{
		{Centre: embryogen.V3(0, 0, 0), Radius: 3},
		{Centre: embryogen.V3(6, 0, 0), Radius: 3},
	}
	n, err := NewNucleusAgent(1, "Nucleus2S", spheres, 0, cfg)
	require.NoError(t, err)
	return n
}

func TestNewNucleusAgentSamplesCanonicalChain(t *testing.T) {
	n := twoSphereNucleus(t)
	require.Len(t, n.ChainCanonical, 1)
	assert.InDelta(t, 6, n.ChainCanonical[0], 1e-4)
}

func TestEmitChainConsecutiveRestoresOnStretch(t *testing.T) {
	n := twoSphereNucleus(t)
	n.Future.Spheres.List[1].Centre = embryogen.V3(10, 0, 0)

	n.forces.Clear()
	n.emitChainConsecutive()

	require.Len(t, n.forces.Forces, 2)
	assert.Greater(t, n.forces.Forces[0].X, float32(0))
	assert.Less(t, n.forces.Forces[1].X, float32(0))
}

func TestEmitChainConsecutiveSkipsWithinTolerance(t *testing.T) {
	n := twoSphereNucleus(t)
	n.forces.Clear()
	n.emitChainConsecutive()
	assert.Empty(t, n.forces.Forces)
}

func TestAdvanceAndBuildIntForcesAdvancesClock(t *testing.T) {
	n := twoSphereNucleus(t)
	n.AdvanceAndBuildIntForces(6 * time.Second)
	assert.Equal(t, 6*time.Second, n.CurrTime)
	assert.NotEmpty(t, n.forces.Forces) // drive/friction always present
}

func TestAdjustGeometryByIntForcesMovesTowardDesired(t *testing.T) {
	n := twoSphereNucleus(t)
	n.DesiredVelocity = embryogen.V3(1, 0, 0)
	n.AdvanceAndBuildIntForces(6 * time.Second)
	before := n.Future.Spheres.List[0].Centre.X
	n.AdjustGeometryByIntForces(6 * time.Second)
	after := n.Future.Spheres.List[0].Centre.X
	assert.Greater(t, after, before)
}

func TestPublishGeometryInflatesByCytoplasmWidth(t *testing.T) {
	n := twoSphereNucleus(t)
	n.Future.Spheres.List[0].Radius = 3
	n.PublishGeometry()
	assert.InDelta(t, 3+n.CytoplasmHalfWidth, n.Exposed.Spheres.List[0].Radius, 1e-4)
}

func TestApplyStabilityGuardsClipsLargeForce(t *testing.T) {
	n := twoSphereNucleus(t)
	n.forces.Clear()
	n.forces.Add(physics.NewForce(embryogen.V3(10, 0, 0), embryogen.V3(0, 0, 0), 0, physics.ForceSphereSphere))
	n.applyStabilityGuards()
	assert.LessOrEqual(t, n.forces.Forces[0].X, n.cfg.BoundaryClipForce)
}
