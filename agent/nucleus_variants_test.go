package agent

import (
	"testing"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSphereTriangle(t *testing.T) *NucleusNSAgent {
	t.Helper()
	cfg := embryogen.DefaultConfig()
	spheres := []geometry.Sphere{
		{Centre: embryogen.V3(0, 0, 0), Radius: 2},
		{Centre: embryogen.V3(6, 0, 0), Radius: 2},
		{Centre: embryogen.V3(3, 6, 0), Radius: 2},
	}
	n, err := NewNucleusNSAgent(1, "NucleusTriangle", spheres, 0, cfg)
	require.NoError(t, err)
	return n
}

func TestNucleusNSAgentSamplesFullMatrix(t *testing.T) {
	n := threeSphereTriangle(t)
	require.Len(t, n.Canonical, 3)
	assert.InDelta(t, 6, n.Canonical[0][1], 1e-4)
	assert.InDelta(t, n.Canonical[0][1], n.Canonical[1][0], 1e-6)
}

func TestNucleusNSAgentEmitsForcesOnDeformedTriangle(t *testing.T) {
	n := threeSphereTriangle(t)
	n.Future.Spheres.List[2].Centre = embryogen.V3(3, 20, 0)

	n.AdvanceAndBuildIntForces(6 * time.Second)
	assert.NotEmpty(t, n.forces.Forces)
}

func fourSphereChain(t *testing.T) *Nucleus4SAgent {
	t.Helper()
	cfg := embryogen.DefaultConfig()
	spheres := [4]geometry.Sphere{
		{Centre: embryogen.V3(0, 0, 0), Radius: 2},
		{Centre: embryogen.V3(5, 0, 0), Radius: 2},
		{Centre: embryogen.V3(10, 0, 0), Radius: 2},
		{Centre: embryogen.V3(15, 0, 0), Radius: 2},
	}
	n, err := NewNucleus4SAgent(1, "Nucleus4S", spheres, 0, cfg)
	require.NoError(t, err)
	return n
}

func TestNucleus4SOffVectorsZeroOnStraightChain(t *testing.T) {
	n := fourSphereChain(t)
	off := n.offVectorsForCentres()
	for _, o := range off {
		assert.InDelta(t, 0, o.LenSq(), 1e-3)
	}
}

func TestNucleus4SRectifiesBentChain(t *testing.T) {
	n := fourSphereChain(t)
	n.Future.Spheres.List[0].Centre = embryogen.V3(0, 8, 0) // bend the first sphere off-axis

	n.AdvanceAndBuildIntForces(6 * time.Second)
	assert.NotEmpty(t, n.forces.Forces)

	f0 := n.forces.SumOnHint(0)
	assert.Less(t, f0.Y, float32(0)) // pulled back toward the axis (from y=8 toward y=0)
}
