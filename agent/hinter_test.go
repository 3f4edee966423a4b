package agent

import (
	"testing"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TrajectoryHinterAgent must satisfy ForceHost so it can be registered on
// a FrontOfficer like any other agent kind.
var _ ForceHost = (*TrajectoryHinterAgent)(nil)

func constantFieldHinter(t *testing.T, size embryogen.IVec3, v embryogen.Vec3) *TrajectoryHinterAgent {
	t.Helper()
	cfg := embryogen.DefaultConfig()
	n := size.X * size.Y * size.Z
	vx := make([]float32, n)
	vy := make([]float32, n)
	vz := make([]float32, n)
	for i := 0; i < n; i++ {
		vx[i], vy[i], vz[i] = v.X, v.Y, v.Z
	}
	frames := []TrajectoryFrame{{Time: 0, VX: vx, VY: vy, VZ: vz}}
	h, err := NewTrajectoryHinterAgent(99, "hinter", size, embryogen.Resolution{X: 1, Y: 1, Z: 1}, embryogen.V3(0, 0, 0), geometry.ChooseAvgVec, frames, 0, cfg)
	require.NoError(t, err)
	return h
}

func TestNewTrajectoryHinterAgentBuildsInitialField(t *testing.T) {
	h := constantFieldHinter(t, embryogen.IV3(10, 10, 10), embryogen.V3(1, 0, 0))
	assert.Equal(t, geometry.KindVectorImg, h.Exposed.Kind)
	assert.Equal(t, h.Exposed, h.Future)
}

func TestTrajectoryHinterAgentAdvanceRebuildsAtNewTime(t *testing.T) {
	h := constantFieldHinter(t, embryogen.IV3(10, 10, 10), embryogen.V3(1, 0, 0))
	before := h.Exposed.Version

	h.AdvanceAndBuildIntForces(6 * time.Second)

	assert.Equal(t, 6*time.Second, h.CurrTime)
	assert.Greater(t, h.Exposed.Version, before)
}

func TestTrajectoryHinterAgentIsPassive(t *testing.T) {
	h := constantFieldHinter(t, embryogen.IV3(10, 10, 10), embryogen.V3(1, 0, 0))
	h.AdjustGeometryByIntForces(6 * time.Second)
	h.CollectExtForces(nil, nil)
	h.AdjustGeometryByExtForces(6 * time.Second)
	h.PublishGeometry()
	assert.Empty(t, h.Forces().Forces)
}

// TestHinterDrivesSphereHinterForce exercises the ForceSphereHinter path
// end to end: a nucleus sitting inside a hinter's field picks up a
// sphere-hinter force pointing along the recorded velocity.
func TestHinterDrivesSphereHinterForce(t *testing.T) {
	h := constantFieldHinter(t, embryogen.IV3(20, 20, 20), embryogen.V3(2, 0, 0))

	cfg := embryogen.DefaultConfig()
	n, err := NewNucleusAgent(1, "Nucleus1S", []geometry.Sphere{{Centre: embryogen.V3(10, 10, 10), Radius: 3}}, 0, cfg)
	require.NoError(t, err)

	n.forces.Clear()
	n.CollectExtForces([]ExternalGeometry{{AgentID: h.ID, Geometry: h.Exposed}}, embryogen.NewNopLogger())

	var sawHinterForce bool
	for _, f := range n.forces.Forces {
		if f.Tag == "sphere-hinter" {
			sawHinterForce = true
			assert.Greater(t, f.X, float32(0))
		}
	}
	assert.True(t, sawHinterForce)
}
