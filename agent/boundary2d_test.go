package agent

import (
	"math"
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/stretchr/testify/assert"
)

func octagonBoundary(t *testing.T) *Boundary2DAgent {
	t.Helper()
	cfg := embryogen.DefaultConfig()
	var points []PolarPoint
	for i := 0; i < 8; i++ {
		points = append(points, PolarPoint{Angle: float32(i) * float32(math.Pi) / 4, Radius: 5})
	}
	return NewBoundary2DAgent(1, "Boundary2D", embryogen.V3(0, 0, 0), points, 0, 0, cfg)
}

func TestRunG1InterpolatesTowardInitialRadius(t *testing.T) {
	b := octagonBoundary(t)
	b.Points[0].Radius = 8 // perturb away from the initial 5

	b.runG1(0)

	assert.Less(t, b.Points[0].Radius, float32(8))
	assert.Greater(t, b.Points[0].Radius, float32(5))
}

func TestSubdivideInsertsMidpointOnWideGap(t *testing.T) {
	b := octagonBoundary(t)
	b.MinVertexDensity = 12.0 / float32(2*math.Pi)
	before := len(b.Points)
	b.Points = []PolarPoint{{Angle: 0, Radius: 5}, {Angle: float32(math.Pi), Radius: 5}}

	b.subdivide()

	assert.Greater(t, len(b.Points), 2)
	_ = before
}

func TestStartMitoticSlowdownZeroesSpeed(t *testing.T) {
	b := octagonBoundary(t)
	b.DesiredSpeed = 2
	b.Cycle = NewCellCycle(b.cfg.FullCycleDuration, b.cfg.PhaseFractions, b.cfg.PhaseDurationCV, [8]PhaseHooks{}, nil, 0)

	b.startMitoticSlowdown()

	assert.Equal(t, float32(0), b.DesiredSpeed)
	assert.Equal(t, float32(2), b.BaseSpeed)
}

func TestStartTelophaseElongatesNearPole(t *testing.T) {
	b := octagonBoundary(t)
	b.Orientation = 0
	before := b.Points[0].Radius

	b.startTelophase()

	assert.Greater(t, b.Points[0].Radius, before)
}

func TestStartCytokinesisContractsMinorAxis(t *testing.T) {
	b := octagonBoundary(t)
	b.Orientation = 0
	minorIdx := 2 // angle = pi/2, the minor axis per this octagon's layout
	before := b.Points[minorIdx].Radius

	b.startCytokinesis()

	assert.Less(t, b.Points[minorIdx].Radius, before)
}

func TestCloseCytokinesisProducesDaughterAndHalvesParent(t *testing.T) {
	b := octagonBoundary(t)
	b.Orientation = 0

	b.closeCytokinesis(99)
	daughter := b.TakeDaughter()

	assert.NotNil(t, daughter)
	assert.Equal(t, 99, daughter.ID)
	assert.NotEmpty(t, b.Points)
	assert.NotEmpty(t, daughter.Points)
}
