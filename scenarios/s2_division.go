package scenarios

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/agent"
	"github.com/embryogen/embryogen/sched"
)

func init() { Register("S2-single-cell-division", RunS2) }

const s2RingPoints = 12

func ringOf(radius float32) []agent.PolarPoint {
	pts := make([]agent.PolarPoint, s2RingPoints)
	for i := range pts {
		pts[i] = agent.PolarPoint{
			Angle:  float32(i) * 2 * float32(math.Pi) / float32(s2RingPoints),
			Radius: radius,
		}
	}
	return pts
}

// S2Outcome is what spec.md §8's S2 property checks: exactly one division
// and the two daughter ids, both parented on the mother.
type S2Outcome struct {
	Divisions          int
	MotherID           int
	DaughterA, DaughterB int
}

// runS2 reproduces spec.md §8's "single-cell division". Division itself
// lives only on the legacy Boundary2DAgent's cell-cycle hooks (package
// agent), so this scenario drives a Boundary2DAgent directly through its
// cell cycle rather than through the sched scheduler, whose AABB/force
// pipeline Boundary2DAgent's non-Spheres geometry does not participate in;
// the Director is still used purely for id allocation and the lineage
// table. Grounded on
// original_source/src/Scenarios/Scenario_modelledDivision.cpp.
func runS2(outDir string) (S2Outcome, error) {
	cfg := embryogen.DefaultConfig()
	cfg.FullCycleDuration = 3 * time.Minute
	cfg.TimeStep = 6 * time.Second // 0.1 min
	rng := rand.New(rand.NewSource(cfg.RNGSeed))

	director := sched.NewDirector(1, embryogen.NewNopLogger())
	motherID := director.AllocAgentID()
	director.Tracks.StartNewTrack(motherID, 0)

	mother := agent.NewBoundary2DAgent(motherID, "boundary2d", embryogen.V3(15, 15, 15), ringOf(5), 0, 0, cfg)
	hooks := mother.Hooks(func() int { return director.AllocAgentID() })
	mother.Cycle = agent.NewCellCycle(cfg.FullCycleDuration, cfg.PhaseFractions, cfg.PhaseDurationCV, hooks, rng, 0)

	out := S2Outcome{MotherID: motherID}
	lastFrame := 0

	for round := 1; round <= 100; round++ {
		mother.CurrTime += cfg.TimeStep
		mother.Cycle.Advance(mother.CurrTime)
		lastFrame = round

		if daughter := mother.TakeDaughter(); daughter != nil {
			daughterA := director.AllocAgentID()
			director.Tracks.CloseTrack(motherID, round)
			director.Tracks.UpdateParentalLink(daughterA, motherID, round+1)
			director.Tracks.UpdateParentalLink(daughter.ID, motherID, round+1)
			mother.ID = daughterA

			out.Divisions++
			out.DaughterA = daughterA
			out.DaughterB = daughter.ID
			lastFrame = round + 1
			break
		}
	}

	director.Tracks.CloseOpenAtShutdown(lastFrame + 1)
	if err := director.Tracks.ExportAll(outDir + "/tracks.txt"); err != nil {
		return out, fmt.Errorf("S2: %w", err)
	}
	return out, nil
}

// RunS2 is the CLI-facing entry point.
func RunS2(outDir string) (string, error) {
	out, err := runS2(outDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("S2: %d division(s), mother %d -> daughters (%d, %d)", out.Divisions, out.MotherID, out.DaughterA, out.DaughterB), nil
}
