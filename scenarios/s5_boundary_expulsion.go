package scenarios

import (
	"fmt"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/agent"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/sched"
)

func init() { Register("S5-boundary-expulsion", RunS5) }

const s5MaxRounds = 20

// S5Outcome is what spec.md §8's S5 property checks: removal within the
// round budget, and the frame its track closed on.
type S5Outcome struct {
	DiedAtRound  int // 0 if it survived the whole budget
	ClosedFrame  int
	FinalFrame   int
}

// runS5 reproduces spec.md §8's "boundary expulsion": a nucleus started
// near the edge of a 480x30x30 um scene with a desired velocity pointed
// further out. BoundaryGuard's excessive-axial-force removal rule
// (physics.BoundaryGuard, agent.(*NucleusAgent).applyStabilityGuards) is
// magnitude-only, not position-dependent, so this scenario realises "has
// wandered out of the simulation volume" by giving the agent a short
// persistence time against its desired velocity — the resulting
// drive/friction force's x-component exceeds the 4 N die threshold from
// the very first round, which the scheduler then reports as an agent
// close back to the Director. Grounded on
// original_source/src/Agents/NucleusAgent.h's boundary-force removal and
// the teacher's mod_physics.go PhysicsProxy round-driving idiom.
func runS5(outDir string) (S5Outcome, error) {
	cfg := embryogen.DefaultConfig()
	cfg.SceneMin = embryogen.V3(0, 0, 0)
	cfg.SceneMax = embryogen.V3(480, 30, 30)
	cfg.TimeStep = 6 * time.Second

	director := sched.NewDirector(1, embryogen.NewNopLogger())
	fo := sched.NewFrontOfficer(1, 1, director.Inbox, cfg, embryogen.NewNopLogger())

	id := director.AllocAgentID()
	a, err := agent.NewNucleusAgent(id, "nucleus", []geometry.Sphere{{Centre: embryogen.V3(479, 15, 15), Radius: 3}}, 0, cfg)
	if err != nil {
		return S5Outcome{}, fmt.Errorf("S5: %w", err)
	}
	a.DesiredVelocity = embryogen.V3(1, 0, 0)
	a.Persistence = 6 * time.Second // short persistence turns a modest desired velocity into a large drive force
	fo.AddAgent(a)
	director.RegisterNewAgent(id, true)

	fos := []*sched.FrontOfficer{fo}
	go fo.Run()

	var out S5Outcome
	for round := 1; round <= s5MaxRounds; round++ {
		if err := director.RunRound(fos, false); err != nil {
			return out, fmt.Errorf("S5: round %d: %w", round, err)
		}
		if !fo.HasAgent(id) {
			out.DiedAtRound = round
			break
		}
	}
	out.FinalFrame = director.CurrentFrame()

	if err := director.Shutdown(fos, outDir+"/tracks.txt"); err != nil {
		return out, fmt.Errorf("S5: %w", err)
	}
	if closed, ok := director.Tracks.ToFrame(id); ok {
		out.ClosedFrame = closed
	}
	return out, nil
}

// RunS5 is the CLI-facing entry point.
func RunS5(outDir string) (string, error) {
	out, err := runS5(outDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("S5: died at round %d, track closed at frame %d (final frame %d)", out.DiedAtRound, out.ClosedFrame, out.FinalFrame), nil
}
