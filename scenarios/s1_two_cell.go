package scenarios

import (
	"fmt"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/agent"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/sched"
)

func init() { Register("S1-two-cell-contact", RunS1) }

// S1Outcome is the quantity spec.md §8's S1 property checks: final centre
// separation and both agents' survival.
type S1Outcome struct {
	FinalSeparation     float32
	Agent1Alive, Agent2Alive bool
}

// runS1 reproduces spec.md §8's "two-cell symmetric contact": two
// single-sphere nuclei 9 µm apart in a 30³ µm scene, 5 rounds at a 0.1 min
// step, expected to separate past 6 µm under body-repulsion force alone.
// Grounded on original_source/src/Scenarios/Scenario_AFewAgents.cpp.
func runS1(outDir string) (S1Outcome, error) {
	cfg := embryogen.DefaultConfig()
	cfg.SceneMin = embryogen.V3(0, 0, 0)
	cfg.SceneMax = embryogen.V3(30, 30, 30)
	cfg.TimeStep = 6 * time.Second // 0.1 min
	cfg.IgnoreDistance = 10

	director := sched.NewDirector(2, embryogen.NewNopLogger())
	fo1 := sched.NewFrontOfficer(1, 2, director.Inbox, cfg, embryogen.NewNopLogger())
	fo2 := sched.NewFrontOfficer(2, 2, director.Inbox, cfg, embryogen.NewNopLogger())
	fo1.ConnectPeer(2, fo2.Inbox)
	fo2.ConnectPeer(1, fo1.Inbox)

	id1 := director.AllocAgentID()
	id2 := director.AllocAgentID()
	a1, err := agent.NewNucleusAgent(id1, "nucleus", []geometry.Sphere{{Centre: embryogen.V3(10, 15, 15), Radius: 3}}, 0, cfg)
	if err != nil {
		return S1Outcome{}, fmt.Errorf("S1: %w", err)
	}
	a2, err := agent.NewNucleusAgent(id2, "nucleus", []geometry.Sphere{{Centre: embryogen.V3(19, 15, 15), Radius: 3}}, 0, cfg)
	if err != nil {
		return S1Outcome{}, fmt.Errorf("S1: %w", err)
	}
	fo1.AddAgent(a1)
	fo2.AddAgent(a2)
	director.RegisterNewAgent(id1, true)
	director.RegisterNewAgent(id2, true)

	fos := []*sched.FrontOfficer{fo1, fo2}
	go fo1.Run()
	go fo2.Run()

	for round := 0; round < 5; round++ {
		if err := director.RunRound(fos, false); err != nil {
			return S1Outcome{}, fmt.Errorf("S1: round %d: %w", round, err)
		}
	}

	out := S1Outcome{
		FinalSeparation: a1.Exposed.Spheres.List[0].Centre.DistTo(a2.Exposed.Spheres.List[0].Centre),
		Agent1Alive:     !a1.ShouldDie,
		Agent2Alive:     !a2.ShouldDie,
	}
	if err := director.Shutdown(fos, outDir+"/tracks.txt"); err != nil {
		return S1Outcome{}, fmt.Errorf("S1: %w", err)
	}
	return out, nil
}

// RunS1 is the CLI-facing entry point: run the scenario and format its
// outcome as a summary line.
func RunS1(outDir string) (string, error) {
	out, err := runS1(outDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("S1: final separation %.3f um, agents alive [%v %v]", out.FinalSeparation, out.Agent1Alive, out.Agent2Alive), nil
}
