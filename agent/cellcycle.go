package agent

import (
	"math/rand"
	"time"
)

// Phase is one of the eight named stages of spec.md §4.4, in fixed cyclic
// order: G1 -> S -> G2 -> Prophase -> Metaphase -> Anaphase -> Telophase ->
// Cytokinesis -> G1 (next cycle).
type Phase int

const (
	PhaseG1 Phase = iota
	PhaseS
	PhaseG2
	PhaseProphase
	PhaseMetaphase
	PhaseAnaphase
	PhaseTelophase
	PhaseCytokinesis
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseG1:
		return "G1"
	case PhaseS:
		return "S"
	case PhaseG2:
		return "G2"
	case PhaseProphase:
		return "Prophase"
	case PhaseMetaphase:
		return "Metaphase"
	case PhaseAnaphase:
		return "Anaphase"
	case PhaseTelophase:
		return "Telophase"
	case PhaseCytokinesis:
		return "Cytokinesis"
	default:
		return "unknown"
	}
}

// PhaseHooks bundles the three hooks of spec.md §4.4: start (on entry), run
// (every round while current, given normalised progress in [0,1]), and
// close (on exit). Any hook may be nil.
type PhaseHooks struct {
	Start func()
	Run   func(progress float32)
	Close func()
}

// CellCycle is the per-agent state machine of spec.md §4.4, grounded on the
// teacher's app.go state machine (State/nextState/callSystems split into
// enter/execute/exit) generalised from one global App state to a per-agent
// phase cursor with Gauss-sampled per-phase durations.
type CellCycle struct {
	FullCycleDuration time.Duration
	Fractions         [int(numPhases)]float32
	DurationCV        float32
	Hooks             [int(numPhases)]PhaseHooks
	Rng               *rand.Rand

	current      Phase
	lastChange   time.Duration
	nextChange   time.Duration
	currDuration time.Duration
}

// NewCellCycle constructs a cycle starting in G1 at startTime, sampling the
// first phase's duration immediately and calling its Start hook.
func NewCellCycle(full time.Duration, fractions [8]float32, cv float32, hooks [8]PhaseHooks, rng *rand.Rand, startTime time.Duration) *CellCycle {
	cc := &CellCycle{
		FullCycleDuration: full,
		Fractions:         fractions,
		DurationCV:        cv,
		Hooks:             hooks,
		Rng:               rng,
		current:           PhaseG1,
		lastChange:        startTime,
	}
	cc.currDuration = cc.sampleDuration(PhaseG1)
	cc.nextChange = startTime + cc.currDuration
	cc.call(cc.Hooks[PhaseG1].Start)
	return cc
}

func (cc *CellCycle) sampleDuration(p Phase) time.Duration {
	nominal := float64(cc.FullCycleDuration) * float64(cc.Fractions[p])
	sigma := nominal * float64(cc.DurationCV)
	sample := nominal
	if cc.Rng != nil && sigma > 0 {
		sample = nominal + cc.Rng.NormFloat64()*sigma
	}
	if sample < 0 {
		sample = 0
	}
	return time.Duration(sample)
}

func (cc *CellCycle) call(fn func()) {
	if fn != nil {
		fn()
	}
}

// Current returns the phase the agent is presently in.
func (cc *CellCycle) Current() Phase { return cc.current }

// Advance runs the "while (t > next_change) { close; rotate; start; }"
// loop of spec.md §9, then calls the current phase's Run hook with
// progress = (t - lastChange) / (nextChange - lastChange). Half-open
// intervals on phase boundaries keep this deterministic when the time step
// divides a phase's duration exactly.
func (cc *CellCycle) Advance(now time.Duration) {
	for now > cc.nextChange {
		cc.call(cc.Hooks[cc.current].Close)
		cc.current = (cc.current + 1) % numPhases
		cc.lastChange = cc.nextChange
		cc.currDuration = cc.sampleDuration(cc.current)
		cc.nextChange = cc.lastChange + cc.currDuration
		cc.call(cc.Hooks[cc.current].Start)
	}

	span := cc.nextChange - cc.lastChange
	var progress float32
	if span > 0 {
		progress = float32(now-cc.lastChange) / float32(span)
	}
	if run := cc.Hooks[cc.current].Run; run != nil {
		run(progress)
	}
}
