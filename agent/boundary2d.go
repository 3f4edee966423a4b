package agent

import (
	"math"
	"time"

	"github.com/embryogen/embryogen"
)

// PolarPoint is a single boundary vertex of the legacy 2-D agent, stored as
// an (angle, radius) pair relative to the agent's centre, per spec.md
// §4.4's "2-D polar boundary-point agent variant". Grounded on TRAgen's
// polar-boundary-point cell model (original_source/TRAgen/src/agents.cpp).
type PolarPoint struct {
	Angle  float32 // radians, [0, 2*pi)
	Radius float32 // um
}

func (p PolarPoint) toVec3(centre embryogen.Vec3) embryogen.Vec3 {
	return embryogen.V3(
		centre.X+p.Radius*float32(math.Cos(float64(p.Angle))),
		centre.Y+p.Radius*float32(math.Sin(float64(p.Angle))),
		centre.Z,
	)
}

func wrapAngle(a float32) float32 {
	twoPi := float32(2 * math.Pi)
	for a < 0 {
		a += twoPi
	}
	for a >= twoPi {
		a -= twoPi
	}
	return a
}

// angularDistance returns the signed shortest distance from a to b in
// (-pi, pi].
func angularDistance(a, b float32) float32 {
	d := wrapAngle(b - a)
	if d > float32(math.Pi) {
		d -= float32(2 * math.Pi)
	}
	return d
}

// Boundary2DAgent is the legacy polar-boundary-point agent of spec.md
// §4.4. Unlike NucleusAgent it has no sphere-based physics pipeline of its
// own: it moves its centre directly from DesiredSpeed/Orientation and
// shapes its boundary entirely through cell-cycle phase hooks.
type Boundary2DAgent struct {
	Agent

	Centre        embryogen.Vec3
	Points        []PolarPoint
	InitialPoints []PolarPoint // snapshot taken at birth; G1 interpolates back toward this

	Orientation float32 // radians; the "pole" direction used by Telophase/Cytokinesis

	DesiredSpeed  float32
	BaseSpeed     float32 // remembered so Prophase/.../Anaphase can restore it on division
	Persistence   time.Duration
	BasePersistence time.Duration

	MinVertexDensity float32 // minimum boundary points per radian

	Cycle *CellCycle
	cfg   embryogen.Config

	pendingDaughter *Boundary2DAgent // set by cytokinesis close, consumed by the caller
}

// NewBoundary2DAgent constructs a legacy boundary-point agent from a ring
// of initial points, remembering that ring for G1's restorative
// interpolation.
func NewBoundary2DAgent(id int, typeName string, centre embryogen.Vec3, points []PolarPoint, orientation float32, currTime time.Duration, cfg embryogen.Config) *Boundary2DAgent {
	cp := make([]PolarPoint, len(points))
	copy(cp, points)
	initial := make([]PolarPoint, len(points))
	copy(initial, points)

	b := &Boundary2DAgent{
		Agent:            NewAgent(id, typeName, nil, currTime, cfg.TimeStep),
		Centre:           centre,
		Points:           cp,
		InitialPoints:    initial,
		Orientation:      orientation,
		MinVertexDensity: 12.0 / float32(2*math.Pi), // ~12 points around the ring by default
		cfg:              cfg,
	}
	return b
}

// nearestInitialRadius finds the InitialPoints entry whose angle is
// closest to angle, used by the G1 restorative hook.
func (b *Boundary2DAgent) nearestInitialRadius(angle float32) float32 {
	bestIdx := 0
	var bestAbs float32 = -1
	for i, p := range b.InitialPoints {
		d := angularDistance(angle, p.Angle)
		if d < 0 {
			d = -d
		}
		if bestAbs < 0 || d < bestAbs {
			bestAbs = d
			bestIdx = i
		}
	}
	return b.InitialPoints[bestIdx].Radius
}

const g1InterpolationRate = 0.1

// runG1 implements spec.md §4.4's G1 hook: linear interpolation of every
// polar radius back toward the initial shape, subdividing arcs to keep a
// minimum vertex density.
func (b *Boundary2DAgent) runG1(float32) {
	for i := range b.Points {
		target := b.nearestInitialRadius(b.Points[i].Angle)
		b.Points[i].Radius += (target - b.Points[i].Radius) * g1InterpolationRate
	}
	b.subdivide()
}

// subdivide inserts a midpoint vertex into any angular gap wider than
// 1/MinVertexDensity radians, linearly interpolating its radius between
// the two neighbours it splits.
func (b *Boundary2DAgent) subdivide() {
	if b.MinVertexDensity <= 0 || len(b.Points) < 2 {
		return
	}
	maxGap := 1 / b.MinVertexDensity

	var out []PolarPoint
	for i, p := range b.Points {
		next := b.Points[(i+1)%len(b.Points)]
		out = append(out, p)
		gap := angularDistance(p.Angle, next.Angle)
		if gap < 0 {
			gap += 2 * math.Pi
		}
		if gap > maxGap {
			out = append(out, PolarPoint{
				Angle:  wrapAngle(p.Angle + gap/2),
				Radius: (p.Radius + next.Radius) / 2,
			})
		}
	}
	b.Points = out
}

// startMitoticSlowdown implements spec.md §4.4's Prophase/Metaphase/
// Anaphase hook, shared across all three phases: desired speed drops to
// zero and persistence shortens to the current phase's duration. The speed
// and persistence in force before mitosis are remembered only up to
// Prophase, so the later phases do not overwrite them with the slowed values.
func (b *Boundary2DAgent) startMitoticSlowdown() {
	if b.Cycle == nil || b.Cycle.Current() <= PhaseProphase {
		b.BaseSpeed = b.DesiredSpeed
		b.BasePersistence = b.Persistence
	}
	b.DesiredSpeed = 0
	if b.Cycle != nil {
		b.Persistence = b.Cycle.currDuration
	}
}

// telophaseTargetSigma is chosen so that 200 degrees spans 6 sigma, per
// spec.md §4.4.
var telophaseTargetSigma = float32(200*math.Pi/180) / 6

// startTelophase implements spec.md §4.4's Telophase hook: the boundary
// point nearest the orientation pole elongates by 35% of its current
// distance along the major axis, the elongation weighted across every
// other point by a Gaussian of its angular distance to the pole.
func (b *Boundary2DAgent) startTelophase() {
	poleIdx := 0
	var bestAbs float32 = -1
	for i, p := range b.Points {
		d := angularDistance(p.Angle, b.Orientation)
		if d < 0 {
			d = -d
		}
		if bestAbs < 0 || d < bestAbs {
			bestAbs = d
			poleIdx = i
		}
	}
	elongation := 0.35 * b.Points[poleIdx].Radius
	sigma := telophaseTargetSigma

	for i := range b.Points {
		d := angularDistance(b.Points[i].Angle, b.Orientation)
		weight := float32(math.Exp(-float64(d*d) / float64(2*sigma*sigma)))
		b.Points[i].Radius += elongation * weight
	}
}

// startCytokinesis implements the first half of spec.md §4.4's
// Cytokinesis hook: the two minor-axis boundary points (perpendicular to
// the orientation pole) contract toward the centre by 85%, and every point
// within +-45 degrees of a minor axis contracts by an amount that falls off
// linearly with its angular distance, reaching zero at 45 degrees. The
// contraction is not halved stepwise from one neighbour to the next.
func (b *Boundary2DAgent) startCytokinesis() {
	minorA := wrapAngle(b.Orientation + float32(math.Pi/2))
	minorB := wrapAngle(b.Orientation - float32(math.Pi/2))
	maxNeighbour := float32(math.Pi / 4)

	for i := range b.Points {
		dA := absAngle(angularDistance(b.Points[i].Angle, minorA))
		dB := absAngle(angularDistance(b.Points[i].Angle, minorB))
		d := dA
		if dB < d {
			d = dB
		}
		if d > maxNeighbour {
			continue
		}
		contraction := 0.85 * (1 - d/maxNeighbour)
		b.Points[i].Radius *= 1 - contraction
	}
}

func absAngle(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

// closeCytokinesis implements the second half of spec.md §4.4's
// Cytokinesis hook: split the ring into two halves about the major axis,
// construct the second daughter from the far half, keep the parent as the
// first daughter with the near half, and reinitialise both into G1. The
// new daughter is returned via pendingDaughter for the caller (the owning
// FrontOfficer) to register with the Director, since id allocation is a
// scheduler concern (spec.md §4.5).
func (b *Boundary2DAgent) closeCytokinesis(nextID int) {
	var ringA, ringB []PolarPoint
	for _, p := range b.Points {
		if absAngle(angularDistance(p.Angle, b.Orientation)) <= float32(math.Pi/2) {
			ringA = append(ringA, p)
		} else {
			ringB = append(ringB, p)
		}
	}
	if len(ringA) == 0 || len(ringB) == 0 {
		return
	}

	centreA := meanCentre(ringA, b.Centre)
	centreB := meanCentre(ringB, b.Centre)

	daughter := &Boundary2DAgent{
		Agent:            NewAgent(nextID, b.TypeName, nil, b.CurrTime, b.TimeStep),
		Centre:           centreB,
		Points:           reAngle(ringB, centreB, b.Centre),
		Orientation:      b.Orientation,
		DesiredSpeed:     b.BaseSpeed,
		Persistence:      b.BasePersistence,
		MinVertexDensity: b.MinVertexDensity,
		cfg:              b.cfg,
	}
	daughter.Friends = append([]Friend(nil), b.Friends...)
	daughter.InitialPoints = append([]PolarPoint(nil), daughter.Points...)

	b.Points = reAngle(ringA, centreA, b.Centre)
	b.Centre = centreA
	b.InitialPoints = append([]PolarPoint(nil), b.Points...)
	b.DesiredSpeed = b.BaseSpeed
	b.Persistence = b.BasePersistence

	b.pendingDaughter = daughter
}

// TakeDaughter returns and clears the daughter produced by the most recent
// cytokinesis close, or nil if none is pending.
func (b *Boundary2DAgent) TakeDaughter() *Boundary2DAgent {
	d := b.pendingDaughter
	b.pendingDaughter = nil
	return d
}

func meanCentre(ring []PolarPoint, origin embryogen.Vec3) embryogen.Vec3 {
	var sum embryogen.Vec3
	for _, p := range ring {
		sum = sum.Add(p.toVec3(origin))
	}
	return sum.Mul(1 / float32(len(ring)))
}

// reAngle recomputes each point's (angle, radius) relative to a new
// centre, preserving its world position.
func reAngle(ring []PolarPoint, newCentre, oldCentre embryogen.Vec3) []PolarPoint {
	out := make([]PolarPoint, len(ring))
	for i, p := range ring {
		world := p.toVec3(oldCentre)
		rel := world.Sub(newCentre)
		out[i] = PolarPoint{
			Angle:  float32(math.Atan2(float64(rel.Y), float64(rel.X))),
			Radius: rel.Len(),
		}
	}
	return out
}

// Hooks returns the PhaseHooks table for this agent, wired to the methods
// above, ready to pass to NewCellCycle.
func (b *Boundary2DAgent) Hooks(nextID func() int) [8]PhaseHooks {
	var hooks [8]PhaseHooks
	hooks[PhaseG1] = PhaseHooks{Run: b.runG1}
	hooks[PhaseProphase] = PhaseHooks{Start: b.startMitoticSlowdown}
	hooks[PhaseMetaphase] = PhaseHooks{Start: b.startMitoticSlowdown}
	hooks[PhaseAnaphase] = PhaseHooks{Start: b.startMitoticSlowdown}
	hooks[PhaseTelophase] = PhaseHooks{Start: b.startTelophase}
	hooks[PhaseCytokinesis] = PhaseHooks{
		Start: b.startCytokinesis,
		Close: func() { b.closeCytokinesis(nextID()) },
	}
	return hooks
}
