package agent

import (
	"math"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/physics"
)

// NucleusAgent is the spheres-based nucleus agent of spec.md §3/§4.2,
// grounded on original_source/src/Agents/NucleusAgent.h. It carries the
// canonical consecutive-pair chain distances (length N-1); NucleusNSAgent
// (below) adds the full N x N matrix used by the NS variant of §4.3, and
// Nucleus4SAgent adds the outer-sphere rectification of §4.2 step 1.
type NucleusAgent struct {
	Agent

	Velocities         []embryogen.Vec3 // per sphere, spec.md §3
	Weights            []float32        // per sphere, default 1
	DesiredVelocity    embryogen.Vec3
	Persistence        time.Duration // default 2 min
	CytoplasmHalfWidth float32       // default 2 um
	IgnoreDistance     float32       // default 10 um

	// ChainCanonical holds the canonical distance between consecutive
	// spheres i and i+1, sampled at construction from the initial
	// geometry, per spec.md §4.2 step 1.
	ChainCanonical []float32

	forces physics.ForceList
	Cycle  *CellCycle
	cfg    embryogen.Config

	secondsOverThreshold float32
}

func consecutiveDistances(spheres []geometry.Sphere) []float32 {
	if len(spheres) < 2 {
		return nil
	}
	d := make([]float32, len(spheres)-1)
	for i := 0; i+1 < len(spheres); i++ {
		d[i] = spheres[i].Centre.DistTo(spheres[i+1].Centre)
	}
	return d
}

// NewNucleusAgent constructs a nucleus with one canonical distance per
// consecutive sphere pair, rebuilt from the initial geometry (spec.md §3).
func NewNucleusAgent(id int, typeName string, spheres []geometry.Sphere, currTime time.Duration, cfg embryogen.Config) (*NucleusAgent, error) {
	shape, err := geometry.NewSpheres(spheres)
	if err != nil {
		return nil, err
	}
	geomExposed := geometry.NewSpheresGeometry(shape)
	futureShape, err := geometry.NewSpheres(spheres)
	if err != nil {
		return nil, err
	}
	geomFuture := geometry.NewSpheresGeometry(futureShape)

	n := &NucleusAgent{
		Agent:              NewAgent(id, typeName, geomExposed, currTime, cfg.TimeStep),
		Velocities:         make([]embryogen.Vec3, len(spheres)),
		Weights:            weightsOf(len(spheres), cfg.DefaultWeight),
		Persistence:        cfg.PersistenceTime,
		CytoplasmHalfWidth: cfg.CytoplasmHalfWidth,
		IgnoreDistance:     cfg.IgnoreDistance,
		ChainCanonical:     consecutiveDistances(spheres),
		cfg:                cfg,
	}
	n.Future = geomFuture
	return n, nil
}

func weightsOf(n int, def float32) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = def
	}
	return w
}

func (n *NucleusAgent) Forces() *physics.ForceList { return &n.forces }

func (n *NucleusAgent) futureSpheres() []geometry.Sphere { return n.Future.Spheres.List }

func (n *NucleusAgent) exertForce(sphereIdx int, v embryogen.Vec3, tag physics.ForceName) {
	base := n.futureSpheres()[sphereIdx].Centre
	n.forces.Add(physics.NewForce(v, base, sphereIdx, tag))
}

// AdvanceAndBuildIntForces implements spec.md §4.2 step 1: clear the force
// list, run cell-cycle hooks, emit consecutive-pair chain-restoring
// forces, and always emit the drive/friction couple.
func (n *NucleusAgent) AdvanceAndBuildIntForces(dt time.Duration) {
	n.forces.Clear()
	n.CurrTime += dt

	if n.Cycle != nil {
		n.Cycle.Advance(n.CurrTime)
	}

	n.emitChainConsecutive()
	n.emitDriveFriction()
}

func (n *NucleusAgent) emitChainConsecutive() {
	spheres := n.futureSpheres()
	for i := 0; i+1 < len(spheres); i++ {
		d := spheres[i].Centre.DistTo(spheres[i+1].Centre)
		canon := n.ChainCanonical[i]
		mismatch := d - canon
		if mismatch*mismatch <= n.cfg.ChainToleranceSq {
			continue
		}
		dir := spheres[i+1].Centre.Sub(spheres[i].Centre)
		if l := dir.Len(); l > 0 {
			dir = dir.Mul(1 / l)
		}
		offset := dir.Mul(mismatch * n.cfg.ForceBodyScale)
		n.exertForce(i, offset, physics.ForceSphereSphere)
		n.exertForce(i+1, offset.Neg(), physics.ForceSphereSphere)
	}
}

func (n *NucleusAgent) emitDriveFriction() {
	persistenceMin := float32(n.Persistence.Minutes())
	for i, v := range n.Velocities {
		w := n.Weights[i]
		drive, friction := physics.DriveFrictionForces(w, persistenceMin, n.DesiredVelocity, v, i, n.futureSpheres()[i].Centre)
		n.forces.Add(drive)
		n.forces.Add(friction)
	}
}

// integrate runs semi-implicit Euler (spec.md §4.2.1) for every sphere
// using whatever forces currently sit in the list, writing results back
// into Future and Velocities. Both adjustGeometryByIntForces and
// adjustGeometryByExtForces call this over the (by-then combined) list,
// matching the original's adjustGeometryByForces() being shared between
// both call sites (original_source/src/Agents/NucleusAgent.h).
func (n *NucleusAgent) integrate(dt time.Duration) {
	dtMin := float32(dt.Minutes())
	spheres := n.futureSpheres()
	for i := range spheres {
		net := n.forces.SumOnHint(i)
		state := physics.ParticleState{Centre: spheres[i].Centre, Velocity: n.Velocities[i], Weight: n.Weights[i]}
		next := physics.IntegrateSphere(state, net, dtMin)
		spheres[i].Centre = next.Centre
		n.Velocities[i] = next.Velocity
	}
}

func (n *NucleusAgent) AdjustGeometryByIntForces(dt time.Duration) {
	n.integrate(dt)
	n.Future.UpdateOwnAABB()
}

// CollectExtForces implements spec.md §4.2 step 3: for each neighbouring
// geometry already selected by the caller via the spatial index, run
// getDistance and emit body/sliding/repulsive forces for every returned
// pair.
func (n *NucleusAgent) CollectExtForces(neighbours []ExternalGeometry, logger embryogen.Logger) {
	for _, nb := range neighbours {
		var pairs []geometry.ProximityPair
		geometry.GetDistance(n.Future, nb.Geometry, &pairs, logger)

		if nb.Geometry.Kind == geometry.KindVectorImg {
			for _, p := range pairs {
				hint := p.OtherPos.Sub(p.LocalPos)
				n.exertForce(p.LocalHint, hint.Mul(n.cfg.ForceHinterScale), physics.ForceSphereHinter)
			}
			continue
		}

		for _, p := range pairs {
			normal := p.OtherPos.Sub(p.LocalPos).Normalized()
			if p.Distance < 0 {
				depth := -p.Distance
				over := depth - n.cfg.ForceOverlapDepth
				if over < 0 {
					over = 0
				}
				mag := n.cfg.ForceOverlapScale*over + n.cfg.ForceOverlapLevel
				n.exertForce(p.LocalHint, normal.Mul(-mag), physics.ForceNoOverlapBody)

				if nb.Velocity != nil {
					relVel := n.Velocities[p.LocalHint].Sub(nb.Velocity(p.OtherHint))
					tangential := relVel.Sub(normal.Mul(relVel.Dot(normal)))
					n.exertForce(p.LocalHint, tangential.Mul(-n.cfg.ForceSlideScale), physics.ForceNoSliding)
				}
			} else if p.Distance < 1 {
				mag := n.cfg.ForceOverlapLevel * expNeg(p.Distance/n.cfg.ForceRepScale)
				n.exertForce(p.LocalHint, normal.Mul(-mag), physics.ForceRepulsive)
			}
		}
	}
}

func (n *NucleusAgent) AdjustGeometryByExtForces(dt time.Duration) {
	n.applyStabilityGuards()
	n.integrate(dt)
	n.Future.UpdateOwnAABB()
}

// applyStabilityGuards implements spec.md §4.2.2: per-force boundary
// clipping/removal and sustained-excess-force removal outside mitosis.
func (n *NucleusAgent) applyStabilityGuards() {
	inMitosis := n.Cycle != nil && n.Cycle.Current() >= PhaseProphase

	maxMag := n.forces.MaxMagnitude()
	if !inMitosis && maxMag > n.cfg.MaxSustainedForce {
		n.secondsOverThreshold += float32(n.TimeStep.Seconds())
	}
	cycleSeconds := float32(n.cfg.FullCycleDuration.Seconds())
	if cycleSeconds > 0 && physics.SustainedForceGuard(n.secondsOverThreshold, cycleSeconds, n.cfg.MaxSustainedFraction) {
		n.ShouldDie = true
	}

	for i, f := range n.forces.Forces {
		clipped, die := physics.BoundaryGuard(f.Vec3, n.cfg.BoundaryClipForce, n.cfg.BoundaryDieForce)
		n.forces.Forces[i].Vec3 = clipped
		if die {
			n.ShouldDie = true
		}
	}
}

// PublishGeometry copies every future sphere into the exposed geometry,
// inflating each radius by the cytoplasm half-width, per spec.md §4.2
// step 5.
func (n *NucleusAgent) PublishGeometry() {
	exposed := n.Exposed.Spheres
	future := n.Future.Spheres
	for i := range exposed.List {
		exposed.List[i].Centre = future.List[i].Centre
		exposed.List[i].Radius = future.List[i].Radius + n.CytoplasmHalfWidth
	}
	n.Exposed.UpdateOwnAABB()
}

func expNeg(x float32) float32 {
	return float32(math.Exp(float64(-x)))
}
