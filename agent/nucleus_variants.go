package agent

import (
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/physics"
)

// NucleusNSAgent is the N-sphere variant of spec.md §4.3: instead of only
// restoring consecutive-pair distances, it maintains the full N x N
// canonical distance matrix sampled at construction, keeping the whole
// cluster's shape rigid rather than just its backbone. Grounded on
// original_source/src/Agents/NucleusNSAgent.h.
type NucleusNSAgent struct {
	NucleusAgent

	// Canonical[i][j] is the canonical distance between spheres i and j,
	// i != j; only the upper triangle is read.
	Canonical [][]float32
}

func canonicalMatrix(spheres []geometry.Sphere) [][]float32 {
	n := len(spheres)
	m := make([][]float32, n)
	for i := range m {
		m[i] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := spheres[i].Centre.DistTo(spheres[j].Centre)
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// NewNucleusNSAgent constructs an N-sphere nucleus, sampling the full
// pairwise canonical distance matrix from the initial geometry.
func NewNucleusNSAgent(id int, typeName string, spheres []geometry.Sphere, currTime time.Duration, cfg embryogen.Config) (*NucleusNSAgent, error) {
	base, err := NewNucleusAgent(id, typeName, spheres, currTime, cfg)
	if err != nil {
		return nil, err
	}
	return &NucleusNSAgent{NucleusAgent: *base, Canonical: canonicalMatrix(spheres)}, nil
}

// AdvanceAndBuildIntForces overrides the base's consecutive-pair-only
// restoring with the full-matrix sweep of spec.md §4.3: every ordered pair
// (i,j), i != j, is compared against its canonical distance and corrected,
// in place of (not in addition to) the chain-only mechanism, since the
// matrix sweep already covers every consecutive pair as a special case.
func (n *NucleusNSAgent) AdvanceAndBuildIntForces(dt time.Duration) {
	n.forces.Clear()
	n.CurrTime += dt

	if n.Cycle != nil {
		n.Cycle.Advance(n.CurrTime)
	}

	n.emitFullMatrix()
	n.emitDriveFriction()
}

func (n *NucleusNSAgent) emitFullMatrix() {
	spheres := n.futureSpheres()
	for i := 0; i < len(spheres); i++ {
		for j := i + 1; j < len(spheres); j++ {
			d := spheres[i].Centre.DistTo(spheres[j].Centre)
			canon := n.Canonical[i][j]
			mismatch := d - canon
			if mismatch*mismatch <= n.cfg.ChainToleranceSq {
				continue
			}
			dir := spheres[j].Centre.Sub(spheres[i].Centre)
			if l := dir.Len(); l > 0 {
				dir = dir.Mul(1 / l)
			}
			offset := dir.Mul(mismatch * n.cfg.ForceBodyScale)
			n.exertForce(i, offset, physics.ForceSphereSphere)
			n.exertForce(j, offset.Neg(), physics.ForceSphereSphere)
		}
	}
}

// Nucleus4SAgent is the fixed 4-sphere specialisation of spec.md §4.2 step
// 1: two inner spheres define a virtual axis, and the two outer spheres are
// additionally rectified back onto it, on top of the ordinary
// consecutive-pair chain restoring the embedded NucleusAgent already
// performs. Grounded on original_source/src/Agents/Nucleus4SAgent.cpp's
// getCurrentOffVectorsForCentres()/advanceAndBuildIntForces().
type Nucleus4SAgent struct {
	NucleusAgent
}

// NewNucleus4SAgent constructs a 4-sphere nucleus; the embedded
// NucleusAgent's ChainCanonical already holds the three consecutive
// distances (0-1, 1-2, 2-3) this specialisation's axis maths is built from.
func NewNucleus4SAgent(id int, typeName string, spheres [4]geometry.Sphere, currTime time.Duration, cfg embryogen.Config) (*Nucleus4SAgent, error) {
	base, err := NewNucleusAgent(id, typeName, spheres[:], currTime, cfg)
	if err != nil {
		return nil, err
	}
	return &Nucleus4SAgent{NucleusAgent: *base}, nil
}

// offVectorsForCentres computes, for each of the 4 spheres, the deviation
// between its actual centre and its expected position on the virtual axis
// running through the midpoint of spheres 1 and 2, at the canonical
// consecutive distance from that midpoint.
func (n *Nucleus4SAgent) offVectorsForCentres() [4]embryogen.Vec3 {
	c := n.futureSpheres()
	axis := c[2].Centre.Sub(c[1].Centre).Normalized()
	mid := c[1].Centre.Add(c[2].Centre).Mul(0.5)

	d01, d12, d23 := n.ChainCanonical[0], n.ChainCanonical[1], n.ChainCanonical[2]
	half12 := d12 / 2

	expected := [4]embryogen.Vec3{
		mid.Sub(axis.Mul(half12 + d01)),
		mid.Sub(axis.Mul(half12)),
		mid.Add(axis.Mul(half12)),
		mid.Add(axis.Mul(half12 + d23)),
	}

	var off [4]embryogen.Vec3
	for i := range off {
		off[i] = expected[i].Sub(c[i].Centre)
	}
	return off
}

// AdvanceAndBuildIntForces emits the axis-rectification forces, then
// defers to the embedded NucleusAgent's consecutive-pair chain restoring
// and drive/friction couple — matching the original's
// Nucleus4SAgent::advanceAndBuildIntForces calling NucleusAgent's version
// after adding its own forces.
func (n *Nucleus4SAgent) AdvanceAndBuildIntForces(dt time.Duration) {
	n.forces.Clear()
	n.CurrTime += dt

	if n.Cycle != nil {
		n.Cycle.Advance(n.CurrTime)
	}

	n.emitAxisRectification()
	n.emitChainConsecutive()
	n.emitDriveFriction()
}

func (n *Nucleus4SAgent) emitAxisRectification() {
	off := n.offVectorsForCentres()
	const tolSq = 0.01

	for i, o := range off {
		if o.LenSq() <= tolSq {
			continue
		}
		f := o.Mul(n.cfg.ForceBodyScale)
		n.exertForce(i, f, physics.ForceSphereSphere)

		switch i {
		case 0:
			n.exertForce(1, f.Neg(), physics.ForceSphereSphere)
		case 1:
			half := f.Neg().Mul(0.5)
			n.exertForce(0, half, physics.ForceSphereSphere)
			n.exertForce(2, half, physics.ForceSphereSphere)
		case 2:
			half := f.Neg().Mul(0.5)
			n.exertForce(1, half, physics.ForceSphereSphere)
			n.exertForce(3, half, physics.ForceSphereSphere)
		case 3:
			n.exertForce(2, f.Neg(), physics.ForceSphereSphere)
		}
	}
}
