// Package texture implements the dot-based phantom texture of spec.md
// §4.6: a cloud of sub-resolution "dots" carrying a micron position and a
// photobleaching excitation counter, populated from 3-D Perlin noise and
// advected under sphere motion for the 4-sphere nucleus variant. Grounded
// on the teacher's particles_ecs.go SoA particle pool
// (pos/vel/age-as-parallel-slices, capacity field), generalised from
// screen-space particles to texture dots, and on
// original_source/src/Agents/util/Texture.cpp for the dot lifecycle.
package texture

import (
	"math"
	"math/rand"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
)

// DotCloud is the SoA pool of texture dots belonging to one agent's
// phantom texture, per spec.md §4.6.
type DotCloud struct {
	Pos        []embryogen.Vec3
	Excitation []int
}

// NewDotCloud constructs an empty cloud with capacity pre-reserved, in the
// teacher's ensurePool idiom.
func NewDotCloud(capacity int) *DotCloud {
	if capacity < 0 {
		capacity = 0
	}
	return &DotCloud{
		Pos:        make([]embryogen.Vec3, 0, capacity),
		Excitation: make([]int, 0, capacity),
	}
}

// Add appends a new, never-yet-excited dot.
func (d *DotCloud) Add(pos embryogen.Vec3) {
	d.Pos = append(d.Pos, pos)
	d.Excitation = append(d.Excitation, 0)
}

func (d *DotCloud) Len() int { return len(d.Pos) }

// Emit implements spec.md §4.6's photobleaching rule: every rendering call
// increments the dot's excitation counter, and the contributed intensity
// is quantum * exp(-excitationCount) — strictly decreasing per dot, per
// spec.md §8 property 10.
func (d *DotCloud) Emit(idx int, quantum float32) float32 {
	d.Excitation[idx]++
	return quantum * float32(math.Exp(-float64(d.Excitation[idx])))
}

// EmitQuantised implements the quantised variant of spec.md §4.6's
// photobleaching rule: the counter still increments once per rendering
// call, but the returned intensity is multiplied by the qCounts.x *
// qCounts.y * qCounts.z product; raster.RenderPhantomQuantised writes that
// whole amount into the dot's own voxel.
func (d *DotCloud) EmitQuantised(idx int, quantum float32, qCounts embryogen.IVec3) float32 {
	base := d.Emit(idx, quantum)
	return base * float32(qCounts.X*qCounts.Y*qCounts.Z)
}

// insideAnySphere reports whether p lies within the union of spheres,
// used both by Perlin population and outlier collection.
func insideAnySphere(p embryogen.Vec3, spheres []geometry.Sphere) bool {
	for _, s := range spheres {
		if p.DistTo(s.Centre) <= s.Radius {
			return true
		}
	}
	return false
}

// nearestSphere returns the index of the sphere with the smallest
// surface-to-point distance (possibly negative, i.e. p already inside).
func nearestSphere(p embryogen.Vec3, spheres []geometry.Sphere) int {
	best := -1
	var bestDist float32
	for i, s := range spheres {
		d := p.DistTo(s.Centre) - s.Radius
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// CollectOutliers implements spec.md §4.6's dot-collection step: any dot
// outside the union of spheres is relocated to a Gaussian-distributed
// position inside its nearest sphere (sigma = r/2), rejection-resampled
// until it lands inside, per spec.md §9 Open Question 3 ("centre inside").
// After 64 rejected draws the dot is placed at the sphere's centre.
func (d *DotCloud) CollectOutliers(spheres []geometry.Sphere, rng *rand.Rand) {
	for i, p := range d.Pos {
		if insideAnySphere(p, spheres) {
			continue
		}
		si := nearestSphere(p, spheres)
		if si < 0 {
			continue
		}
		sph := spheres[si]
		sigma := sph.Radius / 2
		placed := false
		for attempt := 0; attempt < 64; attempt++ {
			offset := embryogen.V3(
				float32(rng.NormFloat64())*sigma,
				float32(rng.NormFloat64())*sigma,
				float32(rng.NormFloat64())*sigma,
			)
			candidate := sph.Centre.Add(offset)
			if candidate.DistTo(sph.Centre) <= sph.Radius {
				d.Pos[i] = candidate
				placed = true
				break
			}
		}
		if !placed {
			d.Pos[i] = sph.Centre
		}
	}
}
