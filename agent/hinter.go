package agent

import (
	"sort"
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/physics"
)

// TrajectoryFrame is one recorded velocity-field sample: a full Vector3d
// field plus the simulated time it was captured at, per spec.md §3's
// trajectory-hinter concept. Grounded on
// original_source/src/Agents/TrajectoriesHinter.h.
type TrajectoryFrame struct {
	Time   time.Duration
	VX, VY, VZ []float32
}

// TrajectoryHinterAgent replays a pre-recorded sequence of velocity-field
// snapshots as a VectorImg geometry, so ordinary nucleus agents can query
// it via geometry.GetDistance and derive a "sphere-hinter" force (spec.md
// §4.2, force tag ForceSphereHinter) pulling them along a recorded
// trajectory. It never builds or reacts to forces itself — it is a passive
// field source whose Exposed and Future geometries are one and the same
// VectorImg, rebuilt every round from whichever two recorded frames
// bracket the current time.
type TrajectoryHinterAgent struct {
	Agent

	Frames []TrajectoryFrame
	Size   embryogen.IVec3
	Res    embryogen.Resolution
	Offset embryogen.Vec3
	Policy geometry.ChoosingPolicy

	forces physics.ForceList
}

// NewTrajectoryHinterAgent constructs a hinter from a recorded frame
// sequence, sorting frames by time and building the initial geometry at
// currTime.
func NewTrajectoryHinterAgent(id int, typeName string, size embryogen.IVec3, res embryogen.Resolution, offset embryogen.Vec3, policy geometry.ChoosingPolicy, frames []TrajectoryFrame, currTime time.Duration, cfg embryogen.Config) (*TrajectoryHinterAgent, error) {
	cp := make([]TrajectoryFrame, len(frames))
	copy(cp, frames)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Time < cp[j].Time })

	h := &TrajectoryHinterAgent{
		Agent:  NewAgent(id, typeName, nil, currTime, cfg.TimeStep),
		Frames: cp,
		Size:   size,
		Res:    res,
		Offset: offset,
		Policy: policy,
	}
	if err := h.rebuild(currTime); err != nil {
		return nil, err
	}
	return h, nil
}

// interpolate returns the linearly-interpolated field at t, clamped to the
// first/last recorded frame outside the recorded span.
func (h *TrajectoryHinterAgent) interpolate(t time.Duration) (vx, vy, vz []float32) {
	n := len(h.Frames)
	if n == 0 {
		return nil, nil, nil
	}
	if t <= h.Frames[0].Time {
		f := h.Frames[0]
		return f.VX, f.VY, f.VZ
	}
	if t >= h.Frames[n-1].Time {
		f := h.Frames[n-1]
		return f.VX, f.VY, f.VZ
	}

	hi := sort.Search(n, func(i int) bool { return h.Frames[i].Time >= t })
	lo := hi - 1
	a, b := h.Frames[lo], h.Frames[hi]
	span := float32(b.Time - a.Time)
	var alpha float32
	if span > 0 {
		alpha = float32(t-a.Time) / span
	}

	m := len(a.VX)
	vx = make([]float32, m)
	vy = make([]float32, m)
	vz = make([]float32, m)
	for i := 0; i < m; i++ {
		vx[i] = a.VX[i] + (b.VX[i]-a.VX[i])*alpha
		vy[i] = a.VY[i] + (b.VY[i]-a.VY[i])*alpha
		vz[i] = a.VZ[i] + (b.VZ[i]-a.VZ[i])*alpha
	}
	return vx, vy, vz
}

// rebuild replaces Exposed with a freshly interpolated VectorImg at t,
// continuing the previous geometry's version count.
func (h *TrajectoryHinterAgent) rebuild(t time.Duration) error {
	vx, vy, vz := h.interpolate(t)
	shape, err := geometry.NewVectorImg(h.Size, h.Res, h.Offset, h.Policy, vx, vy, vz)
	if err != nil {
		return err
	}
	g := geometry.NewVectorImgGeometry(shape)
	if h.Exposed != nil {
		g.Version = h.Exposed.Version + 1
	}
	h.Exposed = g
	h.Future = h.Exposed
	return nil
}

// Advance moves simulated time forward and rebuilds the exposed field from
// the recorded trajectory, per spec.md §9's per-round agent advance.
func (h *TrajectoryHinterAgent) Advance(dt time.Duration) error {
	h.CurrTime += dt
	return h.rebuild(h.CurrTime)
}

// Forces, AdvanceAndBuildIntForces, AdjustGeometryByIntForces,
// CollectExtForces and AdjustGeometryByExtForces implement agent.ForceHost
// so a hinter can be registered on a FrontOfficer like any other agent
// (original_source/src/Agents/TrajectoriesHinter.h: the hinter is advanced
// every round alongside the agents it hints, but never builds or reacts to
// forces of its own — it only ever supplies ExternalGeometry to others).
func (h *TrajectoryHinterAgent) Forces() *physics.ForceList { return &h.forces }

// AdvanceAndBuildIntForces rebuilds the exposed field at the new time. A
// rebuild failure (only possible if the recorded frames were malformed at
// construction, which NewTrajectoryHinterAgent already rejects) leaves
// Exposed on the previous frame rather than propagating, since ForceHost's
// internal-forces step has no error return.
func (h *TrajectoryHinterAgent) AdvanceAndBuildIntForces(dt time.Duration) {
	_ = h.Advance(dt)
}

// AdjustGeometryByIntForces is a no-op: rebuild already replaced Exposed
// and Future together, and a VectorImg's AABB spans its fixed voxel
// bounds, not its vector content.
func (h *TrajectoryHinterAgent) AdjustGeometryByIntForces(dt time.Duration) {}

// CollectExtForces is a no-op: a hinter is a pure field source, never a
// force receiver.
func (h *TrajectoryHinterAgent) CollectExtForces(neighbours []ExternalGeometry, logger embryogen.Logger) {
}

// AdjustGeometryByExtForces is a no-op for the same reason.
func (h *TrajectoryHinterAgent) AdjustGeometryByExtForces(dt time.Duration) {}

// PublishGeometry is a no-op: Exposed already holds the freshly rebuilt
// field, there is no separate future-geometry staging step.
func (h *TrajectoryHinterAgent) PublishGeometry() {}
