package embryogen

import "time"

// Config bundles every tunable constant of the simulation. A scenario
// builder (scenarios/*) builds one of these and hands it to its
// FrontOfficers and agents, mirroring the teacher's
// mod_presets.go preset-builder idiom (a fully-populated struct handed to
// cmd.AddResources) rather than a file-based config format, since none
// exists anywhere in the retrieval pack.
type Config struct {
	// Force constants, carried verbatim from
	// original_source/src/Agents/NucleusAgent.h.
	ForceBodyScale    float32 // fstrength_body_scale     [N/um]
	ForceOverlapScale float32 // fstrength_overlap_scale  [N/um]
	ForceOverlapLevel float32 // fstrength_overlap_level  [N]
	ForceOverlapDepth float32 // fstrength_overlap_depth  [um]
	ForceRepScale     float32 // fstrength_rep_scale      [1/um]
	ForceSlideScale   float32 // fstrength_slide_scale    unitless
	ForceHinterScale  float32 // fstrength_hinter_scale   [1/um^2]

	// Stability guards, spec.md §4.2.2.
	MaxSustainedForce   float32       // 0.3 N
	MaxSustainedFraction float32      // 5% of cell-cycle length
	BoundaryClipForce   float32       // 3 N axial clip
	BoundaryDieForce    float32       // 4 N x/y die threshold

	// Chain stiffness tolerance (§4.2, §4.3): squared-distance mismatch
	// below which no restoring force is emitted.
	ChainToleranceSq float32 // 0.01 um^2

	// Cell-cycle defaults, spec.md §4.4.
	FullCycleDuration time.Duration
	PhaseFractions    [8]float32
	PhaseDurationCV   float32 // 0.06, the Gauss(nominal, 0.06*nominal) coefficient

	// Per-agent defaults, spec.md §3.
	PersistenceTime    time.Duration // 2 min
	CytoplasmHalfWidth float32       // 2 um
	IgnoreDistance     float32       // 10 um
	DefaultWeight      float32       // 1

	// Scene bounds and raster resolution.
	SceneMin, SceneMax Vec3
	ImageResolution    Resolution // voxels/um
	ImageOffset        Vec3       // um

	// Scheduling.
	FrontOfficerCount int
	TimeStep          time.Duration
	StopTime          time.Duration
	SnapshotPeriod    int // rounds between snapshots

	RNGSeed int64
}

// DefaultConfig returns the constants of original_source/src/Agents/NucleusAgent.h
// plus the phase fractions of spec.md §4.4, suitable as a scenario starting
// point.
func DefaultConfig() Config {
	return Config{
		ForceBodyScale:    0.4,
		ForceOverlapScale: 0.2,
		ForceOverlapLevel: 0.1,
		ForceOverlapDepth: 0.5,
		ForceRepScale:     0.6,
		ForceSlideScale:   1.0,
		ForceHinterScale:  0.25,

		MaxSustainedForce:    0.3,
		MaxSustainedFraction: 0.05,
		BoundaryClipForce:    3.0,
		BoundaryDieForce:     4.0,

		ChainToleranceSq: 0.01,

		FullCycleDuration: 24 * time.Hour,
		PhaseFractions: [8]float32{
			0.50,   // G1
			0.30,   // S
			0.15,   // G2
			0.0125, // Prophase
			0.0285, // Metaphase
			0.0025, // Anaphase
			0.00325, // Telophase
			0.00325, // Cytokinesis
		},
		PhaseDurationCV: 0.06,

		PersistenceTime:    2 * time.Minute,
		CytoplasmHalfWidth: 2.0,
		IgnoreDistance:     10.0,
		DefaultWeight:      1.0,

		ImageResolution: Vec3{1, 1, 1},

		FrontOfficerCount: 1,
		TimeStep:          6 * time.Second,
		SnapshotPeriod:    10,

		RNGSeed: 1,
	}
}
