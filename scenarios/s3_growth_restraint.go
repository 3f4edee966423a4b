package scenarios

import (
	"fmt"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/agent"
	"github.com/embryogen/embryogen/geometry"
)

func init() { Register("S3-growth-restraint", RunS3) }

const (
	s3Spheres     = 4
	s3Steps       = 30
	s3RadiusDelta = 0.05 // um/step
	s3CanonGrowth = 1.8 * s3RadiusDelta
)

// S3Outcome is what spec.md §8's S3 property checks: total radius growth,
// the grown canonical distance matrix, and the largest chain-restoring
// force magnitude observed across every step (expected to stay small since
// growth is applied to both geometry and canonical distances in lockstep,
// so the chain never sees a mismatch worth correcting).
type S3Outcome struct {
	RadiusGrowth    float32
	Canonical       [][]float32
	MaxChainForce   float32
}

// runS3 reproduces spec.md §8's "growth under restraint": one NS-nucleus,
// otherwise unrestrained (no scheduler, no neighbours), grown by dR every
// step for 30 steps. Growth is not itself a NucleusNSAgent operation
// (original_source/src/Agents/NucleusNSAgent.h has no growth hook of its
// own), so this scenario grows both the future sphere radii and the
// canonical matrix directly before each internal-forces pass, matching the
// original's scenario-level growth driver in
// original_source/src/Scenarios/Scenario_parallel.cpp.
func runS3(outDir string) (S3Outcome, error) {
	cfg := embryogen.DefaultConfig()

	spheres := make([]geometry.Sphere, s3Spheres)
	for i := range spheres {
		spheres[i] = geometry.Sphere{Centre: embryogen.V3(float32(i)*4, 15, 15), Radius: 1.5}
	}

	n, err := agent.NewNucleusNSAgent(1, "nucleus-ns", spheres, 0, cfg)
	if err != nil {
		return S3Outcome{}, fmt.Errorf("S3: %w", err)
	}

	var out S3Outcome
	for step := 1; step <= s3Steps; step++ {
		growSpheres(n.Future.Spheres.List, s3RadiusDelta)
		growCanonical(n.Canonical, s3CanonGrowth)

		n.AdvanceAndBuildIntForces(cfg.TimeStep)
		n.AdjustGeometryByIntForces(cfg.TimeStep)

		if mag := n.Forces().MaxMagnitude(); mag > out.MaxChainForce {
			out.MaxChainForce = mag
		}
	}

	out.RadiusGrowth = n.Future.Spheres.List[0].Radius - spheres[0].Radius
	out.Canonical = n.Canonical
	_ = outDir // S3 has no image/lineage artifacts to write
	return out, nil
}

func growSpheres(spheres []geometry.Sphere, dR float32) {
	for i := range spheres {
		spheres[i].Radius += dR
	}
}

func growCanonical(canon [][]float32, perLinkGrowth float32) {
	n := len(canon)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			growth := float32(j-i) * perLinkGrowth
			canon[i][j] += growth
			canon[j][i] += growth
		}
	}
}

// RunS3 is the CLI-facing entry point.
func RunS3(outDir string) (string, error) {
	out, err := runS3(outDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("S3: radius grew by %.3f um over %d steps, max chain force %.4f", out.RadiusGrowth, s3Steps, out.MaxChainForce), nil
}
