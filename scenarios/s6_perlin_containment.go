package scenarios

import (
	"fmt"
	"math/rand"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/agent"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/texture"
)

func init() { Register("S6-perlin-containment", RunS6) }

var (
	s6Size   = embryogen.IV3(40, 40, 40)
	s6Res    = embryogen.Resolution{X: 1, Y: 1, Z: 1}
	s6Offset = embryogen.V3(0, 0, 0)
)

// S6Outcome is what spec.md §8's S6 property checks: the fraction of dots
// outside the union of spheres, before and after collection.
type S6Outcome struct {
	FractionOutsideBefore float32
	FractionOutsideAfter  float32
}

func fractionOutside(cloud *texture.DotCloud, spheres []geometry.Sphere) float32 {
	if cloud.Len() == 0 {
		return 0
	}
	outside := 0
	for _, p := range cloud.Pos {
		inside := false
		for _, s := range spheres {
			if p.DistTo(s.Centre) <= s.Radius {
				inside = true
				break
			}
		}
		if !inside {
			outside++
		}
	}
	return float32(outside) / float32(cloud.Len())
}

// runS6 reproduces spec.md §8's "Perlin-texture containment": a Perlin
// dot cloud is populated over a volume spanning a 4S-nucleus with room to
// spare on every side, so population necessarily scatters dots outside
// the spheres; CollectOutliers then relocates every one of them back
// inside its nearest sphere (texture.DotCloud.CollectOutliers), per
// spec.md §4.6's "shouldCollectOutlyingDots" containment step. Grounded
// on original_source/src/Scenarios/Scenario_Texture.cpp and
// original_source/src/Agents/util/Texture.cpp's outlier-collection pass.
func runS6(outDir string) (S6Outcome, error) {
	rng := rand.New(rand.NewSource(7))
	cfg := embryogen.DefaultConfig()

	spheres := [4]geometry.Sphere{
		{Centre: embryogen.V3(14, 20, 20), Radius: 3},
		{Centre: embryogen.V3(18, 20, 20), Radius: 3},
		{Centre: embryogen.V3(22, 20, 20), Radius: 3},
		{Centre: embryogen.V3(26, 20, 20), Radius: 3},
	}
	nucleus, err := agent.NewNucleus4SAgent(1, "nucleus-4s", spheres, 0, cfg)
	if err != nil {
		return S6Outcome{}, fmt.Errorf("S6: %w", err)
	}
	sphereList := nucleus.Exposed.Spheres.List

	cloud := texture.PopulateFromPerlin(s6Size, s6Res, s6Offset, 0.15, 0.2, 1, rng)

	out := S6Outcome{FractionOutsideBefore: fractionOutside(cloud, sphereList)}
	cloud.CollectOutliers(sphereList, rng)
	out.FractionOutsideAfter = fractionOutside(cloud, sphereList)

	_ = outDir
	return out, nil
}

// RunS6 is the CLI-facing entry point.
func RunS6(outDir string) (string, error) {
	out, err := runS6(outDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("S6: outside fraction %.4f -> %.4f after collection", out.FractionOutsideBefore, out.FractionOutsideAfter), nil
}
