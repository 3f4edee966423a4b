package scenarios

import (
	"fmt"
	"math/rand"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/raster"
	"github.com/embryogen/embryogen/texture"
)

func init() { Register("S4-image-reduction", RunS4) }

const (
	s4BallRadius = 5.0
	s4DotsPerFO  = 64
)

var (
	s4Centre1 = embryogen.V3(10, 15, 15)
	s4Centre2 = embryogen.V3(30, 15, 15)
	s4Size    = embryogen.IV3(40, 30, 30)
	s4Res     = embryogen.Resolution{X: 1, Y: 1, Z: 1}
	s4Offset  = embryogen.V3(0, 0, 0)
)

// S4Outcome is what spec.md §8's S4 property checks: the Director's
// merged mask matches the voxel-wise union of the two FO-local masks, and
// the merged phantom sum equals the sum of both FO-local phantom sums.
type S4Outcome struct {
	MergedMaskMatchesUnion bool
	MergedPhantomSum       float32
	LocalPhantomSumTotal   float32
}

func ballDotCloud(centre embryogen.Vec3, radius float32, n int, rng *rand.Rand) *texture.DotCloud {
	cloud := texture.NewDotCloud(n)
	for i := 0; i < n; i++ {
		for {
			offset := embryogen.V3(
				(rng.Float32()*2-1)*radius,
				(rng.Float32()*2-1)*radius,
				(rng.Float32()*2-1)*radius,
			)
			if offset.Len() <= radius {
				cloud.Add(centre.Add(offset))
				break
			}
		}
	}
	return cloud
}

func sphereOf(centre embryogen.Vec3, radius float32) []geometry.Sphere {
	return []geometry.Sphere{{Centre: centre, Radius: radius}}
}

func bufferSum(buf *raster.Buffer[float32]) float32 {
	var sum float32
	for _, v := range buf.Data {
		sum += v
	}
	return sum
}

// runS4 reproduces spec.md §8's "image reduction": two FOs each render a
// 5 um ball at disjoint centres into their own local mask/phantom buffers,
// which the Director then reduces (ReduceMax for masks, ReduceSum for
// phantoms), per spec.md §5's per-FO-local-buffer-then-Director-reduce
// rasterisation pipeline. Grounded on
// original_source/src/DisplayUnits/util/RenderingFunctions.h's
// per-region-then-merge rendering and the teacher's world.go
// region-buffer-then-sector-merge idiom.
func runS4(outDir string) (S4Outcome, error) {
	rng := rand.New(rand.NewSource(1))

	box1 := embryogen.SphereAABB(s4Centre1, s4BallRadius)
	box2 := embryogen.SphereAABB(s4Centre2, s4BallRadius)

	mask1 := raster.NewBuffer[uint16](s4Size, s4Res, s4Offset)
	mask2 := raster.NewBuffer[uint16](s4Size, s4Res, s4Offset)
	raster.RenderMask(mask1, sphereOf(s4Centre1, s4BallRadius), box1, 1)
	raster.RenderMask(mask2, sphereOf(s4Centre2, s4BallRadius), box2, 1)

	merged := raster.NewBuffer[uint16](s4Size, s4Res, s4Offset)
	raster.ReduceMax(merged, mask1)
	raster.ReduceMax(merged, mask2)

	union := true
	for i := range merged.Data {
		want := mask1.Data[i] != 0 || mask2.Data[i] != 0
		got := merged.Data[i] != 0
		if want != got {
			union = false
			break
		}
	}

	cloud1 := ballDotCloud(s4Centre1, s4BallRadius, s4DotsPerFO, rng)
	cloud2 := ballDotCloud(s4Centre2, s4BallRadius, s4DotsPerFO, rng)

	phantom1 := raster.NewBuffer[float32](s4Size, s4Res, s4Offset)
	phantom2 := raster.NewBuffer[float32](s4Size, s4Res, s4Offset)
	raster.RenderPhantom(phantom1, cloud1, 1.0)
	raster.RenderPhantom(phantom2, cloud2, 1.0)

	mergedPhantom := raster.NewBuffer[float32](s4Size, s4Res, s4Offset)
	raster.ReduceSum(mergedPhantom, phantom1)
	raster.ReduceSum(mergedPhantom, phantom2)

	out := S4Outcome{
		MergedMaskMatchesUnion: union,
		MergedPhantomSum:       bufferSum(mergedPhantom),
		LocalPhantomSumTotal:   bufferSum(phantom1) + bufferSum(phantom2),
	}
	_ = outDir
	return out, nil
}

// RunS4 is the CLI-facing entry point.
func RunS4(outDir string) (string, error) {
	out, err := runS4(outDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("S4: merged mask is union of locals: %v, merged phantom sum %.3f vs local total %.3f", out.MergedMaskMatchesUnion, out.MergedPhantomSum, out.LocalPhantomSumTotal), nil
}
