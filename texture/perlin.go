package texture

import (
	"math"
	"math/rand"

	"github.com/embryogen/embryogen"
)

// perlinGrid is a classic Ken-Perlin permutation table doubled for
// wraparound-free indexing, per spec.md §4.6 ("3-D Perlin noise"), written
// in the voxel-sweep idiom of the teacher's asset_procedural.go. Grounded
// directly on original_source/src/util/texture/perlin.hpp since no pack
// example or ecosystem dependency in any retrieved go.mod implements
// Perlin noise — a self-contained numerical kernel with no natural
// library home in this corpus.
type perlinGrid struct {
	perm [512]int
}

func newPerlinGrid(rng *rand.Rand) *perlinGrid {
	var p perlinGrid
	var base [256]int
	for i := range base {
		base[i] = i
	}
	rng.Shuffle(len(base), func(i, j int) { base[i], base[j] = base[j], base[i] })
	for i := 0; i < 512; i++ {
		p.perm[i] = base[i%256]
	}
	return &p
}

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }
func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	var ru, rv float64 = u, v
	if h&1 != 0 {
		ru = -u
	}
	if h&2 != 0 {
		rv = -v
	}
	return ru + rv
}

// noise3D samples classic Perlin noise at (x,y,z), returning a value
// typically in [-1,1].
func (p *perlinGrid) noise3D(x, y, z float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255
	zi := int(math.Floor(z)) & 255
	xf := x - math.Floor(x)
	yf := y - math.Floor(y)
	zf := z - math.Floor(z)

	u, v, w := fade(xf), fade(yf), fade(zf)

	a := p.perm[xi] + yi
	aa := p.perm[a] + zi
	ab := p.perm[a+1] + zi
	b := p.perm[xi+1] + yi
	ba := p.perm[b] + zi
	bb := p.perm[b+1] + zi

	return lerp(w,
		lerp(v,
			lerp(u, grad(p.perm[aa], xf, yf, zf), grad(p.perm[ba], xf-1, yf, zf)),
			lerp(u, grad(p.perm[ab], xf, yf-1, zf), grad(p.perm[bb], xf-1, yf-1, zf))),
		lerp(v,
			lerp(u, grad(p.perm[aa+1], xf, yf, zf-1), grad(p.perm[ba+1], xf-1, yf, zf-1)),
			lerp(u, grad(p.perm[ab+1], xf, yf-1, zf-1), grad(p.perm[bb+1], xf-1, yf-1, zf-1))))
}

// PopulateFromPerlin implements spec.md §4.6's texture initialisation: a
// 3-D Perlin field sampled at one sample per voxel, shifted so the image
// mean matches targetMean, then for every voxel floor(intensity/
// quantization) dots are placed uniformly within the voxel with a
// Gaussian jitter of sigma = (1/6)/res per axis.
func PopulateFromPerlin(size embryogen.IVec3, res embryogen.Resolution, offset embryogen.Vec3, frequency, targetMean, quantization float32, rng *rand.Rand) *DotCloud {
	n := size.X * size.Y * size.Z
	if n <= 0 {
		return NewDotCloud(0)
	}
	grid := newPerlinGrid(rng)

	raw := make([]float64, n)
	var sum float64
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				idx := embryogen.LinearIndex(embryogen.IV3(x, y, z), size)
				val := grid.noise3D(float64(x)*float64(frequency), float64(y)*float64(frequency), float64(z)*float64(frequency))
				raw[idx] = val
				sum += val
			}
		}
	}
	mean := sum / float64(n)
	shift := float64(targetMean) - mean

	cloud := NewDotCloud(n)
	sigma := embryogen.V3((1.0/6.0)/res.X, (1.0/6.0)/res.Y, (1.0/6.0)/res.Z)
	voxelSize := embryogen.V3(1/res.X, 1/res.Y, 1/res.Z)

	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				idx := embryogen.LinearIndex(embryogen.IV3(x, y, z), size)
				intensity := raw[idx] + shift
				if intensity <= 0 {
					continue
				}
				count := int(math.Floor(intensity / float64(quantization)))
				if count <= 0 {
					continue
				}
				base := embryogen.VoxelToMicron(embryogen.IV3(x, y, z), res, offset)
				for c := 0; c < count; c++ {
					within := embryogen.V3(
						(rng.Float32()-0.5)*voxelSize.X,
						(rng.Float32()-0.5)*voxelSize.Y,
						(rng.Float32()-0.5)*voxelSize.Z,
					)
					jitter := embryogen.V3(
						float32(rng.NormFloat64())*sigma.X,
						float32(rng.NormFloat64())*sigma.Y,
						float32(rng.NormFloat64())*sigma.Z,
					)
					cloud.Add(base.Add(within).Add(jitter))
				}
			}
		}
	}
	return cloud
}
