package geometry

import (
	"math"

	"github.com/embryogen/embryogen"
)

// DistanceSemantics selects one of the three signed-distance conventions of
// spec.md §3, grounded on original_source/src/Geometries/ScalarImg.h's
// DistanceModel enum (renamed here to read naturally in Go).
type DistanceSemantics int

const (
	// GradInZeroOut: negative inside shape, zero outside.
	GradInZeroOut DistanceSemantics = iota
	// ZeroInGradOut: zero inside, positive outside.
	ZeroInGradOut
	// GradInGradOut: signed distance to the surface everywhere.
	GradInGradOut
)

// ScalarImgShape is a 3-D scalar image of signed distances. The distance
// semantics are an immutable choice per instance, per spec.md §3.
type ScalarImgShape struct {
	Semantics DistanceSemantics
	Size      embryogen.IVec3 // voxels
	Res       embryogen.Resolution
	Offset    Vec3 // µm, near (min) corner
	Values    []float32
}

func NewScalarImg(size embryogen.IVec3, res embryogen.Resolution, offset Vec3, semantics DistanceSemantics, values []float32) (*ScalarImgShape, error) {
	n := size.X * size.Y * size.Z
	if n <= 0 {
		return nil, embryogen.ErrInvalidGeometry("ScalarImg: non-positive voxel count")
	}
	if len(values) != n {
		return nil, embryogen.ErrInvalidGeometry("ScalarImg: value buffer length %d does not match size %v", len(values), size)
	}
	return &ScalarImgShape{Semantics: semantics, Size: size, Res: res, Offset: offset, Values: values}, nil
}

// FarCorner returns the µm coordinate of the image's far (max) corner.
func (s *ScalarImgShape) FarCorner() Vec3 {
	return Vec3{
		s.Offset.X + float32(s.Size.X)/s.Res.X,
		s.Offset.Y + float32(s.Size.Y)/s.Res.Y,
		s.Offset.Z + float32(s.Size.Z)/s.Res.Z,
	}
}

func (s *ScalarImgShape) at(v embryogen.IVec3) float32 {
	return s.Values[embryogen.LinearIndex(v, s.Size)]
}

func (s *ScalarImgShape) inBounds(v embryogen.IVec3) bool {
	return v.X >= 0 && v.X < s.Size.X && v.Y >= 0 && v.Y < s.Size.Y && v.Z >= 0 && v.Z < s.Size.Z
}

func (s *ScalarImgShape) voxelToMicron(v embryogen.IVec3) Vec3 {
	return embryogen.VoxelToMicron(v, s.Res, s.Offset)
}

// computeAABB implements spec.md §4.1.4: for GradInZeroOut, the tightest
// AABB around strictly-negative voxels; otherwise there is no sharp
// inside/outside, so the full image extent is reported.
func (s *ScalarImgShape) computeAABB() AABB {
	if s.Semantics != GradInZeroOut {
		return AABB{Min: s.Offset, Max: s.FarCorner()}
	}
	box := embryogen.EmptyAABB()
	for z := 0; z < s.Size.Z; z++ {
		for y := 0; y < s.Size.Y; y++ {
			for x := 0; x < s.Size.X; x++ {
				v := embryogen.IV3(x, y, z)
				if s.at(v) < 0 {
					p := s.voxelToMicron(v)
					box = box.Union(AABB{Min: p, Max: p})
				}
			}
		}
	}
	return box
}

// gradientAt computes the image gradient by central finite differences,
// anisotropy-corrected by the per-axis resolution, falling back to a
// one-sided difference at image borders (spec.md §4.1.2).
func (s *ScalarImgShape) gradientAt(v embryogen.IVec3) Vec3 {
	g := func(axis int) float32 {
		var lo, hi embryogen.IVec3 = v, v
		var res float32
		switch axis {
		case 0:
			lo.X--
			hi.X++
			res = s.Res.X
		case 1:
			lo.Y--
			hi.Y++
			res = s.Res.Y
		default:
			lo.Z--
			hi.Z++
			res = s.Res.Z
		}
		loOK, hiOK := s.inBounds(lo), s.inBounds(hi)
		switch {
		case loOK && hiOK:
			return (s.at(hi) - s.at(lo)) * res / 2
		case hiOK:
			return (s.at(hi) - s.at(v)) * res
		case loOK:
			return (s.at(v) - s.at(lo)) * res
		default:
			return 0
		}
	}
	return Vec3{g(0), g(1), g(2)}
}

type candidateVoxel struct {
	voxel embryogen.IVec3
	value float32
	found bool
}

// getDistanceSpheresScalarImg implements spec.md §4.1.2. The caller is the
// ScalarImg. Sweep the voxel-space intersection of the other-spheres AABB
// with the own image AABB; for every voxel "near" some sphere's surface,
// keep the single candidate voxel with the smallest stored distance per
// sphere; then reconstruct the local surface point by stepping from the
// voxel centre along the image gradient.
func getDistanceSpheresScalarImg(img *ScalarImgShape, spheres *SpheresShape, out *[]ProximityPair) {
	sweepBox := spheres.computeAABB()
	imgBox := AABB{Min: img.Offset, Max: img.FarCorner()}
	if !sweepBox.Intersects(imgBox) {
		return
	}

	minV := embryogen.MicronToVoxel(embryogen.Vec3{X: max32(sweepBox.Min.X, imgBox.Min.X), Y: max32(sweepBox.Min.Y, imgBox.Min.Y), Z: max32(sweepBox.Min.Z, imgBox.Min.Z)}, img.Res, img.Offset)
	maxV := embryogen.MicronToVoxel(embryogen.Vec3{X: min32(sweepBox.Max.X, imgBox.Max.X), Y: min32(sweepBox.Max.Y, imgBox.Max.Y), Z: min32(sweepBox.Max.Z, imgBox.Max.Z)}, img.Res, img.Offset)
	minV = clampToImage(minV, img.Size)
	maxV = clampToImage(maxV, img.Size)

	voxDiag := diagLen(img.Res)
	best := make([]candidateVoxel, len(spheres.List))

	for z := minV.Z; z <= maxV.Z; z++ {
		for y := minV.Y; y <= maxV.Y; y++ {
			for x := minV.X; x <= maxV.X; x++ {
				v := embryogen.IV3(x, y, z)
				centre := img.voxelToMicron(v)
				for si, sph := range spheres.List {
					d := centre.DistTo(sph.Centre) - sph.Radius
					if absF(d) >= voxDiag/2 {
						continue
					}
					val := img.at(v)
					if !best[si].found || absF(val) < absF(best[si].value) {
						best[si] = candidateVoxel{voxel: v, value: val, found: true}
					}
				}
			}
		}
	}

	for si, sph := range spheres.List {
		c := best[si]
		if !c.found {
			continue
		}
		voxelCentre := img.voxelToMicron(c.voxel)
		grad := img.gradientAt(c.voxel).Normalized()
		localPos := voxelCentre.Add(grad.Mul(c.value))
		dir := voxelCentre.Sub(sph.Centre).Normalized()
		otherPos := sph.Centre.Add(dir.Mul(sph.Radius))
		*out = append(*out, ProximityPair{
			LocalPos:  localPos,
			OtherPos:  otherPos,
			Distance:  c.value,
			LocalHint: embryogen.LinearIndex(c.voxel, img.Size),
			OtherHint: si,
		})
	}
}

func clampToImage(v embryogen.IVec3, size embryogen.IVec3) embryogen.IVec3 {
	clamp := func(x, lo, hi int) int {
		if x < lo {
			return lo
		}
		if x > hi {
			return hi
		}
		return x
	}
	return embryogen.IV3(clamp(v.X, 0, size.X-1), clamp(v.Y, 0, size.Y-1), clamp(v.Z, 0, size.Z-1))
}

func diagLen(res embryogen.Resolution) float32 {
	vx, vy, vz := 1/res.X, 1/res.Y, 1/res.Z
	return float32(math.Sqrt(float64(vx*vx + vy*vy + vz*vz)))
}

func absF(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
