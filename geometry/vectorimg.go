package geometry

import "github.com/embryogen/embryogen"

// ChoosingPolicy selects how VectorImg summarises vectors along a surface
// when multiple voxels touch the same foreign sphere, per spec.md §3/§4.1.3.
type ChoosingPolicy int

const (
	ChooseMinVec ChoosingPolicy = iota
	ChooseMaxVec
	ChooseAvgVec
	ChooseAllVec
)

// VectorImgShape is three parallel scalar images of identical
// size/resolution/offset encoding a 3-D vector field, per spec.md §3.
type VectorImgShape struct {
	Policy ChoosingPolicy
	Size   embryogen.IVec3
	Res    embryogen.Resolution
	Offset Vec3
	VX, VY, VZ []float32
}

func NewVectorImg(size embryogen.IVec3, res embryogen.Resolution, offset Vec3, policy ChoosingPolicy, vx, vy, vz []float32) (*VectorImgShape, error) {
	n := size.X * size.Y * size.Z
	if n <= 0 {
		return nil, embryogen.ErrInvalidGeometry("VectorImg: non-positive voxel count")
	}
	if len(vx) != n || len(vy) != n || len(vz) != n {
		return nil, embryogen.ErrInvalidGeometry("VectorImg: component buffer length mismatch")
	}
	return &VectorImgShape{Policy: policy, Size: size, Res: res, Offset: offset, VX: vx, VY: vy, VZ: vz}, nil
}

func (s *VectorImgShape) FarCorner() Vec3 {
	return Vec3{
		s.Offset.X + float32(s.Size.X)/s.Res.X,
		s.Offset.Y + float32(s.Size.Y)/s.Res.Y,
		s.Offset.Z + float32(s.Size.Z)/s.Res.Z,
	}
}

func (s *VectorImgShape) computeAABB() AABB {
	return AABB{Min: s.Offset, Max: s.FarCorner()}
}

func (s *VectorImgShape) at(v embryogen.IVec3) Vec3 {
	i := embryogen.LinearIndex(v, s.Size)
	return Vec3{s.VX[i], s.VY[i], s.VZ[i]}
}

func (s *VectorImgShape) voxelToMicron(v embryogen.IVec3) Vec3 {
	return embryogen.VoxelToMicron(v, s.Res, s.Offset)
}

// getDistanceSpheresVectorImg implements spec.md §4.1.3: caller is the
// VectorImg. For each other-sphere, sweep voxels near its surface (same
// criterion as 4.1.2) and accumulate vectors per the choosing policy. The
// reported pair deliberately reinterprets ProximityPair: LocalPos-OtherPos
// equals the stored vector and Distance its magnitude.
func getDistanceSpheresVectorImg(img *VectorImgShape, spheres *SpheresShape, out *[]ProximityPair) {
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

	type acc struct {
		sum   Vec3
		count int
		best  Vec3
		set   bool
	}
	accs := make([]acc, len(spheres.List))

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
					vec := img.at(v)
					a := &accs[si]
					switch img.Policy {
					case ChooseAllVec:
						*out = append(*out, vectorPair(centre, vec, si, embryogen.LinearIndex(v, img.Size)))
					case ChooseMinVec:
						if !a.set || vec.LenSq() < a.best.LenSq() {
							a.best, a.set = vec, true
						}
					case ChooseMaxVec:
						if !a.set || vec.LenSq() > a.best.LenSq() {
							a.best, a.set = vec, true
						}
					default: // ChooseAvgVec
						a.sum = a.sum.Add(vec)
						a.count++
						a.set = true
					}
				}
			}
		}
	}

	if img.Policy == ChooseAllVec {
		return
	}
	for si := range spheres.List {
		a := accs[si]
		if !a.set {
			continue
		}
		vec := a.best
		if img.Policy == ChooseAvgVec && a.count > 0 {
			vec = a.sum.Mul(1 / float32(a.count))
		}
		*out = append(*out, vectorPair(spheres.List[si].Centre, vec, si, -1))
	}
}

func vectorPair(otherPos Vec3, vec Vec3, sphereIdx, voxelHint int) ProximityPair {
	return ProximityPair{
		LocalPos:  otherPos.Add(vec),
		OtherPos:  otherPos,
		Distance:  vec.Len(),
		LocalHint: voxelHint,
		OtherHint: sphereIdx,
	}
}
