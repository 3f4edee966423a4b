package raster

import (
	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
)

// RenderMask implements spec.md §4.6's sphere-set mask rendering: for
// every voxel in the AABB's voxel-space intersection with the target
// buffer, if the voxel centre falls inside any sphere of the set, write
// drawID + sphereIndex, provided the voxel was previously zero
// (first-writer-wins; coarse but deterministic, per spec.md §5's mask
// write-ordering guarantee).
func RenderMask(buf *Buffer[uint16], spheres []geometry.Sphere, box embryogen.AABB, drawID uint16) {
	if box.IsEmpty() {
		return
	}
	minV := embryogen.MicronToVoxel(box.Min, buf.Res, buf.Offset)
	maxV := embryogen.MicronToVoxel(box.Max, buf.Res, buf.Offset)
	minV = clampToBuffer(minV, buf.Size)
	maxV = clampToBuffer(maxV, buf.Size)

	for z := minV.Z; z <= maxV.Z; z++ {
		for y := minV.Y; y <= maxV.Y; y++ {
			for x := minV.X; x <= maxV.X; x++ {
				v := embryogen.IV3(x, y, z)
				if buf.At(v) != 0 {
					continue
				}
				centre := embryogen.VoxelToMicron(v, buf.Res, buf.Offset)
				for si, s := range spheres {
					if centre.DistTo(s.Centre) <= s.Radius {
						buf.Set(v, drawID+uint16(si))
						break
					}
				}
			}
		}
	}
}

func clampToBuffer(v, size embryogen.IVec3) embryogen.IVec3 {
	clamp := func(x, hi int) int {
		if x < 0 {
			return 0
		}
		if x > hi-1 {
			return hi - 1
		}
		return x
	}
	return embryogen.IV3(clamp(v.X, size.X), clamp(v.Y, size.Y), clamp(v.Z, size.Z))
}
