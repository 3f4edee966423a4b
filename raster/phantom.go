package raster

import (
	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/texture"
)

// RenderPhantom implements spec.md §4.6's plain phantom rendering: each
// dot's photobleaching-adjusted intensity is written additively into the
// voxel containing it. Dots landing outside the buffer are skipped
// (Open Question 3's "centre inside" contract).
func RenderPhantom(buf *Buffer[float32], cloud *texture.DotCloud, quantum float32) {
	for i, pos := range cloud.Pos {
		v := embryogen.MicronToVoxel(pos, buf.Res, buf.Offset)
		if !buf.inBounds(v) {
			continue
		}
		intensity := cloud.Emit(i, quantum)
		buf.Set(v, buf.At(v)+intensity)
	}
}

// RenderPhantomQuantised implements the quantised variant of spec.md
// §4.6: the dot's intensity is multiplied by the qCounts.x * qCounts.y *
// qCounts.z product and the whole amount is written into the single voxel
// containing the dot. The sub-quanta are not placed at separate positions,
// so nothing is spread into neighbouring voxels.
func RenderPhantomQuantised(buf *Buffer[float32], cloud *texture.DotCloud, quantum float32, qCounts embryogen.IVec3) {
	for i, pos := range cloud.Pos {
		v := embryogen.MicronToVoxel(pos, buf.Res, buf.Offset)
		if !buf.inBounds(v) {
			continue
		}
		intensity := cloud.EmitQuantised(i, quantum, qCounts)
		buf.Set(v, buf.At(v)+intensity)
	}
}
