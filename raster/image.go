// Package raster implements the volumetric output pipeline of spec.md
// §4.6/§6: dense mask/phantom/optics/final voxel buffers, sphere-set mask
// rendering, dot-based phantom rendering, and per-FO/Director reduction.
// Grounded on the teacher's world.go (WorldComponent's region/sector
// storage, generalised here to a single dense plane buffer per output
// kind since the simulator's scenes are small enough to not need
// streaming) and on
// original_source/src/DisplayUnits/util/RenderingFunctions.h for the
// exact voxel-sweep/first-writer-wins semantics. Uses golang.org/x/image's
// TIFF encoder for the per-slice mask%03d.tif/final%03d.tif output of
// spec.md §6, matching the teacher's asset_procedural.go voxel-sweep
// idiom for building up image data one voxel at a time.
package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/embryogen/embryogen"
	"golang.org/x/image/tiff"
)

// Buffer is a dense voxel-space scalar field of element type T, shared by
// every output kind (mask: uint16, phantom/optics: float32, final:
// uint16), per spec.md §6's four image formats.
type Buffer[T any] struct {
	Size   embryogen.IVec3
	Res    embryogen.Resolution
	Offset embryogen.Vec3
	Data   []T
}

// NewBuffer allocates a zeroed buffer of the given voxel-space size.
func NewBuffer[T any](size embryogen.IVec3, res embryogen.Resolution, offset embryogen.Vec3) *Buffer[T] {
	n := size.X * size.Y * size.Z
	if n < 0 {
		n = 0
	}
	return &Buffer[T]{Size: size, Res: res, Offset: offset, Data: make([]T, n)}
}

func (b *Buffer[T]) index(v embryogen.IVec3) int { return embryogen.LinearIndex(v, b.Size) }

func (b *Buffer[T]) inBounds(v embryogen.IVec3) bool {
	return v.X >= 0 && v.Y >= 0 && v.Z >= 0 && v.X < b.Size.X && v.Y < b.Size.Y && v.Z < b.Size.Z
}

func (b *Buffer[T]) At(v embryogen.IVec3) T { return b.Data[b.index(v)] }

func (b *Buffer[T]) Set(v embryogen.IVec3, val T) {
	if b.inBounds(v) {
		b.Data[b.index(v)] = val
	}
}

// Clear zeroes every voxel, ready for the next round's per-FO local
// rendering pass (spec.md §5: "a per-FO local buffer that the FO writes
// during rasterisation").
func (b *Buffer[T]) Clear() {
	var zero T
	for i := range b.Data {
		b.Data[i] = zero
	}
}

// ReduceMax merges src into dst voxel-wise by maximum, the reduction rule
// spec.md §5 specifies for masks (treating zero as "empty").
func ReduceMax(dst, src *Buffer[uint16]) {
	for i, v := range src.Data {
		if v > dst.Data[i] {
			dst.Data[i] = v
		}
	}
}

// ReduceSum merges src additively into dst, the reduction rule spec.md §5
// specifies for phantom/optics images.
func ReduceSum(dst, src *Buffer[float32]) {
	for i, v := range src.Data {
		dst.Data[i] += v
	}
}

// grayU16Slice adapts one z-slice of a uint16 Buffer to image.Image, per
// spec.md §6's "mask images are 16-bit unsigned integer" / "final is
// 16-bit unsigned integer".
type grayU16Slice struct {
	buf *Buffer[uint16]
	z   int
}

func (s grayU16Slice) ColorModel() color.Model { return color.Gray16Model }
func (s grayU16Slice) Bounds() image.Rectangle { return image.Rect(0, 0, s.buf.Size.X, s.buf.Size.Y) }
func (s grayU16Slice) At(x, y int) color.Color {
	return color.Gray16{Y: s.buf.At(embryogen.IV3(x, y, s.z))}
}

// grayF32PreviewSlice renders one z-slice of a float32 buffer as an 8-bit
// preview scaled by max, since phantom/optics science values are stored
// authoritatively in Buffer.Data and TIFF's float-sample extension is a
// narrower corner of the format than golang.org/x/image/tiff covers.
type grayF32PreviewSlice struct {
	buf *Buffer[float32]
	z   int
	max float32
}

func (s grayF32PreviewSlice) ColorModel() color.Model { return color.GrayModel }
func (s grayF32PreviewSlice) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.buf.Size.X, s.buf.Size.Y)
}
func (s grayF32PreviewSlice) At(x, y int) color.Color {
	v := s.buf.At(embryogen.IV3(x, y, s.z))
	if s.max <= 0 {
		return color.Gray{Y: 0}
	}
	scaled := v / s.max * 255
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return color.Gray{Y: uint8(scaled)}
}

// WriteSliceTIFF16 writes one z-slice of a uint16 buffer to w as a TIFF
// image, for the mask%03d.tif/final%03d.tif outputs of spec.md §6. I/O
// failures here are logged and otherwise swallowed by the caller (spec.md
// §7: "I/O failure on image save: logged; simulation continues").
func WriteSliceTIFF16(w io.Writer, buf *Buffer[uint16], z int) error {
	return tiff.Encode(w, grayU16Slice{buf: buf, z: z}, nil)
}

// WriteSliceTIFF32Preview writes an 8-bit preview of one z-slice of a
// float32 buffer, for human inspection of phantom%03d.tif/optics%03d.tif
// frames; the raw float values remain available via Buffer.Data for any
// caller needing the authoritative intensities.
func WriteSliceTIFF32Preview(w io.Writer, buf *Buffer[float32], z int, max float32) error {
	return tiff.Encode(w, grayF32PreviewSlice{buf: buf, z: z, max: max}, nil)
}
