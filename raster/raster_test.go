package raster

import (
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/texture"
	"github.com/stretchr/testify/assert"
)

func TestRenderMaskWritesInsideSphereFirstWriterWins(t *testing.T) {
	buf := NewBuffer[uint16](embryogen.IV3(10, 10, 10), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	spheres := []geometry.Sphere{{Centre: embryogen.V3(5, 5, 5), Radius: 3}}
	box := embryogen.AABB{Min: embryogen.V3(0, 0, 0), Max: embryogen.V3(10, 10, 10)}

	RenderMask(buf, spheres, box, 1)

	v := buf.At(embryogen.IV3(5, 5, 5))
	assert.Equal(t, uint16(1), v)

	buf.Set(embryogen.IV3(5, 5, 5), 99)
	RenderMask(buf, spheres, box, 1)
	assert.Equal(t, uint16(99), buf.At(embryogen.IV3(5, 5, 5))) // not overwritten
}

func TestRenderMaskLeavesOutsideVoxelsZero(t *testing.T) {
	buf := NewBuffer[uint16](embryogen.IV3(10, 10, 10), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	spheres := []geometry.Sphere{{Centre: embryogen.V3(5, 5, 5), Radius: 1}}
	box := embryogen.AABB{Min: embryogen.V3(0, 0, 0), Max: embryogen.V3(10, 10, 10)}

	RenderMask(buf, spheres, box, 1)

	assert.Equal(t, uint16(0), buf.At(embryogen.IV3(0, 0, 0)))
}

func TestRenderPhantomAccumulatesAndBleaches(t *testing.T) {
	buf := NewBuffer[float32](embryogen.IV3(10, 10, 10), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	cloud := texture.NewDotCloud(1)
	cloud.Add(embryogen.V3(5, 5, 5))

	RenderPhantom(buf, cloud, 10)
	first := buf.At(embryogen.IV3(5, 5, 5))
	assert.Greater(t, first, float32(0))

	RenderPhantom(buf, cloud, 10)
	second := buf.At(embryogen.IV3(5, 5, 5))
	assert.Greater(t, second, first) // additive, but each increment is smaller than the last
}

func TestRenderPhantomQuantisedMultipliesContribution(t *testing.T) {
	bufPlain := NewBuffer[float32](embryogen.IV3(4, 4, 4), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	bufQuant := NewBuffer[float32](embryogen.IV3(4, 4, 4), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	cloudA := texture.NewDotCloud(1)
	cloudA.Add(embryogen.V3(2, 2, 2))
	cloudB := texture.NewDotCloud(1)
	cloudB.Add(embryogen.V3(2, 2, 2))

	RenderPhantom(bufPlain, cloudA, 10)
	RenderPhantomQuantised(bufQuant, cloudB, 10, embryogen.IV3(2, 2, 1))

	plain := bufPlain.At(embryogen.IV3(2, 2, 2))
	quant := bufQuant.At(embryogen.IV3(2, 2, 2))
	assert.InDelta(t, plain*4, quant, 1e-4)
}

func TestReduceMaxTakesLarger(t *testing.T) {
	a := NewBuffer[uint16](embryogen.IV3(2, 2, 2), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	b := NewBuffer[uint16](embryogen.IV3(2, 2, 2), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	a.Data[0] = 5
	b.Data[0] = 9

	ReduceMax(a, b)
	assert.Equal(t, uint16(9), a.Data[0])
}

func TestReduceSumAdds(t *testing.T) {
	a := NewBuffer[float32](embryogen.IV3(2, 2, 2), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	b := NewBuffer[float32](embryogen.IV3(2, 2, 2), embryogen.V3(1, 1, 1), embryogen.V3(0, 0, 0))
	a.Data[0] = 3
	b.Data[0] = 4

	ReduceSum(a, b)
	assert.Equal(t, float32(7), a.Data[0])
}
