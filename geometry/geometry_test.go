package geometry

import (
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpheresAABBEnclosure(t *testing.T) {
	spheres, err := NewSpheres([]Sphere{
		{Centre: embryogen.V3(0, 0, 0), Radius: 3},
		{Centre: embryogen.V3(10, 0, 0), Radius: 1.5},
	})
	require.NoError(t, err)
	g := NewSpheresGeometry(spheres)

	for _, s := range spheres.List {
		r := embryogen.V3(s.Radius, s.Radius, s.Radius)
		lo := s.Centre.Sub(r)
		hi := s.Centre.Add(r)
		assert.LessOrEqual(t, lo.X, g.Box.Min.X+1e-5)
		assert.LessOrEqual(t, lo.Y, g.Box.Min.Y+1e-5)
		assert.LessOrEqual(t, lo.Z, g.Box.Min.Z+1e-5)
		assert.GreaterOrEqual(t, hi.X, g.Box.Max.X-1e-5)
		assert.GreaterOrEqual(t, hi.Y, g.Box.Max.Y-1e-5)
		assert.GreaterOrEqual(t, hi.Z, g.Box.Max.Z-1e-5)
	}
}

func TestSpheresSpheresCollisionSign(t *testing.T) {
	a, err := NewSpheres([]Sphere{{Centre: embryogen.V3(0, 0, 0), Radius: 3}})
	require.NoError(t, err)
	b, err := NewSpheres([]Sphere{{Centre: embryogen.V3(5, 0, 0), Radius: 3}})
	require.NoError(t, err)

	var pairs []ProximityPair
	getDistanceSpheresSpheres(a, b, &pairs)
	require.Len(t, pairs, 1)
	assert.Less(t, pairs[0].Distance, float32(0))
}

func TestSpheresSpheresOnePairPerLocalSphere(t *testing.T) {
	local, err := NewSpheres([]Sphere{
		{Centre: embryogen.V3(0, 0, 0), Radius: 1},
		{Centre: embryogen.V3(1, 0, 0), Radius: 1},
		{Centre: embryogen.V3(2, 0, 0), Radius: 1},
	})
	require.NoError(t, err)
	other, err := NewSpheres([]Sphere{{Centre: embryogen.V3(10, 0, 0), Radius: 1}})
	require.NoError(t, err)

	var pairs []ProximityPair
	getDistanceSpheresSpheres(local, other, &pairs)
	assert.Len(t, pairs, 3)
	for _, p := range pairs {
		assert.Equal(t, 0, p.OtherHint)
	}
}

func TestGetDistanceReversedFallback(t *testing.T) {
	img, err := NewScalarImg(embryogen.IV3(4, 4, 4), embryogen.Resolution{X: 2, Y: 2, Z: 2}, embryogen.V3(0, 0, 0), GradInZeroOut, make([]float32, 4*4*4))
	require.NoError(t, err)
	for i := range img.Values {
		img.Values[i] = 1 // entirely outside, so nothing near a sphere surface
	}
	imgGeo := NewScalarImgGeometry(img)

	spheres, err := NewSpheres([]Sphere{{Centre: embryogen.V3(1, 1, 1), Radius: 0.4}})
	require.NoError(t, err)
	sphGeo := NewSpheresGeometry(spheres)

	var direct, reversed []ProximityPair
	GetDistance(imgGeo, sphGeo, &direct, nil)
	GetDistance(sphGeo, imgGeo, &reversed, nil)
	assert.Equal(t, len(direct), len(reversed))
}

func TestUnsupportedPairIgnored(t *testing.T) {
	m1, err := NewMesh([]Triangle{{A: embryogen.V3(0, 0, 0), B: embryogen.V3(1, 0, 0), C: embryogen.V3(0, 1, 0)}})
	require.NoError(t, err)
	m2, err := NewMesh([]Triangle{{A: embryogen.V3(0, 0, 0), B: embryogen.V3(1, 0, 0), C: embryogen.V3(0, 1, 0)}})
	require.NoError(t, err)

	var pairs []ProximityPair
	GetDistance(NewMeshGeometry(m1), NewMeshGeometry(m2), &pairs, nil)
	assert.Empty(t, pairs)
}

func TestScalarImgAABBGradInZeroOut(t *testing.T) {
	size := embryogen.IV3(3, 3, 3)
	values := make([]float32, 27)
	for i := range values {
		values[i] = 1
	}
	// mark the centre voxel as inside (negative)
	values[embryogen.LinearIndex(embryogen.IV3(1, 1, 1), size)] = -0.2
	img, err := NewScalarImg(size, embryogen.Resolution{X: 1, Y: 1, Z: 1}, embryogen.V3(0, 0, 0), GradInZeroOut, values)
	require.NoError(t, err)

	box := img.computeAABB()
	centre := img.voxelToMicron(embryogen.IV3(1, 1, 1))
	assert.True(t, box.Contains(centre))
}
