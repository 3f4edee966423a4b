package texture

import (
	"math/rand"
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotCloudEmitIsStrictlyDecreasing(t *testing.T) {
	d := NewDotCloud(1)
	d.Add(embryogen.V3(0, 0, 0))

	prev := d.Emit(0, 10)
	for i := 0; i < 5; i++ {
		next := d.Emit(0, 10)
		assert.Less(t, next, prev)
		prev = next
	}
}

func TestCollectOutliersRelocatesInsideSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := NewDotCloud(1)
	d.Add(embryogen.V3(100, 100, 100)) // far outside

	spheres := []geometry.Sphere{{Centre: embryogen.V3(0, 0, 0), Radius: 5}}
	d.CollectOutliers(spheres, rng)

	assert.LessOrEqual(t, d.Pos[0].DistTo(spheres[0].Centre), spheres[0].Radius)
}

func TestPopulateFromPerlinProducesDots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	size := embryogen.IV3(4, 4, 4)
	res := embryogen.V3(1, 1, 1)
	cloud := PopulateFromPerlin(size, res, embryogen.V3(0, 0, 0), 0.3, 2.0, 0.2, rng)
	require.NotNil(t, cloud)
	assert.Greater(t, cloud.Len(), 0)
}

func TestAdvectDotsFollowsTranslatingSphere(t *testing.T) {
	cloud := NewDotCloud(1)
	cloud.Add(embryogen.V3(1, 0, 0)) // inside a radius-3 sphere at origin

	motions := []SphereMotion{{
		PrevCentre: embryogen.V3(0, 0, 0), NewCentre: embryogen.V3(10, 0, 0),
		PrevRadius: 3, NewRadius: 3,
		PrevOrientation: embryogen.V3(1, 0, 0), NewOrientation: embryogen.V3(1, 0, 0),
	}}

	outliers := AdvectDots(cloud, motions)
	assert.Equal(t, 0, outliers)
	assert.InDelta(t, 11, cloud.Pos[0].X, 1e-3)
}

func TestAdvectDotsCountsOutsideDotsAsOutliers(t *testing.T) {
	cloud := NewDotCloud(1)
	cloud.Add(embryogen.V3(100, 100, 100))

	motions := []SphereMotion{{
		PrevCentre: embryogen.V3(0, 0, 0), NewCentre: embryogen.V3(10, 0, 0),
		PrevRadius: 3, NewRadius: 3,
	}}

	outliers := AdvectDots(cloud, motions)
	assert.Equal(t, 1, outliers)
}
