package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunS3GrowsRadiiAndCanonicalMatrixUnderRestraint(t *testing.T) {
	out, err := runS3(t.TempDir())
	require.NoError(t, err)

	assert.InDelta(t, 1.5, out.RadiusGrowth, 1e-3)

	for i := 0; i < s3Spheres; i++ {
		for j := i + 1; j < s3Spheres; j++ {
			expectedGrowth := float32(j-i) * s3CanonGrowth * s3Steps
			assert.InDelta(t, expectedGrowth, out.Canonical[i][j]-canonicalSeed(i, j), 1e-3)
		}
	}

	assert.Less(t, out.MaxChainForce, float32(1.0))
}

func TestS3IsRegistered(t *testing.T) {
	_, ok := Lookup("S3-growth-restraint")
	assert.True(t, ok)
}

// canonicalSeed reproduces the initial consecutive spacing used to build
// the scenario's spheres (4 um apart, centre-to-centre), so the test can
// isolate growth from the seed distance without re-deriving the scenario's
// geometry.
func canonicalSeed(i, j int) float32 {
	return float32(j-i) * 4
}
