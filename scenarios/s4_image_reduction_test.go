package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunS4MergesMasksAsUnionAndPhantomsAsSum(t *testing.T) {
	out, err := runS4(t.TempDir())
	require.NoError(t, err)

	assert.True(t, out.MergedMaskMatchesUnion)
	assert.InDelta(t, out.LocalPhantomSumTotal, out.MergedPhantomSum, 1e-3)
	assert.Greater(t, out.MergedPhantomSum, float32(0))
}

func TestS4IsRegistered(t *testing.T) {
	_, ok := Lookup("S4-image-reduction")
	assert.True(t, ok)
}
