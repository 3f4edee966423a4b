package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunS6CollectsAllOutliersInsideSpheres(t *testing.T) {
	out, err := runS6(t.TempDir())
	require.NoError(t, err)

	assert.Greater(t, out.FractionOutsideBefore, float32(0))
	assert.Equal(t, float32(0), out.FractionOutsideAfter)
}

func TestS6IsRegistered(t *testing.T) {
	_, ok := Lookup("S6-perlin-containment")
	assert.True(t, ok)
}
