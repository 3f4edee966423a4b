package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunS1SeparatesTwoCellsPastSixMicrons(t *testing.T) {
	out, err := runS1(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, out.FinalSeparation, float32(6))
	assert.True(t, out.Agent1Alive)
	assert.True(t, out.Agent2Alive)
}

func TestS1IsRegistered(t *testing.T) {
	_, ok := Lookup("S1-two-cell-contact")
	assert.True(t, ok)
}
