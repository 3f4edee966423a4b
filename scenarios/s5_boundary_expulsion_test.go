package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunS5ExpelsAgentWithinRoundBudgetAndClosesPreviousFrame(t *testing.T) {
	out, err := runS5(t.TempDir())
	require.NoError(t, err)

	require.Greater(t, out.DiedAtRound, 0)
	assert.LessOrEqual(t, out.DiedAtRound, s5MaxRounds)
	assert.Equal(t, out.FinalFrame-1, out.ClosedFrame)
}

func TestS5IsRegistered(t *testing.T) {
	_, ok := Lookup("S5-boundary-expulsion")
	assert.True(t, ok)
}
