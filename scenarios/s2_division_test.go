package scenarios

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunS2DividesExactlyOnceIntoTwoDistinctDaughters(t *testing.T) {
	dir := t.TempDir()
	out, err := runS2(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Divisions)
	assert.NotEqual(t, out.DaughterA, out.DaughterB)
	assert.NotEqual(t, out.MotherID, out.DaughterA)
	assert.NotEqual(t, out.MotherID, out.DaughterB)

	raw, err := os.ReadFile(dir + "/tracks.txt")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)

	var sawMother, sawA, sawB bool
	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 4)
		switch fields[0] {
		case strconv.Itoa(out.MotherID):
			sawMother = true
			assert.Equal(t, "0", fields[3])
		case strconv.Itoa(out.DaughterA):
			sawA = true
			assert.Equal(t, strconv.Itoa(out.MotherID), fields[3])
		case strconv.Itoa(out.DaughterB):
			sawB = true
			assert.Equal(t, strconv.Itoa(out.MotherID), fields[3])
		}
	}
	assert.True(t, sawMother)
	assert.True(t, sawA)
	assert.True(t, sawB)
}

func TestS2IsRegistered(t *testing.T) {
	_, ok := Lookup("S2-single-cell-division")
	assert.True(t, ok)
}
