package lineage

import (
	"os"
	"testing"

	"github.com/embryogen/embryogen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCloseAndExportRoundTrip(t *testing.T) {
	r := NewRecorder(embryogen.NewNopLogger())
	r.StartNewTrack(1, 0)
	r.CloseTrack(1, 10)

	path := t.TempDir() + "/tracks.txt"
	require.NoError(t, r.ExportAll(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 0 10 0\n", string(data))
}

func TestClosingAlreadyClosedTrackWarnsNotFatal(t *testing.T) {
	r := NewRecorder(embryogen.NewNopLogger())
	r.StartNewTrack(1, 0)
	r.CloseTrack(1, 5)
	assert.NotPanics(t, func() { r.CloseTrack(1, 9) })
}

func TestUpdateParentalLinkInsertsChildTrack(t *testing.T) {
	r := NewRecorder(embryogen.NewNopLogger())
	r.StartNewTrack(1, 0)
	r.CloseTrack(1, 10)
	r.UpdateParentalLink(2, 1, 11)
	r.UpdateParentalLink(3, 1, 11)
	r.CloseTrack(2, 20)
	r.CloseTrack(3, 20)

	path := t.TempDir() + "/tracks.txt"
	require.NoError(t, r.ExportAll(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 0 10 0\n2 11 20 1\n3 11 20 1\n", string(data))
}

func TestCloseOpenAtShutdownClosesDanglingTracks(t *testing.T) {
	r := NewRecorder(embryogen.NewNopLogger())
	r.StartNewTrack(1, 5)
	r.CloseOpenAtShutdown(42)

	path := t.TempDir() + "/tracks.txt"
	require.NoError(t, r.ExportAll(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 5 41 0\n", string(data))
}

func TestTracksWithToBeforeFromAreOmitted(t *testing.T) {
	r := NewRecorder(embryogen.NewNopLogger())
	r.StartNewTrack(1, 10)
	r.CloseTrack(1, 3) // pathological, but exercise the omission rule

	path := t.TempDir() + "/tracks.txt"
	require.NoError(t, r.ExportAll(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", string(data))
}
