// Package lineage implements the track recorder of spec.md §4.7/§6: a
// keyed collection of cell lineage records and its CTC-style text export.
// Grounded on original_source/src/TrackRecord_CTC.h.
package lineage

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/embryogen/embryogen"
)

// openToFrame is the sentinel spec.md §4.7 writes for a track's toFrame
// until closeTrack sets it.
const openToFrame = -1

// Track is one lineage record: an id's lifetime and parent.
type Track struct {
	ID        int
	FromFrame int
	ToFrame   int
	ParentID int
}

// Recorder is the CTC track table, one entry per agent id ever seen,
// mutex-guarded since the Director's dispatch loop and any direct scenario
// setup code may both append tracks.
type Recorder struct {
	mu     sync.Mutex
	tracks map[int]*Track
	logger embryogen.Logger
}

func NewRecorder(logger embryogen.Logger) *Recorder {
	if logger == nil {
		logger = embryogen.NewNopLogger()
	}
	return &Recorder{tracks: make(map[int]*Track), logger: logger}
}

// StartNewTrack inserts (id, frame, -1, 0), per spec.md §4.7.
func (r *Recorder) StartNewTrack(id, frame int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracks[id] = &Track{ID: id, FromFrame: frame, ToFrame: openToFrame, ParentID: 0}
}

// CloseTrack sets toFrame. Closing an already-closed track is a warning,
// not an error (spec.md §4.7).
func (r *Recorder) CloseTrack(id, frame int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracks[id]
	if !ok {
		r.logger.Warnf("closeTrack: unknown track id %d", id)
		return
	}
	if t.ToFrame != openToFrame {
		r.logger.Warnf("closeTrack: track %d already closed at frame %d", id, t.ToFrame)
		return
	}
	t.ToFrame = frame
}

// UpdateParentalLink inserts (childId, currentFrame, -1, parentId), per
// spec.md §4.7 — division both starts the child's track and records its
// parent in one call.
func (r *Recorder) UpdateParentalLink(childID, parentID, currentFrame int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracks[childID] = &Track{ID: childID, FromFrame: currentFrame, ToFrame: openToFrame, ParentID: parentID}
}

// ToFrame returns the track's close frame and whether the id is known at
// all (still open tracks report openToFrame).
func (r *Recorder) ToFrame(id int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracks[id]
	if !ok {
		return 0, false
	}
	return t.ToFrame, true
}

// CloseOpenAtShutdown closes every still-open track at currentFrame-1, per
// spec.md §4.7's "tracks still open at shutdown are closed at
// currentFrame-1".
func (r *Recorder) CloseOpenAtShutdown(currentFrame int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tracks {
		if t.ToFrame == openToFrame {
			t.ToFrame = currentFrame - 1
		}
	}
}

// ExportAll writes one line per track, `<id> <fromFrame> <toFrame>
// <parentId>\n`, sorted by id for reproducible diffs, omitting tracks
// whose toFrame < fromFrame ("never displayed", per spec.md §4.7).
func (r *Recorder) ExportAll(path string) error {
	r.mu.Lock()
	ids := make([]int, 0, len(r.tracks))
	for id := range r.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	f, err := os.Create(path)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("lineage: create %s: %w", path, err)
	}
	defer f.Close()

	for _, id := range ids {
		t := r.tracks[id]
		if t.ToFrame < t.FromFrame {
			continue
		}
		if _, err := fmt.Fprintf(f, "%d %d %d %d\n", t.ID, t.FromFrame, t.ToFrame, t.ParentID); err != nil {
			r.mu.Unlock()
			return fmt.Errorf("lineage: write %s: %w", path, err)
		}
	}
	r.mu.Unlock()
	return nil
}
