package sched

import (
	"fmt"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/lineage"
)

// Director owns no agents: it allocates agent ids, maintains the lineage
// recorder, acts as round barrier, and is the sole emergency-stop path for
// a broadcast exception (spec.md §4.5). Its dispatch loop doubles as the
// "cooperative message-dispatch loop" of spec.md §5: every call that waits
// for round completion also drains and handles any lifecycle message that
// arrives interleaved with the acks it is counting.
type Director struct {
	Inbox chan Envelope

	numFO       int
	nextAgentID int
	frame       int

	Tracks *lineage.Recorder
	Logger embryogen.Logger

	err error
}

func NewDirector(numFO int, logger embryogen.Logger) *Director {
	if logger == nil {
		logger = embryogen.NewNopLogger()
	}
	return &Director{
		Inbox:       make(chan Envelope, 256),
		numFO:       numFO,
		nextAgentID: 1,
		Tracks:      lineage.NewRecorder(logger),
		Logger:      logger,
	}
}

// AllocAgentID hands out the next agent id, per spec.md §4.5's "agent ids
// are allocated by the Director through a request/response call". Exposed
// as a direct method for scenario setup code (which runs before any FO
// goroutine exists) and also reachable at runtime via TagAgentIDRequest.
func (d *Director) AllocAgentID() int {
	id := d.nextAgentID
	d.nextAgentID++
	return id
}

// RegisterNewAgent implements startNewAgent(id, ownerFO, trackedForCTC?):
// it appends a track record at the current frame.
func (d *Director) RegisterNewAgent(id int, trackedForCTC bool) {
	if trackedForCTC {
		d.Tracks.StartNewTrack(id, d.frame)
	}
}

// RegisterDivision implements startNewDaughterAgent's lineage half: the
// parent's track closes at the current frame and both daughters open with
// a parental link, atomically from the lineage table's point of view.
func (d *Director) RegisterDivision(parentID, childA, childB int) {
	d.Tracks.CloseTrack(parentID, d.frame)
	d.Tracks.UpdateParentalLink(childA, parentID, d.frame+1)
	d.Tracks.UpdateParentalLink(childB, parentID, d.frame+1)
}

// Err returns the first exception broadcast received, if any.
func (d *Director) Err() error { return d.err }

// dispatch handles every lifecycle/exception message tag immediately and
// reports whether it consumed env. Ack and the AABB-exchange completion
// signal (TagAABBToken arriving at the Director) are left to the caller,
// since their meaning depends on which phase is being awaited.
func (d *Director) dispatch(env Envelope) bool {
	switch env.Tag {
	case TagAgentIDRequest:
		env.Reply <- Envelope{Tag: TagAgentIDResponse, AgentID: d.AllocAgentID()}
		return true
	case TagNewAgent:
		d.RegisterNewAgent(env.AgentID, env.TrackedForCTC)
		return true
	case TagNewDaughterAgents:
		d.RegisterDivision(env.ParentID, env.ChildIDs[0], env.ChildIDs[1])
		return true
	case TagAgentClose:
		d.Tracks.CloseTrack(env.AgentID, d.frame)
		return true
	case TagParentalLink:
		d.Tracks.UpdateParentalLink(env.AgentID, env.ParentID, d.frame)
		return true
	case TagException:
		if d.err == nil {
			d.err = fmt.Errorf("exception from fo-%d: %s", env.From, env.Exception)
			d.Logger.Errorf("%s", d.err)
		}
		return true
	default:
		return false
	}
}

// awaitAcks drains the Director's Inbox until n FOs have acked the given
// phase, dispatching any interleaved lifecycle message as it goes.
func (d *Director) awaitAcks(n int, phase RoundPhase) {
	got := 0
	for got < n {
		env := <-d.Inbox
		if d.dispatch(env) {
			continue
		}
		if env.Tag == TagAck && env.Phase == phase {
			got++
		}
	}
}

// awaitExchangeComplete blocks until the AABB round-robin token has made
// it all the way around the ring back to the Director.
func (d *Director) awaitExchangeComplete() {
	for {
		env := <-d.Inbox
		if d.dispatch(env) {
			continue
		}
		if env.Tag == TagAABBToken {
			return
		}
	}
}

// RunRound drives one full round across every FO: internal pipeline, AABB
// exchange, external pipeline, AABB exchange, publish — exactly the
// sequence of spec.md §4.5's "each FO runs the internal pipeline ... then
// participates in round-robin AABB publication ... the exchange runs
// twice per round".
func (d *Director) RunRound(fos []*FrontOfficer, snapshot bool) error {
	if d.err != nil {
		return d.err
	}

	d.broadcastPhase(fos, PhaseInternal, snapshot)
	d.awaitAcks(len(fos), PhaseInternal)
	if d.err != nil {
		return d.err
	}
	d.startExchange(fos)
	d.awaitExchangeComplete()

	d.broadcastPhase(fos, PhaseExternal, snapshot)
	d.awaitAcks(len(fos), PhaseExternal)
	if d.err != nil {
		return d.err
	}
	d.startExchange(fos)
	d.awaitExchangeComplete()

	d.broadcastPhase(fos, PhasePublish, snapshot)
	d.awaitAcks(len(fos), PhasePublish)

	d.frame++
	return d.err
}

func (d *Director) broadcastPhase(fos []*FrontOfficer, phase RoundPhase, snapshot bool) {
	for _, fo := range fos {
		fo.Inbox <- Envelope{Tag: TagRoundCommand, Phase: phase, RoundEndsInSnapshot: snapshot, Frame: d.frame}
	}
}

// startExchange kicks the token ring off at FO 1, per spec.md §4.5's "a
// named FO (the first) begins broadcasting".
func (d *Director) startExchange(fos []*FrontOfficer) {
	if len(fos) == 0 {
		return
	}
	fos[0].Inbox <- Envelope{Tag: TagAABBToken, From: 0}
}

// Shutdown tells every FO goroutine to stop, closes every open track at
// currentFrame-1, and exports the lineage file (spec.md §4.5, §4.7: "the
// lineage file is written during Director shutdown from whatever tracks
// are live at that point").
func (d *Director) Shutdown(fos []*FrontOfficer, tracksPath string) error {
	for _, fo := range fos {
		fo.Inbox <- Envelope{Tag: TagRoundCommand, Phase: PhaseShutdown}
		close(fo.Inbox)
	}
	d.Tracks.CloseOpenAtShutdown(d.frame)
	return d.Tracks.ExportAll(tracksPath)
}

// CurrentFrame reports the round counter the Director has reached.
func (d *Director) CurrentFrame() int { return d.frame }
