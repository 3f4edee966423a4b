// Package sched implements the Director/FrontOfficer scheduler of spec.md
// §4.5/§5/§6: static agent partitioning, the round-robin AABB exchange,
// agent lifecycle coordination, and on-demand shadow-geometry fetch.
// Grounded on original_source/src/FrontOfficer.h, Director.h and
// Communication/DistributedCommunicator.h, generalising the teacher's
// mod_physics.go PhysicsProxy (a background goroutine publishing
// atomic.Pointer snapshots to the main loop) from a single-producer
// snapshot exchange to P FrontOfficer goroutines plus one Director
// goroutine talking over typed channels, since the round-robin token
// protocol needs ordered delivery rather than last-writer-wins.
package sched

import (
	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/google/uuid"
)

// MessageTag is the closed enumeration of spec.md §6: "every inter-process
// message carries a tag drawn from a closed enumeration".
type MessageTag int

const (
	TagAgentIDRequest MessageTag = iota
	TagAgentIDResponse
	TagNewAgent
	TagNewDaughterAgents
	TagAgentClose
	TagParentalLink
	TagAABB
	TagAABBToken
	TagAABBCount
	TagNewTypeHash
	TagShadowRequest
	TagShadowResponse
	TagRenderRequest
	TagDebugFlags
	TagBarrier
	TagAck
	TagException

	// TagRoundCommand is not one of spec.md §6's wire tags — it is the
	// local control message the Director uses to drive each FrontOfficer
	// goroutine through a round's phases. Kept in the same enumeration
	// and Envelope shape as every other message because the FO's command
	// loop dispatches on Tag through one select, same as the teacher's
	// mod_physics.go dispatches PhysicsCommand values.
	TagRoundCommand
)

// RoundPhase names which sub-phase of spec.md §4.5 a TagRoundCommand
// triggers.
type RoundPhase int

const (
	PhaseInternal RoundPhase = iota
	PhaseExternal
	PhasePublish
	PhaseShutdown
)

func (t MessageTag) String() string {
	switch t {
	case TagAgentIDRequest:
		return "AgentIDRequest"
	case TagAgentIDResponse:
		return "AgentIDResponse"
	case TagNewAgent:
		return "NewAgent"
	case TagNewDaughterAgents:
		return "NewDaughterAgents"
	case TagAgentClose:
		return "AgentClose"
	case TagParentalLink:
		return "ParentalLink"
	case TagAABB:
		return "AABB"
	case TagAABBToken:
		return "AABBToken"
	case TagAABBCount:
		return "AABBCount"
	case TagNewTypeHash:
		return "NewTypeHash"
	case TagShadowRequest:
		return "ShadowRequest"
	case TagShadowResponse:
		return "ShadowResponse"
	case TagRenderRequest:
		return "RenderRequest"
	case TagDebugFlags:
		return "DebugFlags"
	case TagBarrier:
		return "Barrier"
	case TagAck:
		return "Ack"
	case TagException:
		return "Exception"
	default:
		return "unknown"
	}
}

// Envelope is the single wire-format struct every message uses, per
// spec.md §6: a tag plus whichever fields that tag's payload needs. A
// union-by-fields struct was chosen over per-tag channel types because the
// Director's responder loop (§4.5, "the Director's responder loop handles
// every message type") dispatches on Tag through one select, the way the
// teacher's mod_physics.go dispatches PhysicsCommand values through one
// command channel.
type Envelope struct {
	Tag  MessageTag
	From int // sending FO id, 0 = Director

	AgentID   int
	OwnerFO   int
	ParentID  int
	ChildIDs  [2]int
	TrackedForCTC bool

	AABB embryogen.NamedAABB

	TypeHash uint64
	TypeName string

	// ShadowRequestID correlates a TagShadowRequest with its
	// TagShadowResponse, the way the teacher's asset_vox_model.go tags
	// asset handles with a generated id.
	ShadowRequestID uuid.UUID
	ShadowGeometry  *geometry.Geometry

	RoundEndsInSnapshot bool
	DebugFlags          int
	Phase               RoundPhase
	Frame               int

	Exception string

	// Reply carries the channel a request-shaped message expects its
	// response delivered on; nil for fire-and-forget messages.
	Reply chan Envelope
}

// OwnerID implements spec.md §4.5's deterministic partitioning rule:
// ownerId(agentId) = ((agentId-1) mod P) + 1, FO ids numbered from 1.
func OwnerID(agentID, numFO int) int {
	if numFO <= 0 {
		numFO = 1
	}
	return ((agentID - 1) % numFO) + 1
}
