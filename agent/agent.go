// Package agent implements the simulated cell agents of spec.md §3-§4.4:
// the base Agent, the spheres-based NucleusAgent/NucleusNSAgent physics
// pipeline, the legacy 2-D polar boundary-point agent, the cell-cycle state
// machine, and the trajectory-replaying hinter agent. Grounded on
// original_source/src/Agents/AbstractAgent.h and NucleusAgent.h.
package agent

import (
	"time"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/physics"
)

// Friend is an edge in the short-lived agent ownership graph of spec.md §9:
// agents reference each other by id, not by pointer, and the reference
// expires after a given simulated-time instant.
type Friend struct {
	AgentID  int
	ExpireAt time.Duration // simulated time
}

// Agent is the base type every concrete agent kind embeds, per spec.md §3.
// It is owned by exactly one FrontOfficer; ownership and cross-process
// resolution live in the sched package, never here.
type Agent struct {
	ID       int
	TypeName string
	TypeHash uint64

	Exposed *geometry.Geometry // published geometry, visible to peers
	Future  *geometry.Geometry // in-flight geometry being computed this round

	CurrTime time.Duration
	TimeStep time.Duration

	ShouldDie bool
	Friends   []Friend
}

func NewAgent(id int, typeName string, shape *geometry.Geometry, currTime, timeStep time.Duration) Agent {
	return Agent{
		ID:       id,
		TypeName: typeName,
		TypeHash: embryogen.HashString(typeName),
		Exposed:  shape,
		Future:   shape,
		CurrTime: currTime,
		TimeStep: timeStep,
	}
}

// AddFriend records a short-lived edge to another agent by id, per spec.md
// §9: "friendships carry an expiry time". Resolving a friend id to a live
// Agent is the caller's (FrontOfficer's) job, since that requires the
// agentId->ownerFO map.
func (a *Agent) AddFriend(id int, expireAt time.Duration) {
	for i := range a.Friends {
		if a.Friends[i].AgentID == id {
			a.Friends[i].ExpireAt = expireAt
			return
		}
	}
	a.Friends = append(a.Friends, Friend{AgentID: id, ExpireAt: expireAt})
}

// GetID, IsDead and ExposedGeometry are thin accessors so the scheduler
// can treat any concrete agent kind embedding Agent uniformly through a
// small interface, without exposing every field of Agent itself.
func (a *Agent) GetID() int                          { return a.ID }
func (a *Agent) IsDead() bool                        { return a.ShouldDie }
func (a *Agent) ExposedGeometry() *geometry.Geometry { return a.Exposed }
func (a *Agent) GetTypeName() string                 { return a.TypeName }
func (a *Agent) GetTypeHash() uint64                 { return a.TypeHash }

// PruneExpiredFriends drops friend edges whose expiry has passed.
func (a *Agent) PruneExpiredFriends(now time.Duration) {
	kept := a.Friends[:0]
	for _, f := range a.Friends {
		if f.ExpireAt > now {
			kept = append(kept, f)
		}
	}
	a.Friends = kept
}

// ForceHost is implemented by every concrete agent kind that participates
// in the force/integration pipeline of spec.md §4.2.
type ForceHost interface {
	AdvanceAndBuildIntForces(dt time.Duration)
	AdjustGeometryByIntForces(dt time.Duration)
	CollectExtForces(neighbours []ExternalGeometry, logger embryogen.Logger)
	AdjustGeometryByExtForces(dt time.Duration)
	PublishGeometry()
	Forces() *physics.ForceList
}

// ExternalGeometry is what collectExtForces (spec.md §4.2 step 3) needs
// from a neighbouring agent fetched on demand from its owning FrontOfficer:
// the geometry itself plus enough identity to report hints back.
type ExternalGeometry struct {
	AgentID  int
	Geometry *geometry.Geometry
	Velocity func(sphereIdx int) embryogen.Vec3
}
