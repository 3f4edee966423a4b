package sched

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/agent"
	"github.com/embryogen/embryogen/geometry"
	"github.com/embryogen/embryogen/spatialindex"
	"github.com/google/uuid"
)

// ManagedAgent is what a FrontOfficer needs from an owned agent: the
// force/integration pipeline (agent.ForceHost) plus the identity and
// geometry accessors needed for AABB broadcast, lifecycle and shadow
// fetch. NucleusAgent, its NS/4S variants and TrajectoryHinterAgent
// satisfy it (the accessors by promotion from the embedded agent.Agent);
// Boundary2DAgent does not, since it does not implement agent.ForceHost.
type ManagedAgent interface {
	agent.ForceHost
	GetID() int
	IsDead() bool
	ExposedGeometry() *geometry.Geometry
	GetTypeName() string
	GetTypeHash() uint64
}

// FrontOfficer owns a fixed, disjoint subset of agents and runs the
// force/integration/rasterisation pipeline over them each round, per
// spec.md §4.5. It communicates with the Director and its peer FOs only
// through Inbox, matching §5's "suspension points: only during message
// I/O" — every compute-heavy step below runs synchronously in the FO's own
// goroutine.
type FrontOfficer struct {
	ID    int
	NumFO int

	Inbox      chan Envelope
	toDirector chan Envelope
	peers      map[int]chan Envelope // other FO ids -> their Inbox

	order  []int // deterministic agent processing order, insertion order
	agents map[int]ManagedAgent

	// knownAABBs accumulates every agent's last-broadcast AABB, including
	// this FO's own, rebuilt fresh each exchange per spec.md §3's "short
	// lived, rebuilt every round" rule.
	knownAABBs map[int]embryogen.NamedAABB
	ownerOf    map[int]int

	Grid   *spatialindex.Grid
	Dict   *embryogen.StringsDict
	RNG    *rand.Rand
	Cfg    embryogen.Config
	Logger embryogen.Logger

	// RenderFn, if set, is invoked at the end of every round's publish
	// phase to let a scenario drive per-FO rasterisation (spec.md §4.6)
	// without the sched package importing raster/texture itself.
	RenderFn func(fo *FrontOfficer, frame int, snapshot bool)

	done chan struct{}
}

// NewFrontOfficer constructs an FO with its own RNG stream, per spec.md
// §5: "each FO owns a distinct RNG stream".
func NewFrontOfficer(id, numFO int, toDirector chan Envelope, cfg embryogen.Config, logger embryogen.Logger) *FrontOfficer {
	return &FrontOfficer{
		ID:         id,
		NumFO:      numFO,
		Inbox:      make(chan Envelope, 256),
		toDirector: toDirector,
		peers:      make(map[int]chan Envelope),
		agents:     make(map[int]ManagedAgent),
		knownAABBs: make(map[int]embryogen.NamedAABB),
		ownerOf:    make(map[int]int),
		Grid:       spatialindex.NewGrid(cfg.SceneMin, cfg.SceneMax, cfg.IgnoreDistance),
		Dict:       embryogen.NewStringsDict(),
		RNG:        rand.New(rand.NewSource(int64(id)*2654435761 + cfg.RNGSeed)),
		Cfg:        cfg,
		Logger:     logger,
		done:       make(chan struct{}),
	}
}

// ConnectPeer registers another FO's inbox for the round-robin AABB
// exchange and on-demand shadow-copy fetch.
func (fo *FrontOfficer) ConnectPeer(id int, inbox chan Envelope) {
	fo.peers[id] = inbox
}

// AddAgent registers a newly created agent, preserving insertion order per
// spec.md §5's "within one FO, agents are advanced in a deterministic
// insertion order".
func (fo *FrontOfficer) AddAgent(a ManagedAgent) {
	id := a.GetID()
	if _, exists := fo.agents[id]; !exists {
		fo.order = append(fo.order, id)
	}
	fo.agents[id] = a
	fo.Dict.Add(a.GetTypeName())
	fo.ownerOf[id] = fo.ID
}

// HasAgent reports whether id is still owned and alive on this FO, for
// scenario code observing removal without needing its own bookkeeping.
func (fo *FrontOfficer) HasAgent(id int) bool {
	_, ok := fo.agents[id]
	return ok
}

// Run is the FO's main goroutine loop: it processes Inbox until told to
// shut down. All round work happens synchronously inline with message
// handling, so only the Inbox channel itself can block the goroutine.
func (fo *FrontOfficer) Run() {
	defer close(fo.done)
	for env := range fo.Inbox {
		switch env.Tag {
		case TagRoundCommand:
			fo.handleRoundCommand(env)
			if env.Phase == PhaseShutdown {
				return
			}
		case TagAABB:
			fo.recordAABB(env)
		case TagAABBToken:
			fo.runExchangeHop(env)
		case TagShadowRequest:
			fo.answerShadowRequest(env)
		case TagNewTypeHash:
			fo.Dict.Merge(env.TypeHash, env.TypeName)
		case TagException:
			fo.Logger.Errorf("peer exception received: %s", env.Exception)
			panic(env.Exception)
		default:
			fo.Logger.Warnf("unhandled message tag %s", env.Tag)
		}
	}
}

func (fo *FrontOfficer) handleRoundCommand(env Envelope) {
	switch env.Phase {
	case PhaseInternal:
		fo.runInternalPipeline()
	case PhaseExternal:
		fo.runExternalPipeline()
	case PhasePublish:
		fo.publish(env.Frame, env.RoundEndsInSnapshot)
	case PhaseShutdown:
		// nothing further; Run() returns after this call.
	}
	fo.toDirector <- Envelope{Tag: TagAck, From: fo.ID, Phase: env.Phase}
}

func (fo *FrontOfficer) runInternalPipeline() {
	// AABBs are short-lived and rebuilt every round (spec.md §3); seed the
	// grid/known map with this FO's own agents before the first exchange
	// broadcasts them out and other FOs' AABBs start arriving.
	fo.Grid.Clear()
	fo.knownAABBs = make(map[int]embryogen.NamedAABB)
	for _, box := range fo.ownAABBs() {
		fo.knownAABBs[box.AgentID] = box
		fo.Grid.InsertAABB(box.AgentID, box.AABB)
	}

	for _, id := range fo.order {
		a := fo.agents[id]
		a.AdvanceAndBuildIntForces(fo.Cfg.TimeStep)
		a.AdjustGeometryByIntForces(fo.Cfg.TimeStep)
	}
}

func (fo *FrontOfficer) runExternalPipeline() {
	for _, id := range fo.order {
		a := fo.agents[id]
		neighbours := fo.collectNeighbours(id, a)
		a.CollectExtForces(neighbours, fo.Logger)
		a.AdjustGeometryByExtForces(fo.Cfg.TimeStep)
	}
}

// collectNeighbours gathers ExternalGeometry for every agent whose known
// AABB lies within reach, fetching a live shadow copy on demand from the
// owning FO (spec.md §4.5's "on-demand geometry fetch"), or reading the
// geometry directly when the neighbour is locally owned. The candidate set
// comes from a spec.md §4.2 step 3 spatial-index query ("query the spatial
// index for AABBs whose distance to this agent's AABB is <=
// ignoreDistance"), narrowed against knownAABBs for the true-AABB
// intersection the grid's cell-granular buckets only approximate.
func (fo *FrontOfficer) collectNeighbours(selfID int, self ManagedAgent) []agent.ExternalGeometry {
	box := self.ExposedGeometry().Box
	reach := embryogen.AABB{
		Min: box.Min.Sub(embryogen.V3(fo.Cfg.IgnoreDistance, fo.Cfg.IgnoreDistance, fo.Cfg.IgnoreDistance)),
		Max: box.Max.Add(embryogen.V3(fo.Cfg.IgnoreDistance, fo.Cfg.IgnoreDistance, fo.Cfg.IgnoreDistance)),
	}

	var ids []int
	for _, id := range fo.Grid.QueryAABB(reach) {
		if id == selfID {
			continue
		}
		nb, ok := fo.knownAABBs[id]
		if !ok || !reach.Intersects(nb.AABB) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids) // deterministic order, independent of map/grid iteration

	out := make([]agent.ExternalGeometry, 0, len(ids))
	for _, id := range ids {
		geo := fo.fetchGeometry(id)
		if geo == nil {
			continue
		}
		out = append(out, agent.ExternalGeometry{AgentID: id, Geometry: geo})
	}
	return out
}

func (fo *FrontOfficer) fetchGeometry(id int) *geometry.Geometry {
	if local, ok := fo.agents[id]; ok {
		return local.ExposedGeometry()
	}
	owner := fo.ownerOf[id]
	inbox, ok := fo.peers[owner]
	if !ok {
		fo.Logger.Warnf("no route to owner FO %d for agent %d", owner, id)
		return nil
	}
	reply := make(chan Envelope, 1)
	inbox <- Envelope{
		Tag:             TagShadowRequest,
		From:            fo.ID,
		AgentID:         id,
		ShadowRequestID: uuid.New(),
		Reply:           reply,
	}
	// Keep answering peers' shadow requests while waiting, so two FOs that
	// fetch from each other in the same phase do not block each other.
	for {
		select {
		case resp := <-reply:
			return resp.ShadowGeometry
		case env, ok := <-fo.Inbox:
			if !ok {
				return nil
			}
			if env.Tag == TagShadowRequest {
				fo.answerShadowRequest(env)
			} else {
				fo.Logger.Warnf("message tag %s ignored while awaiting shadow copy", env.Tag)
			}
		}
	}
}

func (fo *FrontOfficer) answerShadowRequest(env Envelope) {
	a, ok := fo.agents[env.AgentID]
	resp := Envelope{
		Tag:             TagShadowResponse,
		From:            fo.ID,
		AgentID:         env.AgentID,
		ShadowRequestID: env.ShadowRequestID,
	}
	if ok {
		resp.ShadowGeometry = a.ExposedGeometry()
	}
	env.Reply <- resp
}

// publish commits every owned agent's future geometry, reports deaths to
// the Director, and invokes RenderFn if the scenario installed one.
func (fo *FrontOfficer) publish(frame int, snapshot bool) {
	for i := 0; i < len(fo.order); {
		id := fo.order[i]
		a := fo.agents[id]
		a.PublishGeometry()
		if a.IsDead() {
			fo.toDirector <- Envelope{Tag: TagAgentClose, From: fo.ID, AgentID: id}
			delete(fo.agents, id)
			fo.order = append(fo.order[:i], fo.order[i+1:]...)
			continue
		}
		i++
	}
	if fo.RenderFn != nil {
		fo.RenderFn(fo, frame, snapshot)
	}
}

// recordAABB absorbs one broadcast AABB envelope: the sender (env.From) is
// by construction the owning FO, since a FO only ever broadcasts AABBs for
// agents it owns.
func (fo *FrontOfficer) recordAABB(env Envelope) {
	fo.knownAABBs[env.AABB.AgentID] = env.AABB
	fo.ownerOf[env.AABB.AgentID] = env.From
	fo.Grid.InsertAABB(env.AABB.AgentID, env.AABB.AABB)
}

func (fo *FrontOfficer) ownAABBs() []embryogen.NamedAABB {
	out := make([]embryogen.NamedAABB, 0, len(fo.order))
	for _, id := range fo.order {
		a := fo.agents[id]
		g := a.ExposedGeometry()
		out = append(out, embryogen.NamedAABB{
			AABB:          g.Box,
			AgentID:       id,
			AgentTypeHash: a.GetTypeHash(),
			GeometryVer:   g.Version,
		})
	}
	return out
}

func (fo *FrontOfficer) String() string { return fmt.Sprintf("fo-%d", fo.ID) }
