package sched

// runExchangeHop implements one FO's part of spec.md §4.5's round-robin
// AABB publication: "a named FO (the first) begins broadcasting ... when
// the token returns to the first FO, the exchange is complete". The
// Director starts the ring by sending a TagAABBToken to FO 1 with
// From == 0; the ring visits FOs 1..NumFO in order and closes back on FO
// 1, which recognises the wrap (env.From == NumFO) and signals the
// Director instead of broadcasting again.
//
// Grounded on original_source/src/Communication/DistributedCommunicator.h's
// token-ring broadcast and the teacher's mod_physics.go goroutine pattern,
// generalised from one producer publishing atomic.Pointer snapshots to P
// producers passing an explicit ordered token, since §5 requires "every FO
// sees AABBs in the same relative order per round".
func (fo *FrontOfficer) runExchangeHop(env Envelope) {
	if fo.ID == 1 && env.From == fo.NumFO && fo.NumFO > 1 {
		fo.toDirector <- Envelope{Tag: TagAABBToken, From: fo.ID, Phase: env.Phase}
		return
	}

	fo.broadcastOwnAABBs()

	if fo.NumFO <= 1 {
		fo.toDirector <- Envelope{Tag: TagAABBToken, From: fo.ID, Phase: env.Phase}
		return
	}

	next := fo.ID + 1
	if next > fo.NumFO {
		next = 1
	}
	fo.peers[next] <- Envelope{Tag: TagAABBToken, From: fo.ID, Phase: env.Phase}
}

// broadcastOwnAABBs sends this FO's current agent AABBs to every peer,
// piggy-backing any not-yet-broadcast agent-type strings (spec.md §3,
// §5's "a newly introduced agent type must be broadcast before any other
// FO is allowed to request that agent's geometry").
func (fo *FrontOfficer) broadcastOwnAABBs() {
	boxes := fo.ownAABBs()
	pending := fo.Dict.PendingEntries()

	for _, inbox := range fo.peers {
		for h, s := range pending {
			inbox <- Envelope{Tag: TagNewTypeHash, From: fo.ID, TypeHash: h, TypeName: s}
		}
		for _, box := range boxes {
			inbox <- Envelope{Tag: TagAABB, From: fo.ID, AABB: box}
		}
	}
	for h := range pending {
		fo.Dict.MarkSynced(h)
	}
}
