package embryogen

import "hash/fnv"

// HashString computes the public 64-bit identifier for an agent-type string,
// per spec.md §3's "Strings dictionary". It is unseeded FNV-1a, so the same
// string always hashes to the same id, in every process and every run;
// the hash is the public wire identifier for agent types (spec.md §3, §6).
func HashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// StringsDict is an incrementally growing map from a 64-bit hash to the
// string it was computed from. Grounded on original_source/src/util/strings.h:
// entries are split into a synced half (safe to have been broadcast to
// peers) and a pending half (known locally, not yet broadcast). Strings are
// never removed; re-adding an existing string is a no-op.
type StringsDict struct {
	synced  map[uint64]string
	pending map[uint64]string
}

func NewStringsDict() *StringsDict {
	return &StringsDict{
		synced:  make(map[uint64]string),
		pending: make(map[uint64]string),
	}
}

// Add registers s if unknown, placing it in the pending half, and returns
// its hash. A no-op if the string is already known (synced or pending).
func (d *StringsDict) Add(s string) uint64 {
	h := HashString(s)
	if _, ok := d.synced[h]; ok {
		return h
	}
	if _, ok := d.pending[h]; ok {
		return h
	}
	d.pending[h] = s
	return h
}

// Lookup returns the string for a hash, searching both halves.
func (d *StringsDict) Lookup(hash uint64) (string, bool) {
	if s, ok := d.synced[hash]; ok {
		return s, true
	}
	s, ok := d.pending[hash]
	return s, ok
}

// Has reports whether the hash is known at all (synced or pending).
func (d *StringsDict) Has(hash uint64) bool {
	_, ok := d.Lookup(hash)
	return ok
}

// PendingEntries returns, and does not remove, every (hash,string) pair
// that has not yet been broadcast. The caller is expected to broadcast them
// and then call MarkSynced.
func (d *StringsDict) PendingEntries() map[uint64]string {
	out := make(map[uint64]string, len(d.pending))
	for h, s := range d.pending {
		out[h] = s
	}
	return out
}

// MarkSynced moves an entry from pending to synced once it has actually
// been broadcast to every peer (§5: "cross-process consistency is
// guaranteed only for entries that have been broadcast at least once").
func (d *StringsDict) MarkSynced(hash uint64) {
	if s, ok := d.pending[hash]; ok {
		delete(d.pending, hash)
		d.synced[hash] = s
	}
}

// Merge absorbs a (hash,string) pair learned from a peer's broadcast
// directly into the synced half: by definition, a string we received over
// the wire has already been broadcast by its originator.
func (d *StringsDict) Merge(hash uint64, s string) {
	if _, ok := d.synced[hash]; ok {
		return
	}
	delete(d.pending, hash)
	d.synced[hash] = s
}
