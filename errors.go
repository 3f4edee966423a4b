package embryogen

import "fmt"

// Error taxonomy, per spec.md §7. Fatal errors are ordinary Go errors
// wrapped with fmt.Errorf at each layer, matching the teacher's
// asset_vox_model.go/mod_assets.go wrapping style; in distributed mode the
// Director/FrontOfficer main loop converts a fatal error into the broadcast
// exception string described in §5/§6 (see sched.TagException and
// Envelope.Exception).

// ErrInvalidGeometry is returned by geometry constructors on malformed
// input (negative sphere count, mismatched image sizes for field
// composition, ...). Always fatal: bubbles up and, in distributed mode, is
// broadcast to every FrontOfficer.
func ErrInvalidGeometry(format string, args ...any) error {
	return fmt.Errorf("invalid geometry construction: "+format, args...)
}

// ErrDictionaryMiss is returned by StringsDict.Lookup callers that require
// the string to exist (e.g. resolving an agent-type hash to its name for a
// fatal log line); a missing lookup used only for diagnostics should not
// use this constructor.
func ErrDictionaryMiss(hash uint64) error {
	return fmt.Errorf("no string registered for hash %x", hash)
}

// ErrPendingTypeTimeout is the fatal consistency error of §7: an AABB
// arrived carrying an unknown agent-type hash, and the matching
// (hash,string) pair never arrived by end-of-round.
func ErrPendingTypeTimeout(hash uint64, agentID int) error {
	return fmt.Errorf("agent %d: type hash %x still pending at end of round", agentID, hash)
}

// ErrUnknownScenario formats the error for a scenario name that is not
// registered (§6). scenarios.Lookup reports a miss only through its bool
// result and does not return this error.
func ErrUnknownScenario(name string) error {
	return fmt.Errorf("unknown scenario %q", name)
}
