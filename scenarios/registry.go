// Package scenarios implements the six named integration scenarios of
// spec.md §8 as registered, runnable builders, grounded on the
// corresponding original_source/src/Scenarios/Scenario_*.cpp files and on
// the teacher's mod_presets.go preset-registration idiom (a named builder
// function registered by string key, looked up by cmd/embryogen's CLI).
package scenarios

import "sort"

// Func builds and runs one scenario, writing any image/lineage output
// under outDir, and returns a human-readable summary line for the CLI.
type Func func(outDir string) (string, error)

var registry = map[string]Func{}

// Register adds a scenario under name. Scenario files call this from an
// init() func, per spec.md §6's "scenario name matched case-sensitively
// against a registered list".
func Register(name string, fn Func) {
	registry[name] = fn
}

// Lookup returns the scenario registered under name, if any.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns every registered scenario name, sorted, for the CLI's
// "unknown scenario, here is the list" error path.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
