// Command embryogen runs one named integration scenario and writes its
// images and lineage file to disk, per spec.md §6's CLI contract. Grounded
// on original_source/src/Scenarios/common/Scenarios.h's named-scenario
// registry and original_source/src/sim_main.cpp's argv-driven dispatch,
// and on the teacher's mod_presets.go preset-by-name idiom.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/embryogen/embryogen"
	"github.com/embryogen/embryogen/scenarios"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}

func run(args []string, stdout, stderr io.Writer, stdin io.Reader) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: embryogen <scenario-name> [scenario-specific args...]")
		printScenarios(stderr)
		return 1
	}

	name := args[0]
	scenario, ok := scenarios.Lookup(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown scenario %q\n", name)
		printScenarios(stderr)
		return 1
	}

	logger := embryogen.NewDefaultLogger("cli", false)
	outDir := "out/" + name
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Errorf("create output directory %s: %v", outDir, err)
		return 1
	}

	summary, err := runScenario(scenario, outDir)
	if err != nil {
		logger.Errorf("%s: %v", name, err)
		return 1
	}
	fmt.Fprintln(stdout, summary)

	NewConsole(stdin, stdout).RunAfterSnapshot()
	return 0
}

// runScenario converts an uncaught scenario panic into the non-zero exit
// spec.md §6 requires ("exit codes: 0 on normal completion, non-zero on
// any uncaught exception"), matching how sched's Director/FrontOfficer
// convert panics into broadcast exception strings at the process boundary.
func runScenario(scenario scenarios.Func, outDir string) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return scenario(outDir)
}

func printScenarios(w io.Writer) {
	fmt.Fprintln(w, "available scenarios:")
	for _, name := range scenarios.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
