package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Console drives spec.md §6's single-character interactive prompt: after
// every snapshot the simulator reads one key from stdin — Q quits, H
// prints help, E is a no-op, D toggles debug rendering, I/V/W switch
// console/visual/both inspection modes on or off, and P reads a
// millisecond delay to use once stdin stops being interactive. Hitting
// EOF on stdin is itself the signal to fall back to non-interactive
// mode with that delay between snapshots, matching
// original_source/src/sim_main.cpp's getchar() driven key loop.
//
// The scenarios in this repo run to completion in a single call rather
// than exposing a hook after each round, so RunAfterSnapshot is invoked
// once per scenario run, against its one terminal snapshot, rather than
// once per Director round.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	interactive         bool
	debugRendering      bool
	consoleInspect      bool
	visualInspect       bool
	nonInteractiveDelay time.Duration
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:                  bufio.NewReader(in),
		out:                 out,
		interactive:         true,
		nonInteractiveDelay: 200 * time.Millisecond,
	}
}

func (c *Console) RunAfterSnapshot() {
	for c.interactive {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if line == "" && err != nil {
			c.interactive = false
			fmt.Fprintf(c.out, "stdin closed, switching to non-interactive mode (delay %s)\n", c.nonInteractiveDelay)
			return
		}

		key := strings.ToUpper(strings.TrimSpace(line))
		if key == "" {
			if err != nil {
				return
			}
			continue
		}

		switch key[0] {
		case 'Q':
			return
		case 'H':
			c.printHelp()
		case 'E':
			// deliberate no-op
		case 'D':
			c.debugRendering = !c.debugRendering
			fmt.Fprintf(c.out, "debug rendering: %v\n", c.debugRendering)
		case 'I':
			c.consoleInspect = !c.consoleInspect
			fmt.Fprintf(c.out, "console inspection: %v\n", c.consoleInspect)
		case 'V':
			c.visualInspect = !c.visualInspect
			fmt.Fprintf(c.out, "visual inspection: %v\n", c.visualInspect)
		case 'W':
			c.consoleInspect = !c.consoleInspect
			c.visualInspect = !c.visualInspect
			fmt.Fprintf(c.out, "console inspection: %v, visual inspection: %v\n", c.consoleInspect, c.visualInspect)
		case 'P':
			c.readDelay(key)
		default:
			fmt.Fprintf(c.out, "unrecognised key %q, H for help\n", key)
		}

		if err != nil {
			return
		}
	}
}

func (c *Console) readDelay(key string) {
	fields := strings.Fields(key)
	if len(fields) > 1 {
		if ms, err := strconv.Atoi(fields[1]); err == nil && ms >= 0 {
			c.nonInteractiveDelay = time.Duration(ms) * time.Millisecond
			fmt.Fprintf(c.out, "non-interactive delay set to %s\n", c.nonInteractiveDelay)
			return
		}
	}
	fmt.Fprintln(c.out, "usage: P <milliseconds>")
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "keys: Q quit, H help, E no-op, D toggle debug rendering, "+
		"I toggle console inspection, V toggle visual inspection, W toggle both, "+
		"P <ms> set non-interactive delay\n")
}
