// Package script reads key event scripts and replays them through a
// behavior dispatcher.
//
// One step per line, '#' starts a comment:
//
//	press   <instance> <slot> <idle|holding|tapping> [position]
//	release <instance> <slot> <idle|holding|tapping> [position]
//	wait    <duration>
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/Alia5/modtap/behavior"
)

// Step is a single script line.
type Step struct {
	Line  int
	Wait  time.Duration
	Event *behavior.Event
}

// Parse reads every step from r.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields, err := shlex.Split(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(fields) == 0 {
			continue
		}
		st, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		st.Line = line
		steps = append(steps, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

func parseFields(f []string) (Step, error) {
	switch verb := strings.ToLower(f[0]); verb {
	case "wait", "sleep":
		if len(f) != 2 {
			return Step{}, fmt.Errorf("usage: wait <duration>")
		}
		d, err := time.ParseDuration(f[1])
		if err != nil {
			return Step{}, fmt.Errorf("wait: %w", err)
		}
		if d < 0 {
			return Step{}, fmt.Errorf("wait: negative duration %s", d)
		}
		return Step{Wait: d}, nil

	case "press", "release":
		if len(f) < 4 || len(f) > 5 {
			return Step{}, fmt.Errorf("usage: %s <instance> <slot> <state> [position]", verb)
		}
		slot, err := strconv.ParseUint(f[2], 10, 32)
		if err != nil {
			return Step{}, fmt.Errorf("%s: slot: %w", verb, err)
		}
		state, err := behavior.ParseState(f[3])
		if err != nil {
			return Step{}, fmt.Errorf("%s: %w", verb, err)
		}
		ev := behavior.Event{
			Pressed: verb == "press",
			Binding: behavior.BindingEvent{Instance: f[1], Param1: uint32(slot), State: state},
		}
		if len(f) == 5 {
			pos, err := strconv.ParseUint(f[4], 10, 32)
			if err != nil {
				return Step{}, fmt.Errorf("%s: position: %w", verb, err)
			}
			ev.Binding.Position = uint32(pos)
		}
		return Step{Event: &ev}, nil

	default:
		return Step{}, fmt.Errorf("unknown step %q", f[0])
	}
}

// Play enqueues the events in order and pauses for wait steps.
// Timestamps are stamped from start plus the accumulated waits.
func Play(ctx context.Context, d *behavior.Dispatcher, steps []Step, sleeper behavior.Sleeper, start time.Time) error {
	if sleeper == nil {
		sleeper = behavior.WallClock
	}
	at := start
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.Event == nil {
			sleeper.Sleep(st.Wait)
			at = at.Add(st.Wait)
			continue
		}
		ev := *st.Event
		ev.Binding.Timestamp = at
		if err := d.Enqueue(ctx, ev); err != nil {
			return fmt.Errorf("line %d: %w", st.Line, err)
		}
	}
	return nil
}
