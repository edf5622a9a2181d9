// Package behavior defines the calling convention between the keymap host
// and behavior drivers: binding events, the handled/not-handled result,
// and the HID and timing capabilities a driver is given.
package behavior

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alia5/modtap/device/keyboard"
)

// Result tells the host whether a driver consumed the event.
type Result int

const (
	// Handled means the driver fully owns the key effect; the host must not
	// translate the raw binding any further.
	Handled Result = iota
	// NotHandled leaves the event to the host.
	NotHandled
)

func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case NotHandled:
		return "not-handled"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// State is the hold-tap decision for an instance as tracked by the
// upstream decision engine. Drivers sample it, they never change it.
type State int

const (
	StateIdle State = iota
	StateHolding
	StateTapping
)

var stateNames = map[State]string{
	StateIdle:    "idle",
	StateHolding: "holding",
	StateTapping: "tapping",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState parses "idle", "holding" or "tapping" (case-insensitive).
// "hold" and "tap" are accepted as short forms.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return StateIdle, nil
	case "holding", "hold":
		return StateHolding, nil
	case "tapping", "tap":
		return StateTapping, nil
	}
	return 0, fmt.Errorf("unknown state %q (expected idle, holding or tapping)", s)
}

// BindingEvent is what the host passes to a driver on press and release.
type BindingEvent struct {
	// Instance is the registry id of the behavior instance.
	Instance string
	// Position is the key position that triggered the binding.
	Position uint32
	// Param1 selects the slot in the instance's binding table.
	Param1 uint32
	// State is the instance state sampled when the event was raised.
	State State
	// Timestamp of the underlying key event.
	Timestamp time.Time
}

// Driver is implemented by every behavior. The host calls it from a
// single dispatch goroutine, never concurrently for the same instance.
type Driver interface {
	BindingPressed(ev BindingEvent) Result
	BindingReleased(ev BindingEvent) Result
}

// HID is the report layer a driver presses and releases keys on.
// Calls are fire-and-forget.
type HID interface {
	Press(code keyboard.KeyCode)
	Release(code keyboard.KeyCode)
}

// Sleeper blocks the calling goroutine for d.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(d time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// WallClock sleeps on the real clock.
var WallClock Sleeper = SleeperFunc(time.Sleep)
