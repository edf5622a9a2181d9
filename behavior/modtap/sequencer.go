package modtap

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/modtap/behavior"
)

// TapDelay is the pause between each step of the tap sequence.
const TapDelay = 15 * time.Millisecond

// Sequencer is the behavior driver for one modded hold-tap instance.
type Sequencer struct {
	id       string
	cfg      Config
	bindings BindingTable
	hid      behavior.HID
	sleeper  behavior.Sleeper
	delay    time.Duration
	logger   *slog.Logger

	// held records slots whose hold modifier this instance pressed. It is
	// only used to report press/release state drift, never to gate output.
	heldMu sync.Mutex
	held   map[uint32]bool
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithSleeper replaces the wall-clock sleeper.
func WithSleeper(s behavior.Sleeper) Option {
	return func(q *Sequencer) { q.sleeper = s }
}

// WithTapDelay overrides TapDelay.
func WithTapDelay(d time.Duration) Option {
	return func(q *Sequencer) { q.delay = d }
}

// WithLogger sets the logger used for state drift diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(q *Sequencer) { q.logger = l }
}

// New creates the driver for instance id.
func New(id string, cfg Config, bindings BindingTable, hid behavior.HID, opts ...Option) *Sequencer {
	q := &Sequencer{
		id:       id,
		cfg:      cfg,
		bindings: bindings,
		hid:      hid,
		sleeper:  behavior.WallClock,
		delay:    TapDelay,
		logger:   slog.Default(),
		held:     make(map[uint32]bool),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// ID returns the instance id.
func (q *Sequencer) ID() string { return q.id }

// Config returns the instance configuration.
func (q *Sequencer) Config() Config { return q.cfg }

// Bindings returns the binding table view.
func (q *Sequencer) Bindings() BindingTable { return q.bindings }

// BindingPressed presses the hold modifier when the instance is holding,
// otherwise plays tap-modifier, tap-key, release tap-key, release
// tap-modifier with the tap delay between steps. The tap sequence always
// runs to completion before returning.
func (q *Sequencer) BindingPressed(ev behavior.BindingEvent) behavior.Result {
	b, ok := q.bindings.Binding(ev.Param1)
	if !ok {
		q.logger.Warn("binding slot out of range", "instance", q.id, "param1", ev.Param1, "slots", q.bindings.Len())
		return behavior.NotHandled
	}

	if ev.State == behavior.StateHolding {
		q.hid.Press(b.HoldModifier)
		q.setHeld(ev.Param1, true)
		return behavior.Handled
	}

	q.hid.Press(b.TapModifier)
	q.sleeper.Sleep(q.delay)
	q.hid.Press(b.TapKeycode)
	q.sleeper.Sleep(q.delay)
	q.hid.Release(b.TapKeycode)
	q.sleeper.Sleep(q.delay)
	q.hid.Release(b.TapModifier)
	return behavior.Handled
}

// BindingReleased releases the hold modifier when the instance is holding.
// A tap has already released everything it pressed, so anything else is a no-op.
func (q *Sequencer) BindingReleased(ev behavior.BindingEvent) behavior.Result {
	b, ok := q.bindings.Binding(ev.Param1)
	if !ok {
		q.logger.Warn("binding slot out of range", "instance", q.id, "param1", ev.Param1, "slots", q.bindings.Len())
		return behavior.NotHandled
	}

	wasHeld := q.setHeld(ev.Param1, false)
	if ev.State == behavior.StateHolding {
		if !wasHeld {
			q.logger.Warn("releasing hold modifier that was not pressed by this instance",
				"instance", q.id, "param1", ev.Param1, "key", b.HoldModifier)
		}
		q.hid.Release(b.HoldModifier)
		return behavior.Handled
	}
	if wasHeld {
		q.logger.Warn("hold modifier left pressed: state changed between press and release",
			"instance", q.id, "param1", ev.Param1, "key", b.HoldModifier, "state", ev.State)
	}
	return behavior.Handled
}

// setHeld stores v for slot and returns the previous value.
func (q *Sequencer) setHeld(slot uint32, v bool) bool {
	q.heldMu.Lock()
	defer q.heldMu.Unlock()
	prev := q.held[slot]
	if v {
		q.held[slot] = true
	} else {
		delete(q.held, slot)
	}
	return prev
}
