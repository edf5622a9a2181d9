// Package keyboard provides the HID keyboard report buffer that behaviors
// press and release keys on, with full N-key rollover.
package keyboard

import (
	"log/slog"
	"sync"
)

// ReportSink receives every report the keyboard produces.
type ReportSink interface {
	WriteReport(st InputState) error
}

// SinkFunc adapts a function to ReportSink.
type SinkFunc func(st InputState) error

func (f SinkFunc) WriteReport(st InputState) error { return f(st) }

// Keyboard holds the current HID report and forwards a copy of it to the
// attached sinks after every press or release.
type Keyboard struct {
	stateMu sync.Mutex
	state   InputState
	sinks   []ReportSink
	logger  *slog.Logger
}

// New returns a Keyboard with all keys released.
func New(logger *slog.Logger, sinks ...ReportSink) *Keyboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyboard{sinks: sinks, logger: logger}
}

// AddSink attaches another report consumer.
func (k *Keyboard) AddSink(s ReportSink) {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	k.sinks = append(k.sinks, s)
}

// Press marks code as down and flushes the report.
func (k *Keyboard) Press(code KeyCode) {
	k.update(func(st *InputState) { st.Press(code) })
}

// Release marks code as up and flushes the report.
func (k *Keyboard) Release(code KeyCode) {
	k.update(func(st *InputState) { st.Release(code) })
}

// State returns a copy of the current report state (thread-safe).
func (k *Keyboard) State() InputState {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	return k.state
}

// Reset releases every key and flushes the empty report.
func (k *Keyboard) Reset() {
	k.update(func(st *InputState) { *st = InputState{} })
}

// update applies fn and hands the new report to the sinks. Sink errors
// are logged and dropped; HID writes are fire-and-forget for callers.
func (k *Keyboard) update(fn func(st *InputState)) {
	k.stateMu.Lock()
	fn(&k.state)
	st := k.state
	sinks := append([]ReportSink(nil), k.sinks...)
	k.stateMu.Unlock()

	for _, s := range sinks {
		if err := s.WriteReport(st); err != nil {
			k.logger.Debug("failed to write HID report", "error", err)
		}
	}
}
