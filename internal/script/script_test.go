package script_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/modtap/behavior"
	"github.com/Alia5/modtap/behavior/modtap"
	"github.com/Alia5/modtap/device/keyboard"
	"github.com/Alia5/modtap/internal/script"
)

const sample = `
# hold ctrl, then tap shift+a
press mht 0 holding 12
wait 250ms
release "mht" 0 holding 12

press mht 0 tapping   # comment after a step
release mht 0 tapping
`

func TestParse(t *testing.T) {
	steps, err := script.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, steps, 5)

	require.NotNil(t, steps[0].Event)
	assert.Equal(t, 3, steps[0].Line)
	assert.True(t, steps[0].Event.Pressed)
	assert.Equal(t, behavior.BindingEvent{Instance: "mht", Position: 12, State: behavior.StateHolding}, steps[0].Event.Binding)

	assert.Nil(t, steps[1].Event)
	assert.Equal(t, 250*time.Millisecond, steps[1].Wait)

	assert.False(t, steps[2].Event.Pressed)
	assert.Equal(t, "mht", steps[2].Event.Binding.Instance)
	assert.Equal(t, behavior.StateTapping, steps[3].Event.Binding.State)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		errSubstr string
	}{
		{name: "unknown verb", in: "tap mht 0 holding", errSubstr: "line 1: unknown step"},
		{name: "missing state", in: "press mht 0", errSubstr: "usage: press"},
		{name: "bad slot", in: "press mht x holding", errSubstr: "slot"},
		{name: "bad state", in: "release mht 0 pressed", errSubstr: "unknown state"},
		{name: "bad wait", in: "\nwait soon", errSubstr: "line 2: wait"},
		{name: "negative wait", in: "wait -5ms", errSubstr: "negative"},
		{name: "unterminated quote", in: `press "mht 0 holding`, errSubstr: "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestPlay(t *testing.T) {
	steps, err := script.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	var reports []keyboard.InputState
	kb := keyboard.New(nil, keyboard.SinkFunc(func(st keyboard.InputState) error {
		reports = append(reports, st)
		return nil
	}))
	noSleep := behavior.SleeperFunc(func(time.Duration) {})
	reg := behavior.NewRegistry()
	require.NoError(t, reg.Register("mht", modtap.New("mht", modtap.DefaultConfig(), modtap.Bindings{
		{HoldModifier: keyboard.KeyLeftCtrl, TapModifier: keyboard.KeyLeftShift, TapKeycode: keyboard.KeyA},
	}, kb, modtap.WithSleeper(noSleep))))

	disp := behavior.NewDispatcher(reg, nil, len(steps))
	var stamps []time.Time
	disp.OnResult = func(ev behavior.Event, res behavior.Result, err error) {
		assert.NoError(t, err)
		assert.Equal(t, behavior.Handled, res)
		stamps = append(stamps, ev.Binding.Timestamp)
	}

	start := time.Unix(1000, 0)
	require.NoError(t, script.Play(context.Background(), disp, steps, noSleep, start))
	disp.Close()
	require.NoError(t, disp.Run(context.Background()))

	// hold press, hold release, then four tap reports
	require.Len(t, reports, 6)
	assert.Equal(t, uint8(keyboard.ModLeftCtrl), reports[0].Modifiers)
	assert.Equal(t, keyboard.InputState{}, reports[1])
	assert.Equal(t, keyboard.InputState{}, reports[5])
	assert.Equal(t, keyboard.InputState{}, kb.State())

	require.Len(t, stamps, 4)
	assert.Equal(t, start, stamps[0])
	assert.Equal(t, start.Add(250*time.Millisecond), stamps[1])
}
