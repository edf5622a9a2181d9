package behavior_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/modtap/behavior"
)

// slowDriver logs entry and exit so overlapping calls would be visible.
type slowDriver struct {
	mu  sync.Mutex
	log []string
}

func (d *slowDriver) record(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = append(d.log, s)
}

func (d *slowDriver) BindingPressed(ev behavior.BindingEvent) behavior.Result {
	d.record("press-start")
	time.Sleep(20 * time.Millisecond)
	d.record("press-end")
	return behavior.Handled
}

func (d *slowDriver) BindingReleased(ev behavior.BindingEvent) behavior.Result {
	d.record("release")
	return behavior.Handled
}

func TestDispatcher_SerializesEvents(t *testing.T) {
	reg := behavior.NewRegistry()
	d := &slowDriver{}
	require.NoError(t, reg.Register("mht", d))

	disp := behavior.NewDispatcher(reg, nil, 4)
	var results []behavior.Result
	disp.OnResult = func(_ behavior.Event, res behavior.Result, err error) {
		assert.NoError(t, err)
		results = append(results, res)
	}

	done := make(chan error, 1)
	go func() { done <- disp.Run(context.Background()) }()

	ctx := context.Background()
	ev := behavior.BindingEvent{Instance: "mht", State: behavior.StateTapping}
	require.NoError(t, disp.Enqueue(ctx, behavior.Event{Binding: ev, Pressed: true}))
	require.NoError(t, disp.Enqueue(ctx, behavior.Event{Binding: ev, Pressed: false}))
	disp.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not drain")
	}

	assert.Equal(t, []string{"press-start", "press-end", "release"}, d.log)
	assert.Equal(t, []behavior.Result{behavior.Handled, behavior.Handled}, results)
	assert.ErrorIs(t, disp.Enqueue(ctx, behavior.Event{Binding: ev}), behavior.ErrDispatcherClosed)
}

func TestDispatcher_UnknownInstance(t *testing.T) {
	disp := behavior.NewDispatcher(behavior.NewRegistry(), nil, 1)
	var gotErr error
	disp.OnResult = func(_ behavior.Event, _ behavior.Result, err error) { gotErr = err }

	require.NoError(t, disp.Enqueue(context.Background(), behavior.Event{Binding: behavior.BindingEvent{Instance: "x"}, Pressed: true}))
	disp.Close()
	require.NoError(t, disp.Run(context.Background()))
	assert.ErrorIs(t, gotErr, behavior.ErrUnknownInstance)
}

func TestDispatcher_ContextCancel(t *testing.T) {
	disp := behavior.NewDispatcher(behavior.NewRegistry(), nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, disp.Run(ctx), context.Canceled)
}
