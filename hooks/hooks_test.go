package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/scintbase/core"
)

func TestHookManager_DispatchOrder(t *testing.T) {
	m := NewHookManager()

	var order []string
	m.Register(EventTrackBegin, HookListenerFunc(func(_ context.Context, _ HookEvent) error {
		order = append(order, "first")
		return nil
	}))
	m.Register(EventTrackBegin, HookListenerFunc(func(_ context.Context, _ HookEvent) error {
		order = append(order, "second")
		return nil
	}))
	m.Register(EventEndEvent, HookListenerFunc(func(_ context.Context, _ HookEvent) error {
		order = append(order, "unrelated")
		return nil
	}))

	err := m.Trigger(context.Background(), NewTrackBeginEvent(TrackBeginPayload{TrackID: 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestHookManager_PayloadDelivered(t *testing.T) {
	m := NewHookManager()

	var got TrackBeginPayload
	m.Register(EventTrackBegin, HookListenerFunc(func(_ context.Context, ev HookEvent) error {
		var ok bool
		got, ok = ev.Payload().(TrackBeginPayload)
		require.True(t, ok)
		return nil
	}))

	payload := TrackBeginPayload{
		Handle:       core.SpawnHandle(7),
		TrackID:      2,
		ParentID:     1,
		ParticleName: core.OpticalPhotonName,
		Vertex:       core.Vec3{X: 1, Y: 2, Z: 3},
	}
	require.NoError(t, m.Trigger(context.Background(), NewTrackBeginEvent(payload)))
	assert.Equal(t, payload, got)
}

func TestHookManager_ErrorsJoined(t *testing.T) {
	m := NewHookManager()
	errA := errors.New("a failed")
	m.Register(EventEndEvent, HookListenerFunc(func(_ context.Context, _ HookEvent) error {
		return errA
	}))

	var secondRan bool
	m.Register(EventEndEvent, HookListenerFunc(func(_ context.Context, _ HookEvent) error {
		secondRan = true
		return nil
	}))

	err := m.Trigger(context.Background(), NewEndEventEvent(EndEventPayload{EventID: 1}))
	assert.ErrorIs(t, err, errA)
	// A failing listener never suppresses the remaining ones.
	assert.True(t, secondRan)
}
