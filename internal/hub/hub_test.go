package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

// stubAPI answers every call with an empty success.
type stubAPI struct{}

func (stubAPI) State(context.Context) (*types.Snapshot, error) { return &types.Snapshot{}, nil }
func (stubAPI) Setup(context.Context, types.SetupRequest) (*types.SetupResult, error) {
	return &types.SetupResult{Success: true}, nil
}
func (stubAPI) Advance(context.Context) (*types.AdvanceResult, error) {
	return &types.AdvanceResult{}, nil
}
func (stubAPI) AddZombie(context.Context) (*types.AddZombieResult, error) {
	return &types.AddZombieResult{}, nil
}
func (stubAPI) AddPracticante(context.Context) (*types.AddPracticanteResult, error) {
	return &types.AddPracticanteResult{}, nil
}
func (stubAPI) CleanRoom(context.Context, types.Position) (*types.CleanRoomResult, error) {
	return &types.CleanRoomResult{}, nil
}
func (stubAPI) ResetSensor(context.Context, types.Position) (*types.ResetSensorResult, error) {
	return &types.ResetSensorResult{}, nil
}
func (stubAPI) ToggleZombieGeneration(context.Context) (*types.ZombieGenerationResult, error) {
	return &types.ZombieGenerationResult{}, nil
}
func (stubAPI) AutoRun(context.Context, bool) (*types.AutoRunResult, error) {
	return &types.AutoRunResult{}, nil
}
func (stubAPI) Reset(context.Context) (*types.Ack, error) { return &types.Ack{Success: true}, nil }

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(context.Background(), func(ctx context.Context, code string, release func(*shell.Shell)) *shell.Shell {
		return shell.New(ctx, stubAPI{}, shell.WithID(code))
	}, nil)
	t.Cleanup(func() { _ = h.Shutdown(context.Background()) })
	return h
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *shell.Shell, 1)

	h.Inbox() <- CreateSession{Code: "ZED123", Reply: reply}
	sh1 := <-reply

	sh2, err := h.Get(context.Background(), "ZED123")
	require.NoError(t, err)

	require.NotNil(t, sh1)
	assert.Same(t, sh1, sh2)
	assert.Equal(t, "ZED123", sh2.ID())
}

func TestHub_GetUnknown(t *testing.T) {
	h := newTestHub(t)

	_, err := h.Get(context.Background(), "NOPE00")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHub_EnsureIsIdempotent(t *testing.T) {
	h := newTestHub(t)

	a, err := h.Ensure(context.Background(), "ABC123")
	require.NoError(t, err)
	b, err := h.Ensure(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestHub_RemoveClosesShell(t *testing.T) {
	h := newTestHub(t)
	sh, err := h.Ensure(context.Background(), "ABC123")
	require.NoError(t, err)

	h.Inbox() <- RemoveSession{Code: "ABC123"}

	select {
	case <-sh.Done():
	case <-time.After(time.Second):
		t.Fatal("shell still running after remove")
	}
	_, err = h.Get(context.Background(), "ABC123")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHub_ShutdownStopsSessions(t *testing.T) {
	h := newTestHub(t)
	sh, err := h.Ensure(context.Background(), "ABC123")
	require.NoError(t, err)

	require.NoError(t, h.Shutdown(context.Background()))

	select {
	case <-sh.Done():
	default:
		t.Fatal("shell still running after shutdown")
	}
	_, err = h.Get(context.Background(), "ABC123")
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestHub_IdleSessionIsRemoved(t *testing.T) {
	h := NewHub(context.Background(), func(ctx context.Context, code string, release func(*shell.Shell)) *shell.Shell {
		return shell.New(ctx, stubAPI{}, shell.WithID(code), shell.WithIdleTimeout(20*time.Millisecond, release))
	}, nil)
	t.Cleanup(func() { _ = h.Shutdown(context.Background()) })

	sh, err := h.Ensure(context.Background(), "IDLE01")
	require.NoError(t, err)

	select {
	case <-sh.Done():
	case <-time.After(time.Second):
		t.Fatal("idle shell still running")
	}
	_, err = h.Get(context.Background(), "IDLE01")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHub_StaleRemoveKeepsNewerSession(t *testing.T) {
	h := newTestHub(t)
	old, err := h.Ensure(context.Background(), "ABC123")
	require.NoError(t, err)

	h.Inbox() <- RemoveSession{Code: "ABC123"}
	<-old.Done()
	fresh, err := h.Ensure(context.Background(), "ABC123")
	require.NoError(t, err)

	h.Inbox() <- RemoveSession{Code: "ABC123", Shell: old}
	got, err := h.Get(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}
