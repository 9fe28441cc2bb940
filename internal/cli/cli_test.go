package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
)

const stateJSON = `{
	"building": [
		[{"floor":0,"room":0,"is_staircase":true},{"floor":0,"room":1,"has_zombies":true,"sensor_alert":true},{"floor":0,"room":2}],
		[{"floor":1,"room":0,"is_staircase":true},{"floor":1,"room":1},{"floor":1,"room":2}]
	],
	"practicante": {"floor":1,"room":2},
	"turn": 2, "game_over": false, "game_over_reason": null,
	"zombie_generation_enabled": true, "total_rooms": 6, "infested_rooms": 1
}`

type call struct {
	Path string
	Body string
}

// sim serves canned replies per /api/simulation/<endpoint> and records calls.
type sim struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]string
	fail    map[string]bool
}

func newSim(t *testing.T) (*sim, string) {
	t.Helper()
	s := &sim{
		replies: map[string]string{
			"state":                    stateJSON,
			"setup":                    `{"success":true}`,
			"advance":                  `{"turn":3,"new_zombie_generated":true,"new_zombie_location":[0,1]}`,
			"add-zombie":               `{"added":true,"floor":1,"room":1}`,
			"add-practicante":          `{"error":"Ya existe un practicante"}`,
			"clean-room":               `{"cleaned":true}`,
			"reset-sensor":             `{"reset":true}`,
			"toggle-zombie-generation": `{"zombie_generation_enabled":false}`,
			"auto-run":                 `{"auto_running":true}`,
			"reset":                    `{"success":true}`,
		},
		fail: map[string]bool{},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/api/simulation/")
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.calls = append(s.calls, call{Path: name, Body: string(body)})
		reply, ok := s.replies[name]
		failing := s.fail[name]
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case failing:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
		case !ok:
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = io.WriteString(w, reply)
		}
	}))
	t.Cleanup(srv.Close)
	return s, srv.URL + "/api"
}

func (s *sim) called(name string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if c.Path == name {
			out = append(out, c)
		}
	}
	return out
}

// isolate keeps preference files and config env out of the user's home.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("SIM_API_URL", "")
	t.Setenv("DASH_LOG_LEVEL", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log", "error"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestState_RendersBuildingAndStats(t *testing.T) {
	isolate(t)
	_, api := newSim(t)

	out, err := run(t, "state", "--api", api)
	require.NoError(t, err)

	for _, want := range []string{"Piso 2", "Piso 1", "E1", "101", "202", "Turno Actual:", "16.7%", "En Progreso",
		"El practicante se encuentra actualmente en la habitación 202"} {
		assert.Contains(t, out, want)
	}
}

func TestAdvance_PrintsNewZombie(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	out, err := run(t, "advance", "--api", api)
	require.NoError(t, err)
	assert.Contains(t, out, "¡Se ha generado un nuevo zombie en la habitación 101!")
	assert.Len(t, s.called("advance"), 1)
	assert.Len(t, s.called("state"), 2, "initial load and post-action refresh")
}

func TestAdvance_BackendFailure(t *testing.T) {
	isolate(t)
	s, api := newSim(t)
	s.fail["advance"] = true

	_, err := run(t, "advance", "--api", api)
	require.Error(t, err)
	assert.Equal(t, "Error al avanzar turno", err.Error())
}

func TestAddPracticante_SoftErrorIsNotFailure(t *testing.T) {
	isolate(t)
	_, api := newSim(t)

	out, err := run(t, "add-practicante", "--api", api)
	require.NoError(t, err)
	assert.Contains(t, out, "Ya existe un practicante")
}

func TestClean_UsesGivenRoom(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	out, err := run(t, "clean", "--api", api, "--floor", "0", "--room", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "¡La habitación 101 ha sido limpiada!")

	calls := s.called("clean-room")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"floor":0,"room":1}`, calls[0].Body)
}

func TestResetSensor_UnknownRoom(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	_, err := run(t, "reset-sensor", "--api", api, "--floor", "5", "--room", "1")
	assert.ErrorIs(t, err, shell.ErrUnknownRoom)
	assert.Empty(t, s.called("reset-sensor"))
}

func TestSetup_DefaultsAndValidation(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	_, err := run(t, "setup", "--api", api)
	require.NoError(t, err)
	calls := s.called("setup")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"floors":3,"roomsPerFloor":5,"initialZombies":1}`, calls[0].Body)

	_, err = run(t, "setup", "--api", api, "--floors", "11")
	assert.ErrorIs(t, err, view.ErrInvalidSetup)
	assert.Len(t, s.called("setup"), 1)
}

func TestSetup_RemembersLastSetup(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	_, err := run(t, "setup", "--api", api, "--floors", "4", "--rooms", "2", "--zombies", "3")
	require.NoError(t, err)
	_, err = run(t, "setup", "--api", api)
	require.NoError(t, err)

	calls := s.called("setup")
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"floors":4,"roomsPerFloor":2,"initialZombies":3}`, calls[1].Body)
}

func TestSecretWeapon_NeverCallsBackend(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	out, err := run(t, "secret-weapon", "--api", api)
	require.NoError(t, err)
	assert.Contains(t, out, shell.SecretWeaponURL)
	assert.Contains(t, out, "¡Activando arma secreta!")
	assert.Empty(t, s.called("use-secret-weapon"))
}

func TestAutoRun(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	out, err := run(t, "auto-run", "on", "--api", api)
	require.NoError(t, err)
	assert.Contains(t, out, "Ejecución automática activada")
	calls := s.called("auto-run")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"run":true}`, calls[0].Body)

	_, err = run(t, "auto-run", "maybe", "--api", api)
	assert.Error(t, err)
}

func TestWatch_StopsAutoRunOnExit(t *testing.T) {
	isolate(t)
	s, api := newSim(t)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"watch", "--api", api, "--log", "error", "--no-clear"})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, root.ExecuteContext(ctx))

	assert.Contains(t, out.String(), "Turno Actual:")
	calls := s.called("auto-run")
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"run":true}`, calls[0].Body)
	assert.JSONEq(t, `{"run":false}`, calls[1].Body)
}

func TestInvalidAPIURL(t *testing.T) {
	isolate(t)
	_, err := run(t, "state", "--api", "not a url")
	assert.Error(t, err)
}

func TestAPIFlagOverridesInvalidEnvironment(t *testing.T) {
	isolate(t)
	_, api := newSim(t)
	t.Setenv("SIM_API_URL", "not a url")

	out, err := run(t, "state", "--api", api)
	require.NoError(t, err)
	assert.Contains(t, out, "Turno Actual:")
}
