package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/hub"
	"github.com/DoyleJ11/zombie-dashboard/internal/journal"
	"github.com/DoyleJ11/zombie-dashboard/internal/prefs"
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/types"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
	sim "github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

const defaultJournalLimit = 20

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateSession(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to generate code")
				return
			}
			_, err = h.Get(r.Context(), c)
			if errors.Is(err, hub.ErrSessionNotFound) {
				code = c
				break
			}
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			log.Debug("collision on code, regenerating", zap.String("code", c))
		}

		if _, err := h.Ensure(r.Context(), code); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, ok := session(w, r, h)
		if !ok {
			return
		}
		v, err := sh.View(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, types.DocumentFromView(v))
	}
}

// PostAction queues one dashboard action. The result shows up in the view.
func PostAction(h *hub.Hub, p *prefs.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := shell.ParseAction(chi.URLParam(r, "action"))
		if !ok || a == shell.ActSelect {
			writeError(w, http.StatusNotFound, "unknown action")
			return
		}
		sh, ok := session(w, r, h)
		if !ok {
			return
		}

		cmd := shell.Command{Action: a}
		if a == shell.ActSetup {
			req := p.Setup()
			if err := decodeOptional(r.Body, &req); err != nil {
				writeError(w, http.StatusBadRequest, "bad json")
				return
			}
			req = view.Clamp(req)
			cmd.Setup = &req
			if err := p.Save(req); err != nil {
				log.Warn("failed to save setup preferences", zap.Error(err))
			}
		}

		accept(w, r, sh, cmd)
	}
}

func Select(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, ok := session(w, r, h)
		if !ok {
			return
		}
		var pos sim.Position
		if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		accept(w, r, sh, shell.Command{Action: shell.ActSelect, Position: &pos})
	}
}

func Journal(j journal.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultJournalLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad limit")
				return
			}
			limit = n
		}

		entries, err := j.Recent(r.Context(), chi.URLParam(r, "code"), limit)
		if errors.Is(err, journal.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read journal")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func session(w http.ResponseWriter, r *http.Request, h *hub.Hub) (*shell.Shell, bool) {
	sh, err := h.Get(r.Context(), chi.URLParam(r, "code"))
	switch {
	case errors.Is(err, hub.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	}
	return sh, true
}

func accept(w http.ResponseWriter, r *http.Request, sh *shell.Shell, cmd shell.Command) {
	if err := sh.Send(r.Context(), cmd); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		Action shell.Action `json:"action"`
	}{Action: cmd.Action})
}

// decodeOptional leaves v untouched when the body is empty.
func decodeOptional(body io.Reader, v any) error {
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
