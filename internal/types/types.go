package types

import (
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
	sim "github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

// ClientMessage is sent by websocket clients. Type is an action name
// ("advance", "clean-room", ...) or "select".
type ClientMessage struct {
	Type  string            `json:"type"`
	Floor *int              `json:"floor,omitempty"`
	Room  *int              `json:"room,omitempty"`
	Setup *sim.SetupRequest `json:"setup,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "ViewSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	View    *ViewDocument `json:"view,omitempty"`
	Error   string        `json:"error,omitempty"`
}

const (
	MsgViewSnapshot = "ViewSnapshot"
	MsgError        = "Error"
)

// ViewDocument is everything a client needs to draw the dashboard.
type ViewDocument struct {
	Version    int             `json:"version"`
	NumClients int             `json:"num_clients,omitempty"`
	State      shell.State     `json:"state"`
	Building   []view.FloorRow `json:"building"`
	Controls   view.Controls   `json:"controls"`
	Stats      *view.Stats     `json:"stats"`
}

func NewViewDocument(version int, st shell.State) *ViewDocument {
	return &ViewDocument{
		Version:  version,
		State:    st,
		Building: view.Building(st),
		Controls: view.ControlsFor(st),
		Stats:    view.StatsFor(st.Snapshot),
	}
}

// DocumentFromView also carries the subscriber count.
func DocumentFromView(v shell.View) *ViewDocument {
	doc := NewViewDocument(v.Version, v.State)
	doc.NumClients = v.NumClients
	return doc
}

func Snapshot(u shell.Update) ServerMessage {
	return ServerMessage{Type: MsgViewSnapshot, Version: u.Version, View: NewViewDocument(u.Version, u.State)}
}

func Error(msg string) ServerMessage {
	return ServerMessage{Type: MsgError, Error: msg}
}

// Command maps a client message onto a shell command.
func (m ClientMessage) Command() (shell.Command, bool) {
	a, ok := shell.ParseAction(m.Type)
	if !ok {
		return shell.Command{}, false
	}
	cmd := shell.Command{Action: a}

	switch a {
	case shell.ActSelect:
		if m.Floor == nil || m.Room == nil {
			return shell.Command{}, false
		}
		cmd.Position = &sim.Position{Floor: *m.Floor, Room: *m.Room}
	case shell.ActSetup:
		if m.Setup == nil {
			return shell.Command{}, false
		}
		req := view.Clamp(*m.Setup)
		cmd.Setup = &req
	}
	return cmd, true
}
