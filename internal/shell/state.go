package shell

import (
	"errors"

	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

var ErrNoSelection = errors.New("no room selected")
var ErrUnknownRoom = errors.New("room not in snapshot")
var ErrUnsupportedAction = errors.New("unsupported action")
var ErrClosed = errors.New("shell closed")

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Show     bool     `json:"show"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// State is the dashboard's UI state. Values are never mutated in place; every
// change goes through Apply. Snapshot is shared between states and read-only.
type State struct {
	Snapshot     *types.Snapshot `json:"snapshot"`
	Loading      bool            `json:"loading"`
	Error        string          `json:"error,omitempty"`
	AutoRunning  bool            `json:"auto_running"`
	Selected     *types.Position `json:"selected_room"`
	Notification Notification    `json:"notification"`
	Redirect     string          `json:"redirect,omitempty"`
	RedirectSeq  int             `json:"redirect_seq"` // bumped once per requested redirect
}

func NewState() State {
	return State{Notification: Notification{Severity: SeverityInfo}}
}

type Action string

const (
	ActRefresh                Action = "refresh"
	ActSetup                  Action = "setup"
	ActAdvance                Action = "advance"
	ActAddZombie              Action = "add-zombie"
	ActAddPracticante         Action = "add-practicante"
	ActSelect                 Action = "select"
	ActCleanRoom              Action = "clean-room"
	ActResetSensor            Action = "reset-sensor"
	ActToggleZombieGeneration Action = "toggle-zombie-generation"
	ActSecretWeapon           Action = "secret-weapon"
	ActAutoRun                Action = "auto-run"
	ActReset                  Action = "reset"
	ActCloseNotification      Action = "close-notification"
)

// Actions lists every action a client may request.
var Actions = []Action{
	ActRefresh, ActSetup, ActAdvance, ActAddZombie, ActAddPracticante, ActSelect,
	ActCleanRoom, ActResetSensor, ActToggleZombieGeneration, ActSecretWeapon,
	ActAutoRun, ActReset, ActCloseNotification,
}

func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// Command is a user intent. Setup is read by ActSetup, Position by ActSelect.
type Command struct {
	Action   Action
	Setup    *types.SetupRequest
	Position *types.Position
}

type EventType string

const (
	EvtSnapshotLoaded     EventType = "SnapshotLoaded"
	EvtFetchFailed        EventType = "FetchFailed"
	EvtActionFailed       EventType = "ActionFailed"
	EvtNotified           EventType = "Notified"
	EvtNotificationClosed EventType = "NotificationClosed"
	EvtRoomSelected       EventType = "RoomSelected"
	EvtAutoRunChanged     EventType = "AutoRunChanged"
	EvtLoadingChanged     EventType = "LoadingChanged"
	EvtRedirectRequested  EventType = "RedirectRequested"
)

// Event is a resolved outcome. Only the fields of its Type are read.
type Event struct {
	Type     EventType
	Snapshot *types.Snapshot
	Message  string
	Severity Severity
	Position types.Position
	On       bool
}
