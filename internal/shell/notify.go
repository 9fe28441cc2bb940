package shell

import (
	"fmt"

	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

// Each function below derives the notifications for one action's response.
// soft reports a domain failure carried in a successful response.

func setupNotices(*types.SetupResult) (notes []Notification, soft bool) {
	return []Notification{{Message: msgSetupDone, Severity: SeveritySuccess}}, false
}

// advanceNotices yields a new-zombie warning and then, if the game ended, the
// game over error. Both may fire; the last one is what stays on screen.
func advanceNotices(res *types.AdvanceResult) (notes []Notification, soft bool) {
	if res.Error != "" {
		return []Notification{{Message: res.Error, Severity: SeverityInfo}}, true
	}
	if p, ok := res.NewZombieAt(); ok {
		notes = append(notes, Notification{
			Message:  fmt.Sprintf(msgNewZombie, p.Label()),
			Severity: SeverityWarning,
		})
	}
	if res.GameOver {
		notes = append(notes, Notification{
			Message:  msgGameOverPrefix + GameOverMessage(res.GameOverReason),
			Severity: SeverityError,
		})
	}
	return notes, false
}

func addZombieNotices(res *types.AddZombieResult) (notes []Notification, soft bool) {
	if !res.Added {
		return []Notification{{Message: msgZombieNotAdded, Severity: SeverityInfo}}, true
	}
	p := types.Position{Floor: res.Floor, Room: res.Room}
	return []Notification{{Message: fmt.Sprintf(msgZombieAdded, p.Label()), Severity: SeverityWarning}}, false
}

func addPracticanteNotices(res *types.AddPracticanteResult) (notes []Notification, soft bool) {
	if res.Error != "" {
		return []Notification{{Message: res.Error, Severity: SeverityInfo}}, true
	}
	p := types.Position{Floor: res.Floor, Room: res.Room}
	return []Notification{{Message: fmt.Sprintf(msgPracticanteAdded, p.Label()), Severity: SeveritySuccess}}, false
}

func cleanRoomNotices(p types.Position, res *types.CleanRoomResult) (notes []Notification, soft bool) {
	if !res.Cleaned {
		return []Notification{{Message: orDefault(res.Message, msgRoomNotCleaned), Severity: SeverityInfo}}, true
	}
	return []Notification{{Message: fmt.Sprintf(msgRoomCleaned, p.Label()), Severity: SeveritySuccess}}, false
}

func resetSensorNotices(p types.Position, res *types.ResetSensorResult) (notes []Notification, soft bool) {
	if !res.Reset {
		return []Notification{{Message: orDefault(res.Message, msgSensorNotReset), Severity: SeverityInfo}}, true
	}
	return []Notification{{Message: fmt.Sprintf(msgSensorReset, p.Label()), Severity: SeveritySuccess}}, false
}

func zombieGenerationNotices(res *types.ZombieGenerationResult) (notes []Notification, soft bool) {
	return []Notification{{
		Message:  fmt.Sprintf(msgGenerationToggled, onOff(res.ZombieGenerationEnabled)),
		Severity: SeverityInfo,
	}}, false
}

func autoRunNotices(on bool) []Notification {
	return []Notification{{Message: AutoRunMessage(on), Severity: SeverityInfo}}
}

// AutoRunMessage is the notice shown when auto-run is switched on or off.
func AutoRunMessage(on bool) string {
	return fmt.Sprintf(msgAutoRunToggled, onOff(on))
}

func resetNotices() []Notification {
	return []Notification{{Message: msgSimulationReset, Severity: SeveritySuccess}}
}

func secretWeaponNotices() []Notification {
	return []Notification{{Message: msgSecretWeapon, Severity: SeveritySuccess}}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
