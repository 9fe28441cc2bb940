package shell

import "github.com/DoyleJ11/zombie-dashboard/pkg/types"

// User-facing text. The dashboard is localized in Spanish.
const (
	msgLoadFailed             = "Error al cargar el estado de la simulación"
	msgSetupFailed            = "Error al configurar el edificio"
	msgAdvanceFailed          = "Error al avanzar turno"
	msgAddZombieFailed        = "Error al agregar zombie"
	msgAddPracticanteFailed   = "Error al agregar practicante"
	msgCleanRoomFailed        = "Error al limpiar habitación"
	msgResetSensorFailed      = "Error al restablecer sensor"
	msgToggleGenerationFailed = "Error al cambiar generación de zombies"
	msgSecretWeaponFailed     = "Error al usar el arma secreta"
	msgAutoRunFailed          = "Error al cambiar modo automático"
	msgResetFailed            = "Error al reiniciar la simulación"

	msgSetupDone         = "¡Edificio configurado correctamente!"
	msgNewZombie         = "¡Se ha generado un nuevo zombie en la habitación %s!"
	msgGameOverPrefix    = "¡Juego terminado! "
	msgZombieAdded       = "¡Se ha agregado un nuevo zombie en la habitación %s!"
	msgZombieNotAdded    = "No se pudo agregar un zombie (todas las habitaciones podrían estar infestadas)."
	msgPracticanteAdded  = "¡Se ha añadido un practicante en la habitación %s!"
	msgRoomCleaned       = "¡La habitación %s ha sido limpiada!"
	msgRoomNotCleaned    = "No se pudo limpiar la habitación."
	msgSensorReset       = "¡Sensor en la habitación %s restablecido!"
	msgSensorNotReset    = "No se pudo restablecer el sensor."
	msgGenerationToggled = "¡Generación de zombies %s!"
	msgSecretWeapon      = "¡Activando arma secreta! Abriendo portal externo..."
	msgAutoRunToggled    = "Ejecución automática %s"
	msgSimulationReset   = "¡La simulación ha sido reiniciada!"

	msgEnabledFeminine     = "activada"
	msgDisabledFeminine    = "desactivada"
	msgPracticanteCaptured = "¡El practicante ha sido capturado por un zombie!"
	msgAllRoomsInfested    = "¡Todas las habitaciones han sido infestadas con zombies!"
)

// SecretWeaponURL is opened instead of calling the backend's secret weapon.
const SecretWeaponURL = "https://youtu.be/dQw4w9WgXcQ?si=L6gTOSJZpsrg8jLS"

// GameOverMessage maps a game over reason to its user-facing text: capture for
// "practicante_capturado", infestation for anything else.
func GameOverMessage(reason string) string {
	if reason == types.ReasonPracticanteCaptured {
		return msgPracticanteCaptured
	}
	return msgAllRoomsInfested
}

var failureMessages = map[Action]string{
	ActRefresh:                msgLoadFailed,
	ActSetup:                  msgSetupFailed,
	ActAdvance:                msgAdvanceFailed,
	ActAddZombie:              msgAddZombieFailed,
	ActAddPracticante:         msgAddPracticanteFailed,
	ActCleanRoom:              msgCleanRoomFailed,
	ActResetSensor:            msgResetSensorFailed,
	ActToggleZombieGeneration: msgToggleGenerationFailed,
	ActSecretWeapon:           msgSecretWeaponFailed,
	ActAutoRun:                msgAutoRunFailed,
	ActReset:                  msgResetFailed,
}

// FailureMessage is the error banner shown when action fails.
func FailureMessage(a Action) string {
	if m, ok := failureMessages[a]; ok {
		return m
	}
	return msgLoadFailed
}

func onOff(on bool) string {
	if on {
		return msgEnabledFeminine
	}
	return msgDisabledFeminine
}
