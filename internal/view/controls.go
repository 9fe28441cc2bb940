package view

import (
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
)

// Controls is the enablement and labelling of the control panel.
type Controls struct {
	Advance          bool `json:"advance"`
	AutoRun          bool `json:"auto_run"`
	ZombieGeneration bool `json:"zombie_generation"`
	AddZombie        bool `json:"add_zombie"`
	AddPracticante   bool `json:"add_practicante"`
	SecretWeapon     bool `json:"secret_weapon"`
	CleanRoom        bool `json:"clean_room"`
	ResetSensor      bool `json:"reset_sensor"`

	AutoRunLabel          string `json:"auto_run_label"`
	AutoRunButton         string `json:"auto_run_button"`
	ZombieGenerationOn    bool   `json:"zombie_generation_on"`
	ZombieGenerationLabel string `json:"zombie_generation_label"`
	SelectedLabel         string `json:"selected_label,omitempty"`
	SelectionHint         string `json:"selection_hint,omitempty"`
	GameOverBanner        string `json:"game_over_banner,omitempty"`
}

func ControlsFor(st shell.State) Controls {
	snap := st.Snapshot
	gameOver := snap != nil && snap.GameOver
	ready := !st.Loading && !gameOver && snap != nil

	c := Controls{
		Advance:          ready,
		AutoRun:          ready,
		ZombieGeneration: ready,
		AddZombie:        ready,
		AddPracticante:   ready && snap.Practicante == nil,
		SecretWeapon:     ready,
		CleanRoom:        ready && st.Selected != nil,
		ResetSensor:      ready && st.Selected != nil,

		AutoRunLabel:          "Ejecución automática desactivada",
		AutoRunButton:         "Iniciar Ejecución Automática",
		ZombieGenerationLabel: "Generación de zombies desactivada",
	}
	if st.AutoRunning {
		c.AutoRunLabel = "Ejecución automática activada"
		c.AutoRunButton = "Detener Ejecución Automática"
	}
	if snap != nil && snap.ZombieGenerationEnabled {
		c.ZombieGenerationOn = true
		c.ZombieGenerationLabel = "Generación de zombies activada"
	}

	if st.Selected != nil {
		c.SelectedLabel = "Seleccionada: Habitación " + st.Selected.Label()
	} else {
		c.SelectionHint = "Seleccione una habitación para realizar acciones"
	}
	if gameOver {
		c.GameOverBanner = "FIN DEL JUEGO: " + shell.GameOverMessage(snap.Reason())
	}
	return c
}
