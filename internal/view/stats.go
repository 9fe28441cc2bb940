package view

import (
	"fmt"

	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

type Band string

const (
	BandSuccess Band = "success"
	BandWarning Band = "warning"
	BandError   Band = "error"
)

type FloorStats struct {
	Label    string `json:"label"`
	Infested int    `json:"infested"`
	Clean    int    `json:"clean"`
	Total    int    `json:"total"`
}

type Stats struct {
	Turn          int          `json:"turn"`
	TotalRooms    int          `json:"total_rooms"`
	InfestedRooms int          `json:"infested_rooms"`
	CleanRooms    int          `json:"clean_rooms"`
	Percent       float64      `json:"infested_percent"`
	Band          Band         `json:"band"`
	Status        string       `json:"status"`
	StatusReason  string       `json:"status_reason,omitempty"`
	Generation    string       `json:"zombie_generation"`
	Floors        []FloorStats `json:"floors"`
	Practicante   string       `json:"practicante,omitempty"`
}

// NoStats is shown in place of the panel before the first snapshot.
const NoStats = "No hay estadísticas disponibles"

// StatsFor summarizes a snapshot. Room totals come from the server's counts;
// the per-floor breakdown is counted from the building. Nil yields nil.
func StatsFor(snap *types.Snapshot) *Stats {
	if snap == nil {
		return nil
	}

	s := &Stats{
		Turn:          snap.Turn,
		TotalRooms:    snap.TotalRooms,
		InfestedRooms: snap.InfestedRooms,
		CleanRooms:    snap.TotalRooms - snap.InfestedRooms,
		Percent:       Percent(snap.InfestedRooms, snap.TotalRooms),
		Status:        "En Progreso",
		Generation:    "Desactivada",
	}
	s.Band = BandFor(s.Percent)

	if snap.GameOver {
		s.Status = "Juego Terminado"
		s.StatusReason = "Todas las habitaciones infestadas"
		if snap.Reason() == types.ReasonPracticanteCaptured {
			s.StatusReason = "Practicante capturado"
		}
	}
	if snap.ZombieGenerationEnabled {
		s.Generation = "Activada"
	}

	for i, floor := range snap.Building {
		fs := FloorStats{Label: fmt.Sprintf("Piso %d", i+1), Total: len(floor)}
		for _, r := range floor {
			if r.HasZombies {
				fs.Infested++
			}
		}
		fs.Clean = fs.Total - fs.Infested
		s.Floors = append(s.Floors, fs)
	}

	if p := snap.Practicante; p != nil {
		s.Practicante = "El practicante se encuentra actualmente en la habitación " + p.Label()
	}
	return s
}

// Percent is infested/total as a percentage, 0 when total is 0.
func Percent(infested, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(infested) / float64(total) * 100
}

// BandFor colours a percentage: up to 50 success, up to 75 warning, else error.
func BandFor(pct float64) Band {
	switch {
	case pct > 75:
		return BandError
	case pct > 50:
		return BandWarning
	default:
		return BandSuccess
	}
}
