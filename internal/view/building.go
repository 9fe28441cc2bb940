// Package view derives what the dashboard renders from shell state. Every
// function is pure; transports and the CLI format the results.
package view

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

type Kind string

const (
	KindRoom      Kind = "room"
	KindStaircase Kind = "staircase"
)

type Cell struct {
	Position    types.Position `json:"position"`
	Label       string         `json:"label"`
	Title       string         `json:"title"`
	Kind        Kind           `json:"kind"`
	Infested    bool           `json:"infested"`
	SensorAlert bool           `json:"sensor_alert"`
	Practicante bool           `json:"practicante"`
	Selected    bool           `json:"selected"`
	Tooltip     string         `json:"tooltip"`
}

type FloorRow struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// RoomLabel formats a room for display ("103", or "E1" for a staircase).
func RoomLabel(floor, room int) string {
	return types.Position{Floor: floor, Room: room}.Label()
}

// Building lays out the grid top floor first. Rooms keep the order the server
// sent them in. A nil snapshot yields no rows.
func Building(st shell.State) []FloorRow {
	snap := st.Snapshot
	if snap == nil {
		return nil
	}

	rows := make([]FloorRow, 0, len(snap.Building))
	for f := len(snap.Building) - 1; f >= 0; f-- {
		row := FloorRow{Index: f, Label: fmt.Sprintf("Piso %d", f+1)}
		for _, r := range snap.Building[f] {
			row.Cells = append(row.Cells, cell(r, snap.Practicante, st.Selected))
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(r types.Room, practicante, selected *types.Position) Cell {
	p := r.Position()
	c := Cell{
		Position:    p,
		Label:       p.Label(),
		Kind:        KindRoom,
		Infested:    r.HasZombies,
		SensorAlert: r.SensorAlert && !r.IsStaircase,
		Practicante: practicante != nil && *practicante == p,
		Selected:    selected != nil && *selected == p,
	}
	if r.IsStaircase {
		c.Kind = KindStaircase
		c.Title = "Escalera " + c.Label
	} else {
		c.Title = "Hab. " + c.Label
	}
	c.Tooltip = tooltip(c)
	return c
}

func tooltip(c Cell) string {
	var b strings.Builder
	if c.Kind == KindStaircase {
		b.WriteString("Escalera ")
	} else {
		b.WriteString("Habitación ")
	}
	b.WriteString(c.Label)
	if c.Infested {
		b.WriteString(" - ¡Zombie!")
	}
	if c.SensorAlert {
		b.WriteString(" - ¡Alerta de Sensor!")
	}
	if c.Practicante {
		b.WriteString(" - ¡El practicante está aquí!")
	}
	return b.String()
}
