package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
)

var (
	bold      = lipgloss.NewStyle().Bold(true)
	dim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	red       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	yellow    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	green     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cyan      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	border    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

var severityStyles = map[shell.Severity]lipgloss.Style{
	shell.SeveritySuccess: green,
	shell.SeverityInfo:    cyan,
	shell.SeverityWarning: yellow,
	shell.SeverityError:   red,
}

var bandStyles = map[view.Band]lipgloss.Style{
	view.BandSuccess: green,
	view.BandWarning: yellow,
	view.BandError:   red,
}

// RenderState draws everything the dashboard shows, top to bottom.
func RenderState(st shell.State) string {
	var parts []string
	if st.Error != "" {
		parts = append(parts, red.Bold(true).Render(st.Error))
	}
	if st.Notification.Show {
		parts = append(parts, RenderNotice(st.Notification))
	}
	if rows := view.Building(st); len(rows) > 0 {
		parts = append(parts, RenderBuilding(rows))
	}
	parts = append(parts, RenderStats(view.StatsFor(st.Snapshot)))
	if c := view.ControlsFor(st); c.GameOverBanner != "" {
		parts = append(parts, red.Bold(true).Render(c.GameOverBanner))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func RenderNotice(n shell.Notification) string {
	return severityStyles[n.Severity].Render(n.Message)
}

// RenderBuilding draws one table row per floor, top floor first.
func RenderBuilding(rows []view.FloorRow) string {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := []string{row.Label}
		for _, c := range row.Cells {
			line = append(line, cellText(c))
		}
		data = append(data, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderRow(true).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			if col == 0 {
				return cellStyle.Inherit(bold)
			}
			cells := rows[row].Cells
			if col-1 >= len(cells) {
				return cellStyle
			}
			return cellStyle.Inherit(cellColor(cells[col-1]))
		})
	return t.Render()
}

func cellText(c view.Cell) string {
	var b strings.Builder
	b.WriteString(c.Label)
	if c.Selected {
		b.WriteString("*")
	}
	var marks []string
	if c.Kind == view.KindStaircase {
		marks = append(marks, "🪜")
	}
	if c.Infested {
		marks = append(marks, "🧟")
	}
	if c.Practicante {
		marks = append(marks, "🧑‍🎓")
	}
	if c.SensorAlert {
		marks = append(marks, "!")
	}
	if len(marks) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(marks, ""))
	}
	return b.String()
}

func cellColor(c view.Cell) lipgloss.Style {
	switch {
	case c.Infested:
		return red
	case c.SensorAlert:
		return yellow
	case c.Kind == view.KindStaircase:
		return dim
	default:
		return lipgloss.NewStyle()
	}
}

func RenderStats(s *view.Stats) string {
	if s == nil {
		return dim.Render(view.NoStats)
	}

	status := s.Status
	if s.StatusReason != "" {
		status += " (" + s.StatusReason + ")"
	}
	lines := []string{
		fmt.Sprintf("%s %d", bold.Render("Turno Actual:"), s.Turn),
		fmt.Sprintf("%s %s (%d/%d)", bold.Render("Infestación:"),
			bandStyles[s.Band].Render(fmt.Sprintf("%.1f%%", s.Percent)), s.InfestedRooms, s.TotalRooms),
		fmt.Sprintf("%s %s", bold.Render("Estado:"), status),
		fmt.Sprintf("%s %s", bold.Render("Generación de Zombies:"), s.Generation),
	}

	if len(s.Floors) > 0 {
		rows := make([][]string, 0, len(s.Floors))
		for _, f := range s.Floors {
			rows = append(rows, []string{f.Label, strconv.Itoa(f.Infested), strconv.Itoa(f.Clean), strconv.Itoa(f.Total)})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(border).
			Headers("Piso", "Infestadas", "Limpias", "Total").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return cellStyle.Inherit(bold)
				}
				return cellStyle
			})
		lines = append(lines, t.Render())
	}
	if s.Practicante != "" {
		lines = append(lines, s.Practicante)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
