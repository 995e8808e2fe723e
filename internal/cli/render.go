package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/voidtrack/internal/constants"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	futureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236"))

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Width(22).
			MaxWidth(22)
)

// Title renders a heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Section renders a section key as a heading.
func Section(key string) string {
	return sectionStyle.Render(strings.ToUpper(key))
}

// Dim renders secondary text.
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Mark renders a checkbox for a completion state.
func Mark(completed bool) string {
	if completed {
		return completedStyle.Render("[x]")
	}
	return pendingStyle.Render("[ ]")
}

// Progress renders a completion as "c/t (p%)" with a ten-step bar.
func Progress(c stats.Completion) string {
	filled := c.Percentage / 10
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	return fmt.Sprintf("%s %d/%d (%d%%)", completedStyle.Render(bar), c.Completed, c.Total, c.Percentage)
}

// Delta renders a signed week-over-week change.
func Delta(delta int) string {
	switch {
	case delta > 0:
		return completedStyle.Render(fmt.Sprintf("▲ +%d%%", delta))
	case delta < 0:
		return failedStyle.Render(fmt.Sprintf("▼ %d%%", delta))
	default:
		return dimStyle.Render("– 0%")
	}
}

// DescribeHabit renders a one-line summary of a habit's shape and goal.
func DescribeHabit(h models.Habit) string {
	switch h.Type {
	case models.HabitCount:
		return fmt.Sprintf("count, goal %g %s", h.Target(), unitOf(h))
	case models.HabitMultiCheck:
		return fmt.Sprintf("checklist, %d step(s)", len(h.Items))
	case models.HabitTimeRange:
		return fmt.Sprintf("time range, at least %s", formatMinutes(h.MinDurationMinutes()))
	default:
		return string(h.Type)
	}
}

// DescribeEntry renders an entry's progress for its habit.
func DescribeEntry(h models.Habit, e models.LogEntry) string {
	done := e.IsCompleted()
	switch h.Type {
	case models.HabitCount:
		return fmt.Sprintf("%s %g/%g %s", Mark(done), e.Value, h.Target(), unitOf(h))
	case models.HabitMultiCheck:
		checked := 0
		for _, it := range h.Items {
			if e.IsChecked(it) {
				checked++
			}
		}
		return fmt.Sprintf("%s %d/%d steps", Mark(done), checked, len(h.Items))
	case models.HabitTimeRange:
		if e.Start == "" || e.End == "" {
			return fmt.Sprintf("%s not logged", Mark(done))
		}
		return fmt.Sprintf("%s %s → %s (%.1fh)", Mark(done), e.Start, e.End, e.Value)
	default:
		return Mark(done)
	}
}

// ChecklistLines renders one line per step of a multi_check habit.
func ChecklistLines(h models.Habit, e models.LogEntry) []string {
	lines := make([]string, 0, len(h.Items))
	for _, it := range h.Items {
		lines = append(lines, fmt.Sprintf("%s %s", Mark(e.IsChecked(it)), it))
	}
	return lines
}

// RenderGrid draws the weekly grid, one row per habit.
func RenderGrid(g stats.Grid) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render(""))
	for _, day := range g.Days {
		label := weekdayLetter(day)
		if day == g.Today {
			label = todayStyle.Render(label)
		}
		b.WriteString(" " + label + " ")
	}
	b.WriteString("\n")

	for _, row := range g.Rows {
		b.WriteString(labelStyle.Render(truncate(row.Habit.Title, 21)))
		for _, cell := range row.Cells {
			b.WriteString(" " + renderCell(cell) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%s to %s", g.Days[0], g.Days[len(g.Days)-1])))
	b.WriteString("\n")
	return b.String()
}

func renderCell(c stats.Cell) string {
	switch c.Status {
	case stats.CellCompleted:
		return completedStyle.Render("■")
	case stats.CellFailed:
		return failedStyle.Render("✗")
	case stats.CellFuture:
		return futureStyle.Render("·")
	default:
		return pendingStyle.Render("□")
	}
}

func weekdayLetter(dateKey string) string {
	t, err := time.Parse(constants.DateFormat, dateKey)
	if err != nil {
		return "?"
	}
	return t.Weekday().String()[:1]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func unitOf(h models.Habit) string {
	if h.Goal == nil {
		return ""
	}
	return h.Goal.Unit
}

func formatMinutes(m int) string {
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
