package stats

import (
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// CellStatus is the displayed state of one habit on one day of the grid.
type CellStatus string

const (
	CellCompleted CellStatus = "completed"
	CellPending   CellStatus = "pending"
	CellFailed    CellStatus = "failed"
	CellFuture    CellStatus = "future"
)

// Cell is one day of a grid row. Interactive is false for future days.
type Cell struct {
	Date        string     `json:"date"`
	Status      CellStatus `json:"status"`
	Interactive bool       `json:"interactive"`
	Today       bool       `json:"today"`
}

// GridRow is one habit's week.
type GridRow struct {
	Habit models.Habit `json:"habit"`
	Cells []Cell       `json:"cells"`
}

// Grid is the weekly view of every habit.
type Grid struct {
	Today string    `json:"today"`
	Days  []string  `json:"days"`
	Rows  []GridRow `json:"rows"`
}

// WeeklyGrid builds the grid for the week offset weeks from today. Past days
// that are absent or pending read as failed; nothing is written back.
func WeeklyGrid(habits []models.Habit, book models.LogBook, today string, offset int) (Grid, error) {
	start, err := WeekStartForOffset(today, offset)
	if err != nil {
		return Grid{}, err
	}
	days, err := utils.WeekDays(start)
	if err != nil {
		return Grid{}, err
	}

	grid := Grid{Today: today, Days: days, Rows: make([]GridRow, 0, len(habits))}
	for _, h := range habits {
		row := GridRow{Habit: h, Cells: make([]Cell, 0, len(days))}
		for _, day := range days {
			row.Cells = append(row.Cells, cellFor(h.ID, book, day, today))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, nil
}

func cellFor(habitID string, book models.LogBook, day, today string) Cell {
	cell := Cell{Date: day, Today: day == today}
	if day > today {
		cell.Status = CellFuture
		return cell
	}
	cell.Interactive = true

	entry, ok := book.Entry(day, habitID)
	switch {
	case ok && entry.IsCompleted():
		cell.Status = CellCompleted
	case day < today:
		cell.Status = CellFailed
	default:
		cell.Status = CellPending
	}
	return cell
}
