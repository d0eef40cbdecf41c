package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("42"))
	faintStyle  = cellStyle.Faint(true)
)

// TableHeaders are the console table columns.
var TableHeaders = []string{"#", "Selector", "Signal", "Target", "Trades", "Success", "Avg Ret", "Stop", "Stop Fail", "Sharpe", "Max DD", "Score"}

// Rows returns one row per entry, in the order given by order (entry indices).
func Rows(card types.Scorecard, order []int) [][]string {
	rows := make([][]string, 0, len(order))

	for _, idx := range order {
		e := card.Entries[idx]
		m := e.Result.Metrics

		score := "-"
		if e.Score.IsSome() {
			score = fmt.Sprintf("%.4f", e.Score.Unwrap())
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", idx),
			e.Result.SelectorID,
			e.Result.SignalID,
			e.Result.TargetID,
			fmt.Sprintf("%d", m.TotalTrades),
			percent(m.SuccessRate),
			percent(m.AvgReturn),
			percent(m.StopLossRate),
			percent(m.StopLossFailureRate),
			fmt.Sprintf("%.2f", finite(m.SharpeRatio)),
			percent(m.MaxDrawdown),
			score,
		})
	}

	return rows
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// RenderTable draws the scorecard. With all set every entry is listed in configuration order,
// otherwise only the best combinations in rank order.
func RenderTable(card types.Scorecard, all bool) string {
	order := card.Best
	if all {
		order = make([]int, len(card.Entries))
		for i := range order {
			order[i] = i
		}
	}

	best := make(map[int]bool, len(card.Best))
	for _, idx := range card.Best {
		best[idx] = true
	}

	rows := Rows(card, order)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(TableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case card.Entries[order[row]].Score.IsNone():
				return faintStyle
			case best[order[row]]:
				return bestStyle
			default:
				return cellStyle
			}
		})

	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("Scorecard %s (%d combinations, %d ranked)", card.ID, len(card.Entries), len(card.Best))))
	s.WriteString("\n")
	s.WriteString(t.Render())
	s.WriteString("\n")

	return s.String()
}
