// Package watch is a terminal view of a running scorecard. Finished combinations stream into a
// table ranked by their current score.
package watch

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-scorecard/internal/report"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// Application states.
const (
	StateRunning = iota
	StateFinished
)

// Model is the Bubble Tea model of a scorecard run.
type Model struct {
	state   int
	table   table.Model
	entries []types.ScorecardEntry
	runID   string
	done    int
	total   int
	err     error
	card    types.Scorecard
	cancel  context.CancelFunc
	width   int
	height  int
}

// NewModel creates a model. cancel, when set, stops the run on quit.
func NewModel(cancel context.CancelFunc) Model {
	return Model{
		state:  StateRunning,
		table:  NewResultTable(),
		cancel: cancel,
	}
}

// Card returns the finished scorecard, or an empty one while running.
func (m Model) Card() types.Scorecard { return m.card }

// Err returns the run error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil && m.state == StateRunning {
				m.cancel()
			}

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-6, 3))

		return m, nil

	case RunStartedMsg:
		m.runID = msg.RunID
		m.total = msg.Total

		return m, nil

	case CombinationDoneMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.entries = append(m.entries, types.ScorecardEntry{Result: msg.Result, Score: msg.Score})
		m.table.SetRows(tableRows(m.entries))

		return m, nil

	case RunFinishedMsg:
		m.state = StateFinished
		m.err = msg.Err

		if msg.Err == nil {
			m.card = msg.Card
			m.runID = msg.Card.ID
			m.entries = msg.Card.Entries
			m.done = len(msg.Card.Entries)
			m.total = m.done
			m.table.SetRows(tableRows(m.entries))
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// tableRows ranks entries by score, unscored last, ties by ids.
func tableRows(entries []types.ScorecardEntry) []table.Row {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		ea, eb := entries[a], entries[b]

		switch {
		case ea.Score.IsSome() && eb.Score.IsNone():
			return -1
		case ea.Score.IsNone() && eb.Score.IsSome():
			return 1
		case ea.Score.IsSome():
			if c := cmp.Compare(eb.Score.Unwrap(), ea.Score.Unwrap()); c != 0 {
				return c
			}
		}

		return cmp.Or(
			cmp.Compare(ea.Result.SelectorID, eb.Result.SelectorID),
			cmp.Compare(ea.Result.SignalID, eb.Result.SignalID),
			cmp.Compare(ea.Result.TargetID, eb.Result.TargetID),
		)
	})

	cells := report.Rows(types.Scorecard{Entries: entries}, order)
	rows := make([]table.Row, len(cells))

	for i, c := range cells {
		// the first column is the position in completion order, which means nothing here
		c[0] = fmt.Sprintf("%d", i+1)
		rows[i] = c
	}

	return rows
}

// NewResultTable creates the results table.
func NewResultTable() table.Model {
	widths := []int{4, 22, 16, 20, 7, 9, 9, 8, 10, 7, 8, 8}
	columns := make([]table.Column, len(report.TableHeaders))

	for i, title := range report.TableHeaders {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}

	columns[0].Title = "Rank"

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	title := "Scorecard"
	if m.runID != "" {
		title = fmt.Sprintf("Scorecard %s", m.runID)
	}

	s.WriteString(TitleStyle.Render(title))
	s.WriteString("\n\n")

	switch {
	case m.err != nil:
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	case m.state == StateFinished:
		s.WriteString(DoneStyle.Render(fmt.Sprintf("Finished %d combinations, %d ranked", m.done, len(m.card.Best))))
		s.WriteString("\n\n")
	default:
		s.WriteString(fmt.Sprintf("Running %d/%d combinations\n\n", m.done, m.total))
	}

	if len(m.entries) == 0 {
		s.WriteString("Waiting for results...\n")
	} else {
		s.WriteString(m.table.View())
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: scroll | q: quit"))

	return s.String()
}

// Sender is the part of *tea.Program the callbacks need.
type Sender interface {
	Send(msg tea.Msg)
}

// Callbacks forwards scorecard progress to p. Scores use opts, the same as the runner.
func Callbacks(p Sender, opts scorecard.Options) scorecard.LifecycleCallbacks {
	onStart := scorecard.OnScorecardStartCallback(func(runID string, total int) error {
		p.Send(RunStartedMsg{RunID: runID, Total: total})

		return nil
	})

	onDone := scorecard.OnCombinationDoneCallback(func(done, total int, result types.BacktestResult) error {
		p.Send(CombinationDoneMsg{Done: done, Total: total, Result: result, Score: opts.Score(result.Metrics)})

		return nil
	})

	return scorecard.LifecycleCallbacks{
		OnScorecardStart:  &onStart,
		OnCombinationDone: &onDone,
	}
}
