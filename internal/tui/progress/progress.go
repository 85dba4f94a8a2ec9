// ABOUTME: Live progress view for a smoke-test run as a bubbletea model
// ABOUTME: Shows a spinner on the running case and a line per finished case

package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/study-portal/internal/harness"
	"github.com/markalston/study-portal/internal/tui/styles"
)

type caseStartedMsg struct {
	index int
	total int
	tc    harness.TestCase
}

type caseFinishedMsg struct {
	result harness.Result
}

type runDoneMsg struct {
	report *harness.Report
}

// Model renders run progress
type Model struct {
	spinner  spinner.Model
	title    string
	total    int
	index    int
	current  string
	results  []harness.Result
	report   *harness.Report
	cancel   context.CancelFunc
	aborting bool
}

// New creates a progress view for a suite of total cases. cancel is called
// when the user interrupts; the view keeps running until the run ends.
func New(title string, total int, cancel context.CancelFunc) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.KeyStyle
	return &Model{spinner: s, title: title, total: total, cancel: cancel}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.aborting && m.cancel != nil {
				m.aborting = true
				m.cancel()
			}
		}
		return m, nil

	case caseStartedMsg:
		m.index = msg.index
		m.total = msg.total
		m.current = msg.tc.Name
		return m, nil

	case caseFinishedMsg:
		m.results = append(m.results, msg.result)
		m.current = ""
		return m, nil

	case runDoneMsg:
		m.report = msg.report
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(m.title))
	b.WriteString("\n")

	for _, r := range m.results {
		fmt.Fprintf(&b, "%s %d. %s", styles.Mark(r.Passed), r.ID, r.Name)
		if !r.Passed {
			b.WriteString(styles.Subtitle.Render("  " + r.ErrorMessage))
		}
		b.WriteString("\n")
	}

	switch {
	case m.report != nil:
		rate := styles.RateStyle(m.report.PassRate).Render(m.report.FormattedPassRate() + "%")
		fmt.Fprintf(&b, "\n%s Passed %d/%d (%s)\n",
			styles.PassFail(m.report.AllPassed()), m.report.PassedTests, m.report.TotalTests, rate)
	case m.current != "":
		fmt.Fprintf(&b, "%s [%d/%d] %s\n", m.spinner.View(), m.index+1, m.total, m.current)
	}

	if m.report == nil {
		help := "q: abort"
		if m.aborting {
			help = "aborting, waiting for the current request..."
		}
		b.WriteString(styles.Help.Render(help))
		b.WriteString("\n")
	}
	return b.String()
}

// Report returns the final report, or nil while the run is in progress
func (m *Model) Report() *harness.Report {
	return m.report
}

// sender is the part of tea.Program the observer needs
type sender interface {
	Send(msg tea.Msg)
}

// Observer forwards runner progress into a bubbletea program
type Observer struct {
	program sender
}

// NewObserver creates an observer sending to program
func NewObserver(program sender) *Observer {
	return &Observer{program: program}
}

// CaseStarted implements harness.Observer
func (o *Observer) CaseStarted(index, total int, tc harness.TestCase) {
	o.program.Send(caseStartedMsg{index: index, total: total, tc: tc})
}

// CaseFinished implements harness.Observer
func (o *Observer) CaseFinished(index, total int, result harness.Result) {
	o.program.Send(caseFinishedMsg{result: result})
}

// RunFunc executes a suite, reporting through the given observer
type RunFunc func(ctx context.Context, observer harness.Observer) *harness.Report

// Run shows the progress view while run executes on its own goroutine
func Run(ctx context.Context, title string, total int, run RunFunc) (*harness.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(title, total, cancel)
	program := tea.NewProgram(model)

	done := make(chan *harness.Report, 1)
	go func() {
		report := run(ctx, NewObserver(program))
		done <- report
		program.Send(runDoneMsg{report: report})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("running progress view: %w", err)
	}
	return <-done, nil
}
