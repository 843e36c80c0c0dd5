package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// installStage is one step of a single package's install, reported to the
// live progress view as it advances.
type installStage int

const (
	stagePending installStage = iota
	stageFetching
	stageExtracting
	stageDone
	stageFailed
)

func (s installStage) label() string {
	switch s {
	case stageFetching:
		return "fetching"
	case stageExtracting:
		return "extracting"
	case stageDone:
		return "done"
	case stageFailed:
		return "failed"
	default:
		return "pending"
	}
}

// installProgressMsg reports a stage transition for one package.
type installProgressMsg struct {
	name  string
	stage installStage
	err   error
}

// installDoneMsg tells the program every package has reached a terminal
// stage and it should exit.
type installDoneMsg struct{}

// installProgressModel is a bubbletea model rendering the live status of a
// concurrent multi-package install as a table, one row per package. It
// receives updates over a channel rather than polling.
type installProgressModel struct {
	order  []string
	stages map[string]installStage
	errs   map[string]error
	ch     <-chan tea.Msg
}

func newInstallProgressModel(names []string, ch <-chan tea.Msg) installProgressModel {
	stages := make(map[string]installStage, len(names))
	for _, name := range names {
		stages[name] = stagePending
	}
	return installProgressModel{
		order:  append([]string(nil), names...),
		stages: stages,
		errs:   make(map[string]error),
		ch:     ch,
	}
}

func (m installProgressModel) Init() tea.Cmd {
	return m.waitForMsg
}

func (m installProgressModel) waitForMsg() tea.Msg {
	return <-m.ch
}

func (m installProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case installProgressMsg:
		m.stages[msg.name] = msg.stage
		if msg.err != nil {
			m.errs[msg.name] = msg.err
		}
		return m, m.waitForMsg
	case installDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m installProgressModel) View() string {
	rows := make([][]string, 0, len(m.order))
	for _, name := range m.order {
		stage := m.stages[name]
		status := stage.label()
		style := StyleDim
		switch stage {
		case stageDone:
			style = StyleSuccess
		case stageFailed:
			style = StyleWarning
			if err := m.errs[name]; err != nil {
				status = fmt.Sprintf("failed: %s", err)
			}
		}
		rows = append(rows, []string{name, style.Render(status)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Status").
		Rows(rows...)

	return StyleTitle.Render("Installing") + "\n" + t.Render() + "\n"
}
