package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"camclone/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseExecuting
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	ScanProgressMsg struct {
		Current int
		Total   int
	}
	PlanReadyMsg struct {
		Plan domain.ClonePlan
	}
	ExecProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	RunDoneMsg struct {
		Stats  domain.RunStatistics
		Errors []domain.FileError
	}
	ErrorMsg struct {
		Err error
	}
)

// Config for the TUI
type Config struct {
	SourceDir string
	TargetDir string
}

// Model is the clone progress UI: a scan bar, an execute bar, and the final
// summary.
type Model struct {
	config   Config
	Phase    Phase
	Plan     domain.ClonePlan
	Stats    domain.RunStatistics
	Errors   []domain.FileError
	Err      error
	Quitting bool

	spinner     spinner.Model
	progress    progress.Model
	scanCurrent int
	scanTotal   int
	execCurrent int
	execTotal   int
	currentFile string
}

func NewModel(config Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	pr := progress.New(progress.WithGradient(string(primaryColor), string(secondaryColor)))

	return Model{
		config:   config,
		Phase:    PhaseScanning,
		spinner:  sp,
		progress: pr,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.progress.Width = width
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		m.scanCurrent = msg.Current
		m.scanTotal = msg.Total

	case PlanReadyMsg:
		m.Plan = msg.Plan
		m.Phase = PhaseExecuting
		m.execTotal = len(msg.Plan.Items)

	case ExecProgressMsg:
		m.execCurrent = msg.Current
		m.execTotal = msg.Total
		m.currentFile = msg.File

	case RunDoneMsg:
		m.Stats = msg.Stats
		m.Errors = msg.Errors
		m.Phase = PhaseDone
		return m, tea.Quit

	case ErrorMsg:
		m.Err = msg.Err
		m.Phase = PhaseError
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("camclone"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s → %s", m.config.SourceDir, m.config.TargetDir)))
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(m.spinner.View())
		b.WriteString(" Scanning source")
		if m.scanTotal > 0 {
			b.WriteString(fmt.Sprintf(" (%d/%d)", m.scanCurrent, m.scanTotal))
			b.WriteString("\n")
			b.WriteString(m.progress.ViewAs(float64(m.scanCurrent) / float64(m.scanTotal)))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press q to cancel"))

	case PhaseExecuting:
		if m.execTotal == 0 {
			b.WriteString(m.spinner.View())
			b.WriteString(" Nothing to import")
			break
		}
		b.WriteString(fmt.Sprintf("Importing (%d/%d)\n", m.execCurrent, m.execTotal))
		b.WriteString(m.progress.ViewAs(float64(m.execCurrent) / float64(m.execTotal)))
		b.WriteString("\n")
		if m.currentFile != "" {
			b.WriteString(fileNameStyle.Render(m.currentFile))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press q to cancel"))

	case PhaseDone:
		b.WriteString(successStyle.Render(iconSuccess + " Import complete"))
		b.WriteString("\n\n")
		b.WriteString(m.summaryView())

	case PhaseError:
		b.WriteString(errorStyle.Render(iconError + " Import failed"))
		b.WriteString("\n\n")
		if m.Err != nil {
			b.WriteString(m.Err.Error())
		}
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) summaryView() string {
	var b strings.Builder

	row := func(label string, value string) {
		b.WriteString(statLabelStyle.Render(label))
		b.WriteString(statValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Copied", fmt.Sprintf("%d", m.Stats.Copied))
	row("Rewritten", fmt.Sprintf("%d", m.Stats.Rewritten))
	row(iconSkipped+" Skipped", fmt.Sprintf("%d", m.Stats.Skipped))
	if m.Stats.Resized > 0 {
		row("  resized", fmt.Sprintf("%d", m.Stats.Resized))
	}
	if m.Stats.QualityAdjusted > 0 {
		row("  quality-adjusted", fmt.Sprintf("%d", m.Stats.QualityAdjusted))
	}
	if m.Stats.GpsAdded > 0 {
		row("  gps-added", fmt.Sprintf("%d", m.Stats.GpsAdded))
	}
	formats := make([]string, 0, len(m.Stats.Reformatted))
	for format := range m.Stats.Reformatted {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	for _, format := range formats {
		row("  to "+format, fmt.Sprintf("%d", m.Stats.Reformatted[format]))
	}

	if len(m.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%d files failed:", len(m.Errors))))
		b.WriteString("\n")
		for _, fe := range m.Errors {
			b.WriteString(errorStyle.Render(iconError))
			b.WriteString(" " + fe.Path + "\n")
		}
	}

	return b.String()
}
