// Package tui provides a Bubble Tea terminal user interface for worldkeeper-setup.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"worldkeeper/internal/config"
	"worldkeeper/internal/deploy"
	"worldkeeper/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	worldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateSelect
	StateValidating
	StateConfirm
	StateDeploying
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   deploy.ProgressLevel
}

// eventBuffer collects Manager progress events until the UI drains
// them on its next tick.
type eventBuffer struct {
	mu     sync.Mutex
	events []deploy.ProgressEvent
}

func (b *eventBuffer) add(event deploy.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *eventBuffer) drain() []deploy.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	manager *deploy.Manager
	events  *eventBuffer

	// World selection; the entry after the last backup is "skip".
	options []string
	cursor  int

	selectedWorld string
	result        model.ReconciliationResult
	skipWorld     bool

	// Options
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, verbose bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	events := &eventBuffer{}
	manager := deploy.NewManager(settings, events.add)

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		manager:  manager,
		events:   events,
		verbose:  verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialize(), m.tickProgress())
}

// Message types
type (
	// InitDoneMsg is sent when the mods scan and backup listing complete.
	InitDoneMsg struct {
		Options []string
		Err     error
	}

	// ValidateDoneMsg is sent when world pack validation completes.
	ValidateDoneMsg struct {
		Result model.ReconciliationResult
		Err    error
	}

	// DeployDoneMsg is sent when the world swap and pack install complete.
	DeployDoneMsg struct {
		Err error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			m.err = deploy.ErrCancelled
			return m, tea.Quit

		case "esc":
			if m.state == StateSelect || m.state == StateConfirm {
				m.err = deploy.ErrCancelled
				return m, tea.Quit
			}
			if m.state == StateLoading || m.state == StateValidating || m.state == StateDeploying {
				m.cancel()
				m.state = StateError
				m.err = deploy.ErrCancelled
			}

		case "up", "k":
			if m.state == StateSelect && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StateSelect && m.cursor < len(m.options) {
				m.cursor++
			}

		case "enter":
			if m.state == StateSelect {
				return m.selectWorld()
			}
			if m.state == StateConfirm {
				// Default answer is no.
				m.err = deploy.ErrCancelled
				return m, tea.Quit
			}

		case "y":
			if m.state == StateConfirm {
				m.logs = append(m.logs, LogEntry{
					Message: "Proceeding with missing packs",
					Level:   deploy.LevelWarning,
				})
				m.state = StateDeploying
				return m, tea.Batch(m.deploy(), m.spinner.Tick, m.tickProgress())
			}

		case "n":
			if m.state == StateConfirm {
				m.err = deploy.ErrCancelled
				return m, tea.Quit
			}

		case "v":
			if m.state == StateSelect {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.options = msg.Options
			m.state = StateSelect
		}

	case ValidateDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if msg.Result.FullyMatched() {
			m.result = msg.Result
			m.state = StateDeploying
			cmds = append(cmds, m.deploy(), m.tickProgress())
		} else {
			m.result = msg.Result
			m.state = StateConfirm
		}

	case DeployDoneMsg:
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = deploy.ErrCancelled
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		for _, event := range m.events.drain() {
			if event.Level == deploy.LevelVerbose && !m.verbose {
				continue
			}
			m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
		}
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

		if m.state == StateDeploying {
			done, total := m.manager.GetProgress()
			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent))
		}
		if m.state != StateComplete && m.state != StateError {
			cmds = append(cmds, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// selectWorld resolves the current cursor position into either a world
// deploy or the skip path.
func (m Model) selectWorld() (tea.Model, tea.Cmd) {
	if m.cursor == len(m.options) {
		// Skip; keep whatever world is already in place.
		if !m.manager.HasActiveWorld() {
			m.state = StateError
			m.err = fmt.Errorf("no world selected and no existing world found")
			return m, nil
		}
		m.skipWorld = true
		m.state = StateDeploying
		return m, tea.Batch(m.deploy(), m.spinner.Tick, m.tickProgress())
	}

	worlds := m.manager.Worlds()
	m.selectedWorld = worlds[m.cursor].Path
	m.state = StateValidating
	return m, tea.Batch(m.validate(), m.spinner.Tick, m.tickProgress())
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🌍 Worldkeeper Setup"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Import a world and deploy mod packs"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateValidating:
		b.WriteString(m.viewValidating())
	case StateConfirm:
		b.WriteString(m.viewConfirm())
	case StateDeploying:
		b.WriteString(m.viewDeploying())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning mods and world backups..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSelect() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Select a world backup to import:"))
	b.WriteString("\n\n")

	for i, option := range m.options {
		cursor := "  "
		style := worldStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(style.Render(cursor + option))
		b.WriteString("\n")
	}

	skipCursor := "  "
	skipStyle := dimStyle
	if m.cursor == len(m.options) {
		skipCursor = "> "
		skipStyle = selectedStyle
	}
	b.WriteString(skipStyle.Render(skipCursor + "Skip world import (keep current world)"))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("Mods found: %d", m.manager.Inventory().Len())))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewValidating() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Validating required mods for world..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render(fmt.Sprintf("Missing %d required pack(s):", len(m.result.Missing))))
	b.WriteString("\n")
	for _, missing := range m.result.Missing {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  ✗ [%s] %s %s", missing.Role, missing.ID, missing.Version)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Continue setup anyway? (y/N)"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDeploying() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Deploying..."))
	b.WriteString("\n\n")

	done, total := m.manager.GetProgress()
	var percent float64
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Steps: %d/%d", done, total)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := fmt.Sprintf(
		"✨ Setup Complete!\n\n"+
			"World: %s\n"+
			"Packs: %d",
		m.settings.WorldName,
		m.manager.Inventory().Len(),
	)
	if m.settings.DockerContainer != "" {
		summary += fmt.Sprintf("\n\nNext: docker restart %s", m.settings.DockerContainer)
	}
	b.WriteString(boxStyle.Render(summary))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Setup failed:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case deploy.LevelError:
			style = errorStyle
			prefix = "✗"
		case deploy.LevelWarning:
			style = warningStyle
			prefix = "!"
		case deploy.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case deploy.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSelect:
		return "↑/↓: move • enter: select • v: verbose • esc: quit"
	case StateConfirm:
		return "y: continue • n/esc: cancel"
	case StateLoading, StateValidating, StateDeploying:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// initialize scans the mods directory and lists world backups.
func (m *Model) initialize() tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	return func() tea.Msg {
		if err := manager.Initialize(ctx); err != nil {
			return InitDoneMsg{Err: err}
		}
		return InitDoneMsg{Options: manager.WorldOptions()}
	}
}

// validate reconciles the selected world's pack lists against the
// inventory.
func (m *Model) validate() tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	worldArchive := m.selectedWorld
	return func() tea.Msg {
		result, err := manager.Validate(ctx, worldArchive)
		return ValidateDoneMsg{Result: result, Err: err}
	}
}

// deploy runs the world swap and pack install in the background.
func (m *Model) deploy() tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	worldArchive := m.selectedWorld
	skipWorld := m.skipWorld
	return func() tea.Msg {
		return DeployDoneMsg{Err: manager.Deploy(ctx, worldArchive, skipWorld)}
	}
}

// Run starts the TUI application and reports how the session ended.
// A cancelled session returns deploy.ErrCancelled.
func Run(settings *config.Settings, verbose bool) error {
	m := NewModel(settings, verbose)
	defer m.manager.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.err
	}
	return nil
}
