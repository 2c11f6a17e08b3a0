// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/NishantJoshi00/typetester/internal/model"
	"github.com/NishantJoshi00/typetester/internal/stats"
	"github.com/NishantJoshi00/typetester/internal/statsui"
	"github.com/NishantJoshi00/typetester/internal/textsource"
	"github.com/NishantJoshi00/typetester/internal/typing"
)

// tabWidth is the number of spaces the Tab key types.
const tabWidth = 4

type screen int

const (
	screenTyping screen = iota
	screenReport
)

// NextText produces the text for a new session. weak holds the keys the
// previous session struggled with; it is nil unless focus-weak is enabled.
type NextText func(weak map[rune]struct{}) (textsource.Text, error)

type tickMsg time.Time

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for session events.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now for sessions and export file names.
func WithClock(clock typing.Clock) Option {
	return func(m *Model) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	next   NextText
	logger *zap.Logger
	clock  typing.Clock

	width  int
	height int

	screen  screen
	text    textsource.Text
	session *typing.Session
	frozen  bool

	report    *statsui.Model
	completed int
	last      *model.SessionReport
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = correctStyle.Underline(true)
	errorCursorStyle = incorrectStyle.Underline(true)
	endCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	readyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	bufferingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	frozenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// NewModel constructs a typing TUI model that starts on text. next is asked
// for new text when the typist moves on from a finished session.
func NewModel(cfg model.Config, text textsource.Text, next NextText, opts ...Option) *Model {
	m := &Model{
		config: cfg,
		next:   next,
		logger: zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.startSession(text)
	return m
}

// Completed returns the number of sessions finished in this program run.
func (m *Model) Completed() int {
	return m.completed
}

// LastReport returns the report of the most recently finished session.
func (m *Model) LastReport() (model.SessionReport, bool) {
	if m.last == nil {
		return model.SessionReport{}, false
	}
	return *m.last, true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}
	if m.screen == screenReport {
		return m.updateReport(msg)
	}
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlQ, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleKey(typing.Backspace)
		case tea.KeySpace:
			m.handleKey(' ')
		case tea.KeyEnter:
			m.handleKey('\n')
		case tea.KeyTab:
			for i := 0; i < tabWidth && !m.session.IsComplete(); i++ {
				m.handleKey(' ')
			}
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				if m.session.IsComplete() {
					break
				}
				m.handleKey(r)
			}
		default:
			return m, nil
		}
		if m.session.IsComplete() {
			return m, m.finishSession()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		return m, nil
	case statsui.RetryMsg:
		m.logger.Info("session retry", zap.String("source", m.text.Source))
		m.startSession(m.text)
		return m, tick()
	case statsui.NextMsg:
		text, err := m.next(m.weakKeys())
		if err != nil {
			m.logger.Error("failed to prepare next text", zap.Error(err))
			m.report.SetError(fmt.Sprintf("failed to prepare next text: %v", err))
			return m, nil
		}
		m.startSession(text)
		return m, tick()
	}
	_, cmd := m.report.Update(msg)
	return m, cmd
}

// weakKeys picks the keys to emphasize in the next session.
func (m *Model) weakKeys() map[rune]struct{} {
	if !m.config.FocusWeak || m.last == nil {
		return nil
	}
	weak := stats.SelectWeakKeys(*m.last, m.config.WeakTop)
	if len(weak) == 0 {
		return nil
	}
	keys := make([]string, 0, len(weak))
	for r := range weak {
		keys = append(keys, string(r))
	}
	m.logger.Debug("weak keys selected", zap.Strings("keys", keys))
	return weak
}

func (m *Model) handleKey(r rune) {
	m.session.HandleKey(r)
	frozen := m.session.IsFrozen()
	if frozen && !m.frozen {
		m.logger.Warn("input frozen", zap.Int("position", m.session.Position()))
	}
	m.frozen = frozen
}

func (m *Model) startSession(text textsource.Text) {
	m.text = text
	m.session = typing.NewSession(text.Content, typing.WithClock(m.clock))
	m.frozen = false
	m.screen = screenTyping
	m.report = nil
	m.logger.Info("session started",
		zap.String("source", text.Source),
		zap.Int("chars", len([]rune(text.Content))),
	)
}

func (m *Model) finishSession() tea.Cmd {
	report := m.session.GenerateReport()
	m.last = &report
	m.completed++
	m.logger.Info("session complete",
		zap.Float64("wpm", report.WPM),
		zap.Float64("accuracy", report.Accuracy),
		zap.Int("errors", len(report.Errors)),
		zap.Duration("duration", report.SessionDuration),
	)

	m.report = statsui.NewModel(report, statsui.Options{
		ExportDir:    m.config.ExportDir,
		ExportFormat: m.config.ExportFormat,
		Logger:       m.logger,
		Now:          m.clock,
	})
	m.screen = screenReport
	if m.width > 0 && m.height > 0 {
		m.report.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return tea.ClearScreen
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.screen == screenReport {
		return m.report.View()
	}
	rows := buildStyledLines(m.session.StyledText())
	status := m.renderStatus()
	if m.width == 0 || m.height == 0 {
		return wrapStyledLines(rows, 0) + "\n\n" + status
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	wrapped := wrapStyledLines(rows, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped + "\n\n" + status)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderStatus() string {
	state, _ := m.session.Status()
	text := m.session.StatusText()
	switch state {
	case typing.StateFrozen:
		return frozenStyle.Render(text)
	case typing.StateErrorBuffering:
		return bufferingStyle.Render(text)
	default:
		return readyStyle.Render(text)
	}
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Progress %d%%", int(m.session.Progress()*100)),
		fmt.Sprintf("%.1f WPM · %.1f%%", m.session.CalculateWPM(), m.session.CalculateAccuracy()),
		fmt.Sprintf("%.0fs", m.session.Elapsed().Seconds()),
	}
	if m.text.Source != "" {
		segments = append(segments, m.text.Source)
	}
	if m.last != nil {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.last.WPM, m.last.Accuracy))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
