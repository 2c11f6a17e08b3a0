// Package statsui provides the Bubble Tea report screen shown after a session.
package statsui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/NishantJoshi00/typetester/internal/export"
	"github.com/NishantJoshi00/typetester/internal/model"
	"github.com/NishantJoshi00/typetester/internal/stats"
)

const (
	tabCharts = iota
	tabAnalysis
	tabKeys
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// RetryMsg asks the parent program to restart the session with the same text.
type RetryMsg struct{}

// NextMsg asks the parent program to start a session with new text.
type NextMsg struct{}

// Options configures the report screen.
type Options struct {
	ExportDir    string
	ExportFormat string
	Logger       *zap.Logger
	// Standalone disables retry and next, for reports loaded from disk.
	Standalone bool
	// Now stamps export file names. Defaults to time.Now.
	Now func() time.Time
}

// Model implements the Bubble Tea report screen.
type Model struct {
	report model.SessionReport
	opts   Options

	tabs      []string
	activeTab int
	viewports []viewport.Model
	keyTable  table.Model
	keyLayout tableLayout

	width  int
	height int

	exportMode   bool
	exportInput  textinput.Model
	exportFormat string
	exportError  string

	status    string
	statusErr bool
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a report screen for report.
func NewModel(report model.SessionReport, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatJSON
	}
	m := &Model{
		report:       report,
		opts:         opts,
		tabs:         []string{"Charts", "Analysis", "Keys"},
		exportFormat: opts.ExportFormat,
	}
	m.initExportInput()
	m.initViewports()
	m.keyTable = buildKeyTable(report.KeyStats, 0, 1)
	m.renderTabContents()
	return m
}

// Report returns the report shown on screen.
func (m *Model) Report() model.SessionReport {
	return m.report
}

// SetError shows msg in the footer as an error.
func (m *Model) SetError(msg string) {
	m.status = msg
	m.statusErr = true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.exportMode {
			return m.updateExport(msg)
		}
		if m.activeTab == tabKeys {
			m.keyTable.Focus()
		} else {
			m.keyTable.Blur()
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "e":
			return m.startExport()
		case "r":
			if m.opts.Standalone {
				return m, nil
			}
			return m, func() tea.Msg { return RetryMsg{} }
		case "n":
			if m.opts.Standalone {
				return m, nil
			}
			return m, func() tea.Msg { return NextMsg{} }
		case "g", "home":
			if m.activeTab == tabKeys {
				m.keyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabKeys {
				m.keyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabKeys {
				var cmd tea.Cmd
				m.keyTable, cmd = m.keyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.exportMode {
		return fitLines(m.renderExportModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initExportInput() {
	input := textinput.New()
	input.Prompt = "Directory: "
	input.Placeholder = "."
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m.exportInput = input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.status != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setKeyTableSize(m.width, vpHeight)
	promptWidth := lipgloss.Width(m.exportInput.Prompt)
	m.exportInput.Width = max(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabKeys {
		m.keyTable.Focus()
	} else {
		m.keyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(headerStyle.Render(truncateLine(stats.Summary(m.report), m.width)), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Export: e  Retry: r  Next: n  Quit: q"
	if m.opts.Standalone {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Export: e  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.status == "" {
		return m.renderHelp()
	}
	style := okStyle
	if m.statusErr {
		style = errorStyle
	}
	return m.renderHelp() + "\n" + style.Render(truncateLine(m.status, m.width))
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabKeys {
		if len(m.report.KeyStats) == 0 {
			return fitLines("No keys typed.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.keyTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabCharts].SetContent(renderCharts(m.report, width))
	m.viewports[tabAnalysis].SetContent(renderAnalysis(m.report))
	_, bodyHeight, _ := m.layoutHeights()
	m.keyTable.SetRows(buildKeyRows(m.report.KeyStats))
	m.setKeyTableSize(width, bodyHeight)
}

func renderCharts(report model.SessionReport, width int) string {
	cards := renderSummaryCards(report, width)
	var buf bytes.Buffer
	if err := stats.RenderCharts(&buf, report, width, true); err != nil {
		return fmt.Sprintf("Failed to render charts: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderAnalysis(report model.SessionReport) string {
	var buf bytes.Buffer
	if err := stats.RenderAnalysis(&buf, report); err != nil {
		return fmt.Sprintf("Failed to render analysis: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummaryCards(report model.SessionReport, width int) string {
	cards := []string{
		metricCard("WPM", fmt.Sprintf("%.1f", report.WPM)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", report.Accuracy)),
		metricCard("Errors", fmt.Sprintf("%d", len(report.Errors))),
		metricCard("Duration", fmt.Sprintf("%.1fs", report.SessionDuration.Seconds())),
		metricCard("Avg Latency", fmt.Sprintf("%dms", report.AverageLatency.Milliseconds())),
		metricCard("Corrections", fmt.Sprintf("%d", report.TotalCorrections)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func keyColumns() []table.Column {
	return []table.Column{
		{Title: "Key", Width: 6},
		{Title: "Count", Width: 6},
		{Title: "Errors", Width: 7},
		{Title: "Error %", Width: 8},
		{Title: "Avg Latency (ms)", Width: 17},
	}
}

func buildKeyTable(keyStats map[string]model.KeyStat, width, height int) table.Model {
	t := table.New(
		table.WithColumns(keyColumns()),
		table.WithRows(buildKeyRows(keyStats)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(keyTableStyles())
	return t
}

func buildKeyRows(keyStats map[string]model.KeyStat) []table.Row {
	rows := make([]table.Row, 0, len(keyStats))
	for _, stat := range sortKeyStatsByCount(keyStats) {
		errPct := 0.0
		avg := 0.0
		if stat.Count > 0 {
			errPct = float64(stat.ErrorCount) / float64(stat.Count) * 100
			avg = float64(stat.TotalLatency.Milliseconds()) / float64(stat.Count)
		}
		rows = append(rows, table.Row{
			stats.KeyLabel(stat.Key),
			fmt.Sprintf("%d", stat.Count),
			fmt.Sprintf("%d", stat.ErrorCount),
			fmt.Sprintf("%.1f%%", errPct),
			fmt.Sprintf("%.1f", avg),
		})
	}
	return rows
}

func sortKeyStatsByCount(keyStats map[string]model.KeyStat) []model.KeyStat {
	out := make([]model.KeyStat, 0, len(keyStats))
	for key, stat := range keyStats {
		stat.Key = key
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Key < out[j].Key
		}
		return out[i].Count > out[j].Count
	})
	return out
}

func (m *Model) setKeyTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.keyLayout.width == width && m.keyLayout.height == viewportHeight {
		return
	}
	m.keyLayout.width = width
	m.keyLayout.height = viewportHeight
	m.keyTable.SetWidth(width)
	m.keyTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustKeyTableHeight(height)
	if m.keyLayout.height != viewportHeight {
		m.keyLayout.height = viewportHeight
		m.keyTable.SetHeight(viewportHeight)
	}
}

func keyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustKeyTableHeight corrects the table height so its rendered view,
// header and border included, fills the body exactly.
func (m *Model) adjustKeyTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.keyTable.Height()
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(m.keyTable.View())
		if viewHeight == target {
			return height
		}
		height = max(1, height+target-viewHeight)
		m.keyTable.SetHeight(height)
	}
	return height
}

func (m *Model) startExport() (tea.Model, tea.Cmd) {
	m.exportMode = true
	m.exportError = ""
	m.exportInput.SetValue(m.opts.ExportDir)
	m.exportInput.CursorEnd()
	return m, m.exportInput.Focus()
}

func (m *Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.exportMode = false
		m.exportError = ""
		m.exportInput.Blur()
		return m, nil
	case tea.KeyTab:
		m.exportFormat = nextFormat(m.exportFormat)
		return m, nil
	case tea.KeyEnter:
		dir := strings.TrimSpace(m.exportInput.Value())
		path, err := export.Write(dir, m.exportFormat, m.report, m.opts.Now())
		if err != nil {
			m.opts.Logger.Error("report export failed", zap.String("dir", dir), zap.Error(err))
			m.exportError = err.Error()
			return m, nil
		}
		m.opts.Logger.Info("report exported", zap.String("path", path), zap.String("format", m.exportFormat))
		m.opts.ExportDir = dir
		m.exportMode = false
		m.exportError = ""
		m.exportInput.Blur()
		m.status = fmt.Sprintf("Report saved to %s", path)
		m.statusErr = false
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.exportInput, cmd = m.exportInput.Update(msg)
	return m, cmd
}

func nextFormat(current string) string {
	for i, f := range export.Formats {
		if f == current {
			return export.Formats[(i+1)%len(export.Formats)]
		}
	}
	return export.Formats[0]
}

func (m *Model) renderExportModal() string {
	body := []string{
		cardValueStyle.Render("Export Report"),
		m.exportInput.View(),
		fmt.Sprintf("Format: %s", m.exportFormat),
		headerStyle.Render("Tab to switch format / Enter to save / Esc to cancel"),
	}
	if m.exportError != "" {
		body = append(body, errorStyle.Render(m.exportError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
