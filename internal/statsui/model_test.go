package statsui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NishantJoshi00/typetester/internal/export"
	"github.com/NishantJoshi00/typetester/internal/model"
)

func testReport() model.SessionReport {
	return model.SessionReport{
		SessionDuration:   10 * time.Second,
		TotalCharacters:   12,
		CorrectCharacters: 11,
		WPM:               13.2,
		Accuracy:          91.7,
		AverageLatency:    200 * time.Millisecond,
		Errors: []model.ErrorEvent{
			{Kind: model.ErrorSubstitution, Position: 3, Expected: "l", Actual: "k", Timestamp: time.Second},
		},
		KeyStats: map[string]model.KeyStat{
			"l": {Key: "l", Count: 3, TotalLatency: 600 * time.Millisecond, ErrorCount: 1},
			" ": {Key: " ", Count: 3, TotalLatency: 300 * time.Millisecond},
			"o": {Key: "o", Count: 5, TotalLatency: 500 * time.Millisecond},
		},
	}
}

func newSizedModel(t *testing.T, opts Options) *Model {
	t.Helper()
	m := NewModel(testReport(), opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabNavigationWraps(t *testing.T) {
	m := newSizedModel(t, Options{})
	m.Update(keyRunes("h"))
	if m.activeTab != tabKeys {
		t.Fatalf("expected wrap to keys tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabCharts {
		t.Fatalf("expected wrap back to charts tab, got %d", m.activeTab)
	}
}

func TestRetryAndNextMessages(t *testing.T) {
	m := newSizedModel(t, Options{})
	_, cmd := m.Update(keyRunes("r"))
	if cmd == nil {
		t.Fatalf("expected retry command")
	}
	if _, ok := cmd().(RetryMsg); !ok {
		t.Fatalf("expected RetryMsg")
	}
	_, cmd = m.Update(keyRunes("n"))
	if cmd == nil {
		t.Fatalf("expected next command")
	}
	if _, ok := cmd().(NextMsg); !ok {
		t.Fatalf("expected NextMsg")
	}
}

func TestStandaloneIgnoresRetry(t *testing.T) {
	m := newSizedModel(t, Options{Standalone: true})
	if _, cmd := m.Update(keyRunes("r")); cmd != nil {
		t.Fatalf("expected no command in standalone mode")
	}
	if strings.Contains(m.renderHelp(), "Retry") {
		t.Fatalf("standalone help should not offer retry")
	}
}

func TestExportWritesReport(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newSizedModel(t, Options{
		ExportDir:    dir,
		ExportFormat: export.FormatJSON,
		Now:          func() time.Time { return now },
	})

	m.Update(keyRunes("e"))
	if !m.exportMode {
		t.Fatalf("expected export modal")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.exportFormat != export.FormatYAML {
		t.Fatalf("expected tab to switch format, got %q", m.exportFormat)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.exportMode {
		t.Fatalf("expected modal to close after export: %s", m.exportError)
	}

	want := filepath.Join(dir, "typing_report_20240102_030405.yaml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	if !strings.Contains(m.status, want) || m.statusErr {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestExportEscCancels(t *testing.T) {
	dir := t.TempDir()
	m := newSizedModel(t, Options{ExportDir: dir})
	m.Update(keyRunes("e"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.exportMode {
		t.Fatalf("expected modal to close")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected nothing written on cancel")
	}
}

func TestBuildKeyRowsOrder(t *testing.T) {
	rows := buildKeyRows(testReport().KeyStats)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "o" || rows[1][0] != "Space" || rows[2][0] != "l" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[2][3] != "33.3%" || rows[2][4] != "200.0" {
		t.Fatalf("unexpected error/latency cells: %v", rows[2])
	}
}

func TestViewFitsWindow(t *testing.T) {
	m := newSizedModel(t, Options{})
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 40 {
		t.Fatalf("expected 40 lines, got %d", len(lines))
	}
	if !strings.Contains(m.View(), "WPM: 13.2") {
		t.Fatalf("expected summary in header")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdef", 5); got != "ab..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 5); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
