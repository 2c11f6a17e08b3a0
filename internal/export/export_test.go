package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NishantJoshi00/typetester/internal/model"
	"github.com/NishantJoshi00/typetester/internal/typing"
)

func sampleReport() model.SessionReport {
	return model.SessionReport{
		SessionDuration:   12500 * time.Millisecond,
		TotalCharacters:   40,
		CorrectCharacters: 38,
		WPM:               36.5,
		Accuracy:          95,
		AverageLatency:    180 * time.Millisecond,
		Errors: []model.ErrorEvent{
			{Kind: model.ErrorSubstitution, Position: 4, Expected: "e", Actual: "r", Timestamp: 2 * time.Second},
		},
		KeyStats: map[string]model.KeyStat{
			" ": {Key: " ", Count: 7, TotalLatency: 900 * time.Millisecond, LatenciesMs: []int64{100, 200}, Positions: []int{3, 9}},
		},
		TotalCorrections: 1,
		WeaknessAnalysis: model.WeaknessAnalysis{
			FingerErrors: map[string]int{"L-Middle -> L-Index": 1},
			RhythmBreaks: []int{12},
		},
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)
	if got := FileName(FormatJSON, now); got != "typing_report_20240307_090502.json" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestWriteAndReadBack(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			path, err := Write(dir, format, sampleReport(), now)
			if err != nil {
				t.Fatalf("write: %v", err)
			}
			if filepath.Dir(path) != dir || !strings.HasSuffix(path, "."+format) {
				t.Fatalf("unexpected path %q", path)
			}
			got, err := Read(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.SessionDuration != 12500*time.Millisecond || got.WPM != 36.5 {
				t.Fatalf("summary fields lost: %+v", got)
			}
			if len(got.Errors) != 1 || got.Errors[0].Expected != "e" || got.Errors[0].Timestamp != 2*time.Second {
				t.Fatalf("errors lost: %+v", got.Errors)
			}
			if got.KeyStats[" "].Count != 7 {
				t.Fatalf("space key stat lost: %+v", got.KeyStats)
			}
			if got.WeaknessAnalysis.FingerErrors["L-Middle -> L-Index"] != 1 {
				t.Fatalf("finger errors lost: %+v", got.WeaknessAnalysis.FingerErrors)
			}
		})
	}
}

func TestWriteAndReadBackControlCharacters(t *testing.T) {
	clock := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)
	session := typing.NewSession("a\n\tb", typing.WithClock(func() time.Time { return clock }))
	for _, r := range "a\nxb" {
		clock = clock.Add(150 * time.Millisecond)
		session.HandleKey(r)
		if r == 'x' {
			session.HandleKey(typing.Backspace)
			clock = clock.Add(150 * time.Millisecond)
			session.HandleKey('\t')
		}
	}
	if !session.IsComplete() {
		t.Fatalf("expected session to complete")
	}
	report := session.GenerateReport()

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			path, err := Write(t.TempDir(), format, report, clock)
			if err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := Read(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			for _, key := range []string{"\n", "\t"} {
				stat, ok := got.KeyStats[key]
				if !ok || stat.Key != key || stat.Count != report.KeyStats[key].Count {
					t.Fatalf("key stat %q lost: %+v", key, got.KeyStats)
				}
			}
			if _, ok := got.KeyStats[""]; ok {
				t.Fatalf("unexpected empty key after round trip: %+v", got.KeyStats)
			}
			if len(got.TypingRhythm) != len(report.TypingRhythm) {
				t.Fatalf("expected %d rhythm entries, got %d", len(report.TypingRhythm), len(got.TypingRhythm))
			}
			for i, entry := range got.TypingRhythm {
				if entry.Char != report.TypingRhythm[i].Char {
					t.Fatalf("rhythm char %d = %q, want %q", i, entry.Char, report.TypingRhythm[i].Char)
				}
			}
			if len(got.Errors) != 1 || got.Errors[0].Expected != "\t" || got.Errors[0].Actual != "x" {
				t.Fatalf("error event lost: %+v", got.Errors)
			}
		})
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, FormatYAML, sampleReport(), time.Now()); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
}

func TestWriteCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	if _, err := Write(dir, FormatJSON, sampleReport(), time.Now()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected export dir to exist: %v", err)
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, "xml", sampleReport(), time.Now()); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files after failed export")
	}
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestValidFormat(t *testing.T) {
	cases := map[string]bool{"json": true, "yaml": true, "yml": false, "": false}
	for format, want := range cases {
		if got := ValidFormat(format); got != want {
			t.Fatalf("ValidFormat(%q) = %v, want %v", format, got, want)
		}
	}
}
