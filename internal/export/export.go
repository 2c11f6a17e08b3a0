// Package export writes session reports to disk and reads them back.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted values for the export format setting.
var Formats = []string{FormatJSON, FormatYAML}

// ValidFormat reports whether format is a supported export format.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// FileName returns the report file name for a report exported at now.
func FileName(format string, now time.Time) string {
	return fmt.Sprintf("typing_report_%s.%s", now.Format("20060102_150405"), format)
}

// Write encodes report in format and stores it in dir. The file is written
// to a temporary name first and renamed into place. It returns the final path.
func Write(dir, format string, report model.SessionReport, now time.Time) (string, error) {
	data, err := Encode(format, report)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(format, now))

	tmpFile, err := os.CreateTemp(dir, "typing_report-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Encode serializes report in format.
func Encode(format string, report model.SessionReport) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var doc yaml.Node
		if err := doc.Encode(report); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		quoteControlScalars(&doc)
		data, err := yaml.Marshal(&doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use %s)", format, strings.Join(Formats, " or "))
	}
}

// quoteControlScalars double-quotes strings holding control characters.
// Block scalars cannot carry a lone newline or tab back through a decode.
func quoteControlScalars(node *yaml.Node) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" &&
		strings.IndexFunc(node.Value, unicode.IsControl) >= 0 {
		node.Style = yaml.DoubleQuotedStyle
	}
	for _, child := range node.Content {
		quoteControlScalars(child)
	}
}

// Read loads a report written by Write. The format follows the file extension;
// anything other than .yaml or .yml is decoded as JSON.
func Read(path string) (model.SessionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SessionReport{}, fmt.Errorf("failed to read report: %w", err)
	}
	var report model.SessionReport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &report); err != nil {
			return model.SessionReport{}, fmt.Errorf("failed to decode report: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &report); err != nil {
			return model.SessionReport{}, fmt.Errorf("failed to decode report: %w", err)
		}
	}
	return report, nil
}
