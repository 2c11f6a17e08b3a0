// Package main provides the CLI entrypoint for typetester.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/NishantJoshi00/typetester/internal/config"
	"github.com/NishantJoshi00/typetester/internal/export"
	"github.com/NishantJoshi00/typetester/internal/generator"
	"github.com/NishantJoshi00/typetester/internal/logging"
	"github.com/NishantJoshi00/typetester/internal/model"
	"github.com/NishantJoshi00/typetester/internal/stats"
	"github.com/NishantJoshi00/typetester/internal/statsui"
	"github.com/NishantJoshi00/typetester/internal/textsource"
	"github.com/NishantJoshi00/typetester/internal/tui"
	"github.com/NishantJoshi00/typetester/internal/wordlist"
)

const (
	defaultSize         = string(model.ChunkMedium)
	defaultLang         = "en"
	defaultWords        = 50
	defaultCaps         = 0.2
	defaultPunct        = 0.2
	defaultWeakTop      = 8
	defaultWeakFactor   = 2.0
	defaultExportDir    = "."
	defaultExportFormat = export.FormatJSON
	defaultAnalyzeWidth = 80
)

const defaultPunctSet = ".,!?;:\"'()-"

var (
	practiceFile         string
	practiceSize         string
	practiceInception    bool
	practiceLang         string
	practiceWords        int
	practiceCaps         float64
	practicePunct        float64
	practicePunctSet     string
	practiceWordList     string
	practiceFocusWeak    bool
	practiceWeakTop      int
	practiceWeakFactor   float64
	practiceWeakFrom     string
	practiceExportDir    string
	practiceExportFormat string

	analyzePlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetester",
		Short:         "Terminal typing tester with keystroke analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&practiceFile, "file", "f", "", "practice on a chunk of this file")
	flags.StringVarP(&practiceSize, "size", "s", defaultSize, "chunk size for file practice (small, medium, large)")
	flags.BoolVar(&practiceInception, "inception", false, "practice on typetester's own source code")
	flags.StringVar(&practiceLang, "lang", defaultLang, "word list filter ("+strings.Join(wordlist.Languages, ", ")+")")
	flags.IntVar(&practiceWords, "words", defaultWords, "words per text in word mode")
	flags.Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	flags.StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	flags.StringVar(&practiceWordList, "wordlist", "", "word list file, one word per line (default: built-in list)")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "bias new texts toward keys missed in the previous session")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	flags.Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak keys")
	flags.StringVar(&practiceWeakFrom, "weak-from", "", "exported report to take weak keys from for the first text")
	flags.StringVar(&practiceExportDir, "export-dir", defaultExportDir, "directory for exported reports")
	flags.StringVar(&practiceExportFormat, "export-format", defaultExportFormat, "export format ("+strings.Join(export.Formats, ", ")+")")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAnalyzeCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(fileCfg)
	defer func() {
		_ = logger.Sync()
	}()

	applyPracticeConfig(cmd, fileCfg)
	size, err := textsource.ParseChunkSize(practiceSize)
	if err != nil {
		return err
	}
	cfg := model.Config{
		File:         practiceFile,
		Size:         size,
		Inception:    practiceInception,
		Lang:         practiceLang,
		Words:        practiceWords,
		CapsPct:      practiceCaps,
		PunctPct:     practicePunct,
		PunctSet:     practicePunctSet,
		WordListPath: practiceWordList,
		FocusWeak:    practiceFocusWeak,
		WeakTop:      practiceWeakTop,
		WeakFactor:   practiceWeakFactor,
		WeakFrom:     practiceWeakFrom,
		ExportDir:    practiceExportDir,
		ExportFormat: practiceExportFormat,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	next, err := newTextSource(cfg, rnd)
	if err != nil {
		return err
	}

	var weak map[rune]struct{}
	if cfg.WeakFrom != "" {
		report, err := export.Read(cfg.WeakFrom)
		if err != nil {
			return fmt.Errorf("failed to load --weak-from report: %w", err)
		}
		weak = stats.SelectWeakKeys(report, cfg.WeakTop)
		if len(weak) == 0 {
			logErrln("no missed keys in --weak-from report; using normal generator")
		}
	}
	text, err := next(weak)
	if err != nil {
		return err
	}
	logger.Info("practice started",
		zap.String("file", cfg.File),
		zap.String("size", string(cfg.Size)),
		zap.Bool("inception", cfg.Inception),
		zap.Bool("focus_weak", cfg.FocusWeak),
	)

	m := tui.NewModel(cfg, text, next, tui.WithLogger(logger))
	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if done, ok := final.(*tui.Model); ok {
		if report, ok := done.LastReport(); ok {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d session(s). Last: %s\n", done.Completed(), stats.Summary(report)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

// newTextSource returns the generator of practice texts for cfg. File and
// inception modes draw a new random chunk each time and ignore weak keys.
func newTextSource(cfg model.Config, rnd *rand.Rand) (tui.NextText, error) {
	switch {
	case cfg.Inception:
		return func(map[rune]struct{}) (textsource.Text, error) {
			return textsource.Inception(cfg.Size, rnd), nil
		}, nil
	case cfg.File != "":
		if _, err := os.Stat(cfg.File); err != nil {
			return nil, fmt.Errorf("failed to open practice file: %w", err)
		}
		return func(map[rune]struct{}) (textsource.Text, error) {
			return textsource.FromFile(cfg.File, cfg.Size, rnd)
		}, nil
	}

	wordPath := resolveWordListPath(cfg)
	words, err := wordlist.Load(wordPath, wordlist.FilterForLang(cfg.Lang))
	if err != nil {
		return nil, wordListLoadError(cfg.Lang, wordPath, err)
	}
	gen := generator.NewWithRand(rnd)
	opts := generator.Options{
		Count:      cfg.Words,
		CapsPct:    cfg.CapsPct,
		PunctPct:   cfg.PunctPct,
		PunctSet:   []rune(cfg.PunctSet),
		WeakFactor: cfg.WeakFactor,
	}
	return func(weak map[rune]struct{}) (textsource.Text, error) {
		o := opts
		o.Weak = weak
		return textsource.FromWords(gen, words, o)
	}, nil
}

func newLogger(fileCfg config.FileConfig) *zap.Logger {
	path := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		path = *fileCfg.Log.File
	}
	level := logging.DefaultLevel
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	logger, err := logging.New(logging.Options{Path: path, Level: level})
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return logging.Nop()
	}
	return logger
}

func applyPracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	p := fileCfg.Practice
	applyStringConfig(cmd, "file", &practiceFile, p.File)
	applyStringConfig(cmd, "size", &practiceSize, p.Size)
	applyStringConfig(cmd, "lang", &practiceLang, p.Lang)
	applyIntConfig(cmd, "words", &practiceWords, p.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, p.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, p.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, p.PunctSet)
	applyStringConfig(cmd, "wordlist", &practiceWordList, p.WordList)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)
	applyStringConfig(cmd, "export-dir", &practiceExportDir, fileCfg.Export.Dir)
	applyStringConfig(cmd, "export-format", &practiceExportFormat, fileCfg.Export.Format)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template to path unless a file exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <report-file>",
		Short: "Show an exported session report",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().BoolVar(&analyzePlain, "plain", false, "print the text report instead of opening the report screen")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	report, err := export.Read(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	if analyzePlain || !interactive {
		width := defaultAnalyzeWidth
		if interactive {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = w
			}
		}
		if err := stats.RenderReport(out, report, width, false); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(fileCfg)
	defer func() {
		_ = logger.Sync()
	}()
	exportDir, exportFormat := defaultExportDir, defaultExportFormat
	if fileCfg.Export.Dir != nil {
		exportDir = *fileCfg.Export.Dir
	}
	if fileCfg.Export.Format != nil {
		exportFormat = *fileCfg.Export.Format
	}
	m := statsui.NewModel(report, statsui.Options{
		ExportDir:    exportDir,
		ExportFormat: exportFormat,
		Logger:       logger,
		Standalone:   true,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run report TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetester configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# file = "main.go"        # Practice on a chunk of this file instead of words
# size = %q          # Chunk size for file practice: small, medium, large
# lang = %q               # Word list filter: en, any
# words = %d              # Words per text in word mode
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q
# wordlist = ""           # Word list file (default: built-in list)
# focus-weak = false      # Bias new texts toward keys missed in the previous session
# weak-top = %d           # Number of weak keys to focus on
# weak-factor = %.1f      # Weight factor for weak keys

[export]
# dir = %q
# format = %q          # json or yaml

[log]
# level = %q          # debug, info, warn, error
# file = %q
`,
		defaultSize,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultExportDir,
		defaultExportFormat,
		logging.DefaultLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.File != "" && cfg.Inception {
		return fmt.Errorf("--file and --inception cannot be used together")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if !export.ValidFormat(cfg.ExportFormat) {
		return fmt.Errorf("--export-format must be one of: %s", strings.Join(export.Formats, ", "))
	}
	return nil
}

// resolveWordListPath prefers an explicit word list, then a per-language list
// in the config directory. An empty result selects the built-in list.
func resolveWordListPath(cfg model.Config) string {
	if cfg.WordListPath != "" {
		return cfg.WordListPath
	}
	path := config.DefaultWordListPath(cfg.Lang)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func wordListLoadError(lang, path string, err error) error {
	if path == "" {
		path = "built-in list"
	}
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("word list: %s", path),
		fmt.Sprintf("language filter: %s", lang),
		"Try: typetester --lang any, or pass --wordlist <file>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
