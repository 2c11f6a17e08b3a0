// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words_en.txt
var defaultWords string

// Default returns the embedded English word list.
func Default() []string {
	words, err := parseWords(strings.NewReader(defaultWords), nil)
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return words
}

// Load returns the words in path, or the embedded list when path is empty.
// Words rejected by filter are dropped; a nil filter keeps everything.
func Load(path string, filter FilterFunc) ([]string, error) {
	if path == "" {
		words, err := parseWords(strings.NewReader(defaultWords), filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded word list: %w", err)
		}
		return words, nil
	}
	return LoadWords(path, filter)
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	words, err := parseWords(file, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

func parseWords(r io.Reader, filter FilterFunc) ([]string, error) {
	var words []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
