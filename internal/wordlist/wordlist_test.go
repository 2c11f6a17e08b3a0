package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWords(t *testing.T) {
	words := Default()
	if len(words) < 100 {
		t.Fatalf("expected a usable embedded list, got %d words", len(words))
	}
	filter := FilterForLang("en")
	for _, w := range words {
		if !filter(w) {
			t.Fatalf("embedded word %q fails the english filter", w)
		}
	}
}

func TestLoadWordsFiltersAndDedups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "alpha\n\n  beta  \nalpha\nnaïve\nGamma\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := Load(path, FilterForLang("en"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 || words[0] != "alpha" || words[1] != "beta" {
		t.Fatalf("unexpected words %v", words)
	}

	all, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 unique words without filter, got %v", all)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("résumé\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path, FilterForLang("en")); err == nil {
		t.Fatalf("expected error for a list with no usable words")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
