// Package textsource selects practice text from files or generated words.
package textsource

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/NishantJoshi00/typetester/internal/generator"
	"github.com/NishantJoshi00/typetester/internal/model"
)

//go:embed textsource.go
var ownSource string

const (
	minCodeBlockChars = 200
	minParagraphChars = 100
	tabSpaces         = "    "
)

var codeExtensions = map[string]struct{}{
	".rs": {}, ".py": {}, ".js": {}, ".ts": {}, ".cpp": {}, ".c": {}, ".java": {}, ".go": {},
}

var blockPrefixes = []string{
	"fn ", "pub fn ", "func ", "struct ", "impl ", "enum ", "class ", "def ", "function ",
}

// Text is a selected practice text and where it came from.
type Text struct {
	Source  string
	Content string
}

type sizeRange struct {
	minChars, maxChars int
	minLines, maxLines int
}

// ParseChunkSize validates a chunk size name.
func ParseChunkSize(s string) (model.ChunkSize, error) {
	switch model.ChunkSize(strings.ToLower(strings.TrimSpace(s))) {
	case model.ChunkSmall:
		return model.ChunkSmall, nil
	case model.ChunkMedium:
		return model.ChunkMedium, nil
	case model.ChunkLarge:
		return model.ChunkLarge, nil
	default:
		return "", fmt.Errorf("invalid size %q (use small, medium or large)", s)
	}
}

func rangeFor(size model.ChunkSize) sizeRange {
	switch size {
	case model.ChunkLarge:
		return sizeRange{minChars: 3200, maxChars: 4800, minLines: 80, maxLines: 120}
	case model.ChunkMedium:
		return sizeRange{minChars: 1600, maxChars: 3200, minLines: 40, maxLines: 80}
	default:
		return sizeRange{minChars: 800, maxChars: 1600, minLines: 20, maxLines: 40}
	}
}

// FromFile reads path and picks a chunk of it sized for practice.
func FromFile(path string, size model.ChunkSize, rnd *rand.Rand) (Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Text{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return Text{}, fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	name := filepath.Base(path)
	content := Snippet(normalize(string(data)), name, size, rnd)
	if content == "" {
		return Text{}, fmt.Errorf("%s has no text to practice", path)
	}
	return Text{Source: name, Content: content}, nil
}

// Inception picks a chunk of this package's own source code.
func Inception(size model.ChunkSize, rnd *rand.Rand) Text {
	return Text{
		Source:  "textsource.go (inception)",
		Content: Snippet(normalize(ownSource), "textsource.go", size, rnd),
	}
}

// FromWords generates word-mode text.
func FromWords(gen *generator.Generator, words []string, opts generator.Options) (Text, error) {
	content := gen.Text(words, opts)
	if content == "" {
		return Text{}, fmt.Errorf("no words to practice")
	}
	return Text{Source: fmt.Sprintf("%d words", opts.Count), Content: content}, nil
}

type paragraph struct {
	content string
	chars   int
	score   float64
}

// Snippet chooses a chunk of content: a random paragraph inside the size
// range, else one at least half the minimum, else a window of lines taken
// from a third of the way into the file.
func Snippet(content, filename string, size model.ChunkSize, rnd *rand.Rand) string {
	r := rangeFor(size)
	paragraphs := findParagraphs(content, filename)
	for i := range paragraphs {
		paragraphs[i].score = scoreParagraph(paragraphs[i].content, filename)
	}
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].score > paragraphs[j].score
	})

	fits := func(p paragraph) bool { return p.chars >= r.minChars && p.chars <= r.maxChars }
	if chosen, ok := pick(paragraphs, fits, rnd); ok {
		return strings.TrimSpace(chosen.content)
	}
	acceptable := func(p paragraph) bool { return p.chars >= r.minChars/2 }
	if chosen, ok := pick(paragraphs, acceptable, rnd); ok {
		return strings.TrimSpace(chosen.content)
	}

	lines := strings.Split(content, "\n")
	start := len(lines) / 3
	end := min(start+r.maxLines, len(lines))
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

func pick(paragraphs []paragraph, keep func(paragraph) bool, rnd *rand.Rand) (paragraph, bool) {
	var candidates []paragraph
	for _, p := range paragraphs {
		if keep(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return paragraph{}, false
	}
	return candidates[rnd.Intn(len(candidates))], true
}

func isCode(filename string) bool {
	_, ok := codeExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

func findParagraphs(content, filename string) []paragraph {
	if !isCode(filename) {
		var out []paragraph
		for _, text := range strings.Split(content, "\n\n") {
			if utf8.RuneCountInString(strings.TrimSpace(text)) > minParagraphChars {
				out = append(out, paragraph{content: text, chars: utf8.RuneCountInString(text)})
			}
		}
		return out
	}

	lines := strings.Split(content, "\n")
	var out []paragraph
	start, depth, inBlock := 0, 0, false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if depth == 0 && hasBlockPrefix(trimmed) {
			start = i
			inBlock = true
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if inBlock && depth == 0 && strings.Contains(line, "}") {
			block := strings.Join(lines[start:i+1], "\n")
			if n := utf8.RuneCountInString(block); n > minCodeBlockChars {
				out = append(out, paragraph{content: block, chars: n})
			}
			inBlock = false
		}
	}
	return out
}

func hasBlockPrefix(line string) bool {
	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// scoreParagraph rates how useful a chunk is for practice. Higher is better.
func scoreParagraph(content, filename string) float64 {
	length := float64(utf8.RuneCountInString(content))
	score := 5.0
	if length > 50 && length < 500 {
		score = 10
	}
	unique := map[rune]struct{}{}
	for _, r := range content {
		unique[r] = struct{}{}
	}
	score += float64(len(unique)) * 0.5

	if isCode(filename) {
		score += codeScore(content)
	} else {
		score += proseScore(content)
	}

	if length < 100 {
		score -= 5
	}
	if length > 1000 {
		score -= 3
	}
	return math.Max(score, 0)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func codeScore(content string) float64 {
	score := 0.0
	if containsAny(content, "fn ", "func ", "function ", "def ") {
		score += 15
	}
	if containsAny(content, "if ", "for ", "while ", "match ", "switch ") {
		score += 10
	}
	if containsAny(content, "struct ", "class ", "enum ") {
		score += 12
	}
	if containsAny(content, "Result", "Option", "Error", "err", "try", "catch", "except") {
		score += 8
	}
	if (strings.Contains(content, "<") && strings.Contains(content, ">")) || strings.Contains(content, "impl ") {
		score += 12
	}

	lines := strings.Split(content, "\n")
	comments, imports := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "#") {
			comments++
		}
		if containsAny(line, "import ", "use ", "#include") {
			imports++
		}
	}
	score -= float64(comments) / float64(len(lines)) * 10
	if imports > 3 {
		score -= 5
	}
	return score
}

func proseScore(content string) float64 {
	score := 0.0
	words := len(strings.Fields(content))
	if words > 20 && words < 150 {
		score += 10
	}
	punct, sentences := 0, 0
	for _, r := range content {
		if strings.ContainsRune(".,;:!?\"'()-[]{}", r) {
			punct++
		}
		if strings.ContainsRune(".!?", r) {
			sentences++
		}
	}
	return score + float64(punct)*0.3 + float64(sentences)*2
}

// normalize makes file text typeable: LF line endings, tabs as the four
// spaces the Tab key sends, and no invisible trailing whitespace.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", tabSpaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
