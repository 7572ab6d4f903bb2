// apps/go-server/internal/words/words.go
//
// Word corpus for the duel.
//
// Responsibilities:
//   - Load the corpus from a file (WORDS_FILE) or fall back to the embedded list.
//   - Normalise entries: trimmed, uppercased, alphabetic only, de-duplicated.
//   - Keep the corpus immutable once built; callers only read it.
//
// Selection lives in picker.go.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/robalobadob/wordduel/apps/go-server/assets"
)

// ErrEmptyCorpus is returned when no usable word survives normalisation.
var ErrEmptyCorpus = errors.New("words: corpus is empty")

// Corpus is an ordered, read-only list of uppercase words.
type Corpus struct {
	words []string
}

// NewCorpus normalises list and returns a corpus, or ErrEmptyCorpus.
func NewCorpus(list []string) (*Corpus, error) {
	out := make([]string, 0, len(list))
	for _, line := range list {
		if w, ok := normalize(line); ok {
			out = append(out, w)
		}
	}
	out = lo.Uniq(out)
	if len(out) == 0 {
		return nil, ErrEmptyCorpus
	}
	return &Corpus{words: out}, nil
}

// Load reads the corpus from path, or from the embedded default when path is empty.
func Load(path string) (*Corpus, error) {
	if path == "" {
		list, err := assets.WordList()
		if err != nil {
			return nil, fmt.Errorf("read embedded words: %w", err)
		}
		return NewCorpus(list)
	}
	list, err := readWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewCorpus(list)
}

// Len reports the number of words.
func (c *Corpus) Len() int { return len(c.words) }

// At returns the i-th word.
func (c *Corpus) At(i int) string { return c.words[i] }

// Words returns a copy of the corpus.
func (c *Corpus) Words() []string {
	return append([]string(nil), c.words...)
}

// readWordFile loads one word per line, skipping blanks and # comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// normalize uppercases w and rejects anything that is not purely letters.
func normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" {
		return "", false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return w, true
}
