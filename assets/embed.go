// apps/go-server/assets/embed.go
//
// Files compiled into the binary:
//   - words.txt:        default word corpus, used when WORDS_FILE is unset.
//   - migrations/*.sql: schema for the SQLite round-history store.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt migrations/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the raw lines of the embedded corpus.
// Normalisation is left to the words package.
func WordList() ([]string, error) {
	return readLines("words.txt")
}

// Migrations exposes the embedded migrations directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "migrations")
}
