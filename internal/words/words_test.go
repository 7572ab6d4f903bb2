package words

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCorpus_NormalisesAndDeduplicates(t *testing.T) {
	req := require.New(t)

	c, err := NewCorpus([]string{" apple ", "APPLE", "house", "two words", "r2d2", ""})

	req.NoError(err)
	req.Equal([]string{"APPLE", "HOUSE"}, c.Words())
	req.Equal(2, c.Len())
}

func TestNewCorpus_Empty(t *testing.T) {
	_, err := NewCorpus([]string{"", "123", "  "})
	require.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestLoad_Embedded(t *testing.T) {
	req := require.New(t)

	c, err := Load("")

	req.NoError(err)
	req.Greater(c.Len(), 10)
	for _, w := range c.Words() {
		req.Regexp(`^[A-Z]+$`, w)
	}
}

func TestLoad_File(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	req.NoError(os.WriteFile(path, []byte("# comment\nhouse\n\nmouse\n"), 0o600))

	c, err := Load(path)

	req.NoError(err)
	req.Equal([]string{"HOUSE", "MOUSE"}, c.Words())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestPicker_DeterministicWithFixedSeed(t *testing.T) {
	req := require.New(t)
	c, err := NewCorpus([]string{"alpha", "bravo", "charlie", "delta"})
	req.NoError(err)

	a := NewPicker(c, rand.NewPCG(1, 2))
	b := NewPicker(c, rand.NewPCG(1, 2))

	for i := 0; i < 20; i++ {
		w := a.Pick()
		req.Equal(w, b.Pick())
		req.Contains(c.Words(), w)
	}
}

func TestPicker_CoversCorpus(t *testing.T) {
	req := require.New(t)
	c, err := NewCorpus([]string{"alpha", "bravo", "charlie"})
	req.NoError(err)
	p := NewPicker(c, NewSeededSource())

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		seen[p.Pick()] = true
	}
	req.Len(seen, 3)
}
