package words

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Picker draws uniformly random words from a corpus.
// One Picker owns one generator for the whole process; it is safe for
// concurrent use.
type Picker struct {
	mu     sync.Mutex
	rng    *rand.Rand
	corpus *Corpus
}

// NewPicker builds a Picker over c using src. Tests pass a fixed-seed source.
func NewPicker(c *Corpus, src rand.Source) *Picker {
	return &Picker{rng: rand.New(src), corpus: c}
}

// NewSeededSource returns a PCG source seeded from crypto/rand.
func NewSeededSource() rand.Source {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
}

// Pick returns a random word.
func (p *Picker) Pick() string {
	p.mu.Lock()
	i := p.rng.IntN(p.corpus.Len())
	p.mu.Unlock()
	return p.corpus.At(i)
}
