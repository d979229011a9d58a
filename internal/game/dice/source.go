package dice

import (
	"crypto/rand"
	"math/big"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0 or crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// FixedSource replays a fixed sequence of face values, cycling when it runs
// out. Face values are 1-based die results; each is reduced into [1, n].
type FixedSource struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewFixedSource returns a Source that yields faces in order.
//
// Precondition: len(faces) > 0.
func NewFixedSource(faces ...int) *FixedSource {
	if len(faces) == 0 {
		panic("dice: NewFixedSource requires at least one face")
	}
	return &FixedSource{faces: append([]int(nil), faces...)}
}

// Intn returns the next face minus one, wrapped into [0, n).
func (f *FixedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face := f.faces[f.next%len(f.faces)]
	f.next++
	v := (face - 1) % n
	if v < 0 {
		v += n
	}
	return v
}
