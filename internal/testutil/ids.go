package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable UUID-shaped IDs for tests:
// 00000000-0000-7000-8000-000000000001, ...000002, and so on.
//
// It satisfies store.IDGenerator, so recorded history can be compared
// byte for byte across runs. Safe for concurrent use.
type SequentialIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialIDs creates a generator whose first ID ends in 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return FormatID(g.seq)
}

// Count returns how many IDs have been generated.
func (g *SequentialIDs) Count() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset starts the sequence over.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FormatID returns the ID Generate produces for sequence number n.
func FormatID(n int64) string {
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", n)
}
