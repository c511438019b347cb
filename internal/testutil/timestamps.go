package testutil

import (
	"sync"
	"time"

	"github.com/roach88/sqlast/internal/ast"
)

// Epoch is the first instant handed out by a Timestamps sequence.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Timestamps hands out deterministic, strictly increasing DateTime values
// for fixtures, one second apart.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Timestamps struct {
	mu  sync.Mutex
	seq int64
}

// NewTimestamps creates a sequence whose first value is Epoch.
func NewTimestamps() *Timestamps {
	return &Timestamps{}
}

// Next returns the next timestamp.
func (ts *Timestamps) Next() ast.DateTime {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t := Epoch.Add(time.Duration(ts.seq) * time.Second)
	ts.seq++
	return ast.NewDateTime(t)
}

// Reset restarts the sequence at Epoch.
func (ts *Timestamps) Reset() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.seq = 0
}
