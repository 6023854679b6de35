package testutil

import (
	"fmt"
	"sync"
)

// FixedTokenSource returns predictable tokens for deterministic tests and
// golden trace comparison.
//
// Tokens are "<prefix>-1", "<prefix>-2", ... in call order. Unlike a
// scripted list there is no exhaustion to misconfigure; the counter just
// keeps going.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedTokenSource struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedTokenSource creates a token source with the given prefix.
func NewFixedTokenSource(prefix string) *FixedTokenSource {
	return &FixedTokenSource{prefix: prefix}
}

// Token returns the next token in the sequence.
func (s *FixedTokenSource) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// Count returns how many tokens have been handed out.
func (s *FixedTokenSource) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
