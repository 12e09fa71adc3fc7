// Package idgen provides driven.IDGenerator implementations.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

// Ensure generators implement the interface.
var (
	_ driven.IDGenerator = UUID{}
	_ driven.IDGenerator = (*Sequence)(nil)
)

// UUID generates time-ordered UUIDv7 identifiers: a millisecond timestamp
// followed by random bits.
type UUID struct{}

// NewID returns a new identifier.
func (UUID) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails if the random source fails.
		return uuid.NewString()
	}
	return id.String()
}

// Sequence generates predictable identifiers (prefix-1, prefix-2, ...).
// It is safe for concurrent use.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence creates a sequence with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
