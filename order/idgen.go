package order

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints sequential v5 UUIDs inside a namespace. Two generators
// sharing a namespace produce identical sequences, which makes replays and
// cross-process reconciliation deterministic.
type IDGenerator struct {
	namespace uuid.UUID
	counter   atomic.Uint64
}

// NewIDGenerator creates a generator rooted at the given namespace.
func NewIDGenerator(namespace uuid.UUID) *IDGenerator {
	return &IDGenerator{namespace: namespace}
}

// Next returns the next id in the sequence. Safe for concurrent use.
func (g *IDGenerator) Next() uuid.UUID {
	n := g.counter.Add(1) - 1
	return uuid.NewSHA1(g.namespace, []byte(strconv.FormatUint(n, 10)))
}
