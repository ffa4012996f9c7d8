// Package coin implements the per-round common-coin abstraction: a
// threshold primitive that yields a single shared bit once t+1 nodes have
// contributed, used by pkg/abba to break ties.
//
// The interface is a thin Source + bookkeeping split so a threshold-
// signature or VRF backend can be swapped in without touching callers:
// CommonCoin owns the once-only freeze semantics, Source supplies the
// per-contribution bit.
package coin

import (
	"sync"

	"github.com/luxfi/ocioraba/pkg/party"
)

// Source produces one node's contribution toward a coin round. Swapping
// the Source never changes CommonCoin's freeze-once bookkeeping.
type Source interface {
	// Contribute returns node id's share bit for round.
	Contribute(id party.ID, round uint64) int
}

// CommonCoin accumulates contributions for a single (logical) round and
// freezes a value once t+1 have arrived.
type CommonCoin struct {
	n, t   int
	source Source

	mu           sync.Mutex
	contributed  map[party.ID]int
	order        []party.ID // first-received order, for the XOR reduction
	value        int
	hasValue     bool
}

// New creates a coin instance for an (n, t) cluster backed by source.
func New(n, t int, source Source) *CommonCoin {
	return &CommonCoin{
		n:           n,
		t:           t,
		source:      source,
		contributed: make(map[party.ID]int),
	}
}

// Contribute records id's share for round, computed via the configured
// Source. At most one contribution per node id is ever accepted. Once t+1
// contributions are present, the coin value is frozen as the XOR of the
// first t+1 contributions in receipt order and never changes again.
func (c *CommonCoin) Contribute(id party.ID, round uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.contributed[id]; ok {
		return
	}
	share := c.source.Contribute(id, round)
	c.contributed[id] = share
	c.order = append(c.order, id)

	if !c.hasValue && len(c.order) >= c.t+1 {
		v := 0
		for _, nodeID := range c.order[:c.t+1] {
			v ^= c.contributed[nodeID]
		}
		c.value = v
		c.hasValue = true
	}
}

// Value returns the frozen coin bit and true once it has been computed,
// or (0, false) while still awaiting contributions.
func (c *CommonCoin) Value() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.hasValue
}

// DeterministicSource is a simulation placeholder: share = (node_id*7 +
// round*13) mod 2. It is unpredictable to nobody — that's the point of
// calling it a placeholder — but it satisfies the freeze-at-t+1 contract
// the rest of the protocol relies on.
type DeterministicSource struct{}

// Contribute implements Source.
func (DeterministicSource) Contribute(id party.ID, round uint64) int {
	return int((uint64(id)*7 + round*13) % 2)
}
