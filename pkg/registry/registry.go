// Package registry implements the addressable node membership C7 describes:
// a fixed-at-construction map from node identity to node handle, read
// concurrently by vote injection (fan-out of ABBA inputs). Share deliveries
// do not go through it: pkg/rbc's broadcasters hold their own recipient set.
package registry

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ocioraba/pkg/party"
)

// Voter is the subset of a node's API the registry needs to inject a vote
// into a remote ABBA instance.
type Voter interface {
	OnVote(proposer party.ID, voter party.ID, bit int)
}

// Registry is an addressable, fixed-membership collection of node handles.
type Registry interface {
	// Get returns the handle for id, or false if id is not a member.
	Get(id party.ID) (Voter, bool)
	// IDs returns the fixed membership, ascending.
	IDs() []party.ID
	// Broadcast injects (proposer, voter, bit) into every member's ABBA[proposer].
	Broadcast(proposer party.ID, voter party.ID, bit int)
}

// LocalRegistry is the in-process realization: a concurrent-safe map fixed
// at construction, fanning broadcasts out with one goroutine per member via
// golang.org/x/sync/errgroup so the threaded realization (§5 model 2) can
// deliver concurrently while the single-threaded cooperative simulation
// calls the same interface and simply serializes through the errgroup's
// wait.
type LocalRegistry struct {
	mu      sync.RWMutex
	members map[party.ID]Voter
	ids     []party.ID
}

// NewLocalRegistry builds a registry over members. Membership is fixed
// after construction: there is no Add/Remove.
func NewLocalRegistry(members map[party.ID]Voter) *LocalRegistry {
	ids := make([]party.ID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &LocalRegistry{members: members, ids: ids}
}

// Get implements Registry.
func (r *LocalRegistry) Get(id party.ID) (Voter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.members[id]
	return v, ok
}

// IDs implements Registry.
func (r *LocalRegistry) IDs() []party.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]party.ID(nil), r.ids...)
}

// Broadcast implements Registry, fanning the vote out to every member
// concurrently and waiting for all deliveries to finish before returning.
func (r *LocalRegistry) Broadcast(proposer party.ID, voter party.ID, bit int) {
	r.mu.RLock()
	members := make([]Voter, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	r.mu.RUnlock()

	var g errgroup.Group
	for _, m := range members {
		m := m
		g.Go(func() error {
			m.OnVote(proposer, voter, bit)
			return nil
		})
	}
	_ = g.Wait() // member handlers never return an error; kept for the errgroup barrier
}
