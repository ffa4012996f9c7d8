package registry

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/wire"
)

// RemoteRegistry is LocalRegistry's wire-carried counterpart: it
// CBOR-encodes every vote via pkg/wire before fanning it
// out, exercising the same encode/decode path a socket-backed transport
// would use while still delivering in-process.
type RemoteRegistry struct {
	mu      sync.RWMutex
	members map[party.ID]Voter
	ids     []party.ID
	logger  logging.Logger
}

// NewRemoteRegistry builds a wire-framed registry over members.
func NewRemoteRegistry(members map[party.ID]Voter, logger logging.Logger) *RemoteRegistry {
	if logger == nil {
		logger = logging.Discard
	}
	ids := make([]party.ID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &RemoteRegistry{members: members, ids: ids, logger: logger}
}

// Get implements Registry.
func (r *RemoteRegistry) Get(id party.ID) (Voter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.members[id]
	return v, ok
}

// IDs implements Registry.
func (r *RemoteRegistry) IDs() []party.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]party.ID(nil), r.ids...)
}

// Broadcast implements Registry by round-tripping (proposer, voter, bit)
// through a wire.VoteMessage once, then fanning the decoded copy out to
// every member concurrently.
func (r *RemoteRegistry) Broadcast(proposer party.ID, voter party.ID, bit int) {
	msg := wire.VoteMessage{Proposer: proposer, Voter: voter, Bit: uint8(bit)}
	data, err := msg.MarshalBinary()
	if err != nil {
		r.logger.Printf("registry: vote from %s for proposer %s: encode failed: %v", voter, proposer, err)
		return
	}
	var decoded wire.VoteMessage
	if err := decoded.UnmarshalBinary(data); err != nil {
		r.logger.Printf("registry: vote from %s for proposer %s: decode failed: %v", voter, proposer, err)
		return
	}

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
			m.OnVote(decoded.Proposer, decoded.Voter, int(decoded.Bit))
			return nil
		})
	}
	_ = g.Wait()
}
