package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/registry"
)

type voteRecorder struct {
	mu   sync.Mutex
	seen []int
}

func (v *voteRecorder) OnVote(proposer party.ID, voter party.ID, bit int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seen = append(v.seen, bit)
}

func (v *voteRecorder) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

func TestLocalRegistryIDsAreSortedAndFixed(t *testing.T) {
	members := map[party.ID]registry.Voter{
		3: &voteRecorder{}, 1: &voteRecorder{}, 2: &voteRecorder{},
	}
	r := registry.NewLocalRegistry(members)
	assert.Equal(t, []party.ID{1, 2, 3}, r.IDs())
}

func TestLocalRegistryGetUnknownID(t *testing.T) {
	r := registry.NewLocalRegistry(map[party.ID]registry.Voter{1: &voteRecorder{}})
	_, ok := r.Get(party.ID(99))
	assert.False(t, ok)
}

func TestLocalRegistryBroadcastReachesEveryMember(t *testing.T) {
	recs := map[party.ID]*voteRecorder{1: {}, 2: {}, 3: {}, 4: {}}
	members := make(map[party.ID]registry.Voter, len(recs))
	for id, r := range recs {
		members[id] = r
	}
	r := registry.NewLocalRegistry(members)

	r.Broadcast(party.ID(2), party.ID(1), 1)

	for id, rec := range recs {
		require.Equalf(t, 1, rec.count(), "member %s", id)
	}
}

func TestRemoteRegistryRoundTripsThroughCBOR(t *testing.T) {
	recs := map[party.ID]*voteRecorder{1: {}, 2: {}, 3: {}, 4: {}}
	members := make(map[party.ID]registry.Voter, len(recs))
	for id, r := range recs {
		members[id] = r
	}
	r := registry.NewRemoteRegistry(members, logging.Discard)

	r.Broadcast(party.ID(3), party.ID(1), 1)

	for id, rec := range recs {
		require.Equalf(t, 1, rec.count(), "member %s", id)
		assert.Equal(t, []int{1}, rec.seen)
	}
}

func TestRemoteRegistryIDsAreSortedAndFixed(t *testing.T) {
	members := map[party.ID]registry.Voter{
		3: &voteRecorder{}, 1: &voteRecorder{}, 2: &voteRecorder{},
	}
	r := registry.NewRemoteRegistry(members, logging.Discard)
	assert.Equal(t, []party.ID{1, 2, 3}, r.IDs())
}
