package rbc_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/rbc"
	"github.com/luxfi/ocioraba/pkg/share"
)

type recorder struct {
	mu  sync.Mutex
	got []rbc.Delivery
}

func (r *recorder) OnDeliver(sender party.ID, s share.Share) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, rbc.Delivery{Sender: sender, Share: s})
}

func (r *recorder) deliveries() []rbc.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]rbc.Delivery(nil), r.got...)
}

func newRecipients(n int) (map[party.ID]rbc.Recipient, map[party.ID]*recorder) {
	recipients := make(map[party.ID]rbc.Recipient, n)
	recorders := make(map[party.ID]*recorder, n)
	for _, id := range party.IDRange(n) {
		r := &recorder{}
		recipients[id] = r
		recorders[id] = r
	}
	return recipients, recorders
}

func TestLocalBroadcasterDeliversToEveryRecipient(t *testing.T) {
	recipients, recorders := newRecipients(4)
	b := rbc.NewLocalBroadcaster(recipients)

	shares, err := share.Encode(big.NewInt(2025), 4, 2)
	require.NoError(t, err)
	b.Broadcast(party.ID(1), shares[0])

	for id, r := range recorders {
		got := r.deliveries()
		require.Lenf(t, got, 1, "recipient %s", id)
		assert.Equal(t, party.ID(1), got[0].Sender)
		assert.True(t, shares[0].Y.Equal(got[0].Share.Y))
	}
}

func TestLocalBroadcasterIntegrityDropsSecondPayload(t *testing.T) {
	recipients, recorders := newRecipients(2)
	b := rbc.NewLocalBroadcaster(recipients)

	shares, err := share.Encode(big.NewInt(7), 2, 1)
	require.NoError(t, err)
	b.Broadcast(party.ID(1), shares[0])
	b.Broadcast(party.ID(1), shares[1]) // same sender, different payload

	for _, r := range recorders {
		assert.Len(t, r.deliveries(), 1, "second broadcast from the same sender must not deliver")
	}
}

func TestWireBroadcasterRoundTripsThroughCBOR(t *testing.T) {
	recipients, recorders := newRecipients(3)
	b := rbc.NewWireBroadcaster(recipients, logging.Discard)

	shares, err := share.Encode(big.NewInt(42), 3, 2)
	require.NoError(t, err)
	b.Broadcast(party.ID(2), shares[1])

	for _, r := range recorders {
		got := r.deliveries()
		require.Len(t, got, 1)
		assert.Equal(t, party.ID(2), got[0].Sender)
		assert.True(t, shares[1].Y.Equal(got[0].Share.Y))
		assert.Equal(t, shares[1].X, got[0].Share.X)
	}
}
