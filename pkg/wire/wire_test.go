package wire_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/share"
	"github.com/luxfi/ocioraba/pkg/wire"
)

func TestShareMessageRoundTrip(t *testing.T) {
	shares, err := share.Encode(big.NewInt(2025), 4, 2)
	require.NoError(t, err)

	msg := wire.FromShare(party.ID(1), shares[0])
	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	var decoded wire.ShareMessage
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, msg.Sender, decoded.Sender)

	got, err := decoded.ToShare()
	require.NoError(t, err)
	assert.Equal(t, shares[0].X, got.X)
	assert.True(t, shares[0].Y.Equal(got.Y))
}

func TestVoteMessageRoundTrip(t *testing.T) {
	msg := wire.VoteMessage{Proposer: 3, Voter: 1, Bit: 1}
	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	var decoded wire.VoteMessage
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, msg, decoded)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var m wire.ShareMessage
	assert.Error(t, m.UnmarshalBinary([]byte("not cbor")))
}
