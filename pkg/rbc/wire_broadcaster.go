package rbc

import (
	"sync"

	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/share"
	"github.com/luxfi/ocioraba/pkg/wire"
)

// WireBroadcaster is the concrete realization of a real transport: it
// CBOR-encodes the (sender, share) payload via pkg/wire before fanning it
// out, so any byte-oriented carrier (a socket, a message queue) could sit
// underneath it without the node orchestrator noticing. In this process it
// still fans out in-memory, but through the same encode/decode path a
// remote link would use.
type WireBroadcaster struct {
	mu         sync.Mutex
	recipients map[party.ID]Recipient
	delivered  map[party.ID]bool
	logger     logging.Logger
}

// NewWireBroadcaster builds a CBOR-framed broadcaster over recipients.
func NewWireBroadcaster(recipients map[party.ID]Recipient, logger logging.Logger) *WireBroadcaster {
	if logger == nil {
		logger = logging.Discard
	}
	return &WireBroadcaster{
		recipients: recipients,
		delivered:  make(map[party.ID]bool, len(recipients)),
		logger:     logger,
	}
}

// Broadcast implements Broadcaster by round-tripping s through the wire
// envelope before delivering the decoded copy to every recipient.
func (b *WireBroadcaster) Broadcast(sender party.ID, s share.Share) {
	b.mu.Lock()
	if b.delivered[sender] {
		b.mu.Unlock()
		return
	}
	b.delivered[sender] = true
	recipients := make([]Recipient, 0, len(b.recipients))
	for _, r := range b.recipients {
		recipients = append(recipients, r)
	}
	b.mu.Unlock()

	msg := wire.FromShare(sender, s)
	data, err := msg.MarshalBinary()
	if err != nil {
		b.logger.Printf("rbc: sender %s: encode failed: %v", sender, err)
		return
	}

	var decoded wire.ShareMessage
	if err := decoded.UnmarshalBinary(data); err != nil {
		b.logger.Printf("rbc: sender %s: decode failed: %v", sender, err)
		return
	}
	decodedShare, err := decoded.ToShare()
	if err != nil {
		b.logger.Printf("rbc: sender %s: malformed share: %v", sender, err)
		return
	}

	for _, r := range recipients {
		r.OnDeliver(decoded.Sender, decodedShare)
	}
}
