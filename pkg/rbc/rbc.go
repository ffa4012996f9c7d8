// Package rbc implements the reliable-broadcast contract one node's share
// delivery relies on: Validity, Agreement and Integrity, per a
// broadcast-then-fan-out delivery model.
package rbc

import (
	"sync"

	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/share"
)

// Delivery is a single (sender, share) pair as it reaches a recipient.
type Delivery struct {
	Sender party.ID
	Share  share.Share
}

// Recipient is the subset of a node's API the broadcaster needs to deliver
// into: one callback per delivered share.
type Recipient interface {
	OnDeliver(sender party.ID, s share.Share)
}

// Broadcaster fans a sender's share out to every registered recipient.
// Integrity (at most one delivered share per sender) is enforced here so
// that callers never have to re-check it.
type Broadcaster interface {
	// Broadcast delivers (sender, s) to every recipient registered at
	// construction, including sender itself.
	Broadcast(sender party.ID, s share.Share)
}

// LocalBroadcaster is the in-process fan-out realization: an instantaneous,
// synchronous delivery to every recipient in a fixed membership list. It
// satisfies Validity and Agreement trivially (delivery is synchronous and
// total) and Integrity via a per-sender latch.
type LocalBroadcaster struct {
	mu         sync.Mutex
	recipients map[party.ID]Recipient
	delivered  map[party.ID]bool
}

// NewLocalBroadcaster builds a broadcaster over a fixed recipient set.
func NewLocalBroadcaster(recipients map[party.ID]Recipient) *LocalBroadcaster {
	return &LocalBroadcaster{
		recipients: recipients,
		delivered:  make(map[party.ID]bool, len(recipients)),
	}
}

// Broadcast implements Broadcaster. A second broadcast from the same sender
// is dropped silently: Integrity guarantees at most one payload per sender,
// and a correct node only ever calls this once for its own proposal.
func (b *LocalBroadcaster) Broadcast(sender party.ID, s share.Share) {
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

	for _, r := range recipients {
		r.OnDeliver(sender, s)
	}
}
