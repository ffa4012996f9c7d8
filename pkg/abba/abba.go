// Package abba implements one binary asynchronous Byzantine agreement
// instance per proposer, backed by a per-instance common coin for
// tie-breaking once a strong majority hasn't formed.
package abba

import (
	"sync"

	"github.com/luxfi/ocioraba/pkg/coin"
	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/party"
)

// coinRound is the single round this core ever uses; it never advances.
// Instance passes the round to CommonCoin rather than assuming it, so
// adding real round advancement later is a CommonCoin change, not an ABBA
// change.
const coinRound uint64 = 1

// Instance is the agreement state machine for one proposer's votes.
type Instance struct {
	owner  party.ID
	n, t   int
	logger logging.Logger

	coin *coin.CommonCoin

	mu          sync.Mutex
	votes       map[party.ID]int
	ones, zeros int
	output      int
	decided     bool
}

// New creates the ABBA instance for proposer owner in an (n, t) cluster,
// using source as the common-coin backend.
func New(owner party.ID, n, t int, source coin.Source, logger logging.Logger) *Instance {
	if logger == nil {
		logger = logging.Discard
	}
	return &Instance{
		owner:  owner,
		n:      n,
		t:      t,
		logger: logger,
		coin:   coin.New(n, t, source),
		votes:  make(map[party.ID]int),
	}
}

// Input accepts a binary vote from sender. Subsequent inputs from the same
// sender are ignored (idempotent). Every newly accepted sender also
// contributes its share to this instance's common coin, keyed by sender id
// and the fixed round; the coin itself enforces at most one contribution
// per sender and freezes once t+1 distinct senders have contributed.
func (a *Instance) Input(sender party.ID, bit int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.votes[sender]; ok {
		return
	}
	a.votes[sender] = bit
	if bit == 1 {
		a.ones++
	} else {
		a.zeros++
	}
	a.logger.Printf("abba[%s]: vote %d from %s (ones=%d zeros=%d total=%d)",
		a.owner, bit, sender, a.ones, a.zeros, len(a.votes))

	a.coin.Contribute(sender, coinRound)

	a.tryDecide()
}

// tryDecide evaluates the decision rule, holding the lock. A strong
// majority (n-t) of matching votes decides outright; short of that, with at
// least n-t votes total and a frozen coin value, a t+1 majority among those
// votes still decides outright and only a genuine split falls back to the
// coin.
func (a *Instance) tryDecide() {
	if a.decided {
		return
	}

	strongQuorum := a.n - a.t
	total := len(a.votes)

	switch {
	case a.ones >= strongQuorum:
		a.decide(1)
	case a.zeros >= strongQuorum:
		a.decide(0)
	case total >= strongQuorum:
		value, hasCoin := a.coin.Value()
		if !hasCoin {
			return
		}
		switch {
		case a.ones >= a.t+1:
			a.decide(1)
		case a.zeros >= a.t+1:
			a.decide(0)
		default:
			a.decide(value)
		}
	}
}

func (a *Instance) decide(v int) {
	a.output = v
	a.decided = true
	a.logger.Printf("abba[%s]: decided %d", a.owner, v)
}

// Decided reports whether this instance has reached a decision.
func (a *Instance) Decided() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.decided
}

// Output returns the decided bit and true, or (0, false) if undecided.
func (a *Instance) Output() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.decided {
		return 0, false
	}
	return a.output, true
}
