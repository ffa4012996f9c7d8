// Package node implements the per-node orchestrator: propose, on-delivery
// validation and voting, the ABBA sweep with default-vote injection, and
// final reconstruction of the agreed value.
package node

import (
	"fmt"
	"math/big"
	"math/rand"
	"sync"

	"github.com/luxfi/ocioraba/pkg/abba"
	"github.com/luxfi/ocioraba/pkg/coin"
	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/rbc"
	"github.com/luxfi/ocioraba/pkg/registry"
	"github.com/luxfi/ocioraba/pkg/share"
)

// FinalizeMode selects what Finalize does when a needed share has not yet
// been delivered: fail fast with the ⊥ sentinel, or wait for a later
// delivery to complete the set. Waiting is the recommended default; fast
// failure is kept as an explicit opt-in for drivers that would rather
// report quickly than block on a stalled peer.
type FinalizeMode int

const (
	// Wait defers finalization until every needed share has arrived.
	Wait FinalizeMode = iota
	// FailFast declares ⊥ the moment a needed share is missing.
	FailFast
)

// Node is one participant's local view of the protocol: its own encoding,
// the shares and votes it has observed, and its n ABBA instances.
type Node struct {
	id           party.ID
	n, t         int
	behavior     party.Behavior
	coinSource   coin.Source
	logger       logging.Logger
	finalizeMode FinalizeMode

	mu             sync.Mutex
	ownShares      map[party.ID]share.Share
	receivedShares map[party.ID]share.Share
	abbaInstances  map[party.ID]*abba.Instance
	abbaOut        map[party.ID]int
	complete       bool
	final          *field.Elem
	pending        []rbc.Delivery
	rng            *rand.Rand

	broadcaster rbc.Broadcaster
	registry    registry.Registry
}

// New creates a node for identity id in an (n, t) cluster. ABBA instances
// for every proposer 1..n are created immediately so votes can be injected
// before this node has proposed or delivered anything.
func New(id party.ID, n, t int, behavior party.Behavior, coinSource coin.Source, logger logging.Logger, mode FinalizeMode) *Node {
	if logger == nil {
		logger = logging.Discard
	}
	nd := &Node{
		id:             id,
		n:              n,
		t:              t,
		behavior:       behavior,
		coinSource:     coinSource,
		logger:         logger,
		finalizeMode:   mode,
		receivedShares: make(map[party.ID]share.Share),
		abbaInstances:  make(map[party.ID]*abba.Instance, n),
		abbaOut:        make(map[party.ID]int, n),
		rng:            rand.New(rand.NewSource(int64(id))),
	}
	for _, j := range party.IDRange(n) {
		nd.abbaInstances[j] = abba.New(j, n, t, coinSource, logger)
	}
	return nd
}

// Attach wires the node to its transport. Must be called once, after every
// node in the cluster has been constructed, since the broadcaster and
// registry both need the full membership.
func (nd *Node) Attach(broadcaster rbc.Broadcaster, reg registry.Registry) {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.broadcaster = broadcaster
	nd.registry = reg
}

// ID returns this node's identity.
func (nd *Node) ID() party.ID { return nd.id }

// Propose encodes secret into n shares (applying the node's configured
// Byzantine corruption, if any) and broadcasts this node's own share.
// Calling Propose a second time is a no-op.
func (nd *Node) Propose(secret *big.Int) error {
	nd.mu.Lock()
	if nd.ownShares != nil {
		nd.mu.Unlock()
		return nil
	}

	effective := secret
	if nd.behavior.CorruptsShare() {
		offset := new(big.Int).Mul(big.NewInt(int64(nd.id)), big.NewInt(1000))
		effective = new(big.Int).Mod(new(big.Int).Add(secret, offset), field.Modulus())
	}

	shares, err := share.Encode(effective, nd.n, nd.t+1)
	if err != nil {
		nd.mu.Unlock()
		return fmt.Errorf("node %s: propose: %w", nd.id, err)
	}

	nd.ownShares = make(map[party.ID]share.Share, nd.n)
	for _, s := range shares {
		nd.ownShares[party.ID(s.X)] = s
	}
	own := nd.ownShares[nd.id]

	buffered := nd.pending
	nd.pending = nil
	broadcaster := nd.broadcaster
	nd.mu.Unlock()

	nd.logger.Printf("node %s: proposed, broadcasting own share", nd.id)
	broadcaster.Broadcast(nd.id, own)

	for _, d := range buffered {
		nd.OnDeliver(d.Sender, d.Share)
	}
	return nil
}

// OnDeliver implements rbc.Recipient: records sender's broadcast share,
// casts this node's vote for it into every node's abba[sender], and sweeps
// the ABBA instances for newly reached decisions.
func (nd *Node) OnDeliver(sender party.ID, s share.Share) {
	nd.mu.Lock()
	if nd.ownShares == nil {
		nd.pending = append(nd.pending, rbc.Delivery{Sender: sender, Share: s})
		nd.mu.Unlock()
		return
	}

	nd.receivedShares[sender] = s
	expected, haveExpected := nd.ownShares[sender]
	reg := nd.registry
	nd.mu.Unlock()

	vote := nd.computeVote(expected, haveExpected, s)
	nd.logger.Printf("node %s: delivered share from %s, voting %d", nd.id, sender, vote)
	reg.Broadcast(sender, nd.id, vote)

	nd.tryFinalize()
}

// computeVote implements the validation rule: a coordinate mismatch or a
// value mismatch both vote 0; a RandomVote Byzantine node ignores the
// comparison entirely.
func (nd *Node) computeVote(expected share.Share, haveExpected bool, got share.Share) int {
	if nd.behavior.VotesRandomly() {
		return nd.rng.Intn(2)
	}
	if !haveExpected || got.X != expected.X {
		return 0
	}
	if got.Y.Equal(expected.Y) {
		return 1
	}
	return 0
}

// OnVote implements registry.Voter: injects a vote into this node's local
// copy of abba[proposer] and sweeps for decisions.
func (nd *Node) OnVote(proposer party.ID, voter party.ID, bit int) {
	nd.mu.Lock()
	inst, ok := nd.abbaInstances[proposer]
	nd.mu.Unlock()
	if !ok {
		return
	}
	inst.Input(voter, bit)
	nd.sweep()
}

// sweep assigns any newly decided ABBA outputs, injects default votes of 0
// into stragglers once at least one output is known, and finalizes once
// every proposer's ABBA has decided.
func (nd *Node) sweep() {
	nd.mu.Lock()
	nd.collectDecided()
	if len(nd.abbaOut) > 0 {
		for _, j := range party.IDRange(nd.n) {
			if _, set := nd.abbaOut[j]; set {
				continue
			}
			nd.abbaInstances[j].Input(nd.id, 0)
		}
		nd.collectDecided()
	}
	allDone := len(nd.abbaOut) == nd.n
	nd.mu.Unlock()

	if allDone {
		nd.tryFinalize()
	}
}

// collectDecided copies any newly decided ABBA outputs into abbaOut. Must
// be called with nd.mu held.
func (nd *Node) collectDecided() {
	for _, j := range party.IDRange(nd.n) {
		if _, set := nd.abbaOut[j]; set {
			continue
		}
		if v, ok := nd.abbaInstances[j].Output(); ok {
			nd.abbaOut[j] = v
		}
	}
}

// tryFinalize attempts finalization; it is a no-op unless every ABBA has
// decided and this node has not already completed.
func (nd *Node) tryFinalize() {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.finalizeLocked()
}

func (nd *Node) finalizeLocked() {
	if nd.complete {
		return
	}
	if len(nd.abbaOut) < nd.n {
		return
	}

	var accepted []party.ID
	for _, j := range party.IDRange(nd.n) {
		if nd.abbaOut[j] == 1 {
			accepted = append(accepted, j)
		}
	}
	if len(accepted) < nd.t+1 {
		nd.complete = true
		nd.final = nil
		nd.logger.Printf("node %s: complete, final=⊥ (only %d accepted proposers)", nd.id, len(accepted))
		return
	}

	chosen := accepted[:nd.t+1]
	shares := make([]share.Share, 0, len(chosen))
	for _, j := range chosen {
		s, ok := nd.receivedShares[j]
		if !ok {
			if nd.finalizeMode == FailFast {
				nd.complete = true
				nd.final = nil
				nd.logger.Printf("node %s: complete, final=⊥ (share from %s not delivered)", nd.id, j)
			}
			return
		}
		shares = append(shares, s)
	}

	value, err := share.Decode(shares, nd.t+1)
	if err != nil {
		nd.complete = true
		nd.final = nil
		nd.logger.Printf("node %s: complete, final=⊥ (decode failed: %v)", nd.id, err)
		return
	}
	nd.complete = true
	nd.final = &value
	nd.logger.Printf("node %s: complete, final=%s", nd.id, value)
}

// Complete reports whether this node has finished.
func (nd *Node) Complete() bool {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	return nd.complete
}

// Result returns the node's final value once complete. ok is false while
// still incomplete; once complete, a nil value means the reconstructed
// result is ⊥.
func (nd *Node) Result() (value *field.Elem, ok bool) {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	if !nd.complete {
		return nil, false
	}
	return nd.final, true
}
