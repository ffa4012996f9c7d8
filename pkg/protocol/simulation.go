// Package protocol composes the per-node orchestrators, the registry, and a
// broadcaster into a runnable cluster, and provides the cross-node analysis
// a driver or test suite needs once every node has settled.
package protocol

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/luxfi/ocioraba/pkg/coin"
	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/node"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/rbc"
	"github.com/luxfi/ocioraba/pkg/registry"
)

// Transport selects which rbc.Broadcaster implementation wires the cluster.
type Transport int

const (
	// LocalTransport fans shares out in-process without serialization.
	LocalTransport Transport = iota
	// WireTransport round-trips every share through CBOR, exercising the
	// same encoding a real network transport would use.
	WireTransport
)

// NodeSpec describes one participant's identity and deviation from the
// honest protocol.
type NodeSpec struct {
	ID       party.ID
	Behavior party.Behavior
}

// Simulation is a fully wired (n, t) cluster: n node.Node orchestrators
// sharing one registry and one broadcaster.
type Simulation struct {
	N, T  int
	Nodes []*node.Node
}

// NewSimulation builds and wires a cluster per the construction contract:
// one node.Node per spec, a shared common-coin source, and a registry whose
// membership is exactly the given specs.
func NewSimulation(n, t int, specs []NodeSpec, transport Transport, coinSource coin.Source, logger logging.Logger, mode node.FinalizeMode) (*Simulation, error) {
	if len(specs) != n {
		return nil, fmt.Errorf("protocol: expected %d node specs, got %d", n, len(specs))
	}
	if n < 3*t+1 {
		return nil, fmt.Errorf("protocol: n=%d must satisfy n >= 3t+1 for t=%d", n, t)
	}
	if logger == nil {
		logger = logging.Discard
	}

	nodes := make(map[party.ID]*node.Node, n)
	for _, s := range specs {
		nodes[s.ID] = node.New(s.ID, n, t, s.Behavior, coinSource, logger, mode)
	}

	recipients := make(map[party.ID]rbc.Recipient, n)
	voters := make(map[party.ID]registry.Voter, n)
	for id, nd := range nodes {
		recipients[id] = nd
		voters[id] = nd
	}

	var broadcaster rbc.Broadcaster
	var reg registry.Registry
	switch transport {
	case WireTransport:
		broadcaster = rbc.NewWireBroadcaster(recipients, logger)
		reg = registry.NewRemoteRegistry(voters, logger)
	default:
		broadcaster = rbc.NewLocalBroadcaster(recipients)
		reg = registry.NewLocalRegistry(voters)
	}

	ordered := make([]*node.Node, 0, n)
	for _, id := range party.IDRange(n) {
		nd := nodes[id]
		nd.Attach(broadcaster, reg)
		ordered = append(ordered, nd)
	}

	return &Simulation{N: n, T: t, Nodes: ordered}, nil
}

// Propose has the node identified by id propose secret.
func (s *Simulation) Propose(id party.ID, secret *big.Int) error {
	for _, nd := range s.Nodes {
		if nd.ID() == id {
			return nd.Propose(secret)
		}
	}
	return fmt.Errorf("protocol: no node with id %s", id)
}

// Run proposes secrets[id] for every node that has one, in ascending id
// order, honoring ctx's deadline between proposals. Because the local
// transport delivers synchronously, every reachable cascade of votes and
// decisions for a node completes inside its own Propose call; Run's only
// job is to drive each node's initial proposal and respect cancellation.
func (s *Simulation) Run(ctx context.Context, secrets map[party.ID]*big.Int) error {
	for _, nd := range s.Nodes {
		select {
		case <-ctx.Done():
			return fmt.Errorf("protocol: simulation cancelled before every node proposed: %w", ctx.Err())
		default:
		}
		secret, ok := secrets[nd.ID()]
		if !ok {
			continue
		}
		if err := nd.Propose(secret); err != nil {
			return fmt.Errorf("protocol: node %s: %w", nd.ID(), err)
		}
	}
	return nil
}

// AllComplete reports whether every node in the cluster has finished.
func (s *Simulation) AllComplete() bool {
	for _, nd := range s.Nodes {
		if !nd.Complete() {
			return false
		}
	}
	return true
}

// FirstTByzantineSpecs builds NodeSpec for an (n, t) cluster where the
// first t identities (ascending) use behavior and the rest are honest, a
// fixed convention used throughout this package's tests.
func FirstTByzantineSpecs(n, t int, behavior party.Behavior) []NodeSpec {
	byz := party.FirstTByzantine(t)
	specs := make([]NodeSpec, 0, n)
	for _, id := range party.IDRange(n) {
		b := party.Honest
		if byz[id] {
			b = behavior
		}
		specs = append(specs, NodeSpec{ID: id, Behavior: b})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}
