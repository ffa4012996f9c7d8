// Package config defines RunConfig, the in-memory and JSON-serializable
// description of one cluster run: cluster size, fault tolerance, the
// proposed secret, per-node Byzantine behavior, and run-time knobs. It is
// a plain struct with JSON marshal/unmarshal methods and no file I/O of
// its own.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/party"
)

// ErrInvalid wraps every reason Validate can fail, for callers that want to
// distinguish a bad RunConfig from other errors with errors.Is.
var ErrInvalid = errors.New("config: invalid run configuration")

// RunConfig describes one cluster run end to end: how many nodes, the
// fault threshold, what honest nodes propose, which nodes deviate and how,
// and the run's deadline and transport knobs.
type RunConfig struct {
	// N is the total number of nodes. T is the maximum number of
	// Byzantine nodes tolerated; N must satisfy N >= 3T+1.
	N, T int

	// Secret is the value every honest node proposes.
	Secret *big.Int

	// Behavior is the default deviation applied to ByzantineCount nodes
	// (the first ByzantineCount identities, ascending), unless overridden
	// per node in Overrides.
	Behavior party.Behavior

	// ByzantineCount is how many of the first identities run Behavior
	// instead of party.Honest. Must not exceed T.
	ByzantineCount int

	// Overrides sets a specific behavior for an individual node id,
	// taking precedence over the Behavior/ByzantineCount convention for
	// that id.
	Overrides map[party.ID]party.Behavior

	// Timeout bounds how long the run waits for the cluster to complete.
	Timeout time.Duration

	// Wire round-trips every broadcast share and vote through CBOR
	// instead of delivering in-process, exercising the wire codec.
	Wire bool

	// FailFast finalizes with bottom on a missing share instead of
	// waiting for a later delivery.
	FailFast bool
}

// Default returns the configuration ociorabad run uses absent any flags or
// config file: a 4-node cluster tolerating one fault, proposing 2025,
// every node honest, a 5 second deadline.
func Default() *RunConfig {
	return &RunConfig{
		N:        4,
		T:        1,
		Secret:   big.NewInt(2025),
		Behavior: party.Honest,
		Timeout:  5 * time.Second,
	}
}

// Validate checks internal consistency: the fault-tolerance bound, the
// secret's field range, the Byzantine count against T, and every override
// id against the cluster's membership.
func (c *RunConfig) Validate() error {
	if c.N < 3*c.T+1 {
		return fmt.Errorf("%w: n=%d must satisfy n >= 3t+1 for t=%d", ErrInvalid, c.N, c.T)
	}
	if c.Secret == nil {
		return fmt.Errorf("%w: secret is required", ErrInvalid)
	}
	if c.Secret.Sign() < 0 || c.Secret.Cmp(field.Modulus()) >= 0 {
		return fmt.Errorf("%w: secret %s out of range [0, %s)", ErrInvalid, c.Secret, field.Modulus())
	}
	if c.ByzantineCount < 0 || c.ByzantineCount > c.T {
		return fmt.Errorf("%w: byzantine-count=%d exceeds t=%d", ErrInvalid, c.ByzantineCount, c.T)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	for id := range c.Overrides {
		if id < 1 || int(id) > c.N {
			return fmt.Errorf("%w: override for node %s outside 1..%d", ErrInvalid, id, c.N)
		}
	}
	return nil
}

// BehaviorFor returns the behavior node id runs: an Overrides entry if one
// exists, otherwise Behavior for the first ByzantineCount identities
// (ascending) and party.Honest for the rest.
func (c *RunConfig) BehaviorFor(id party.ID) party.Behavior {
	if b, ok := c.Overrides[id]; ok {
		return b
	}
	if int(id) >= 1 && int(id) <= c.ByzantineCount {
		return c.Behavior
	}
	return party.Honest
}
