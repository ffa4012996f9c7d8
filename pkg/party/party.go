// Package party defines node identities and the test-fixture Byzantine
// behaviors used to exercise the protocol. ID plays the same role as a
// scalar-backed party identity would in a threshold-signature cluster, but
// this protocol's field has no curve to convert into.
package party

import (
	"errors"
	"fmt"
)

// ErrUnknownBehavior is returned by ParseBehavior for any string other than
// the four behavior names String renders.
var ErrUnknownBehavior = errors.New("party: unknown behavior")

// ID identifies a participating node; valid range is 1..n.
type ID uint32

// String renders the identity for logs and error messages.
func (id ID) String() string {
	return fmt.Sprintf("node-%d", uint32(id))
}

// Behavior selects how a node deviates from the honest protocol. Only test
// fixtures construct anything other than Honest — production callers of
// pkg/node never branch on it; Byzantine identity must not leak into
// protocol logic.
type Behavior int

const (
	// Honest follows the protocol exactly.
	Honest Behavior = iota
	// ByzantineRandomVote ignores the share-match check and votes uniformly
	// at random in {0,1}.
	ByzantineRandomVote
	// ByzantineCorruptShare encodes (secret + id*1000) mod P instead of the
	// proposed secret.
	ByzantineCorruptShare
	// ByzantineBoth applies both deviations.
	ByzantineBoth
)

// String renders the behavior name, used in CLI output and test names.
func (b Behavior) String() string {
	switch b {
	case Honest:
		return "honest"
	case ByzantineRandomVote:
		return "random-vote"
	case ByzantineCorruptShare:
		return "corrupt-share"
	case ByzantineBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseBehavior parses one of the four names String renders back into a
// Behavior, for config and CLI deserialization.
func ParseBehavior(s string) (Behavior, error) {
	switch s {
	case "honest":
		return Honest, nil
	case "random-vote":
		return ByzantineRandomVote, nil
	case "corrupt-share":
		return ByzantineCorruptShare, nil
	case "both":
		return ByzantineBoth, nil
	default:
		return Honest, fmt.Errorf("%w: %q", ErrUnknownBehavior, s)
	}
}

// CorruptsShare reports whether b substitutes a corrupted secret at
// propose time.
func (b Behavior) CorruptsShare() bool {
	return b == ByzantineCorruptShare || b == ByzantineBoth
}

// VotesRandomly reports whether b ignores share validation and votes
// uniformly at random.
func (b Behavior) VotesRandomly() bool {
	return b == ByzantineRandomVote || b == ByzantineBoth
}

// IDRange returns the identities 1..n in ascending order, the fixed
// membership used to construct a Registry.
func IDRange(n int) []ID {
	ids := make([]ID, n)
	for i := 0; i < n; i++ {
		ids[i] = ID(i + 1)
	}
	return ids
}

// FirstTByzantine marks the first t identities (by ascending ID) as
// Byzantine, a fixed convention for simulation drivers and tests. This is a
// fixture helper only — it must never be consulted by pkg/node or pkg/abba.
func FirstTByzantine(t int) map[ID]bool {
	out := make(map[ID]bool, t)
	for i := 1; i <= t; i++ {
		out[ID(i)] = true
	}
	return out
}
