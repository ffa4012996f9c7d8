package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/luxfi/ocioraba/pkg/party"
)

// runConfigJSON is the wire shape RunConfig marshals to and from: every
// field that isn't already a JSON-native type renders as a string.
type runConfigJSON struct {
	N              int               `json:"n"`
	T              int               `json:"t"`
	Secret         string            `json:"secret"`
	Behavior       string            `json:"behavior"`
	ByzantineCount int               `json:"byzantine_count"`
	Overrides      map[string]string `json:"overrides,omitempty"`
	Timeout        string            `json:"timeout"`
	Wire           bool              `json:"wire"`
	FailFast       bool              `json:"fail_fast"`
}

// MarshalJSON implements json.Marshaler.
func (c *RunConfig) MarshalJSON() ([]byte, error) {
	if c.Secret == nil {
		return nil, fmt.Errorf("config: cannot marshal a RunConfig with no secret")
	}

	overrides := make(map[string]string, len(c.Overrides))
	for id, b := range c.Overrides {
		overrides[strconv.FormatUint(uint64(id), 10)] = b.String()
	}

	out := &runConfigJSON{
		N:              c.N,
		T:              c.T,
		Secret:         c.Secret.String(),
		Behavior:       c.Behavior.String(),
		ByzantineCount: c.ByzantineCount,
		Overrides:      overrides,
		Timeout:        c.Timeout.String(),
		Wire:           c.Wire,
		FailFast:       c.FailFast,
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *RunConfig) UnmarshalJSON(data []byte) error {
	var in runConfigJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	secret, ok := new(big.Int).SetString(in.Secret, 10)
	if !ok {
		return fmt.Errorf("config: secret %q is not a base-10 integer", in.Secret)
	}

	behavior, err := party.ParseBehavior(in.Behavior)
	if err != nil {
		return fmt.Errorf("config: behavior: %w", err)
	}

	timeout, err := time.ParseDuration(in.Timeout)
	if err != nil {
		return fmt.Errorf("config: timeout: %w", err)
	}

	overrides := make(map[party.ID]party.Behavior, len(in.Overrides))
	for idStr, behaviorStr := range in.Overrides {
		id, err := parseNodeID(idStr)
		if err != nil {
			return fmt.Errorf("config: override id %q: %w", idStr, err)
		}
		b, err := party.ParseBehavior(behaviorStr)
		if err != nil {
			return fmt.Errorf("config: override for node %s: %w", idStr, err)
		}
		overrides[id] = b
	}

	c.N = in.N
	c.T = in.T
	c.Secret = secret
	c.Behavior = behavior
	c.ByzantineCount = in.ByzantineCount
	c.Overrides = overrides
	c.Timeout = timeout
	c.Wire = in.Wire
	c.FailFast = in.FailFast
	return nil
}

func parseNodeID(s string) (party.ID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not a node id: %w", err)
	}
	return party.ID(n), nil
}
