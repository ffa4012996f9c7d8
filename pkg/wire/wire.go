// Package wire defines the CBOR-framed message envelopes a real transport
// would carry between nodes: a share broadcast and a vote. Nothing here
// understands protocol semantics; it only knows how to get these payloads
// on and off the wire intact.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/ocioraba/pkg/party"
)

// ShareMessage carries a proposer's broadcast share.
type ShareMessage struct {
	Sender party.ID `cbor:"1,keyasint"`
	X      uint64   `cbor:"2,keyasint"`
	Y      []byte   `cbor:"3,keyasint"` // big-endian field element
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m ShareMessage) MarshalBinary() ([]byte, error) {
	b, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal share message: %w", err)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *ShareMessage) UnmarshalBinary(data []byte) error {
	if err := cbor.Unmarshal(data, m); err != nil {
		return fmt.Errorf("wire: unmarshal share message: %w", err)
	}
	return nil
}

// VoteMessage carries one node's vote for a proposer's ABBA instance.
type VoteMessage struct {
	Proposer party.ID `cbor:"1,keyasint"`
	Voter    party.ID `cbor:"2,keyasint"`
	Bit      uint8    `cbor:"3,keyasint"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m VoteMessage) MarshalBinary() ([]byte, error) {
	b, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal vote message: %w", err)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *VoteMessage) UnmarshalBinary(data []byte) error {
	if err := cbor.Unmarshal(data, m); err != nil {
		return fmt.Errorf("wire: unmarshal vote message: %w", err)
	}
	return nil
}
