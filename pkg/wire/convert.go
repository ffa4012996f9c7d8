package wire

import (
	"fmt"

	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/share"
	"github.com/luxfi/ocioraba/pkg/party"
)

// FromShare builds a ShareMessage for sender's broadcast share.
func FromShare(sender party.ID, s share.Share) ShareMessage {
	return ShareMessage{Sender: sender, X: s.X, Y: s.Y.Bytes()}
}

// ToShare reconstructs the share.Share carried in m.
func (m ShareMessage) ToShare() (share.Share, error) {
	y, err := field.FromBytes(m.Y)
	if err != nil {
		return share.Share{}, fmt.Errorf("wire: share message y-coordinate: %w", err)
	}
	return share.Share{X: m.X, Y: y}, nil
}
