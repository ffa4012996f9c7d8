package coin

import (
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/zeebo/blake3"

	"github.com/luxfi/ocioraba/pkg/party"
)

// VRFSource is a production-shaped alternative to DeterministicSource,
// demonstrating a pluggable backend without claiming VRF security: each
// node holds a secp256k1 scalar, and its per-round contribution is the low
// bit of blake3(nodeScalar * basePoint_for(round)). Unlike
// DeterministicSource the bit is unrecoverable by an adversary who does not
// hold the node's scalar, at the cost of requiring per-node key material
// the simulation driver does not otherwise need.
type VRFSource struct {
	scalars map[party.ID]*secp256k1.ModNScalar
}

// NewVRFSource builds a source with one fixed scalar per node, derived
// deterministically from the node id so the fixture is reproducible; a
// production deployment would instead hold each node's real secret key.
func NewVRFSource(ids []party.ID) *VRFSource {
	scalars := make(map[party.ID]*secp256k1.ModNScalar, len(ids))
	for _, id := range ids {
		var buf [32]byte
		binary.BigEndian.PutUint32(buf[28:], uint32(id))
		h := blake3.Sum256(buf[:])
		var s secp256k1.ModNScalar
		s.SetBytes(&h)
		scalars[id] = &s
	}
	return &VRFSource{scalars: scalars}
}

// Contribute implements Source by hashing the EC point nodeScalar*G(round)
// down to a single bit.
func (v *VRFSource) Contribute(id party.ID, round uint64) int {
	scalar, ok := v.scalars[id]
	if !ok {
		return 0
	}

	var roundPoint secp256k1.JacobianPoint
	var roundScalar secp256k1.ModNScalar
	var roundBuf [32]byte
	binary.BigEndian.PutUint64(roundBuf[24:], round)
	roundScalar.SetBytes(&roundBuf)
	secp256k1.ScalarBaseMultNonConst(&roundScalar, &roundPoint)
	roundPoint.ToAffine()

	var out secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(scalar, &roundPoint, &out)
	out.ToAffine()

	xBytes := out.X.Bytes()
	digest := blake3.Sum256(xBytes[:])
	return int(digest[0] & 1)
}
