package prng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/prng"
)

func TestStreamIsDeterministic(t *testing.T) {
	secret := field.FromUint64(2025)

	s1 := prng.NewStream(secret)
	s2 := prng.NewStream(secret)

	for i := 0; i < 8; i++ {
		assert.True(t, s1.NextElem().Equal(s2.NextElem()), "element %d diverged", i)
	}
}

func TestStreamDiffersAcrossSecrets(t *testing.T) {
	a := prng.NewStream(field.FromUint64(1))
	b := prng.NewStream(field.FromUint64(2))

	assert.False(t, a.NextElem().Equal(b.NextElem()))
}

func TestStreamInRange(t *testing.T) {
	s := prng.NewStream(field.FromUint64(42))
	mod := field.Modulus()
	for i := 0; i < 100; i++ {
		e := s.NextElem()
		assert.True(t, e.BigInt().Cmp(mod) < 0)
		assert.True(t, e.BigInt().Sign() >= 0)
	}
}
