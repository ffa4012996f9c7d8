// Package share implements the threshold secret-sharing codec: Encode
// splits a secret into n verifiable shares over F_P, Decode reconstructs it
// from any k of them via Lagrange interpolation at x=0.
package share

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/prng"
)

// ErrSecretOutOfRange is returned by Encode when the secret is not in
// [0, P).
var ErrSecretOutOfRange = errors.New("share: secret out of range")

// ErrInvalidThreshold is returned by Encode when the threshold k is not in
// [1, n].
var ErrInvalidThreshold = errors.New("share: threshold must satisfy 1 <= k <= n")

// ErrInsufficientShares is returned by Decode when fewer than k distinct-x
// shares are supplied.
var ErrInsufficientShares = errors.New("share: insufficient distinct shares to decode")

// ErrDuplicateX is returned by Decode when two supplied shares carry the
// same x-coordinate.
var ErrDuplicateX = errors.New("share: duplicate x-coordinate among shares")

// Share is one (x, y) point on a proposer's secret polynomial.
type Share struct {
	X uint64
	Y field.Elem
}

// Encode builds n shares of secret recoverable from any k of them. secret
// must satisfy 0 <= secret < P. The polynomial's non-constant coefficients
// are drawn from a deterministic stream seeded by secret (see pkg/prng), so
// Encode is a pure function: any two honest callers encoding the same
// secret produce byte-identical shares, which lets peers predict and
// verify each other's broadcasts without an extra commit/reveal round.
func Encode(secret *big.Int, n, k int) ([]Share, error) {
	secretElem, err := field.FromBigInt(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretOutOfRange, err)
	}
	if k < 1 || k > n {
		return nil, ErrInvalidThreshold
	}

	coeffs := make([]field.Elem, k)
	coeffs[0] = secretElem
	stream := prng.NewStream(secretElem)
	for i := 1; i < k; i++ {
		coeffs[i] = stream.NextElem()
	}

	shares := make([]Share, n)
	for i := 1; i <= n; i++ {
		shares[i-1] = Share{
			X: uint64(i),
			Y: evalPolynomial(coeffs, uint64(i)),
		}
	}
	return shares, nil
}

// evalPolynomial computes f(x) = sum(coeffs[p] * x^p) mod P via Horner's
// method.
func evalPolynomial(coeffs []field.Elem, x uint64) field.Elem {
	xElem := field.FromUint64(x)
	result := field.Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result.Mul(xElem).Add(coeffs[i])
	}
	return result
}

// Decode reconstructs the secret from at least k of the supplied shares via
// Lagrange interpolation of f(0). Only the first k shares are used, after
// validating that every supplied share carries a distinct x-coordinate.
func Decode(shares []Share, k int) (field.Elem, error) {
	if err := validateDistinctX(shares); err != nil {
		return field.Elem{}, err
	}
	if len(shares) < k {
		return field.Elem{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientShares, len(shares), k)
	}

	used := shares[:k]
	total := field.Zero()
	for i, si := range used {
		num := field.FromUint64(1)
		den := field.FromUint64(1)
		for j, sj := range used {
			if i == j {
				continue
			}
			num = num.Mul(field.FromUint64(sj.X).Neg())
			den = den.Mul(field.FromUint64(si.X).Sub(field.FromUint64(sj.X)))
		}
		term := si.Y.Mul(num).Mul(den.Inv())
		total = total.Add(term)
	}
	return total, nil
}

func validateDistinctX(shares []Share) error {
	seen := make(map[uint64]struct{}, len(shares))
	for _, s := range shares {
		if _, ok := seen[s.X]; ok {
			return fmt.Errorf("%w: x=%d", ErrDuplicateX, s.X)
		}
		seen[s.X] = struct{}{}
	}
	return nil
}
