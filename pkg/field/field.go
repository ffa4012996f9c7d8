// Package field implements modular arithmetic over the 127-bit Mersenne
// prime used by the secret-sharing codec.
package field

import (
	"errors"
	"math/big"

	"github.com/cronokirby/saferith"
)

// ErrOutOfRange is returned when an element is not in [0, P).
var ErrOutOfRange = errors.New("field: value out of range")

// bits is the bit length of P, used to size the Modulus.
const bits = 127

var (
	// p127 holds 2^127 - 1 as a big.Int, used only to construct the Modulus
	// and to validate element ranges.
	p127 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))

	// P is the field modulus, 2^127 - 1.
	P *saferith.Modulus
)

func init() {
	P = saferith.ModulusFromBytes(p127.Bytes())
}

// Elem is an element of F_P, backed by a constant-time natural-number type.
type Elem struct {
	n *saferith.Nat
}

// Zero returns the additive identity.
func Zero() Elem {
	return Elem{n: new(saferith.Nat).SetUint64(0)}
}

// FromUint64 builds an element from a small unsigned integer. Safe for any
// uint64 value since 2^64 - 1 < P.
func FromUint64(v uint64) Elem {
	return Elem{n: new(saferith.Nat).SetUint64(v)}
}

// FromBigInt builds an element from a big.Int, rejecting values outside
// [0, P).
func FromBigInt(v *big.Int) (Elem, error) {
	if v.Sign() < 0 || v.Cmp(p127) >= 0 {
		return Elem{}, ErrOutOfRange
	}
	return Elem{n: new(saferith.Nat).SetBytes(v.Bytes())}, nil
}

// MustFromBigInt is FromBigInt but panics on error; reserved for constants
// and tests where the value is known to be in range.
func MustFromBigInt(v *big.Int) Elem {
	e, err := FromBigInt(v)
	if err != nil {
		panic(err)
	}
	return e
}

// FromBytes builds an element from its big-endian byte representation, as
// produced by Bytes. Rejects encodings that represent a value outside
// [0, P), e.g. wire data from an untrusted peer.
func FromBytes(b []byte) (Elem, error) {
	return FromBigInt(new(big.Int).SetBytes(b))
}

// BigInt returns the canonical big.Int representation of the element.
func (e Elem) BigInt() *big.Int {
	return new(big.Int).SetBytes(e.n.Bytes())
}

// Bytes returns the big-endian byte representation of the element, useful
// for seeding the deterministic coefficient PRNG and for wire encoding.
func (e Elem) Bytes() []byte {
	return e.n.Bytes()
}

// Equal reports whether two elements represent the same residue.
func (e Elem) Equal(o Elem) bool {
	return e.BigInt().Cmp(o.BigInt()) == 0
}

// Add returns e + o mod P.
func (e Elem) Add(o Elem) Elem {
	return Elem{n: new(saferith.Nat).ModAdd(e.n, o.n, P)}
}

// Sub returns e - o mod P.
func (e Elem) Sub(o Elem) Elem {
	return Elem{n: new(saferith.Nat).ModSub(e.n, o.n, P)}
}

// Mul returns e * o mod P. Intermediate products are up to 254 bits;
// saferith.Nat carries them without truncation before reduction.
func (e Elem) Mul(o Elem) Elem {
	return Elem{n: new(saferith.Nat).ModMul(e.n, o.n, P)}
}

// Pow returns e^k mod P via square-and-multiply.
func (e Elem) Pow(k uint64) Elem {
	exp := new(saferith.Nat).SetUint64(k)
	return Elem{n: new(saferith.Nat).Exp(e.n, exp, P)}
}

// Inv returns the multiplicative inverse of e via Fermat's little theorem:
// e^(P-2) mod P. Panics if e is zero — callers (Lagrange interpolation) must
// ensure denominators are non-zero, which holds whenever share x-coordinates
// are distinct.
func (e Elem) Inv() Elem {
	if e.BigInt().Sign() == 0 {
		panic("field: inverse of zero")
	}
	pMinus2 := new(big.Int).Sub(p127, big.NewInt(2))
	exp := new(saferith.Nat).SetBytes(pMinus2.Bytes())
	return Elem{n: new(saferith.Nat).Exp(e.n, exp, P)}
}

// Neg returns -e mod P.
func (e Elem) Neg() Elem {
	return Zero().Sub(e)
}

// IsZero reports whether e is the additive identity.
func (e Elem) IsZero() bool {
	return e.BigInt().Sign() == 0
}

// String renders the decimal value, for logging and test failures.
func (e Elem) String() string {
	return e.BigInt().String()
}

// Modulus returns a copy of P as a big.Int, for callers (tests, CLI range
// checks) that need to reason about the field outside saferith's types.
func Modulus() *big.Int {
	return new(big.Int).Set(p127)
}
