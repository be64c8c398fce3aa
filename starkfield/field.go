// This package implements arithmetic helpers for the prime field used by Cairo's
// AIR. We do not hand-roll the modulus: it is taken from gnark-crypto's
// stark-curve base field, which is the same 252-bit prime the on-chain verifier
// reduces into. Everything that feeds the verifier travels as 32-byte
// big-endian words, so the word padding lives here in exactly one place.
package starkfield

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/ethereum/go-ethereum/crypto"
)

// The number of bytes in one verifier word.
const BYTES_PER_WORD = 32

// The modulus of the field.
var MODULUS *big.Int = fp.Modulus()

// The inverse of the Montgomery radix 2^256 modulo MODULUS. Multiplying by it
// takes a value out of the Montgomery form the prover's transcript works in.
var MONTGOMERY_R_INV *big.Int = mustHex("40000000000001100000000000012100000000000000000000000000000000")

func mustHex(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("starkfield: bad hex constant " + s)
	}
	return x
}

// Word returns x as a 32-byte big-endian word. x must be non-negative and
// fit in 256 bits; callers only pass reduced field elements or addresses.
func Word(x *big.Int) [BYTES_PER_WORD]byte {
	var w [BYTES_PER_WORD]byte
	x.FillBytes(w[:])
	return w
}

// WordBytes concatenates the values as 32-byte big-endian words.
func WordBytes(xs []*big.Int) []byte {
	out := make([]byte, 0, len(xs)*BYTES_PER_WORD)
	for _, x := range xs {
		w := Word(x)
		out = append(out, w[:]...)
	}
	return out
}

// KeccakWords hashes the values as a stream of 32-byte big-endian words.
func KeccakWords(xs []*big.Int) []byte {
	return crypto.Keccak256(WordBytes(xs))
}

// FromMontgomery multiplies x by MONTGOMERY_R_INV modulo MODULUS.
func FromMontgomery(x *big.Int) *big.Int {
	out := new(big.Int).Mul(x, MONTGOMERY_R_INV)
	return out.Mod(out, MODULUS)
}

// IsPowerOfTwo reports whether n is a power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// FloorLog2 returns floor(log2(n)). n must be positive.
func FloorLog2(n uint64) uint64 {
	return uint64(bits.Len64(n) - 1)
}

// CeilLog2 returns ceil(log2(n)). n must be positive.
func CeilLog2(n uint64) uint64 {
	if IsPowerOfTwo(n) {
		return FloorLog2(n)
	}
	return FloorLog2(n) + 1
}
