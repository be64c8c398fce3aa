// This package replays the verifier's Fiat-Shamir channel far enough to
// recover the two memory interaction challenges. The channel is a keccak hash
// chain over EVM words: a 32-byte digest plus a counter word. Every byte fed
// to keccak here must match the on-chain layout exactly, one stray pad byte
// and the challenges land in a different universe.
package challenger

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/zkpipe/stark-verifier-input/starkfield"
	"github.com/zkpipe/stark-verifier-input/types"
)

// How many rejections a single draw may see before we assume the transcript
// is broken. The verifier accepts ~97% of digests, so even a handful of
// rejections in a row is already suspicious.
const MAX_DRAW_RETRIES = 1000

var (
	modulus256 = uint256.MustFromBig(starkfield.MODULUS)
	rInv256    = uint256.MustFromBig(starkfield.MONTGOMERY_R_INV)

	// Digests at 31 times the modulus and above are rejected, matching the
	// channel's sendFieldElements bound.
	drawBound = uint256.MustFromBig(new(big.Int).Mul(starkfield.MODULUS, big.NewInt(31)))
)

// Prng is the verifier's channel state.
type Prng struct {
	digest  [32]byte
	counter uint64
}

func NewPrng(seed [32]byte) *Prng {
	return &Prng{digest: seed}
}

// SeedFromPublicInput hashes the product-free public input vector, the same
// words the verifier receives before any page products are appended.
func SeedFromPublicInput(words []*big.Int) [32]byte {
	var seed [32]byte
	copy(seed[:], starkfield.KeccakWords(words))
	return seed
}

// MixCommitment folds a commitment word into the state the way the verifier's
// readHash(mix=true) does: the digest is incremented as a uint256, hashed
// together with the word, and the counter starts over.
func (p *Prng) MixCommitment(word *big.Int) {
	d := new(uint256.Int).SetBytes(p.digest[:])
	d.AddUint64(d, 1)
	plusOne := d.Bytes32()
	commitment := starkfield.Word(word)
	copy(p.digest[:], crypto.Keccak256(plusOne[:], commitment[:]))
	p.counter = 0
}

// FieldElement draws one field element: rejection-sample the digest below the
// bound, take it out of Montgomery form, then advance the chain once.
func (p *Prng) FieldElement() (*big.Int, error) {
	x := new(uint256.Int).SetBytes(p.digest[:])
	for retries := 0; x.Cmp(drawBound) >= 0; retries++ {
		if retries == MAX_DRAW_RETRIES {
			return nil, fmt.Errorf("%w: challenge draw still rejected after %d attempts", types.ErrArithmeticInconsistency, MAX_DRAW_RETRIES)
		}
		p.advance()
		x.SetBytes(p.digest[:])
	}
	out := new(uint256.Int).MulMod(x, rInv256, modulus256)
	p.advance()
	return out.ToBig(), nil
}

func (p *Prng) advance() {
	p.counter++
	var counterWord [32]byte
	binary.BigEndian.PutUint64(counterWord[24:], p.counter)
	copy(p.digest[:], crypto.Keccak256(p.digest[:], counterWord[:]))
}

// InteractionElements replays the channel up to the interaction phase: seed
// with the product-free public input, mix the trace commitment (the first
// proof word), then draw z and alpha.
func InteractionElements(publicInputWords, proofWords []*big.Int) (*big.Int, *big.Int, error) {
	if len(proofWords) == 0 {
		return nil, nil, fmt.Errorf("%w: proof has no words to commit", types.ErrMalformedInput)
	}
	prng := NewPrng(SeedFromPublicInput(publicInputWords))
	prng.MixCommitment(proofWords[0])

	z, err := prng.FieldElement()
	if err != nil {
		return nil, nil, err
	}
	alpha, err := prng.FieldElement()
	if err != nil {
		return nil, nil, err
	}
	return z, alpha, nil
}

// Challenges returns the interaction challenges. The transcript replay is
// authoritative; when the annotations also carry the elements the two sources
// must agree, and a divergence is an error rather than a silent pick.
func Challenges(proof *types.AnnotatedProof, publicInputWords, proofWords []*big.Int) (z, alpha *big.Int, fromAnnotations bool, err error) {
	z, alpha, err = InteractionElements(publicInputWords, proofWords)
	if err != nil {
		return nil, nil, false, err
	}

	annZ, annAlpha, ok, err := ExtractInteractionElements(proof.Annotations)
	if err != nil {
		return nil, nil, false, err
	}
	if ok && (annZ.Cmp(z) != 0 || annAlpha.Cmp(alpha) != 0) {
		return nil, nil, false, fmt.Errorf(
			"%w: annotations carry z=%#x alpha=%#x but the transcript replays z=%#x alpha=%#x",
			types.ErrArithmeticInconsistency, annZ, annAlpha, z, alpha)
	}
	return z, alpha, ok, nil
}
