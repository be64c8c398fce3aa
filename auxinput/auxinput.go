// This package lays out the flat integer vectors the verifier's entry point
// takes: the proof parameter vector and the public input vector. Order is
// everything here; the verifier indexes these vectors blindly.
package auxinput

import (
	"math/big"

	"github.com/zkpipe/stark-verifier-input/pages"
	"github.com/zkpipe/stark-verifier-input/starkfield"
	"github.com/zkpipe/stark-verifier-input/types"
)

// Segment names in the order the verifier reads them. Absent segments are
// skipped, not zero-filled.
var SEGMENT_ORDER = []string{
	"program",
	"execution",
	"output",
	"pedersen",
	"range_check",
	"ecdsa",
	"bitwise",
	"ec_op",
	"keccak",
	"poseidon",
}

// ProofParams assembles the proof parameter vector:
// [n_queries, log_n_cosets, proof_of_work_bits,
// ceil(log2(last_layer_degree_bound)), n_fri_steps, fri_step_list...].
func ProofParams(pp *types.ProofParameters) []*big.Int {
	fri := &pp.Stark.Fri
	params := []*big.Int{
		new(big.Int).SetUint64(fri.NQueries),
		new(big.Int).SetUint64(pp.Stark.LogNCosets),
		new(big.Int).SetUint64(fri.ProofOfWorkBits),
		new(big.Int).SetUint64(starkfield.CeilLog2(fri.LastLayerDegreeBound)),
		new(big.Int).SetUint64(uint64(len(fri.FriStepList))),
	}
	for _, step := range fri.FriStepList {
		params = append(params, new(big.Int).SetUint64(step))
	}
	return params
}

// LayoutTag encodes the layout name as its ASCII bytes read as a big-endian
// integer, the tag the verifier compares against its compiled-in layout.
func LayoutTag(layout string) *big.Int {
	return new(big.Int).SetBytes([]byte(layout))
}

// PublicInputPrefix assembles the public input vector without the page
// products, the exact words the challenge transcript is seeded with:
//
//	[n_verifier_friendly_commitment_layers, log2(n_steps), rc_min, rc_max,
//	 layout tag, present segments (begin, stop)..., padding address,
//	 padding value, n_pages, page records...]
//
// The page record is (size, hash) for the regular page and
// (start address, size, hash) for continuous pages. The proof must have
// passed Validate; in particular the public memory is non-empty and its
// first cell doubles as the padding cell.
func PublicInputPrefix(proof *types.AnnotatedProof, facts *pages.Facts) []*big.Int {
	pi := &proof.PublicInput

	out := []*big.Int{
		new(big.Int).SetUint64(proof.ProofParameters.NVerifierFriendlyCommitmentLayers),
		new(big.Int).SetUint64(starkfield.FloorLog2(pi.NSteps)),
		new(big.Int).SetUint64(pi.RcMin),
		new(big.Int).SetUint64(pi.RcMax),
		LayoutTag(pi.Layout),
	}

	for _, name := range SEGMENT_ORDER {
		if seg, ok := pi.MemorySegments[name]; ok {
			out = append(out,
				new(big.Int).SetUint64(seg.BeginAddr),
				new(big.Int).SetUint64(seg.StopPtr))
		}
	}

	padding := pi.PublicMemory[0]
	out = append(out, padding.Address, padding.Value)

	out = append(out, new(big.Int).SetUint64(uint64(len(facts.PageIDs()))))
	if facts.Regular != nil {
		out = append(out, new(big.Int).SetUint64(facts.Regular.Size), facts.Regular.Hash)
	}
	for _, p := range facts.Continuous {
		out = append(out, p.StartAddr, new(big.Int).SetUint64(p.Size), p.Hash)
	}
	return out
}

// AppendProducts completes the vector with the per-page permutation products
// in page order. The products map must cover every page in facts.
func AppendProducts(prefix []*big.Int, facts *pages.Facts, products map[uint64]*big.Int) []*big.Int {
	ids := facts.PageIDs()
	out := make([]*big.Int, len(prefix), len(prefix)+len(ids))
	copy(out, prefix)
	for _, id := range ids {
		out = append(out, products[id])
	}
	return out
}
