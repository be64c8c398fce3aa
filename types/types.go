package types

import "math/big"

// AnnotatedProof is the document produced by running the prover's annotation
// tool over a proof file: the raw proof bytes as hex, the prover<->verifier
// channel annotations, and the public input the proof commits to.
type AnnotatedProof struct {
	ProofHex        string          `json:"proof_hex"`
	Annotations     []string        `json:"annotations"`
	ProofParameters ProofParameters `json:"proof_parameters"`
	PublicInput     PublicInput     `json:"public_input"`
}

type ProofParameters struct {
	Stark struct {
		Fri        FriParameters `json:"fri"`
		LogNCosets uint64        `json:"log_n_cosets"`
	} `json:"stark"`
	// Zero when the prover config does not set it, which is also what the
	// verifier expects for fully keccak-committed traces.
	NVerifierFriendlyCommitmentLayers uint64 `json:"n_verifier_friendly_commitment_layers"`
}

type FriParameters struct {
	FriStepList          []uint64 `json:"fri_step_list"`
	LastLayerDegreeBound uint64   `json:"last_layer_degree_bound"`
	NQueries             uint64   `json:"n_queries"`
	ProofOfWorkBits      uint64   `json:"proof_of_work_bits"`
}

// PublicInput describes the execution the proof attests to. The memory cells
// keep their file order; the pipeline depends on it (the first cell is the
// padding cell, page hashes cover cells in encounter order).
type PublicInput struct {
	Layout         string                   `json:"layout"`
	NSteps         uint64                   `json:"n_steps"`
	RcMin          uint64                   `json:"rc_min"`
	RcMax          uint64                   `json:"rc_max"`
	MemorySegments map[string]MemorySegment `json:"memory_segments"`
	PublicMemory   []MemoryCell             `json:"public_memory"`
}

type MemorySegment struct {
	BeginAddr uint64 `json:"begin_addr"`
	StopPtr   uint64 `json:"stop_ptr"`
}

// MemoryCell is one public memory entry. The address arrives as a JSON number
// or a decimal string depending on the toolchain version, the value as hex
// with or without the 0x prefix; both land as canonical big integers.
type MemoryCell struct {
	Page    uint64
	Address *big.Int
	Value   *big.Int
}

// FactTopology describes how one task's output is split into Merkle pages.
// TreeStructure is a flat sequence of (n_pages, n_nodes) pairs.
type FactTopology struct {
	TreeStructure []uint64 `json:"tree_structure"`
	PageSizes     []uint64 `json:"page_sizes"`
}

// FactTopologyFile is the side-channel document written by the bootloader run.
type FactTopologyFile struct {
	FactTopologies []FactTopology `json:"fact_topologies"`
}

// RegularMemoryPage carries page 0 as interleaved (address, value) words.
type RegularMemoryPage struct {
	MemoryPairs []HexInt `json:"memory_pairs"`
}

// ContinuousMemoryPage carries a page with id > 0 as a dense value array
// starting at start_addr; gaps between supplied cells are zero words.
type ContinuousMemoryPage struct {
	StartAddr HexInt   `json:"start_addr"`
	Values    []HexInt `json:"values"`
}

type MemoryPageFacts struct {
	RegularPage     *RegularMemoryPage     `json:"regular_page"`
	ContinuousPages []ContinuousMemoryPage `json:"continuous_pages"`
}

// VerifierInput is the output document: every calldata vector the on-chain
// entry point takes, each integer as a 0x-prefixed minimal hex word.
//
//   - ProofParams: [n_queries, log_n_cosets, proof_of_work_bits,
//     ceil(log2(last_layer_degree_bound)), n_fri_steps, fri_step_list...]
//   - Proof: the proof bytes split into big-endian 256-bit words.
//   - PublicInput: the flat public input vector, permutation products
//     included, interaction challenges excluded.
//   - Z, Alpha: the memory/permutation interaction challenges.
//   - TaskMetadata: [n_tasks, per task: output_size, program_hash,
//     n_tree_pairs, tree_structure...], or [0] when no topology was supplied.
//   - TaskOutputFormat: which output framing the task walk detected, "plain"
//     or "bootloader"; empty when no topology was supplied.
type VerifierInput struct {
	ProofParams      []HexInt        `json:"proof_params"`
	Proof            []HexInt        `json:"proof"`
	PublicInput      []HexInt        `json:"public_input"`
	Z                HexInt          `json:"z"`
	Alpha            HexInt          `json:"alpha"`
	MemoryPageFacts  MemoryPageFacts `json:"memory_page_facts"`
	TaskMetadata     []HexInt        `json:"task_metadata"`
	TaskOutputFormat string          `json:"task_output_format,omitempty"`
}

// CairoAuxInput is the vector the verifier entry point actually receives:
// the public input with the two interaction challenges appended.
func (v *VerifierInput) CairoAuxInput() []HexInt {
	out := make([]HexInt, 0, len(v.PublicInput)+2)
	out = append(out, v.PublicInput...)
	out = append(out, v.Z, v.Alpha)
	return out
}
