// This package wires the whole conversion: annotated proof in, verifier input
// document out. The order of operations is load-bearing: the page facts and
// the product-free public input come first because the challenge transcript
// is seeded from them, and only the drawn challenges make the page products
// computable.
package adapter

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zkpipe/stark-verifier-input/auxinput"
	"github.com/zkpipe/stark-verifier-input/bootloader"
	"github.com/zkpipe/stark-verifier-input/challenger"
	"github.com/zkpipe/stark-verifier-input/pages"
	"github.com/zkpipe/stark-verifier-input/types"
)

type Codec struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Codec {
	return &Codec{logger: logger}
}

// Prepare converts an annotated proof, plus an optional fact topology list,
// into the verifier input document.
func (c *Codec) Prepare(proof *types.AnnotatedProof, topologies []types.FactTopology) (*types.VerifierInput, error) {
	start := time.Now()

	if err := proof.Validate(); err != nil {
		return nil, err
	}
	proofWords, err := proof.ProofWords()
	if err != nil {
		return nil, err
	}

	pi := &proof.PublicInput
	c.logger.Info().
		Str("layout", pi.Layout).
		Uint64("n_steps", pi.NSteps).
		Int("segments", len(pi.MemorySegments)).
		Int("memory_cells", len(pi.PublicMemory)).
		Int("proof_words", len(proofWords)).
		Msg("parsed annotated proof")

	facts, err := pages.Build(pi.PublicMemory)
	if err != nil {
		return nil, err
	}
	prefix := auxinput.PublicInputPrefix(proof, facts)

	z, alpha, fromAnnotations, err := challenger.Challenges(proof, prefix, proofWords)
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("z", fmt.Sprintf("%#x", z)).
		Str("alpha", fmt.Sprintf("%#x", alpha)).
		Bool("annotations_confirmed", fromAnnotations).
		Msg("derived interaction challenges")

	products := pages.Products(pi.PublicMemory, z, alpha)
	publicInput := auxinput.AppendProducts(prefix, facts, products)

	metadata, format, err := bootloader.TaskMetadata(pi, topologies, c.logger)
	if err != nil {
		return nil, err
	}

	input := &types.VerifierInput{
		ProofParams:      types.HexSlice(auxinput.ProofParams(&proof.ProofParameters)),
		Proof:            types.HexSlice(proofWords),
		PublicInput:      types.HexSlice(publicInput),
		Z:                types.Hex(z),
		Alpha:            types.Hex(alpha),
		MemoryPageFacts:  facts.Document(),
		TaskMetadata:     types.HexSlice(metadata),
		TaskOutputFormat: string(format),
	}

	c.logger.Info().
		Int("proof_params", len(input.ProofParams)).
		Int("proof", len(input.Proof)).
		Int("public_input", len(input.PublicInput)).
		Int("task_metadata", len(input.TaskMetadata)).
		Int("pages", len(facts.PageIDs())).
		Str("task_output_format", string(format)).
		Dur("elapsed", time.Since(start)).
		Msg("assembled verifier input")

	return input, nil
}
