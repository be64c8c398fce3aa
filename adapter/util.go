package adapter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zkpipe/stark-verifier-input/types"
)

// PrepareFile runs the conversion between files: the annotated proof at
// proofPath, the optional fact topology document at topologiesPath (empty
// means none), and the output document at outputPath.
func (c *Codec) PrepareFile(proofPath, topologiesPath, outputPath string, pretty bool) (*types.VerifierInput, error) {
	proof, err := types.ReadAnnotatedProof(proofPath)
	if err != nil {
		return nil, err
	}

	var topologies []types.FactTopology
	if topologiesPath != "" {
		topologies, err = types.ReadFactTopologies(topologiesPath)
		if err != nil {
			return nil, err
		}
	}

	input, err := c.Prepare(proof, topologies)
	if err != nil {
		return nil, err
	}

	if err := WriteVerifierInput(outputPath, input, pretty); err != nil {
		return nil, err
	}
	c.logger.Info().Str("path", outputPath).Msg("saved verifier input")
	return input, nil
}

// WriteVerifierInput saves the document the way the submission tooling reads
// it back.
func WriteVerifierInput(path string, input *types.VerifierInput, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(input, "", "  ")
	} else {
		data, err = json.Marshal(input)
	}
	if err != nil {
		return fmt.Errorf("marshal verifier input: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write verifier input to %s: %w", path, err)
	}
	return nil
}

// ReadVerifierInput loads a previously written document.
func ReadVerifierInput(path string) (*types.VerifierInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verifier input: %w", err)
	}
	var input types.VerifierInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("%w: verifier input: %v", types.ErrMalformedInput, err)
	}
	return &input, nil
}
