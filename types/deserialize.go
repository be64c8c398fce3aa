package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/zkpipe/stark-verifier-input/starkfield"
)

// ParseFieldHex decodes a hex string, with or without the 0x prefix, into a
// non-negative big integer.
func ParseFieldHex(s string) (*big.Int, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if t == "" {
		return nil, fmt.Errorf("%w: empty hex value", ErrMalformedInput)
	}
	x, ok := new(big.Int).SetString(t, 16)
	if !ok || x.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is not a hex integer", ErrMalformedInput, s)
	}
	return x, nil
}

func (c *MemoryCell) UnmarshalJSON(data []byte) error {
	var raw struct {
		Page    uint64          `json:"page"`
		Address json.RawMessage `json:"address"`
		Value   string          `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: public memory cell: %v", ErrMalformedInput, err)
	}

	addr, err := parseCellAddress(raw.Address)
	if err != nil {
		return err
	}
	val, err := ParseFieldHex(raw.Value)
	if err != nil {
		return fmt.Errorf("%w: public memory value %q", ErrMalformedInput, raw.Value)
	}

	c.Page = raw.Page
	c.Address = addr
	c.Value = val
	return nil
}

// Addresses arrive as JSON numbers from the prover and as decimal strings
// from some annotation tool versions; both are accepted here and nowhere
// else.
func parseCellAddress(raw json.RawMessage) (*big.Int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: public memory cell has no address", ErrMalformedInput)
	}
	tok := string(raw)
	if tok[0] == '"' {
		if err := json.Unmarshal(raw, &tok); err != nil {
			return nil, fmt.Errorf("%w: public memory address %s", ErrMalformedInput, raw)
		}
	}
	x, ok := new(big.Int).SetString(tok, 10)
	if !ok || x.Sign() < 0 {
		return nil, fmt.Errorf("%w: public memory address %q is not a decimal integer", ErrMalformedInput, tok)
	}
	return x, nil
}

// ParseAnnotatedProof decodes and validates an annotated proof document.
func ParseAnnotatedProof(data []byte) (*AnnotatedProof, error) {
	var proof AnnotatedProof
	if err := json.Unmarshal(data, &proof); err != nil {
		return nil, fmt.Errorf("%w: annotated proof: %v", ErrMalformedInput, err)
	}
	if err := proof.Validate(); err != nil {
		return nil, err
	}
	return &proof, nil
}

func ReadAnnotatedProof(path string) (*AnnotatedProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotated proof: %w", err)
	}
	return ParseAnnotatedProof(data)
}

// Validate fails fast on anything the pipeline would otherwise trip over
// halfway through, naming the field.
func (p *AnnotatedProof) Validate() error {
	if _, err := p.ProofWords(); err != nil {
		return err
	}

	pi := &p.PublicInput
	if pi.Layout == "" {
		return fmt.Errorf("%w: public_input.layout is empty", ErrMalformedInput)
	}
	if pi.NSteps == 0 || !starkfield.IsPowerOfTwo(pi.NSteps) {
		return fmt.Errorf("%w: n_steps %d is not a power of two", ErrMalformedInput, pi.NSteps)
	}
	if pi.RcMin > pi.RcMax {
		return fmt.Errorf("%w: rc_min %d exceeds rc_max %d", ErrMalformedInput, pi.RcMin, pi.RcMax)
	}
	for _, name := range []string{"program", "execution"} {
		if _, ok := pi.MemorySegments[name]; !ok {
			return fmt.Errorf("%w: memory_segments has no %q entry", ErrMalformedInput, name)
		}
	}
	for name, seg := range pi.MemorySegments {
		if seg.StopPtr < seg.BeginAddr {
			return fmt.Errorf("%w: memory_segments[%q] stops at %d before its begin address %d", ErrMalformedInput, name, seg.StopPtr, seg.BeginAddr)
		}
	}
	if len(pi.PublicMemory) == 0 {
		return fmt.Errorf("%w: public_memory is empty", ErrMalformedInput)
	}
	for i, cell := range pi.PublicMemory {
		if cell.Address.Cmp(starkfield.MODULUS) >= 0 {
			return fmt.Errorf("%w: public_memory[%d] address out of field range", ErrMalformedInput, i)
		}
		if cell.Value.Cmp(starkfield.MODULUS) >= 0 {
			return fmt.Errorf("%w: public_memory[%d] value out of field range", ErrMalformedInput, i)
		}
	}

	fri := &p.ProofParameters.Stark.Fri
	if fri.NQueries == 0 {
		return fmt.Errorf("%w: fri.n_queries is zero", ErrMalformedInput)
	}
	if fri.LastLayerDegreeBound == 0 {
		return fmt.Errorf("%w: fri.last_layer_degree_bound is zero", ErrMalformedInput)
	}
	if len(fri.FriStepList) == 0 {
		return fmt.Errorf("%w: fri.fri_step_list is empty", ErrMalformedInput)
	}
	return nil
}

// ProofWords decodes proof_hex into the big-endian 256-bit words the verifier
// consumes. A trailing partial word is zero-padded on the right. Odd-length
// or non-hex input is rejected before any padding happens.
func (p *AnnotatedProof) ProofWords() ([]*big.Int, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(p.ProofHex, "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("%w: proof_hex is empty", ErrMalformedInput)
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: proof_hex has odd length %d", ErrMalformedInput, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: proof_hex is not hexadecimal: %v", ErrMalformedInput, err)
	}

	if rem := len(raw) % starkfield.BYTES_PER_WORD; rem != 0 {
		raw = append(raw, make([]byte, starkfield.BYTES_PER_WORD-rem)...)
	}
	words := make([]*big.Int, 0, len(raw)/starkfield.BYTES_PER_WORD)
	for i := 0; i < len(raw); i += starkfield.BYTES_PER_WORD {
		words = append(words, new(big.Int).SetBytes(raw[i:i+starkfield.BYTES_PER_WORD]))
	}
	return words, nil
}

// ParseFactTopologies decodes the fact topology side-channel document.
func ParseFactTopologies(data []byte) ([]FactTopology, error) {
	var file FactTopologyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: fact topologies: %v", ErrMalformedInput, err)
	}
	for i, t := range file.FactTopologies {
		if len(t.TreeStructure)%2 != 0 {
			return nil, fmt.Errorf("%w: fact_topologies[%d].tree_structure has odd length %d", ErrMalformedInput, i, len(t.TreeStructure))
		}
	}
	return file.FactTopologies, nil
}

func ReadFactTopologies(path string) ([]FactTopology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fact topologies: %w", err)
	}
	return ParseFactTopologies(data)
}
