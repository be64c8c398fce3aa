// This package rebuilds the task metadata vector from the program's output
// segment and the fact topology side channel. The output segment comes in two
// framings: a plain run announces its task count in the first output word,
// a bootloader run carries a two-word bootloader config first. Nothing in the
// proof says which one it is; the giveaway is that config words are hashes
// while task counts are small.
package bootloader

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/zkpipe/stark-verifier-input/types"
)

// Format names the output framing the task walk detected.
type Format string

const (
	FormatPlain      Format = "plain"
	FormatBootloader Format = "bootloader"
)

// Output words above this magnitude cannot be task counts; they mark the
// bootloader config prefix.
var configMagnitude = new(big.Int).Lsh(big.NewInt(1), 32)

// A task's announced output size may not plausibly exceed this many bits.
const MAX_TASK_SIZE_BITS = 32

// OutputValues reads the output segment [begin, stop) out of the public
// memory, in address order. Every address in the range must be present.
func OutputValues(pi *types.PublicInput) ([]*big.Int, error) {
	seg, ok := pi.MemorySegments["output"]
	if !ok {
		return nil, fmt.Errorf("%w: memory_segments has no output entry", types.ErrMalformedInput)
	}
	if seg.StopPtr < seg.BeginAddr {
		return nil, fmt.Errorf("%w: output segment stops at %d before its begin address %d", types.ErrMalformedInput, seg.StopPtr, seg.BeginAddr)
	}

	byAddr := make(map[string]*big.Int, len(pi.PublicMemory))
	for _, cell := range pi.PublicMemory {
		byAddr[cell.Address.String()] = cell.Value
	}

	values := make([]*big.Int, 0, seg.StopPtr-seg.BeginAddr)
	for addr := seg.BeginAddr; addr < seg.StopPtr; addr++ {
		v, ok := byAddr[new(big.Int).SetUint64(addr).String()]
		if !ok {
			return nil, fmt.Errorf("%w: output address %d is not in public memory", types.ErrMalformedInput, addr)
		}
		values = append(values, v)
	}
	return values, nil
}

// TaskMetadata assembles [n_tasks, per task: output_size, program_hash,
// n_tree_pairs, tree_structure...]. Without a topology there are no tasks to
// describe and the vector is just [0].
//
// The topology list is ground truth for the task count: when the output
// segment announces a different number, the walk still covers exactly the
// supplied topologies and the disagreement is logged.
func TaskMetadata(pi *types.PublicInput, topologies []types.FactTopology, logger zerolog.Logger) ([]*big.Int, Format, error) {
	if len(topologies) == 0 {
		return []*big.Int{big.NewInt(0)}, "", nil
	}

	output, err := OutputValues(pi)
	if err != nil {
		return nil, "", err
	}
	if len(output) == 0 {
		return nil, "", fmt.Errorf("%w: output segment is empty", types.ErrMalformedInput)
	}

	format := FormatPlain
	countIdx, ptr := 0, 1
	if output[0].Cmp(configMagnitude) > 0 {
		format = FormatBootloader
		countIdx, ptr = 2, 3
	}
	if countIdx >= len(output) {
		return nil, "", fmt.Errorf("%w: output segment too short for %s framing", types.ErrMalformedInput, format)
	}

	announced := output[countIdx]
	if announced.Cmp(new(big.Int).SetUint64(uint64(len(topologies)))) != 0 {
		logger.Warn().
			Err(types.ErrTopologyMismatch).
			Str("announced", announced.String()).
			Int("topologies", len(topologies)).
			Msg("output segment announces a different task count; trusting the topology file")
	}

	metadata := []*big.Int{new(big.Int).SetUint64(uint64(len(topologies)))}
	for i, top := range topologies {
		if ptr+2 > len(output) {
			return nil, "", fmt.Errorf("%w: output truncated at task %d header", types.ErrMalformedInput, i)
		}
		size, programHash := output[ptr], output[ptr+1]
		if size.BitLen() > MAX_TASK_SIZE_BITS {
			return nil, "", fmt.Errorf("%w: task %d output size %s is not plausible", types.ErrMalformedInput, i, size)
		}
		// The size covers the task's own two header cells.
		if size.Uint64() < 2 {
			return nil, "", fmt.Errorf("%w: task %d output size %s is below the header size", types.ErrMalformedInput, i, size)
		}

		metadata = append(metadata, size, programHash,
			new(big.Int).SetUint64(uint64(len(top.TreeStructure)/2)))
		for _, node := range top.TreeStructure {
			metadata = append(metadata, new(big.Int).SetUint64(node))
		}

		ptr += int(size.Uint64())
		if ptr > len(output) {
			return nil, "", fmt.Errorf("%w: task %d output overruns the output segment", types.ErrMalformedInput, i)
		}
	}
	return metadata, format, nil
}
