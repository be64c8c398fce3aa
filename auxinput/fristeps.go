package auxinput

import (
	"fmt"

	"github.com/zkpipe/stark-verifier-input/starkfield"
	"github.com/zkpipe/stark-verifier-input/types"
)

// FriStepList derives the step list a prover config should carry for a given
// trace length and last layer degree bound: a leading zero step, then fours,
// then the remainder of round(log2(n_steps/degree_bound)) + 4. Both inputs
// must be powers of two, which keeps the log exact without float math.
func FriStepList(nSteps, lastLayerDegreeBound uint64) ([]uint64, error) {
	if nSteps == 0 || !starkfield.IsPowerOfTwo(nSteps) {
		return nil, fmt.Errorf("%w: n_steps %d is not a power of two", types.ErrMalformedInput, nSteps)
	}
	if lastLayerDegreeBound == 0 || !starkfield.IsPowerOfTwo(lastLayerDegreeBound) {
		return nil, fmt.Errorf("%w: last_layer_degree_bound %d is not a power of two", types.ErrMalformedInput, lastLayerDegreeBound)
	}

	friDegree := uint64(4)
	if nSteps > lastLayerDegreeBound {
		friDegree += starkfield.FloorLog2(nSteps) - starkfield.FloorLog2(lastLayerDegreeBound)
	}

	steps := []uint64{0}
	for i := uint64(0); i < friDegree/4; i++ {
		steps = append(steps, 4)
	}
	if rem := friDegree % 4; rem != 0 {
		steps = append(steps, rem)
	}
	return steps, nil
}
