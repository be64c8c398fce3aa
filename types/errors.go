package types

import "errors"

// ErrMalformedInput is returned when an input document is missing a field or a
// field cannot be decoded into the shape the pipeline needs. The wrapping
// message names the offending field. Always fatal.
var ErrMalformedInput = errors.New("malformed input")

// ErrArithmeticInconsistency is returned when numbers that must agree do not:
// replayed challenges diverging from the prover's annotations, page address
// ranges beyond addressable memory, rejection sampling that never lands.
// Always fatal.
var ErrArithmeticInconsistency = errors.New("arithmetic inconsistency")

// ErrTopologyMismatch marks a disagreement between the supplied fact topology
// and the task count announced inside the program output. It is never
// returned: the topology length is ground truth and the disagreement only
// surfaces as a warning log.
var ErrTopologyMismatch = errors.New("task topology mismatch")
