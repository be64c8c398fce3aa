package challenger

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/zkpipe/stark-verifier-input/types"
)

// The prover's channel annotations spell the interaction elements out on
// lines of this shape; the hex body is always lowercase.
var interactionPattern = regexp.MustCompile(
	`V->P: /cpu air/STARK/Interaction: Interaction element #\d+: Field Element\(0x([0-9a-f]+)\)`)

// ExtractInteractionElements pulls the first two interaction elements out of
// the annotation lines. ok is false when fewer than two are present, which is
// normal for proofs annotated without channel dumps.
func ExtractInteractionElements(annotations []string) (z, alpha *big.Int, ok bool, err error) {
	elements := make([]*big.Int, 0, 2)
	for _, line := range annotations {
		for _, match := range interactionPattern.FindAllStringSubmatch(line, -1) {
			x, good := new(big.Int).SetString(match[1], 16)
			if !good {
				return nil, nil, false, fmt.Errorf("%w: interaction annotation %q", types.ErrMalformedInput, line)
			}
			elements = append(elements, x)
		}
	}
	if len(elements) < 2 {
		return nil, nil, false, nil
	}
	return elements[0], elements[1], true, nil
}
