package types

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HexInt is a big integer that travels through JSON as a 0x-prefixed minimal
// lowercase hex string, the format the on-chain tooling reads words in.
type HexInt struct {
	*big.Int
}

func Hex(x *big.Int) HexInt {
	return HexInt{x}
}

// HexSlice wraps a vector of big integers for serialization.
func HexSlice(xs []*big.Int) []HexInt {
	out := make([]HexInt, len(xs))
	for i, x := range xs {
		out[i] = HexInt{x}
	}
	return out
}

func (h HexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.EncodeBig(h.Int))
}

func (h *HexInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: hex word: %v", ErrMalformedInput, err)
	}
	x, err := hexutil.DecodeBig(s)
	if err != nil {
		return fmt.Errorf("%w: hex word %q: %v", ErrMalformedInput, s, err)
	}
	h.Int = x
	return nil
}
