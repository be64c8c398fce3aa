package types

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

const validProofJSON = `{
	"proof_hex": "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdefaabb",
	"annotations": [
		"P->V[0:32]: /cpu air/STARK/Original/Commit on Trace: Commitment(Hash(0x1234))",
		"V->P: /cpu air/STARK/Interaction: Interaction element #0: Field Element(0x3a1c)",
		"V->P: /cpu air/STARK/Interaction: Interaction element #1: Field Element(0x2b)"
	],
	"proof_parameters": {
		"stark": {
			"fri": {
				"fri_step_list": [0, 4, 4, 3],
				"last_layer_degree_bound": 64,
				"n_queries": 18,
				"proof_of_work_bits": 24
			},
			"log_n_cosets": 4
		}
	},
	"public_input": {
		"layout": "recursive",
		"n_steps": 16384,
		"rc_min": 32768,
		"rc_max": 32886,
		"memory_segments": {
			"program": {"begin_addr": 1, "stop_ptr": 5},
			"execution": {"begin_addr": 61, "stop_ptr": 100}
		},
		"public_memory": [
			{"address": 1, "page": 0, "value": "0x40780017fff7fff"},
			{"address": "2", "page": 0, "value": "5"},
			{"address": 1000, "page": 1, "value": "0xabc"}
		]
	}
}`

func TestParseAnnotatedProof(t *testing.T) {
	proof, err := ParseAnnotatedProof([]byte(validProofJSON))
	require.NoError(t, err)

	require.Equal(t, uint64(16384), proof.PublicInput.NSteps)
	require.Equal(t, "recursive", proof.PublicInput.Layout)
	require.Equal(t, uint64(4), proof.ProofParameters.Stark.LogNCosets)
	require.Equal(t, []uint64{0, 4, 4, 3}, proof.ProofParameters.Stark.Fri.FriStepList)
	require.Equal(t, uint64(0), proof.ProofParameters.NVerifierFriendlyCommitmentLayers)
	require.Len(t, proof.Annotations, 3)

	cells := proof.PublicInput.PublicMemory
	require.Len(t, cells, 3)

	// Number and decimal-string addresses decode the same way.
	require.Zero(t, cells[0].Address.Cmp(big.NewInt(1)))
	require.Zero(t, cells[1].Address.Cmp(big.NewInt(2)))
	// Values decode with or without the 0x prefix.
	require.Zero(t, cells[0].Value.Cmp(mustHex(t, "40780017fff7fff")))
	require.Zero(t, cells[1].Value.Cmp(big.NewInt(5)))
	require.Equal(t, uint64(1), cells[2].Page)
}

func mustHex(t *testing.T, s string) *big.Int {
	t.Helper()
	x, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok)
	return x
}

func TestParseAnnotatedProofRejections(t *testing.T) {
	mutate := func(t *testing.T, from, to string) []byte {
		t.Helper()
		doc := validProofJSON
		require.Contains(t, doc, from)
		return []byte(replaceOnce(doc, from, to))
	}

	cases := []struct {
		name string
		doc  []byte
	}{
		{"odd proof hex", mutate(t, `aabb",`, `aab",`)},
		{"non-hex proof", mutate(t, `aabb",`, `zzbb",`)},
		{"empty proof hex", mutate(t, `"proof_hex": "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdefaabb"`, `"proof_hex": "0x"`)},
		{"empty layout", mutate(t, `"layout": "recursive"`, `"layout": ""`)},
		{"n_steps not a power of two", mutate(t, `"n_steps": 16384`, `"n_steps": 16383`)},
		{"inverted range check bounds", mutate(t, `"rc_min": 32768`, `"rc_min": 40000`)},
		{"missing execution segment", mutate(t, `"execution":`, `"ecdsa":`)},
		{"segment stops before it begins", mutate(t, `"execution": {"begin_addr": 61, "stop_ptr": 100}`, `"execution": {"begin_addr": 61, "stop_ptr": 3}`)},
		{"no queries", mutate(t, `"n_queries": 18`, `"n_queries": 0`)},
		{"zero degree bound", mutate(t, `"last_layer_degree_bound": 64`, `"last_layer_degree_bound": 0`)},
		{"empty fri steps", mutate(t, `"fri_step_list": [0, 4, 4, 3]`, `"fri_step_list": []`)},
		{"bad cell value", mutate(t, `"value": "0xabc"`, `"value": "xyz"`)},
		{"negative address", mutate(t, `"address": 1000`, `"address": -7`)},
		{"float address", mutate(t, `"address": 1000`, `"address": 1.5`)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseAnnotatedProof(c.doc)
			require.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestParseAnnotatedProofEmptyMemory(t *testing.T) {
	doc := replaceOnce(validProofJSON, `[
			{"address": 1, "page": 0, "value": "0x40780017fff7fff"},
			{"address": "2", "page": 0, "value": "5"},
			{"address": 1000, "page": 1, "value": "0xabc"}
		]`, `[]`)
	_, err := ParseAnnotatedProof([]byte(doc))
	require.ErrorIs(t, err, ErrMalformedInput)
}

func replaceOnce(s, from, to string) string {
	for i := 0; i+len(from) <= len(s); i++ {
		if s[i:i+len(from)] == from {
			return s[:i] + to + s[i+len(from):]
		}
	}
	return s
}

func TestProofWords(t *testing.T) {
	proof := &AnnotatedProof{ProofHex: "0x" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef" + "aabb"}
	words, err := proof.ProofWords()
	require.NoError(t, err)
	require.Len(t, words, 2)
	require.Zero(t, words[0].Cmp(mustHex(t, "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")))

	// The 2-byte tail lands left-aligned in a zero-padded word.
	tail := new(big.Int).Lsh(big.NewInt(0xaabb), 8*30)
	require.Zero(t, words[1].Cmp(tail))
}

func TestProofWordsNoPrefix(t *testing.T) {
	proof := &AnnotatedProof{ProofHex: "ff"}
	words, err := proof.ProofWords()
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Zero(t, words[0].Cmp(new(big.Int).Lsh(big.NewInt(0xff), 8*31)))
}

func TestParseFieldHex(t *testing.T) {
	x, err := ParseFieldHex("0xFF")
	require.NoError(t, err)
	require.Zero(t, x.Cmp(big.NewInt(255)))

	x, err = ParseFieldHex("ff")
	require.NoError(t, err)
	require.Zero(t, x.Cmp(big.NewInt(255)))

	for _, bad := range []string{"", "0x", "0xzz", "-ff"} {
		_, err := ParseFieldHex(bad)
		require.ErrorIs(t, err, ErrMalformedInput, "input %q", bad)
	}
}

func TestParseFactTopologies(t *testing.T) {
	doc := `{"fact_topologies": [
		{"tree_structure": [1, 0], "page_sizes": [12]},
		{"tree_structure": [2, 1, 1, 0], "page_sizes": [3, 4]}
	]}`
	tops, err := ParseFactTopologies([]byte(doc))
	require.NoError(t, err)
	require.Len(t, tops, 2)
	require.Equal(t, []uint64{2, 1, 1, 0}, tops[1].TreeStructure)

	_, err = ParseFactTopologies([]byte(`{"fact_topologies": [{"tree_structure": [1]}]}`))
	require.ErrorIs(t, err, ErrMalformedInput)

	_, err = ParseFactTopologies([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestReadAnnotatedProofMissingFile(t *testing.T) {
	_, err := ReadAnnotatedProof("testdata/does-not-exist.json")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrMalformedInput))
}
