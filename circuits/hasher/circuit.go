// Package hasher provides the Poseidon2 permutation and a duplex sponge gadget
// built on it for gnark circuits.
// Currently only supports BLS12-381.
package hasher

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	poseidonbls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr/poseidon2"
	"github.com/consensys/gnark/frontend"
)

var (
	ErrInvalidSizebuffer = errors.New("the size of the input should match the permutation width")
	ErrUnsupportedField  = errors.New("poseidon2 gadget only supports the BLS12-381 scalar field")
)

// In-circuit Poseidon2 permutation implementation.
type Permutation struct {
	api    frontend.API
	params parameters
}

// parameters holds the Poseidon2 parameters needed by the circuit.
type parameters struct {
	degreeSBox      int
	nbFullRounds    int
	nbPartialRounds int
	// Round keys arranged as [round][lane]; partial rounds only carry lane 0.
	roundKeys [][]big.Int
}

// NewPermutation builds a Permutation from the constants in vars.go. The
// round keys are taken from gnark-crypto so that the gadget and the native
// permutation agree bit for bit.
func NewPermutation(api frontend.API) (*Permutation, error) {
	if api.Compiler().Field().Cmp(fr.Modulus()) != 0 {
		return nil, ErrUnsupportedField
	}

	var concrete *poseidonbls12381.Parameters
	if USESEED {
		concrete = poseidonbls12381.NewParametersWithSeed(WIDTH, ROUND_FULL, ROUND_PARTIAL, SEED)
	} else {
		concrete = poseidonbls12381.NewParameters(WIDTH, ROUND_FULL, ROUND_PARTIAL)
	}

	params := parameters{
		degreeSBox:      poseidonbls12381.DegreeSBox(),
		nbFullRounds:    ROUND_FULL,
		nbPartialRounds: ROUND_PARTIAL,
		roundKeys:       make([][]big.Int, len(concrete.RoundKeys)),
	}
	for i := range params.roundKeys {
		params.roundKeys[i] = make([]big.Int, len(concrete.RoundKeys[i]))
		for j := range params.roundKeys[i] {
			concrete.RoundKeys[i][j].BigInt(&params.roundKeys[i][j])
		}
	}

	return &Permutation{api: api, params: params}, nil
}

func (h *Permutation) sBox(index int, state []frontend.Variable) {
	x := state[index]
	switch h.params.degreeSBox {
	case 3:
		state[index] = h.api.Mul(x, x, x)
	case 5:
		x2 := h.api.Mul(x, x)
		x4 := h.api.Mul(x2, x2)
		state[index] = h.api.Mul(x4, x)
	case 7:
		x2 := h.api.Mul(x, x)
		x3 := h.api.Mul(x2, x)
		x6 := h.api.Mul(x3, x3)
		state[index] = h.api.Mul(x6, x)
	default:
		panic("unsupported sBox degree")
	}
}

// matMulExternalInPlace applies circ(2,1,1) for t=3.
func (h *Permutation) matMulExternalInPlace(state []frontend.Variable) {
	sum := h.api.Add(state[0], state[1], state[2])
	for i := range state {
		state[i] = h.api.Add(state[i], sum)
	}
}

// matMulInternalInPlace applies diag(1,1,2)+J for t=3, aligned with gnark-crypto.
func (h *Permutation) matMulInternalInPlace(state []frontend.Variable) {
	sum := h.api.Add(state[0], state[1], state[2])
	state[0] = h.api.Add(state[0], sum)
	state[1] = h.api.Add(state[1], sum)
	state[2] = h.api.Add(h.api.Mul(state[2], 2), sum)
}

func (h *Permutation) addRoundKeyInPlace(round int, state []frontend.Variable) {
	for i := range h.params.roundKeys[round] {
		state[i] = h.api.Add(state[i], &h.params.roundKeys[round][i])
	}
}

// Permutation applies the Poseidon2 permutation in place.
func (h *Permutation) Permutation(state []frontend.Variable) error {
	if len(state) != WIDTH {
		return ErrInvalidSizebuffer
	}

	h.matMulExternalInPlace(state)

	rf := h.params.nbFullRounds / 2
	for i := 0; i < rf; i++ {
		h.addRoundKeyInPlace(i, state)
		for j := range state {
			h.sBox(j, state)
		}
		h.matMulExternalInPlace(state)
	}
	// Partial rounds (S-box applied only to lane 0).
	for i := rf; i < rf+h.params.nbPartialRounds; i++ {
		h.addRoundKeyInPlace(i, state)
		h.sBox(0, state)
		h.matMulInternalInPlace(state)
	}
	for i := rf + h.params.nbPartialRounds; i < h.params.nbFullRounds+h.params.nbPartialRounds; i++ {
		h.addRoundKeyInPlace(i, state)
		for j := range state {
			h.sBox(j, state)
		}
		h.matMulExternalInPlace(state)
	}
	return nil
}
