package sponge

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/std/math/emulated"
)

var ErrLimbOverflow = errors.New("bit sequence too long for a normal-form limb representation")

// Params returns the limb layout used to emulate the field of T: the number of
// limbs and the width of each limb. The same layout is used outside of the
// circuit, see limbsOf.
func Params[T emulated.FieldParams]() (nbLimbs, bitsPerLimb uint) {
	var fp T
	return fp.NbLimbs(), fp.BitsPerLimb()
}

// limbWidth is the width emulated.Field enforces on limb k of a normal-form
// element: full limbs except the top one, which only carries the remaining
// bits of the modulus.
func limbWidth[T emulated.FieldParams](k int) int {
	var fp T
	if k == int(fp.NbLimbs())-1 {
		return (fp.Modulus().BitLen()-1)%int(fp.BitsPerLimb()) + 1
	}
	return int(fp.BitsPerLimb())
}

// BitsToNonNative reconstructs one element of the emulated field T per
// little-endian bit sequence in bitsLE. Each limb k of an output element is a
// fresh witness constrained to equal sum_j bits[j] * limbs(2^j mod p)[k], so
// the outputs are functions of the bit variables and not only of their
// values. The bits must already be constrained to be boolean.
//
// Every sequence must be at most the bit length of the modulus of T long,
// otherwise ErrLimbOverflow is returned and nothing is allocated. Sequences
// may have different lengths. The outputs are in normal form: limbs are
// range-checked to their nominal width.
func BitsToNonNative[T emulated.FieldParams](api frontend.API, bitsLE [][]frontend.Variable) ([]*emulated.Element[T], error) {
	return bitsToNonNative[T](api, bitsToLimbsHint, bitsLE)
}

func bitsToNonNative[T emulated.FieldParams](api frontend.API, hint solver.Hint, bitsLE [][]frontend.Variable) ([]*emulated.Element[T], error) {
	if len(bitsLE) == 0 {
		return []*emulated.Element[T]{}, nil
	}

	var fp T
	modulus := fp.Modulus()
	nbLimbs, bitsPerLimb := Params[T]()

	maxBits := 0
	for _, bits := range bitsLE {
		maxBits = max(maxBits, len(bits))
	}
	table := lookupTable(modulus, maxBits, nbLimbs, bitsPerLimb)

	// every witnessed limb must fit its width whatever the bits are
	for k := 0; k < int(nbLimbs); k++ {
		bound := new(big.Int)
		for j := range table {
			bound.Add(bound, table[j][k])
		}
		if bound.BitLen() > limbWidth[T](k) {
			return nil, fmt.Errorf("%w: %d bits, limb %d", ErrLimbOverflow, maxBits, k)
		}
	}

	modLimbs := make([]frontend.Variable, nbLimbs)
	for k, l := range limbsOf(modulus, nbLimbs, bitsPerLimb) {
		modLimbs[k] = l
	}

	f, err := emulated.NewField[T](api)
	if err != nil {
		return nil, fmt.Errorf("new emulated field: %w", err)
	}

	log := logger.Logger().With().Str("gadget", "bits-to-nonnative").Logger()
	log.Debug().
		Int("sequences", len(bitsLE)).
		Int("maxBits", maxBits).
		Uint("nbLimbs", nbLimbs).
		Uint("bitsPerLimb", bitsPerLimb).
		Msg("lookup table built")

	out := make([]*emulated.Element[T], 0, len(bitsLE))
	for _, bits := range bitsLE {
		lc := make([]frontend.Variable, nbLimbs)
		for k := range lc {
			lc[k] = 0
		}
		for j, bit := range bits {
			for k := range lc {
				if table[j][k].Sign() == 0 {
					continue
				}
				lc[k] = api.Add(lc[k], api.Mul(bit, table[j][k]))
			}
		}

		ins := make([]frontend.Variable, 0, 1+len(modLimbs)+len(bits))
		ins = append(ins, int(bitsPerLimb))
		ins = append(ins, modLimbs...)
		ins = append(ins, bits...)
		limbs, err := api.Compiler().NewHint(hint, int(nbLimbs), ins...)
		if err != nil {
			return nil, fmt.Errorf("hint bits to limbs: %w", err)
		}
		for k := range limbs {
			api.AssertIsEqual(lc[k], limbs[k])
		}

		out = append(out, f.NewElement(limbs))
	}
	return out, nil
}
