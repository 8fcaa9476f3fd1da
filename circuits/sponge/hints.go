package sponge

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
)

func init() {
	solver.RegisterHint(bitsToLimbsHint)
}

// limbsOf splits v into nbLimbs little-endian limbs of bitsPerLimb bits.
func limbsOf(v *big.Int, nbLimbs, bitsPerLimb uint) []*big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), bitsPerLimb)
	mask.Sub(mask, big.NewInt(1))
	limbs := make([]*big.Int, nbLimbs)
	tmp := new(big.Int).Set(v)
	for i := range limbs {
		limbs[i] = new(big.Int).And(tmp, mask)
		tmp.Rsh(tmp, bitsPerLimb)
	}
	return limbs
}

func fromLimbs(limbs []*big.Int, bitsPerLimb uint) *big.Int {
	v := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		v.Lsh(v, bitsPerLimb)
		v.Add(v, limbs[i])
	}
	return v
}

// lookupTable returns, for j < nbBits, the limbs of 2^j mod modulus.
func lookupTable(modulus *big.Int, nbBits int, nbLimbs, bitsPerLimb uint) [][]*big.Int {
	table := make([][]*big.Int, 0, nbBits)
	cur := big.NewInt(1)
	for j := 0; j < nbBits; j++ {
		table = append(table, limbsOf(cur, nbLimbs, bitsPerLimb))
		cur.Lsh(cur, 1)
		if cur.Cmp(modulus) >= 0 {
			cur.Sub(cur, modulus)
		}
	}
	return table
}

// bitsToLimbsHint computes the witnessed limb values of a reconstructed
// element from its bits.
//
// The emulated modulus may not fit the native field, so it is passed as limbs.
//
// ins  = [ bitsPerLimb, p_0, ..., p_(nbLimbs-1), b_0, b_1, ..., b_(n-1) ]
// outs = [ limb_0, ..., limb_(nbLimbs-1) ]
func bitsToLimbsHint(_ *big.Int, ins, outs []*big.Int) error {
	nbLimbs := len(outs)
	if nbLimbs == 0 {
		return fmt.Errorf("need at least one limb")
	}
	if len(ins) < 1+nbLimbs {
		return fmt.Errorf("inputs must start with bitsPerLimb and %d modulus limbs", nbLimbs)
	}
	bitsPerLimb := uint(ins[0].Uint64())
	modulus := fromLimbs(ins[1:1+nbLimbs], bitsPerLimb)
	bits := ins[1+nbLimbs:]
	table := lookupTable(modulus, len(bits), uint(nbLimbs), bitsPerLimb)

	for k := range outs {
		outs[k].SetUint64(0)
	}
	for j, b := range bits {
		if b.Sign() == 0 {
			continue
		}
		if !b.IsUint64() || b.Uint64() != 1 {
			return fmt.Errorf("bit %d is not boolean", j)
		}
		for k := range outs {
			outs[k].Add(outs[k], table[j][k])
		}
	}
	return nil
}
