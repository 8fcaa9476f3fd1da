// Centralizes Poseidon2 and sponge parameters for both native and circuit code.
package hasher

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/poseidon2"
)

const WIDTH = 3
const RATE = 2
const CAPACITY = WIDTH - RATE
const ROUND_FULL = 8
const ROUND_PARTIAL = 56
const USESEED = true
const SEED = "EON_POSEIDON2_SPONGE_SEED"

// USABLE_BITS is the number of low-order bits of a squeezed element that are
// released by the sponge; the top bit is dropped so the output is close to
// uniform.
const USABLE_BITS = fr.Bits - 1

// USABLE_BYTES is the number of little-endian bytes released per squeezed element.
const USABLE_BYTES = USABLE_BITS / 8

// GetPermutation returns a native Poseidon2 permutation using the parameters above.
var GetPermutation = sync.OnceValue(func() *poseidon2.Permutation {
	if USESEED {
		return poseidon2.NewPermutationWithSeed(WIDTH, ROUND_FULL, ROUND_PARTIAL, SEED)
	}
	return poseidon2.NewPermutation(WIDTH, ROUND_FULL, ROUND_PARTIAL)
})
