package eonsponge

import (
	"fmt"
	"math/big"
)

// FieldElementSize tells how many sponge bits are spent on one squeezed
// element of a target field.
type FieldElementSize struct {
	truncated bool
	nbBits    int
}

// Full spends the bit length of the target modulus.
var Full = FieldElementSize{}

// Truncated spends exactly nbBits bits; the element is smaller than 2^nbBits.
func Truncated(nbBits int) FieldElementSize {
	return FieldElementSize{truncated: true, nbBits: nbBits}
}

// IsFull reports whether s is the Full size.
func (s FieldElementSize) IsFull() bool {
	return !s.truncated
}

// NbBits returns the number of bits s stands for in the field of the given modulus.
func (s FieldElementSize) NbBits(modulus *big.Int) (int, error) {
	if !s.truncated {
		return modulus.BitLen(), nil
	}
	if s.nbBits < 0 || s.nbBits > modulus.BitLen() {
		return 0, fmt.Errorf("%w: %d > %d", ErrInvalidSize, s.nbBits, modulus.BitLen())
	}
	return s.nbBits, nil
}

// BitCounts returns the bit length of every size, in order, and their sum.
func BitCounts(modulus *big.Int, sizes []FieldElementSize) ([]int, int, error) {
	counts := make([]int, len(sizes))
	total := 0
	for i, size := range sizes {
		n, err := size.NbBits(modulus)
		if err != nil {
			return nil, 0, err
		}
		counts[i] = n
		total += n
	}
	return counts, total, nil
}

// TotalBits sums the bit lengths of sizes.
func TotalBits(modulus *big.Int, sizes []FieldElementSize) (int, error) {
	_, total, err := BitCounts(modulus, sizes)
	return total, err
}

func (s FieldElementSize) String() string {
	if !s.truncated {
		return "full"
	}
	return fmt.Sprintf("truncated(%d)", s.nbBits)
}

// FullSizes returns n copies of Full.
func FullSizes(n int) []FieldElementSize {
	sizes := make([]FieldElementSize, n)
	for i := range sizes {
		sizes[i] = Full
	}
	return sizes
}
