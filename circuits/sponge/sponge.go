// Package sponge defines the in-circuit sponge abstraction used by verifier
// circuits: the SpongeVar capability set, the non-native squeezing built on
// top of it, and a domain-separating wrapper.
package sponge

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/eon-protocol/eonsponge"
)

// SpongeVar is the interface of a sponge gadget. Squeezing is stateful: every
// output depends on all previous absorptions and squeezes of the instance.
type SpongeVar interface {
	// API returns the constraint system the sponge is bound to.
	API() frontend.API
	// Absorb mixes native elements into the state, in order.
	Absorb(elems ...frontend.Variable) error
	SqueezeBytes(n int) ([]uints.U8, error)
	// SqueezeBits returns n boolean-constrained bits.
	SqueezeBits(n int) ([]frontend.Variable, error)
	SqueezeFieldElements(n int) ([]frontend.Variable, error)
}

// Constructor builds a fresh sponge bound to api.
type Constructor[S SpongeVar] func(api frontend.API) (S, error)

// SqueezeNonNativeWithSizes squeezes one element of the emulated field T per
// size. All bits are squeezed in a single call and split in the order of
// sizes; the bit chunks are returned along the elements so callers can reuse
// them for bit-level checks.
func SqueezeNonNativeWithSizes[T emulated.FieldParams](s SpongeVar, sizes []eonsponge.FieldElementSize) ([]*emulated.Element[T], [][]frontend.Variable, error) {
	if len(sizes) == 0 {
		return []*emulated.Element[T]{}, [][]frontend.Variable{}, nil
	}

	var fp T
	modulus := fp.Modulus()
	counts, total, err := eonsponge.BitCounts(modulus, sizes)
	if err != nil {
		return nil, nil, err
	}

	bits, err := s.SqueezeBits(total)
	if err != nil {
		return nil, nil, fmt.Errorf("squeeze %d bits: %w", total, err)
	}
	if len(bits) != total {
		return nil, nil, fmt.Errorf("sponge returned %d bits, want %d", len(bits), total)
	}

	chunks := make([][]frontend.Variable, 0, len(sizes))
	for _, n := range counts {
		chunks = append(chunks, bits[:n:n])
		bits = bits[n:]
	}

	elems, err := BitsToNonNative[T](s.API(), chunks)
	if err != nil {
		return nil, nil, err
	}
	return elems, chunks, nil
}

// SqueezeNonNative squeezes n full-size elements of the emulated field T.
func SqueezeNonNative[T emulated.FieldParams](s SpongeVar, n int) ([]*emulated.Element[T], [][]frontend.Variable, error) {
	return SqueezeNonNativeWithSizes[T](s, eonsponge.FullSizes(n))
}
