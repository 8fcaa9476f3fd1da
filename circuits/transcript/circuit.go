// Package transcript contains a reference circuit that derives non-native
// challenges from public inputs through a domain-separated Poseidon2 sponge,
// the way a recursive verifier does.
package transcript

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/eon-protocol/eonsponge"
	"github.com/eon-protocol/eonsponge/circuits/hasher"
	"github.com/eon-protocol/eonsponge/circuits/sponge"
)

// Circuit absorbs Inputs and asserts that the challenges squeezed with Sizes
// are equal to Challenges.
type Circuit[T emulated.FieldParams] struct {
	Inputs     []frontend.Variable   `gnark:",public"`
	Challenges []emulated.Element[T] `gnark:",public"`

	Domain eonsponge.Domain             `gnark:"-"`
	Sizes  []eonsponge.FieldElementSize `gnark:"-"`
}

func (c *Circuit[T]) Define(api frontend.API) error {
	if len(c.Challenges) != len(c.Sizes) {
		return fmt.Errorf("%d challenges for %d sizes", len(c.Challenges), len(c.Sizes))
	}
	s, err := sponge.NewDomainSeparated(api, hasher.NewSponge, c.Domain)
	if err != nil {
		return fmt.Errorf("new sponge: %w", err)
	}
	if err := s.Absorb(c.Inputs...); err != nil {
		return fmt.Errorf("absorb: %w", err)
	}
	challenges, _, err := sponge.SqueezeNonNativeWithSizes[T](s, c.Sizes)
	if err != nil {
		return fmt.Errorf("squeeze: %w", err)
	}
	f, err := emulated.NewField[T](api)
	if err != nil {
		return err
	}
	for i := range challenges {
		f.AssertIsEqual(challenges[i], &c.Challenges[i])
	}
	return nil
}

// Placeholder returns the circuit shape for nbInputs inputs, used for compiling.
func Placeholder[T emulated.FieldParams](domain eonsponge.Domain, nbInputs int, sizes []eonsponge.FieldElementSize) *Circuit[T] {
	return &Circuit[T]{
		Inputs:     make([]frontend.Variable, nbInputs),
		Challenges: make([]emulated.Element[T], len(sizes)),
		Domain:     domain,
		Sizes:      sizes,
	}
}

// Assign runs the native sponge on inputs and returns the matching assignment.
func Assign[T emulated.FieldParams](domain eonsponge.Domain, inputs []fr.Element, sizes []eonsponge.FieldElementSize) (*Circuit[T], error) {
	s, err := eonsponge.NewDomainSeparatedSponge(domain)
	if err != nil {
		return nil, err
	}
	s.Absorb(inputs...)

	var fp T
	challenges, _, err := s.SqueezeNonNativeWithSizes(fp.Modulus(), sizes)
	if err != nil {
		return nil, err
	}

	c := Placeholder[T](domain, len(inputs), sizes)
	for i := range inputs {
		c.Inputs[i] = inputs[i].String()
	}
	for i := range challenges {
		c.Challenges[i] = emulated.ValueOf[T](challenges[i])
	}
	return c, nil
}
