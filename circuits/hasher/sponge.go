package hasher

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/bits"
	"github.com/consensys/gnark/std/math/uints"
)

type spongeMode uint8

const (
	absorbing spongeMode = iota
	squeezing
)

// Sponge is a duplex sponge gadget over the Poseidon2 permutation. The first
// CAPACITY lanes of the state are never touched by absorb or squeeze.
//
// It mirrors eonsponge.Sponge, so squeezing from both after identical
// absorptions yields the same stream.
type Sponge struct {
	api   frontend.API
	perm  *Permutation
	state [WIDTH]frontend.Variable
	mode  spongeMode
	// next rate lane to absorb into or squeeze from
	next int
}

// NewSponge returns a fresh sponge bound to api with an all-zero state.
func NewSponge(api frontend.API) (*Sponge, error) {
	perm, err := NewPermutation(api)
	if err != nil {
		return nil, fmt.Errorf("new poseidon2 perm: %w", err)
	}
	s := &Sponge{api: api, perm: perm, mode: absorbing}
	for i := range s.state {
		s.state[i] = 0
	}
	return s, nil
}

func (s *Sponge) API() frontend.API {
	return s.api
}

func (s *Sponge) permute() error {
	return s.perm.Permutation(s.state[:])
}

// Absorb mixes elems into the rate part of the state.
func (s *Sponge) Absorb(elems ...frontend.Variable) error {
	if len(elems) == 0 {
		return nil
	}
	switch s.mode {
	case absorbing:
		if s.next == RATE {
			if err := s.permute(); err != nil {
				return err
			}
			s.next = 0
		}
	case squeezing:
		if err := s.permute(); err != nil {
			return err
		}
		s.next = 0
	}

	for len(elems) > 0 {
		if s.next == RATE {
			if err := s.permute(); err != nil {
				return err
			}
			s.next = 0
		}
		s.state[CAPACITY+s.next] = s.api.Add(s.state[CAPACITY+s.next], elems[0])
		elems = elems[1:]
		s.next++
	}
	s.mode = absorbing
	return nil
}

// SqueezeFieldElements returns n native elements from the rate part of the state.
func (s *Sponge) SqueezeFieldElements(n int) ([]frontend.Variable, error) {
	out := make([]frontend.Variable, 0, n)
	if n == 0 {
		return out, nil
	}
	switch s.mode {
	case absorbing:
		if err := s.permute(); err != nil {
			return nil, err
		}
		s.next = 0
	case squeezing:
		if s.next == RATE {
			if err := s.permute(); err != nil {
				return nil, err
			}
			s.next = 0
		}
	}
	s.mode = squeezing

	for len(out) < n {
		if s.next == RATE {
			if err := s.permute(); err != nil {
				return nil, err
			}
			s.next = 0
		}
		out = append(out, s.state[CAPACITY+s.next])
		s.next++
	}
	return out, nil
}

// SqueezeBits returns n bits, USABLE_BITS little-endian bits per squeezed element.
func (s *Sponge) SqueezeBits(n int) ([]frontend.Variable, error) {
	elems, err := s.SqueezeFieldElements((n + USABLE_BITS - 1) / USABLE_BITS)
	if err != nil {
		return nil, err
	}
	nbBits := s.api.Compiler().FieldBitLen()
	out := make([]frontend.Variable, 0, len(elems)*USABLE_BITS)
	for _, e := range elems {
		// full-width decomposition so that the bits are unique
		b := bits.ToBinary(s.api, e, bits.WithNbDigits(nbBits))
		out = append(out, b[:USABLE_BITS]...)
	}
	return out[:n], nil
}

// SqueezeBytes returns n bytes, USABLE_BYTES little-endian bytes per squeezed element.
func (s *Sponge) SqueezeBytes(n int) ([]uints.U8, error) {
	elems, err := s.SqueezeFieldElements((n + USABLE_BYTES - 1) / USABLE_BYTES)
	if err != nil {
		return nil, err
	}
	bf, err := uints.New[uints.U32](s.api)
	if err != nil {
		return nil, fmt.Errorf("new binary field: %w", err)
	}
	nbBits := s.api.Compiler().FieldBitLen()
	out := make([]uints.U8, 0, len(elems)*USABLE_BYTES)
	for _, e := range elems {
		b := bits.ToBinary(s.api, e, bits.WithNbDigits(nbBits))
		for i := 0; i < USABLE_BYTES; i++ {
			out = append(out, bf.ByteValueOf(bits.FromBinary(s.api, b[8*i:8*i+8])))
		}
	}
	return out[:n], nil
}
