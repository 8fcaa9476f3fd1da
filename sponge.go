// Package eonsponge is the native side of the transcript: a Poseidon2 duplex
// sponge over BLS12-381 Fr that matches the in-circuit gadget of
// circuits/hasher bit for bit, plus the helpers shared with the circuits.
package eonsponge

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/eonsponge/circuits/hasher"
)

type spongeMode uint8

const (
	absorbing spongeMode = iota
	squeezing
)

// Sponge is the native duplex sponge. The zero value is not usable, use NewSponge.
type Sponge struct {
	state [hasher.WIDTH]fr.Element
	mode  spongeMode
	next  int
}

func NewSponge() *Sponge {
	return &Sponge{mode: absorbing}
}

func (s *Sponge) permute() {
	if err := hasher.GetPermutation().Permutation(s.state[:]); err != nil {
		// the state always has the permutation width
		panic(err)
	}
}

func (s *Sponge) Absorb(elems ...fr.Element) {
	if len(elems) == 0 {
		return
	}
	switch s.mode {
	case absorbing:
		if s.next == hasher.RATE {
			s.permute()
			s.next = 0
		}
	case squeezing:
		s.permute()
		s.next = 0
	}
	for i := range elems {
		if s.next == hasher.RATE {
			s.permute()
			s.next = 0
		}
		lane := &s.state[hasher.CAPACITY+s.next]
		lane.Add(lane, &elems[i])
		s.next++
	}
	s.mode = absorbing
}

// AbsorbUint64 absorbs each value as a field element.
func (s *Sponge) AbsorbUint64(vals ...uint64) {
	elems := make([]fr.Element, len(vals))
	for i, v := range vals {
		elems[i].SetUint64(v)
	}
	s.Absorb(elems...)
}

func (s *Sponge) SqueezeFieldElements(n int) []fr.Element {
	out := make([]fr.Element, 0, n)
	if n == 0 {
		return out
	}
	switch s.mode {
	case absorbing:
		s.permute()
		s.next = 0
	case squeezing:
		if s.next == hasher.RATE {
			s.permute()
			s.next = 0
		}
	}
	s.mode = squeezing
	for len(out) < n {
		if s.next == hasher.RATE {
			s.permute()
			s.next = 0
		}
		out = append(out, s.state[hasher.CAPACITY+s.next])
		s.next++
	}
	return out
}

// SqueezeBits returns n bits, least significant first, hasher.USABLE_BITS per element.
func (s *Sponge) SqueezeBits(n int) []bool {
	elems := s.SqueezeFieldElements((n + hasher.USABLE_BITS - 1) / hasher.USABLE_BITS)
	out := make([]bool, 0, len(elems)*hasher.USABLE_BITS)
	var v big.Int
	for i := range elems {
		elems[i].BigInt(&v)
		for j := 0; j < hasher.USABLE_BITS; j++ {
			out = append(out, v.Bit(j) == 1)
		}
	}
	return out[:n]
}

// SqueezeBytes returns n bytes, hasher.USABLE_BYTES little-endian bytes per element.
func (s *Sponge) SqueezeBytes(n int) []byte {
	elems := s.SqueezeFieldElements((n + hasher.USABLE_BYTES - 1) / hasher.USABLE_BYTES)
	out := make([]byte, 0, len(elems)*hasher.USABLE_BYTES)
	for i := range elems {
		be := elems[i].Bytes()
		for j := 0; j < hasher.USABLE_BYTES; j++ {
			out = append(out, be[fr.Bytes-1-j])
		}
	}
	return out[:n]
}

// SqueezeNonNativeWithSizes squeezes one element of the field of the given
// modulus per size, reduced modulo it. The raw bit chunks are returned next
// to the elements, in the same order.
func (s *Sponge) SqueezeNonNativeWithSizes(modulus *big.Int, sizes []FieldElementSize) ([]*big.Int, [][]bool, error) {
	if len(sizes) == 0 {
		return nil, nil, nil
	}
	counts, total, err := BitCounts(modulus, sizes)
	if err != nil {
		return nil, nil, err
	}
	bits := s.SqueezeBits(total)

	elems := make([]*big.Int, 0, len(sizes))
	chunks := make([][]bool, 0, len(sizes))
	for _, n := range counts {
		chunk := bits[:n]
		bits = bits[n:]
		chunks = append(chunks, chunk)
		elems = append(elems, BitsToInt(modulus, chunk))
	}
	return elems, chunks, nil
}

// SqueezeNonNative squeezes n full-size elements of the field of the given modulus.
func (s *Sponge) SqueezeNonNative(modulus *big.Int, n int) ([]*big.Int, [][]bool, error) {
	return s.SqueezeNonNativeWithSizes(modulus, FullSizes(n))
}

// BitsToInt returns sum bits[j]*2^j mod modulus.
func BitsToInt(modulus *big.Int, bitsLE []bool) *big.Int {
	v := new(big.Int)
	for j := len(bitsLE) - 1; j >= 0; j-- {
		v.Lsh(v, 1)
		if bitsLE[j] {
			v.SetBit(v, 0, 1)
		}
	}
	return v.Mod(v, modulus)
}

// DomainSeparatedSponge absorbs its domain before the first operation
// forwarded to the underlying sponge.
type DomainSeparatedSponge struct {
	sponge    *Sponge
	domain    Domain
	separated bool
}

func NewDomainSeparatedSponge(domain Domain) (*DomainSeparatedSponge, error) {
	if domain.IsZero() {
		return nil, ErrEmptyDomain
	}
	return &DomainSeparatedSponge{sponge: NewSponge(), domain: domain}, nil
}

func (s *DomainSeparatedSponge) separate() {
	if s.separated {
		return
	}
	s.sponge.Absorb(s.domain.FieldElements()...)
	s.separated = true
}

func (s *DomainSeparatedSponge) Absorb(elems ...fr.Element) {
	s.separate()
	s.sponge.Absorb(elems...)
}

func (s *DomainSeparatedSponge) AbsorbUint64(vals ...uint64) {
	s.separate()
	s.sponge.AbsorbUint64(vals...)
}

func (s *DomainSeparatedSponge) SqueezeFieldElements(n int) []fr.Element {
	s.separate()
	return s.sponge.SqueezeFieldElements(n)
}

func (s *DomainSeparatedSponge) SqueezeBits(n int) []bool {
	s.separate()
	return s.sponge.SqueezeBits(n)
}

func (s *DomainSeparatedSponge) SqueezeBytes(n int) []byte {
	s.separate()
	return s.sponge.SqueezeBytes(n)
}

func (s *DomainSeparatedSponge) SqueezeNonNativeWithSizes(modulus *big.Int, sizes []FieldElementSize) ([]*big.Int, [][]bool, error) {
	s.separate()
	return s.sponge.SqueezeNonNativeWithSizes(modulus, sizes)
}

func (s *DomainSeparatedSponge) SqueezeNonNative(modulus *big.Int, n int) ([]*big.Int, [][]bool, error) {
	return s.SqueezeNonNativeWithSizes(modulus, FullSizes(n))
}
