package eonsponge

import (
	"math/big"
	"slices"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Domain is a protocol identifier absorbed by domain-separated sponges before
// anything else.
type Domain struct {
	id []byte
}

// NewDomain validates id and returns the corresponding Domain.
func NewDomain(id string) (Domain, error) {
	if id == "" {
		return Domain{}, ErrEmptyDomain
	}
	return Domain{id: []byte(id)}, nil
}

// MustDomain is like NewDomain but panics on an empty id. Meant for
// package-level variables.
func MustDomain(id string) Domain {
	d, err := NewDomain(id)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Domain) ID() string {
	return string(d.id)
}

func (d Domain) IsZero() bool {
	return len(d.id) == 0
}

// Elements encodes d into elements of the field of the given modulus: the
// byte length first, then the id packed in little-endian chunks of
// (bitlen-1)/8 bytes. The length prefix keeps ids that only differ in
// trailing zero bytes apart.
func (d Domain) Elements(modulus *big.Int) []*big.Int {
	chunk := (modulus.BitLen() - 1) / 8
	out := make([]*big.Int, 0, 1+(len(d.id)+chunk-1)/chunk)
	out = append(out, big.NewInt(int64(len(d.id))))
	for rest := d.id; len(rest) > 0; {
		n := min(chunk, len(rest))
		le := slices.Clone(rest[:n])
		slices.Reverse(le)
		out = append(out, new(big.Int).SetBytes(le))
		rest = rest[n:]
	}
	return out
}

// FieldElements is Elements over the sponge field.
func (d Domain) FieldElements() []fr.Element {
	elems := d.Elements(fr.Modulus())
	out := make([]fr.Element, len(elems))
	for i := range elems {
		out[i].SetBigInt(elems[i])
	}
	return out
}
