package eonsponge

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/eonsponge/circuits/hasher"
)

func TestSponge_Deterministic(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(1, 2, 3)
	b.AbsorbUint64(1, 2, 3)
	require.Equal(t, a.SqueezeFieldElements(5), b.SqueezeFieldElements(5))
}

func TestSponge_OrderSensitive(t *testing.T) {
	a, b, c := NewSponge(), NewSponge(), NewSponge()
	a.AbsorbUint64(1, 2)
	b.AbsorbUint64(2, 1)
	c.AbsorbUint64(1)
	c.AbsorbUint64(2)

	outA := a.SqueezeFieldElements(1)
	require.NotEqual(t, outA, b.SqueezeFieldElements(1))
	// splitting an absorption across calls does not change the state
	require.Equal(t, outA, c.SqueezeFieldElements(1))
}

func TestSponge_SqueezeExtends(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(42)
	b.AbsorbUint64(42)

	all := a.SqueezeFieldElements(2*hasher.RATE + 1)
	var parts []fr.Element
	parts = append(parts, b.SqueezeFieldElements(1)...)
	parts = append(parts, b.SqueezeFieldElements(hasher.RATE)...)
	parts = append(parts, b.SqueezeFieldElements(hasher.RATE)...)
	require.Equal(t, all, parts)
}

func TestSponge_AbsorbAfterSqueeze(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(1)
	b.AbsorbUint64(1)
	a.SqueezeFieldElements(1)
	a.AbsorbUint64(9)
	b.AbsorbUint64(9)
	require.NotEqual(t, a.SqueezeFieldElements(1), b.SqueezeFieldElements(1))
}

func TestSponge_EmptyAbsorbIsNoop(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(5)
	a.Absorb()
	b.AbsorbUint64(5)
	require.Equal(t, a.SqueezeFieldElements(3), b.SqueezeFieldElements(3))
}

func TestSponge_BitsMatchElements(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(3)
	b.AbsorbUint64(3)

	bits := a.SqueezeBits(hasher.USABLE_BITS + 10)
	elems := b.SqueezeFieldElements(2)
	require.Len(t, bits, hasher.USABLE_BITS+10)

	var v big.Int
	elems[0].BigInt(&v)
	for j := 0; j < hasher.USABLE_BITS; j++ {
		require.Equal(t, v.Bit(j) == 1, bits[j], "bit %d", j)
	}
	elems[1].BigInt(&v)
	for j := 0; j < 10; j++ {
		require.Equal(t, v.Bit(j) == 1, bits[hasher.USABLE_BITS+j], "bit %d", hasher.USABLE_BITS+j)
	}
}

func TestSponge_BytesMatchElements(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(3)
	b.AbsorbUint64(3)

	bytes := a.SqueezeBytes(hasher.USABLE_BYTES + 1)
	elems := b.SqueezeFieldElements(2)

	var v big.Int
	elems[0].BigInt(&v)
	for j := 0; j < hasher.USABLE_BYTES; j++ {
		require.Equal(t, byte(new(big.Int).Rsh(&v, uint(8*j)).Uint64()), bytes[j])
	}
	elems[1].BigInt(&v)
	require.Equal(t, byte(v.Uint64()), bytes[hasher.USABLE_BYTES])
}

func TestSponge_SqueezeNonNativeWithSizes(t *testing.T) {
	target := ecc.BN254.ScalarField()
	sizes := []FieldElementSize{Truncated(128), Truncated(180), Full}

	a, b := NewSponge(), NewSponge()
	a.AbsorbUint64(1)
	b.AbsorbUint64(1)

	elems, chunks, err := a.SqueezeNonNativeWithSizes(target, sizes)
	require.NoError(t, err)
	require.Len(t, elems, 3)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 128)
	require.Len(t, chunks[1], 180)
	require.Len(t, chunks[2], target.BitLen())

	// same as squeezing the total once and slicing
	bits := b.SqueezeBits(128 + 180 + target.BitLen())
	require.Equal(t, bits[:128], chunks[0])
	require.Equal(t, bits[128:308], chunks[1])
	require.Equal(t, bits[308:], chunks[2])

	require.Zero(t, BitsToInt(target, bits[:128]).Cmp(elems[0]))
	require.Equal(t, -1, elems[0].Cmp(new(big.Int).Lsh(big.NewInt(1), 128)))
	require.Equal(t, -1, elems[2].Cmp(target))

	// both sponges stay in sync
	require.Equal(t, a.SqueezeFieldElements(1), b.SqueezeFieldElements(1))
}

func TestSponge_SqueezeNonNativeEmpty(t *testing.T) {
	a, b := NewSponge(), NewSponge()
	elems, chunks, err := a.SqueezeNonNativeWithSizes(ecc.BN254.ScalarField(), nil)
	require.NoError(t, err)
	require.Empty(t, elems)
	require.Empty(t, chunks)
	// nothing was squeezed
	a.AbsorbUint64(1)
	b.AbsorbUint64(1)
	require.Equal(t, a.SqueezeFieldElements(1), b.SqueezeFieldElements(1))
}

func TestSponge_SqueezeNonNativeInvalidSize(t *testing.T) {
	target := ecc.BN254.ScalarField()
	_, _, err := NewSponge().SqueezeNonNativeWithSizes(target, []FieldElementSize{Truncated(target.BitLen() + 1)})
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestBitsToInt(t *testing.T) {
	mod := big.NewInt(13)
	// 0b10111 = 23 = 10 mod 13
	require.Zero(t, BitsToInt(mod, []bool{true, true, true, false, true}).Cmp(big.NewInt(10)))
	require.Zero(t, BitsToInt(mod, nil).Sign())
}

func TestDomainSeparatedSponge(t *testing.T) {
	d1 := MustDomain("eon/transcript/v1")
	d2 := MustDomain("eon/transcript/v2")

	s1, err := NewDomainSeparatedSponge(d1)
	require.NoError(t, err)
	s1bis, err := NewDomainSeparatedSponge(d1)
	require.NoError(t, err)
	s2, err := NewDomainSeparatedSponge(d2)
	require.NoError(t, err)

	for _, s := range []*DomainSeparatedSponge{s1, s1bis, s2} {
		s.AbsorbUint64(1, 2, 3)
	}
	out1 := s1.SqueezeFieldElements(2)
	require.Equal(t, out1, s1bis.SqueezeFieldElements(2))
	require.NotEqual(t, out1, s2.SqueezeFieldElements(2))

	// the tag is absorbed exactly once, first
	manual := NewSponge()
	manual.Absorb(d1.FieldElements()...)
	manual.AbsorbUint64(1, 2, 3)
	wrapped, _ := NewDomainSeparatedSponge(d1)
	wrapped.AbsorbUint64(1)
	wrapped.AbsorbUint64(2, 3)
	require.Equal(t, manual.SqueezeFieldElements(3), wrapped.SqueezeFieldElements(3))

	_, err = NewDomainSeparatedSponge(Domain{})
	require.ErrorIs(t, err, ErrEmptyDomain)
}
