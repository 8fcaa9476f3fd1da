package sponge

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/std/math/emulated/emparams"
	"github.com/consensys/gnark/test"
	"github.com/rs/zerolog"

	"github.com/eon-protocol/eonsponge"
	"github.com/eon-protocol/eonsponge/circuits/hasher"
)

type recordedDomainCircuit struct {
	X frontend.Variable `gnark:",public"`

	domain eonsponge.Domain
	calls  []call
}

func (c *recordedDomainCircuit) Define(api frontend.API) error {
	s, err := NewDomainSeparated(api, newRecordingSponge, c.domain)
	if err != nil {
		return err
	}
	if err := s.Absorb(c.X); err != nil {
		return err
	}
	if err := s.Absorb(c.X); err != nil {
		return err
	}
	if _, err := s.SqueezeBits(3); err != nil {
		return err
	}
	if _, err := s.SqueezeFieldElements(1); err != nil {
		return err
	}
	if _, _, err := SqueezeNonNative[emparams.BN254Fr](s, 0); err != nil {
		return err
	}
	c.calls = s.Unwrap().calls
	return nil
}

func TestDomainSeparated_TagAbsorbedOnceFirst(t *testing.T) {
	assert := test.NewAssert(t)

	domain := eonsponge.MustDomain("eon/test/domain")
	c := &recordedDomainCircuit{domain: domain}
	_, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, c, frontend.IgnoreUnconstrainedInputs())
	assert.NoError(err)

	tag := domain.Elements(ecc.BLS12_381.ScalarField())
	ops := make([]string, len(c.calls))
	for i := range c.calls {
		ops[i] = c.calls[i].op
	}
	assert.Equal([]string{"absorb", "absorb", "absorb", "bits", "elements"}, ops)

	assert.Len(c.calls[0].elems, len(tag))
	for i := range tag {
		v, ok := c.calls[0].elems[i].(*big.Int)
		assert.True(ok)
		assert.Equal(0, v.Cmp(tag[i]), "tag element %d", i)
	}
	assert.Equal(1, c.calls[1].n)
	assert.Equal(1, c.calls[2].n)
}

func TestDomainSeparated_LogsSeparation(t *testing.T) {
	assert := test.NewAssert(t)

	var buf bytes.Buffer
	prev := logger.Logger()
	logger.Set(zerolog.New(&buf).Level(zerolog.DebugLevel))
	defer logger.Set(prev)

	c := &recordedDomainCircuit{domain: eonsponge.MustDomain("eon/test/log")}
	_, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, c, frontend.IgnoreUnconstrainedInputs())
	assert.NoError(err)
	assert.Equal(1, bytes.Count(buf.Bytes(), []byte(`"message":"domain separated"`)))
	assert.Contains(buf.String(), `"domain":"eon/test/log"`)
}

type squeezeFirstCircuit struct {
	X frontend.Variable `gnark:",public"`

	calls []call
}

func (c *squeezeFirstCircuit) Define(api frontend.API) error {
	rec, _ := newRecordingSponge(api)
	s, err := WrapDomain(rec, eonsponge.MustDomain("eon/test/squeeze"))
	if err != nil {
		return err
	}
	if _, err := s.SqueezeBytes(2); err != nil {
		return err
	}
	if _, err := s.SqueezeBytes(2); err != nil {
		return err
	}
	c.calls = rec.calls
	return nil
}

func TestDomainSeparated_SqueezeSeparates(t *testing.T) {
	assert := test.NewAssert(t)

	c := &squeezeFirstCircuit{}
	_, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, c, frontend.IgnoreUnconstrainedInputs())
	assert.NoError(err)
	assert.Len(c.calls, 3)
	assert.Equal("absorb", c.calls[0].op)
	assert.Equal("bytes", c.calls[1].op)
	assert.Equal("bytes", c.calls[2].op)
}

type emptyDomainCircuit struct {
	X frontend.Variable `gnark:",public"`
}

func (c *emptyDomainCircuit) Define(api frontend.API) error {
	_, err := NewDomainSeparated(api, newRecordingSponge, eonsponge.Domain{})
	return err
}

func TestDomainSeparated_EmptyDomain(t *testing.T) {
	assert := test.NewAssert(t)

	_, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, &emptyDomainCircuit{}, frontend.IgnoreUnconstrainedInputs())
	assert.ErrorIs(err, eonsponge.ErrEmptyDomain)
}

// domainCircuit squeezes Out from a sponge separated by Domain.
type domainCircuit struct {
	In  frontend.Variable
	Out []frontend.Variable `gnark:",public"`

	Domain eonsponge.Domain `gnark:"-"`
}

func (c *domainCircuit) Define(api frontend.API) error {
	s, err := NewDomainSeparated(api, hasher.NewSponge, c.Domain)
	if err != nil {
		return err
	}
	if err := s.Absorb(c.In); err != nil {
		return err
	}
	out, err := s.SqueezeFieldElements(len(c.Out))
	if err != nil {
		return err
	}
	for i := range out {
		api.AssertIsEqual(out[i], c.Out[i])
	}
	return nil
}

func TestDomainSeparated_MatchesNativeAndDistinct(t *testing.T) {
	assert := test.NewAssert(t)

	d1 := eonsponge.MustDomain("eon/transcript/v1")
	d2 := eonsponge.MustDomain("eon/transcript/v2")

	assignment := func(d eonsponge.Domain) *domainCircuit {
		s, err := eonsponge.NewDomainSeparatedSponge(d)
		assert.NoError(err)
		s.AbsorbUint64(5)
		out := s.SqueezeFieldElements(2)
		c := &domainCircuit{In: 5, Out: make([]frontend.Variable, len(out)), Domain: d1}
		for i := range out {
			c.Out[i] = out[i].String()
		}
		return c
	}

	assert.CheckCircuit(
		&domainCircuit{Out: make([]frontend.Variable, 2), Domain: d1},
		test.WithValidAssignment(assignment(d1)),
		test.WithInvalidAssignment(assignment(d2)),
		test.WithCurves(ecc.BLS12_381),
		test.NoProverChecks(),
	)
}
