package sponge

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/eon-protocol/eonsponge"
)

// DomainSeparated wraps a sponge so that the domain tag is absorbed, once,
// before anything else reaches it.
type DomainSeparated[S SpongeVar] struct {
	sponge    S
	domain    eonsponge.Domain
	separated bool
}

// NewDomainSeparated builds a fresh sponge with newSponge and wraps it.
func NewDomainSeparated[S SpongeVar](api frontend.API, newSponge Constructor[S], domain eonsponge.Domain) (*DomainSeparated[S], error) {
	s, err := newSponge(api)
	if err != nil {
		return nil, err
	}
	return WrapDomain(s, domain)
}

// WrapDomain wraps an existing sponge. The sponge must not have been used yet,
// otherwise the tag is not the first material it absorbs.
func WrapDomain[S SpongeVar](sponge S, domain eonsponge.Domain) (*DomainSeparated[S], error) {
	if domain.IsZero() {
		return nil, eonsponge.ErrEmptyDomain
	}
	return &DomainSeparated[S]{sponge: sponge, domain: domain}, nil
}

// Unwrap returns the wrapped sponge.
func (d *DomainSeparated[S]) Unwrap() S {
	return d.sponge
}

func (d *DomainSeparated[S]) Domain() eonsponge.Domain {
	return d.domain
}

func (d *DomainSeparated[S]) separate() error {
	if d.separated {
		return nil
	}
	api := d.sponge.API()
	tag := d.domain.Elements(api.Compiler().Field())
	elems := make([]frontend.Variable, len(tag))
	for i := range tag {
		elems[i] = tag[i]
	}
	if err := d.sponge.Absorb(elems...); err != nil {
		return fmt.Errorf("absorb domain %q: %w", d.domain.ID(), err)
	}
	log := logger.Logger()
	log.Debug().Str("domain", d.domain.ID()).Int("elements", len(elems)).Msg("domain separated")
	d.separated = true
	return nil
}

func (d *DomainSeparated[S]) API() frontend.API {
	return d.sponge.API()
}

func (d *DomainSeparated[S]) Absorb(elems ...frontend.Variable) error {
	if err := d.separate(); err != nil {
		return err
	}
	return d.sponge.Absorb(elems...)
}

func (d *DomainSeparated[S]) SqueezeBytes(n int) ([]uints.U8, error) {
	if err := d.separate(); err != nil {
		return nil, err
	}
	return d.sponge.SqueezeBytes(n)
}

func (d *DomainSeparated[S]) SqueezeBits(n int) ([]frontend.Variable, error) {
	if err := d.separate(); err != nil {
		return nil, err
	}
	return d.sponge.SqueezeBits(n)
}

func (d *DomainSeparated[S]) SqueezeFieldElements(n int) ([]frontend.Variable, error) {
	if err := d.separate(); err != nil {
		return nil, err
	}
	return d.sponge.SqueezeFieldElements(n)
}
