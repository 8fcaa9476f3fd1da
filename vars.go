package eonsponge

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc"
)

// FIELD is the native field of the sponge and of every transcript circuit.
var FIELD = ecc.BLS12_381.ScalarField()

// CURVE is the curve whose scalar field is FIELD.
const CURVE = ecc.BLS12_381

var (
	ErrInvalidSize = errors.New("truncated size exceeds the bit length of the target field")
	ErrEmptyDomain = errors.New("domain cannot be empty")
)
