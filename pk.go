package eonsponge

import (
	"fmt"
	"io"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
)

// Pk bundles a compiled transcript circuit with its PLONK keys. The SRS comes
// from unsafekzg and is only suitable for tests and measurements.
type Pk struct {
	ccs constraint.ConstraintSystem
	pk  plonk.ProvingKey
	vk  plonk.VerifyingKey
}

func (me *Pk) Compile(circuit frontend.Circuit) error {
	ccs, err := frontend.Compile(FIELD, scs.NewBuilder, circuit)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	me.ccs, me.pk, me.vk = ccs, pk, vk
	return nil
}

func (me *Pk) NbConstraints() int {
	return me.ccs.GetNbConstraints()
}

func (me *Pk) Vk() plonk.VerifyingKey {
	return me.vk
}

// Prove solves the circuit for assignment and returns the proof together with
// the public part of the witness.
func (me *Pk) Prove(assignment frontend.Circuit) (plonk.Proof, witness.Witness, error) {
	full, err := frontend.NewWitness(assignment, FIELD)
	if err != nil {
		return nil, nil, fmt.Errorf("witness: %w", err)
	}
	public, err := full.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("public witness: %w", err)
	}
	proof, err := plonk.Prove(me.ccs, me.pk, full)
	if err != nil {
		return nil, nil, fmt.Errorf("prove: %w", err)
	}
	return proof, public, nil
}

func (me *Pk) Verify(proof plonk.Proof, public witness.Witness) error {
	return plonk.Verify(proof, me.vk, public)
}

// WriteTo writes the verifying key followed by the constraint system.
func (me *Pk) WriteTo(w io.Writer) (int64, error) {
	if n, err := me.vk.WriteTo(w); err != nil {
		return n, err
	} else {
		m, err := me.ccs.WriteTo(w)
		return m + n, err
	}
}

// ReadFrom reads what WriteTo wrote. The proving key is not serialized, so a
// Pk read back can only verify.
func (me *Pk) ReadFrom(r io.Reader) (int64, error) {
	me.vk = plonk.NewVerifyingKey(CURVE)
	me.ccs = plonk.NewCS(CURVE)
	if n, err := me.vk.ReadFrom(r); err != nil {
		return n, err
	} else {
		m, err := me.ccs.ReadFrom(r)
		return m + n, err
	}
}
