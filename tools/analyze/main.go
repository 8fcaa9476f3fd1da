// Command analyze reports the constraint cost of deriving non-native
// transcript challenges and can run a full PLONK round trip for each target.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eonsponge"
	"github.com/eon-protocol/eonsponge/circuits/transcript"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringSlice("targets", []string{"bn254", "secp256k1"}, "emulated target fields: "+strings.Join(targetNames(), ", "))
	rootCmd.Flags().String("sizes", "128,180,full", "comma separated challenge sizes in bits, or full")
	rootCmd.Flags().Int("inputs", 4, "number of native public inputs absorbed")
	rootCmd.Flags().String("domain", "eon/analyze", "domain separation tag")
	rootCmd.Flags().Bool("prove", false, "also run setup, prove and verify with PLONK")
	rootCmd.Flags().BoolP("verbose", "v", false, "log gnark compiler output")
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Constraint counts of the non-native challenge derivation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("targets")
		rawSizes, _ := cmd.Flags().GetString("sizes")
		nbInputs, _ := cmd.Flags().GetInt("inputs")
		id, _ := cmd.Flags().GetString("domain")
		prove, _ := cmd.Flags().GetBool("prove")
		verbose, _ := cmd.Flags().GetBool("verbose")

		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
		if verbose {
			logger.Set(log)
		} else {
			logger.Disable()
		}

		sizes, err := parseSizes(rawSizes)
		if err != nil {
			return err
		}
		domain, err := eonsponge.NewDomain(id)
		if err != nil {
			return err
		}
		selected := make([]target, 0, len(names))
		for _, name := range names {
			t, ok := targets[name]
			if !ok {
				return fmt.Errorf("unknown target %q", name)
			}
			selected = append(selected, t)
		}

		reports, err := analyze(cmd.Context(), selected, domain, nbInputs, sizes)
		if err != nil {
			return err
		}
		for _, r := range reports {
			fmt.Printf("%-12s r1cs=%-8d scs=%-8d\n", r.name, r.nbR1CS, r.nbSCS)
		}

		if !prove {
			return nil
		}
		for _, t := range selected {
			start := time.Now()
			if err := roundTrip(t, domain, nbInputs, sizes); err != nil {
				return fmt.Errorf("%s: %w", t.name, err)
			}
			log.Info().Str("target", t.name).Dur("took", time.Since(start)).Msg("proof verified")
		}
		return nil
	},
}

// target binds the transcript circuit to one emulated field.
type target struct {
	name   string
	shape  func(domain eonsponge.Domain, nbInputs int, sizes []eonsponge.FieldElementSize) frontend.Circuit
	assign func(domain eonsponge.Domain, inputs []fr.Element, sizes []eonsponge.FieldElementSize) (frontend.Circuit, error)
}

func newTarget[T emulated.FieldParams](name string) target {
	return target{
		name: name,
		shape: func(domain eonsponge.Domain, nbInputs int, sizes []eonsponge.FieldElementSize) frontend.Circuit {
			return transcript.Placeholder[T](domain, nbInputs, sizes)
		},
		assign: func(domain eonsponge.Domain, inputs []fr.Element, sizes []eonsponge.FieldElementSize) (frontend.Circuit, error) {
			return transcript.Assign[T](domain, inputs, sizes)
		},
	}
}

var targets = map[string]target{
	"bn254":      newTarget[emparams.BN254Fr]("bn254"),
	"secp256k1":  newTarget[emparams.Secp256k1Fr]("secp256k1"),
	"p256":       newTarget[emparams.P256Fr]("p256"),
	"bls12381fp": newTarget[emparams.BLS12381Fp]("bls12381fp"),
}

func targetNames() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseSizes(raw string) ([]eonsponge.FieldElementSize, error) {
	var sizes []eonsponge.FieldElementSize
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s == "full" {
			sizes = append(sizes, eonsponge.Full)
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", s, err)
		}
		sizes = append(sizes, eonsponge.Truncated(n))
	}
	return sizes, nil
}

type report struct {
	name          string
	nbR1CS, nbSCS int
}

// analyze compiles every target for both arithmetizations concurrently.
func analyze(ctx context.Context, selected []target, domain eonsponge.Domain, nbInputs int, sizes []eonsponge.FieldElementSize) ([]report, error) {
	reports := make([]report, len(selected))
	bar := progressbar.Default(int64(2*len(selected)), "compiling")
	g, _ := errgroup.WithContext(ctx)
	for i, t := range selected {
		reports[i].name = t.name
		g.Go(func() error {
			ccs, err := frontend.Compile(eonsponge.FIELD, r1cs.NewBuilder, t.shape(domain, nbInputs, sizes))
			if err != nil {
				return fmt.Errorf("%s r1cs: %w", t.name, err)
			}
			reports[i].nbR1CS = ccs.GetNbConstraints()
			return bar.Add(1)
		})
		g.Go(func() error {
			ccs, err := frontend.Compile(eonsponge.FIELD, scs.NewBuilder, t.shape(domain, nbInputs, sizes))
			if err != nil {
				return fmt.Errorf("%s scs: %w", t.name, err)
			}
			reports[i].nbSCS = ccs.GetNbConstraints()
			return bar.Add(1)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, bar.Finish()
}

func roundTrip(t target, domain eonsponge.Domain, nbInputs int, sizes []eonsponge.FieldElementSize) error {
	var pk eonsponge.Pk
	if err := pk.Compile(t.shape(domain, nbInputs, sizes)); err != nil {
		return err
	}
	inputs := make([]fr.Element, nbInputs)
	for i := range inputs {
		if _, err := inputs[i].SetRandom(); err != nil {
			return err
		}
	}
	assignment, err := t.assign(domain, inputs, sizes)
	if err != nil {
		return err
	}
	proof, public, err := pk.Prove(assignment)
	if err != nil {
		return err
	}
	return pk.Verify(proof, public)
}
