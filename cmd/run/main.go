package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fumin/qfermion"
	"github.com/fumin/qfermion/circuit"
	"github.com/fumin/qfermion/givens"
	"github.com/fumin/qfermion/trotter"
)

// rootOptions are flags shared by all commands.
type rootOptions struct {
	runDir     string
	dbPath     string
	configPath string
	out        string

	cfg Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{cfg: newConfig()}
	cmd := &cobra.Command{
		Use:           "run",
		Short:         "Fermionic simulation circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				return nil
			}
			if err := loadConfig(&opts.cfg, opts.configPath); err != nil {
				return errors.Wrap(err, "")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.runDir, "d", filepath.Join("runs", "qfermion"), "run directory")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite database storing the circuits")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML file applied over the flags")
	cmd.PersistentFlags().StringVarP(&opts.out, "out", "o", "", "QASM output file, stdout if empty")
	opts.cfg.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(newGivensCommand(opts))
	cmd.AddCommand(newTrotterCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))
	return cmd
}

func newGivensCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "givens",
		Short: "Rotate into the orbitals of the one-body term",
		Long: `Diagonalize the one-body term of the Hamiltonian, and decompose the orbital rotation into a network of Givens rotations.

Examples:
  run givens --sites 3 --periodic
  run givens --modes 6 --seed 1 --db circuits.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.cfg.hamiltonian()
			if err != nil {
				return errors.Wrap(err, "")
			}
			energies, u, err := qfermion.OrbitalRotation(h)
			if err != nil {
				return errors.Wrap(err, "")
			}
			log.Printf("orbital energies %v", energies)

			qubits := circuit.LineQubits(h.NumQubits())
			seq, err := givens.Decompose(qubits, u)
			if err != nil {
				return errors.Wrap(err, "")
			}
			if err := opts.emit(qubits, seq); err != nil {
				return errors.Wrap(err, "")
			}
			return nil
		},
	}
}

func newTrotterCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trotter",
		Short: "Simulate the time evolution with a linear swap network",
		Long: `Emit the Trotter steps approximating exp(-i H t).

Examples:
  run trotter --sites 2 --steps 4 --order 2
  run trotter --config hubbard.yaml --controlled`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.cfg.hamiltonian()
			if err != nil {
				return errors.Wrap(err, "")
			}
			qubits, control := opts.cfg.qubits(h.NumQubits())
			seq, err := trotter.Simulate(qubits, h, opts.cfg.Time, opts.cfg.simulateOptions(control))
			if err != nil {
				return errors.Wrap(err, "")
			}

			register := qubits
			if control != circuit.NoQubit {
				register = append(slices.Clone(qubits), control)
			}
			if err := opts.emit(register, seq); err != nil {
				return errors.Wrap(err, "")
			}
			return nil
		},
	}
}

// emit writes seq as QASM, stores it in the database if one is given, and logs its statistics.
func (opts *rootOptions) emit(qubits []circuit.Qubit, seq iter.Seq[circuit.Op]) error {
	var w io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		w = f
	}
	if err := circuit.WriteQASM(w, qubits, seq); err != nil {
		return errors.Wrap(err, "")
	}

	if opts.dbPath != "" {
		runID, err := store(opts.dbPath, seq)
		if err != nil {
			return errors.Wrap(err, "")
		}
		log.Printf("stored run %s in %s", runID, opts.dbPath)
	}

	stats := circuit.GetStatistics(seq)
	log.Printf("%d ops, depth %d, two-qubit depth %d, %v", stats.NumOps, stats.Depth, stats.TwoQubitDepth, stats.Counts)
	return nil
}

// store appends seq to a new run in the database, and returns the run id.
func store(dbPath string, seq iter.Seq[circuit.Op]) (string, error) {
	c, err := circuit.NewDiskCircuit(dbPath)
	if err != nil {
		return "", errors.Wrap(err, "")
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := c.Append(ctx, seq); err != nil {
		return "", errors.Wrap(err, "")
	}
	return c.RunID, nil
}

func main() {
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	if err := newRootCommand().Execute(); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%v", os.Args))
	}
	return nil
}
