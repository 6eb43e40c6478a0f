package main

import (
	"bytes"
	"math/rand/v2"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fumin/qfermion"
	"github.com/fumin/qfermion/circuit"
	"github.com/fumin/qfermion/trotter"
)

// Config describes a Hamiltonian and how to simulate it.
type Config struct {
	// Modes selects a random Hamiltonian on that many modes instead of the Hubbard chain.
	Modes int    `yaml:"modes"`
	Seed  uint64 `yaml:"seed"`

	Sites             int     `yaml:"sites"`
	Tunneling         float64 `yaml:"tunneling"`
	Interaction       float64 `yaml:"interaction"`
	ChemicalPotential float64 `yaml:"chemical_potential"`
	Periodic          bool    `yaml:"periodic"`

	Time           float64 `yaml:"time"`
	Steps          int     `yaml:"steps"`
	Order          int     `yaml:"order"`
	Controlled     bool    `yaml:"controlled"`
	OmitFinalSwaps bool    `yaml:"omit_final_swaps"`
}

func newConfig() Config {
	cfg := Config{}
	cfg.Sites = 2
	cfg.Tunneling = 1
	cfg.Interaction = 4
	cfg.Time = 1
	cfg.Steps = 1
	return cfg
}

func (cfg *Config) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&cfg.Modes, "modes", cfg.Modes, "number of modes of a random Hamiltonian, 0 for the Hubbard chain")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.Sites, "sites", cfg.Sites, "number of Hubbard sites")
	fs.Float64Var(&cfg.Tunneling, "tunneling", cfg.Tunneling, "Hubbard tunneling")
	fs.Float64Var(&cfg.Interaction, "interaction", cfg.Interaction, "Hubbard on-site interaction")
	fs.Float64Var(&cfg.ChemicalPotential, "mu", cfg.ChemicalPotential, "chemical potential")
	fs.BoolVar(&cfg.Periodic, "periodic", cfg.Periodic, "periodic boundary")
	fs.Float64Var(&cfg.Time, "time", cfg.Time, "evolution time")
	fs.IntVar(&cfg.Steps, "steps", cfg.Steps, "number of Trotter steps")
	fs.IntVar(&cfg.Order, "order", cfg.Order, "Trotter-Suzuki order")
	fs.BoolVar(&cfg.Controlled, "controlled", cfg.Controlled, "control the evolution on an extra qubit")
	fs.BoolVar(&cfg.OmitFinalSwaps, "omit-final-swaps", cfg.OmitFinalSwaps, "leave the qubits in the order after the last step")
}

// loadConfig overlays the YAML file at path onto cfg.
func loadConfig(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "")
	}
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

func (cfg Config) hamiltonian() (*qfermion.DiagonalCoulombHamiltonian, error) {
	if cfg.Modes > 0 {
		rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
		h, err := qfermion.RandomDiagonalCoulomb(cfg.Modes, rng, false)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		return h, nil
	}

	h, err := qfermion.HubbardChain(cfg.Sites, cfg.Tunneling, cfg.Interaction, cfg.ChemicalPotential, cfg.Periodic)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return h, nil
}

// qubits returns the system qubits, and the control qubit placed after them if the evolution is controlled.
func (cfg Config) qubits(n int) ([]circuit.Qubit, circuit.Qubit) {
	qubits := circuit.LineQubits(n)
	if !cfg.Controlled {
		return qubits, circuit.NoQubit
	}
	return qubits, circuit.Qubit(n)
}

func (cfg Config) simulateOptions(control circuit.Qubit) trotter.SimulateOptions {
	return trotter.NewSimulateOptions().
		Steps(cfg.Steps).
		Order(cfg.Order).
		Control(control).
		OmitFinalSwaps(cfg.OmitFinalSwaps)
}
