package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fumin/qfermion/circuit"
	"github.com/fumin/qfermion/trotter"
)

const (
	fnameDone       = "done.txt"
	fnameStatistics = "statistics.json"
)

// Statistics is the cost of simulating one configuration.
type Statistics struct {
	Sites         int    `json:"sites"`
	Order         int    `json:"order"`
	Steps         int    `json:"steps"`
	NumOps        int    `json:"num_ops"`
	Depth         int    `json:"depth"`
	TwoQubitDepth int    `json:"two_qubit_depth"`
	RunID         string `json:"run_id,omitempty"`
}

func newSweepCommand(opts *rootOptions) *cobra.Command {
	var maxSites int
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Tabulate the circuit cost of Hubbard chains",
		Long: `Simulate Hubbard chains of increasing length over Trotter orders and step counts,
and print the size and depth of every circuit as CSV.
Results are kept under the run directory, and finished configurations are skipped when rerun.

Examples:
  run sweep --d runs/sweep --max-sites 6
  run sweep --db circuits.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sweep(cmd.OutOrStdout(), opts, maxSites); err != nil {
				return errors.Wrap(err, "")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSites, "max-sites", 4, "largest number of sites")
	return cmd
}

func newSweepConfigs(base Config, maxSites int) []Config {
	configs := make([]Config, 0)
	for sites := 1; sites <= maxSites; sites++ {
		for _, order := range []int{0, 1, 2} {
			for _, steps := range []int{1, 2, 4} {
				cfg := base
				cfg.Modes = 0
				cfg.Sites = sites
				cfg.Order = order
				cfg.Steps = steps
				configs = append(configs, cfg)
			}
		}
	}
	return configs
}

func configDir(runDir string, cfg Config) string {
	return filepath.Join(runDir, strconv.Itoa(cfg.Sites), strconv.Itoa(cfg.Order), strconv.Itoa(cfg.Steps))
}

func sweep(w io.Writer, opts *rootOptions, maxSites int) error {
	if err := os.MkdirAll(opts.runDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	configs := newSweepConfigs(opts.cfg, maxSites)
	for _, cfg := range configs {
		if err := solve(configDir(opts.runDir, cfg), cfg, opts.dbPath); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%#v", cfg))
		}
		log.Printf("%d sites order %d steps %d", cfg.Sites, cfg.Order, cfg.Steps)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sites", "order", "steps", "ops", "depth", "two_qubit_depth"}); err != nil {
		return errors.Wrap(err, "")
	}
	for _, cfg := range configs {
		s, err := readStatistics(configDir(opts.runDir, cfg))
		if err != nil {
			return errors.Wrap(err, "")
		}
		record := make([]string, 0, 6)
		for _, v := range []int{s.Sites, s.Order, s.Steps, s.NumOps, s.Depth, s.TwoQubitDepth} {
			record = append(record, strconv.Itoa(v))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func solve(dir string, cfg Config, dbPath string) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	h, err := cfg.hamiltonian()
	if err != nil {
		return errors.Wrap(err, "")
	}
	qubits, control := cfg.qubits(h.NumQubits())
	seq, err := trotter.Simulate(qubits, h, cfg.Time, cfg.simulateOptions(control))
	if err != nil {
		return errors.Wrap(err, "")
	}

	stats := circuit.GetStatistics(seq)
	s := Statistics{Sites: cfg.Sites, Order: cfg.Order, Steps: cfg.Steps, NumOps: stats.NumOps, Depth: stats.Depth, TwoQubitDepth: stats.TwoQubitDepth}
	if dbPath != "" {
		s.RunID, err = store(dbPath, seq)
		if err != nil {
			return errors.Wrap(err, "")
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.WriteFile(filepath.Join(dir, fnameStatistics), b, 0644); err != nil {
		return errors.Wrap(err, "")
	}

	if err := os.WriteFile(donePath, nil, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func readStatistics(dir string) (Statistics, error) {
	b, err := os.ReadFile(filepath.Join(dir, fnameStatistics))
	if err != nil {
		return Statistics{}, errors.Wrap(err, "")
	}
	var s Statistics
	if err := json.Unmarshal(b, &s); err != nil {
		return Statistics{}, errors.Wrap(err, dir)
	}
	return s, nil
}
