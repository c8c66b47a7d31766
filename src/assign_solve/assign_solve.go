package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"house_assignment/src/config"
	"house_assignment/src/housing"
	"house_assignment/src/outcome"
	"house_assignment/src/session"
)

var (
	configPath string
	inPath     string
	numGroups  int
	seed       uint64
	solverURL  string
	timeout    string
	weighting  string
	variants   []string
	local      bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "assign_solve",
	Short: "Run the Va and Vb assignment solvers on a snapshot and compare them",
	Long: `Loads a snapshot written by the generator (or generates one in memory), sends
it to the selected solver variants and prints how many groups and people landed at
each preference rank, side by side, with per-house utilization.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("groups") {
			cfg.Generator.Groups = numGroups
		}
		if flags.Changed("seed") {
			cfg.Generator.Seed = seed
		}
		if flags.Changed("url") {
			cfg.Solver.BaseURL = solverURL
		}
		if flags.Changed("timeout") {
			cfg.Solver.Timeout = timeout
		}
		if flags.Changed("weighting") {
			cfg.Solver.Weighting = weighting
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = cfg.Logging.Build(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func loadSnapshot() (*housing.Snapshot, error) {
	if inPath != "" {
		data, err := os.ReadFile(inPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		snap := new(housing.Snapshot)
		if err := json.Unmarshal(data, snap); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
		if err := snap.Validate(); err != nil {
			logger.Warn("snapshot does not satisfy generator invariants", zap.Error(err))
		}
		return snap, nil
	}

	gen, err := cfg.Generator.NewGenerator(logger)
	if err != nil {
		return nil, err
	}
	s := cfg.Generator.Seed
	if s == 0 {
		s = rand.Uint64()
	}
	logger.Info("generating", zap.Int("groups", cfg.Generator.Groups), zap.Uint64("seed", s))
	return gen.Generate(rand.New(rand.NewPCG(s, s)), cfg.Generator.Groups)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := outcome.ParseWeighting(cfg.Solver.Weighting)
	if err != nil {
		return err
	}
	var selected []housing.Variant
	for _, name := range variants {
		v, err := housing.ParseVariant(name)
		if err != nil {
			return err
		}
		selected = append(selected, v)
	}

	var solver session.Solver = cfg.Solver.NewClient(logger)
	if local {
		if solver, err = cfg.Solver.NewLocal(logger); err != nil {
			return err
		}
	}

	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	ws := session.New(logger)
	ws.Regenerate(snap)

	// A failed variant is logged and the other one is still reported.
	g, gctx := errgroup.WithContext(ctx)
	for _, v := range selected {
		g.Go(func() error {
			if _, err := ws.Solve(gctx, v, solver); err != nil {
				logger.Error("solver failed", zap.String("variant", string(v)), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	cmp, err := ws.Comparison(w)
	if err != nil {
		return err
	}
	a, _ := ws.Result(housing.VariantA)
	b, _ := ws.Result(housing.VariantB)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, snap.Totals())
	fmt.Fprintln(out)
	fmt.Fprintln(out, cmp)
	fmt.Fprintln(out)
	fmt.Fprint(out, outcome.HousesReport(snap, a, b))
	return nil
}

func init() {
	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "housing.yaml", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&inPath, "in", "i", "", "Snapshot file written by the generator; generate one when empty")
	flags.IntVarP(&numGroups, "groups", "n", 0, "Number of groups when generating")
	flags.Uint64Var(&seed, "seed", 0, "Random seed when generating, 0 draws one")
	flags.StringVar(&solverURL, "url", "", "Base URL of the solver service")
	flags.StringVar(&timeout, "timeout", "", "Solver request timeout, 0 for none")
	flags.StringVar(&weighting, "weighting", "", "Count buckets by people or groups")
	flags.StringSliceVar(&variants, "variants", []string{"A", "B"}, "Variants to run")
	flags.BoolVar(&local, "local", false, "Use the in-process reference solver instead of HTTP")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
