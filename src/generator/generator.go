package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"house_assignment/src/config"
)

var (
	configPath  string
	outPath     string
	numGroups   int
	seed        uint64
	catalog     string
	preferences string
	idScheme    string
	noReconcile bool
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "generator",
	Short: "Generate a synthetic population of groups and houses",
	Long: `Draws groups with ranked house preferences over a synthetic or fixed house
catalog and writes the snapshot as JSON. The snapshot can be fed to assign_solve.`,
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
		if flags.Changed("catalog") {
			cfg.Generator.Catalog = catalog
		}
		if flags.Changed("preferences") {
			cfg.Generator.PreferenceSampler = preferences
		}
		if flags.Changed("ids") {
			cfg.Generator.IDScheme = idScheme
		}
		if noReconcile {
			cfg.Generator.Reconcile = false
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
	RunE: generate,
}

func generate(cmd *cobra.Command, args []string) error {
	gen, err := cfg.Generator.NewGenerator(logger)
	if err != nil {
		return err
	}
	s := cfg.Generator.Seed
	if s == 0 {
		s = rand.Uint64()
	}
	logger.Info("generating", zap.Int("groups", cfg.Generator.Groups), zap.Uint64("seed", s))

	snap, err := gen.Generate(rand.New(rand.NewPCG(s, s)), cfg.Generator.Groups)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if outPath == "-" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(outPath, data, 0666); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n%v\n", outPath, snap.Totals())
	return nil
}

func init() {
	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "housing.yaml", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&outPath, "out", "o", "snapshot.json", "Output file, - for stdout")
	flags.IntVarP(&numGroups, "groups", "n", 0, "Number of groups to generate")
	flags.Uint64Var(&seed, "seed", 0, "Random seed, 0 draws one")
	flags.StringVar(&catalog, "catalog", "", "House catalog: synthetic or fixed")
	flags.StringVar(&preferences, "preferences", "", "Preference sampler: uniform or size_weighted")
	flags.StringVar(&idScheme, "ids", "", "Identifier scheme: counter, random or uuid")
	flags.BoolVar(&noReconcile, "no-reconcile", false, "Skip the capacity reconciliation pass")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
