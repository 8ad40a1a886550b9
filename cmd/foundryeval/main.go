// Command foundryeval runs batch evaluations from the command line.
//
// It reads configuration from the environment (optionally overlaid
// with a .env file), scores the configured dataset with the selected
// evaluators, writes the results artifact, and prints a summary. With
// --upload the results also become a hosted run in the configured
// Azure AI Foundry project.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foundryeval/foundryeval-go"
	"github.com/foundryeval/foundryeval-go/config"
	"github.com/foundryeval/foundryeval-go/eval"
	"github.com/foundryeval/foundryeval-go/evaluators"
	"github.com/foundryeval/foundryeval-go/logger"
	"github.com/foundryeval/foundryeval-go/trace"
)

// defaultEvaluators is the evaluator selection when --evaluators is
// not given. Entries the configuration cannot construct (the safety
// evaluators without a project API key) are skipped with a warning.
var defaultEvaluators = []string{"retrieval", "qa", "content_safety", "linguistic_similarity"}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "foundryeval",
		Short:         "Batch evaluation of AI application outputs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newEvaluatorsCmd())
	return root
}

// runFlags are the flags shared by run and validate.
type runFlags struct {
	envFile     string
	dataPath    string
	outputPath  string
	names       []string
	upload      bool
	parallelism int
	quiet       bool
}

// loadConfig overlays the .env file, reads the environment and applies
// flag overrides.
func (f *runFlags) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(f.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if f.dataPath != "" {
		cfg.DataPath = f.dataPath
	}
	if f.outputPath != "" {
		cfg.OutputPath = f.outputPath
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch evaluation and write the results artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluation(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "path to a .env file to load before reading the environment")
	cmd.Flags().StringVar(&flags.dataPath, "data", "", "dataset path (overrides EVAL_DATA_PATH)")
	cmd.Flags().StringVar(&flags.outputPath, "output", "", "results artifact path (overrides OUTPUT_PATH)")
	cmd.Flags().StringSliceVar(&flags.names, "evaluators", nil,
		fmt.Sprintf("evaluators to run (default %s)", strings.Join(defaultEvaluators, ",")))
	cmd.Flags().BoolVar(&flags.upload, "upload", false, "publish the results to the configured Foundry project")
	cmd.Flags().IntVar(&flags.parallelism, "parallelism", 1, "number of cases scored concurrently")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "suppress the console summary")
	return cmd
}

func runEvaluation(cmd *cobra.Command, flags *runFlags) error {
	ctx := cmd.Context()

	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.IsValid(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	exporter := trace.ExporterNone
	if cfg.Debug {
		exporter = trace.ExporterStdout
	}
	tp, err := trace.NewTracerProvider(ctx, trace.Options{Exporter: exporter})
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	client, err := foundryeval.New(ctx,
		foundryeval.WithConfig(cfg),
		foundryeval.WithLogger(log),
		foundryeval.WithTracerProvider(tp),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	// Dataset problems abort before anything is scored or written.
	dataset, err := eval.OpenFile(cfg.DataPath)
	if err != nil {
		return err
	}
	count, err := eval.ValidateColumns(dataset, eval.RequiredColumns...)
	if err != nil {
		return err
	}
	log.Info("dataset validated", "path", cfg.DataPath, "cases", count)

	evs, err := selectEvaluators(client, log, flags.names)
	if err != nil {
		return err
	}

	summary, err := client.Run(ctx, eval.Opts{
		Dataset:     dataset,
		Evaluators:  evs,
		Parallelism: flags.parallelism,
		Quiet:       true,
	})
	if err != nil {
		return err
	}

	if flags.upload {
		if _, err := client.Upload(ctx, summary); err != nil {
			// The run itself succeeded; keep the artifact and exit zero.
			log.Error("upload failed", "error", err)
		}
	}

	if err := summary.WriteFile(cfg.OutputPath); err != nil {
		return err
	}
	log.Info("results written", "path", cfg.OutputPath)

	if flags.quiet {
		return nil
	}

	reporter := &eval.Reporter{Out: cmd.OutOrStdout()}
	if path := os.Getenv("GITHUB_OUTPUT"); path != "" && summary.StudioURL != "" {
		ci, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("error opening GITHUB_OUTPUT: %w", err)
		}
		defer func() { _ = ci.Close() }()
		reporter.CI = ci
	}
	return reporter.Report(summary, "")
}

// selectEvaluators resolves the requested evaluator names. Explicitly
// requested names must all exist; the default selection tolerates
// evaluators the configuration cannot construct.
func selectEvaluators(client *foundryeval.Client, log logger.Logger, names []string) ([]eval.Evaluator, error) {
	if len(names) > 0 {
		return client.Evaluators(names...)
	}

	available := make([]string, 0, len(defaultEvaluators))
	for _, name := range defaultEvaluators {
		if _, ok := client.Registry().Get(name); !ok {
			log.Warn("evaluator unavailable, skipping", "evaluator", name)
			continue
		}
		available = append(available, name)
	}
	return client.Evaluators(available...)
}

func newValidateCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and dataset without scoring anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.IsValid(); err != nil {
				return err
			}

			dataset, err := eval.OpenFile(cfg.DataPath)
			if err != nil {
				return err
			}
			count, err := eval.ValidateColumns(dataset, eval.RequiredColumns...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "configuration OK\n%s: %d cases\n", cfg.DataPath, count)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "path to a .env file to load before reading the environment")
	cmd.Flags().StringVar(&flags.dataPath, "data", "", "dataset path (overrides EVAL_DATA_PATH)")
	return cmd
}

func newEvaluatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluators",
		Short: "List the built-in evaluators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range evaluators.BuiltinNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
