package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"projsched/internal/logging"
	"projsched/internal/menu"
	"projsched/internal/sched"
)

var (
	flagConfig   string
	flagAnchor   string
	flagLogLevel string
	flagTasks    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "projsched",
		Short:         "Compute calendar schedules for interdependent tasks",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := setup(cmd)
			if err != nil {
				return err
			}
			session := menu.NewSession(s, cfg.DateLayout)
			if flagTasks != "" {
				tasks, err := sched.LoadTasks(flagTasks)
				if err != nil {
					return err
				}
				if err := session.Load(tasks); err != nil {
					return fmt.Errorf("load %s: %w", flagTasks, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			err = session.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				// interrupted by the user, not a failure
				return nil
			}
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "projsched.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&flagAnchor, "anchor", "", "Anchor date (YYYY-MM-DD), defaults to now")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flagTasks, "tasks", "", "Preload tasks from a YAML file")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(sampleCmd())
	return rootCmd
}

func scheduleCmd() *cobra.Command {
	var (
		flagFile string
		flagCSV  string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a task file and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := setup(cmd)
			if err != nil {
				return err
			}
			tasks, err := sched.LoadTasks(flagFile)
			if err != nil {
				return err
			}
			scheduled, err := s.Schedule(tasks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range scheduled {
				fmt.Fprintln(out, t.Format(cfg.DateLayout))
			}

			if flagCSV == "" {
				return nil
			}
			f, err := os.Create(flagCSV)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			defer f.Close()
			return sched.WriteCSV(f, scheduled, cfg.DateLayout)
		},
	}
	cmd.Flags().StringVar(&flagFile, "tasks", "tasks.yaml", "YAML task file")
	cmd.Flags().StringVar(&flagCSV, "csv", "", "Also write the schedule as CSV")
	return cmd
}

func sampleCmd() *cobra.Command {
	var flagOut string
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a sample task file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagOut == "" {
				return sched.EncodeTasks(cmd.OutOrStdout(), sched.SampleTasks())
			}
			f, err := os.Create(flagOut)
			if err != nil {
				return fmt.Errorf("create sample: %w", err)
			}
			defer f.Close()
			return sched.EncodeTasks(f, sched.SampleTasks())
		},
	}
	cmd.Flags().StringVar(&flagOut, "out", "", "Write to a file instead of stdout")
	return cmd
}

// setup loads the config, applies flag overrides and builds the scheduler.
func setup(cmd *cobra.Command) (sched.Config, *sched.Scheduler, error) {
	cfg, err := sched.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if flagAnchor != "" {
		cfg.Anchor = flagAnchor
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	clock, err := cfg.Clock()
	if err != nil {
		return cfg, nil, err
	}

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(cmd.ErrOrStderr(), opts)
	logger.Debug("loaded config", "date_layout", cfg.DateLayout, "max_depth", cfg.MaxDepth, "max_duration", cfg.MaxDuration, "anchor", cfg.Anchor)

	s := sched.New(cfg, sched.WithClock(clock), sched.WithLogger(logger))
	return cfg, s, nil
}
