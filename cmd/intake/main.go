// Operator CLI for driving the analysis worker directly, without the HTTP
// surface: `intake analyze "some report text"` or `intake extract report.pdf`.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/extract"
	"github.com/crimecard/intake/internal/worker"
)

func main() {
	_ = godotenv.Load()

	var (
		python  string
		script  string
		timeout time.Duration
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	newBridge := func() *worker.Bridge {
		return worker.NewBridge(worker.Config{
			Python:  python,
			Script:  script,
			Timeout: timeout,
		}, logger)
	}

	root := &cobra.Command{
		Use:           "intake",
		Short:         "Drive the incident analysis worker from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaults := common.LoadConfig().Worker
	root.PersistentFlags().StringVar(&python, "python", defaults.Python, "worker interpreter binary")
	root.PersistentFlags().StringVar(&script, "script", defaults.Script, "worker script path")
	root.PersistentFlags().DurationVar(&timeout, "timeout", defaults.Timeout, "per-invocation timeout")

	analyze := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Run the worker in process mode against raw text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := newBridge().Classify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	extractCmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Extract UTF-8 text from a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex := extract.NewExtractor(newBridge(), logger)
			text, err := ex.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	root.AddCommand(analyze, extractCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
