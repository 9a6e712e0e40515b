package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cargomate/internal/config"
	"cargomate/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [-- cargo flags]",
	Short: "Run cargo build with live output handling",
	RunE:  cargoWrapper("build"),
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] [-- cargo flags]",
	Short: "Run cargo check with live output handling",
	RunE:  cargoWrapper("check"),
}

var testCmd = &cobra.Command{
	Use:   "test [flags] [-- cargo flags]",
	Short: "Run cargo test with live output handling",
	RunE:  cargoWrapper("test"),
}

var runCmd = &cobra.Command{
	Use:   "run [flags] [-- cargo flags]",
	Short: "Run cargo run with live output handling",
	RunE:  cargoWrapper("run"),
}

func init() {
	for _, cmd := range []*cobra.Command{buildCmd, checkCmd, testCmd, runCmd} {
		cmd.Flags().String("ui", "", "user interface (auto|on|off)")
		cmd.Flags().Bool("plain", false, "plain output, shorthand for --ui off")
		cmd.Args = cobra.ArbitraryArgs
	}
}

func cargoWrapper(subcommand string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runCargoCommand(cmd, subcommand, args)
	}
}

func runCargoCommand(cmd *cobra.Command, subcommand string, args []string) error {
	cfg, _, err := config.Load(".")
	if err != nil {
		// A broken config file should not block the build; say so and
		// continue with defaults.
		fmt.Fprintf(os.Stderr, "cm: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return err
	}
	if plain {
		uiValue = "off"
	}
	if uiValue == "" {
		uiValue = cfg.UI.Mode
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	cargoArgs := append([]string{subcommand}, args...)
	req := &pipeline.Request{
		CargoBin:   cfg.Cargo.Bin,
		Args:       cargoArgs,
		Counters:   &pipeline.Counters{},
		Thresholds: cfg.Thresholds(),
	}

	title := "cargo " + strings.Join(cargoArgs, " ")
	var result pipeline.Result
	if shouldUseTUI(uiModeValue) {
		result, err = runPipelineWithUI(cmd.Context(), title, req)
	} else {
		result, err = pipeline.Run(cmd.Context(), req)
	}
	if err != nil {
		// Spawn failures land here: fatal, no retry.
		return err
	}

	report(result, cargoArgs, quiet)
	if showTimings && result.Timer != nil {
		fmt.Fprint(os.Stdout, result.Timer.Summary())
	}

	// The wrapper's exit status mirrors the compiler's.
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}
