// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for deckscope.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"deckscope/internal/config"
	"deckscope/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appConfig is the loaded configuration, available to all subcommands.
	appConfig = config.DefaultConfig()

	// logger reports analysis progress on stderr so stdout stays clean
	// for the report itself.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "deckscope",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "deckscope",
		Short: "Forensic analyzer for corrupt PowerPoint packages",
		Long: TitleStyle.Render("deckscope") + SubtitleStyle.Render(" - Forensic analyzer for corrupt PowerPoint packages") + `

deckscope dissects OOXML presentation files (.pptx) at the package
level: parts, content types, and relationships. It validates a single
package against the structural rules PowerPoint enforces, and compares
a corrupt package against its repaired twin to pinpoint what the
repair changed and why the original failed to open.

` + SubtitleStyle.Render("Examples:") + `
  deckscope inspect broken.pptx              Validate one package
  deckscope compare broken.pptx fixed.pptx   Full corrupt-vs-repaired analysis`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/deckscope/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(compareCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay renders an error for the terminal, expanding
// ActionableError suggestions and, when verbose, the wrapped error chain.
func formatErrorForDisplay(err error) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// initRootConfig reads in the config file and ENV variables if set.
func initRootConfig() {
	cfg, _, err := config.Load(cfgFile)
	if err != nil {
		// Config problems never abort an analysis run; defaults apply.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err))
		return
	}
	appConfig = *cfg

	if appConfig.UI.Verbose {
		verbose = true
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}
