// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deckscope/internal/compare"
	"deckscope/internal/hypothesis"
	"deckscope/internal/issue"
	"deckscope/internal/opc"
	"deckscope/internal/report"
	"deckscope/internal/validate"
	"deckscope/pkg/finding"
)

var (
	// jsonPath overrides report.json_path from the config.
	jsonPath string
	// minSeverity overrides report.min_severity from the config.
	minSeverity string

	compareCmd = &cobra.Command{
		Use:   "compare <corrupt.pptx> <repaired.pptx>",
		Short: "Compare a corrupt package against its repaired twin",
		Long: `Load both packages, validate each one, diff their part sets,
content types, relationships, and presentation structure, and rank
root-cause hypotheses for the corruption.

The full finding set is also written as JSON for downstream tooling;
pass --json-path "" to skip the export.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}
)

func init() {
	compareCmd.Flags().StringVar(&jsonPath, "json-path", "",
		"where to write the JSON record (default from config, \"\" disables)")
	compareCmd.Flags().StringVar(&minSeverity, "min-severity", "",
		"hide diffs below this severity in the text report (INFO, LOW, MEDIUM, HIGH, CRITICAL)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	corruptPath, repairedPath := args[0], args[1]

	logger.Info("analyzing corrupt file", "path", corruptPath)
	corrupt, err := opc.Load(corruptPath)
	if err != nil {
		return loadError(corruptPath, err)
	}

	logger.Info("analyzing repaired file", "path", repairedPath)
	repaired, err := opc.Load(repairedPath)
	if err != nil {
		return loadError(repairedPath, err)
	}

	corruptIssues := validate.Run(corrupt)
	repairedIssues := validate.Run(repaired)

	logger.Info("comparing")
	diffs := compare.Packages(corrupt, repaired)
	hypotheses := hypothesis.Generate(corruptIssues, diffs)

	floor, err := severityFloor(cmd)
	if err != nil {
		return err
	}

	text := report.Text(report.Input{
		Corrupt:        corrupt,
		Repaired:       repaired,
		CorruptIssues:  corruptIssues,
		RepairedIssues: repairedIssues,
		Diffs:          report.MinSeverity(diffs, floor),
		Hypotheses:     hypotheses,
	})
	fmt.Fprintln(cmd.OutOrStdout(), text)

	// The JSON record always carries the unfiltered findings.
	if path := resolveJSONPath(cmd); path != "" {
		rec := report.Record{
			CorruptIssues:  corruptIssues,
			RepairedIssues: repairedIssues,
			Diffs:          diffs,
		}
		if err := report.WriteJSON(path, rec); err != nil {
			return issue.NewErrorContext().
				WithOperation("write JSON report").
				WithResource(path).
				WithSuggestion("Check that the target directory exists and is writable").
				Wrap(err).
				BuildError()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nDetailed JSON report: %s\n", PathStyle.Render(path))
	}

	return nil
}

// loadError wraps an unreadable-package failure with fix hints.
func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load package").
		WithResource(path).
		WithSuggestion("Check that the file exists and is a ZIP container").
		Wrap(err).
		BuildError()
}

// severityFloor resolves the text-report severity floor: flag, then
// config, then everything.
func severityFloor(cmd *cobra.Command) (finding.Severity, error) {
	if !cmd.Flags().Changed("min-severity") {
		return appConfig.Report.MinSeverity, nil
	}
	sev := finding.Severity(minSeverity)
	if ok, errs := sev.IsValid(); !ok {
		return "", errs[0]
	}
	return sev, nil
}

// resolveJSONPath resolves the export path: flag (including an explicit
// empty string to disable), then config.
func resolveJSONPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("json-path") {
		return jsonPath
	}
	return appConfig.Report.JSONPath
}
