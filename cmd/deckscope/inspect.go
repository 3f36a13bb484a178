// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deckscope/internal/issue"
	"deckscope/internal/opc"
	"deckscope/internal/validate"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <package.pptx>",
	Short: "Validate a single presentation package",
	Long: `Load one OOXML presentation package and run every structural
check against it: relationship integrity, content-type coverage,
layout/master chains, slide ID uniqueness, sections, notes slides,
app properties, and comments.

Exits with status 1 when any issue is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Debug("loading package", "path", path)

	model, err := opc.Load(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load package").
			WithResource(path).
			WithSuggestion("Check that the file exists and is a ZIP container").
			Wrap(err).
			BuildError()
	}

	issues := validate.Run(model)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("Package:"), PathStyle.Render(path))
	fmt.Fprintf(out, "%s %d parts, %d relationship files\n\n",
		SubtitleStyle.Render("Loaded:"), len(model.PartNames), len(model.RelSources))

	if len(issues) == 0 {
		fmt.Fprintln(out, SuccessStyle.Render("No issues detected."))
		return nil
	}

	for _, is := range issues {
		fmt.Fprintf(out, "  %s %s\n", ErrorStyle.Render("["+string(is.Kind)+"]"), is.Message)
	}
	fmt.Fprintf(out, "\n%s\n", ErrorStyle.Render(fmt.Sprintf("%d issue(s) found.", len(issues))))

	return &ExitError{Code: 1, Err: fmt.Errorf("%d issue(s) found in %s", len(issues), path)}
}
