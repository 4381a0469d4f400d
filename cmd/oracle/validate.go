package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/oracle-route/internal/world"
)

var validateCmd = &cobra.Command{
	Use:   "validate <map.json>",
	Short: "Check a JSON map against the grid and colour requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := cfg.WorldRequirements()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		g, err := world.LoadGrid(args[0], req)
		var verr *world.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "%s is invalid:\n", args[0])
			for _, issue := range verr.Issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return fmt.Errorf("%d validation issue(s)", len(verr.Issues))
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s is valid: %s\n", args[0], g.String())
		counts := world.KindCountsAll(g)
		for _, k := range world.Kinds {
			fmt.Fprintf(out, "  %-14s %d\n", k, counts[k])
		}
		fmt.Fprintf(out, "Colours with every task kind: %s\n", strings.Join(g.ColoursWithRequiredKinds(), ", "))
		return nil
	},
}
