package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTaxonomyCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List the categories and subtype labels in chart order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, global, func(a *app) error {
				name := color.New(color.Bold)
				w := cmd.OutOrStdout()
				for _, c := range a.service.Engine().Taxonomy.All() {
					_, _ = name.Fprintf(w, "%-6s", c.Name)
					_, _ = fmt.Fprintf(w, " %s\n", strings.Join(c.Subtypes, ", "))
				}
				return nil
			})
		},
	}
}
