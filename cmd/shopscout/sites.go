package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/site"
)

// NewSitesCmd creates the sites command.
func NewSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the registered sites after applying overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			reg, err := site.FromConfig(cfg.Sites)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSEARCH URL")
			for _, e := range reg.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID(), e.Name(), e.SearchURL())
			}
			return tw.Flush()
		},
	}
}
