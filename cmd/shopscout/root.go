package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopscout",
		Short: "Search e-commerce sites for products with a headless browser",
		Long: `shopscout searches AliExpress and Amazon for a product term, waits for the
dynamically rendered results, and returns the listings that have a title,
a price and an image.

Configuration is read from SHOPSCOUT_* environment variables. Per-site
selectors and timings can be overridden with a YAML file named by
SHOPSCOUT_SITES_FILE.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewSitesCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
