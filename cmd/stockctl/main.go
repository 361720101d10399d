// Command stockctl asks the stock assistant, renders inventory reports and
// manages the database schema from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	localeFlag string
	serverFlag string
	tokenFlag  string
	rootCmd    = &cobra.Command{
		Use:           "stockctl",
		Short:         "Command line tools for the inventory tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&localeFlag, "locale", "l", "en", "Locale for assistant replies and reports")
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Inventory API base URL; empty works on a local items file")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", os.Getenv("STOCKCTL_TOKEN"), "Access token for --server (defaults to $STOCKCTL_TOKEN)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
