package cmd

import (
	"fmt"
	"os"
	"toolbox-backend/cmd/toolbox-cli/cmd/bin"
	"toolbox-backend/cmd/toolbox-cli/cmd/short"
	"toolbox-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "toolbox-cli",
	Short: "toolbox-cli manages the local databases and runs lookups of the toolbox server.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.AddCommand(bin.RootCmd)
	rootCmd.AddCommand(short.RootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
