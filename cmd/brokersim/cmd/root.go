// Package cmd holds the brokersim command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:           "brokersim",
	Short:         "Broker-side strategy tester",
	Long:          "brokersim replays recorded or synthetic market data through a simulated broker and reports strategy performance.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the brokersim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brokersim %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(synthCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
