package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of toa-engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("toa-engine %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
