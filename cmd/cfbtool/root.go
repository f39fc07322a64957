package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cfbtool",
	Short:         "Browse Compound File Binary Format documents",
	Long:          "cfbtool reads OLE/CFBF structured-storage files (legacy .xls, .doc, .msi) and lets you list or extract the streams inside.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(inspectCmd, extractCmd)
}
