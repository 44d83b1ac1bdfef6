package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goseis/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of goseis",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintln(out, "Seismic Ground Motion Toolkit")
		fmt.Fprintln(out, "Design spectrum per GB 50011-2010 (Code for Seismic Design of Buildings)")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
