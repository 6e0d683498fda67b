package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "landmassctl",
	Short: "inspect and query landmass navigation meshes",
	Long: `landmassctl is the command-line application accompanying landmass:
	- validate navigation meshes loaded from OBJ geometry,
	- write default query settings (YAML files),
	- sample points and find straight paths across an island's mesh.`,
}

// Execute runs RootCmd; child commands register themselves on it from
// their own init functions. Called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
