package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/landmass/navmeshio"
)

var validateCfgPath string

var validateCmd = &cobra.Command{
	Use:   "validate MESH.obj",
	Short: "validate a navigation mesh loaded from OBJ geometry",
	Long: `Load a navigation mesh from Wavefront OBJ geometry, check it
for the invariants landmass requires (minimum polygon size, shared-edge
consistency, convexity), then print a summary on standard output.`,
	Args: cobra.ExactArgs(1),
	Run:  doValidate,
}

func init() {
	RootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateCfgPath, "config", "", "query settings file (not read by validate)")
}

func doValidate(cmd *cobra.Command, args []string) {
	mesh, err := navmeshio.LoadOBJ(args[0])
	check(err)

	valid, err := mesh.Validate()
	if err != nil {
		fmt.Println("invalid mesh:", err)
		return
	}

	fmt.Printf("valid mesh: %d vertices, %d polygons, %d boundary edges\n",
		len(valid.Vertices), len(valid.Polygons), len(valid.BoundaryEdges))

	connected := 0
	for _, poly := range valid.Polygons {
		for _, c := range poly.Connectivity {
			if c != nil {
				connected++
			}
		}
	}
	fmt.Printf("connected edges: %d\n", connected/2)
	fmt.Printf("bounds: min=%v max=%v\n", valid.MeshBounds.Min, valid.MeshBounds.Max)
}
