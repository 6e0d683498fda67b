package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/landmass/archipelago"
	"github.com/arl/landmass/navmesh"
	"github.com/arl/landmass/navmeshio"
)

var (
	queryCfgPath string
	queryFrom    string
	queryTo      string
)

var queryCmd = &cobra.Command{
	Use:   "query MESH.obj",
	Short: "find a straight path between two points on a mesh",
	Long: `Load and validate a navigation mesh from OBJ geometry, place it
as the sole island of a fresh archipelago, then sample --from and --to
and print the waypoints of the straight path between them.`,
	Args: cobra.ExactArgs(1),
	Run:  doQuery,
}

func init() {
	RootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryCfgPath, "config", "", "query settings (defaults applied if omitted)")
	queryCmd.Flags().StringVar(&queryFrom, "from", "", "start point, \"x,y,z\" (required)")
	queryCmd.Flags().StringVar(&queryTo, "to", "", "target point, \"x,y,z\" (required)")
	queryCmd.MarkFlagRequired("from")
	queryCmd.MarkFlagRequired("to")
}

func doQuery(cmd *cobra.Command, args []string) {
	settings := DefaultSettings()
	if queryCfgPath != "" {
		check(unmarshalYAMLFile(queryCfgPath, &settings))
	}

	from, err := parseVec3(queryFrom)
	check(err)
	to, err := parseVec3(queryTo)
	check(err)

	mesh, err := navmeshio.LoadOBJ(args[0])
	check(err)
	valid, err := mesh.Validate()
	if err != nil {
		fmt.Println("invalid mesh:", err)
		return
	}

	arch := archipelago.New[d3.Vec3](navmesh.YUpCoordinates{}, nil)
	arch.NavData.Links.XZTolerance = settings.XZTolerance
	arch.NavData.Links.YTolerance = settings.YTolerance
	island := arch.AddIsland()
	island.SetNavMesh(navmesh.Transform{Translation: d3.NewVec3()}, valid, nil)
	arch.NavData.Update()

	start, err := arch.SamplePoint(from, settings.SnapDistance)
	check(err)
	end, err := arch.SamplePoint(to, settings.SnapDistance)
	check(err)

	waypoints, err := arch.FindPath(start, end, nil)
	if err != nil {
		fmt.Println("no path:", err)
		return
	}

	fmt.Printf("path: %d waypoints\n", len(waypoints))
	for i, p := range waypoints {
		fmt.Printf("  %d: %v\n", i, p)
	}
}
