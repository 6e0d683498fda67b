package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"github.com/arl/landmass/navmesh"
)

// Settings holds the boundary-link tolerances and query defaults applied
// by query (validate does not read them), serialized as YAML so they can be tuned without
// recompiling (spec §6, teacher's build-settings-as-YAML idiom in
// cmd/recast/cmd/config.go).
type Settings struct {
	XZTolerance  float32 `yaml:"xz_tolerance"`
	YTolerance   float32 `yaml:"y_tolerance"`
	SnapDistance float32 `yaml:"snap_distance"`
}

// DefaultSettings mirrors navmesh.DefaultXZTolerance/DefaultYTolerance.
func DefaultSettings() Settings {
	return Settings{
		XZTolerance:  navmesh.DefaultXZTolerance,
		YTolerance:   navmesh.DefaultYTolerance,
		SnapDistance: 1.0,
	}
}

var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "write a query settings file",
	Long: `Write a query settings file in YAML format, prefilled with default
values.

If FILE is not provided, 'landmass.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "landmass.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path, fmt.Sprintf("file %q already exists, overwrite? [y/N]", path))
		if !ok {
			if err == nil {
				fmt.Println("aborted by user")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}

		buf, err := yaml.Marshal(DefaultSettings())
		check(err)
		check(os.WriteFile(path, buf, 0o644))
		fmt.Printf("query settings written to %q\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
