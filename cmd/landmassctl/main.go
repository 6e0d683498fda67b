// Command landmassctl loads, validates, and queries navigation meshes
// built for the landmass runtime, mirroring the teacher's recast CLI
// (cmd/recast) adapted from offline tile building to runtime island
// inspection.
package main

import "github.com/arl/landmass/cmd/landmassctl/cmd"

func main() {
	cmd.Execute()
}
