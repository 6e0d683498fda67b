package navmeshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoQuadOBJ = `# two adjacent quads sharing an edge
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
v 2 0 0
v 2 0 1
f 1 2 3 4
f 2 5 6 3
`

func writeTempOBJ(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.obj")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadOBJParsesVerticesAndPolygons(t *testing.T) {
	path := writeTempOBJ(t, twoQuadOBJ)

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)
	require.Len(t, mesh.Vertices, 6)
	require.Len(t, mesh.Polygons, 2)
	assert.Len(t, mesh.Polygons[0], 4)
	assert.Len(t, mesh.Polygons[1], 4)
}

func TestLoadOBJResultValidates(t *testing.T) {
	path := writeTempOBJ(t, twoQuadOBJ)

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)

	valid, err := mesh.Validate()
	require.NoError(t, err)
	assert.Len(t, valid.Polygons, 2)
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "does-not-exist.obj"))
	assert.Error(t, err)
}
