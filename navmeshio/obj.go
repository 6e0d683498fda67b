// Package navmeshio loads NavigationMesh data from on-disk mesh files.
// Grounded on the teacher's meshloaderobj.go (Wavefront OBJ loading via
// gobj.Load), adapted because gobj.Polygon/OBJFile resolve face vertex
// indices into Vertex copies rather than retaining shared-vertex index
// lists, while navmesh.NavigationMesh needs indices so two polygons can
// reference the same vertex (required to validate shared edges, spec
// §4.1). LoadOBJ reconstitutes the index list by matching each face
// vertex back to its position in OBJFile.Verts() by value.
package navmeshio

import (
	"fmt"

	"github.com/arl/gobj"
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/landmass/navmesh"
)

type vertexKey struct{ x, y, z float64 }

// LoadOBJ reads a Wavefront .obj file and converts it into an
// unvalidated navmesh.NavigationMesh with Y as the up axis (matching
// gobj's raw x/y/z parse; callers whose source files use a different
// up-axis convention should transform vertices before validating).
func LoadOBJ(path string) (*navmesh.NavigationMesh, error) {
	obj, err := gobj.Load(path)
	if err != nil {
		return nil, fmt.Errorf("navmeshio: loading %q: %w", path, err)
	}

	verts := obj.Verts()
	index := make(map[vertexKey]int, len(verts))
	vertices := make([]d3.Vec3, len(verts))
	for i, v := range verts {
		vertices[i] = d3.NewVec3XYZ(float32(v.X()), float32(v.Y()), float32(v.Z()))
		index[vertexKey{v.X(), v.Y(), v.Z()}] = i
	}

	polys := obj.Polys()
	polygons := make([][]int, len(polys))
	for pi, poly := range polys {
		indices := make([]int, len(poly))
		for vi, v := range poly {
			idx, ok := index[vertexKey{v.X(), v.Y(), v.Z()}]
			if !ok {
				return nil, fmt.Errorf("navmeshio: polygon %d vertex %d not found among file vertices", pi, vi)
			}
			indices[vi] = idx
		}
		polygons[pi] = indices
	}

	return &navmesh.NavigationMesh{
		Vertices: vertices,
		Polygons: polygons,
	}, nil
}
