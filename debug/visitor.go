package debug

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/landmass/archipelago"
	"github.com/arl/landmass/navmesh"
)

// DrawArchipelagoDebug traverses every island and agent in a and emits
// their world-space geometry to drawer (spec §4.11). It never mutates a.
func DrawArchipelagoDebug[Coordinate any](a *archipelago.Archipelago[Coordinate], drawer Drawer) {
	drawIslands(a.NavData, drawer)
	for _, ag := range a.Agents() {
		drawAgent(a.NavData, ag, drawer)
	}
}

func drawIslands(nd *navmesh.NavigationData, drawer Drawer) {
	for id, isl := range nd.Islands() {
		navData := isl.NavData()
		if navData == nil {
			continue
		}
		mesh := navData.Mesh
		t := navData.Transform

		for pi := range mesh.Polygons {
			poly := &mesh.Polygons[pi]
			center := t.Apply(poly.Center)
			drawer.AddPoint(center, Node)

			v0 := t.Apply(mesh.Vertices[poly.Vertices[0]])
			for i := 1; i+1 < len(poly.Vertices); i++ {
				v1 := t.Apply(mesh.Vertices[poly.Vertices[i]])
				v2 := t.Apply(mesh.Vertices[poly.Vertices[i+1]])
				drawer.AddTriangle(v0, v1, v2, Node)
			}

			for e, conn := range poly.Connectivity {
				left, right := poly.EdgeIndices(e)
				a, b := t.Apply(mesh.Vertices[left]), t.Apply(mesh.Vertices[right])
				if conn == nil {
					continue
				}
				if conn.NeighborPolygon < pi {
					// Each connected edge is shared by two polygons; draw
					// it once, from the lower-indexed side.
					continue
				}
				drawer.AddLine(a, b, ConnectivityEdge)
			}
		}

		for _, be := range mesh.BoundaryEdges {
			left, right := mesh.Polygons[be.PolygonIndex].EdgeIndices(be.EdgeIndex)
			a, b := t.Apply(mesh.Vertices[left]), t.Apply(mesh.Vertices[right])
			drawer.AddLine(a, b, BoundaryEdge)
		}

		for pi := range mesh.Polygons {
			node := navmesh.NodeRef{IslandID: id, PolygonIndex: pi}
			for _, link := range nd.Links.LinksFrom(node) {
				drawer.AddLine(link.Portal[0], link.Portal[1], BoundaryLink)
			}
		}
	}
}

func drawAgent(nd *navmesh.NavigationData, ag *archipelago.Agent, drawer Drawer) {
	drawer.AddPoint(ag.Position, AgentPosition)

	if ag.CurrentTarget != nil {
		drawer.AddPoint(*ag.CurrentTarget, TargetPosition)
	}

	path := ag.CurrentPath
	if path == nil {
		return
	}

	drawer.AddPoint(ag.NextWaypoint, Waypoint)

	for _, seg := range path.IslandSegments {
		isl := nd.Island(seg.IslandID)
		if isl == nil || isl.NavData() == nil {
			continue
		}
		navData := isl.NavData()

		var previous d3.Vec3
		for step, polyIndex := range seg.Corridor {
			center := navData.Transform.Apply(navData.Mesh.Polygons[polyIndex].Center)
			drawer.AddPoint(center, AgentCorridor)
			if step > 0 {
				drawer.AddLine(previous, center, AgentCorridor)
			}
			previous = center
		}
	}
}
