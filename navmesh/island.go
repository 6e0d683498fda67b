package navmesh

// IslandID identifies an Island inside a NavigationData/Archipelago. IDs
// are issued from a counter that never reuses a value (see NavigationData),
// so a stale IslandID for a removed island is detectable rather than
// aliasing a later island.
type IslandID uint64

// IslandNavData is the (transform, mesh, type mapping) tuple an Island
// holds once it has been given geometry. An Island without IslandNavData
// is empty but reserved, per spec §3.
type IslandNavData struct {
	Transform Transform
	// Mesh is shared (plain pointer — Go's GC stands in for the spec's
	// Arc<ValidNavigationMesh>) and never mutated after validation.
	Mesh *ValidNavigationMesh
	// TypeIndexToNode maps a polygon's ValidPolygon.TypeIndex to the
	// NodeType it should be treated as during pathfinding. A polygon
	// whose TypeIndex isn't a key here (including TypeIndex == -1) uses
	// the default node type.
	TypeIndexToNode map[int]NodeType
	// TransformedBounds is Mesh.MeshBounds carried through Transform, kept
	// alongside for fast island/island and island/query overlap checks.
	TransformedBounds BoundingBox
}

// Island is one navigation mesh placed in the world. Grounded on
// original_source's island.rs Island/IslandNavigationData, exposed
// through the teacher's accessor-method style (see detour.NavMesh's
// Init/accessor pattern in mesh.go).
type Island struct {
	ID      IslandID
	navData *IslandNavData
	// Dirty is set whenever the island's nav mesh or transform changes, or
	// when the island is newly created; NavigationData clears it once the
	// boundary-link graph has been rebuilt to account for the change.
	Dirty bool
}

// NewIsland returns an empty, reserved island. New islands start dirty, so
// the next boundary-link rebuild takes them into account.
func NewIsland(id IslandID) *Island {
	return &Island{ID: id, Dirty: true}
}

// GetTransform returns the island's current transform, or false if the
// island has no nav mesh set.
func (isl *Island) GetTransform() (Transform, bool) {
	if isl.navData == nil {
		return Transform{}, false
	}
	return isl.navData.Transform, true
}

// GetNavMesh returns the island's current validated mesh, or nil if the
// island has no nav mesh set.
func (isl *Island) GetNavMesh() *ValidNavigationMesh {
	if isl.navData == nil {
		return nil
	}
	return isl.navData.Mesh
}

// NavData returns the island's full navigation data tuple, or nil.
func (isl *Island) NavData() *IslandNavData {
	return isl.navData
}

// SetNavMesh installs a (transform, mesh, type mapping) tuple on the
// island and marks it dirty so the boundary-link graph picks up the
// change on the next update.
func (isl *Island) SetNavMesh(transform Transform, mesh *ValidNavigationMesh, typeIndexToNode map[int]NodeType) {
	if typeIndexToNode == nil {
		typeIndexToNode = map[int]NodeType{}
	}
	isl.navData = &IslandNavData{
		Transform:         transform,
		Mesh:              mesh,
		TypeIndexToNode:   typeIndexToNode,
		TransformedBounds: mesh.MeshBounds.Transform(transform),
	}
	isl.Dirty = true
}

// ClearNavMesh empties the island, making it reserved-but-unpopulated, and
// marks it dirty so any boundary links through it are purged.
func (isl *Island) ClearNavMesh() {
	isl.navData = nil
	isl.Dirty = true
}
