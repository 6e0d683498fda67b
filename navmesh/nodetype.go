package navmesh

import "fmt"

// NodeType is an opaque handle to an archipelago-wide named cost
// multiplier (spec §3/§4.9). The zero value is never issued by
// NodeTypeRegistry.AddNodeType and is reserved to mean "no type" / "default
// type" where a caller needs a sentinel.
type NodeType uint32

// NewNodeTypeError is returned by NodeTypeRegistry.AddNodeType when the
// requested cost is not strictly positive.
type NewNodeTypeError struct {
	Cost float32
}

func (e *NewNodeTypeError) Error() string {
	return fmt.Sprintf("node type cost must be > 0, got %v", e.Cost)
}

// SetNodeTypeCostErrorKind distinguishes the two ways
// NodeTypeRegistry.SetNodeTypeCost can fail.
type SetNodeTypeCostErrorKind int

const (
	NoSuchNodeType SetNodeTypeCostErrorKind = iota
	NonPositiveNodeTypeCost
)

// SetNodeTypeCostError is returned by NodeTypeRegistry.SetNodeTypeCost.
type SetNodeTypeCostError struct {
	Kind     SetNodeTypeCostErrorKind
	NodeType NodeType
	Cost     float32
}

func (e *SetNodeTypeCostError) Error() string {
	switch e.Kind {
	case NoSuchNodeType:
		return fmt.Sprintf("no such node type %v", e.NodeType)
	case NonPositiveNodeTypeCost:
		return fmt.Sprintf("node type %v cost must be > 0, got %v", e.NodeType, e.Cost)
	default:
		return "unknown node type error"
	}
}

// DefaultNodeTypeCost is the implicit cost of the default node type, the
// one every polygon uses when it isn't tagged with an explicit NodeType
// via an island's TypeIndexToNode map (spec §4.9).
const DefaultNodeTypeCost float32 = 1.0

// NodeTypeRegistry owns the archipelago-wide set of named cost
// multipliers. Grounded on the teacher's dense handle allocation pattern
// in detour/mesh.go (MeshTile free-list) and on
// detour.StandardQueryFilter's per-area cost array in queryfilter.go,
// generalized from a fixed-size array to a growable registry since
// landmass node types are user-defined, not a fixed enum.
type NodeTypeRegistry struct {
	costs    map[NodeType]float32
	nextID   NodeType
	inUse    func(NodeType) bool
}

// NewNodeTypeRegistry creates an empty registry. inUse is called by
// RemoveNodeType to check whether any island still references the type
// being removed; it is injected rather than hard-wired so
// NodeTypeRegistry stays ignorant of Island/NavigationData.
func NewNodeTypeRegistry(inUse func(NodeType) bool) *NodeTypeRegistry {
	return &NodeTypeRegistry{
		costs:  make(map[NodeType]float32),
		nextID: 1,
		inUse:  inUse,
	}
}

// AddNodeType creates a new node type with the given cost, which must be
// strictly positive.
func (r *NodeTypeRegistry) AddNodeType(cost float32) (NodeType, error) {
	if cost <= 0 {
		return 0, &NewNodeTypeError{Cost: cost}
	}
	id := r.nextID
	r.nextID++
	r.costs[id] = cost
	return id, nil
}

// SetNodeTypeCost updates the cost of an existing node type.
func (r *NodeTypeRegistry) SetNodeTypeCost(t NodeType, cost float32) error {
	if _, ok := r.costs[t]; !ok {
		return &SetNodeTypeCostError{Kind: NoSuchNodeType, NodeType: t}
	}
	if cost <= 0 {
		return &SetNodeTypeCostError{Kind: NonPositiveNodeTypeCost, NodeType: t, Cost: cost}
	}
	r.costs[t] = cost
	return nil
}

// GetNodeTypeCost returns the cost of t, or false if t doesn't exist.
func (r *NodeTypeRegistry) GetNodeTypeCost(t NodeType) (float32, bool) {
	c, ok := r.costs[t]
	return c, ok
}

// RemoveNodeType removes t, returning false (and leaving the registry
// unchanged) if t doesn't exist or is still referenced by some island's
// type_index_to_node_type map.
func (r *NodeTypeRegistry) RemoveNodeType(t NodeType) bool {
	if _, ok := r.costs[t]; !ok {
		return false
	}
	if r.inUse != nil && r.inUse(t) {
		return false
	}
	delete(r.costs, t)
	return true
}
