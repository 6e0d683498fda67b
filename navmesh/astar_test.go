package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridPoint is a state on a small 2D grid with one obstacle row, used to
// exercise FindPath independently of any navigation mesh.
type gridPoint struct{ x, y int }

type gridProblem struct {
	start, goal gridPoint
	blocked     map[gridPoint]bool
	width       int
}

func (g *gridProblem) InitialState() gridPoint { return g.start }
func (g *gridProblem) IsGoalState(s gridPoint) bool { return s == g.goal }

func (g *gridProblem) Heuristic(s gridPoint) float32 {
	dx := s.x - g.goal.x
	dy := s.y - g.goal.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return float32(dx + dy)
}

func (g *gridProblem) Successors(s gridPoint) []Successor[gridPoint, gridPoint] {
	var out []Successor[gridPoint, gridPoint]
	for _, d := range []gridPoint{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		next := gridPoint{s.x + d.x, s.y + d.y}
		if next.x < 0 || next.y < 0 || next.x >= g.width || g.blocked[next] {
			continue
		}
		out = append(out, Successor[gridPoint, gridPoint]{Cost: 1, Action: next, Next: next})
	}
	return out
}

func TestFindPathGridWithWall(t *testing.T) {
	// A wall across y=1 except at x=3 forces a detour through the gap.
	blocked := map[gridPoint]bool{}
	for x := 0; x < 5; x++ {
		if x != 3 {
			blocked[gridPoint{x, 1}] = true
		}
	}
	problem := &gridProblem{start: gridPoint{0, 0}, goal: gridPoint{0, 2}, blocked: blocked, width: 5}

	stats, actions, ok := FindPath[gridPoint, gridPoint](problem, nil)
	require.True(t, ok)
	require.NotEmpty(t, actions)
	assert.Equal(t, gridPoint{0, 2}, actions[len(actions)-1])
	assert.Contains(t, actions, gridPoint{3, 1})
	assert.Greater(t, stats.ExploredNodes, 0)
}

func TestFindPathUnreachableGoal(t *testing.T) {
	blocked := map[gridPoint]bool{{0, 1}: true, {1, 1}: true}
	problem := &gridProblem{start: gridPoint{0, 0}, goal: gridPoint{0, 2}, blocked: blocked, width: 2}

	_, actions, ok := FindPath[gridPoint, gridPoint](problem, nil)
	assert.False(t, ok)
	assert.Nil(t, actions)
}

func TestFindPathReusesScratchAcrossCalls(t *testing.T) {
	scratch := NewScratch[gridPoint, gridPoint]()

	first := &gridProblem{start: gridPoint{0, 0}, goal: gridPoint{2, 0}, width: 3}
	_, actions1, ok := FindPath[gridPoint, gridPoint](first, scratch)
	require.True(t, ok)
	require.Len(t, actions1, 2)

	second := &gridProblem{start: gridPoint{0, 0}, goal: gridPoint{0, 2}, width: 1}
	_, actions2, ok := FindPath[gridPoint, gridPoint](second, scratch)
	require.True(t, ok)
	require.Len(t, actions2, 2)
}
