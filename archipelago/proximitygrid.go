package archipelago

import "github.com/arl/math32"

// proximityGrid is a uniform spatial hash over entity AABBs, queried by an
// AABB to return every entity id whose cell it overlaps. Adapted from the
// teacher's crowd.ProximityGrid (crowd/proximity_grid.go): same pool/bucket
// hashing scheme, generalized from a uint16 pool-local id to the entity id
// an Update tick actually has on hand (agent ids and character ids packed
// into one uint64 space), so updateAgent can look up only the neighbors
// near one agent instead of scanning every agent and character each tick.
type proximityGrid struct {
	cellSize    float32
	invCellSize float32

	pool     []gridItem
	poolHead int
	poolSize int

	buckets     []int32
	bucketsSize int32
}

type gridItem struct {
	id   uint64
	x, y int32
	next int32
}

const gridEmpty = -1

func newProximityGrid(poolSize int, cellSize float32) *proximityGrid {
	pg := &proximityGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		poolSize:    poolSize,
		pool:        make([]gridItem, poolSize),
	}
	pg.bucketsSize = int32(math32.NextPow2(uint32(poolSize)))
	pg.buckets = make([]int32, pg.bucketsSize)
	pg.clear()
	return pg
}

func (pg *proximityGrid) clear() {
	for i := range pg.buckets {
		pg.buckets[i] = gridEmpty
	}
	pg.poolHead = 0
}

func hashCell(x, y, n int32) int32 {
	return ((x*73856093)^(y*19349663))&(n-1)
}

// addItem inserts id under every cell its [minx,miny]-[maxx,maxy] AABB
// overlaps. Silently drops the insert once the pool is exhausted, matching
// the teacher's fixed-capacity-per-tick behavior.
func (pg *proximityGrid) addItem(id uint64, minx, miny, maxx, maxy float32) {
	iminx := int32(math32.Floor(minx * pg.invCellSize))
	iminy := int32(math32.Floor(miny * pg.invCellSize))
	imaxx := int32(math32.Floor(maxx * pg.invCellSize))
	imaxy := int32(math32.Floor(maxy * pg.invCellSize))

	for y := iminy; y <= imaxy; y++ {
		for x := iminx; x <= imaxx; x++ {
			if pg.poolHead >= pg.poolSize {
				return
			}
			h := hashCell(x, y, pg.bucketsSize)
			idx := int32(pg.poolHead)
			pg.poolHead++
			item := &pg.pool[idx]
			item.x, item.y, item.id = x, y, id
			item.next = pg.buckets[h]
			pg.buckets[h] = idx
		}
	}
}

// queryItems appends every distinct id found in cells overlapping the AABB
// to dst and returns the result.
func (pg *proximityGrid) queryItems(minx, miny, maxx, maxy float32, dst []uint64) []uint64 {
	iminx := int32(math32.Floor(minx * pg.invCellSize))
	iminy := int32(math32.Floor(miny * pg.invCellSize))
	imaxx := int32(math32.Floor(maxx * pg.invCellSize))
	imaxy := int32(math32.Floor(maxy * pg.invCellSize))

	for y := iminy; y <= imaxy; y++ {
		for x := iminx; x <= imaxx; x++ {
			h := hashCell(x, y, pg.bucketsSize)
			idx := pg.buckets[h]
			for idx != gridEmpty {
				item := &pg.pool[idx]
				if item.x == x && item.y == y && !containsID(dst, item.id) {
					dst = append(dst, item.id)
				}
				idx = item.next
			}
		}
	}
	return dst
}

func (pg *proximityGrid) itemCountAt(x, y int32) int {
	n := 0
	h := hashCell(x, y, pg.bucketsSize)
	idx := pg.buckets[h]
	for idx != gridEmpty {
		if pg.pool[idx].x == x && pg.pool[idx].y == y {
			n++
		}
		idx = pg.pool[idx].next
	}
	return n
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
