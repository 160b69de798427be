package dyn4j

import (
	"sort"
)

type BroadPhaseAddPairCallback func(fixtureA FixtureID, fixtureB FixtureID)

/// Called for each proxy overlapping a query box. Return false to stop.
type BroadPhaseQueryCallback func(proxyID int) bool

type Pair struct {
	ProxyA int
	ProxyB int
}

const E_nullProxy = -1

type PairByLessThan []Pair

func (a PairByLessThan) Len() int      { return len(a) }
func (a PairByLessThan) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a PairByLessThan) Less(i, j int) bool {
	return PairLessThan(a[i], a[j])
}

/// This is used to sort pairs.
func PairLessThan(pair1 Pair, pair2 Pair) bool {
	if pair1.ProxyA < pair2.ProxyA {
		return true
	}

	if pair1.ProxyA == pair2.ProxyA {
		return pair1.ProxyB < pair2.ProxyB
	}

	return false
}

type broadPhaseProxy struct {
	aabb    AABB
	fixture FixtureID
	active  bool
}

/// The broad-phase is used for computing pairs and performing volume queries.
/// Proxies are kept in a flat array and swept along the x axis; pairs are
/// produced in (ProxyA, ProxyB) order so that contact creation is
/// deterministic.
type BroadPhase struct {
	proxies    []broadPhaseProxy
	free       []int
	proxyCount int

	moveBuffer []int
	moved      []bool

	pairBuffer []Pair
	order      []int
}

func MakeBroadPhase() BroadPhase {
	return BroadPhase{
		moveBuffer: make([]int, 0, 16),
		pairBuffer: make([]Pair, 0, 16),
	}
}

/// Create a proxy with an initial AABB. Pairs are not reported until
/// UpdatePairs is called.
func (bp *BroadPhase) CreateProxy(aabb AABB, fixture FixtureID) int {
	var proxyID int
	if n := len(bp.free); n > 0 {
		proxyID = bp.free[n-1]
		bp.free = bp.free[:n-1]
	} else {
		proxyID = len(bp.proxies)
		bp.proxies = append(bp.proxies, broadPhaseProxy{})
		bp.moved = append(bp.moved, false)
	}

	bp.proxies[proxyID] = broadPhaseProxy{
		aabb:    aabb.Expand(AABBExtension),
		fixture: fixture,
		active:  true,
	}
	bp.proxyCount++
	bp.BufferMove(proxyID)
	return proxyID
}

func (bp *BroadPhase) DestroyProxy(proxyID int) {
	Assert(0 <= proxyID && proxyID < len(bp.proxies) && bp.proxies[proxyID].active)
	bp.UnBufferMove(proxyID)
	bp.proxies[proxyID] = broadPhaseProxy{}
	bp.free = append(bp.free, proxyID)
	bp.proxyCount--
}

/// Call MoveProxy as many times as you like, then when you are done
/// call UpdatePairs to finalize the proxy pairs (for your time step).
/// The fat AABB is only rebuilt when the tight AABB escapes it.
func (bp *BroadPhase) MoveProxy(proxyID int, aabb AABB, displacement Vec2) {
	Assert(0 <= proxyID && proxyID < len(bp.proxies))
	proxy := &bp.proxies[proxyID]

	if proxy.aabb.Contains(aabb) {
		return
	}

	// Extend AABB and predict movement.
	fat := aabb.Expand(AABBExtension)
	d := Vec2MulScalar(2.0, displacement)
	if d.X < 0.0 {
		fat.LowerBound.X += d.X
	} else {
		fat.UpperBound.X += d.X
	}
	if d.Y < 0.0 {
		fat.LowerBound.Y += d.Y
	} else {
		fat.UpperBound.Y += d.Y
	}
	proxy.aabb = fat

	bp.BufferMove(proxyID)
}

/// Call to trigger a re-processing of its pairs on the next call to UpdatePairs.
func (bp *BroadPhase) TouchProxy(proxyID int) {
	bp.BufferMove(proxyID)
}

func (bp *BroadPhase) BufferMove(proxyID int) {
	if bp.moved[proxyID] {
		return
	}
	bp.moved[proxyID] = true
	bp.moveBuffer = append(bp.moveBuffer, proxyID)
}

func (bp *BroadPhase) UnBufferMove(proxyID int) {
	if !bp.moved[proxyID] {
		return
	}
	bp.moved[proxyID] = false
	for i, id := range bp.moveBuffer {
		if id == proxyID {
			bp.moveBuffer[i] = E_nullProxy
		}
	}
}

func (bp BroadPhase) GetFatAABB(proxyID int) AABB {
	return bp.proxies[proxyID].aabb
}

func (bp BroadPhase) GetFixture(proxyID int) FixtureID {
	return bp.proxies[proxyID].fixture
}

func (bp BroadPhase) GetProxyCount() int {
	return bp.proxyCount
}

/// Test overlap of fat AABBs.
func (bp BroadPhase) TestOverlap(proxyA int, proxyB int) bool {
	return TestOverlapBoundingBoxes(bp.proxies[proxyA].aabb, bp.proxies[proxyB].aabb)
}

// sweep fills the pair buffer with every overlapping pair accepted by keep.
func (bp *BroadPhase) sweep(keep func(a, b int) bool) {
	bp.pairBuffer = bp.pairBuffer[:0]

	bp.order = bp.order[:0]
	for i := range bp.proxies {
		if bp.proxies[i].active {
			bp.order = append(bp.order, i)
		}
	}
	sort.SliceStable(bp.order, func(i, j int) bool {
		return bp.proxies[bp.order[i]].aabb.LowerBound.X < bp.proxies[bp.order[j]].aabb.LowerBound.X
	})

	for i, a := range bp.order {
		upperX := bp.proxies[a].aabb.UpperBound.X
		for _, b := range bp.order[i+1:] {
			if bp.proxies[b].aabb.LowerBound.X > upperX {
				break
			}
			if !bp.TestOverlap(a, b) || !keep(a, b) {
				continue
			}
			bp.pairBuffer = append(bp.pairBuffer, Pair{ProxyA: MinInt(a, b), ProxyB: MaxInt(a, b)})
		}
	}

	// Sort the pair buffer to expose duplicates.
	sort.Sort(PairByLessThan(bp.pairBuffer))
}

/// Every overlapping proxy pair, sorted and free of duplicates.
func (bp *BroadPhase) QueryPairs() []Pair {
	bp.sweep(func(a, b int) bool { return true })

	pairs := make([]Pair, 0, len(bp.pairBuffer))
	for i, pair := range bp.pairBuffer {
		if i > 0 && pair == bp.pairBuffer[i-1] {
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

/// Update the pairs. This results in pair callbacks for every overlap that
/// involves a proxy moved since the last update. This can only add pairs.
func (bp *BroadPhase) UpdatePairs(addPairCallback BroadPhaseAddPairCallback) {
	live := 0
	for _, id := range bp.moveBuffer {
		if id != E_nullProxy {
			live++
		}
	}

	if live > 0 {
		bp.sweep(func(a, b int) bool { return bp.moved[a] || bp.moved[b] })

		// Send the pairs back to the client.
		i := 0
		for i < len(bp.pairBuffer) {
			primaryPair := bp.pairBuffer[i]
			addPairCallback(bp.proxies[primaryPair.ProxyA].fixture, bp.proxies[primaryPair.ProxyB].fixture)
			i++

			// Skip any duplicate pairs.
			for i < len(bp.pairBuffer) && bp.pairBuffer[i] == primaryPair {
				i++
			}
		}
	}

	// Reset move buffer
	for _, id := range bp.moveBuffer {
		if id != E_nullProxy {
			bp.moved[id] = false
		}
	}
	bp.moveBuffer = bp.moveBuffer[:0]
}

/// Query every proxy whose fat AABB overlaps the supplied box, in proxy
/// order.
func (bp *BroadPhase) Query(callback BroadPhaseQueryCallback, aabb AABB) {
	for i := range bp.proxies {
		if !bp.proxies[i].active {
			continue
		}
		if !TestOverlapBoundingBoxes(bp.proxies[i].aabb, aabb) {
			continue
		}
		if !callback(i) {
			return
		}
	}
}

/// Shift the world origin. Useful for large worlds.
/// The shift formula is: position -= newOrigin
func (bp *BroadPhase) ShiftOrigin(newOrigin Vec2) {
	for i := range bp.proxies {
		if !bp.proxies[i].active {
			continue
		}
		bp.proxies[i].aabb.LowerBound.SubInPlace(newOrigin)
		bp.proxies[i].aabb.UpperBound.SubInPlace(newOrigin)
	}
}
