package ringhash

// point is one server's anchor on the ring (§3 "Point"): a position plus
// the index of the owning server within the current ServerList. Ordering is
// primarily by point ascending, ties broken by serverIndex ascending.
type point struct {
	value       uint32
	serverIndex uint32
}

func pointLess(a, b point) bool {
	return a.value < b.value || (a.value == b.value && a.serverIndex <= b.serverIndex)
}

const (
	fastHashLog  = 12
	fastHashSize = (1 << fastHashLog) + 1
	fastHashIlog = 32 - fastHashLog
	fastHashStep = uint32(1) << fastHashIlog
)

// continuum is the sorted point array plus the flat bucket index that makes
// lookup O(1)-ish instead of a full binary search (§3, §4.F). It is owned
// exclusively by a Ring; callers never construct one directly.
type continuum struct {
	points []point
	sorted bool
	hash   [fastHashSize]uint32
}

func (c *continuum) reset() {
	c.points = c.points[:0]
	c.sorted = false
}

// addServer appends a server's contributed points, unsorted. Call sort
// once after all servers for this rebuild have been added.
func (c *continuum) addServer(serverIndex uint32, points []uint32) {
	for _, p := range points {
		c.points = append(c.points, point{value: p, serverIndex: serverIndex})
	}
	c.sorted = false
}

// sort performs the hybrid insertion/geometric-pivot quicksort from §4.F
// and rebuilds the bucket index. Safe to call on an empty continuum.
func (c *continuum) sort() {
	if len(c.points) == 0 {
		c.sorted = true
		return
	}
	sortPoints(c.points, 1<<31, 1<<30)
	c.sorted = true
	c.fillHash()
}

func (c *continuum) fillHash() {
	count := uint32(len(c.points))
	c.hash[0] = 0
	c.hash[fastHashSize-1] = count

	left := uint32(0)
	hashPoint := fastHashStep
	rightStep := count/(fastHashSize-1) + 1

	for i := 1; i < fastHashSize-1; i++ {
		right := left + rightStep
		for right < count && c.points[right].value < hashPoint {
			left = right
			right += rightStep
		}
		if right > count {
			right = count
		}
		left = firstGreaterOrEqual(c.points, hashPoint, left, right)
		c.hash[i] = left
		hashPoint += fastHashStep
	}
}

// firstGreaterOrEqual finds, within points[left:right], the smallest index
// whose point value is >= target (§4.F's points_first_greater_or_equal).
func firstGreaterOrEqual(points []point, target uint32, left, right uint32) uint32 {
	for left < right {
		mid := left + (right-left)/2
		if points[mid].value < target {
			left = mid + 1
		} else {
			right = mid
		}
	}
	return left
}

// sortPoints implements the geometric-pivot quicksort of §4.F exactly:
// below 7 elements it falls back to insertion sort; above that, it
// three-way-partitions around a pivot chosen from the expected ring
// position (median, delta), recursing with delta halved each time. When
// points are too densely clustered (delta <= 1024) it instead picks the
// pivot from a sorted sample of the first four elements, matching the C
// reference's points_sort so point ordering (and therefore ring placement)
// is reproducible across ports.
func sortPoints(points []point, median, delta uint32) {
	n := uint32(len(points))
	if n < 7 {
		insertionSortPoints(points)
		return
	}

	pivot := point{value: median, serverIndex: 0}
	left := 0
	i := n

	if delta <= 1024 {
		if pointLess(pivot, points[0]) == pointLess(pivot, points[1]) {
			sortPoints(points[:4], 0, 0)
			pivot = points[2]
			left = 3
			i -= 3
		}
	}

	leftIdx := left
	for i > 0 && !pointLess(pivot, points[leftIdx]) {
		i--
		leftIdx++
	}

	if i > 0 {
		now := leftIdx + 1
		i--
		for ; i > 0; i-- {
			if !pointLess(pivot, points[now]) {
				points[now], points[leftIdx] = points[leftIdx], points[now]
				leftIdx++
			}
			now++
		}
	}

	splitAt := leftIdx - left + left // == leftIdx, kept explicit to mirror the C `i = left - points`
	_ = splitAt

	lowerMedian := median - delta
	if delta == 0 {
		lowerMedian = median
	}
	upperMedian := median + delta

	sortPoints(points[:leftIdx], lowerMedian, delta/2)
	sortPoints(points[leftIdx:], upperMedian, delta/2)
}

func insertionSortPoints(points []point) {
	for i := 1; i < len(points); i++ {
		if !pointLess(points[i-1], points[i]) {
			tmp := points[i]
			j := i
			for j > 0 && !pointLess(points[j-1], tmp) {
				points[j] = points[j-1]
				j--
			}
			points[j] = tmp
		}
	}
}

// circularDistance is the 32-bit wrap-around distance between two ring
// positions (§4.F).
func circularDistance(a, b uint32) uint32 {
	dist := a - b
	if dist&(1<<31) == 0 {
		return dist
	}
	return ^dist + 1
}

// find performs the 2-way-nearest lookup of §4.F, returning the owning
// server index. Reports false only when the continuum has no points.
func (c *continuum) find(target uint32) (uint32, bool) {
	if len(c.points) == 0 {
		return 0, false
	}
	if !c.sorted {
		c.sort()
	}

	bucket := target >> fastHashIlog
	left := c.hash[bucket]
	right := c.hash[bucket+1]

	var greater uint32
	if left == right {
		greater = right
	} else {
		greater = firstGreaterOrEqual(c.points, target, left, right)
	}

	count := uint32(len(c.points))
	var lesser uint32
	if greater == 0 {
		lesser = count - 1
	} else {
		lesser = greater - 1
	}
	greater %= count

	distGreater := circularDistance(target, c.points[greater].value)
	distLesser := circularDistance(target, c.points[lesser].value)

	if distGreater < distLesser {
		return c.points[greater].serverIndex, true
	}
	return c.points[lesser].serverIndex, true
}
