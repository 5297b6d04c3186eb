package skip

import "github.com/Hakuto4838/OrderedDict.git/dict"

const nilIdx = int32(-1)

// node lives in the list's arena. Links are arena indices, so the four-way
// linkage never forms pointer cycles. gen is bumped every time the slot is
// released, which invalidates outstanding Refs to it.
type node struct {
	key   dict.K
	value dict.V
	prev  int32
	next  int32
	up    int32
	down  int32
	gen   uint32
}

func (sl *SkipList) alloc(key dict.K, value dict.V) int32 {
	if n := len(sl.free); n > 0 {
		idx := sl.free[n-1]
		sl.free = sl.free[:n-1]
		nd := &sl.nodes[idx]
		nd.key, nd.value = key, value
		nd.prev, nd.next, nd.up, nd.down = nilIdx, nilIdx, nilIdx, nilIdx
		return idx
	}
	sl.nodes = append(sl.nodes, node{
		key:   key,
		value: value,
		prev:  nilIdx,
		next:  nilIdx,
		up:    nilIdx,
		down:  nilIdx,
	})
	return int32(len(sl.nodes) - 1)
}

func (sl *SkipList) release(idx int32) {
	nd := &sl.nodes[idx]
	nd.gen++
	nd.value = ""
	nd.prev, nd.next, nd.up, nd.down = nilIdx, nilIdx, nilIdx, nilIdx
	sl.free = append(sl.free, idx)
}

func (sl *SkipList) live() int {
	return len(sl.nodes) - len(sl.free)
}

// linkHorizontal makes rear the successor of front on one level.
func (sl *SkipList) linkHorizontal(front, rear int32) {
	sl.nodes[front].next = rear
	sl.nodes[rear].prev = front
}

// linkVertical puts upper directly above lower.
func (sl *SkipList) linkVertical(upper, lower int32) {
	sl.nodes[upper].down = lower
	sl.nodes[lower].up = upper
}

func (sl *SkipList) insertBefore(at, idx int32) {
	sl.linkHorizontal(sl.nodes[at].prev, idx)
	sl.linkHorizontal(idx, at)
}

func (sl *SkipList) unlink(idx int32) {
	sl.linkHorizontal(sl.nodes[idx].prev, sl.nodes[idx].next)
}

// Ref is a handle to a node of a SkipList. It stays comparable and cheap to
// copy; once the node is removed or the list destroyed, Valid reports false.
type Ref struct {
	sl    *SkipList
	idx   int32
	gen   uint32
	epoch uint32
}

func (sl *SkipList) ref(idx int32) Ref {
	if idx == nilIdx {
		return Ref{idx: nilIdx}
	}
	return Ref{sl: sl, idx: idx, gen: sl.nodes[idx].gen, epoch: sl.epoch}
}

func (r Ref) Valid() bool {
	return r.sl != nil &&
		r.epoch == r.sl.epoch &&
		r.idx >= 0 && int(r.idx) < len(r.sl.nodes) &&
		r.sl.nodes[r.idx].gen == r.gen
}

func (r Ref) node() *node {
	if !r.Valid() {
		panic("skip: use of invalid node reference")
	}
	return &r.sl.nodes[r.idx]
}

func (r Ref) GetKey() dict.K {
	return r.node().key
}

// GetValue returns the payload. Only bottom-level nodes carry one.
func (r Ref) GetValue() dict.V {
	return r.node().value
}

func (r Ref) IsSentinel() bool {
	k := r.node().key
	return k == NegInf || k == PosInf
}

func (r Ref) Successor() Ref {
	return r.sl.ref(r.node().next)
}

func (r Ref) Predecessor() Ref {
	return r.sl.ref(r.node().prev)
}

func (r Ref) Up() Ref {
	return r.sl.ref(r.node().up)
}

func (r Ref) Down() Ref {
	return r.sl.ref(r.node().down)
}
