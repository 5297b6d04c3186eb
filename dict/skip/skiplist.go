package skip

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// Sentinel keys bounding every level. They cannot be stored.
const (
	NegInf = dict.K(math.MinInt64)
	PosInf = dict.K(math.MaxInt64)
)

// SkipList is a tower of sorted, doubly linked levels. Every level starts
// with a NegInf sentinel and ends with a PosInf sentinel; sentinels of
// adjacent levels are linked vertically. start/end are the sentinels of the
// top level.
type SkipList struct {
	nodes []node
	free  []int32

	start    int32
	end      int32
	maxLevel int
	size     int
	epoch    uint32

	opts *options
}

func New(opts ...Option) *SkipList {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}
	sl := &SkipList{opts: o}
	sl.init()
	return sl
}

func (sl *SkipList) init() {
	sl.start = sl.alloc(NegInf, "")
	sl.end = sl.alloc(PosInf, "")
	sl.linkHorizontal(sl.start, sl.end)
	sl.maxLevel = 1
	sl.size = 0
}

func (sl *SkipList) flip() bool {
	if sl.opts.coin != nil {
		return sl.opts.coin()
	}
	return sl.opts.rand.Intn(2) == 1
}

func reserved(key dict.K) bool {
	return key == NegInf || key == PosInf
}

// search 從最上層的 start 出發：向右走到下一個 key 超過目標為止，再往下一層。
// 回傳最底層中 key <= 目標的最後一個節點（可能是 start 哨兵）以及走過的步數。
func (sl *SkipList) search(key dict.K) (int32, int) {
	nd := sl.start
	steps := 0
	for {
		for key >= sl.nodes[sl.nodes[nd].next].key {
			nd = sl.nodes[nd].next
			steps++
		}
		if sl.nodes[nd].key == key {
			// 找到塔頂，直接沿 down 落到最底層
			for sl.nodes[nd].down != nilIdx {
				nd = sl.nodes[nd].down
				steps++
			}
			return nd, steps
		}
		if sl.nodes[nd].down == nilIdx {
			return nd, steps
		}
		nd = sl.nodes[nd].down
		steps++
	}
}

func (sl *SkipList) bottomEnd() int32 {
	nd := sl.end
	for sl.nodes[nd].down != nilIdx {
		nd = sl.nodes[nd].down
	}
	return nd
}

// successor returns the bottom-level node following key; the bottom end
// sentinel when key has no successor.
func (sl *SkipList) successor(key dict.K) int32 {
	if key == PosInf {
		return sl.bottomEnd()
	}
	nd, _ := sl.search(key)
	return sl.nodes[nd].next
}

func (sl *SkipList) find(key dict.K) int32 {
	if reserved(key) {
		return nilIdx
	}
	nd, _ := sl.search(key)
	if sl.nodes[nd].key != key {
		return nilIdx
	}
	return nd
}

// addLevel materializes a new, empty top level.
func (sl *SkipList) addLevel() {
	start := sl.alloc(NegInf, "")
	end := sl.alloc(PosInf, "")
	sl.linkHorizontal(start, end)
	sl.linkVertical(start, sl.start)
	sl.linkVertical(end, sl.end)
	sl.start, sl.end = start, end
	sl.maxLevel++
}

// Insert 插入 key-value，之後持續擲硬幣決定是否往上一層複製 key
func (sl *SkipList) Insert(key dict.K, value dict.V) (dict.Entry, error) {
	if reserved(key) {
		return dict.Entry{}, errors.Wrapf(dict.ErrReservedKey, "skip list insert %d", key)
	}
	after := sl.successor(key)
	if sl.nodes[sl.nodes[after].prev].key == key {
		return dict.Entry{}, errors.Wrapf(dict.ErrDuplicateKey, "skip list insert %d", key)
	}

	bottom := sl.alloc(key, value)
	sl.insertBefore(after, bottom)

	below := bottom
	level := 1
	for (sl.opts.maxLevel <= 0 || level < sl.opts.maxLevel) && sl.flip() {
		if level >= sl.maxLevel {
			sl.addLevel()
		}
		// 往右找第一個有上層複本的節點（end 哨兵一定有）
		for sl.nodes[after].up == nilIdx {
			after = sl.nodes[after].next
		}
		after = sl.nodes[after].up

		upper := sl.alloc(key, "")
		sl.insertBefore(after, upper)
		sl.linkVertical(upper, below)
		below = upper
		level++
	}

	sl.size++
	return dict.Entry{Key: key, Value: value}, nil
}

func (sl *SkipList) Find(key dict.K) dict.Node {
	idx := sl.find(key)
	if idx == nilIdx {
		return nil
	}
	return sl.ref(idx)
}

// FindRef is Find with the concrete handle type; the zero Ref when absent.
func (sl *SkipList) FindRef(key dict.K) Ref {
	return sl.ref(sl.find(key))
}

func (sl *SkipList) Contains(key dict.K) bool {
	return sl.find(key) != nilIdx
}

// Successor returns the bottom-level node with the smallest key greater
// than key. With no such key it is the bottom end sentinel (key PosInf).
func (sl *SkipList) Successor(key dict.K) Ref {
	return sl.ref(sl.successor(key))
}

// ClosestNodeAfter returns nil instead of the end sentinel.
func (sl *SkipList) ClosestNodeAfter(key dict.K) dict.Node {
	idx := sl.successor(key)
	if sl.nodes[idx].key == PosInf {
		return nil
	}
	return sl.ref(idx)
}

// ClosestKeyAfter returns (PosInf, false) when key has no successor.
func (sl *SkipList) ClosestKeyAfter(key dict.K) (dict.K, bool) {
	k := sl.nodes[sl.successor(key)].key
	return k, k != PosInf
}

// Remove unlinks the whole tower of key, then drops top levels left empty.
func (sl *SkipList) Remove(key dict.K) (dict.Entry, bool) {
	nd := sl.find(key)
	if nd == nilIdx {
		return dict.Entry{}, false
	}
	removed := dict.Entry{Key: key, Value: sl.nodes[nd].value}

	for nd != nilIdx {
		up := sl.nodes[nd].up
		sl.unlink(nd)
		sl.release(nd)
		nd = up
	}

	for sl.maxLevel > 1 && sl.nodes[sl.start].next == sl.end {
		start, end := sl.nodes[sl.start].down, sl.nodes[sl.end].down
		sl.release(sl.start)
		sl.release(sl.end)
		sl.start, sl.end = start, end
		sl.nodes[start].up = nilIdx
		sl.nodes[end].up = nilIdx
		sl.maxLevel--
	}

	sl.size--
	return removed, true
}

func (sl *SkipList) Size() int {
	return sl.size
}

// Destroy empties the list and invalidates every Ref handed out before.
func (sl *SkipList) Destroy() {
	sl.epoch++
	sl.nodes = sl.nodes[:0]
	sl.free = sl.free[:0]
	sl.init()
}

// MaxLevel is the number of materialized levels, at least 1.
func (sl *SkipList) MaxLevel() int {
	return sl.maxLevel
}

func (sl *SkipList) GetMaxStats() (int, int) {
	return sl.size, sl.maxLevel
}

// SearchSteps counts right and down moves taken while looking key up.
func (sl *SkipList) SearchSteps(key dict.K) int {
	if reserved(key) {
		return 0
	}
	_, steps := sl.search(key)
	return steps
}

// Levels lists the keys of every level, top level first.
func (sl *SkipList) Levels() [][]dict.K {
	out := make([][]dict.K, 0, sl.maxLevel)
	for start := sl.start; start != nilIdx; start = sl.nodes[start].down {
		var keys []dict.K
		for nd := sl.nodes[start].next; sl.nodes[nd].key != PosInf; nd = sl.nodes[nd].next {
			keys = append(keys, sl.nodes[nd].key)
		}
		out = append(out, keys)
	}
	return out
}

func (sl *SkipList) String() string {
	if sl.size == 0 {
		return "The skip list is empty.\n"
	}
	var sb strings.Builder
	level := sl.maxLevel
	for _, keys := range sl.Levels() {
		fmt.Fprintf(&sb, "Level %d: start-", level)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%d-", k)
		}
		sb.WriteString("end\n")
		level--
	}
	return sb.String()
}
