package skip

import (
	"github.com/pkg/errors"
)

// Validate walks every level and checks ordering, link symmetry, tower
// shape, sentinel pairing and the size counter.
func (sl *SkipList) Validate() error {
	if err := sl.validate(); err != nil {
		return errors.Wrap(err, "skip list validate")
	}
	return nil
}

func (sl *SkipList) validate() error {
	if sl.maxLevel < 1 {
		return errors.Errorf("max level %d", sl.maxLevel)
	}
	if sl.nodes[sl.start].up != nilIdx || sl.nodes[sl.end].up != nilIdx {
		return errors.New("top sentinels have an up link")
	}

	walked := 0
	level := sl.maxLevel
	start, end := sl.start, sl.end
	for start != nilIdx {
		if end == nilIdx {
			return errors.Errorf("level %d: start sentinel without end sentinel", level)
		}
		if sl.nodes[start].key != NegInf || sl.nodes[end].key != PosInf {
			return errors.Errorf("level %d: bad sentinel keys", level)
		}
		if sl.nodes[start].prev != nilIdx || sl.nodes[end].next != nilIdx {
			return errors.Errorf("level %d: sentinels linked past the edge", level)
		}
		if sl.nodes[start].down != nilIdx && sl.nodes[sl.nodes[start].down].up != start {
			return errors.Errorf("level %d: start sentinel up/down mismatch", level)
		}
		if sl.nodes[end].down != nilIdx && sl.nodes[sl.nodes[end].down].up != end {
			return errors.Errorf("level %d: end sentinel up/down mismatch", level)
		}
		if level == sl.maxLevel && level > 1 && sl.nodes[start].next == end {
			return errors.Errorf("top level %d is empty", level)
		}

		count := 0
		nd := start
		walked++
		for nd != end {
			next := sl.nodes[nd].next
			if next == nilIdx {
				return errors.Errorf("level %d: chain broken after key %d", level, sl.nodes[nd].key)
			}
			if sl.nodes[next].prev != nd {
				return errors.Errorf("level %d: prev/next mismatch at key %d", level, sl.nodes[next].key)
			}
			if sl.nodes[next].key <= sl.nodes[nd].key {
				return errors.Errorf("level %d: key %d follows %d", level, sl.nodes[next].key, sl.nodes[nd].key)
			}
			nd = next
			walked++
			if nd == end {
				break
			}
			count++

			down := sl.nodes[nd].down
			if level == 1 {
				if down != nilIdx {
					return errors.Errorf("bottom key %d has a down link", sl.nodes[nd].key)
				}
			} else {
				if down == nilIdx {
					return errors.Errorf("level %d: key %d has no down link", level, sl.nodes[nd].key)
				}
				if sl.nodes[down].up != nd {
					return errors.Errorf("level %d: up/down mismatch at key %d", level, sl.nodes[nd].key)
				}
				if sl.nodes[down].key != sl.nodes[nd].key {
					return errors.Errorf("level %d: key %d sits on key %d", level, sl.nodes[nd].key, sl.nodes[down].key)
				}
			}
			if level == sl.maxLevel && sl.nodes[nd].up != nilIdx {
				return errors.Errorf("top key %d has an up link", sl.nodes[nd].key)
			}
		}

		if level == 1 && count != sl.size {
			return errors.Errorf("size counter %d, bottom level holds %d", sl.size, count)
		}
		if (sl.nodes[start].down == nilIdx) != (level == 1) {
			return errors.Errorf("level %d: start sentinel down link inconsistent", level)
		}
		start, end = sl.nodes[start].down, sl.nodes[end].down
		level--
	}
	if level != 0 {
		return errors.Errorf("walked %d levels, max level is %d", sl.maxLevel-level, sl.maxLevel)
	}
	if walked != sl.live() {
		return errors.Errorf("arena holds %d live nodes, %d reachable", sl.live(), walked)
	}
	return nil
}
