package basic

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

const (
	maxLevel    = 32
	probability = 0.5
)

type basicNode struct {
	key   dict.K
	value dict.V
	next  []*basicNode
}

// BasicSkipList is the textbook skip list: every node keeps an array of
// forward pointers, one per level it reaches.
type BasicSkipList struct {
	head  *basicNode
	level int
	rand  *rand.Rand
	size  int
}

func NewBasicSkipList(seed int64) *BasicSkipList {
	return &BasicSkipList{
		head:  newNode(0, "", maxLevel),
		level: 1,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func newNode(key dict.K, value dict.V, level int) *basicNode {
	return &basicNode{
		key:   key,
		value: value,
		next:  make([]*basicNode, level),
	}
}

func (sl *BasicSkipList) randomLevel() int {
	lvl := 1
	for lvl < maxLevel && sl.rand.Float64() < probability {
		lvl++
	}
	return lvl
}

// walk 回傳每一層中最後一個 key < 目標的節點，以及步數
func (sl *BasicSkipList) walk(key dict.K, update []*basicNode) (*basicNode, int) {
	cur := sl.head
	steps := 0
	for h := sl.level - 1; h >= 0; h-- {
		for cur.next[h] != nil && cur.next[h].key < key {
			cur = cur.next[h]
			steps++
		}
		if update != nil {
			update[h] = cur
		}
		steps++
	}
	return cur, steps
}

func (sl *BasicSkipList) find(key dict.K) *basicNode {
	cur, _ := sl.walk(key, nil)
	if nd := cur.next[0]; nd != nil && nd.key == key {
		return nd
	}
	return nil
}

func (sl *BasicSkipList) Insert(key dict.K, value dict.V) (dict.Entry, error) {
	update := make([]*basicNode, maxLevel)
	cur, _ := sl.walk(key, update)
	if nd := cur.next[0]; nd != nil && nd.key == key {
		return dict.Entry{}, errors.Wrapf(dict.ErrDuplicateKey, "basic insert %d", key)
	}

	lvl := sl.randomLevel()
	for h := sl.level; h < lvl; h++ {
		update[h] = sl.head
	}
	sl.level = max(sl.level, lvl)

	nd := newNode(key, value, lvl)
	for h := 0; h < lvl; h++ {
		nd.next[h] = update[h].next[h]
		update[h].next[h] = nd
	}
	sl.size++
	return dict.Entry{Key: key, Value: value}, nil
}

func (sl *BasicSkipList) Find(key dict.K) dict.Node {
	nd := sl.find(key)
	if nd == nil {
		return nil
	}
	return nd
}

func (sl *BasicSkipList) Contains(key dict.K) bool {
	return sl.find(key) != nil
}

func (sl *BasicSkipList) closest(key dict.K) *basicNode {
	cur := sl.head
	for h := sl.level - 1; h >= 0; h-- {
		for cur.next[h] != nil && cur.next[h].key <= key {
			cur = cur.next[h]
		}
	}
	return cur.next[0]
}

func (sl *BasicSkipList) ClosestNodeAfter(key dict.K) dict.Node {
	nd := sl.closest(key)
	if nd == nil {
		return nil
	}
	return nd
}

// ClosestKeyAfter returns (0, false) when key has no successor.
func (sl *BasicSkipList) ClosestKeyAfter(key dict.K) (dict.K, bool) {
	nd := sl.closest(key)
	if nd == nil {
		return 0, false
	}
	return nd.key, true
}

func (sl *BasicSkipList) Remove(key dict.K) (dict.Entry, bool) {
	update := make([]*basicNode, maxLevel)
	cur, _ := sl.walk(key, update)
	nd := cur.next[0]
	if nd == nil || nd.key != key {
		return dict.Entry{}, false
	}
	for h := 0; h < len(nd.next); h++ {
		update[h].next[h] = nd.next[h]
	}
	for sl.level > 1 && sl.head.next[sl.level-1] == nil {
		sl.level--
	}
	sl.size--
	return dict.Entry{Key: nd.key, Value: nd.value}, true
}

func (sl *BasicSkipList) Size() int {
	return sl.size
}

func (sl *BasicSkipList) Destroy() {
	for h := range sl.head.next {
		sl.head.next[h] = nil
	}
	sl.level = 1
	sl.size = 0
}

func (sl *BasicSkipList) GetMaxStats() (int, int) {
	return sl.size, sl.level
}

func (sl *BasicSkipList) SearchSteps(key dict.K) int {
	_, steps := sl.walk(key, nil)
	return steps
}

// Levels lists the keys of every active level, top first.
func (sl *BasicSkipList) Levels() [][]dict.K {
	out := make([][]dict.K, 0, sl.level)
	for h := sl.level - 1; h >= 0; h-- {
		var keys []dict.K
		for nd := sl.head.next[h]; nd != nil; nd = nd.next[h] {
			keys = append(keys, nd.key)
		}
		out = append(out, keys)
	}
	return out
}

// Validate 檢查每層遞增、上層是下層的子集，以及 size 計數
func (sl *BasicSkipList) Validate() error {
	if sl.level < 1 || sl.level > maxLevel {
		return errors.Errorf("basic validate: level %d out of range", sl.level)
	}
	if sl.level > 1 && sl.head.next[sl.level-1] == nil {
		return errors.Errorf("basic validate: top level %d is empty", sl.level)
	}
	for h := sl.level; h < maxLevel; h++ {
		if sl.head.next[h] != nil {
			return errors.Errorf("basic validate: level %d used above active level %d", h+1, sl.level)
		}
	}
	for h := 0; h < sl.level; h++ {
		count := 0
		for nd := sl.head.next[h]; nd != nil; nd = nd.next[h] {
			count++
			if len(nd.next) <= h {
				return errors.Errorf("basic validate: key %d linked on level %d beyond its height", nd.key, h+1)
			}
			if nd.next[h] != nil && nd.next[h].key <= nd.key {
				return errors.Errorf("basic validate: level %d key %d follows %d", h+1, nd.next[h].key, nd.key)
			}
			if h == 0 {
				continue
			}
			if below := sl.find(nd.key); below != nd {
				return errors.Errorf("basic validate: level %d key %d missing below", h+1, nd.key)
			}
		}
		if h == 0 && count != sl.size {
			return errors.Errorf("basic validate: size counter %d, bottom level holds %d", sl.size, count)
		}
	}
	return nil
}

func (nd *basicNode) GetKey() dict.K {
	return nd.key
}

func (nd *basicNode) GetValue() dict.V {
	return nd.value
}
