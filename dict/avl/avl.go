package avl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// Node is a tree node. Each child is owned by exactly one parent.
type Node struct {
	key    dict.K
	value  dict.V
	left   *Node
	right  *Node
	height int
}

// RotationStats counts the rebalancing rotations performed by a tree.
type RotationStats struct {
	Left      int
	Right     int
	LeftRight int
	RightLeft int
}

// Tree is a height-balanced binary search tree.
type Tree struct {
	root *Node
	size int
	rot  RotationStats
}

func New() *Tree {
	return &Tree{}
}

func newNode(key dict.K, value dict.V) *Node {
	return &Node{key: key, value: value}
}

func height(nd *Node) int {
	if nd == nil {
		return 0
	}
	return nd.height
}

func (nd *Node) updateHeight() {
	nd.height = max(height(nd.left), height(nd.right)) + 1
}

// rotateLeft 右子樹過高：以右子為新的子樹根
//
//	a              b
//	 \            / \
//	  b    =>    a   c
//	   \
//	    c
func rotateLeft(a *Node) *Node {
	b := a.right
	a.right = b.left
	b.left = a

	a.updateHeight()
	b.updateHeight()
	return b
}

// rotateRight 左子樹過高：以左子為新的子樹根
func rotateRight(a *Node) *Node {
	b := a.left
	a.left = b.right
	b.right = a

	a.updateHeight()
	b.updateHeight()
	return b
}

func (t *Tree) singleLeft(a *Node) *Node {
	t.rot.Left++
	return rotateLeft(a)
}

func (t *Tree) singleRight(a *Node) *Node {
	t.rot.Right++
	return rotateRight(a)
}

func (t *Tree) leftRight(a *Node) *Node {
	t.rot.LeftRight++
	a.left = rotateLeft(a.left)
	return rotateRight(a)
}

func (t *Tree) rightLeft(a *Node) *Node {
	t.rot.RightLeft++
	a.right = rotateRight(a.right)
	return rotateLeft(a)
}

// Insert 插入 key-value，key 已存在時回傳 ErrDuplicateKey 且樹不變
func (t *Tree) Insert(key dict.K, value dict.V) (dict.Entry, error) {
	root, inserted := t.insert(t.root, key, value)
	if !inserted {
		return dict.Entry{}, errors.Wrapf(dict.ErrDuplicateKey, "avl insert %d", key)
	}
	t.root = root
	t.size++
	return dict.Entry{Key: key, Value: value}, nil
}

// insert returns the new subtree root. A duplicate aborts the descent before
// any link is changed, so the unwinding callers see their own child again.
func (t *Tree) insert(nd *Node, key dict.K, value dict.V) (*Node, bool) {
	if nd == nil {
		nd = newNode(key, value)
		nd.updateHeight()
		return nd, true
	}

	var inserted bool
	switch {
	case key < nd.key:
		nd.left, inserted = t.insert(nd.left, key, value)
		if !inserted {
			return nd, false
		}
		if height(nd.left)-height(nd.right) == 2 {
			if key < nd.left.key {
				nd = t.singleRight(nd)
			} else {
				nd = t.leftRight(nd)
			}
		}
	case key > nd.key:
		nd.right, inserted = t.insert(nd.right, key, value)
		if !inserted {
			return nd, false
		}
		if height(nd.right)-height(nd.left) == 2 {
			if key > nd.right.key {
				nd = t.singleLeft(nd)
			} else {
				nd = t.rightLeft(nd)
			}
		}
	default:
		return nd, false
	}

	nd.updateHeight()
	return nd, true
}

// Remove 刪除 key，回傳被刪除的 key-value 副本
func (t *Tree) Remove(key dict.K) (dict.Entry, bool) {
	var removed dict.Entry
	var found bool
	t.root = t.remove(t.root, key, &removed, &found)
	if found {
		t.size--
	}
	return removed, found
}

func (t *Tree) remove(nd *Node, key dict.K, removed *dict.Entry, found *bool) *Node {
	if nd == nil {
		return nil
	}

	switch {
	case key < nd.key:
		nd.left = t.remove(nd.left, key, removed, found)
	case key > nd.key:
		nd.right = t.remove(nd.right, key, removed, found)
	default:
		if !*found {
			*removed = dict.Entry{Key: nd.key, Value: nd.value}
			*found = true
		}
		if nd.left == nil || nd.right == nil {
			if nd.left != nil {
				return nd.left
			}
			return nd.right
		}
		// 兩個子節點：由較高的一側取替代者，遞迴刪除時必定只剩至多一個子節點
		if height(nd.left) > height(nd.right) {
			pred := maximumNode(nd.left)
			nd.key, nd.value = pred.key, pred.value
			nd.left = t.remove(nd.left, pred.key, removed, found)
		} else {
			succ := minimumNode(nd.right)
			nd.key, nd.value = succ.key, succ.value
			nd.right = t.remove(nd.right, succ.key, removed, found)
		}
	}

	nd.updateHeight()
	return t.rebalance(nd)
}

// rebalance restores the balance of nd after a removal below it. The rotation
// is chosen by which grandchild subtree is taller.
func (t *Tree) rebalance(nd *Node) *Node {
	switch {
	case height(nd.right)-height(nd.left) == 2:
		right := nd.right
		if height(right.left) > height(right.right) {
			return t.rightLeft(nd)
		}
		return t.singleLeft(nd)
	case height(nd.left)-height(nd.right) == 2:
		left := nd.left
		if height(left.right) > height(left.left) {
			return t.leftRight(nd)
		}
		return t.singleRight(nd)
	}
	return nd
}

func minimumNode(nd *Node) *Node {
	if nd == nil {
		return nil
	}
	for nd.left != nil {
		nd = nd.left
	}
	return nd
}

func maximumNode(nd *Node) *Node {
	if nd == nil {
		return nil
	}
	for nd.right != nil {
		nd = nd.right
	}
	return nd
}

func (t *Tree) find(key dict.K) *Node {
	nd := t.root
	for nd != nil {
		switch {
		case key < nd.key:
			nd = nd.left
		case key > nd.key:
			nd = nd.right
		default:
			return nd
		}
	}
	return nil
}

// Find returns the live node holding key, or nil.
func (t *Tree) Find(key dict.K) dict.Node {
	if nd := t.find(key); nd != nil {
		return nd
	}
	return nil
}

// FindNode is Find with the concrete node type.
func (t *Tree) FindNode(key dict.K) *Node {
	return t.find(key)
}

func (t *Tree) Contains(key dict.K) bool {
	return t.find(key) != nil
}

// closestNodeAfter walks down once, keeping the tightest candidate seen on a
// left turn. A right turn never tightens the bound.
func (t *Tree) closestNodeAfter(key dict.K) *Node {
	var cand *Node
	nd := t.root
	for nd != nil {
		switch {
		case key < nd.key:
			cand = nd
			nd = nd.left
		case key > nd.key:
			nd = nd.right
		default:
			if nd.right != nil {
				return minimumNode(nd.right)
			}
			return cand
		}
	}
	return cand
}

func (t *Tree) ClosestNodeAfter(key dict.K) dict.Node {
	if nd := t.closestNodeAfter(key); nd != nil {
		return nd
	}
	return nil
}

// ClosestKeyAfter returns (0, false) when key has no successor.
func (t *Tree) ClosestKeyAfter(key dict.K) (dict.K, bool) {
	nd := t.closestNodeAfter(key)
	if nd == nil {
		return 0, false
	}
	return nd.key, true
}

func (t *Tree) Size() int {
	return t.size
}

func (t *Tree) Destroy() {
	t.root = nil
	t.size = 0
}

// Root 回傳根節點，空樹時為 nil
func (t *Tree) Root() *Node {
	return t.root
}

// Height is the height of the root; an empty tree has height 0.
func (t *Tree) Height() int {
	return height(t.root)
}

func (t *Tree) Rotations() RotationStats {
	return t.rot
}

func (t *Tree) GetMaxStats() (int, int) {
	return t.size, t.Height()
}

// SearchSteps counts the nodes visited while looking key up.
func (t *Tree) SearchSteps(key dict.K) int {
	steps := 0
	nd := t.root
	for nd != nil {
		steps++
		switch {
		case key < nd.key:
			nd = nd.left
		case key > nd.key:
			nd = nd.right
		default:
			return steps
		}
	}
	return steps
}

func (t *Tree) PreOrder() []dict.K {
	out := make([]dict.K, 0, t.size)
	var walk func(nd *Node)
	walk = func(nd *Node) {
		if nd == nil {
			return
		}
		out = append(out, nd.key)
		walk(nd.left)
		walk(nd.right)
	}
	walk(t.root)
	return out
}

func (t *Tree) InOrder() []dict.K {
	out := make([]dict.K, 0, t.size)
	var walk func(nd *Node)
	walk = func(nd *Node) {
		if nd == nil {
			return
		}
		walk(nd.left)
		out = append(out, nd.key)
		walk(nd.right)
	}
	walk(t.root)
	return out
}

func (t *Tree) PostOrder() []dict.K {
	out := make([]dict.K, 0, t.size)
	var walk func(nd *Node)
	walk = func(nd *Node) {
		if nd == nil {
			return
		}
		walk(nd.left)
		walk(nd.right)
		out = append(out, nd.key)
	}
	walk(t.root)
	return out
}

// String describes the tree breadth first, one parent/child link per line.
func (t *Tree) String() string {
	if t.root == nil {
		return "The AVL tree is empty."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d is root.\n", t.root.key)
	queue := []*Node{t.root}
	for len(queue) > 0 {
		nd := queue[0]
		queue = queue[1:]
		if nd.left != nil {
			queue = append(queue, nd.left)
			fmt.Fprintf(&sb, "%d is %d's left child.\n", nd.left.key, nd.key)
		}
		if nd.right != nil {
			queue = append(queue, nd.right)
			fmt.Fprintf(&sb, "%d is %d's right child.\n", nd.right.key, nd.key)
		}
	}
	return sb.String()
}

func (nd *Node) GetKey() dict.K {
	return nd.key
}

func (nd *Node) GetValue() dict.V {
	return nd.value
}

func (nd *Node) Left() *Node {
	return nd.left
}

func (nd *Node) Right() *Node {
	return nd.right
}

func (nd *Node) Height() int {
	return nd.height
}
