package avl

import (
	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// Validate walks the whole tree and checks the search order, the cached
// heights, the balance factor of every node and the size counter.
func (t *Tree) Validate() error {
	count := 0
	var check func(nd *Node, lo, hi *dict.K) (int, error)
	check = func(nd *Node, lo, hi *dict.K) (int, error) {
		if nd == nil {
			return 0, nil
		}
		count++
		if lo != nil && nd.key <= *lo {
			return 0, errors.Errorf("key %d not greater than lower bound %d", nd.key, *lo)
		}
		if hi != nil && nd.key >= *hi {
			return 0, errors.Errorf("key %d not less than upper bound %d", nd.key, *hi)
		}
		lh, err := check(nd.left, lo, &nd.key)
		if err != nil {
			return 0, err
		}
		rh, err := check(nd.right, &nd.key, hi)
		if err != nil {
			return 0, err
		}
		if want := max(lh, rh) + 1; nd.height != want {
			return 0, errors.Errorf("node %d caches height %d, want %d", nd.key, nd.height, want)
		}
		if bf := lh - rh; bf > 1 || bf < -1 {
			return 0, errors.Errorf("node %d has balance factor %d", nd.key, bf)
		}
		return nd.height, nil
	}

	if _, err := check(t.root, nil, nil); err != nil {
		return errors.Wrap(err, "avl validate")
	}
	if count != t.size {
		return errors.Errorf("avl validate: size counter %d, traversal counted %d", t.size, count)
	}
	return nil
}
