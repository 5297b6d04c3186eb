package dict

type K = int64
type V = string

// Dictionary is the operation set shared by every ordered dictionary engine.
// Engines are single-threaded: a mutating call needs exclusive access.
type Dictionary interface {
	// Insert adds key with value and returns a detached copy of the new pair.
	// An already present key fails with ErrDuplicateKey and leaves the
	// structure untouched.
	Insert(key K, value V) (Entry, error)
	// Find returns the live node holding key, or nil.
	Find(key K) Node
	Contains(key K) bool
	// ClosestKeyAfter returns the smallest key strictly greater than key.
	// ok is false when no such key exists.
	ClosestKeyAfter(key K) (succ K, ok bool)
	// ClosestNodeAfter returns the node with the smallest key strictly
	// greater than key, or nil.
	ClosestNodeAfter(key K) Node
	// Remove deletes key and returns a detached copy of the removed pair.
	Remove(key K) (Entry, bool)
	Size() int
	// Destroy empties the structure. Nodes obtained earlier must not be used.
	Destroy()
}

// Analyable 提供分析功能的介面
type Analyable interface {
	Dictionary
	// GetMaxStats 回傳節點數與結構高度（AVL 樹高或 skip list 層數）
	GetMaxStats() (size int, height int)
	// SearchSteps 回傳搜尋 key 時經過的步數
	SearchSteps(key K) int
}

// Leveled is implemented by the skip lists; levels are listed top first and
// exclude sentinels.
type Leveled interface {
	Levels() [][]K
}

type Validator interface {
	Validate() error
}

type Node interface {
	GetKey() K
	GetValue() V
}

// Entry is a detached key/value pair. It carries no structural links.
type Entry struct {
	Key   K
	Value V
}

func (e Entry) GetKey() K {
	return e.Key
}

func (e Entry) GetValue() V {
	return e.Value
}
