package datastream

import "github.com/Hakuto4838/OrderedDict.git/dict"

// DataStream 定義資料流的介面
type DataStream interface {
	Close() error
	Next() int
	GetKeyMap() map[dict.K]float64
	GetCDF() []float64
	GetPDF() []float64
	Entropy() float64
}

// OperationType 表示操作種類
type OperationType uint8

const (
	OpInsert OperationType = iota
	OpFind
	OpClosestAfter
	OpRemove
)

func (t OperationType) String() string {
	switch t {
	case OpInsert:
		return "Insert"
	case OpFind:
		return "Find"
	case OpClosestAfter:
		return "Closest"
	case OpRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

func (t OperationType) valid() bool {
	return t <= OpRemove
}

// Operation 表示一筆操作
type Operation struct {
	Type OperationType
	Key  dict.K
}

// SequenceModel is a replay cursor over a recorded operation list.
// The ops are copied on construction, so later edits to the source slice
// do not change what is replayed.
type SequenceModel struct {
	ops  []Operation
	next int
}

func NewSequenceModelFromOps(ops []Operation) *SequenceModel {
	return &SequenceModel{ops: append([]Operation(nil), ops...)}
}

// Next 取出下一筆操作；序列結束時 ok 為 false
func (m *SequenceModel) Next() (op Operation, ok bool) {
	if m.next == len(m.ops) {
		return Operation{}, false
	}
	op = m.ops[m.next]
	m.next++
	return op, true
}

// NextN 一次取出至多 n 筆，回傳的切片為複本
func (m *SequenceModel) NextN(n int) []Operation {
	rest := len(m.ops) - m.next
	if n <= 0 || rest == 0 {
		return nil
	}
	n = min(n, rest)
	batch := append([]Operation(nil), m.ops[m.next:m.next+n]...)
	m.next += n
	return batch
}

func (m *SequenceModel) Len() int { return len(m.ops) }

func (m *SequenceModel) Reset() { m.next = 0 }
