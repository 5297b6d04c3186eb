package datastream

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
	"github.com/willf/bloom"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// WorkloadConfig describes a size-stepped benchmark workload. For every
// exponent m the structure is first filled with fresh keys up to 2^m-1
// entries, then Times rounds of insert/find/closest/remove are issued.
type WorkloadConfig struct {
	Exponents []int  `yaml:"exponents"`
	Times     int    `yaml:"times"`
	MinKey    dict.K `yaml:"min_key"`
	MaxKey    dict.K `yaml:"max_key"`
	Seed      int64  `yaml:"seed"`
}

func DefaultWorkloadConfig() WorkloadConfig {
	return WorkloadConfig{
		Exponents: []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		Times:     100_000,
		MinKey:    1,
		MaxKey:    1_000_000,
		Seed:      1,
	}
}

// Round is one size step of a workload. Fill keys are inserted untimed
// before Ops are replayed. Exponent 0 marks a round without a size target.
type Round struct {
	Exponent int
	Target   uint64
	Fill     []dict.K
	Ops      []Operation
}

func (r *Round) Sequence() *SequenceModel {
	return NewSequenceModelFromOps(r.Ops)
}

type Workload struct {
	Rounds []Round
}

// OpCount is the number of timed operations over all rounds.
func (w *Workload) OpCount() int {
	n := 0
	for i := range w.Rounds {
		n += len(w.Rounds[i].Ops)
	}
	return n
}

const maxExponent = 30

// Validate reports whether GenerateWorkload can produce a workload from c.
func (c WorkloadConfig) Validate() error {
	_, err := c.validate()
	return err
}

func (c WorkloadConfig) validate() (span uint64, err error) {
	if len(c.Exponents) == 0 {
		return 0, errors.New("no exponents")
	}
	if c.Times <= 0 {
		return 0, errors.Errorf("invalid times: %d", c.Times)
	}
	if c.MinKey > c.MaxKey {
		return 0, errors.Errorf("invalid key range [%d, %d]", c.MinKey, c.MaxKey)
	}
	if c.MinKey == math.MinInt64 || c.MaxKey == math.MaxInt64 {
		return 0, errors.New("key range must exclude the int64 extremes")
	}
	span = uint64(c.MaxKey-c.MinKey) + 1
	if span > math.MaxInt64 {
		return 0, errors.Errorf("key range [%d, %d] too wide", c.MinKey, c.MaxKey)
	}

	// 結構大小只增不減，回合必須依 exponent 嚴格遞增
	top := 0
	for i, m := range c.Exponents {
		if m < 1 || m > maxExponent {
			return 0, errors.Errorf("exponent %d out of range [1, %d]", m, maxExponent)
		}
		if i > 0 && m <= top {
			return 0, errors.Errorf("exponent %d after %d: exponents must be strictly ascending", m, top)
		}
		top = m
	}
	// 同時存在的 key 最多 2^top 個，留一倍空間避免抽樣卡住
	if span < uint64(2)<<top {
		return 0, errors.Errorf("key range of %d keys too small for exponent %d", span, top)
	}
	return span, nil
}

// keyPool tracks the keys currently present. Fresh-key draws consult a
// Bloom filter first; only filter hits fall back to the exact index.
// Removed keys stay in the filter, so it is rebuilt from the live keys
// once limit keys have been added since the last rebuild.
type keyPool struct {
	filter *bloom.BloomFilter
	added  int
	limit  int
	index  map[dict.K]int
	keys   []dict.K
}

// 每個 key 約 10 bit、7 個 hash，在 limit 筆以內誤判率約 1%
const (
	bloomBitsPerKey = 10
	bloomHashes     = 7
)

// newKeyPool sizes the pool for at most capacity live keys.
func newKeyPool(capacity int) *keyPool {
	// 預留兩倍空間，重建後至少還能再加 capacity 筆
	bits := max(1024, 2*bloomBitsPerKey*capacity)
	return &keyPool{
		filter: bloom.New(uint(bits), bloomHashes),
		limit:  bits / bloomBitsPerKey,
		index:  make(map[dict.K]int, capacity),
		keys:   make([]dict.K, 0, capacity),
	}
}

func bloomKey(key dict.K) string {
	return strconv.FormatInt(key, 10)
}

func (p *keyPool) has(key dict.K) bool {
	if !p.filter.TestString(bloomKey(key)) {
		return false
	}
	_, ok := p.index[key]
	return ok
}

func (p *keyPool) add(key dict.K) {
	if p.added >= p.limit {
		p.rebuild()
	}
	p.filter.AddString(bloomKey(key))
	p.added++
	p.index[key] = len(p.keys)
	p.keys = append(p.keys, key)
}

// rebuild 清空 filter 後只放回目前存在的 key
func (p *keyPool) rebuild() {
	p.filter.ClearAll()
	for _, key := range p.keys {
		p.filter.AddString(bloomKey(key))
	}
	p.added = len(p.keys)
}

func (p *keyPool) removeAt(i int) dict.K {
	key := p.keys[i]
	last := len(p.keys) - 1
	p.keys[i] = p.keys[last]
	p.index[p.keys[i]] = i
	p.keys = p.keys[:last]
	delete(p.index, key)
	return key
}

// GenerateWorkload 產生與原始效能測試相同節奏的操作序列
func GenerateWorkload(cfg WorkloadConfig) (*Workload, error) {
	span, err := cfg.validate()
	if err != nil {
		return nil, errors.Wrap(err, "generate workload")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	draw := func() dict.K {
		return cfg.MinKey + dict.K(rng.Int63n(int64(span)))
	}
	fresh := func(pool *keyPool) dict.K {
		for {
			if key := draw(); !pool.has(key) {
				return key
			}
		}
	}

	// 最多同時存在 2^top 個 key（補滿 2^top-1 之後的那次插入）
	pool := newKeyPool(1 << cfg.Exponents[len(cfg.Exponents)-1])

	wl := &Workload{Rounds: make([]Round, 0, len(cfg.Exponents))}
	for _, m := range cfg.Exponents {
		round := Round{
			Exponent: m,
			Target:   uint64(1)<<m - 1,
			Ops:      make([]Operation, 0, 4*cfg.Times),
		}
		for uint64(len(pool.keys)) < round.Target {
			key := fresh(pool)
			pool.add(key)
			round.Fill = append(round.Fill, key)
		}

		for n := 0; n < cfg.Times; n++ {
			key := fresh(pool)
			pool.add(key)
			round.Ops = append(round.Ops,
				Operation{Type: OpInsert, Key: key},
				Operation{Type: OpFind, Key: draw()},
				Operation{Type: OpClosestAfter, Key: draw()},
				Operation{Type: OpRemove, Key: pool.removeAt(rng.Intn(len(pool.keys)))},
			)
		}
		wl.Rounds = append(wl.Rounds, round)
	}
	return wl, nil
}

// GenerateStreamWorkload 以資料流抽出的 index 當 key 產生單一回合的操作序列。
// 規則：
//   - key 不在表中時輸出 Insert
//   - 已在表中：85% Find、5% Closest、其餘 Remove
func GenerateStreamWorkload(gen DataStream, k int, seed int64) (*Workload, error) {
	if gen == nil {
		return nil, errors.New("nil data stream")
	}
	if k < 0 {
		return nil, errors.Errorf("invalid k: %d", k)
	}

	rng := rand.New(rand.NewSource(seed))
	present := make(map[dict.K]bool)
	round := Round{Ops: make([]Operation, 0, k)}
	for i := 0; i < k; i++ {
		key := dict.K(gen.Next())
		op := OpInsert
		if present[key] {
			switch r := rng.Float64(); {
			case r < 0.85:
				op = OpFind
			case r < 0.90:
				op = OpClosestAfter
			default:
				op = OpRemove
			}
		}
		switch op {
		case OpInsert:
			present[key] = true
		case OpRemove:
			delete(present, key)
		}
		round.Ops = append(round.Ops, Operation{Type: op, Key: key})
	}
	return &Workload{Rounds: []Round{round}}, nil
}
