package datastream

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"io"
	"math"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

func smallConfig() WorkloadConfig {
	return WorkloadConfig{
		Exponents: []int{3, 5, 6},
		Times:     40,
		MinKey:    1,
		MaxKey:    10_000,
		Seed:      42,
	}
}

// TestGenerateWorkloadShape 以 map 模擬結構大小，驗證每回合先補到 2^m-1 再做固定四種操作
func TestGenerateWorkloadShape(t *testing.T) {
	cfg := smallConfig()
	wl, err := GenerateWorkload(cfg)
	require.NoError(t, err)
	require.Len(t, wl.Rounds, len(cfg.Exponents))
	assert.Equal(t, 4*cfg.Times*len(cfg.Exponents), wl.OpCount())

	present := map[dict.K]bool{}
	for i, round := range wl.Rounds {
		m := cfg.Exponents[i]
		assert.Equal(t, m, round.Exponent)
		assert.Equal(t, uint64(1)<<m-1, round.Target)

		for _, key := range round.Fill {
			require.False(t, present[key], "fill key %d already present", key)
			present[key] = true
		}
		require.Equal(t, int(round.Target), len(present))

		require.Len(t, round.Ops, 4*cfg.Times)
		for j := 0; j < len(round.Ops); j += 4 {
			ins, find, closest, rem := round.Ops[j], round.Ops[j+1], round.Ops[j+2], round.Ops[j+3]
			require.Equal(t, OpInsert, ins.Type)
			require.Equal(t, OpFind, find.Type)
			require.Equal(t, OpClosestAfter, closest.Type)
			require.Equal(t, OpRemove, rem.Type)

			require.False(t, present[ins.Key], "insert key %d not fresh", ins.Key)
			present[ins.Key] = true
			for _, op := range []Operation{ins, find, closest, rem} {
				require.GreaterOrEqual(t, op.Key, cfg.MinKey)
				require.LessOrEqual(t, op.Key, cfg.MaxKey)
			}
			require.True(t, present[rem.Key], "remove key %d not present", rem.Key)
			delete(present, rem.Key)
		}
		require.Equal(t, int(round.Target), len(present))
	}
}

func TestGenerateWorkloadDeterministic(t *testing.T) {
	a, err := GenerateWorkload(smallConfig())
	require.NoError(t, err)
	b, err := GenerateWorkload(smallConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateWorkloadRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*WorkloadConfig){
		"no exponents":   func(c *WorkloadConfig) { c.Exponents = nil },
		"zero times":     func(c *WorkloadConfig) { c.Times = 0 },
		"inverted range": func(c *WorkloadConfig) { c.MinKey, c.MaxKey = 10, 1 },
		"range too small": func(c *WorkloadConfig) {
			c.MaxKey = 50
		},
		"exponent too large": func(c *WorkloadConfig) { c.Exponents = []int{31} },
		"reserved extreme":   func(c *WorkloadConfig) { c.MaxKey = math.MaxInt64 },
		"descending":         func(c *WorkloadConfig) { c.Exponents = []int{8, 4} },
		"repeated exponent":  func(c *WorkloadConfig) { c.Exponents = []int{3, 3} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig()
			mutate(&cfg)
			_, err := GenerateWorkload(cfg)
			assert.Error(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestKeyPoolChurn 大量插入刪除後，filter 只保留存在的 key
func TestKeyPoolChurn(t *testing.T) {
	p := newKeyPool(8)
	for k := dict.K(0); k < 10_000; k++ {
		p.add(k)
		if len(p.keys) > 8 {
			p.removeAt(0)
		}
		require.LessOrEqual(t, p.added, p.limit)
	}

	for _, k := range p.keys {
		assert.True(t, p.has(k))
		assert.True(t, p.filter.TestString(bloomKey(k)))
	}
	hits := 0
	for k := dict.K(0); k < 10_000; k++ {
		if _, ok := p.index[k]; !ok && p.filter.TestString(bloomKey(k)) {
			hits++
		}
	}
	assert.Less(t, hits, 1_000, "removed keys still answered by the filter")
}

func TestWriteAndReadWorkloadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	wl, err := GenerateWorkload(smallConfig())
	require.NoError(t, err)

	require.NoError(t, WriteWorkloadFile(fs, "/bench/w.bin", wl))
	exist, err := afero.Exists(fs, "/bench/w.bin")
	require.NoError(t, err)
	require.True(t, exist)

	got, err := ReadWorkloadFile(fs, "/bench/w.bin")
	require.NoError(t, err)
	assert.Equal(t, wl, got)

	_, err = ReadWorkloadFile(fs, "/bench/missing.bin")
	assert.Error(t, err)
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeWorkload(&buf, &Workload{Rounds: []Round{{Ops: []Operation{{Type: OpFind, Key: 3}}}}}))
	raw := buf.Bytes()

	bad := append([]byte{}, raw...)
	bad[0] = 'X'
	_, err := DecodeWorkload(bytes.NewReader(bad))
	assert.True(t, errors.Is(err, ErrInvalidMagic))

	bad = append([]byte{}, raw...)
	bad[8] = 9
	_, err = DecodeWorkload(bytes.NewReader(bad))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	bad = append([]byte{}, raw...)
	bad[len(bad)-9] = 17
	_, err = DecodeWorkload(bytes.NewReader(bad))
	assert.Error(t, err)

	_, err = DecodeWorkload(bytes.NewReader(raw[:len(raw)-3]))
	assert.Error(t, err)
}

// TestDecodeTruncatedBodyAllocatesLittle 標頭宣稱 1<<24 筆操作但沒有內容，
// 解碼應在 EOF 失敗且不預先配置整段記憶體
func TestDecodeTruncatedBodyAllocatesLittle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, fileHeader{Magic: benchMagic, Version: benchVersion, Rounds: 1}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, roundHeader{Exponent: 4, Target: 15}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(1<<24)))
	require.Equal(t, 40, buf.Len())

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := DecodeWorkload(bytes.NewReader(buf.Bytes()))
	runtime.ReadMemStats(&after)

	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF), "got %v", err)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(4<<20))
}

func TestDecodeLargeRoundAcrossChunks(t *testing.T) {
	ops := make([]Operation, 3*readChunk+5)
	fill := make([]dict.K, readChunk+1)
	for i := range ops {
		ops[i] = Operation{Type: OperationType(i % 4), Key: dict.K(i)}
	}
	for i := range fill {
		fill[i] = dict.K(-i)
	}
	wl := &Workload{Rounds: []Round{{Exponent: 13, Target: 8191, Fill: fill, Ops: ops}}}

	var buf bytes.Buffer
	require.NoError(t, EncodeWorkload(&buf, wl))
	got, err := DecodeWorkload(&buf)
	require.NoError(t, err)
	assert.Equal(t, wl, got)
}

func TestGenerateStreamWorkload(t *testing.T) {
	gen := NewZipfDataGenerator(16, 1.2, 1.0, 7)
	wl, err := GenerateStreamWorkload(gen, 500, 7)
	require.NoError(t, err)
	require.Len(t, wl.Rounds, 1)

	m := wl.Rounds[0].Sequence()
	assert.Equal(t, 500, m.Len())
	present := map[dict.K]bool{}
	for {
		op, ok := m.Next()
		if !ok {
			break
		}
		require.GreaterOrEqual(t, op.Key, dict.K(0))
		require.Less(t, op.Key, dict.K(16))
		if !present[op.Key] {
			require.Equal(t, OpInsert, op.Type)
		} else {
			require.NotEqual(t, OpInsert, op.Type)
		}
		switch op.Type {
		case OpInsert:
			present[op.Key] = true
		case OpRemove:
			delete(present, op.Key)
		}
	}

	_, err = GenerateStreamWorkload(nil, 1, 1)
	assert.Error(t, err)
}

func TestSequenceModel(t *testing.T) {
	ops := []Operation{{OpInsert, 1}, {OpFind, 2}, {OpRemove, 1}}
	m := NewSequenceModelFromOps(ops)
	ops[0].Key = 99

	assert.Equal(t, []Operation{{OpInsert, 1}, {OpFind, 2}}, m.NextN(2))
	op, ok := m.Next()
	assert.True(t, ok)
	assert.Equal(t, Operation{OpRemove, 1}, op)
	_, ok = m.Next()
	assert.False(t, ok)
	assert.Nil(t, m.NextN(1))

	m.Reset()
	op, _ = m.Next()
	assert.Equal(t, dict.K(1), op.Key)
}

func TestGenerators(t *testing.T) {
	z := NewZipfDataGenerator(100, 1.07, 1.0, 42)
	sum := 0.0
	for _, p := range z.GetKeyMap() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 1.0, z.GetCDF()[99], 1e-9)
	assert.InDelta(t, EntropyFromDist(z.GetKeyMap()), z.Entropy(), 1e-9)
	for _, idx := range z.GenerateSequence(1000) {
		require.True(t, idx >= 0 && idx < 100)
	}

	u := NewUniformDataGenerator(8, 1)
	assert.InDelta(t, 3.0, u.Entropy(), 1e-9)
	assert.Equal(t, 0.125, u.GetPDF()[3])
	var _ DataStream = u
	var _ DataStream = z
	require.NoError(t, u.Close())
}

func TestDistributeToCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DistributeToCSV(csv.NewWriter(&buf), map[dict.K]float64{2: 0.25, 1: 0.75}))
	assert.Equal(t, "key,1,2\nprob,0.750000,0.250000\n", buf.String())
}
