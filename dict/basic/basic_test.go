package basic

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

func TestBasicSkipListInterface(t *testing.T) {
	var _ dict.Dictionary = (*BasicSkipList)(nil)
	var _ dict.Analyable = (*BasicSkipList)(nil)
	var _ dict.Leveled = (*BasicSkipList)(nil)
	var _ dict.Validator = (*BasicSkipList)(nil)
	var _ dict.Node = (*basicNode)(nil)
}

func TestBasicSkipListBasic(t *testing.T) {
	sl := NewBasicSkipList(42)
	for _, key := range []dict.K{1, 2, 3} {
		_, err := sl.Insert(key, "v")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, sl.Size())
	assert.True(t, sl.Contains(2))
	assert.Equal(t, "v", sl.Find(3).GetValue())
	assert.Nil(t, sl.Find(4))

	_, err := sl.Insert(2, "again")
	assert.True(t, errors.Is(err, dict.ErrDuplicateKey))

	got, ok := sl.ClosestKeyAfter(1)
	assert.True(t, ok)
	assert.Equal(t, dict.K(2), got)
	_, ok = sl.ClosestKeyAfter(3)
	assert.False(t, ok)
	assert.Nil(t, sl.ClosestNodeAfter(3))

	levels := sl.Levels()
	assert.Equal(t, []dict.K{1, 2, 3}, levels[len(levels)-1])
	assert.NoError(t, sl.Validate())
}

func TestRemoveTrimsLevels(t *testing.T) {
	sl := NewBasicSkipList(1)
	for i := dict.K(0); i < 64; i++ {
		_, err := sl.Insert(i, "")
		require.NoError(t, err)
	}
	require.Greater(t, sl.level, 1)
	for i := dict.K(0); i < 64; i++ {
		_, ok := sl.Remove(i)
		require.True(t, ok)
		require.NoError(t, sl.Validate())
	}
	_, height := sl.GetMaxStats()
	assert.Equal(t, 1, height)
	assert.Equal(t, 0, sl.Size())
}

func TestDestroy(t *testing.T) {
	sl := NewBasicSkipList(2)
	for i := dict.K(0); i < 20; i++ {
		_, err := sl.Insert(i, "")
		require.NoError(t, err)
	}
	sl.Destroy()
	assert.Equal(t, 0, sl.Size())
	assert.False(t, sl.Contains(1))
	assert.NoError(t, sl.Validate())
}

func TestRandomOperations(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	sl := NewBasicSkipList(13)
	ref := map[dict.K]dict.V{}

	for i := 0; i < 4000; i++ {
		key := dict.K(r.Intn(300))
		if r.Intn(3) == 0 {
			removed, ok := sl.Remove(key)
			want, exists := ref[key]
			require.Equal(t, exists, ok)
			if ok {
				require.Equal(t, dict.Entry{Key: key, Value: want}, removed)
			}
			delete(ref, key)
			continue
		}
		_, err := sl.Insert(key, "x")
		if _, dup := ref[key]; dup {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
			ref[key] = "x"
		}
	}
	require.NoError(t, sl.Validate())
	require.Equal(t, len(ref), sl.Size())

	keys := make([]dict.K, 0, len(ref))
	for k := range ref {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for probe := dict.K(-1); probe <= 301; probe++ {
		idx := sort.Search(len(keys), func(i int) bool { return keys[i] > probe })
		got, ok := sl.ClosestKeyAfter(probe)
		if idx == len(keys) {
			assert.False(t, ok)
			continue
		}
		assert.Equal(t, keys[idx], got)
	}
}
