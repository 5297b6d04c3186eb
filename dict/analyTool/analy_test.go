package analyTool

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedDict.git/dict"
	"github.com/Hakuto4838/OrderedDict.git/dict/avl"
	"github.com/Hakuto4838/OrderedDict.git/dict/skip"
)

// towerOf3 只讓第一次插入（key 3）升一層
func towerOf3(t *testing.T) *skip.SkipList {
	flips := []bool{true, false}
	sl := skip.New(skip.WithCoin(func() bool {
		if len(flips) == 0 {
			return false
		}
		f := flips[0]
		flips = flips[1:]
		return f
	}))
	for _, key := range []dict.K{3, 1, 2} {
		_, err := sl.Insert(key, "")
		require.NoError(t, err)
	}
	return sl
}

func TestPrintSkipList(t *testing.T) {
	var buf bytes.Buffer
	PrintSkipList(&buf, towerOf3(t), 5, 10)
	assert.Equal(t,
		"level 1 :     ->    ->  3 ->\n"+
			"level 0 :   1 ->  2 ->  3 ->\n",
		buf.String())

	buf.Reset()
	PrintSkipList(&buf, skip.New(), 5, 10)
	assert.Equal(t, "Skip list 為空\n", buf.String())
}

func TestPrintSkipListToCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSkipListToCSV(towerOf3(t), 5, 2, csv.NewWriter(&buf)))
	assert.Equal(t, "level 1,,\nlevel 0,1,2\n", buf.String())
}

func TestCountLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, []int{3, 1}, CountLevel(&buf, towerOf3(t)))
	assert.Contains(t, buf.String(), "總節點數: 3")
}

func TestAnalyzeStep(t *testing.T) {
	tree := avl.New()
	for _, key := range []dict.K{2, 1, 3} {
		_, err := tree.Insert(key, "")
		require.NoError(t, err)
	}

	avg, steps := AnalyzeStep(tree, map[dict.K]float64{1: 1, 2: 1, 3: 1, 9: 5})
	assert.InDelta(t, 5.0/3.0, avg, 1e-9)
	assert.Equal(t, StepMap{1: 2, 2: 1, 3: 2}, steps)

	avg, steps = AnalyzeStep(tree, nil)
	assert.Zero(t, avg)
	assert.Nil(t, steps)

	var buf bytes.Buffer
	StepMap{1: 2, 2: 1, 3: 2}.Print(&buf)
	assert.Equal(t, " 1   2   3  \n 2   1   2  \n", buf.String())

	buf.Reset()
	w := csv.NewWriter(&buf)
	require.NoError(t, StepMap{3: 2, 1: 2}.PrintToCSV(w))
	assert.Equal(t, "key,1,3\nsteps,2,2\n", buf.String())
}
