package analyTool

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

type StepMap map[dict.K]int

// AnalyzeStep 根據 map 提供的 key 出現機率計算平均搜尋步數
func AnalyzeStep(d dict.Analyable, keys map[dict.K]float64) (float64, StepMap) {
	if len(keys) == 0 {
		return 0.0, nil
	}

	step := StepMap{}
	var totalExpectedSteps float64
	var totalProbability float64
	for key, prob := range keys {
		if !d.Contains(key) {
			continue
		}
		steps := d.SearchSteps(key)
		step[key] = steps
		totalExpectedSteps += float64(steps) * prob
		totalProbability += prob
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// grid 把每一層展開成以最底層 key 為欄的表格，level 0 是最底層
func grid(sl dict.Leveled, maxLevel, maxNodes int) ([]dict.K, []map[dict.K]bool) {
	levels := sl.Levels()
	if len(levels) == 0 {
		return nil, nil
	}
	bottom := levels[len(levels)-1]
	if len(bottom) > maxNodes {
		bottom = bottom[:maxNodes]
	}
	maxLevel = min(maxLevel, len(levels))

	present := make([]map[dict.K]bool, maxLevel)
	for i := range present {
		present[i] = map[dict.K]bool{}
		for _, k := range levels[len(levels)-1-i] {
			present[i][k] = true
		}
	}
	return bottom, present
}

// PrintSkipList 打印 skip list 的結構
func PrintSkipList(w io.Writer, sl dict.Leveled, maxLevel, maxNodes int) {
	bottom, present := grid(sl, maxLevel, maxNodes)
	if len(bottom) == 0 {
		fmt.Fprintln(w, "Skip list 為空")
		return
	}

	for i := len(present) - 1; i >= 0; i-- {
		line := fmt.Sprintf("level %d : ", i)
		for _, k := range bottom {
			if present[i][k] {
				line += fmt.Sprintf("%3d ->", k)
			} else {
				line += "    ->"
			}
		}
		fmt.Fprintln(w, line)
	}
}

// PrintSkipListToCSV 將 skip list 的結構輸出到 CSV
func PrintSkipListToCSV(sl dict.Leveled, maxLevel, maxNodes int, writer *csv.Writer) error {
	bottom, present := grid(sl, maxLevel, maxNodes)
	for i := len(present) - 1; i >= 0; i-- {
		row := []string{fmt.Sprintf("level %d", i)}
		for _, k := range bottom {
			if present[i][k] {
				row = append(row, fmt.Sprintf("%d", k))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "write skip list row")
		}
	}
	writer.Flush()
	return writer.Error()
}

// CountLevel 回傳每層節點數，index 0 是最底層
func CountLevel(w io.Writer, sl dict.Leveled) []int {
	levels := sl.Levels()
	levelCounts := make([]int, len(levels))
	for i, keys := range levels {
		levelCounts[len(levels)-1-i] = len(keys)
	}

	total := 0
	if len(levelCounts) > 0 {
		total = levelCounts[0]
	}
	fmt.Fprintf(w, "層級節點統計 (總節點數: %d, 最高層級: %d):\n", total, len(levels))
	for i := len(levelCounts) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "Level %2d: %d 個節點\n", i, levelCounts[i])
	}
	return levelCounts
}

func (mp StepMap) sorted() [][2]int {
	out := make([][2]int, 0, len(mp))
	for k, v := range mp {
		out = append(out, [2]int{int(k), v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i][0] < out[j][0]
	})
	return out
}

func (mp StepMap) Print(w io.Writer) {
	out := mp.sorted()
	for _, v := range out {
		fmt.Fprintf(w, "%2d  ", v[0])
	}
	fmt.Fprintln(w)
	for _, v := range out {
		fmt.Fprintf(w, "%2d  ", v[1])
	}
	fmt.Fprintln(w)
}

// PrintToCSV 寫出兩列：key 與對應步數
func (mp StepMap) PrintToCSV(writer *csv.Writer) error {
	out := mp.sorted()
	keys := make([]string, len(out)+1)
	steps := make([]string, len(out)+1)
	keys[0], steps[0] = "key", "steps"
	for i, v := range out {
		keys[i+1] = fmt.Sprintf("%d", v[0])
		steps[i+1] = fmt.Sprintf("%d", v[1])
	}
	if err := writer.WriteAll([][]string{keys, steps}); err != nil {
		return errors.Wrap(err, "write step map")
	}
	return nil
}
