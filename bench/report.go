package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Hakuto4838/OrderedDict.git/datastream"
)

const numOps = int(datastream.OpRemove) + 1

// RoundStats aggregates one round of one engine. Size is the entry count
// after the untimed fill, Height the structure height after the round.
type RoundStats struct {
	Exponent int
	Size     int
	Height   int
	Count    [numOps]int
	Total    [numOps]time.Duration
}

func (s *RoundStats) add(t datastream.OperationType, d time.Duration) {
	s.Count[t]++
	s.Total[t] += d
}

func (s RoundStats) average(runs int) RoundStats {
	s.Size /= runs
	s.Height /= runs
	return s
}

// AvgNs is the mean cost of one operation of type t, 0 when none ran.
func (s RoundStats) AvgNs(t datastream.OperationType) int64 {
	if s.Count[t] == 0 {
		return 0
	}
	return s.Total[t].Nanoseconds() / int64(s.Count[t])
}

// SizeLabel 與原始報表相同，以 2^m 表示大小；沒有目標大小的回合用實際大小
func (s RoundStats) SizeLabel() string {
	if s.Exponent > 0 {
		return strconv.FormatUint(uint64(1)<<s.Exponent, 10)
	}
	return strconv.Itoa(s.Size)
}

func (s RoundStats) LogLabel() string {
	if s.Exponent > 0 {
		return strconv.Itoa(s.Exponent)
	}
	return "-"
}

type ImplReport struct {
	Name   string
	Rounds []RoundStats
}

type Report struct {
	Impls []ImplReport
}

var reportRows = []struct {
	label string
	op    datastream.OperationType
}{
	{"Insert(ns)", datastream.OpInsert},
	{"Find(ns)", datastream.OpFind},
	{"Closest(ns)", datastream.OpClosestAfter},
	{"Remove(ns)", datastream.OpRemove},
}

// RenderReport prints one table per engine: a column per round, a row per
// operation type.
func RenderReport(w io.Writer, rep *Report) {
	for _, impl := range rep.Impls {
		fmt.Fprintf(w, "%s performance\n", Title(impl.Name))

		header := []string{"size"}
		logRow := []string{"log(size)"}
		heightRow := []string{"height"}
		for _, s := range impl.Rounds {
			header = append(header, s.SizeLabel())
			logRow = append(logRow, s.LogLabel())
			heightRow = append(heightRow, strconv.Itoa(s.Height))
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader(header)
		table.SetAutoFormatHeaders(false)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		table.SetAutoWrapText(false)
		table.Append(logRow)
		for _, row := range reportRows {
			cells := []string{row.label}
			for _, s := range impl.Rounds {
				cells = append(cells, strconv.FormatInt(s.AvgNs(row.op), 10))
			}
			table.Append(cells)
		}
		table.Append(heightRow)
		table.Render()
		fmt.Fprintln(w)
	}
}
