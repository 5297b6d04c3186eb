package datastream

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "DICTBEN1"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   RoundCount
// 重複 RoundCount 次：
//   uint32  Exponent
//   uint64  Target
//   uint32  FillCount
//   int64   Key × FillCount
//   uint64  OpCount
//   重複 OpCount 次：
//     uint8  OperationType (0=Insert,1=Find,2=Closest,3=Remove)
//     int64  Key

var (
	benchMagic   = [8]byte{'D', 'I', 'C', 'T', 'B', 'E', 'N', '1'}
	benchVersion = uint16(1)

	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

// 單一區段筆數上限；內容以 readChunk 筆為單位分批讀入
const (
	maxRecords = 1 << 28
	readChunk  = 4096
)

type fileHeader struct {
	Magic    [8]byte
	Version  uint16
	Reserved uint16
	Rounds   uint32
}

type roundHeader struct {
	Exponent  uint32
	Target    uint64
	FillCount uint32
}

type opRecord struct {
	Type uint8
	Key  int64
}

// EncodeWorkload 將 workload 以二進位格式寫入 w
func EncodeWorkload(w io.Writer, wl *Workload) error {
	bw := bufio.NewWriter(w)
	hdr := fileHeader{Magic: benchMagic, Version: benchVersion, Rounds: uint32(len(wl.Rounds))}
	if err := binary.Write(bw, binary.LittleEndian, &hdr); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i := range wl.Rounds {
		r := &wl.Rounds[i]
		rh := roundHeader{Exponent: uint32(r.Exponent), Target: r.Target, FillCount: uint32(len(r.Fill))}
		if err := binary.Write(bw, binary.LittleEndian, &rh); err != nil {
			return errors.Wrapf(err, "write round %d header", i)
		}
		if err := binary.Write(bw, binary.LittleEndian, r.Fill); err != nil {
			return errors.Wrapf(err, "write round %d fill", i)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint64(len(r.Ops))); err != nil {
			return errors.Wrapf(err, "write round %d op count", i)
		}
		recs := make([]opRecord, len(r.Ops))
		for j, op := range r.Ops {
			recs[j] = opRecord{Type: uint8(op.Type), Key: op.Key}
		}
		if err := binary.Write(bw, binary.LittleEndian, recs); err != nil {
			return errors.Wrapf(err, "write round %d ops", i)
		}
	}
	return errors.Wrap(bw.Flush(), "flush workload")
}

// DecodeWorkload 讀取 EncodeWorkload 寫出的內容
func DecodeWorkload(r io.Reader) (*Workload, error) {
	br := bufio.NewReader(r)
	var hdr fileHeader
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	if hdr.Magic != benchMagic {
		return nil, errors.Wrapf(ErrInvalidMagic, "%q", hdr.Magic[:])
	}
	if hdr.Version != benchVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%d", hdr.Version)
	}

	wl := &Workload{Rounds: make([]Round, 0, min(int(hdr.Rounds), 64))}
	for i := uint32(0); i < hdr.Rounds; i++ {
		var rh roundHeader
		if err := binary.Read(br, binary.LittleEndian, &rh); err != nil {
			return nil, errors.Wrapf(err, "read round %d header", i)
		}
		if rh.FillCount > maxRecords {
			return nil, errors.Errorf("round %d: fill count %d too large", i, rh.FillCount)
		}
		round := Round{Exponent: int(rh.Exponent), Target: rh.Target}
		fill, err := readFill(br, int(rh.FillCount))
		if err != nil {
			return nil, errors.Wrapf(err, "read round %d fill", i)
		}
		round.Fill = fill

		var opCount uint64
		if err := binary.Read(br, binary.LittleEndian, &opCount); err != nil {
			return nil, errors.Wrapf(err, "read round %d op count", i)
		}
		if opCount > maxRecords {
			return nil, errors.Errorf("round %d: op count %d too large", i, opCount)
		}
		ops, err := readOps(br, int(opCount))
		if err != nil {
			return nil, errors.Wrapf(err, "read round %d ops", i)
		}
		round.Ops = ops
		wl.Rounds = append(wl.Rounds, round)
	}
	return wl, nil
}

// readFill 分批讀取，記憶體只隨實際讀到的資料成長
func readFill(r io.Reader, n int) ([]dict.K, error) {
	if n == 0 {
		return nil, nil
	}
	var fill []dict.K
	chunk := make([]dict.K, min(n, readChunk))
	for n > 0 {
		c := min(n, readChunk)
		if err := binary.Read(r, binary.LittleEndian, chunk[:c]); err != nil {
			return nil, err
		}
		fill = append(fill, chunk[:c]...)
		n -= c
	}
	return fill, nil
}

func readOps(r io.Reader, n int) ([]Operation, error) {
	ops := make([]Operation, 0, min(n, readChunk))
	chunk := make([]opRecord, min(n, readChunk))
	for n > 0 {
		c := min(n, readChunk)
		if err := binary.Read(r, binary.LittleEndian, chunk[:c]); err != nil {
			return nil, err
		}
		for _, rec := range chunk[:c] {
			t := OperationType(rec.Type)
			if !t.valid() {
				return nil, errors.Errorf("op %d: unknown operation type %d", len(ops), rec.Type)
			}
			ops = append(ops, Operation{Type: t, Key: rec.Key})
		}
		n -= c
	}
	return ops, nil
}

// WriteWorkloadFile 寫出 workload 檔案
func WriteWorkloadFile(fs afero.Fs, filename string, wl *Workload) error {
	file, err := fs.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	if err := EncodeWorkload(file, wl); err != nil {
		file.Close()
		return errors.Wrapf(err, "encode %s", filename)
	}
	return errors.Wrapf(file.Close(), "close %s", filename)
}

// ReadWorkloadFile 讀取 workload 檔案
func ReadWorkloadFile(fs afero.Fs, filename string) (*Workload, error) {
	file, err := fs.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	wl, err := DecodeWorkload(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", filename)
	}
	return wl, nil
}

// EntropyFromDist 計算分布的熵（單位：bit）。
// dist 的 value 應為已正規化的機率；會自動忽略 <= 0 的值。
func EntropyFromDist(dist map[dict.K]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// DistributeToCSV 寫出兩列：key 與機率，依 key 升冪
func DistributeToCSV(writer *csv.Writer, dist map[dict.K]float64) error {
	sortedKeys := make([]dict.K, 0, len(dist))
	for k := range dist {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Slice(sortedKeys, func(i, j int) bool {
		return sortedKeys[i] < sortedKeys[j]
	})

	keys := make([]string, 0, len(dist)+1)
	probs := make([]string, 0, len(dist)+1)
	keys = append(keys, "key")
	probs = append(probs, "prob")
	for _, k := range sortedKeys {
		keys = append(keys, fmt.Sprintf("%d", k))
		probs = append(probs, fmt.Sprintf("%f", dist[k]))
	}
	if err := writer.WriteAll([][]string{keys, probs}); err != nil {
		return errors.Wrap(err, "write distribution")
	}
	return nil
}
