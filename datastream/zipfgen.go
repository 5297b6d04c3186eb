package datastream

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// sampler 依機率權重抽出 index 0..n-1
type sampler struct {
	weights []float64
	cdf     []float64
	rng     *rand.Rand
}

func newSampler(weights []float64, rng *rand.Rand) sampler {
	cdf := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		cdf[i] = sum
	}
	return sampler{weights: weights, cdf: cdf, rng: rng}
}

// Next 產生一筆查詢 (回傳索引 0~n-1)
func (s *sampler) Next() int {
	r := s.rng.Float64()
	i := sort.SearchFloat64s(s.cdf, r)
	return min(i, len(s.cdf)-1)
}

// GenerateSequence 產生指定長度的查詢序列
func (s *sampler) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := range seq {
		seq[i] = s.Next()
	}
	return seq
}

func (s *sampler) Close() error {
	return nil
}

func (s *sampler) GetKeyMap() map[dict.K]float64 {
	result := make(map[dict.K]float64, len(s.weights))
	for i, w := range s.weights {
		result[dict.K(i)] = w
	}
	return result
}

// GetCDF 回傳新的 slice，避免汙染內部狀態
func (s *sampler) GetCDF() []float64 {
	cdf := make([]float64, len(s.cdf))
	copy(cdf, s.cdf)
	return cdf
}

func (s *sampler) GetPDF() []float64 {
	pdf := make([]float64, len(s.weights))
	copy(pdf, s.weights)
	return pdf
}

func (s *sampler) Entropy() float64 {
	h := 0.0
	for _, p := range s.weights {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// ZipfDataGenerator 產生符合 Zipf 分布的查詢序列，權重 1/(i+b)^a 打亂後對應到 index
type ZipfDataGenerator struct {
	sampler
	a, b float64
}

func NewZipfDataGenerator(n int, a, b float64, seed int64) *ZipfDataGenerator {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	// 正規化
	for i := range weights {
		weights[i] /= sum
	}
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})
	return &ZipfDataGenerator{
		sampler: newSampler(weights, rng),
		a:       a,
		b:       b,
	}
}
