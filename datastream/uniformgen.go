package datastream

import "math/rand"

// UniformDataGenerator 產生符合平均分布的查詢序列，每個索引出現機率皆相同
type UniformDataGenerator struct {
	sampler
}

func NewUniformDataGenerator(n int, seed int64) *UniformDataGenerator {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return &UniformDataGenerator{
		sampler: newSampler(weights, rand.New(rand.NewSource(seed))),
	}
}
