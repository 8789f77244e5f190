package universe

import (
	"math/rand/v2"
	"time"
)

//RNG is the default Rand, a thin wrapper around a seeded PCG generator
type RNG struct {
	r *rand.Rand
}

//NewRNG creates a deterministic RNG, seed 0 picks a time based seed
func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

//Bool returns an unbiased random boolean
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

//IntN returns a random int in [0, n)
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

//Float64 returns a random float in [0, 1)
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}
