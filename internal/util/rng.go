package util

import "math/rand"

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// RunSeed derives the seed of the i-th run of a batch. Runs get independent
// streams regardless of which worker executes them.
func RunSeed(base int64, run int) int64 {
	// splitmix64 finaliser over base+run
	z := uint64(base) + uint64(run)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z >> 1)
}
