package random

import (
	"crypto/rand"
	"math/big"
)

// Intn returns a uniform value in [0, n) from crypto/rand. It returns 0 when
// n <= 0 or the system source fails.
func Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Shuffle permutes n elements in place through swap (Fisher-Yates).
func Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, Intn(i+1))
	}
}
