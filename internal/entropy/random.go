// Package entropy provides the explicit random sources handed to map
// generation and colour selection. The planner itself never draws random
// numbers.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
)

// NewSource returns a seeded generator and the seed it used. A zero seed
// draws a fresh one from crypto/rand so the run can be reproduced later.
func NewSource(seed int64) (*mrand.Rand, int64) {
	if seed == 0 {
		seed = CryptoSeed()
		slog.Debug("random seed drawn", "seed", seed)
	}
	return mrand.New(mrand.NewSource(seed)), seed
}

// CryptoSeed returns a positive seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		return 1
	}
	n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if n == 0 {
		return 1
	}
	return n
}
