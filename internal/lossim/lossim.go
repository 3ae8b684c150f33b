// Package lossim implements the loss simulator: a seeded PRNG shared by
// every send path of one process (server or client), so replies, monitor
// updates and requests can be dropped deterministically for a given
// (lossRate, seed) pair.
package lossim

import (
	"math/rand"

	"github.com/arvindgk/facilityresv/internal/logger"
)

// Simulator decides, per outbound datagram, whether it should be dropped.
// It is not safe for concurrent use; in each process it is called only
// from the single thread that sends datagrams.
type Simulator struct {
	rng  *rand.Rand
	rate float64
}

// New creates a Simulator with the given drop rate in [0,1] and a
// deterministic seed.
func New(rate float64, seed int64) *Simulator {
	logger.Debug("loss simulator initialized", logger.LossRate(rate))
	return &Simulator{
		rng:  rand.New(rand.NewSource(seed)),
		rate: rate,
	}
}

// ShouldDrop reports whether the next outbound datagram should be dropped,
// consuming one draw from the PRNG.
func (s *Simulator) ShouldDrop() bool {
	if s.rate <= 0 {
		return false
	}
	return s.rng.Float64() < s.rate
}

// Rate returns the configured drop rate, for diagnostics and metrics.
func (s *Simulator) Rate() float64 {
	return s.rate
}
