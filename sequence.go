// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"math"

	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

// Sentinel sequence values shared by every component in the package.
// They are part of the public contract and never change.
const (
	// InitialCursorValue is the value of every Sequence before the first
	// publication.
	InitialCursorValue int64 = -1

	// FirstSequenceValue is the first sequence a publisher can claim.
	FirstSequenceValue int64 = InitialCursorValue + 1

	// AlertedSignal is returned from WaitFor when the barrier was alerted
	// during the call.
	AlertedSignal int64 = -2

	// TimeoutSignal is returned from WaitFor when the deadline passed
	// before the requested sequence became available.
	TimeoutSignal int64 = -3
)

// Sequence is a monotonic 64-bit counter shared between goroutines.
//
// Each instance occupies its own cache line: the atomic word is padded on
// both sides so that two adjacent Sequences never share a line. Sharing a
// line between independently written counters costs several times the
// uncontended latency under load.
//
// The zero value starts at 0; use NewSequence(InitialCursorValue) for
// counters that participate in the publication protocol.
type Sequence struct {
	_     cpu.CacheLinePad
	value atomix.Int64
	_     cpu.CacheLinePad
}

// NewSequence returns a Sequence initialized to v.
func NewSequence(v int64) *Sequence {
	s := &Sequence{}
	s.value.StoreRelaxed(v)
	return s
}

// setRelaxed initializes the counter before it is shared.
func (s *Sequence) setRelaxed(v int64) {
	s.value.StoreRelaxed(v)
}

// Get returns the current value with acquire semantics: payload writes
// ordered before the matching Set are visible after Get observes it.
func (s *Sequence) Get() int64 {
	return s.value.LoadAcquire()
}

// Set stores v with release semantics.
func (s *Sequence) Set(v int64) {
	s.value.StoreRelease(v)
}

// AddAndGet atomically adds delta and returns the new value.
func (s *Sequence) AddAndGet(delta int64) int64 {
	return s.value.AddAcqRel(delta)
}

// CompareAndSwap atomically replaces expected with v and reports whether
// the exchange took place.
func (s *Sequence) CompareAndSwap(expected, v int64) bool {
	return s.value.CompareAndSwapAcqRel(expected, v)
}

// MinimumSequence returns the minimum value over sequences, or
// math.MaxInt64 when the set is empty.
func MinimumSequence(sequences []*Sequence) int64 {
	minimum := int64(math.MaxInt64)
	for _, s := range sequences {
		if seq := s.Get(); seq < minimum {
			minimum = seq
		}
	}
	return minimum
}
