// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "golang.org/x/sys/cpu"

// Sequencer coordinates publishers and consumers over a pre-allocated ring
// buffer. It composes the ring storage, the cursor, a claim strategy, a
// wait strategy, and the set of gating sequences (the consumers at the
// outer edge of the dependency graph, whose progress bounds publishers).
//
// Lifecycle: construct, register gating sequences once via
// SetGatingSequences, then publish and consume freely. The gating set is
// read-only after registration; tear down only after every publisher and
// consumer has stopped.
type Sequencer[T any] struct {
	ring   *RingBuffer[T]
	claim  ClaimStrategy
	wait   WaitStrategy
	gating []*Sequence
	_      cpu.CacheLinePad
	cursor Sequence
}

// NewSequencer constructs a sequencer over a fresh ring buffer of
// bufferSize slots (a positive power of two; panics otherwise). init may be
// nil, leaving slots zero-valued, or is invoked once per slot.
func NewSequencer[T any](bufferSize int64, claim ClaimKind, wait WaitKind, init func(int64) T) *Sequencer[T] {
	s := &Sequencer[T]{
		ring:  NewRingBuffer[T](bufferSize, init),
		claim: newClaimStrategy(claim, bufferSize),
		wait:  newWaitStrategy(wait),
	}
	s.cursor.setRelaxed(InitialCursorValue)
	return s
}

// SetGatingSequences registers the downstream consumer sequences that gate
// publishers against wrapping the ring. It replaces the previous set and
// must be called before the first claim.
func (s *Sequencer[T]) SetGatingSequences(gating ...*Sequence) {
	s.gating = gating
}

// NewBarrier returns a barrier gated on the cursor and the given upstream
// dependents. An empty dependent list gates purely on the cursor
// (first-stage consumers).
func (s *Sequencer[T]) NewBarrier(dependents ...*Sequence) *SequenceBarrier {
	return newSequenceBarrier(s.wait, &s.cursor, dependents)
}

// Cursor returns the cursor value: the highest published sequence under the
// single-threaded and classic multi-threaded claim strategies, the highest
// claimed sequence under MultiThreadedEx.
func (s *Sequencer[T]) Cursor() int64 {
	return s.cursor.Get()
}

// BufferSize returns the capacity of the ring.
func (s *Sequencer[T]) BufferSize() int64 {
	return s.ring.Size()
}

// HasAvailableCapacity reports whether one more sequence can be claimed
// without waiting. Concurrent callers must treat the answer as a hint.
func (s *Sequencer[T]) HasAvailableCapacity() bool {
	return s.claim.HasAvailableCapacity(s.gating, s.cursor.Get(), 1)
}

// Claim reserves delta contiguous sequences and returns the highest; the
// claimed range is [result-delta+1, result]. Blocks while publishing delta
// slots would overwrite events the gating consumers have not read.
//
// Panics if delta is outside [1, BufferSize] or no gating sequences have
// been registered; both are configuration errors, not runtime conditions.
func (s *Sequencer[T]) Claim(delta int64) int64 {
	s.checkClaim(delta)
	return s.claim.IncrementAndGet(&s.cursor, s.gating, delta)
}

// Next is shorthand for Claim(1).
func (s *Sequencer[T]) Next() int64 {
	return s.Claim(1)
}

// TryClaim is Claim without the wait: it returns ErrWouldBlock when the
// wrap point is ahead of the gating minimum. The capacity check and the
// claim are not atomic under concurrent publishers, so a successful
// TryClaim may still wait briefly under contention.
func (s *Sequencer[T]) TryClaim(delta int64) (int64, error) {
	s.checkClaim(delta)
	if !s.claim.HasAvailableCapacity(s.gating, s.cursor.Get(), delta) {
		return InitialCursorValue, ErrWouldBlock
	}
	return s.claim.IncrementAndGet(&s.cursor, s.gating, delta), nil
}

func (s *Sequencer[T]) checkClaim(delta int64) {
	if delta < 1 || delta > s.ring.Size() {
		panic("disruptor: claim delta must be within [1, buffer size]")
	}
	if len(s.gating) == 0 {
		panic("disruptor: gating sequences must be registered before claiming")
	}
}

// Publish makes the claimed range [sequence-delta+1, sequence] visible to
// consumers. The payload stores must all precede this call; the claim
// strategy's synchronize step orders them before the cursor advance or the
// availability stamps, and waiters parked in the Blocking strategy are
// signaled afterwards.
func (s *Sequencer[T]) Publish(sequence int64, delta int64) {
	s.claim.SynchronizePublishing(sequence, &s.cursor, delta)
	s.wait.SignalAllWhenBlocking()
}

// ForcePublish stores the cursor directly and signals waiters, bypassing
// claim bookkeeping. Single-producer setups only.
func (s *Sequencer[T]) ForcePublish(sequence int64) {
	s.cursor.Set(sequence)
	s.wait.SignalAllWhenBlocking()
}

// Get returns the slot for sequence. The caller must own the sequence per
// the claim/publish protocol; no lock is taken.
func (s *Sequencer[T]) Get(sequence int64) *T {
	return s.ring.At(sequence)
}

// HighestPublished clamps available to the greatest contiguously published
// sequence in [lower, available]. Identity under the single-threaded and
// classic multi-threaded strategies; under MultiThreadedEx consumers must
// route every WaitFor result through it before touching slots.
func (s *Sequencer[T]) HighestPublished(lower, available int64) int64 {
	if available < lower {
		return available
	}
	return s.claim.HighestPublished(lower, available)
}

// NewBatchDescriptor returns a descriptor whose size is clamped to the
// buffer capacity.
func (s *Sequencer[T]) NewBatchDescriptor(size int64) *BatchDescriptor {
	return NewBatchDescriptor(min(size, s.ring.Size()))
}

// ClaimBatch claims the descriptor's range, fills in its end sequence, and
// returns the descriptor.
func (s *Sequencer[T]) ClaimBatch(d *BatchDescriptor) *BatchDescriptor {
	d.end = s.Claim(d.size)
	return d
}

// PublishBatch publishes the descriptor's whole range.
func (s *Sequencer[T]) PublishBatch(d *BatchDescriptor) {
	s.Publish(d.end, d.size)
}
