// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"math/bits"
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
	"golang.org/x/sys/cpu"
)

// ClaimStrategy allocates sequence ranges to publishers, prevents the ring
// from wrapping over unread slots, and orders publication against the
// cursor.
//
// The wrap point of a claim ending at s is s - bufferSize: the claim is safe
// only once every gating sequence has reached it.
type ClaimStrategy interface {
	// IncrementAndGet reserves delta contiguous sequences and returns the
	// highest. Blocks while the wrap point is ahead of the gating minimum.
	IncrementAndGet(cursor *Sequence, gating []*Sequence, delta int64) int64

	// HasAvailableCapacity reports whether required slots can be claimed
	// without waiting. Concurrent callers must treat the answer as a hint.
	HasAvailableCapacity(gating []*Sequence, cursorValue, required int64) bool

	// SynchronizePublishing is the ordering step between the publisher's
	// payload stores and their visibility to consumers. sequence is the
	// highest sequence of the published range, delta its length.
	SynchronizePublishing(sequence int64, cursor *Sequence, delta int64)

	// HighestPublished returns the greatest sequence in [lower, available]
	// such that every sequence up to it has been published, or lower-1
	// when lower itself has not. Identity for the strategies that publish
	// contiguously.
	HighestPublished(lower, available int64) int64
}

// SingleThreaded is the claim strategy for exactly one publisher goroutine.
// Both counters are plain: only the owner touches them. The gating minimum
// is cached so the common claim path reads no foreign cache line at all.
type SingleThreaded struct {
	bufferSize int64
	_          cpu.CacheLinePad
	claimed    int64
	_          cpu.CacheLinePad
	gateCache  int64
	_          cpu.CacheLinePad
}

// NewSingleThreaded returns a single-publisher claim strategy for a buffer
// of bufferSize slots.
func NewSingleThreaded(bufferSize int64) *SingleThreaded {
	return &SingleThreaded{
		bufferSize: bufferSize,
		claimed:    InitialCursorValue,
		gateCache:  InitialCursorValue,
	}
}

func (c *SingleThreaded) IncrementAndGet(cursor *Sequence, gating []*Sequence, delta int64) int64 {
	c.claimed += delta
	next := c.claimed
	wrapPoint := next - c.bufferSize
	if c.gateCache < wrapPoint {
		minimum := MinimumSequence(gating)
		for minimum < wrapPoint {
			runtime.Gosched()
			minimum = MinimumSequence(gating)
		}
		c.gateCache = minimum
	}
	return next
}

func (c *SingleThreaded) HasAvailableCapacity(gating []*Sequence, cursorValue, required int64) bool {
	wrapPoint := c.claimed + required - c.bufferSize
	if c.gateCache < wrapPoint {
		minimum := MinimumSequence(gating)
		c.gateCache = minimum
		if minimum < wrapPoint {
			return false
		}
	}
	return true
}

func (c *SingleThreaded) SynchronizePublishing(sequence int64, cursor *Sequence, delta int64) {
	cursor.Set(sequence)
}

func (c *SingleThreaded) HighestPublished(lower, available int64) int64 {
	return available
}

// MultiThreaded is the classic multi-publisher claim strategy: claims are
// handed out by fetch-add and publication is serialized in claim order, so
// the cursor always trails a contiguously published prefix. A publisher
// that claimed a higher sequence cannot advance the cursor until every
// lower claim has published; one stalled publisher stalls all behind it.
type MultiThreaded struct {
	bufferSize int64
	_          cpu.CacheLinePad
	claimed    atomix.Int64
	_          cpu.CacheLinePad
	gateCache  atomix.Int64
	_          cpu.CacheLinePad
}

// NewMultiThreaded returns the serialized multi-publisher claim strategy
// for a buffer of bufferSize slots.
func NewMultiThreaded(bufferSize int64) *MultiThreaded {
	c := &MultiThreaded{bufferSize: bufferSize}
	c.claimed.StoreRelaxed(InitialCursorValue)
	c.gateCache.StoreRelaxed(InitialCursorValue)
	return c
}

func (c *MultiThreaded) IncrementAndGet(cursor *Sequence, gating []*Sequence, delta int64) int64 {
	next := c.claimed.AddAcqRel(delta)
	wrapPoint := next - c.bufferSize
	if c.gateCache.LoadAcquire() < wrapPoint {
		backoff := iox.Backoff{}
		minimum := MinimumSequence(gating)
		for minimum < wrapPoint {
			backoff.Wait()
			minimum = MinimumSequence(gating)
		}
		c.gateCache.StoreRelease(minimum)
	}
	return next
}

func (c *MultiThreaded) HasAvailableCapacity(gating []*Sequence, cursorValue, required int64) bool {
	wrapPoint := c.claimed.LoadAcquire() + required - c.bufferSize
	if c.gateCache.LoadAcquire() < wrapPoint {
		minimum := MinimumSequence(gating)
		c.gateCache.StoreRelease(minimum)
		if minimum < wrapPoint {
			return false
		}
	}
	return true
}

// SynchronizePublishing spins until every lower claim has published, then
// advances the cursor over the whole range.
func (c *MultiThreaded) SynchronizePublishing(sequence int64, cursor *Sequence, delta int64) {
	expected := sequence - delta
	sw := spin.Wait{}
	for cursor.Get() != expected {
		sw.Once()
	}
	cursor.Set(sequence)
}

func (c *MultiThreaded) HighestPublished(lower, available int64) int64 {
	return available
}

// MultiThreadedEx is the availability-ring multi-publisher strategy. Claims
// CAS-advance the cursor itself and publishers commit independently by
// stamping a per-slot generation flag (sequence >> log2(bufferSize)), so a
// slow publisher never blocks the others. The price moves to the consumer:
// the cursor may run ahead of the contiguously published prefix, and every
// WaitFor result must be clamped through HighestPublished.
type MultiThreadedEx struct {
	bufferSize int64
	mask       int64
	shift      uint
	_          cpu.CacheLinePad
	gateCache  atomix.Int64
	_          cpu.CacheLinePad
	available  []atomix.Int32
}

// NewMultiThreadedEx returns the availability-ring claim strategy for a
// buffer of bufferSize slots.
func NewMultiThreadedEx(bufferSize int64) *MultiThreadedEx {
	c := &MultiThreadedEx{
		bufferSize: bufferSize,
		mask:       bufferSize - 1,
		shift:      uint(bits.TrailingZeros64(uint64(bufferSize))),
		available:  make([]atomix.Int32, bufferSize),
	}
	c.gateCache.StoreRelaxed(InitialCursorValue)
	for i := range c.available {
		c.available[i].StoreRelaxed(-1)
	}
	return c
}

func (c *MultiThreadedEx) IncrementAndGet(cursor *Sequence, gating []*Sequence, delta int64) int64 {
	backoff := iox.Backoff{}
	sw := spin.Wait{}
	for {
		current := cursor.Get()
		next := current + delta
		wrapPoint := next - c.bufferSize
		cached := c.gateCache.LoadAcquire()
		if wrapPoint > cached || cached > current {
			// The cached observation is stale in one direction or the
			// other; refresh both sides and re-derive before retrying.
			minimum := MinimumSequence(gating)
			c.gateCache.StoreRelease(minimum)
			if wrapPoint > minimum {
				backoff.Wait()
				continue
			}
		}
		if cursor.CompareAndSwap(current, next) {
			return next
		}
		sw.Once()
	}
}

func (c *MultiThreadedEx) HasAvailableCapacity(gating []*Sequence, cursorValue, required int64) bool {
	wrapPoint := cursorValue + required - c.bufferSize
	cached := c.gateCache.LoadAcquire()
	if wrapPoint > cached || cached > cursorValue {
		minimum := MinimumSequence(gating)
		c.gateCache.StoreRelease(minimum)
		if wrapPoint > minimum {
			return false
		}
	}
	return true
}

// SynchronizePublishing stamps the generation flag of every slot in the
// published range. No waiting: publishers commit in any order.
func (c *MultiThreadedEx) SynchronizePublishing(sequence int64, cursor *Sequence, delta int64) {
	for s := sequence - delta + 1; s <= sequence; s++ {
		c.available[s&c.mask].StoreRelease(int32(s >> c.shift))
	}
}

// HighestPublished walks forward from lower and stops at the first slot
// whose generation flag does not match its sequence.
func (c *MultiThreadedEx) HighestPublished(lower, available int64) int64 {
	for s := lower; s <= available; s++ {
		if c.available[s&c.mask].LoadAcquire() != int32(s>>c.shift) {
			return s - 1
		}
	}
	return available
}
