// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "time"

// ClaimKind selects how publishers reserve sequences.
type ClaimKind int

const (
	// SingleThreadedClaim serves exactly one publisher goroutine with no
	// atomics on the claim path. Undefined behavior with more than one.
	SingleThreadedClaim ClaimKind = iota

	// MultiThreadedClaim serves concurrent publishers with fetch-add
	// claims and publication serialized in claim order.
	MultiThreadedClaim

	// MultiThreadedExClaim serves concurrent publishers with a per-slot
	// availability ring; publishers commit independently and consumers
	// clamp through HighestPublished.
	MultiThreadedExClaim
)

// WaitKind selects how consumers park while waiting.
type WaitKind int

const (
	// BlockingWait parks on a condition variable. Cheapest CPU, highest
	// latency.
	BlockingWait WaitKind = iota

	// SleepingWait spins, yields, then sleeps per iteration.
	SleepingWait

	// YieldingWait spins, then yields the processor per iteration.
	YieldingWait

	// BusySpinWait spins with a CPU pause hint. Lowest latency; pair with
	// CPU pinning.
	BusySpinWait
)

func newClaimStrategy(kind ClaimKind, bufferSize int64) ClaimStrategy {
	switch kind {
	case SingleThreadedClaim:
		return NewSingleThreaded(bufferSize)
	case MultiThreadedClaim:
		return NewMultiThreaded(bufferSize)
	case MultiThreadedExClaim:
		return NewMultiThreadedEx(bufferSize)
	default:
		panic("disruptor: unknown claim kind")
	}
}

func newWaitStrategy(kind WaitKind) WaitStrategy {
	switch kind {
	case BlockingWait:
		return NewBlocking()
	case SleepingWait:
		return NewSleeping(0, 0)
	case YieldingWait:
		return NewYielding(0)
	case BusySpinWait:
		return NewBusySpin()
	default:
		panic("disruptor: unknown wait kind")
	}
}

// Options configures sequencer creation.
type Options struct {
	bufferSize int64
	claim      ClaimKind
	wait       WaitKind
	spins      int
	sleep      time.Duration
}

// Builder creates sequencers with fluent configuration.
//
// Example:
//
//	s := disruptor.Build[Event](disruptor.New(1024).MultiProducerEx().BusySpin())
//
// Defaults: single producer, blocking wait.
type Builder struct {
	opts Options
}

// New creates a sequencer builder for a ring of bufferSize slots.
// bufferSize must be a positive power of two; panics otherwise.
func New(bufferSize int64) *Builder {
	if bufferSize <= 0 || bufferSize&(bufferSize-1) != 0 {
		panic("disruptor: buffer size must be a positive power of two")
	}
	return &Builder{opts: Options{
		bufferSize: bufferSize,
		claim:      SingleThreadedClaim,
		wait:       BlockingWait,
	}}
}

// SingleProducer declares that only one goroutine will claim and publish.
func (b *Builder) SingleProducer() *Builder {
	b.opts.claim = SingleThreadedClaim
	return b
}

// MultiProducer selects the classic multi-publisher strategy: publication
// serialized in claim order, contiguous cursor.
func (b *Builder) MultiProducer() *Builder {
	b.opts.claim = MultiThreadedClaim
	return b
}

// MultiProducerEx selects the availability-ring multi-publisher strategy:
// publishers commit independently, consumers clamp via HighestPublished.
func (b *Builder) MultiProducerEx() *Builder {
	b.opts.claim = MultiThreadedExClaim
	return b
}

// Blocking selects the condition-variable wait strategy.
func (b *Builder) Blocking() *Builder {
	b.opts.wait = BlockingWait
	return b
}

// Sleeping selects the spin-yield-sleep wait strategy. Non-positive
// arguments keep the defaults (200 spins, 1ms sleep).
func (b *Builder) Sleeping(spins int, sleep time.Duration) *Builder {
	b.opts.wait = SleepingWait
	b.opts.spins = spins
	b.opts.sleep = sleep
	return b
}

// Yielding selects the spin-then-yield wait strategy. spins <= 0 keeps the
// default budget of 200.
func (b *Builder) Yielding(spins int) *Builder {
	b.opts.wait = YieldingWait
	b.opts.spins = spins
	return b
}

// BusySpin selects the busy-spin wait strategy.
func (b *Builder) BusySpin() *Builder {
	b.opts.wait = BusySpinWait
	return b
}

// Build creates a Sequencer[T] from the builder's configuration with
// zero-valued slots.
func Build[T any](b *Builder) *Sequencer[T] {
	return BuildWithInit[T](b, nil)
}

// BuildWithInit is Build with a per-slot initializer invoked once per slot.
func BuildWithInit[T any](b *Builder, init func(int64) T) *Sequencer[T] {
	s := &Sequencer[T]{
		ring:  NewRingBuffer[T](b.opts.bufferSize, init),
		claim: newClaimStrategy(b.opts.claim, b.opts.bufferSize),
		wait:  b.buildWait(),
	}
	s.cursor.setRelaxed(InitialCursorValue)
	return s
}

func (b *Builder) buildWait() WaitStrategy {
	switch b.opts.wait {
	case SleepingWait:
		return NewSleeping(b.opts.spins, b.opts.sleep)
	case YieldingWait:
		return NewYielding(b.opts.spins)
	default:
		return newWaitStrategy(b.opts.wait)
	}
}
