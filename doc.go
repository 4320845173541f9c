// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package disruptor provides a high-throughput inter-goroutine event
// exchange over a pre-allocated ring buffer whose slots are addressed by
// monotonically increasing 64-bit sequence numbers.
//
// Events flow from one or more publishers to one or more consumers with no
// allocation on the hot path, no locks in the common case, and coordination
// reduced to publishing and observing sequence counters. Consumers can be
// arranged in a dependency graph (pipelines, diamonds) purely by wiring
// their sequences into downstream barriers.
//
// # Quick Start
//
// Builder API (single publisher, one consumer):
//
//	s := disruptor.Build[Event](disruptor.New(1024).SingleProducer().Yielding(0))
//
//	consumer := disruptor.NewSequence(disruptor.InitialCursorValue)
//	s.SetGatingSequences(consumer)
//	barrier := s.NewBarrier()
//
//	// Publisher
//	seq := s.Next()
//	s.Get(seq).Value = 42
//	s.Publish(seq, 1)
//
//	// Consumer
//	next := consumer.Get() + 1
//	avail := barrier.WaitFor(next)
//	for i := next; i <= avail; i++ {
//	    handle(s.Get(i))
//	}
//	consumer.Set(avail)
//
// Or run the loop through a processor:
//
//	p := disruptor.NewBatchProcessor(s, s.NewBarrier(), handler)
//	s.SetGatingSequences(p.Sequence())
//	go p.Run()
//	...
//	p.Halt()
//
// # Publication Protocol
//
// A publisher claims a range, writes the payloads, then publishes:
//
//	hi := s.Claim(delta)                    // blocks while the ring is full
//	for i := hi - delta + 1; i <= hi; i++ {
//	    *s.Get(i) = produce(i)
//	}
//	s.Publish(hi, delta)
//
// Claim parks until the slowest gating consumer is within bufferSize slots,
// so a published slot is never overwritten before every gating consumer has
// read it. Publish performs the release ordering that makes the payload
// stores visible to any consumer that subsequently observes the sequence.
//
// A consumer loop is the mirror image:
//
//	next := seq.Get() + 1
//	avail := barrier.WaitFor(next)
//	if avail < 0 {
//	    // AlertedSignal or TimeoutSignal
//	}
//	avail = s.HighestPublished(next, avail) // required for MultiProducerEx
//	if avail >= next {
//	    process(next, avail)
//	    seq.Set(avail)
//	}
//
// # Claim Strategies
//
//	SingleThreadedClaim   one publisher, plain counters, cheapest
//	MultiThreadedClaim    fetch-add claims, publication serialized in claim
//	                      order; the cursor always trails a contiguous prefix
//	MultiThreadedExClaim  CAS claims plus per-slot availability flags;
//	                      publishers commit independently, consumers clamp
//	                      through HighestPublished
//
// # Wait Strategies
//
//	BlockingWait   condition variable; cheapest CPU, highest latency
//	SleepingWait   spin, yield, then sleep 1ms per iteration
//	YieldingWait   spin 200 iterations, then yield per iteration
//	BusySpinWait   pause-hint spin; lowest latency, saturates a core
//
// Only BlockingWait requires publishers to signal; the other strategies
// implement SignalAllWhenBlocking as a no-op.
//
// # Sentinels
//
// WaitFor encodes every non-success condition as a negative sentinel rather
// than an error value:
//
//	InitialCursorValue = -1   every sequence before first publication
//	FirstSequenceValue =  0   first claimable sequence
//	AlertedSignal      = -2   the barrier was alerted (cooperative cancel)
//	TimeoutSignal      = -3   the deadline passed (caller may retry)
//
// There is nothing to allocate or unwrap on the hot path.
//
// # Memory Ordering
//
// Sequences are read with acquire and published with release semantics via
// [code.hybscloud.com/atomix]. A consumer that observes the cursor (or an
// availability flag) at s is guaranteed to see every slot write the
// publisher performed before the matching release. Each Sequence is padded
// to its own cache line on both sides; two independently written counters
// never share a line.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but cannot
// observe happens-before relationships established through atomic
// orderings on separate variables, which is exactly how this package
// protects slot payloads. Concurrent tests are therefore excluded via
// //go:build !race; the algorithms are correct under the Go memory model.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions in spin loops, [code.hybscloud.com/iox] for semantic errors
// and claim-side backoff, and [golang.org/x/sys/cpu] for cache-line sized
// padding.
package disruptor
