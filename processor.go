// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "code.hybscloud.com/atomix"

// Handler consumes events delivered by a BatchProcessor.
type Handler[T any] interface {
	// OnEvent is called once per published event, in sequence order.
	// endOfBatch is true for the last event of the currently drained
	// batch; handlers that flush downstream can key on it.
	OnEvent(event *T, sequence int64, endOfBatch bool)

	// OnStart is called once on the processor goroutine before the first
	// event.
	OnStart()

	// OnShutdown is called once after the processor leaves its loop.
	OnShutdown()
}

// NoOpHandler discards events. It stands in for a pipeline stage whose only
// job is gating, and anchors throughput tests at the framework floor.
type NoOpHandler[T any] struct{}

func (NoOpHandler[T]) OnEvent(*T, int64, bool) {}

func (NoOpHandler[T]) OnStart() {}

func (NoOpHandler[T]) OnShutdown() {}

// BatchProcessor drives a Handler from a SequenceBarrier: wait for the next
// sequence, clamp through HighestPublished, hand the whole available range
// to the handler, publish its own sequence, repeat. Run in a dedicated
// goroutine; Halt from any other.
type BatchProcessor[T any] struct {
	sequencer *Sequencer[T]
	barrier   *SequenceBarrier
	handler   Handler[T]
	running   atomix.Bool
	sequence  Sequence
}

// NewBatchProcessor returns a processor consuming from sequencer through
// barrier. The processor's Sequence must be registered downstream — as a
// sequencer gating sequence, or as a dependent of the next stage's barrier.
func NewBatchProcessor[T any](sequencer *Sequencer[T], barrier *SequenceBarrier, handler Handler[T]) *BatchProcessor[T] {
	p := &BatchProcessor[T]{
		sequencer: sequencer,
		barrier:   barrier,
		handler:   handler,
	}
	p.sequence.setRelaxed(InitialCursorValue)
	return p
}

// Sequence returns the processor's own progress counter.
func (p *BatchProcessor[T]) Sequence() *Sequence {
	return &p.sequence
}

// Running reports whether the processor loop is active.
func (p *BatchProcessor[T]) Running() bool {
	return p.running.LoadAcquire()
}

// Halt asks the processor to stop at the next clean break. It clears the
// running flag and alerts the barrier so a parked processor wakes.
func (p *BatchProcessor[T]) Halt() {
	p.running.StoreRelease(false)
	p.barrier.SetAlerted(true)
}

// Run executes the consume loop until Halt. It owns the calling goroutine.
func (p *BatchProcessor[T]) Run() {
	p.running.StoreRelease(true)
	p.barrier.SetAlerted(false)
	p.handler.OnStart()
	defer p.handler.OnShutdown()

	next := p.sequence.Get() + 1
	for {
		available := p.barrier.WaitFor(next)
		if available == AlertedSignal {
			if !p.running.LoadAcquire() {
				return
			}
			p.barrier.SetAlerted(false)
			continue
		}
		if available < next {
			continue
		}
		// Under MultiThreadedEx the cursor can run ahead of the
		// contiguously published prefix.
		available = p.sequencer.HighestPublished(next, available)
		if available < next {
			continue
		}
		for seq := next; seq <= available; seq++ {
			p.handler.OnEvent(p.sequencer.Get(seq), seq, seq == available)
		}
		p.sequence.Set(available)
		next = available + 1
	}
}

// NoOpProcessor tracks the sequencer cursor without consuming anything, so
// publisher-only setups still have a sequence to register as a gate.
type NoOpProcessor[T any] struct {
	sequencer *Sequencer[T]
}

// NewNoOpProcessor returns a processor whose Sequence is the sequencer's
// own cursor: publishers gate on themselves and never wrap.
func NewNoOpProcessor[T any](sequencer *Sequencer[T]) *NoOpProcessor[T] {
	return &NoOpProcessor[T]{sequencer: sequencer}
}

// Sequence returns the cursor of the underlying sequencer.
func (p *NoOpProcessor[T]) Sequence() *Sequence {
	return &p.sequencer.cursor
}
