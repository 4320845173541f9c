// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"time"

	"code.hybscloud.com/atomix"
)

// SequenceBarrier is the consumer-facing gate over the sequencer cursor and
// an optional set of upstream dependent sequences. A consumer built over a
// non-empty dependent set never observes a sequence its upstream stages
// have not finished with.
//
// Barriers sharing a sequencer share its wait strategy, so a publisher's
// SignalAllWhenBlocking reaches every parked consumer.
type SequenceBarrier struct {
	wait       WaitStrategy
	cursor     *Sequence
	dependents []*Sequence
	alerted    atomix.Bool
}

func newSequenceBarrier(wait WaitStrategy, cursor *Sequence, dependents []*Sequence) *SequenceBarrier {
	return &SequenceBarrier{
		wait:       wait,
		cursor:     cursor,
		dependents: dependents,
	}
}

// WaitFor blocks per the wait strategy until sequence is available and
// returns the greatest available sequence, or AlertedSignal if the barrier
// was alerted during the call.
func (b *SequenceBarrier) WaitFor(sequence int64) int64 {
	return b.wait.WaitFor(sequence, b.cursor, b.dependents, &b.alerted)
}

// WaitForTimeout is WaitFor with a deadline, returning TimeoutSignal when
// it passes first. A timeout clears nothing; the caller may retry.
func (b *SequenceBarrier) WaitForTimeout(sequence int64, timeout time.Duration) int64 {
	return b.wait.WaitForTimeout(sequence, b.cursor, b.dependents, &b.alerted, timeout)
}

// Cursor returns the current value of the sequencer cursor.
func (b *SequenceBarrier) Cursor() int64 {
	return b.cursor.Get()
}

// Alerted reports whether the barrier is in the alerted state.
func (b *SequenceBarrier) Alerted() bool {
	return b.alerted.LoadAcquire()
}

// SetAlerted sets or clears the alert flag. Setting it wakes waiters parked
// in the Blocking strategy; they return AlertedSignal.
func (b *SequenceBarrier) SetAlerted(alert bool) {
	b.alerted.StoreRelease(alert)
	if alert {
		b.wait.SignalAllWhenBlocking()
	}
}
