// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// RingBuffer is fixed pre-allocated storage for 2^k events addressed by
// monotonically increasing sequence numbers. The slot for sequence s is
// s & (size-1); storage is reused every size sequences.
//
// A slot is owned by whichever party currently holds its sequence range:
// the publisher between claim and publish, consumers after publication
// until every gating sequence has moved past it. Slot content for an
// unpublished range is undefined from the consumers' perspective.
type RingBuffer[T any] struct {
	events []T
	mask   int64
}

// NewRingBuffer allocates a buffer of size slots. size must be a positive
// power of two; construction panics otherwise. When init is non-nil it is
// invoked once per slot with the slot index to pre-populate the event.
func NewRingBuffer[T any](size int64, init func(int64) T) *RingBuffer[T] {
	if size <= 0 || size&(size-1) != 0 {
		panic("disruptor: ring buffer size must be a positive power of two")
	}
	rb := &RingBuffer[T]{
		events: make([]T, size),
		mask:   size - 1,
	}
	if init != nil {
		for i := range rb.events {
			rb.events[i] = init(int64(i))
		}
	}
	return rb
}

// NewRingBufferFrom takes ownership of a caller-populated event slice.
// len(events) must be a positive power of two.
func NewRingBufferFrom[T any](events []T) *RingBuffer[T] {
	size := int64(len(events))
	if size <= 0 || size&(size-1) != 0 {
		panic("disruptor: ring buffer size must be a positive power of two")
	}
	return &RingBuffer[T]{
		events: events,
		mask:   size - 1,
	}
}

// At returns the slot for sequence. No bounds check beyond the mask.
func (rb *RingBuffer[T]) At(sequence int64) *T {
	return &rb.events[sequence&rb.mask]
}

// Size returns the slot count.
func (rb *RingBuffer[T]) Size() int64 {
	return rb.mask + 1
}
