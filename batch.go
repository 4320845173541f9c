// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// BatchDescriptor describes a claimed range of sequences. Size is fixed at
// construction; End is filled in by Sequencer.ClaimBatch.
type BatchDescriptor struct {
	size int64
	end  int64
}

// NewBatchDescriptor returns a descriptor for a batch of size sequences.
// Sequencer.NewBatchDescriptor clamps size to the buffer capacity; prefer
// it when the buffer size is not known at the call site.
func NewBatchDescriptor(size int64) *BatchDescriptor {
	return &BatchDescriptor{
		size: size,
		end:  InitialCursorValue,
	}
}

// Size returns the number of sequences in the batch.
func (d *BatchDescriptor) Size() int64 {
	return d.size
}

// End returns the highest sequence of the claimed range, or
// InitialCursorValue before the batch has been claimed.
func (d *BatchDescriptor) End() int64 {
	return d.end
}

// Start returns the lowest sequence of the claimed range.
func (d *BatchDescriptor) Start() int64 {
	return d.end - d.size + 1
}
