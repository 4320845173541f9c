// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/disruptor"
)

// =============================================================================
// Construction and cursor
// =============================================================================

func TestSequencerStartsAtInitialCursorValue(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)
	if got := s.Cursor(); got != disruptor.InitialCursorValue {
		t.Fatalf("Cursor: got %d, want %d", got, disruptor.InitialCursorValue)
	}
	if got := s.BufferSize(); got != 8 {
		t.Fatalf("BufferSize: got %d, want 8", got)
	}
}

func TestSequencerClaimPublishFirstSequence(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	seq := s.Next()
	if seq != disruptor.FirstSequenceValue {
		t.Fatalf("Next: got %d, want %d", seq, disruptor.FirstSequenceValue)
	}
	if got := s.Cursor(); got != disruptor.InitialCursorValue {
		t.Fatalf("Cursor before publish: got %d, want %d", got, disruptor.InitialCursorValue)
	}

	s.Publish(seq, 1)
	if got := s.Cursor(); got != seq {
		t.Fatalf("Cursor after publish: got %d, want %d", got, seq)
	}
}

func TestSequencerConstructionPanics(t *testing.T) {
	mustPanic(t, "NewSequencer size 0", func() {
		disruptor.NewSequencer[int64](0, disruptor.SingleThreadedClaim, disruptor.BlockingWait, nil)
	})
	mustPanic(t, "NewSequencer size 12", func() {
		disruptor.NewSequencer[int64](12, disruptor.SingleThreadedClaim, disruptor.BlockingWait, nil)
	})
	mustPanic(t, "New builder size 3", func() {
		disruptor.New(3)
	})
}

func TestSequencerClaimValidation(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	mustPanic(t, "Claim(0)", func() { s.Claim(0) })
	mustPanic(t, "Claim(-1)", func() { s.Claim(-1) })
	mustPanic(t, "Claim(size+1)", func() { s.Claim(9) })

	ungated := disruptor.NewSequencer[int64](8, disruptor.SingleThreadedClaim, disruptor.SleepingWait, nil)
	mustPanic(t, "Claim without gating", func() { ungated.Next() })
}

// =============================================================================
// Capacity
// =============================================================================

func TestSequencerCapacityIndication(t *testing.T) {
	s, gate := newGatedSequencer(disruptor.SleepingWait)

	if !s.HasAvailableCapacity() {
		t.Fatal("HasAvailableCapacity on empty buffer: got false, want true")
	}

	for i := int64(0); i < s.BufferSize(); i++ {
		s.Publish(s.Next(), 1)
	}
	if s.HasAvailableCapacity() {
		t.Fatal("HasAvailableCapacity on full buffer: got true, want false")
	}

	gate.Set(0)
	if !s.HasAvailableCapacity() {
		t.Fatal("HasAvailableCapacity after consumer advance: got false, want true")
	}
}

func TestSequencerTryClaim(t *testing.T) {
	s, gate := newGatedSequencer(disruptor.SleepingWait)

	seq, err := s.TryClaim(1)
	if err != nil {
		t.Fatalf("TryClaim on empty buffer: %v", err)
	}
	if seq != disruptor.FirstSequenceValue {
		t.Fatalf("TryClaim: got %d, want %d", seq, disruptor.FirstSequenceValue)
	}
	s.Publish(seq, 1)

	for i := int64(1); i < s.BufferSize(); i++ {
		s.Publish(s.Next(), 1)
	}

	_, err = s.TryClaim(1)
	if !errors.Is(err, disruptor.ErrWouldBlock) {
		t.Fatalf("TryClaim on full buffer: got %v, want ErrWouldBlock", err)
	}
	if !disruptor.IsWouldBlock(err) {
		t.Fatal("IsWouldBlock: got false, want true")
	}
	if !disruptor.IsSemantic(err) {
		t.Fatal("IsSemantic: got false, want true")
	}
	if !disruptor.IsNonFailure(err) {
		t.Fatal("IsNonFailure: got false, want true")
	}

	gate.Set(0)
	seq, err = s.TryClaim(1)
	if err != nil {
		t.Fatalf("TryClaim after consumer advance: %v", err)
	}
	if seq != 8 {
		t.Fatalf("TryClaim after consumer advance: got %d, want 8", seq)
	}
}

// =============================================================================
// Batches
// =============================================================================

func TestSequencerBatchClaimPublish(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	d := s.NewBatchDescriptor(3)
	if got := d.Size(); got != 3 {
		t.Fatalf("Size: got %d, want 3", got)
	}

	s.ClaimBatch(d)
	if got := d.End(); got != disruptor.InitialCursorValue+3 {
		t.Fatalf("End after claim: got %d, want %d", got, disruptor.InitialCursorValue+3)
	}
	if got := d.Start(); got != disruptor.FirstSequenceValue {
		t.Fatalf("Start after claim: got %d, want %d", got, disruptor.FirstSequenceValue)
	}
	if got := s.Cursor(); got != disruptor.InitialCursorValue {
		t.Fatalf("Cursor before batch publish: got %d, want %d", got, disruptor.InitialCursorValue)
	}

	s.PublishBatch(d)
	if got := s.Cursor(); got != d.End() {
		t.Fatalf("Cursor after batch publish: got %d, want %d", got, d.End())
	}
}

func TestSequencerBatchDescriptorClamped(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	d := s.NewBatchDescriptor(100)
	if got := d.Size(); got != s.BufferSize() {
		t.Fatalf("Size: got %d, want %d", got, s.BufferSize())
	}
}

// =============================================================================
// ForcePublish, slots, HighestPublished
// =============================================================================

func TestSequencerForcePublish(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	s.ForcePublish(3)
	if got := s.Cursor(); got != 3 {
		t.Fatalf("Cursor after ForcePublish: got %d, want 3", got)
	}
}

func TestSequencerSlotAccess(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	seq := s.Next()
	*s.Get(seq) = 99
	s.Publish(seq, 1)
	if got := *s.Get(seq); got != 99 {
		t.Fatalf("Get(%d): got %d, want 99", seq, got)
	}
	// Same physical slot one lap later.
	if got := *s.Get(seq + s.BufferSize()); got != 99 {
		t.Fatalf("Get(%d): got %d, want 99", seq+s.BufferSize(), got)
	}
}

func TestSequencerHighestPublishedClassicIdentity(t *testing.T) {
	s, _ := newGatedSequencer(disruptor.SleepingWait)

	if got := s.HighestPublished(0, 5); got != 5 {
		t.Fatalf("HighestPublished(0, 5): got %d, want 5", got)
	}
	if got := s.HighestPublished(3, 2); got != 2 {
		t.Fatalf("HighestPublished(3, 2): got %d, want 2", got)
	}
}

// TestSequencerExCursorRunsAhead: under MultiThreadedExClaim the cursor
// reflects claims, not publications; HighestPublished is the consumer's
// source of truth.
func TestSequencerExCursorRunsAhead(t *testing.T) {
	s := disruptor.NewSequencer[int64](8, disruptor.MultiThreadedExClaim, disruptor.SleepingWait, nil)
	gate := disruptor.NewSequence(disruptor.InitialCursorValue)
	s.SetGatingSequences(gate)

	seq := s.Next()
	if got := s.Cursor(); got != seq {
		t.Fatalf("Cursor after Ex claim: got %d, want %d", got, seq)
	}
	if got := s.HighestPublished(seq, seq); got != seq-1 {
		t.Fatalf("HighestPublished before publish: got %d, want %d", got, seq-1)
	}

	s.Publish(seq, 1)
	if got := s.HighestPublished(seq, seq); got != seq {
		t.Fatalf("HighestPublished after publish: got %d, want %d", got, seq)
	}
}

// =============================================================================
// Builder
// =============================================================================

func TestBuilderDefaults(t *testing.T) {
	s := disruptor.Build[int64](disruptor.New(16))
	gate := disruptor.NewSequence(disruptor.InitialCursorValue)
	s.SetGatingSequences(gate)

	if got := s.BufferSize(); got != 16 {
		t.Fatalf("BufferSize: got %d, want 16", got)
	}
	seq := s.Next()
	s.Publish(seq, 1)
	if got := s.Cursor(); got != seq {
		t.Fatalf("Cursor: got %d, want %d", got, seq)
	}
}

func TestBuilderConfigurations(t *testing.T) {
	builders := []*disruptor.Builder{
		disruptor.New(8).SingleProducer().BusySpin(),
		disruptor.New(8).MultiProducer().Yielding(10),
		disruptor.New(8).MultiProducerEx().Sleeping(10, 0),
		disruptor.New(8).SingleProducer().Blocking(),
	}
	for i, b := range builders {
		s := disruptor.Build[int64](b)
		gate := disruptor.NewSequence(disruptor.InitialCursorValue)
		s.SetGatingSequences(gate)
		barrier := s.NewBarrier()

		seq := s.Next()
		*s.Get(seq) = int64(i)
		s.Publish(seq, 1)

		avail := barrier.WaitFor(seq)
		if avail < seq {
			t.Fatalf("builder %d: WaitFor: got %d, want >= %d", i, avail, seq)
		}
		if got := s.HighestPublished(seq, avail); got != seq {
			t.Fatalf("builder %d: HighestPublished: got %d, want %d", i, got, seq)
		}
		if got := *s.Get(seq); got != int64(i) {
			t.Fatalf("builder %d: slot: got %d, want %d", i, got, i)
		}
	}
}

func TestBuildWithInit(t *testing.T) {
	s := disruptor.BuildWithInit[int64](disruptor.New(4), func(i int64) int64 { return i + 100 })
	gate := disruptor.NewSequence(disruptor.InitialCursorValue)
	s.SetGatingSequences(gate)

	for i := int64(0); i < 4; i++ {
		if got := *s.Get(i); got != i+100 {
			t.Fatalf("Get(%d): got %d, want %d", i, got, i+100)
		}
	}
}
