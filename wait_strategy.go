// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// WaitStrategy controls how a consumer parks while the sequence it needs is
// not yet available.
//
// The "available" sequence is the cursor when dependents is empty, otherwise
// the minimum of the dependents. Both forms of WaitFor poll it in a tight
// loop whose back-off differs per strategy.
//
// Return convention: the greatest available sequence >= sequence on success,
// AlertedSignal if the alerted flag was observed true during the call, and
// (timeout form only) TimeoutSignal if the deadline passed first. A timeout
// clears no state; the caller may retry.
type WaitStrategy interface {
	WaitFor(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool) int64

	WaitForTimeout(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool, timeout time.Duration) int64

	// SignalAllWhenBlocking wakes waiters parked on a lock. Publishers
	// invoke it after every publication; it is a no-op for every strategy
	// except Blocking.
	SignalAllWhenBlocking()
}

// availableSequence is the value WaitFor compares against its target.
func availableSequence(cursor *Sequence, dependents []*Sequence) int64 {
	if len(dependents) == 0 {
		return cursor.Get()
	}
	return MinimumSequence(dependents)
}

// BusySpin polls the available sequence in a tight loop with a CPU pause
// hint per iteration. Lowest and most consistent latency; saturates a core.
// Deployments should pin the consumer goroutine's thread to a dedicated CPU.
type BusySpin struct{}

// NewBusySpin returns a BusySpin strategy.
func NewBusySpin() *BusySpin {
	return &BusySpin{}
}

func (*BusySpin) WaitFor(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool) int64 {
	sw := spin.Wait{}
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail := availableSequence(cursor, dependents); avail >= sequence {
			return avail
		}
		sw.Once()
	}
}

func (*BusySpin) WaitForTimeout(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool, timeout time.Duration) int64 {
	deadline := time.Now().Add(timeout)
	sw := spin.Wait{}
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail := availableSequence(cursor, dependents); avail >= sequence {
			return avail
		}
		if !time.Now().Before(deadline) {
			return TimeoutSignal
		}
		sw.Once()
	}
}

func (*BusySpin) SignalAllWhenBlocking() {}

// defaultSpins is the spin budget for the Yielding and Sleeping strategies.
const defaultSpins = 200

// Yielding re-reads the available sequence for a fixed spin budget, then
// yields the processor each iteration thereafter. A good compromise between
// latency and CPU burn when cores are not dedicated.
type Yielding struct {
	spins int
}

// NewYielding returns a Yielding strategy. spins <= 0 selects the default
// budget of 200 iterations.
func NewYielding(spins int) *Yielding {
	if spins <= 0 {
		spins = defaultSpins
	}
	return &Yielding{spins: spins}
}

func (y *Yielding) WaitFor(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool) int64 {
	counter := y.spins
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail := availableSequence(cursor, dependents); avail >= sequence {
			return avail
		}
		if counter > 0 {
			counter--
		} else {
			runtime.Gosched()
		}
	}
}

func (y *Yielding) WaitForTimeout(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool, timeout time.Duration) int64 {
	deadline := time.Now().Add(timeout)
	counter := y.spins
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail := availableSequence(cursor, dependents); avail >= sequence {
			return avail
		}
		if !time.Now().Before(deadline) {
			return TimeoutSignal
		}
		if counter > 0 {
			counter--
		} else {
			runtime.Gosched()
		}
	}
}

func (*Yielding) SignalAllWhenBlocking() {}

// defaultSleep is the per-iteration sleep of the Sleeping strategy once its
// spin and yield budgets are exhausted.
const defaultSleep = time.Millisecond

// Sleeping spins for the first half of its budget, yields for the second
// half, then sleeps per iteration. Latency degrades to the sleep duration
// but CPU cost drops to near zero on an idle stream.
type Sleeping struct {
	spins int
	sleep time.Duration
}

// NewSleeping returns a Sleeping strategy. spins <= 0 selects the default
// budget of 200 iterations; sleep <= 0 selects the default of 1ms.
func NewSleeping(spins int, sleep time.Duration) *Sleeping {
	if spins <= 0 {
		spins = defaultSpins
	}
	if sleep <= 0 {
		sleep = defaultSleep
	}
	return &Sleeping{spins: spins, sleep: sleep}
}

func (s *Sleeping) WaitFor(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool) int64 {
	counter := s.spins
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail := availableSequence(cursor, dependents); avail >= sequence {
			return avail
		}
		counter = s.applyBackoff(counter)
	}
}

func (s *Sleeping) WaitForTimeout(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool, timeout time.Duration) int64 {
	deadline := time.Now().Add(timeout)
	counter := s.spins
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail := availableSequence(cursor, dependents); avail >= sequence {
			return avail
		}
		if !time.Now().Before(deadline) {
			return TimeoutSignal
		}
		counter = s.applyBackoff(counter)
	}
}

func (s *Sleeping) applyBackoff(counter int) int {
	switch {
	case counter > s.spins/2:
		return counter - 1
	case counter > 0:
		runtime.Gosched()
		return counter - 1
	default:
		time.Sleep(s.sleep)
		return 0
	}
}

func (*Sleeping) SignalAllWhenBlocking() {}

// Blocking parks waiters on a condition variable until the cursor reaches
// the target, then spins on the dependents' minimum. Cheapest in CPU, most
// expensive in latency; the only strategy whose SignalAllWhenBlocking is
// not a no-op, so publishers pay a lock acquisition per publication.
type Blocking struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewBlocking returns a Blocking strategy.
func NewBlocking() *Blocking {
	b := &Blocking{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *Blocking) WaitFor(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool) int64 {
	if alerted.LoadAcquire() {
		return AlertedSignal
	}
	avail := cursor.Get()
	if avail < sequence {
		b.mu.Lock()
		for {
			if alerted.LoadAcquire() {
				b.mu.Unlock()
				return AlertedSignal
			}
			if avail = cursor.Get(); avail >= sequence {
				break
			}
			b.cond.Wait()
		}
		b.mu.Unlock()
	}
	return b.waitForDependents(sequence, avail, dependents, alerted)
}

func (b *Blocking) WaitForTimeout(sequence int64, cursor *Sequence, dependents []*Sequence, alerted *atomix.Bool, timeout time.Duration) int64 {
	if alerted.LoadAcquire() {
		return AlertedSignal
	}
	deadline := time.Now().Add(timeout)
	avail := cursor.Get()
	if avail < sequence {
		// The condition variable has no timed wait; a timer broadcast
		// bounds the park so the deadline check below re-runs.
		timer := time.AfterFunc(timeout, b.SignalAllWhenBlocking)
		defer timer.Stop()
		b.mu.Lock()
		for {
			if alerted.LoadAcquire() {
				b.mu.Unlock()
				return AlertedSignal
			}
			if avail = cursor.Get(); avail >= sequence {
				break
			}
			if !time.Now().Before(deadline) {
				b.mu.Unlock()
				return TimeoutSignal
			}
			b.cond.Wait()
		}
		b.mu.Unlock()
	}
	if len(dependents) == 0 {
		return avail
	}
	sw := spin.Wait{}
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail = MinimumSequence(dependents); avail >= sequence {
			return avail
		}
		if !time.Now().Before(deadline) {
			return TimeoutSignal
		}
		sw.Once()
	}
}

// waitForDependents spins on the dependents' minimum once the cursor has
// caught up. Publishers do not signal dependent movement, so parking here
// would never wake.
func (b *Blocking) waitForDependents(sequence, avail int64, dependents []*Sequence, alerted *atomix.Bool) int64 {
	if len(dependents) == 0 {
		return avail
	}
	sw := spin.Wait{}
	for {
		if alerted.LoadAcquire() {
			return AlertedSignal
		}
		if avail = MinimumSequence(dependents); avail >= sequence {
			return avail
		}
		sw.Once()
	}
}

// SignalAllWhenBlocking wakes every parked waiter. The mutex is taken
// around the broadcast: a naked notify can race a waiter that has evaluated
// the predicate but not yet parked, and the wakeup is lost.
func (b *Blocking) SignalAllWhenBlocking() {
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}
