// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package debounce collapses bursts of calls into one trailing call.
//
// A Debouncer delays its function until no new call has arrived for the
// configured delay, then invokes it once with the most recent argument.
// Earlier arguments in the burst are discarded.
//
//	d := debounce.New(500*time.Millisecond, func(q string) { search(q) })
//	d.Call("r")
//	d.Call("re")
//	d.Call("rea") // only "rea" is searched, 500ms after this call
package debounce

import (
	"sync"
	"time"
)

// Timer is a cancellable pending invocation.
type Timer interface {
	// Stop prevents the timer from firing. It reports false when the timer
	// already fired or was stopped.
	Stop() bool
}

// Clock schedules functions. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the runtime timer source.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// Debouncer is a trailing-edge, last-call-wins filter around fn.
// It is safe for concurrent use. At most one invocation is pending at a time.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)
	clock Clock

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	arg     T
	pending bool

	running sync.WaitGroup
}

// New returns a Debouncer that calls fn delay after the last Call.
func New[T any](delay time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: realClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
		clock: o.clock,
	}
}

// Call cancels any pending invocation and schedules a new one with arg.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.arg = arg
	d.pending = true

	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Stop drops the pending invocation, if any, without running it.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
}

// Flush runs the pending invocation now instead of waiting for the delay.
// It reports whether anything was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	arg := d.arg
	d.cancelLocked()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(arg)
	return true
}

// Wait blocks until every invocation that has started has returned. It does
// not wait for a pending one; pair it with Flush or Stop.
func (d *Debouncer[T]) Wait() {
	d.running.Wait()
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// fire runs fn for the timer armed at generation gen. A timer that lost the
// race against Stop or a newer Call sees a different generation and does nothing.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	arg := d.arg
	d.cancelLocked()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(arg)
}

// cancelLocked invalidates the current timer. d.mu must be held.
func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.arg = zero
	d.pending = false
	d.gen++
}
