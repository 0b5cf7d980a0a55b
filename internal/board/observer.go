package board

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"github.com/google/uuid"
)

// Observer is notified after every committed mutation of a Board.
type Observer interface {
	// Update receives a snapshot reflecting the mutation.
	// It must not call back into the Board that notifies it.
	Update(grid Grid) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(grid Grid) error

// Update calls f(grid).
func (f ObserverFunc) Update(grid Grid) error {
	return f(grid)
}

// Subscription is the registration token returned by RegisterObserver.
type Subscription struct {
	id string
}

// ID returns the unique token of the subscription.
func (s Subscription) ID() string {
	return s.id
}

// IsZero returns true for the zero Subscription.
func (s Subscription) IsZero() bool {
	return s.id == ""
}

func (s Subscription) String() string {
	if s.id == "" {
		return "<none>"
	}
	return s.id
}

// FailureHandler receives observer failures. It is called synchronously
// while the board is locked.
type FailureHandler func(err *ObserverError)

// registration binds a token to an observer.
type registration struct {
	sub      Subscription
	observer Observer
}

// registry keeps observers in registration order.
// It is not safe for concurrent use; Board guards it.
type registry struct {
	entries []registration
}

func (r *registry) add(o Observer) Subscription {
	sub := Subscription{id: uuid.NewString()}
	r.entries = append(r.entries, registration{sub: sub, observer: o})
	return sub
}

// removeObserver drops the first registration holding o.
func (r *registry) removeObserver(o Observer) bool {
	for i, e := range r.entries {
		if sameObserver(e.observer, o) {
			r.removeAt(i)
			return true
		}
	}
	return false
}

func (r *registry) removeSubscription(sub Subscription) bool {
	if sub.IsZero() {
		return false
	}
	for i, e := range r.entries {
		if e.sub == sub {
			r.removeAt(i)
			return true
		}
	}
	return false
}

func (r *registry) removeAt(i int) {
	copy(r.entries[i:], r.entries[i+1:])
	r.entries[len(r.entries)-1] = registration{}
	r.entries = r.entries[:len(r.entries)-1]
}

func (r *registry) len() int {
	return len(r.entries)
}

// notify calls every observer in order. Failures go to onFailure and never
// stop the fan-out.
func (r *registry) notify(grid Grid, onFailure FailureHandler) {
	// Observers get the same snapshot; it is immutable.
	entries := make([]registration, len(r.entries))
	copy(entries, r.entries)

	for _, e := range entries {
		if err := deliver(e, grid); err != nil && onFailure != nil {
			func() {
				defer func() { _ = recover() }()
				onFailure(err)
			}()
		}
	}
}

// deliver runs a single observer with panic recovery.
func deliver(e registration, grid Grid) (failure *ObserverError) {
	defer func() {
		if v := recover(); v != nil {
			failure = &ObserverError{
				Subscription: e.sub,
				Err:          fmt.Errorf("panic: %v", v),
				Panicked:     true,
				PanicValue:   v,
				Stack:        debug.Stack(),
			}
		}
	}()

	if err := e.observer.Update(grid); err != nil {
		return &ObserverError{Subscription: e.sub, Err: err}
	}
	return nil
}

// sameObserver compares observers by identity without panicking on
// incomparable dynamic types such as ObserverFunc.
func sameObserver(a, b Observer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
