package board

import (
	"errors"
	"testing"
)

type countingObserver struct {
	calls int
	last  Grid
}

func (o *countingObserver) Update(g Grid) error {
	o.calls++
	o.last = g
	return nil
}

func TestObserver_FanOut(t *testing.T) {
	b := newTestBoard(t, 3)

	observers := make([]*countingObserver, 4)
	for i := range observers {
		observers[i] = &countingObserver{}
		b.RegisterObserver(observers[i])
	}

	if err := b.ColorCell(2, 0, 'Z'); err != nil {
		t.Fatalf("ColorCell() error = %v", err)
	}

	for i, o := range observers {
		if o.calls != 1 {
			t.Errorf("observer %d calls = %d, want 1", i, o.calls)
		}
		if got := o.last.At(2, 0); got != 'Z' {
			t.Errorf("observer %d saw %q at (2,0), want 'Z'", i, got)
		}
	}
}

func TestObserver_NotifiedOnEveryMutation(t *testing.T) {
	b := newTestBoard(t, 2)
	o := &countingObserver{}
	b.RegisterObserver(o)

	_ = b.ColorCell(0, 0, 'a')
	_ = b.EraseCell(0, 0)
	_ = b.Undo()

	if o.calls != 3 {
		t.Errorf("calls = %d, want 3", o.calls)
	}
	if got := o.last.At(0, 0); got != 'a' {
		t.Errorf("last snapshot (0,0) = %q, want 'a'", got)
	}
}

func TestObserver_RegistrationOrder(t *testing.T) {
	b := newTestBoard(t, 2)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		b.RegisterObserver(ObserverFunc(func(Grid) error {
			order = append(order, i)
			return nil
		}))
	}

	_ = b.ColorCell(0, 0, 'o')

	for i, got := range order {
		if got != i {
			t.Fatalf("notification order = %v, want 0..4", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("notified %d observers, want 5", len(order))
	}
}

func TestObserver_RegisteredTwice(t *testing.T) {
	b := newTestBoard(t, 2)
	o := &countingObserver{}
	b.RegisterObserver(o)
	b.RegisterObserver(o)

	_ = b.ColorCell(1, 1, 'd')

	if o.calls != 2 {
		t.Errorf("calls = %d, want 2", o.calls)
	}

	if !b.RemoveObserver(o) {
		t.Fatal("RemoveObserver() = false, want true")
	}
	_ = b.ColorCell(1, 1, 'e')

	if o.calls != 3 {
		t.Errorf("calls after removing one registration = %d, want 3", o.calls)
	}
}

func TestObserver_Remove(t *testing.T) {
	b := newTestBoard(t, 2)
	kept := &countingObserver{}
	removed := &countingObserver{}
	b.RegisterObserver(kept)
	b.RegisterObserver(removed)

	_ = b.ColorCell(0, 0, 'a')

	if !b.RemoveObserver(removed) {
		t.Fatal("RemoveObserver() = false, want true")
	}

	_ = b.ColorCell(0, 1, 'b')
	_ = b.Undo()

	if removed.calls != 1 {
		t.Errorf("removed observer calls = %d, want 1", removed.calls)
	}
	if kept.calls != 3 {
		t.Errorf("kept observer calls = %d, want 3", kept.calls)
	}
	if b.ObserverCount() != 1 {
		t.Errorf("ObserverCount() = %d, want 1", b.ObserverCount())
	}
}

func TestObserver_RemoveAbsentIsNoop(t *testing.T) {
	b := newTestBoard(t, 2)
	o := &countingObserver{}
	b.RegisterObserver(o)

	if b.RemoveObserver(&countingObserver{}) {
		t.Error("RemoveObserver(absent) = true, want false")
	}
	if b.RemoveObserver(nil) {
		t.Error("RemoveObserver(nil) = true, want false")
	}
	if b.ObserverCount() != 1 {
		t.Errorf("ObserverCount() = %d, want 1", b.ObserverCount())
	}
}

func TestObserver_FuncCannotBeComparedButCanUnsubscribe(t *testing.T) {
	b := newTestBoard(t, 2)

	var calls int
	fn := ObserverFunc(func(Grid) error {
		calls++
		return nil
	})
	sub := b.RegisterObserver(fn)

	if b.RemoveObserver(fn) {
		t.Error("RemoveObserver(ObserverFunc) = true, want false")
	}
	if sub.IsZero() || sub.ID() == "" {
		t.Fatal("RegisterObserver returned a zero subscription")
	}
	if !b.Unsubscribe(sub) {
		t.Fatal("Unsubscribe() = false, want true")
	}
	if b.Unsubscribe(sub) {
		t.Error("second Unsubscribe() = true, want false")
	}

	_ = b.ColorCell(0, 0, 'q')
	if calls != 0 {
		t.Errorf("calls = %d after unsubscribe, want 0", calls)
	}
}

func TestObserver_FailureIsolation(t *testing.T) {
	errBoom := errors.New("boom")

	var failures []*ObserverError
	b := newTestBoard(t, 2, WithFailureHandler(func(err *ObserverError) {
		failures = append(failures, err)
	}))

	first := &countingObserver{}
	last := &countingObserver{}
	b.RegisterObserver(first)
	failing := b.RegisterObserver(ObserverFunc(func(Grid) error { return errBoom }))
	panicking := b.RegisterObserver(ObserverFunc(func(Grid) error { panic("kaboom") }))
	b.RegisterObserver(last)

	if err := b.ColorCell(1, 0, 'p'); err != nil {
		t.Fatalf("ColorCell() error = %v, observer failures must not propagate", err)
	}

	if first.calls != 1 || last.calls != 1 {
		t.Errorf("healthy observers calls = %d, %d; want 1, 1", first.calls, last.calls)
	}
	if got := b.Grid().At(1, 0); got != 'p' {
		t.Errorf("grid[1][0] = %q, want 'p'", got)
	}
	if b.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", b.UndoCount())
	}

	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	if failures[0].Subscription != failing || !errors.Is(failures[0], errBoom) || failures[0].Panicked {
		t.Errorf("failure[0] = %v, want wrapped boom from %s", failures[0], failing)
	}
	if failures[1].Subscription != panicking || !failures[1].Panicked || failures[1].PanicValue != "kaboom" {
		t.Errorf("failure[1] = %v, want recovered panic from %s", failures[1], panicking)
	}
	if len(failures[1].Stack) == 0 {
		t.Error("panic failure has no stack")
	}
}

func TestObserver_PanickingFailureHandler(t *testing.T) {
	b := newTestBoard(t, 2, WithFailureHandler(func(*ObserverError) {
		panic("handler")
	}))

	after := &countingObserver{}
	b.RegisterObserver(ObserverFunc(func(Grid) error { return errors.New("fail") }))
	b.RegisterObserver(after)

	if err := b.ColorCell(0, 0, 'h'); err != nil {
		t.Fatalf("ColorCell() error = %v", err)
	}
	if after.calls != 1 {
		t.Errorf("observer after failing handler calls = %d, want 1", after.calls)
	}
}
