// Package testutil provides test doubles shared across packages.
package testutil

import (
	"errors"
	"sync"

	"github.com/frudas24/pinchpoint/internal/inject"
)

// Call records a single injected action.
type Call struct {
	Name string
	X    int
	Y    int
}

// FakeInjector implements inject.Injector and records calls for tests.
// Set Fail to make the named operation return an error.
type FakeInjector struct {
	mu     sync.Mutex
	Calls  []Call
	Fail   map[string]error
	Closed bool
}

// ErrClosed is returned by every call made after Close.
var ErrClosed = errors.New("fake injector closed")

// Ensure FakeInjector implements the interface.
var _ inject.Injector = (*FakeInjector)(nil)

// MoveAbs records an absolute move.
func (f *FakeInjector) MoveAbs(x, y int) error {
	return f.record(Call{Name: "MoveAbs", X: x, Y: y})
}

// LeftDown records a left mouse down.
func (f *FakeInjector) LeftDown() error {
	return f.record(Call{Name: "LeftDown"})
}

// LeftUp records a left mouse up.
func (f *FakeInjector) LeftUp() error {
	return f.record(Call{Name: "LeftUp"})
}

// Close marks the injector closed.
func (f *FakeInjector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return f.Fail["Close"]
}

// SetFail configures (or clears, with nil) a failure for an operation.
func (f *FakeInjector) SetFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail == nil {
		f.Fail = make(map[string]error)
	}
	if err == nil {
		delete(f.Fail, name)
		return
	}
	f.Fail[name] = err
}

// Snapshot returns a copy of the recorded calls.
func (f *FakeInjector) Snapshot() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.Calls))
	copy(out, f.Calls)
	return out
}

// Names returns the recorded call names in order.
func (f *FakeInjector) Names() []string {
	calls := f.Snapshot()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Name
	}
	return out
}

// Reset clears recorded calls.
func (f *FakeInjector) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// record appends a call unless the fake is closed or a failure is configured for it.
func (f *FakeInjector) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Closed {
		return ErrClosed
	}
	if err := f.Fail[c.Name]; err != nil {
		return err
	}
	f.Calls = append(f.Calls, c)
	return nil
}
