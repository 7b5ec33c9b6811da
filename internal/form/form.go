package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"lawdesk/internal/notify"
)

var ErrNoWriter = errors.New("form has no write function")

// ValidationError is returned by Submit when the values do not pass the schema.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// WriteFunc sends validated values to the backend.
type WriteFunc func(ctx context.Context, values map[string]any) error

// Messages are the toast texts shown after a submit.
type Messages struct {
	Success string
	Failure string
}

// Form holds the current input of one form instance. Safe for concurrent use.
type Form struct {
	schema   *Schema
	notifier notify.Notifier
	msgs     Messages

	mu     sync.Mutex
	values map[string]any
	errs   Errors
	rev    uint64 // bumped on every input change
}

// New creates a form initialised to the schema defaults. notifier may be nil.
func New(schema *Schema, notifier notify.Notifier, msgs Messages) *Form {
	return &Form{
		schema:   schema,
		notifier: notifier,
		msgs:     msgs,
		values:   schema.Defaults(),
	}
}

// Set replaces one input value.
func (f *Form) Set(name string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = v
	f.rev++
}

// SetAll replaces every input value present in values.
func (f *Form) SetAll(values map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maps.Copy(f.values, values)
	f.rev++
}

// Values returns a copy of the current input.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.values)
}

// Errors returns the field errors from the last submit.
func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errs)
}

// Reset restores the defaults and clears errors.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Form) resetLocked() {
	f.values = f.schema.Defaults()
	f.errs = nil
	f.rev++
}

// Submit validates the input, merges inject over it and calls write.
// Invalid input returns *ValidationError without calling write. A successful write
// shows the success toast and resets the form unless the input changed while write ran.
// A failed write shows the failure toast, keeps the input and returns the error.
func (f *Form) Submit(ctx context.Context, inject map[string]any, write WriteFunc) error {
	if write == nil {
		return ErrNoWriter
	}

	f.mu.Lock()
	valid, errs := f.schema.Validate(f.values)
	f.errs = errs
	rev := f.rev
	f.mu.Unlock()

	if errs != nil {
		return &ValidationError{Fields: errs}
	}
	maps.Copy(valid, inject)

	if err := write(ctx, valid); err != nil {
		f.toast(notify.LevelError, f.msgs.Failure)
		return fmt.Errorf("submit: %w", err)
	}
	f.toast(notify.LevelSuccess, f.msgs.Success)

	f.mu.Lock()
	if f.rev == rev {
		f.resetLocked()
	}
	f.mu.Unlock()
	return nil
}

func (f *Form) toast(level notify.Level, msg string) {
	if f.notifier == nil || msg == "" {
		return
	}
	switch level {
	case notify.LevelSuccess:
		f.notifier.Success(msg)
	case notify.LevelError:
		f.notifier.Error(msg)
	}
}
