package flows

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/plantdetector/internal/client/client"
	"github.com/dmitrijs2005/plantdetector/internal/client/forms"
	"github.com/dmitrijs2005/plantdetector/internal/logging"
)

type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrSubmitInProgress = errors.New("submission already in progress")

// Notifier shows the outcome of a submission to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// SubmitFunc performs the network side of a flow.
type SubmitFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

// Flow is a single form submission state machine:
//
//	Idle -> Validating -> Submitting -> Succeeded | Failed
//
// Validation failures go back to Idle without a network call. Succeeded and
// Failed accept a new submission. Entered values survive a failure so the
// user can correct one field without retyping the others.
type Flow[In, Out any] struct {
	name     string
	submit   SubmitFunc[In, Out]
	validate func(any) error
	okMsg    string
	failMsg  string
	notifier Notifier
	log      logging.Logger

	mu          sync.Mutex
	state       State
	values      In
	fieldErrors map[string]string
	result      Out
	err         error
}

// Options holds the collaborators shared by every flow.
type Options struct {
	Notifier Notifier
	Logger   logging.Logger
}

func newFlow[In, Out any](name string, submit SubmitFunc[In, Out], okMsg, failMsg string, opts Options) *Flow[In, Out] {
	f := &Flow[In, Out]{
		name:     name,
		submit:   submit,
		validate: forms.Validate,
		okMsg:    okMsg,
		failMsg:  failMsg,
		notifier: opts.Notifier,
		log:      opts.Logger,
	}
	if f.notifier == nil {
		f.notifier = discardNotifier{}
	}
	if f.log == nil {
		f.log = logging.Discard()
	}
	return f
}

// Submit validates in and, when it passes, hands it to the service. It
// returns ErrSubmitInProgress without side effects while another submission
// of the same flow is pending.
func (f *Flow[In, Out]) Submit(ctx context.Context, in In) (Out, error) {
	var zero Out

	f.mu.Lock()
	if f.state == Validating || f.state == Submitting {
		f.mu.Unlock()
		return zero, ErrSubmitInProgress
	}
	f.state = Validating
	f.values = in
	f.fieldErrors = nil
	f.err = nil
	f.result = zero

	if err := f.validate(in); err != nil {
		var ve *forms.ValidationError
		if errors.As(err, &ve) {
			f.fieldErrors = ve.Fields
		}
		f.state = Idle
		f.err = err
		f.mu.Unlock()
		return zero, err
	}
	f.state = Submitting
	f.mu.Unlock()

	out, err := f.submit(ctx, in)

	f.mu.Lock()
	f.err = err
	if err != nil {
		f.state = Failed
	} else {
		f.state = Succeeded
		f.result = out
	}
	f.mu.Unlock()

	if err != nil {
		f.log.Warn(ctx, "submission failed", "flow", f.name, "error", err)
		f.notifier.Error(f.failMsg + ": " + client.Message(err))
		return zero, err
	}
	f.log.Debug(ctx, "submission succeeded", "flow", f.name)
	f.notifier.Success(f.okMsg)
	return out, nil
}

func (f *Flow[In, Out]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns the values of the last submission.
func (f *Flow[In, Out]) Values() In {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// FieldErrors returns the per-field messages of the last validation, keyed
// by form field name. It is empty when validation passed.
func (f *Flow[In, Out]) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Result returns the output of the last successful submission.
func (f *Flow[In, Out]) Result() Out {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *Flow[In, Out]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Error(string)   {}
