package webhook

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/logging"
)

type OutcomeStatus int

const (
	OutcomeCompleted OutcomeStatus = iota
	OutcomeIgnored
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeCompleted:
		return "completed"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is what a handler execution produced. Terminal marks failures that
// no redelivery can fix (e.g. a payload missing its key field); everything
// else failed is transient and eligible for a stale-ledger retry.
type Outcome struct {
	Status   OutcomeStatus
	Err      error
	Terminal bool
}

func Completed() Outcome { return Outcome{Status: OutcomeCompleted} }

func Ignored() Outcome { return Outcome{Status: OutcomeIgnored} }

func Failed(err error) Outcome { return Outcome{Status: OutcomeFailed, Err: err} }

func FailedTerminal(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err, Terminal: true}
}

// Handler performs the bounded state transition for one event kind.
// Handlers return outcomes; they never panic or error across this boundary.
type Handler interface {
	Handle(ctx context.Context, event Event) Outcome
}

type HandlerFunc func(ctx context.Context, event Event) Outcome

func (f HandlerFunc) Handle(ctx context.Context, event Event) Outcome {
	return f(ctx, event)
}

// Dispatcher routes decoded events to the handler registered for their kind.
type Dispatcher struct {
	handlers map[Kind]Handler
	timeout  time.Duration
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind]Handler),
		timeout:  timeout,
	}
}

// Register binds a handler to a kind. Double registration is a wiring bug.
func (d *Dispatcher) Register(kind Kind, h Handler) error {
	if _, exists := d.handlers[kind]; exists {
		return fmt.Errorf("Register: handler already registered for %q", kind)
	}
	d.handlers[kind] = h
	return nil
}

// Dispatch invokes the handler for event.Kind. Events with no registered
// handler, including unrecognized ones, are ignored so the sender does not
// redeliver them. The handler runs on a context detached from the inbound
// request: once an event is reserved its state transition must not be
// abandoned because the sender hung up, only the timeout bounds it.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) Outcome {
	h, ok := d.handlers[event.Kind]
	if !ok {
		return Ignored()
	}

	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	return d.invoke(hctx, h, event)
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, event Event) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("webhook handler panicked",
				"event_id", event.ID,
				"kind", event.Kind,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = Failed(fmt.Errorf("handler panic: %v", r))
		}
	}()
	return h.Handle(ctx, event)
}
