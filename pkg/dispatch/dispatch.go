// Package dispatch applies rules to new windows.
//
// A [Dispatcher] receives window creation events from a [wm.Client], finds
// the first matching rule and applies it: the rule's label, if any, through
// a [label.Resolver], then each of its actions in order. Delivery is best
// effort. A failure is logged and recorded in the [Result], and the
// remaining steps still run.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/i3-event-handler/pkg/label"
	"github.com/macropower/i3-event-handler/pkg/log"
	"github.com/macropower/i3-event-handler/pkg/rule"
	"github.com/macropower/i3-event-handler/pkg/wm"
)

// ErrSubscriptionClosed is returned by [Dispatcher.Run] when the event
// subscription ends without an error.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Result describes how an event was handled.
type Result struct {
	// Rule is the matching rule, or nil.
	Rule *rule.Rule
	// EventID identifies the event in logs.
	EventID string
	// Sent lists the actions that were sent, in order.
	Sent []string
	// Errors lists every failure, in order.
	Errors []error
	// RuleIndex is the index of the matching rule, or -1.
	RuleIndex int
	// Label is the outcome of applying the rule's label.
	Label label.Outcome
}

// Matched reports whether a rule matched the window.
func (r Result) Matched() bool {
	return r.Rule != nil
}

// DispatcherOpt configures a [Dispatcher].
type DispatcherOpt func(*Dispatcher)

// WithTracerProvider sets the provider of the tracer used for event spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) DispatcherOpt {
	return func(d *Dispatcher) {
		d.tracer = tp.Tracer(tracerName)
	}
}

const tracerName = "dispatcher"

// Dispatcher applies a [rule.RuleSet] to window events.
type Dispatcher struct {
	client   wm.Client
	tracer   trace.Tracer
	resolver *label.Resolver
	rules    atomic.Pointer[rule.RuleSet]
}

// New creates a new [Dispatcher].
func New(rs *rule.RuleSet, client wm.Client, opts ...DispatcherOpt) *Dispatcher {
	d := &Dispatcher{
		client:   client,
		tracer:   otel.Tracer(tracerName),
		resolver: label.NewResolver(client),
	}
	d.rules.Store(rs)

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Rules returns the active rule set.
func (d *Dispatcher) Rules() *rule.RuleSet {
	return d.rules.Load()
}

// SetRules replaces the active rule set. Events already being handled keep
// the rule set they started with.
func (d *Dispatcher) SetRules(rs *rule.RuleSet) {
	d.rules.Store(rs)
}

// Run subscribes to window events and handles them one at a time, until ctx
// is done or the subscription fails. Rule sets received on reloads replace
// the active rule set between events; reloads may be nil.
func (d *Dispatcher) Run(ctx context.Context, reloads <-chan *rule.RuleSet) error {
	events, err := d.client.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	slog.InfoContext(ctx, "waiting for window events", slog.Int("rules", d.Rules().Len()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case rs, ok := <-reloads:
			if !ok {
				reloads = nil

				continue
			}

			d.SetRules(rs)
			slog.InfoContext(ctx, "rules reloaded", slog.Int("count", rs.Len()))

		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}

				err := d.client.Err()
				if err == nil {
					err = ErrSubscriptionClosed
				}

				return fmt.Errorf("subscription: %w", err)
			}

			d.Handle(ctx, ev)
		}
	}
}

// Handle applies the first matching rule to the window of a creation event.
// Events of other kinds are ignored.
func (d *Dispatcher) Handle(ctx context.Context, ev wm.Event) Result {
	res := Result{RuleIndex: -1}

	if ev.Change != wm.ChangeNew {
		slog.DebugContext(ctx, "ignoring window event",
			slog.String("change", ev.Change),
			slog.Any("window", ev.Window),
		)

		return res
	}

	res.EventID = ulid.Make().String()
	win := ev.Window

	ctx = log.NewContext(ctx, log.WithContext(ctx).With(
		slog.String("event_id", res.EventID),
		slog.Int64("window", int64(win.ID)),
	))

	ctx, span := d.tracer.Start(ctx, "handle-window", trace.WithAttributes(
		attribute.String("event.id", res.EventID),
		attribute.Int64("window.id", int64(win.ID)),
		attribute.String("window.class", win.Class),
		attribute.String("window.instance", win.Instance),
		attribute.String("window.title", win.Title),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	snap := rule.Snapshot{
		Class:    win.Class,
		Instance: win.Instance,
		Title:    win.Title,
	}
	logger.InfoContext(ctx, "window created",
		slog.String("change", ev.Change),
		slog.Any("snapshot", snap),
	)

	r, i, ok := d.Rules().Match(snap)
	if !ok {
		logger.InfoContext(ctx, "no rule matched")

		return res
	}

	res.Rule = r
	res.RuleIndex = i
	span.SetAttributes(attribute.Int("rule.index", i))
	logger.InfoContext(ctx, "rule matched",
		slog.Int("rule", i),
		slog.String("criteria", r.String()),
	)

	if r.HasLabel() {
		outcome, err := d.resolver.Apply(ctx, win.ID, r.Label())
		res.Label = outcome
		if err != nil {
			logger.ErrorContext(ctx, "apply label", slog.Any("error", err))
			res.Errors = append(res.Errors, err)
		}
	}

	for _, action := range r.Actions() {
		err := d.client.Command(ctx, win.ID, action)
		if err != nil {
			logger.ErrorContext(ctx, "command failed",
				slog.String("command", action),
				slog.Any("error", err),
			)
			res.Errors = append(res.Errors, err)

			continue
		}

		logger.InfoContext(ctx, "command sent", slog.String("command", action))
		res.Sent = append(res.Sent, action)
	}

	if len(res.Errors) > 0 {
		err := errors.Join(res.Errors...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return res
}
