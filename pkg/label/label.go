// Package label gives windows exclusive labels.
//
// A label is held by at most one window. Before a label is applied, the
// window manager is asked whether any window already carries it; if so the
// candidate window is left alone. The check and the assignment are separate
// requests, so a label set by another client in between is not detected.
package label

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macropower/i3-event-handler/pkg/log"
	"github.com/macropower/i3-event-handler/pkg/wm"
)

// ErrEmptyLabel is returned when applying an empty label.
var ErrEmptyLabel = errors.New("label is empty")

// Outcome is the result of [Resolver.Apply].
type Outcome int

const (
	// OutcomeNone means no label was requested.
	OutcomeNone Outcome = iota
	// OutcomeApplied means the label was given to the window.
	OutcomeApplied
	// OutcomeSkipped means another window already holds the label.
	OutcomeSkipped
	// OutcomeFailed means the label could not be checked or applied.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Transport is the subset of [wm.Client] used by [Resolver].
type Transport interface {
	LabelHeld(ctx context.Context, label string) (bool, error)
	Command(ctx context.Context, id wm.WindowID, cmd string) error
}

// Resolver applies exclusive labels.
type Resolver struct {
	transport Transport
}

// NewResolver creates a new [Resolver].
func NewResolver(t Transport) *Resolver {
	return &Resolver{transport: t}
}

// Apply gives the window the label unless another window holds it already.
func (r *Resolver) Apply(ctx context.Context, id wm.WindowID, label string) (Outcome, error) {
	if label == "" {
		return OutcomeFailed, ErrEmptyLabel
	}

	logger := log.WithContext(ctx).With(slog.String("label", label))

	held, err := r.transport.LabelHeld(ctx, label)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("label %q: %w", label, err)
	}
	if held {
		logger.InfoContext(ctx, "label already held, skipping")

		return OutcomeSkipped, nil
	}

	err = r.transport.Command(ctx, id, wm.MarkCommand(label))
	if err != nil {
		return OutcomeFailed, fmt.Errorf("label %q: %w", label, err)
	}

	logger.InfoContext(ctx, "label applied")

	return OutcomeApplied, nil
}
