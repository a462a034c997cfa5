// Package wmtest provides an in-memory [wm.Client] for tests.
package wmtest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/macropower/i3-event-handler/pkg/wm"
)

// SentCommand is a command received by a [Client].
type SentCommand struct {
	Command string
	Window  wm.WindowID
}

// Client is an in-memory [wm.Client]. Label commands built with
// [wm.MarkCommand] update the labels it holds, so exclusivity behaves as it
// would against a real window manager.
type Client struct {
	queryErr  error
	subErr    error
	failOn    map[string]error
	labels    map[string]wm.WindowID
	events    chan wm.Event
	commands  []SentCommand
	mu        sync.Mutex
	closed    bool
	cancelled bool
}

// NewClient creates a new [Client].
func NewClient() *Client {
	return &Client{
		failOn: map[string]error{},
		labels: map[string]wm.WindowID{},
		events: make(chan wm.Event),
	}
}

// Send delivers an event to the subscriber. It blocks until the event is
// received or ctx is done.
func (c *Client) Send(ctx context.Context, ev wm.Event) error {
	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send event: %w", ctx.Err())
	}
}

// End closes the subscription with err, as a lost connection would.
func (c *Client) End(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subErr = err
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// SetLabel gives the window the label, as if set by another process.
func (c *Client) SetLabel(label string, id wm.WindowID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.labels[label] = id
}

// Labels returns a copy of the labels currently held.
func (c *Client) Labels() map[string]wm.WindowID {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.labels)
}

// FailCommand makes every command equal to cmd fail with err.
func (c *Client) FailCommand(cmd string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failOn[cmd] = err
}

// FailQuery makes label queries fail with err; nil restores them.
func (c *Client) FailQuery(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queryErr = err
}

// Commands returns the commands sent so far, in order. Failed commands are
// not included.
func (c *Client) Commands() []SentCommand {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.commands)
}

// Subscribe implements [wm.Client].
func (c *Client) Subscribe(ctx context.Context) (<-chan wm.Event, error) {
	out := make(chan wm.Event)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				c.mu.Lock()
				c.cancelled = true
				c.mu.Unlock()

				return
			case ev, ok := <-c.events:
				if !ok {
					return
				}
				if ev.Change != wm.ChangeNew {
					continue
				}

				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Err implements [wm.Client].
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled {
		return nil
	}

	return c.subErr
}

// LabelHeld implements [wm.Client].
func (c *Client) LabelHeld(_ context.Context, label string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queryErr != nil {
		return false, fmt.Errorf("%w: %w", wm.ErrQuery, c.queryErr)
	}

	_, ok := c.labels[label]

	return ok, nil
}

// Command implements [wm.Client].
func (c *Client) Command(_ context.Context, id wm.WindowID, cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err, ok := c.failOn[cmd]; ok {
		return fmt.Errorf("%w %q: %w", wm.ErrCommand, cmd, err)
	}

	if label, ok := wm.ParseMarkCommand(cmd); ok {
		// A window holds at most one label when replaced.
		for l, holder := range c.labels {
			if holder == id {
				delete(c.labels, l)
			}
		}

		c.labels[label] = id
	}

	c.commands = append(c.commands, SentCommand{Window: id, Command: cmd})

	return nil
}

// Close implements [wm.Client].
func (c *Client) Close() error {
	return nil
}
