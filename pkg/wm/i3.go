package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.i3wm.org/i3/v4"
)

// I3Opt configures an [I3Client].
type I3Opt func(*I3Client)

// WithSocketPath connects to the IPC socket at path, instead of asking the
// running window manager for it. Use it for sway ($SWAYSOCK).
func WithSocketPath(path string) I3Opt {
	return func(c *I3Client) {
		c.socketPath = path
	}
}

// I3Client is a [Client] for i3 and sway, backed by [go.i3wm.org/i3/v4].
// The library reconnects on its own when the window manager restarts.
//
// The library keeps its connection settings in package state, and
// [WithSocketPath] sets [i3.SocketPathHook]. All clients in a process share
// one socket path: [NewI3Client] returns [ErrSocketInUse] when asked for a
// different one.
type I3Client struct {
	err        error
	closeRecv  func() error
	socketPath string
	mu         sync.Mutex
}

// NewI3Client connects to the window manager and checks that it responds.
func NewI3Client(ctx context.Context, opts ...I3Opt) (*I3Client, error) {
	c := &I3Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.socketPath != "" {
		err := setSocketPath(c.socketPath)
		if err != nil {
			return nil, err
		}
	}

	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	v, err := i3.GetVersion()
	if err != nil {
		return nil, connectError(err)
	}

	slog.Debug("connected to window manager",
		slog.String("version", v.HumanReadable),
		slog.String("socket", c.socketPath),
	)

	return c, nil
}

var (
	socketMu   sync.Mutex
	socketPath string
)

func setSocketPath(path string) error {
	socketMu.Lock()
	defer socketMu.Unlock()

	if socketPath != "" && socketPath != path {
		return fmt.Errorf("%w: %w: %q, not %q", ErrConnect, ErrSocketInUse, socketPath, path)
	}

	socketPath = path
	i3.SocketPathHook = func() (string, error) {
		return path, nil
	}

	return nil
}

func connectError(err error) error {
	if sock, ok := os.LookupEnv("I3SOCK"); ok {
		return fmt.Errorf("%w: check I3SOCK=%q: %w", ErrConnect, sock, err)
	}

	return fmt.Errorf("%w: %w", ErrConnect, err)
}

// Subscribe implements [Client].
func (c *I3Client) Subscribe(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closeRecv != nil {
		return nil, fmt.Errorf("%w: already subscribed", ErrConnect)
	}

	recv := i3.Subscribe(i3.WindowEventType)
	c.closeRecv = sync.OnceValue(recv.Close)
	events := make(chan Event)

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	go c.pump(ctx, recv, events)

	return events, nil
}

func (c *I3Client) pump(ctx context.Context, recv *i3.EventReceiver, events chan<- Event) {
	defer close(events)

	for recv.Next() {
		we, ok := recv.Event().(*i3.WindowEvent)
		if !ok || we.Change != ChangeNew {
			continue
		}

		select {
		case events <- EventFromI3(we):
		case <-ctx.Done():
			return
		}
	}

	if ctx.Err() != nil {
		return
	}

	err := recv.Err()
	if err == nil {
		err = errors.New("subscription closed")
	}

	c.mu.Lock()
	c.err = fmt.Errorf("%w: %w", ErrConnect, err)
	c.mu.Unlock()
}

// Err implements [Client].
func (c *I3Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// LabelHeld implements [Client] using GET_MARKS, which lists every mark in
// the tree.
func (c *I3Client) LabelHeld(ctx context.Context, label string) (bool, error) {
	err := ctx.Err()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	marks, err := i3.GetMarks()
	if err != nil {
		return false, fmt.Errorf("%w: marks: %w", ErrQuery, err)
	}

	return slices.Contains(marks, label), nil
}

// Command implements [Client].
func (c *I3Client) Command(ctx context.Context, id WindowID, cmd string) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrCommand, cmd, err)
	}

	results, err := i3.RunCommand(Criteria(id, cmd))
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrCommand, cmd, err)
	}

	var failed []string
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r.Error)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w %q: %s", ErrCommand, cmd, strings.Join(failed, "; "))
	}

	return nil
}

// Close ends the subscription, if any.
func (c *I3Client) Close() error {
	c.mu.Lock()
	closeRecv := c.closeRecv
	c.mu.Unlock()

	if closeRecv == nil {
		return nil
	}

	err := closeRecv()
	if err != nil {
		return fmt.Errorf("close subscription: %w", err)
	}

	return nil
}

// EventFromI3 converts an i3 window event.
func EventFromI3(we *i3.WindowEvent) Event {
	props := we.Container.WindowProperties

	return Event{
		Change: we.Change,
		Window: Window{
			ID:       WindowID(we.Container.ID),
			Class:    props.Class,
			Instance: props.Instance,
			Title:    props.Title,
		},
	}
}
