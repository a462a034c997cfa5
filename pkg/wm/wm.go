package wm

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrConnect is returned when the window manager cannot be reached.
	ErrConnect = errors.New("connect to window manager")
	// ErrCommand is returned when a command cannot be sent or is rejected.
	ErrCommand = errors.New("send command")
	// ErrQuery is returned when window state cannot be queried.
	ErrQuery = errors.New("query window manager")
	// ErrSocketInUse is returned when a client asks for a socket path other
	// than the one already in use by the process.
	ErrSocketInUse = errors.New("another socket path is in use")
)

// ChangeNew is the change type of a window creation event.
const ChangeNew = "new"

// WindowID identifies a container in the window manager's tree.
type WindowID int64

// Window holds the attributes of a window at the time of an event.
// Attributes the window does not have are empty.
type Window struct {
	Class    string
	Instance string
	Title    string
	ID       WindowID
}

// LogValue implements [slog.LogValuer].
func (w Window) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("id", int64(w.ID)),
		slog.String("class", w.Class),
		slog.String("instance", w.Instance),
		slog.String("title", w.Title),
	)
}

// Event is a window event.
type Event struct {
	Change string
	Window Window
}

// Client is a window manager transport.
type Client interface {
	// Subscribe starts delivering window creation events. The channel is
	// closed when ctx is done or the subscription fails; see [Client.Err].
	Subscribe(ctx context.Context) (<-chan Event, error)
	// Err returns the error that ended the subscription, if any.
	Err() error
	// LabelHeld reports whether any window carries exactly label.
	LabelHeld(ctx context.Context, label string) (bool, error)
	// Command sends cmd to the window with the given id.
	Command(ctx context.Context, id WindowID, cmd string) error
	Close() error
}
