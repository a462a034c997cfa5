package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap applies the wrapper's options to any [Error] in err's chain.
// If the error isn't an [Error], it returns the original error unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}
	}

	return err
}

// Error represents an error at a location in a YAML document. The location is
// given either by a [*yaml.Path] or by the [*token.Token] where the error
// occurred.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	switch {
	case e.Path != nil && len(e.Source) > 0:
		src, err := e.Path.AnnotateSource(e.Source, false)
		if err != nil {
			slog.Debug("annotate source",
				slog.String("path", e.Path.String()),
				slog.Any("error", err),
			)

			return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
		}

		return fmt.Sprintf("error at %s: %v\n%s", e.Path.String(), e.Err, strings.TrimRight(string(src), "\n"))

	case e.Path != nil:
		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)

	case e.Token != nil && e.Token.Position != nil:
		return fmt.Sprintf("[%d:%d] %v", e.Token.Position.Line, e.Token.Position.Column, e.Err)
	}

	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}
