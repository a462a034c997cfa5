package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macropower/i3-event-handler/pkg/rule"
	"github.com/macropower/i3-event-handler/pkg/yaml"
)

// Validator validates decoded configuration data, e.g. against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	source    string
}

// WithValidator sets a validator that [Loader.Validate] runs on the decoded
// document.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithSourceName sets the name used to describe the document in logs.
func WithSourceName(name string) LoaderOpt {
	return func(o *loaderOptions) {
		o.source = name
	}
}

// Loader decodes and validates a rule configuration document.
type Loader struct {
	validator Validator
	yamlError *yaml.ErrorWrapper
	source    string
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	options := &loaderOptions{source: "<bytes>"}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader{
		data:      data,
		source:    options.source,
		validator: options.validator,
		yamlError: yaml.NewErrorWrapper(yaml.WithSource(data)),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewLoaderFromBytes(data, append([]LoaderOpt{WithSourceName(path)}, opts...)...), nil
}

// LoadFile reads, decodes and validates the file at path. All errors wrap
// [ErrConfig].
func LoadFile(path string, opts ...LoaderOpt) (*rule.RuleSet, error) {
	l, err := NewLoaderFromFile(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	rs, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return rs, nil
}

// Validate decodes the document and runs the configured [Validator], if any.
func (l *Loader) Validate() error {
	v, err := l.decode()
	if err != nil {
		return err
	}

	if l.validator != nil {
		err = l.validator.Validate(v)
		if err != nil {
			return l.yamlError.Wrap(err)
		}
	}

	return nil
}

// Load decodes the document and converts it into a [rule.RuleSet].
func (l *Loader) Load() (*rule.RuleSet, error) {
	v, err := l.decode()
	if err != nil {
		return nil, err
	}

	rs, err := FromValue(v)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Source = l.data
		}

		return nil, err
	}

	slog.Info("loaded rules",
		slog.Int("count", rs.Len()),
		slog.String("path", l.source),
	)

	return rs, nil
}

func (l *Loader) decode() (any, error) {
	var v any

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(&v)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.source, l.yamlError.Wrap(err))
	}

	return v, nil
}
