package yaml

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

var (
	// ErrEmptyDocument is returned when the input contains no document.
	ErrEmptyDocument = errors.New("empty document")
	// ErrMultipleDocuments is returned when the input contains more than one
	// document.
	ErrMultipleDocuments = errors.New("multiple documents")
)

// Number is a numeric literal that does not fit any Go numeric type. It
// holds the literal's source text, so it never decodes as a string.
type Number string

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode decodes the single document in the input into v. Repeated mapping
// keys are allowed and the last one wins. Syntax errors are returned as
// [*Error] carrying the offending token.
//
// When v is a *any, numeric literals that overflow are decoded as [Number].
func (d *Decoder) Decode(v any) error {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	f, err := parser.ParseBytes(data, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return wrapError(err)
	}

	var body ast.Node
	for _, doc := range f.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		if body != nil {
			return NewError(ErrMultipleDocuments, WithToken(doc.GetToken()))
		}

		body = doc.Body
	}

	if body == nil {
		return ErrEmptyDocument
	}

	err = yaml.NodeToValue(body, v, yaml.AllowDuplicateMapKey())
	if err != nil {
		return wrapError(err)
	}

	if p, ok := v.(*any); ok {
		*p = markNumbers(body, *p)
	}

	return nil
}

func wrapError(err error) error {
	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the error as-is if it's not a [yaml.Error].
	return err
}

// markNumbers walks node alongside its decoded value v and replaces plain
// scalars that are out-of-range numbers with [Number]. Aliases are not
// followed.
func markNumbers(node ast.Node, v any) any {
	switch n := node.(type) {
	case *ast.TagNode:
		return markNumbers(n.Value, v)

	case *ast.AnchorNode:
		return markNumbers(n.Value, v)

	case *ast.MappingValueNode:
		markMapping(v, n)

	case *ast.MappingNode:
		markMapping(v, n.Values...)

	case *ast.SequenceNode:
		s, ok := v.([]any)
		if !ok || len(s) != len(n.Values) {
			return v
		}

		for i, item := range n.Values {
			s[i] = markNumbers(item, s[i])
		}

	case *ast.StringNode:
		s, ok := v.(string)
		if ok && s == n.Value && n.Token != nil && n.Token.Type == token.StringType && isOutOfRange(s) {
			return Number(s)
		}
	}

	return v
}

func markMapping(v any, entries ...*ast.MappingValueNode) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}

	// With repeated keys only the last entry holds the decoded value.
	last := map[string]ast.Node{}
	for _, e := range entries {
		key, ok := e.Key.(*ast.StringNode)
		if !ok {
			continue
		}

		last[key.Value] = e.Value
	}

	for key, node := range last {
		if val, ok := m[key]; ok {
			m[key] = markNumbers(node, val)
		}
	}
}

// isOutOfRange reports whether s is a numeric literal too large for int64,
// uint64 and float64.
func isOutOfRange(s string) bool {
	_, err := strconv.ParseInt(s, 0, 64)
	if err == nil || !errors.Is(err, strconv.ErrRange) {
		_, err = strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
		return errors.Is(err, strconv.ErrRange)
	}

	_, err = strconv.ParseUint(strings.TrimPrefix(s, "+"), 0, 64)

	return err != nil
}
