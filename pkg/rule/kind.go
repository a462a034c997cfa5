package rule

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when an attribute kind is not recognized.
var ErrUnknownKind = errors.New("unknown attribute kind")

// Kind identifies the window attribute a [Criterion] is evaluated against.
type Kind int

const (
	// KindClass matches the window class (WM_CLASS class part).
	KindClass Kind = iota + 1
	// KindInstance matches the window instance (WM_CLASS instance part).
	KindInstance
	// KindTitle matches the window title.
	KindTitle
)

// AllKinds contains the names of all attribute kinds, in declaration order.
var AllKinds = []string{
	KindClass.String(),
	KindInstance.String(),
	KindTitle.String(),
}

// ParseKind returns the [Kind] with the given name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "class":
		return KindClass, nil
	case "instance":
		return KindInstance, nil
	case "title":
		return KindTitle, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindTitle:
		return "title"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) valid() bool {
	return k >= KindClass && k <= KindTitle
}

// Value returns the snapshot field selected by the kind.
// Unknown kinds select nothing and yield an empty string.
func (k Kind) Value(s Snapshot) string {
	switch k {
	case KindClass:
		return s.Class
	case KindInstance:
		return s.Instance
	case KindTitle:
		return s.Title
	}

	return ""
}
