package rule

import "log/slog"

// Snapshot holds the attributes of a window at the moment it was created.
// Missing attributes are represented by empty strings.
type Snapshot struct {
	Class    string
	Instance string
	Title    string
}

// LogValue implements [slog.LogValuer].
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("class", s.Class),
		slog.String("instance", s.Instance),
		slog.String("title", s.Title),
	)
}
