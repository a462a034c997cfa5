// Package yaml wraps [github.com/goccy/go-yaml] to decode structured
// documents and report errors against locations in their source.
//
// JSON documents are valid YAML documents, so the same decoder serves both
// formats. The package also generates and validates JSON schemas for those
// documents.
package yaml
