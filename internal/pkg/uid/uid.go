// Package uid provides small ID generator abstractions.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
