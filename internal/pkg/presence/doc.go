// Package presence implements the user-presence ceremony that gates
// sensitive credential reads.
//
// The Challenger interface hides the platform mechanism. The command driver
// delegates to an external helper (Windows Hello, polkit, Touch ID), while
// the static and noop drivers exist for tests and platforms without a
// ceremony.
package presence
