package presence

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	// DriverCommand runs an external helper that performs the OS ceremony.
	DriverCommand = "command"
	// DriverStatic always answers with a fixed result; used in tests.
	DriverStatic = "static"
	// DriverNoop denies every challenge; used when the platform has no
	// ceremony mechanism. Absence of a ceremony is never a silent grant.
	DriverNoop = "noop"
)

// ErrUnknownDriver indicates an unsupported presence driver.
var ErrUnknownDriver = errors.New("presence: unknown driver")

// Challenger asks the local user to prove they are physically present, for
// example via Windows Hello or a polkit prompt. Confirm returns true only
// when the ceremony completed successfully; a dismissed, failed, or timed-out
// ceremony returns false.
type Challenger interface {
	Confirm(ctx context.Context, reason string) bool
}

// FactoryOptions groups configuration for presence drivers.
type FactoryOptions struct {
	// Command configures the external-helper backend.
	Command CommandOptions
	// Static configures the fixed-answer backend.
	Static StaticOptions
}

// NewFromDriver constructs a Challenger implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Challenger, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverCommand:
		return NewCommand(opts.Command)
	case DriverStatic:
		return NewStatic(opts.Static.Allow), nil
	case DriverNoop:
		return NewStatic(false), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// CommandOptions configures the external-helper backend.
type CommandOptions struct {
	// Path is the helper binary to run. The ceremony reason is passed as the
	// single argument and the helper's exit status is the answer.
	Path string
	// Timeout bounds a single ceremony. Zero means 30 seconds.
	Timeout time.Duration
}

// Command shells out to a platform helper for the ceremony.
type Command struct {
	path    string
	timeout time.Duration
}

// NewCommand validates options and returns a command-backed Challenger.
func NewCommand(opts CommandOptions) (*Command, error) {
	if opts.Path == "" {
		return nil, errors.New("presence: command path is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Command{path: opts.Path, timeout: opts.Timeout}, nil
}

// Confirm runs the helper and treats a zero exit status as a confirmed
// ceremony. Any error, including a timeout, denies.
func (c *Command) Confirm(ctx context.Context, reason string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return exec.CommandContext(ctx, c.path, reason).Run() == nil
}

// StaticOptions configures the fixed-answer backend.
type StaticOptions struct {
	// Allow is the answer every ceremony gets.
	Allow bool
}

// Static answers every ceremony with a fixed result.
type Static struct {
	allow bool
}

// NewStatic returns a Challenger that always answers allow.
func NewStatic(allow bool) *Static {
	return &Static{allow: allow}
}

func (s *Static) Confirm(context.Context, string) bool {
	return s.allow
}
