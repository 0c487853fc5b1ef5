// Package adapter abstracts the package-manager variant that performs the
// actual reads and writes. The analysis core never mutates a project
// itself; every install, update, removal and lockfile regeneration goes
// through a Handle.
package adapter

import (
	"context"
	"fmt"
	"strings"
)

// Variant names a package-manager flavor.
type Variant string

const (
	VariantNPM  Variant = "npm-like"
	VariantYarn Variant = "yarn-like"
	VariantPNPM Variant = "pnpm-like"
)

// Handle is the package-manager abstraction. Implementations run external
// processes and must surface failures as a *CommandError rather than
// crashing the caller. Version may be empty for InstallPackage, meaning
// "latest".
type Handle interface {
	Variant() Variant
	InstallPackage(ctx context.Context, name, version string) error
	UpdatePackage(ctx context.Context, name, version string) error
	RemovePackage(ctx context.Context, name string) error
	RegenerateLockfile(ctx context.Context) error
}

// CommandError reports a failed package-manager invocation, carrying the
// command line and its combined output for diagnosis.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, out)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
