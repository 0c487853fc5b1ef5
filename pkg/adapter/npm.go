package adapter

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/r2708/depmender-sub000/pkg/logger"
)

const defaultCommandTimeout = 2 * time.Minute

// NPM is the npm-variant Handle. Commands run in Dir with a bounded
// timeout. Bin allows substituting the executable in tests.
type NPM struct {
	Dir     string
	Bin     string
	Timeout time.Duration
}

// NewNPM creates an npm adapter rooted at the given project directory.
func NewNPM(dir string) *NPM {
	return &NPM{Dir: dir, Bin: "npm", Timeout: defaultCommandTimeout}
}

func (n *NPM) Variant() Variant {
	return VariantNPM
}

func (n *NPM) InstallPackage(ctx context.Context, name, version string) error {
	spec := name
	if version != "" {
		spec = name + "@" + version
	}
	return n.run(ctx, "install", spec)
}

func (n *NPM) UpdatePackage(ctx context.Context, name, version string) error {
	return n.run(ctx, "install", name+"@"+version)
}

func (n *NPM) RemovePackage(ctx context.Context, name string) error {
	return n.run(ctx, "uninstall", name)
}

func (n *NPM) RegenerateLockfile(ctx context.Context) error {
	return n.run(ctx, "install", "--package-lock-only")
}

func (n *NPM) run(ctx context.Context, args ...string) error {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin := n.Bin
	if bin == "" {
		bin = "npm"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = n.Dir
	logger.Debugf("adapter: running %s %s", bin, strings.Join(args, " "))

	out, err := cmd.CombinedOutput()
	if err != nil {
		return &CommandError{
			Command: bin + " " + strings.Join(args, " "),
			Output:  string(out),
			Err:     err,
		}
	}
	return nil
}
