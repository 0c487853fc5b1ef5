// Package scanner defines the scan context shared by all scanners, the
// scanner contract, and the concrete scanners that produce dependency
// issues.
package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/r2708/depmender-sub000/pkg/adapter"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// Manifest is the parsed project manifest (package.json shape).
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Lockfile identifies the project's lockfile. ParsedContent is kept as raw
// JSON; scanners that care about lockfile internals decode what they need.
type Lockfile struct {
	Variant       adapter.Variant
	Path          string
	ParsedContent json.RawMessage
}

// InstalledPackage is one entry found under the install tree.
// PeerDependencies holds the package's own declared peer requirements so
// the peer scanner never re-reads the tree.
type InstalledPackage struct {
	Name             string
	Version          string
	Path             string
	IsValid          bool
	PeerDependencies map[string]string
}

// Context is the shared input to every scanner: the parsed manifest and
// lockfile, the installed package list, and the adapter handle. It is
// built once per run and read-only afterwards.
type Context struct {
	ProjectPath string
	Manifest    Manifest
	Lockfile    Lockfile
	Installed   []InstalledPackage
	Adapter     adapter.Handle
}

// DeclaredDependencies merges runtime and dev dependencies. Runtime
// entries win on duplicate names.
func (c *Context) DeclaredDependencies() map[string]string {
	all := make(map[string]string, len(c.Manifest.Dependencies)+len(c.Manifest.DevDependencies))
	for name, ver := range c.Manifest.DevDependencies {
		all[name] = ver
	}
	for name, ver := range c.Manifest.Dependencies {
		all[name] = ver
	}
	return all
}

// InstalledVersion returns the installed version of a package, if present.
func (c *Context) InstalledVersion(name string) (string, bool) {
	for _, p := range c.Installed {
		if p.Name == name {
			return p.Version, true
		}
	}
	return "", false
}

// Load builds the scan context for a project directory: it parses
// package.json, picks up the lockfile when one exists, and inventories the
// node_modules tree. A missing lockfile or install tree is not an error;
// scanners report what that implies.
func Load(projectPath string, h adapter.Handle) (*Context, error) {
	manifestPath := filepath.Join(projectPath, "package.json")
	logger.Debugf("scanner: reading manifest %s", manifestPath)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid package.json: %w", err)
	}

	sc := &Context{
		ProjectPath: projectPath,
		Manifest:    m,
		Adapter:     h,
	}

	lockPath := filepath.Join(projectPath, "package-lock.json")
	if raw, err := os.ReadFile(lockPath); err == nil {
		sc.Lockfile = Lockfile{
			Variant:       adapter.VariantNPM,
			Path:          lockPath,
			ParsedContent: json.RawMessage(raw),
		}
	}

	sc.Installed = loadInstalled(filepath.Join(projectPath, "node_modules"))
	return sc, nil
}

// loadInstalled inventories the install tree one level deep (plus scoped
// package directories). Entries whose package.json is unreadable or
// version-less are kept with IsValid=false so the broken-install scanner
// can surface them.
func loadInstalled(root string) []InstalledPackage {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []InstalledPackage
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".bin" {
			continue
		}
		if strings.HasPrefix(e.Name(), "@") {
			scoped, err := os.ReadDir(filepath.Join(root, e.Name()))
			if err != nil {
				continue
			}
			for _, s := range scoped {
				if s.IsDir() {
					out = append(out, readInstalled(filepath.Join(root, e.Name(), s.Name()), e.Name()+"/"+s.Name()))
				}
			}
			continue
		}
		out = append(out, readInstalled(filepath.Join(root, e.Name()), e.Name()))
	}
	return out
}

func readInstalled(dir, fallbackName string) InstalledPackage {
	pkg := InstalledPackage{Name: fallbackName, Path: dir}
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return pkg
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return pkg
	}
	if m.Name != "" {
		pkg.Name = m.Name
	}
	pkg.Version = m.Version
	pkg.IsValid = m.Version != ""
	pkg.PeerDependencies = m.PeerDependencies
	return pkg
}
