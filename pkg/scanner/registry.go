package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/r2708/depmender-sub000/pkg/logger"
)

const (
	defaultRegistryURL    = "https://registry.npmjs.org"
	defaultLookupTimeout  = 10 * time.Second
	advisoryBulkEndpoint  = "/-/npm/v1/security/advisories/bulk"
	registryAcceptHeader  = "application/vnd.npm.install-v1+json"
	registryContentHeader = "application/json"
)

// PackageInfo is the registry metadata the scanners care about.
type PackageInfo struct {
	Latest           string
	Deprecated       string
	PeerDependencies map[string]string
}

// Advisory is one security advisory returned by the bulk endpoint.
type Advisory struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Overview   string   `json:"overview"`
	Severity   string   `json:"severity"`
	CVSS       float64  `json:"cvss"`
	CWE        []string `json:"cwe"`
	References []string `json:"references"`
	FixedIn    string   `json:"fixed_in"`
}

// Registry performs metadata and advisory lookups with a per-run cache
// keyed by package name. The cache is an explicit per-run object, never
// shared across runs. Lookups make a single bounded-timeout attempt;
// failures degrade to "no information" rather than failing the run.
type Registry struct {
	BaseURL string
	Client  *http.Client

	mu    sync.Mutex
	cache map[string]*PackageInfo
}

// NewRegistry creates a registry client. An empty baseURL selects the
// public npm registry.
func NewRegistry(baseURL string) *Registry {
	if baseURL == "" {
		baseURL = defaultRegistryURL
	}
	return &Registry{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: defaultLookupTimeout},
		cache:   make(map[string]*PackageInfo),
	}
}

// Lookup fetches package metadata, serving repeats from the per-run cache.
// A nil result with nil error means the registry had nothing usable.
func (r *Registry) Lookup(ctx context.Context, name string) *PackageInfo {
	r.mu.Lock()
	if info, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return info
	}
	r.mu.Unlock()

	info := r.fetch(ctx, name)
	r.mu.Lock()
	r.cache[name] = info
	r.mu.Unlock()
	return info
}

func (r *Registry) fetch(ctx context.Context, name string) *PackageInfo {
	url := fmt.Sprintf("%s/%s", r.BaseURL, name)
	logger.Debugf("registry: fetching %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Warnf("registry: bad request for %s: %v", name, err)
		return nil
	}
	req.Header.Set("Accept", registryAcceptHeader)

	resp, err := r.Client.Do(req)
	if err != nil {
		logger.Warnf("registry: lookup of %s failed: %v", name, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("registry: lookup of %s returned %d", name, resp.StatusCode)
		return nil
	}

	var body struct {
		DistTags struct {
			Latest string `json:"latest"`
		} `json:"dist-tags"`
		Deprecated string `json:"deprecated"`
		Versions   map[string]struct {
			PeerDependencies map[string]string `json:"peerDependencies"`
		} `json:"versions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warnf("registry: could not parse metadata for %s: %v", name, err)
		return nil
	}

	info := &PackageInfo{
		Latest:     body.DistTags.Latest,
		Deprecated: body.Deprecated,
	}
	if v, ok := body.Versions[body.DistTags.Latest]; ok {
		info.PeerDependencies = v.PeerDependencies
	}
	return info
}

// Advisories queries the bulk advisory endpoint for the given
// package->version map. On any failure it returns an empty result; an
// unreachable advisory service must never fail the run.
func (r *Registry) Advisories(ctx context.Context, packages map[string]string) map[string][]Advisory {
	if len(packages) == 0 {
		return nil
	}
	query := make(map[string][]string, len(packages))
	for name, version := range packages {
		query[name] = []string{version}
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil
	}

	url := r.BaseURL + advisoryBulkEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", registryContentHeader)

	resp, err := r.Client.Do(req)
	if err != nil {
		logger.Warnf("registry: advisory lookup failed: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("registry: advisory lookup returned %d", resp.StatusCode)
		return nil
	}

	var out map[string][]Advisory
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Warnf("registry: could not parse advisory response: %v", err)
		return nil
	}
	return out
}
