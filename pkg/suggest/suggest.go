// Package suggest turns aggregated issues and vulnerabilities into a
// deduplicated, priority-ordered list of fix suggestions.
package suggest

import (
	"fmt"
	"strings"

	"github.com/r2708/depmender-sub000/pkg/conflict"
	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Generate produces one or more suggestions for every issue and
// vulnerability, deduplicates them, and returns the final priority order.
// Security-kind issues are skipped here: they mirror entries of the
// vulnerability list, which drives the security suggestions.
func Generate(issues []deps.Issue, vulns []deps.SecurityIssue) []deps.FixSuggestion {
	var out []deps.FixSuggestion

	for _, v := range vulns {
		out = append(out, forVulnerability(v))
	}

	peerGroups := make(map[string][]deps.Issue)
	for _, is := range issues {
		if is.Kind == deps.KindPeerConflict {
			peerGroups[is.Package] = append(peerGroups[is.Package], is)
		}
	}

	consolidated := make(map[string]bool)
	for _, is := range issues {
		switch is.Kind {
		case deps.KindOutdated:
			out = append(out, forOutdated(is)...)
		case deps.KindMissing:
			out = append(out, forMissing(is))
		case deps.KindPeerConflict:
			out = append(out, forPeerConflict(is, peerGroups[is.Package])...)
			if len(peerGroups[is.Package]) > 1 && !consolidated[is.Package] {
				consolidated[is.Package] = true
				if s, ok := forUnifiedPeer(is.Package, peerGroups[is.Package]); ok {
					out = append(out, s)
				}
			}
		case deps.KindVersionMismatch:
			out = append(out, forMismatch(is)...)
		case deps.KindBroken:
			out = append(out, forBroken(is))
		}
	}

	out = dedupe(out)
	Order(out)
	return out
}

// forOutdated proposes up to three safe update paths: the next patch, the
// next minor, and the latest version.
func forOutdated(is deps.Issue) []deps.FixSuggestion {
	cv, err1 := deps.ParseVersion(is.CurrentVersion)
	lv, err2 := deps.ParseVersion(is.LatestVersion)
	if err1 != nil || err2 != nil {
		if is.LatestVersion == "" {
			return nil
		}
		return []deps.FixSuggestion{updateSuggestion(is.Package, is.CurrentVersion, is.LatestVersion)}
	}
	if !lv.GreaterThan(cv) {
		return nil
	}

	var targets []string
	if p := cv.IncPatch(); p.LessThan(lv) {
		targets = append(targets, p.String())
	}
	if m := cv.IncMinor(); m.LessThan(lv) {
		targets = append(targets, m.String())
	}
	targets = append(targets, lv.String())

	var out []deps.FixSuggestion
	for _, t := range targets {
		out = append(out, updateSuggestion(is.Package, is.CurrentVersion, t))
	}
	return out
}

func updateSuggestion(pkg, current, target string) deps.FixSuggestion {
	return deps.FixSuggestion{
		Kind:        deps.SuggestUpdateOutdated,
		Description: fmt.Sprintf("Update %s from %s to %s", pkg, current, target),
		Risk:        EstimateUpdateRisk(current, target),
		Actions: []deps.FixAction{{
			Kind:    deps.ActionUpdate,
			Package: pkg,
			Version: target,
			Command: fmt.Sprintf("npm install %s@%s", pkg, target),
		}},
		EstimatedImpact: updateImpact(current, target),
	}
}

func forMissing(is deps.Issue) deps.FixSuggestion {
	version := is.ExpectedVersion
	if version == "" {
		version = "latest"
	}
	return deps.FixSuggestion{
		Kind:        deps.SuggestInstallMissing,
		Description: fmt.Sprintf("Install missing dependency %s (%s)", is.Package, version),
		Risk:        deps.RiskLow,
		Actions: []deps.FixAction{{
			Kind:    deps.ActionInstall,
			Package: is.Package,
			Version: version,
			Command: fmt.Sprintf("npm install %s@%s", is.Package, version),
		}},
		EstimatedImpact: "restores a package the project requires",
	}
}

// forPeerConflict proposes installing the absent peer, updating to a
// version compatible with every declared peer range, or, absent any
// compatible version, the override and restructuring alternatives.
func forPeerConflict(is deps.Issue, group []deps.Issue) []deps.FixSuggestion {
	if is.CurrentVersion == "" {
		version := is.ExpectedVersion
		if version == "" {
			version = "latest"
		}
		return []deps.FixSuggestion{{
			Kind:        deps.SuggestInstallMissing,
			Description: fmt.Sprintf("Install missing peer dependency %s (%s) required by %s", is.Package, version, orProject(is.RequiredBy)),
			Risk:        deps.RiskLow,
			Actions: []deps.FixAction{{
				Kind:    deps.ActionInstall,
				Package: is.Package,
				Version: version,
				Command: fmt.Sprintf("npm install %s@%s", is.Package, version),
			}},
			EstimatedImpact: "satisfies an unmet peer requirement",
		}}
	}

	ranges := peerRanges(group)
	if candidates := conflict.CompatibleVersions(ranges, 3); len(candidates) > 0 {
		var out []deps.FixSuggestion
		for _, cand := range candidates {
			out = append(out, deps.FixSuggestion{
				Kind:        deps.SuggestResolveConflict,
				Description: fmt.Sprintf("Update %s to %s to satisfy its peer requirements", is.Package, cand),
				Risk:        EstimateUpdateRisk(is.CurrentVersion, cand),
				Actions: []deps.FixAction{{
					Kind:    deps.ActionUpdate,
					Package: is.Package,
					Version: cand,
					Command: fmt.Sprintf("npm install %s@%s", is.Package, cand),
				}},
				EstimatedImpact: updateImpact(is.CurrentVersion, cand),
			})
		}
		return out
	}

	fallback, _ := conflict.FindCompatibleVersion(ranges)
	if fallback == "" {
		fallback = is.CurrentVersion
	}
	return []deps.FixSuggestion{
		{
			Kind:        deps.SuggestResolveConflict,
			Description: fmt.Sprintf("Force a version override pinning %s to %s", is.Package, fallback),
			Risk:        deps.RiskHigh,
			Actions: []deps.FixAction{{
				Kind:    deps.ActionUpdate,
				Package: is.Package,
				Version: fallback,
				Command: fmt.Sprintf("npm pkg set overrides.%s=%s", is.Package, fallback),
			}},
			EstimatedImpact: "overrides dependent requirements; manual verification needed",
		},
		{
			Kind: deps.SuggestResolveConflict,
			Description: fmt.Sprintf(
				"Restructure to avoid the conflicting peer requirements on %s, for example by hoisting it in a workspace or injecting the dependency", is.Package),
			Risk:            deps.RiskMedium,
			Actions:         []deps.FixAction{},
			EstimatedImpact: "requires manual review of the project layout",
		},
	}
}

// forUnifiedPeer adds the consolidated suggestion for packages carrying
// multiple peer-conflict records, when one version satisfies them all.
func forUnifiedPeer(pkg string, group []deps.Issue) (deps.FixSuggestion, bool) {
	unified, ok := conflict.FindCompatibleVersion(peerRanges(group))
	if !ok || unified == "" {
		return deps.FixSuggestion{}, false
	}
	return deps.FixSuggestion{
		Kind:        deps.SuggestResolveConflict,
		Description: fmt.Sprintf("Install one unified version of %s (%s) satisfying all %d peer requirements", pkg, unified, len(group)),
		Risk:        deps.RiskMedium,
		Actions: []deps.FixAction{{
			Kind:    deps.ActionInstall,
			Package: pkg,
			Version: unified,
			Command: fmt.Sprintf("npm install %s@%s", pkg, unified),
		}},
		EstimatedImpact: "replaces competing versions with a single compatible one",
	}, true
}

// forMismatch proposes the version change aligning the install with the
// manifest, stepping stones for high-risk jumps, and the low-risk
// alternative of aligning the manifest to what is installed instead.
func forMismatch(is deps.Issue) []deps.FixSuggestion {
	target := is.ExpectedVersion
	if floor, ok := deps.RangeMinimum(is.ExpectedVersion); ok {
		target = floor.String()
	}

	var out []deps.FixSuggestion
	risk := EstimateUpdateRisk(is.CurrentVersion, target)
	verb := "Upgrade"
	if cv, err1 := deps.ParseVersion(is.CurrentVersion); err1 == nil {
		if tv, err2 := deps.ParseVersion(target); err2 == nil && tv.LessThan(cv) {
			verb = "Downgrade"
		}
	}
	out = append(out, deps.FixSuggestion{
		Kind:        deps.SuggestUpdateOutdated,
		Description: fmt.Sprintf("%s %s from %s to %s to match the manifest", verb, is.Package, is.CurrentVersion, target),
		Risk:        risk,
		Actions: []deps.FixAction{{
			Kind:    deps.ActionUpdate,
			Package: is.Package,
			Version: target,
			Command: fmt.Sprintf("npm install %s@%s", is.Package, target),
		}},
		EstimatedImpact: updateImpact(is.CurrentVersion, target),
	})

	if risk == deps.RiskHigh || risk == deps.RiskCritical {
		out = append(out, steppingStones(is.Package, is.CurrentVersion, target)...)
	}

	out = append(out, deps.FixSuggestion{
		Kind:        deps.SuggestResolveConflict,
		Description: fmt.Sprintf("Align the manifest requirement for %s to the installed %s instead of changing the install", is.Package, is.CurrentVersion),
		Risk:        deps.RiskLow,
		Actions: []deps.FixAction{{
			Kind:    deps.ActionUpdate,
			Package: is.Package,
			Version: is.CurrentVersion,
			Command: fmt.Sprintf("npm pkg set dependencies.%s=%s", is.Package, is.CurrentVersion),
		}},
		EstimatedImpact: "low-risk, backward compatible manifest change",
	})
	return out
}

// steppingStones proposes up to two intermediate major versions between
// current and target, so a large jump can be taken in checkable steps.
func steppingStones(pkg, current, target string) []deps.FixSuggestion {
	cv, err1 := deps.ParseVersion(current)
	tv, err2 := deps.ParseVersion(target)
	if err1 != nil || err2 != nil {
		return nil
	}
	lo, hi := cv.Major(), tv.Major()
	if hi < lo {
		lo, hi = hi, lo
	}
	var out []deps.FixSuggestion
	for m := lo + 1; m < hi && len(out) < 2; m++ {
		stone := fmt.Sprintf("%d.0.0", m)
		out = append(out, deps.FixSuggestion{
			Kind:        deps.SuggestUpdateOutdated,
			Description: fmt.Sprintf("Move %s to the intermediate version %s first, as a stepping stone toward %s", pkg, stone, target),
			Risk:        EstimateUpdateRisk(current, stone),
			Actions: []deps.FixAction{{
				Kind:    deps.ActionUpdate,
				Package: pkg,
				Version: stone,
				Command: fmt.Sprintf("npm install %s@%s", pkg, stone),
			}},
			EstimatedImpact: updateImpact(current, stone),
		})
	}
	return out
}

func forBroken(is deps.Issue) deps.FixSuggestion {
	version := is.ExpectedVersion
	if version == "" {
		version = is.CurrentVersion
	}
	if version == "" {
		version = "latest"
	}
	return deps.FixSuggestion{
		Kind:        deps.SuggestInstallMissing,
		Description: fmt.Sprintf("Reinstall broken package %s", is.Package),
		Risk:        deps.RiskMedium,
		Actions: []deps.FixAction{
			{
				Kind:    deps.ActionRemove,
				Package: is.Package,
				Command: fmt.Sprintf("npm uninstall %s", is.Package),
			},
			{
				Kind:    deps.ActionInstall,
				Package: is.Package,
				Version: version,
				Command: fmt.Sprintf("npm install %s@%s", is.Package, version),
			},
		},
		EstimatedImpact: "replaces a corrupted install with a clean one",
	}
}

// forVulnerability maps the advisory severity straight to the suggestion
// risk; unlike ordinary updates, security risk is not derived from the
// version delta.
func forVulnerability(v deps.SecurityIssue) deps.FixSuggestion {
	if v.PatchAvailable && v.FixedIn != "" {
		return deps.FixSuggestion{
			Kind: deps.SuggestUpdateOutdated,
			Description: fmt.Sprintf("Update %s from %s to %s to fix security vulnerability %s",
				v.Package, v.Version, v.FixedIn, v.Vulnerability.ID),
			Risk: advisoryRisk(v.Severity),
			Actions: []deps.FixAction{{
				Kind:    deps.ActionUpdate,
				Package: v.Package,
				Version: v.FixedIn,
				Command: fmt.Sprintf("npm install %s@%s", v.Package, v.FixedIn),
			}},
			EstimatedImpact: fmt.Sprintf("fixes known security vulnerability (%s severity)", v.Severity),
		}
	}
	return deps.FixSuggestion{
		Kind: deps.SuggestResolveConflict,
		Description: fmt.Sprintf("No patched version of %s addresses security vulnerability %s (%s); consider alternative packages or compensating mitigations",
			v.Package, v.Vulnerability.ID, v.Vulnerability.Title),
		Risk:            advisoryRisk(v.Severity),
		Actions:         []deps.FixAction{},
		EstimatedImpact: "requires manual review of the security advisory",
	}
}

// dedupe drops suggestions sharing (kind, normalized description); the
// first occurrence wins.
func dedupe(in []deps.FixSuggestion) []deps.FixSuggestion {
	seen := make(map[string]struct{})
	out := in[:0]
	for _, s := range in {
		key := string(s.Kind) + "|" + strings.Join(strings.Fields(strings.ToLower(s.Description)), " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func peerRanges(group []deps.Issue) []string {
	var out []string
	for _, is := range group {
		if is.ExpectedVersion != "" {
			out = append(out, is.ExpectedVersion)
		}
	}
	return out
}

func orProject(requiredBy string) string {
	if requiredBy == "" {
		return "the project"
	}
	return requiredBy
}
