package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// PrintTextReport renders the report as aligned text tables with the
// health score up top and the ranked suggestions at the bottom.
func PrintTextReport(w io.Writer, r Report) {
	const descLimit = 70

	fmt.Fprintf(w, "Project: %s\n", r.ProjectPath)
	fmt.Fprintf(w, "Health score: %d/100\n\n", r.HealthScore)

	if len(r.Issues) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tPACKAGE\tCURRENT\tEXPECTED\tLATEST\tSEVERITY\tFIXABLE")
		fmt.Fprintln(tw, "----\t-------\t-------\t--------\t------\t--------\t-------")
		for _, is := range r.Issues {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
				is.Kind, is.Package,
				orDash(is.CurrentVersion), orDash(is.ExpectedVersion), orDash(is.LatestVersion),
				is.Severity, is.Fixable)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(r.Vulnerabilities) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PACKAGE\tVERSION\tADVISORY\tSEVERITY\tFIXED IN")
		fmt.Fprintln(tw, "-------\t-------\t--------\t--------\t--------")
		for _, v := range r.Vulnerabilities {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				v.Package, v.Version, v.Vulnerability.ID, v.Severity, orDash(v.FixedIn))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	for _, c := range r.Conflicts {
		fmt.Fprintf(w, "conflict [%s/%s]: %s\n", c.Kind, c.Severity, c.Description)
	}
	if len(r.Conflicts) > 0 {
		fmt.Fprintln(w)
	}

	if len(r.Plan.Applied) > 0 {
		fmt.Fprintln(w, "Resolution plan (least disruptive first):")
		for _, res := range r.Plan.Applied {
			fmt.Fprintf(w, "  [%s] %s\n", res.Risk.Level, res.Explanation)
			for _, ch := range res.Changes {
				if ch.Type == deps.ChangeRemove {
					fmt.Fprintf(w, "      remove %s\n", ch.Package)
					continue
				}
				fmt.Fprintf(w, "      %s %s %s -> %s\n", ch.Type, ch.Package, ch.FromVersion, ch.ToVersion)
			}
		}
		fmt.Fprintln(w)
	}
	for _, msg := range r.Plan.CompatibilityIssues {
		fmt.Fprintf(w, "plan conflict: %s\n", msg)
	}
	if len(r.Plan.CompatibilityIssues) > 0 {
		fmt.Fprintln(w)
	}

	for i, s := range r.Suggestions {
		desc := s.Description
		if len(desc) > descLimit {
			desc = desc[:descLimit-3] + "..."
		}
		desc = strings.ReplaceAll(desc, "\t", " ")
		fmt.Fprintf(w, "%2d. [%s] %s (%s)\n", i+1, s.Risk, desc, s.EstimatedImpact)
		for _, a := range s.Actions {
			if a.Command != "" {
				fmt.Fprintf(w, "      $ %s\n", a.Command)
			}
		}
	}

	for _, u := range r.Unresolvable {
		fmt.Fprintf(w, "\nunresolvable: %s\n", u.Explanation)
		for _, opt := range u.ManualOptions {
			fmt.Fprintf(w, "  - %s\n", opt)
		}
	}
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
