package deps

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a version string, tolerating the range prefixes that
// show up in manifests ("^1.2.3", "~1.2.3", ">=1.2.3", "v1.2.3").
func ParseVersion(v string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimLeft(strings.TrimSpace(v), "^~<>= v"))
}

// ValidVersion reports whether v parses as a semantic version.
func ValidVersion(v string) bool {
	_, err := ParseVersion(v)
	return err == nil
}

// RangeMinimum extracts the lowest version named by a range expression.
// Range syntax is not fully interpreted; the first version-shaped token is
// taken as the floor, which holds for the common "^x.y.z", "~x.y.z" and
// ">=x.y.z" forms.
func RangeMinimum(r string) (*semver.Version, bool) {
	for _, tok := range strings.FieldsFunc(r, func(c rune) bool {
		return c == ' ' || c == ',' || c == '|'
	}) {
		if v, err := ParseVersion(tok); err == nil {
			return v, true
		}
	}
	return nil, false
}

// CrossesMajor reports whether moving between the two versions changes the
// major version. Unparseable versions are treated as crossing, since the
// magnitude of the change cannot be bounded.
func CrossesMajor(from, to string) bool {
	fv, err1 := ParseVersion(from)
	tv, err2 := ParseVersion(to)
	if err1 != nil || err2 != nil {
		return true
	}
	return fv.Major() != tv.Major()
}
