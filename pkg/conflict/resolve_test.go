package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

func TestFindCompatibleVersion(t *testing.T) {
	// ^1.2.0 and ^1.4.0 intersect at 1.4.x.
	v, ok := FindCompatibleVersion([]string{"^1.2.0", "^1.4.0"})
	require.True(t, ok)
	sat, err := deps.ParseVersion(v)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sat.Major())
	assert.GreaterOrEqual(t, sat.Minor(), uint64(4))

	// ^16.0.0 and ^17.0.0 cannot intersect; fall back to the highest floor.
	v, ok = FindCompatibleVersion([]string{"^16.0.0", "^17.0.0"})
	assert.False(t, ok)
	assert.Equal(t, "17.0.0", v)

	// Nothing parseable at all.
	v, ok = FindCompatibleVersion([]string{"latest", "next"})
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestResolve_VersionRangeWithoutIntersection(t *testing.T) {
	c := deps.Conflict{
		Kind: deps.ConflictVersionRange,
		Packages: []deps.ConflictingPackage{
			{Name: "react", Version: "^16.0.0", RequiredBy: "legacy-ui"},
			{Name: "react", Version: "^17.0.0", RequiredBy: "modern-ui"},
		},
		Description: "2 competing version requirements for react",
		Severity:    deps.ConflictError,
	}

	r := Resolve(c)
	require.Len(t, r.Changes, 1, "one change per affected package")
	assert.Equal(t, "react", r.Changes[0].Package)
	assert.Equal(t, "17.0.0", r.Changes[0].ToVersion)
	assert.GreaterOrEqual(t, r.Risk.Level.Rank(), deps.RiskMedium.Rank(),
		"crossing a major boundary escalates risk to at least medium")
	assert.NotEmpty(t, r.Risk.Factors)
	assert.NotEmpty(t, r.Explanation)
	assert.True(t, ValidateResolution(r))
}

func TestResolve_VersionRangeWithIntersection(t *testing.T) {
	c := deps.Conflict{
		Kind: deps.ConflictVersionRange,
		Packages: []deps.ConflictingPackage{
			{Name: "debug", Version: "^4.1.0"},
			{Name: "debug", Version: "^4.3.0"},
		},
		Severity: deps.ConflictWarning,
	}
	r := Resolve(c)
	assert.Equal(t, deps.StrategyUpdateToCompatible, r.Strategy)
	require.Len(t, r.Changes, 1)
	assert.True(t, deps.ValidVersion(r.Changes[0].ToVersion))
	assert.True(t, ValidateResolution(r))
}

func TestResolve_PeerDependencyAddsPeer(t *testing.T) {
	c := deps.Conflict{
		Kind: deps.ConflictPeerDependency,
		Packages: []deps.ConflictingPackage{
			{Name: "react-dom", Version: "^18.0.0", RequiredBy: "some-widget"},
		},
		Severity: deps.ConflictError,
	}
	r := Resolve(c)
	assert.Equal(t, deps.StrategyAddPeerDependency, r.Strategy)
	require.Len(t, r.Changes, 1)
	assert.Equal(t, deps.ChangeInstall, r.Changes[0].Type)
	assert.Equal(t, deps.NotInstalled, r.Changes[0].FromVersion)
}

func TestResolve_CriticalConflictEscalatesAndMitigates(t *testing.T) {
	c := deps.Conflict{
		Kind: deps.ConflictVersionRange,
		Packages: []deps.ConflictingPackage{
			{Name: "left-pad", Version: "^1.0.0"},
			{Name: "left-pad", Version: "^3.0.0"},
		},
		Severity: deps.ConflictCritical,
	}
	r := Resolve(c)
	assert.GreaterOrEqual(t, r.Risk.Level.Rank(), deps.RiskMedium.Rank())
	assert.NotEmpty(t, r.Risk.Mitigations, "above-low risk carries the standard mitigations")
}

func TestValidateResolution(t *testing.T) {
	valid := deps.Resolution{
		Strategy: deps.StrategyUpdateToCompatible,
		Changes: []deps.PackageChange{
			{Package: "a", FromVersion: "1.0.0", ToVersion: "1.2.0", Type: deps.ChangeUpdate},
		},
		Risk: deps.RiskAssessment{Level: deps.RiskLow},
	}
	assert.True(t, ValidateResolution(valid))

	tests := []struct {
		name string
		mut  func(r *deps.Resolution)
	}{
		{"garbage target version", func(r *deps.Resolution) {
			r.Changes[0].ToVersion = "not-a-version"
		}},
		{"update moving backwards", func(r *deps.Resolution) {
			r.Changes[0].ToVersion = "0.9.0"
		}},
		{"downgrade moving forwards", func(r *deps.Resolution) {
			r.Changes[0].Type = deps.ChangeDowngrade
			r.Changes[0].ToVersion = "2.0.0"
		}},
		{"duplicate package names", func(r *deps.Resolution) {
			r.Changes = append(r.Changes, r.Changes[0])
		}},
		{"critical risk without mitigations", func(r *deps.Resolution) {
			r.Risk = deps.RiskAssessment{Level: deps.RiskCritical}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := deps.Resolution{
				Strategy: valid.Strategy,
				Changes: []deps.PackageChange{
					{Package: "a", FromVersion: "1.0.0", ToVersion: "1.2.0", Type: deps.ChangeUpdate},
				},
				Risk: deps.RiskAssessment{Level: deps.RiskLow},
			}
			tt.mut(&r)
			assert.False(t, ValidateResolution(r))
		})
	}

	// Remove changes need no target version.
	removal := deps.Resolution{
		Strategy: deps.StrategyRemoveConflicting,
		Changes: []deps.PackageChange{
			{Package: "a", FromVersion: "1.0.0", Type: deps.ChangeRemove},
		},
		Risk: deps.RiskAssessment{Level: deps.RiskMedium},
	}
	assert.True(t, ValidateResolution(removal))
}

func TestValidateResolution_Idempotent(t *testing.T) {
	r := deps.Resolution{
		Strategy: deps.StrategyUpdateToCompatible,
		Changes: []deps.PackageChange{
			{Package: "a", FromVersion: "1.0.0", ToVersion: "2.0.0", Type: deps.ChangeUpdate},
		},
		Risk: deps.RiskAssessment{Level: deps.RiskLow},
	}
	first := ValidateResolution(r)
	second := ValidateResolution(r)
	assert.Equal(t, first, second)
}
