package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withVars(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestReleaseBuild(t *testing.T) {
	withVars(t, "v1.2.0", "0123456789abcdef", "2026-01-02T03:04:05Z")

	info := GetBuildInfo()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.True(t, info.Release)
	assert.Equal(t, "v1.2.0 (0123456)", GetShortVersion())

	s := info.String()
	assert.Contains(t, s, "Version: v1.2.0")
	assert.Contains(t, s, "Commit: 0123456789abcdef")
	assert.Contains(t, s, "Built: 2026-01-02T03:04:05Z")
	assert.Contains(t, s, "Build type: release")
}

func TestDevelopmentBuild(t *testing.T) {
	withVars(t, "dev", "unknown", "unknown")

	info := GetBuildInfo()
	assert.True(t, info.BuildTime.IsZero())
	assert.NotEmpty(t, info.Version)
	assert.NotContains(t, info.String(), "Built:")
	if strings.HasPrefix(info.Version, "dev") {
		assert.False(t, info.Release)
		assert.Contains(t, info.String(), "Build type: development")
	}
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2026-01-02T03:04:05Z", false},
		{"2026-01-02T03:04:05", false},
		{"2026-01-02 03:04:05", false},
		{"unknown", true},
		{"", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.zero, parseISOTime(tt.in).IsZero())
		})
	}
}
