package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "tabular")
	assert.Contains(t, info.String(), "Go Version:")
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:    "v1.0.0",
		BuildDate:  "2024-01-01T00:00:00Z",
		GitCommit:  "abc123def456",
		GoVersion:  "go1.24.4",
		Dirty:      true,
		ModulePath: "github.com/paveg/tabular",
	}

	str := info.String()
	assert.Contains(t, str, "Version: v1.0.0 (dirty)")
	assert.Contains(t, str, "Build Date: 2024-01-01T00:00:00Z")
	assert.Contains(t, str, "Git Commit: abc123d")
	assert.Contains(t, str, "Module: github.com/paveg/tabular")

	bare := BuildInfo{Version: "dev", BuildDate: unknownValue, GitCommit: unknownValue, GoVersion: "go1.24.4"}
	assert.NotContains(t, bare.String(), "Git Commit")
	assert.NotContains(t, bare.String(), "Build Date")
}

func TestReleaseChecks(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	tests := []struct {
		version    string
		release    bool
		preRelease bool
	}{
		{"dev", false, false},
		{"1.2.3", true, false},
		{"v1.2.3", true, false},
		{"v1.2.3-rc.1", false, true},
		{"1.0.0-alpha", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.release, IsRelease())
			assert.Equal(t, tt.preRelease, IsPreRelease())
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare("1.0.0", "v1.1.0"))
	assert.Equal(t, 1, Compare("v2.0.0", "1.9.9"))
	assert.Equal(t, 0, Compare("1.0.0", "v1.0.0"))
	assert.Equal(t, 1, Compare("1.0.0", "1.0.0-rc.1"), "release orders after pre-release")
	assert.Equal(t, -1, Compare("dev", "0.0.1"))
}
