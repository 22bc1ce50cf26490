// Package version reports build information for the tabular binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo contains build information
type BuildInfo struct {
	Version    string `json:"version"`
	BuildDate  string `json:"build_date"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Dirty      bool   `json:"dirty"`
	ModulePath string `json:"module_path,omitempty"`
	Deps       int    `json:"deps"`
}

// Info returns the build information of the running binary. A commit left
// at its default is filled from the VCS settings recorded by the Go
// toolchain when available.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		Dirty:     strings.HasSuffix(GitCommit, "-dirty"),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.ModulePath = bi.Main.Path
		info.Deps = len(bi.Deps)
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == unknownValue {
					info.GitCommit = s.Value
				}
			case "vcs.modified":
				info.Dirty = info.Dirty || s.Value == "true"
			}
		}
	}
	return info
}

// String returns a multi-line version report
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("tabular\n")
	fmt.Fprintf(&sb, "Version: %s", b.Version)
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")

	if b.BuildDate != unknownValue {
		fmt.Fprintf(&sb, "Build Date: %s\n", b.BuildDate)
	}
	if b.GitCommit != unknownValue {
		commit := b.GitCommit
		if len(commit) > commitHashLength {
			commit = commit[:commitHashLength]
		}
		fmt.Fprintf(&sb, "Git Commit: %s\n", commit)
	}
	fmt.Fprintf(&sb, "Go Version: %s\n", b.GoVersion)
	if b.ModulePath != "" {
		fmt.Fprintf(&sb, "Module: %s\n", b.ModulePath)
	}
	return sb.String()
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// IsRelease reports whether Version is a valid semantic version without a
// pre-release suffix.
func IsRelease() bool {
	v := canonical(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// IsPreRelease reports whether Version carries a pre-release suffix.
func IsPreRelease() bool {
	v := canonical(Version)
	return semver.IsValid(v) && semver.Prerelease(v) != ""
}

// Compare orders two version strings by semantic version. Invalid
// versions order before valid ones.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}
