package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

const (
	// Version is the release of the table export service and CLI
	Version = "1.2.0"

	// APIVersion is the version of the HTTP export API
	APIVersion = "v1"
)

// Set at build time with -ldflags "-X commonui/pkg/contracts.GitCommit=...".
// When left unset they fall back to the VCS stamp embedded by the go tool.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the build metadata reported by GET /api/version and the
// CLI -version flag
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var (
	buildInfoOnce sync.Once
	buildInfo     VersionInfo
)

// GetVersionInfo returns the version metadata of the running binary
func GetVersionInfo() VersionInfo {
	buildInfoOnce.Do(func() {
		buildInfo = readVersionInfo(debug.ReadBuildInfo)
	})
	return buildInfo
}

func readVersionInfo(read func() (*debug.BuildInfo, bool)) VersionInfo {
	info := VersionInfo{
		Version:    Version,
		APIVersion: APIVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := read()
	if !ok || bi == nil {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the first 12 characters of the commit hash
func (v VersionInfo) ShortCommit() string {
	if len(v.GitCommit) > 12 {
		return v.GitCommit[:12]
	}
	return v.GitCommit
}

// GetFullVersionString returns a one-line description of the binary
func GetFullVersionString() string {
	info := GetVersionInfo()
	commit := info.ShortCommit()
	if info.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("commonui table export v%s (api %s, built: %s, commit: %s, %s, %s)",
		info.Version, info.APIVersion, info.BuildTime, commit, info.GoVersion, info.Platform)
}
