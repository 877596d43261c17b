package contracts

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadVersionInfo(t *testing.T) {
	tests := []struct {
		name       string
		build      *debug.BuildInfo
		ok         bool
		wantCommit string
		wantTime   string
		wantDirty  bool
	}{
		{
			name:       "no build info",
			ok:         false,
			wantCommit: GitCommit,
			wantTime:   BuildTime,
		},
		{
			name: "vcs stamp",
			build: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			}},
			ok:         true,
			wantCommit: "0123456789abcdef0123",
			wantTime:   "2026-10-01T12:00:00Z",
			wantDirty:  true,
		},
		{
			name:       "build without vcs",
			build:      &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "-trimpath", Value: "true"}}},
			ok:         true,
			wantCommit: GitCommit,
			wantTime:   BuildTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := readVersionInfo(func() (*debug.BuildInfo, bool) { return tt.build, tt.ok })

			assert.Equal(t, Version, info.Version)
			assert.Equal(t, APIVersion, info.APIVersion)
			assert.Equal(t, tt.wantCommit, info.GitCommit)
			assert.Equal(t, tt.wantTime, info.BuildTime)
			assert.Equal(t, tt.wantDirty, info.Modified)
			assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
		})
	}
}

func TestLdflagsWinOverVCS(t *testing.T) {
	saved := GitCommit
	GitCommit = "release-abc"
	t.Cleanup(func() { GitCommit = saved })

	info := readVersionInfo(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "feedface"}}}, true
	})
	assert.Equal(t, "release-abc", info.GitCommit)
}

func TestShortCommit(t *testing.T) {
	assert.Equal(t, "0123456789ab", VersionInfo{GitCommit: "0123456789abcdef"}.ShortCommit())
	assert.Equal(t, "unknown", VersionInfo{GitCommit: "unknown"}.ShortCommit())
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString()
	assert.True(t, strings.HasPrefix(s, "commonui table export v"+Version))
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, s, "api "+APIVersion)
}
