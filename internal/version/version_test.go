package version

import (
	"errors"
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, info *debug.BuildInfo, gitOut map[string]string) {
	t.Helper()
	prevInfo, prevGit := readBuildInfo, runGit
	t.Cleanup(func() {
		readBuildInfo, runGit = prevInfo, prevGit
		Reset()
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	runGit = func(args ...string) (string, error) {
		if out, ok := gitOut[args[0]]; ok {
			return out, nil
		}
		return "", errors.New("not a git checkout")
	}
	Reset()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		info        *debug.BuildInfo
		git         map[string]string
		wantVersion string
		wantCommit  string
		wantDate    string
	}{
		{
			name: "build info",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.time", Value: "2024-03-01T10:00:00Z"},
				},
			},
			wantVersion: "v1.2.0",
			wantCommit:  "0123456789ab",
			wantDate:    "2024-03-01",
		},
		{
			name: "dirty tree",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			git:         map[string]string{"describe": "v0.9.0"},
			wantVersion: "v0.9.0",
			wantCommit:  "abc123-dirty",
		},
		{
			name:        "git fallback",
			git:         map[string]string{"rev-parse": "feed42", "describe": "v0.1.0"},
			wantVersion: "v0.1.0",
			wantCommit:  "feed42",
		},
		{
			name:        "nothing available",
			wantVersion: "dev",
			wantCommit:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.info, tt.git)

			if got := GetVersion(); got != tt.wantVersion {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVersion)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}
			if tt.wantDate != "" && GetDate() != tt.wantDate {
				t.Errorf("GetDate() = %q, want %q", GetDate(), tt.wantDate)
			}
			if GetDate() == "" {
				t.Error("GetDate() returned empty string")
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	stub(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}}, nil)
	Version, Commit, Date = "v2.0.0", "cafe", "2024-06-01"

	if GetVersion() != "v2.0.0" || GetCommit() != "cafe" || GetDate() != "2024-06-01" {
		t.Errorf("ldflags values were overridden: %s %s %s", Version, Commit, Date)
	}
}

func TestInfo(t *testing.T) {
	stub(t, nil, map[string]string{"rev-parse": "feed42", "describe": "v0.1.0"})

	info := Info()
	for _, s := range []string{"geostar v0.1.0", "commit: feed42", "built: "} {
		if !strings.Contains(info, s) {
			t.Errorf("Info() = %q, missing %q", info, s)
		}
	}
}
