// Package version reports build metadata for the geostar binary.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Set with -ldflags "-X github.com/j-veylop/geostar-dashboard/internal/version.Version=...".
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	readBuildInfo = debug.ReadBuildInfo
	runGit        = git
)

// Reset clears resolved metadata so it is computed again on next access.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// resolve fills unset fields from, in order, the embedded module build
// info, the git checkout, and fixed fallbacks.
func resolve() {
	once.Do(func() {
		fromBuildInfo()
		if Commit == "" {
			out, err := runGit("rev-parse", "--short", "HEAD")
			Commit = orDefault(out, err, "unknown")
		}
		if Version == "" {
			out, err := runGit("describe", "--tags", "--abbrev=0")
			Version = orDefault(out, err, "dev")
		}
		if Date == "" {
			Date = time.Now().UTC().Format("2006-01-02")
		}
	})
}

func fromBuildInfo() {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return
	}
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" && s.Value != "" {
				Commit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.time":
			if Date == "" {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					Date = t.UTC().Format("2006-01-02")
				}
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && Commit != "" && !strings.HasSuffix(Commit, "-dirty") {
		Commit += "-dirty"
	}
}

func git(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func orDefault(v string, err error, fallback string) string {
	if err != nil || v == "" {
		return fallback
	}
	return v
}

// GetVersion returns the resolved version string.
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the resolved commit.
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	resolve()
	return Date
}

// Info returns the one-line description printed by "geostar version".
func Info() string {
	resolve()
	return fmt.Sprintf("geostar %s (commit: %s, built: %s, %s, %s/%s)",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
