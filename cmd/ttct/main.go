// Package main provides the CLI entry point for ttct.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/cli"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if version == "dev" {
		info, _ := debug.ReadBuildInfo()
		b := stampFromBuildInfo(info)
		version, commit, date = b.version, b.commit, b.date
	}
	cli.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type buildStamp struct {
	version, commit, date string
}

// stampFromBuildInfo describes a binary built without ldflags, either by
// "go install" (module version) or from a checkout (vcs settings). The date
// is the commit day in UTC.
func stampFromBuildInfo(info *debug.BuildInfo) buildStamp {
	b := buildStamp{version: "dev", commit: "unknown", date: "unknown"}
	if info == nil {
		return b
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.version = v
	}

	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				b.commit = s.Value[:7]
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				b.date = t.UTC().Format(time.DateOnly)
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && b.commit != "unknown" {
		b.commit += "+dirty"
	}
	return b
}
