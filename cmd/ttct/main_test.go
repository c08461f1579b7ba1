package main

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStampFromBuildInfo(t *testing.T) {
	vcs := func(kv ...string) []debug.BuildSetting {
		var out []debug.BuildSetting
		for i := 0; i+1 < len(kv); i += 2 {
			out = append(out, debug.BuildSetting{Key: kv[i], Value: kv[i+1]})
		}
		return out
	}

	tests := []struct {
		name string
		info *debug.BuildInfo
		want buildStamp
	}{
		{
			name: "no build info",
			want: buildStamp{"dev", "unknown", "unknown"},
		},
		{
			name: "go install",
			info: &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}},
			want: buildStamp{"v0.3.0", "unknown", "unknown"},
		},
		{
			name: "checkout build",
			info: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: vcs("vcs.modified", "false", "vcs.revision", "9f86d081884c7d65", "vcs.time", "2026-10-18T23:30:00-02:00"),
			},
			want: buildStamp{"dev", "9f86d08", "2026-10-19"},
		},
		{
			name: "uncommitted changes",
			info: &debug.BuildInfo{Settings: vcs("vcs.modified", "true", "vcs.revision", "9f86d081884c7d65")},
			want: buildStamp{"dev", "9f86d08+dirty", "unknown"},
		},
		{
			name: "unusable vcs values",
			info: &debug.BuildInfo{Settings: vcs("vcs.modified", "true", "vcs.revision", "9f86", "vcs.time", "yesterday")},
			want: buildStamp{"dev", "unknown", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stampFromBuildInfo(tt.info))
		})
	}
}
