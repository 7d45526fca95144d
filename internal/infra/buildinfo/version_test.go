package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}
}

func TestString(t *testing.T) {
	info := Get()
	s := String()
	for _, part := range []string{info.Version, "(" + info.Commit + ")", "built at " + info.BuildTime, info.GoVersion} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}

func TestFillFromModule(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.4",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	info := Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}
	fillFromModule(&info, bi)

	want := Info{Version: "v0.3.0", Commit: "abc123", BuildTime: "2026-01-02T03:04:05Z", GoVersion: "go1.24.4"}
	if info != want {
		t.Errorf("fillFromModule() = %+v, want %+v", info, want)
	}
}

func TestFillFromModule_LdflagsWin(t *testing.T) {
	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	}

	info := Info{Version: "v1.0.0", Commit: "deadbeef", BuildTime: "yesterday", GoVersion: "go1.24"}
	fillFromModule(&info, bi)

	if info.Version != "v1.0.0" || info.Commit != "deadbeef" || info.BuildTime != "yesterday" {
		t.Errorf("fillFromModule() overwrote ldflags values: %+v", info)
	}
}
