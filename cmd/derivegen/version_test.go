package main

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionFrom(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
		want string
	}{
		{name: "no build info", want: "0.1.0"},
		{name: "installed", ok: true, info: &debug.BuildInfo{Main: debug.Module{Version: "v0.1.2"}}, want: "v0.1.2"},
		{
			name: "devel with revision",
			ok:   true,
			info: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abcdef0123"}},
			},
			want: "devel-0.1.0+abcdef0",
		},
		{name: "devel", ok: true, info: &debug.BuildInfo{}, want: "devel-0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := versionFrom("0.1.0", func() (*debug.BuildInfo, bool) { return tt.info, tt.ok })
			assert.Equal(t, tt.want, got)
		})
	}
}
