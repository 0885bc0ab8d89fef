package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	base := Config{ServerEndpointAddr: "127.0.0.1:50051", SessionFile: "authctl.db", RequestTimeout: 10 * time.Second}

	tests := []struct {
		name      string
		args      []string
		want      Config
		wantPanic bool
	}{
		{
			name: "all flags before the command",
			args: []string{"authctl", "-a", "auth.internal:443", "-s", "/tmp/s.db", "-t", "5", "login"},
			want: Config{ServerEndpointAddr: "auth.internal:443", SessionFile: "/tmp/s.db", RequestTimeout: 5 * time.Second},
		},
		{
			name: "inline form and unrelated flags",
			args: []string{"authctl", "-c", "cfg.json", "-s=other.db", "whoami"},
			want: Config{ServerEndpointAddr: base.ServerEndpointAddr, SessionFile: "other.db", RequestTimeout: base.RequestTimeout},
		},
		{
			name: "no flags keeps current values",
			args: []string{"authctl", "refresh"},
			want: base,
		},
		{
			name:      "non-numeric timeout",
			args:      []string{"authctl", "-t", "soon"},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := base

			if tt.wantPanic {
				require.Panics(t, func() { parseFlags(&cfg) })
				return
			}

			require.NotPanics(t, func() { parseFlags(&cfg) })
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}
