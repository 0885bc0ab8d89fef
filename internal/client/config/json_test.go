package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authctl.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("present keys overlay, absent keys stay", func(t *testing.T) {
		path := writeConfig(t, `{"server_endpoint_addr":"auth.example:9000","request_timeout":"3s"}`)
		os.Args = []string{"authctl", "-config", path, "whoami"}

		cfg := &Config{SessionFile: "keep.db", RequestTimeout: time.Minute}
		parseJson(cfg)

		assert.Equal(t, "auth.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "keep.db", cfg.SessionFile)
	})

	t.Run("no config flag", func(t *testing.T) {
		os.Args = []string{"authctl", "login"}

		cfg := &Config{ServerEndpointAddr: "defaults:1234"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ServerEndpointAddr)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"authctl", "-c", filepath.Join(t.TempDir(), "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("malformed file panics", func(t *testing.T) {
		os.Args = []string{"authctl", "-c", writeConfig(t, `{ not json`)}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeConfig(t, `{"server_endpoint_addr":"from-json:1","session_file":"json.db"}`)
	os.Args = []string{"authctl", "-c", path, "-a", "from-flag:2", "logout"}

	cfg := LoadConfig()

	assert.Equal(t, "from-flag:2", cfg.ServerEndpointAddr)
	assert.Equal(t, "json.db", cfg.SessionFile)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
