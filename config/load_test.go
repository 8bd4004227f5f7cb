package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFileAppliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casual.toml")
	content := `
[domain]
boot_deadline = "10s"

[[queue]]
name = "orders"
retry_count = 5
retry_delay = "200ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Equal(t, "10s", cfg.Domain.BootDeadline.String())
	require.Equal(t, "linger", cfg.Service.DefaultContract) // default carried through
	require.Len(t, cfg.Queue, 1)
	require.Equal(t, "orders", cfg.Queue[0].Name)
	require.Equal(t, 5, cfg.Queue[0].RetryCount)
}

func TestWatcherDebouncesAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casual.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[domain]
boot_deadline = "1s"
`), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	reloaded := make(chan *Config, 1)
	w.OnReload(func(c *Config) error {
		reloaded <- c
		return nil
	})

	require.NoError(t, os.WriteFile(path, []byte(`[domain]
boot_deadline = "2s"
`), 0o644))

	select {
	case cfg := <-reloaded:
		require.Equal(t, "2s", cfg.Domain.BootDeadline.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload callback")
	}
}
