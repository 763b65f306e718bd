package injector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/focusar/internal/config"
)

func TestInitializeApp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\nfocus:\n  focus_threshold: 2s\n"), 0o600))

	app, err := InitializeApp(path)
	require.NoError(t, err)
	require.NotNil(t, app.Engine)
	assert.Empty(t, app.Engine.ConfigErrors())
	assert.Same(t, app.Bus, app.Engine.Bus())
	assert.Equal(t, app.Config.Fingerprint(), app.Engine.Config().Fingerprint())

	app.Engine.Start()
	assert.Equal(t, 0, app.Broadcaster.Clients())
}

func TestInitializeAppInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: -1\n"), 0o600))

	_, err := InitializeApp(path)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
