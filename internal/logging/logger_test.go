package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"autorent/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := New(
		config.LoggingConfig{Level: "debug", Output: "file", FilePath: path},
		config.AppConfig{Name: "autorent", Environment: "test", Version: "dev"},
	)
	require.NoError(t, err)
	require.NotNil(t, closer)

	child := Component(logger, "worker")
	child.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "autorent", line["app"])
	assert.Equal(t, "worker", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	assert.Error(t, err)
}
