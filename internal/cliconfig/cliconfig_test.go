package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ab", config.Charset)
	assert.Equal(t, 2, config.MaxLen)
	assert.Equal(t, 3, config.ChainLen)
	assert.Equal(t, "sha1", config.Algorithm)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "charset: abcdef\nmaxLen: 4\nchainLen: 100\nalgorithm: sha256\nworkers: 8\ntableFile: table.rbt\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abcdef", config.Charset)
	assert.Equal(t, 4, config.MaxLen)
	assert.Equal(t, 100, config.ChainLen)
	assert.Equal(t, "sha256", config.Algorithm)
	assert.Equal(t, 8, config.Workers)
	assert.Equal(t, "table.rbt", config.TableFile)
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxLen: 5\n"), 0o644))

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, config.MaxLen)
	assert.Equal(t, "ab", config.Charset)
	assert.Equal(t, "sha1", config.Algorithm)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charset: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
