package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dlplan.conf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfFile(t *testing.T) {
	path := writeConf(t, "# defaults\nsplit=8\ndir=/data/downloads\nno-such-key=1\n")
	opt := option.NewDefault()

	require.NoError(t, LoadConfFile(path, opt))
	assert.Equal(t, 8, opt.GetInt(option.Split))
	assert.Equal(t, "/data/downloads", opt.Get(option.Dir))
	assert.False(t, opt.Defined("no-such-key"))
}

func TestLoadConfFileRejectsBadValue(t *testing.T) {
	path := writeConf(t, "split=0\ndir=/other\n")
	opt := option.NewDefault()

	err := LoadConfFile(path, opt)
	assert.ErrorIs(t, err, errpkg.ErrMalformedOption)
	assert.Equal(t, ".", opt.Get(option.Dir))
}

func TestLoadConfFileMissing(t *testing.T) {
	opt := option.NewDefault()
	assert.NoError(t, LoadConfFile(filepath.Join(t.TempDir(), "absent.conf"), opt))
}

func TestPathsFollowXDG(t *testing.T) {
	if os.Getenv("APPDATA") != "" {
		t.Skip("windows layout")
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	root := GetAppDir()
	if filepath.Dir(root) == home {
		assert.Equal(t, filepath.Join(home, "dlplan"), root)
		assert.Equal(t, filepath.Join(root, "dlplan.conf"), GetConfPath())
		assert.Equal(t, filepath.Join(root, "state", "journal.db"), GetJournalPath())
		require.NoError(t, EnsureDirs())
		assert.DirExists(t, GetLogsDir())
	}
}
