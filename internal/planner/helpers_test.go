package planner

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/stretchr/testify/require"

	"download_planner/internal/option"
)

const testMagnet = "magnet:?xt=urn:btih:248d0a1cd08284299de78d5c1ed359bb46717d8c&dn=ubuntu&tr=http%3A%2F%2Ftracker%2Fannounce"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bufferLogger records log lines so tests can count diagnostics.
type bufferLogger struct {
	buf bytes.Buffer
}

func (b *bufferLogger) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&b.buf, nil))
}

func (b *bufferLogger) count(msg string) int {
	return strings.Count(b.buf.String(), msg)
}

func testOption() *option.Option {
	opt := option.NewDefault()
	opt.Put(option.Dir, "/dl")
	return opt
}

func torrentBytes(t *testing.T) []byte {
	t.Helper()
	info := metainfo.Info{
		Name:        "album",
		PieceLength: 16 * 1024,
		Pieces:      make([]byte, 20),
		Files: []metainfo.FileInfo{
			{Length: 100, Path: []string{"a.flac"}},
			{Length: 200, Path: []string{"b.flac"}},
			{Length: 300, Path: []string{"c.jpg"}},
		},
	}
	infoBytes, err := bencode.Marshal(info)
	require.NoError(t, err)
	data, err := bencode.Marshal(metainfo.MetaInfo{
		InfoBytes:    infoBytes,
		Announce:     "http://tracker/announce",
		AnnounceList: [][]string{{"http://tracker/announce"}},
	})
	require.NoError(t, err)
	return data
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
