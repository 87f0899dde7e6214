package bittorrent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/download/types"
	"download_planner/internal/option"
)

func encodeTorrent(t *testing.T, info metainfo.Info, announce [][]string, urlList []string) []byte {
	t.Helper()
	infoBytes, err := bencode.Marshal(info)
	require.NoError(t, err)
	mi := metainfo.MetaInfo{
		InfoBytes:    infoBytes,
		AnnounceList: announce,
		UrlList:      urlList,
		Comment:      "fixture",
	}
	if len(announce) > 0 {
		mi.Announce = announce[0][0]
	}
	data, err := bencode.Marshal(mi)
	require.NoError(t, err)
	return data
}

func singleFileInfo() metainfo.Info {
	return metainfo.Info{
		Name:        "single.iso",
		PieceLength: 256 * 1024,
		Pieces:      make([]byte, 40),
		Length:      300 * 1024,
	}
}

func multiFileInfo() metainfo.Info {
	return metainfo.Info{
		Name:        "album",
		PieceLength: 16 * 1024,
		Pieces:      make([]byte, 20),
		Files: []metainfo.FileInfo{
			{Length: 100, Path: []string{"cd1", "01 intro.flac"}},
			{Length: 200, Path: []string{"cover.jpg"}},
		},
	}
}

func optWithDir(dir string) *option.Option {
	opt := option.New()
	opt.Put(option.Dir, dir)
	return opt
}

func TestLoad_SingleFile(t *testing.T) {
	data := encodeTorrent(t, singleFileInfo(), [][]string{{"http://tracker/announce"}}, []string{"http://seed/single.iso"})
	path := filepath.Join(t.TempDir(), "single.torrent")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	dctx := &types.Context{}
	err := Load(path, dctx, optWithDir("/downloads"), []string{"http://aux/single.iso"})
	require.NoError(t, err)

	require.Len(t, dctx.FileEntries, 1)
	fe := dctx.FileEntries[0]
	assert.Equal(t, filepath.Join("/downloads", "single.iso"), fe.Path)
	assert.Equal(t, int64(300*1024), fe.Length)
	assert.Equal(t, []string{"http://aux/single.iso", "http://seed/single.iso"}, fe.URIs)
	assert.Equal(t, int64(256*1024), dctx.PieceLength)
	assert.Len(t, dctx.PieceHashes, 2)
	assert.Equal(t, "sha-1", dctx.PieceHashAlgo)

	require.NotNil(t, dctx.Attrs)
	assert.Equal(t, "single.iso", dctx.Attrs.Name)
	assert.Len(t, dctx.Attrs.InfoHash, 40)
	assert.Equal(t, [][]string{{"http://tracker/announce"}}, dctx.Attrs.AnnounceList)
	assert.Equal(t, "fixture", dctx.Attrs.Comment)
}

func TestLoadFromMemory_MultiFile(t *testing.T) {
	data := encodeTorrent(t, multiFileInfo(), nil, []string{"http://seed/base/", "http://seed/notadir"})

	dctx := &types.Context{}
	err := LoadFromMemory(data, dctx, optWithDir("out"), nil, "memory")
	require.NoError(t, err)

	require.Len(t, dctx.FileEntries, 2)
	first, second := dctx.FileEntries[0], dctx.FileEntries[1]
	assert.Equal(t, filepath.Join("out", "album", "cd1", "01 intro.flac"), first.Path)
	assert.Equal(t, []string{"http://seed/base/album/cd1/01%20intro.flac"}, first.URIs)
	assert.Equal(t, int64(0), first.Offset)
	assert.Equal(t, filepath.Join("out", "album", "cover.jpg"), second.Path)
	assert.Equal(t, int64(100), second.Offset)
	assert.Equal(t, int64(300), dctx.TotalLength())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.torrent")
	require.NoError(t, os.WriteFile(path, []byte("d8:announce"), 0o644))

	err := Load(path, &types.Context{}, optWithDir("."), nil)
	assert.ErrorIs(t, err, errpkg.ErrDescriptorParse)

	err = LoadFromMemory([]byte("not bencode"), &types.Context{}, optWithDir("."), nil, "memory")
	assert.ErrorIs(t, err, errpkg.ErrDescriptorParse)

	bad := singleFileInfo()
	bad.Pieces = make([]byte, 7)
	err = LoadFromMemory(encodeTorrent(t, bad, nil, nil), &types.Context{}, optWithDir("."), nil, "memory")
	assert.ErrorIs(t, err, errpkg.ErrDescriptorParse)
}

func TestLoadMagnet(t *testing.T) {
	dctx := &types.Context{}
	err := LoadMagnet("magnet:?xt=urn:btih:248d0a1cd08284299de78d5c1ed359bb46717d8c&dn=ubuntu&tr=http%3A%2F%2Ft1%2Fannounce&tr=udp%3A%2F%2Ft2%3A80", dctx)
	require.NoError(t, err)
	require.NotNil(t, dctx.Attrs)
	assert.Equal(t, "[METADATA]ubuntu", dctx.Attrs.Name)
	assert.Equal(t, "248d0a1cd08284299de78d5c1ed359bb46717d8c", dctx.Attrs.InfoHash)
	assert.Equal(t, [][]string{{"http://t1/announce"}, {"udp://t2:80"}}, dctx.Attrs.AnnounceList)

	noName := &types.Context{}
	require.NoError(t, LoadMagnet("magnet:?xt=urn:btih:248d0a1cd08284299de78d5c1ed359bb46717d8c", noName))
	assert.Equal(t, "[METADATA]248d0a1cd08284299de78d5c1ed359bb46717d8c", noName.Attrs.Name)

	err = LoadMagnet("magnet:?dn=nohash", &types.Context{})
	assert.ErrorIs(t, err, errpkg.ErrDescriptorParse)
}

func TestAdjustAnnounceURI(t *testing.T) {
	newAttrs := func() *types.TorrentAttrs {
		return &types.TorrentAttrs{AnnounceList: [][]string{{"http://a", "http://b"}, {"http://c"}}}
	}

	opt := option.New()
	opt.Put(option.BtExcludeTracker, "http://b, http://c")
	opt.Put(option.BtTracker, "http://d,http://e")
	attrs := newAttrs()
	AdjustAnnounceURI(attrs, opt)
	assert.Equal(t, [][]string{{"http://a"}, {"http://d"}, {"http://e"}}, attrs.AnnounceList)

	opt.Put(option.BtExcludeTracker, "*")
	opt.Put(option.BtTracker, "")
	attrs = newAttrs()
	AdjustAnnounceURI(attrs, opt)
	assert.Empty(t, attrs.AnnounceList)

	attrs = newAttrs()
	AdjustAnnounceURI(attrs, option.New())
	assert.Equal(t, newAttrs().AnnounceList, attrs.AnnounceList)
}
