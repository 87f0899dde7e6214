// Package bittorrent decodes torrent files and magnet links into download
// contexts.
package bittorrent

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/download/types"
	"download_planner/internal/option"
	"download_planner/internal/utils"
)

// Loader is the set of decoding operations the planner needs. The package
// level functions implement it through DefaultLoader.
type Loader interface {
	Load(torrentPath string, dctx *types.Context, opt *option.Option, auxURIs []string) error
	LoadFromMemory(data []byte, dctx *types.Context, opt *option.Option, auxURIs []string, name string) error
	LoadMagnet(magnet string, dctx *types.Context) error
}

// DefaultLoader decodes with anacrolix/torrent.
type DefaultLoader struct{}

func (DefaultLoader) Load(torrentPath string, dctx *types.Context, opt *option.Option, auxURIs []string) error {
	return Load(torrentPath, dctx, opt, auxURIs)
}

func (DefaultLoader) LoadFromMemory(data []byte, dctx *types.Context, opt *option.Option, auxURIs []string, name string) error {
	return LoadFromMemory(data, dctx, opt, auxURIs, name)
}

func (DefaultLoader) LoadMagnet(magnet string, dctx *types.Context) error {
	return LoadMagnet(magnet, dctx)
}

// Load decodes the torrent file at torrentPath into dctx.
func Load(torrentPath string, dctx *types.Context, opt *option.Option, auxURIs []string) error {
	mi, err := metainfo.LoadFromFile(torrentPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errpkg.ErrDescriptorParse, torrentPath, err)
	}
	if err := populate(mi, dctx, opt, auxURIs); err != nil {
		return fmt.Errorf("%s: %w", torrentPath, err)
	}
	return nil
}

// LoadFromMemory decodes torrent bytes. name only labels errors.
func LoadFromMemory(data []byte, dctx *types.Context, opt *option.Option, auxURIs []string, name string) error {
	mi, err := metainfo.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errpkg.ErrDescriptorParse, name, err)
	}
	if err := populate(mi, dctx, opt, auxURIs); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func populate(mi *metainfo.MetaInfo, dctx *types.Context, opt *option.Option, auxURIs []string) error {
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return fmt.Errorf("%w: info dictionary: %v", errpkg.ErrDescriptorParse, err)
	}
	if info.PieceLength <= 0 {
		return fmt.Errorf("%w: piece length must be positive", errpkg.ErrDescriptorParse)
	}
	if len(info.Pieces)%20 != 0 {
		return fmt.Errorf("%w: pieces length is not a multiple of 20", errpkg.ErrDescriptorParse)
	}
	name := info.Name
	if info.NameUtf8 != "" {
		name = info.NameUtf8
	}
	if name == "" {
		return fmt.Errorf("%w: missing name", errpkg.ErrDescriptorParse)
	}

	attrs := &types.TorrentAttrs{
		Name:         name,
		InfoHash:     mi.HashInfoBytes().HexString(),
		AnnounceList: announceList(mi),
		URLList:      []string(mi.UrlList),
		Comment:      mi.Comment,
		CreatedBy:    mi.CreatedBy,
		CreationDate: mi.CreationDate,
		MetadataSize: len(mi.InfoBytes),
	}
	if info.Private != nil {
		attrs.Private = *info.Private
	}

	dir := opt.Get(option.Dir)
	webSeeds := append(append([]string(nil), auxURIs...), attrs.URLList...)

	var entries []*types.FileEntry
	var offset int64
	if !info.IsDir() {
		entries = append(entries, &types.FileEntry{
			Path:      utils.ApplyDir(dir, utils.SanitizeFilename(name)),
			Length:    info.Length,
			URIs:      webSeeds,
			Requested: true,
		})
	} else {
		for _, fi := range info.UpvertedFiles() {
			components := fi.Path
			if len(fi.PathUtf8) > 0 {
				components = fi.PathUtf8
			}
			if len(components) == 0 {
				return fmt.Errorf("%w: file with empty path", errpkg.ErrDescriptorParse)
			}
			elems := make([]string, 0, len(components)+1)
			elems = append(elems, utils.SanitizeFilename(name))
			for _, c := range components {
				elems = append(elems, utils.SanitizeFilename(c))
			}
			entries = append(entries, &types.FileEntry{
				Path:      utils.ApplyDir(dir, filepath.Join(elems...)),
				Length:    fi.Length,
				Offset:    offset,
				URIs:      mapWebSeeds(webSeeds, name, components),
				Requested: true,
			})
			offset += fi.Length
		}
	}

	hashes := make([][]byte, 0, len(info.Pieces)/20)
	for i := 0; i < len(info.Pieces); i += 20 {
		hashes = append(hashes, info.Pieces[i:i+20])
	}

	dctx.PieceLength = info.PieceLength
	dctx.FileEntries = entries
	dctx.PieceHashAlgo = "sha-1"
	dctx.PieceHashes = hashes
	dctx.Attrs = attrs
	return nil
}

// mapWebSeeds turns base URIs into per-file URIs for a multi-file torrent.
// Only URIs ending in "/" can address a member file.
func mapWebSeeds(bases []string, name string, components []string) []string {
	var out []string
	for _, base := range bases {
		if !strings.HasSuffix(base, "/") {
			continue
		}
		escaped := make([]string, 0, len(components)+1)
		escaped = append(escaped, url.PathEscape(name))
		for _, c := range components {
			escaped = append(escaped, url.PathEscape(c))
		}
		out = append(out, base+path.Join(escaped...))
	}
	return out
}

func announceList(mi *metainfo.MetaInfo) [][]string {
	var tiers [][]string
	for _, tier := range mi.UpvertedAnnounceList() {
		if len(tier) > 0 {
			tiers = append(tiers, append([]string(nil), tier...))
		}
	}
	return tiers
}

// LoadMagnet decodes a magnet link. Only the info hash, display name and
// trackers are known afterwards.
func LoadMagnet(magnet string, dctx *types.Context) error {
	m, err := metainfo.ParseMagnetUri(magnet)
	if err != nil {
		return fmt.Errorf("%w: bad magnet link: %v", errpkg.ErrDescriptorParse, err)
	}
	hash := m.InfoHash.HexString()
	name := "[METADATA]"
	if m.DisplayName != "" {
		name += utils.SanitizeFilename(m.DisplayName)
	} else {
		name += hash
	}

	attrs := &types.TorrentAttrs{
		Name:     name,
		InfoHash: hash,
	}
	for _, tr := range m.Trackers {
		attrs.AnnounceList = append(attrs.AnnounceList, []string{tr})
	}
	dctx.Attrs = attrs
	return nil
}
