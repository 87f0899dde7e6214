package planner

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"download_planner/internal/bittorrent"
	"download_planner/internal/download/types"
	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
	"download_planner/internal/protocol"
	"download_planner/internal/utils"
)

// newStreamJob builds a single-file job fetched from uris. The out option
// names the file only when useOutOption is set.
func newStreamJob(opt *option.Option, uris []string, useOutOption bool) (*types.Job, error) {
	path := ""
	if useOutOption && !opt.Blank(option.Out) {
		path = utils.ApplyDir(opt.Get(option.Dir), opt.Get(option.Out))
	}
	dctx := types.NewContext(opt.GetInt64(option.PieceLength), 0, path)
	fe := dctx.FirstFileEntry()
	fe.URIs = uris
	fe.MaxConnectionPerServer = opt.GetInt(option.MaxConnectionPerServer)

	if checksum := opt.Get(option.Checksum); checksum != "" {
		algo, digest, err := parseChecksum(checksum)
		if err != nil {
			return nil, err
		}
		dctx.SetDigest(algo, digest)
	}

	j := types.NewJob(opt)
	j.Kind = protocol.Stream
	j.SetDownloadContext(dctx)
	j.ConsumeOneshotOptions(opt)
	return j, nil
}

// parseChecksum splits "algo=hexdigest" at the first '='.
func parseChecksum(s string) (string, []byte, error) {
	algo, digest, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("%w: %q is not algo=digest", errpkg.ErrChecksum, s)
	}
	b, err := hex.DecodeString(strings.ToLower(digest))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q: %v", errpkg.ErrChecksum, s, err)
	}
	return strings.ToLower(algo), b, nil
}

// newTorrentJob decodes the torrent at torrentPath, or torrentData when it
// is not empty. auxURIs become web seeds.
func (p *Planner) newTorrentJob(torrentPath string, opt *option.Option, auxURIs []string, torrentData []byte, adjustAnnounce bool) (*types.Job, error) {
	dctx := &types.Context{}
	var metadata *types.MetadataInfo
	if len(torrentData) == 0 {
		if err := p.loader().Load(torrentPath, dctx, opt, auxURIs); err != nil {
			return nil, err
		}
		metadata = types.NewMetadataInfo(torrentPath)
	} else {
		if err := p.loader().LoadFromMemory(torrentData, dctx, opt, auxURIs, "default"); err != nil {
			return nil, err
		}
		metadata = types.NewMetadataInfoDataOnly()
	}
	if adjustAnnounce && dctx.Attrs != nil {
		bittorrent.AdjustAnnounceURI(dctx.Attrs, opt)
	}

	filter, err := option.ParseIntRange(opt.Get(option.SelectFile))
	if err != nil {
		return nil, err
	}
	dctx.SetFileFilter(filter)

	indexPaths, err := option.ParseIndexPathMap(opt.Get(option.IndexOut))
	if err != nil {
		return nil, err
	}
	indexes := make([]int, 0, len(indexPaths))
	for i := range indexPaths {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		if err := dctx.SetFilePathWithIndex(i, utils.ApplyDir(opt.Get(option.Dir), indexPaths[i])); err != nil {
			return nil, fmt.Errorf("%w: index-out: %v", errpkg.ErrMalformedOption, err)
		}
	}

	j := types.NewJob(opt)
	j.Kind = protocol.TorrentFile
	j.SetDownloadContext(dctx)
	j.Metadata = metadata
	// Web seeds must not be answered with a metalink document.
	j.RemoveMetalinkContentTypes()
	j.ConsumeOneshotOptions(opt)
	return j, nil
}

// newMagnetJob plans the metadata fetch of a magnet link. Only the info hash
// is known, so the payload stays in memory until ut_metadata completes.
func (p *Planner) newMagnetJob(magnet string, opt *option.Option) (*types.Job, error) {
	dctx := types.NewContext(types.MetadataPieceSize, 0, "")
	dctx.MarkTotalLengthUnknown()

	j := types.NewJob(opt)
	j.Kind = protocol.TorrentMagnet
	j.FileAllocationEnabled = false
	j.PreLocalFileCheckEnabled = false

	if err := p.loader().LoadMagnet(magnet, dctx); err != nil {
		return nil, err
	}
	if dctx.Attrs == nil {
		return nil, fmt.Errorf("%w: %s: no torrent attributes", errpkg.ErrDescriptorParse, magnet)
	}
	bittorrent.AdjustAnnounceURI(dctx.Attrs, j.Option)
	dctx.FirstFileEntry().Path = dctx.Attrs.Name

	j.SetDownloadContext(dctx)
	j.ClearPostDownloadHandlers()
	j.AddPostDownloadHandler(types.UTMetadataHandler{})
	j.DiskWriterFactory = types.ByteArrayDiskWriterFactory{}
	j.Metadata = types.NewMetadataInfo(magnet)
	j.MarkInMemoryDownload()
	j.ConsumeOneshotOptions(opt)
	return j, nil
}
