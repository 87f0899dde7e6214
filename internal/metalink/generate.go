package metalink

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"download_planner/internal/download/types"
	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
	"download_planner/internal/protocol"
	"download_planner/internal/utils"
)

// Subtracted from the priority of resources matching metalink-location or
// metalink-preferred-protocol.
const priorityBoost = 100

// Generator turns metalink documents into jobs.
type Generator struct{}

// GenerateFromFile reads the document at path.
func (g Generator) GenerateFromFile(path string, opt *option.Option, baseURI string) ([]*types.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errpkg.ErrFileAccess, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g.Generate(entries, opt, baseURI)
}

// GenerateFromMemory decodes data, a document received in memory.
func (g Generator) GenerateFromMemory(data []byte, opt *option.Option, baseURI string) ([]*types.Job, error) {
	entries, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return g.Generate(entries, opt, baseURI)
}

// Generate emits one job per selected entry, in document order. Entries are
// narrowed by metalink-version, metalink-language and metalink-os, then by
// select-file, whose indexes count the entries that survived the filters.
func (g Generator) Generate(entries []*Entry, opt *option.Option, baseURI string) ([]*types.Job, error) {
	entries = query(entries, opt.Get(option.MetalinkVersion), opt.Get(option.MetalinkLanguage), opt.Get(option.MetalinkOS))

	selected, err := option.ParseIntRange(opt.Get(option.SelectFile))
	if err != nil {
		return nil, err
	}

	var jobs []*types.Job
	for i, e := range entries {
		if len(selected) > 0 && !selected.Contains(i+1) {
			continue
		}
		if j := torrentJob(e, opt, baseURI); j != nil {
			jobs = append(jobs, j)
		}
		uris := orderResources(e, opt, baseURI)
		if len(uris) == 0 {
			continue
		}
		j, err := fileJob(e, uris, opt)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func query(entries []*Entry, version, language, osName string) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if version != "" && version != e.Version {
			continue
		}
		if language != "" && !containsFold(e.Languages, language) {
			continue
		}
		if osName != "" && !containsFold(e.OSes, osName) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func resolve(loc, baseURI string) (string, bool) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		return loc, true
	}
	if baseURI == "" {
		return "", false
	}
	base, err := url.Parse(baseURI)
	if err != nil || !base.IsAbs() {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}

// orderResources returns the entry's usable URIs, best first.
func orderResources(e *Entry, opt *option.Option, baseURI string) []string {
	locations := option.SplitList(strings.ToLower(opt.Get(option.MetalinkLocation)))
	preferred := strings.ToLower(opt.Get(option.MetalinkPreferredProtocol))

	var res []Resource
	for _, r := range e.Resources {
		loc, ok := resolve(r.URL, baseURI)
		if !ok || !protocol.IsStreamProtocol(loc) {
			continue
		}
		c := *r
		c.URL = loc
		if c.Type == "" {
			c.Type = schemeOf(loc)
		}
		for _, l := range locations {
			if c.Location == l {
				c.Priority -= priorityBoost
				break
			}
		}
		if preferred != "" && preferred != "none" && c.Type == preferred {
			c.Priority -= priorityBoost
		}
		res = append(res, c)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Priority < res[j].Priority })

	unique := opt.GetBool(option.MetalinkEnableUniqueProtocol)
	seenHost := make(map[string]bool)
	var uris []string
	for _, r := range res {
		if unique {
			host := hostOf(r.URL)
			if seenHost[host] {
				continue
			}
			seenHost[host] = true
		}
		uris = append(uris, r.URL)
	}
	return uris
}

func hostOf(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return strings.ToLower(u.Hostname())
}

func fileJob(e *Entry, uris []string, opt *option.Option) (*types.Job, error) {
	path := utils.ApplyDir(opt.Get(option.Dir), utils.SanitizePath(e.Name))
	pieceLength := opt.GetInt64(option.PieceLength)
	if e.PieceLength > 0 {
		pieceLength = e.PieceLength
	}
	dctx := types.NewContext(pieceLength, e.Size, path)
	fe := dctx.FirstFileEntry()
	fe.URIs = uris
	fe.MaxConnectionPerServer = opt.GetInt(option.MaxConnectionPerServer)

	if c := e.StrongestChecksum(); c != nil {
		digest, err := hex.DecodeString(c.Hex)
		if err != nil {
			return nil, fmt.Errorf("%w: %s digest of %s: %v", errpkg.ErrDescriptorParse, c.Algo, e.Name, err)
		}
		dctx.SetDigest(c.Algo, digest)
	}
	if e.PieceLength > 0 {
		hashes := make([][]byte, 0, len(e.PieceHashes))
		for _, h := range e.PieceHashes {
			b, err := hex.DecodeString(h)
			if err != nil {
				return nil, fmt.Errorf("%w: piece hash of %s: %v", errpkg.ErrDescriptorParse, e.Name, err)
			}
			hashes = append(hashes, b)
		}
		dctx.PieceHashAlgo = e.PieceHashAlgo
		dctx.PieceHashes = hashes
	}

	j := types.NewJob(opt)
	j.Kind = protocol.MetalinkFile
	j.SetDownloadContext(dctx)
	j.NumConcurrentCommand = concurrency(e, opt)
	j.Metadata = types.MetadataFromFirstFileEntry(dctx)
	// A mirror answering with another metalink would loop.
	j.RemoveMetalinkContentTypes()
	j.ConsumeOneshotOptions(opt)
	return j, nil
}

func concurrency(e *Entry, opt *option.Option) int {
	n := opt.GetInt(option.MetalinkServers)
	if n < 1 {
		n = 1
	}
	if e.MaxConnections > 0 && e.MaxConnections < n {
		n = e.MaxConnections
	}
	return n
}

// torrentJob fetches the best torrent metaurl of e so that the engine can
// follow it. It returns nil unless follow-torrent is enabled.
func torrentJob(e *Entry, opt *option.Option, baseURI string) *types.Job {
	follow := opt.Get(option.FollowTorrent)
	if follow != option.True && follow != "mem" {
		return nil
	}
	var best *MetaURL
	var bestURL string
	for _, m := range e.MetaURLs {
		if m.MediaType != "torrent" {
			continue
		}
		loc, ok := resolve(m.URL, baseURI)
		if !ok || !protocol.IsStreamProtocol(loc) {
			continue
		}
		if best == nil || m.Priority < best.Priority {
			best, bestURL = m, loc
		}
	}
	if best == nil {
		return nil
	}

	dctx := types.NewContext(opt.GetInt64(option.PieceLength), 0, "")
	fe := dctx.FirstFileEntry()
	fe.URIs = []string{bestURL}
	fe.MaxConnectionPerServer = opt.GetInt(option.MaxConnectionPerServer)

	j := types.NewJob(opt)
	j.Kind = protocol.MetalinkFile
	j.SetDownloadContext(dctx)
	j.Metadata = types.MetadataFromFirstFileEntry(dctx)
	if follow == "mem" {
		j.DiskWriterFactory = types.ByteArrayDiskWriterFactory{}
		j.MarkInMemoryDownload()
	}
	j.ConsumeOneshotOptions(opt)
	return j
}
