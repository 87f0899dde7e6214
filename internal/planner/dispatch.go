// Package planner turns locators into download jobs. It classifies each
// locator, expands parameterized URIs, decides how many connections a job
// may use and builds the job for it. Nothing here touches the network.
package planner

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"download_planner/internal/bittorrent"
	"download_planner/internal/download/types"
	errpkg "download_planner/internal/errors"
	"download_planner/internal/metalink"
	"download_planner/internal/option"
	"download_planner/internal/protocol"
	"download_planner/internal/pstring"
)

// Policy decides what happens when one locator cannot be planned.
type Policy int

const (
	// Lenient logs the failure and moves on to the next locator.
	Lenient Policy = iota
	// Strict aborts the whole call and returns no job.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// Flags tune a single ForURI call.
type Flags struct {
	// IgnoreForceSequential keeps stream locators pooled even when
	// force-sequential is set.
	IgnoreForceSequential bool
	// IgnoreLocalPath never opens local files; such locators are unknown.
	IgnoreLocalPath bool
	Policy          Policy
}

// MetalinkGenerator expands a metalink document into jobs.
type MetalinkGenerator interface {
	GenerateFromFile(path string, opt *option.Option, baseURI string) ([]*types.Job, error)
	GenerateFromMemory(data []byte, opt *option.Option, baseURI string) ([]*types.Job, error)
}

// Planner builds jobs. The zero value is usable and falls back to the
// default decoders, slog.Default and os.Stdin.
type Planner struct {
	Logger    *slog.Logger
	Loader    bittorrent.Loader
	Generator MetalinkGenerator
	// Stdin is read when input-file is "-".
	Stdin io.Reader
}

func New(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		Logger:    logger,
		Loader:    bittorrent.DefaultLoader{},
		Generator: metalink.Generator{},
		Stdin:     os.Stdin,
	}
}

func (p *Planner) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Planner) loader() bittorrent.Loader {
	if p.Loader == nil {
		return bittorrent.DefaultLoader{}
	}
	return p.Loader
}

func (p *Planner) generator() MetalinkGenerator {
	if p.Generator == nil {
		return metalink.Generator{}
	}
	return p.Generator
}

func (p *Planner) stdin() io.Reader {
	if p.Stdin == nil {
		return os.Stdin
	}
	return p.Stdin
}

// reject applies policy to a locator that could not be planned.
func (p *Planner) reject(policy Policy, locator string, err error) error {
	if policy == Strict {
		return err
	}
	p.logger().Error("skipping locator", "uri", locator, "error", err)
	return nil
}

func unfold(opt *option.Option, uris []string) ([]string, error) {
	if opt.Get(option.ParameterizedURI) != option.True {
		return append([]string(nil), uris...), nil
	}
	return pstring.ExpandAll(uris)
}

// ForURI plans jobs for uris. Stream locators are pooled into one job
// whose URI list is replicated against split and max-connection-per-server;
// every other locator then yields its own jobs in input order. With
// force-sequential set, every locator is planned on its own.
func (p *Planner) ForURI(opt *option.Option, uris []string, flags Flags) ([]*types.Job, error) {
	nargs, err := unfold(opt, uris)
	if err != nil {
		return nil, err
	}

	var jobs []*types.Job
	detector := protocol.Detector{IgnoreLocalPath: flags.IgnoreLocalPath}

	if !flags.IgnoreForceSequential && opt.GetBool(option.ForceSequential) {
		for _, u := range nargs {
			if err := p.accumulate(&jobs, detector, opt, u, flags.Policy); err != nil {
				return nil, err
			}
		}
		return jobs, nil
	}

	var stream, rest []string
	for _, u := range nargs {
		if protocol.IsStreamProtocol(u) {
			stream = append(stream, u)
		} else {
			rest = append(rest, u)
		}
	}
	if len(stream) > 0 {
		numSplit := opt.GetInt(option.Split)
		j, err := newStreamJob(opt, SplitURI(stream, numSplit, opt.GetInt(option.MaxConnectionPerServer)), true)
		if err != nil {
			if err := p.reject(flags.Policy, stream[0], err); err != nil {
				return nil, err
			}
		} else {
			j.NumConcurrentCommand = numSplit
			jobs = append(jobs, j)
		}
	}
	for _, u := range rest {
		if err := p.accumulate(&jobs, detector, opt, u, flags.Policy); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// accumulate plans one locator and appends its jobs.
func (p *Planner) accumulate(jobs *[]*types.Job, d protocol.Detector, opt *option.Option, uri string, policy Policy) error {
	var (
		planned []*types.Job
		err     error
	)
	switch d.Classify(uri) {
	case protocol.Stream:
		numSplit := opt.GetInt(option.Split)
		n := min(opt.GetInt(option.MaxConnectionPerServer), numSplit)
		uris := make([]string, 0, max(n, 0))
		for i := 0; i < n; i++ {
			uris = append(uris, uri)
		}
		var j *types.Job
		if j, err = newStreamJob(opt, uris, false); err == nil {
			j.NumConcurrentCommand = numSplit
			planned = []*types.Job{j}
		}
	case protocol.TorrentMagnet:
		var j *types.Job
		if j, err = p.newMagnetJob(uri, opt); err == nil {
			planned = []*types.Job{j}
		}
	case protocol.TorrentFile:
		var j *types.Job
		if j, err = p.newTorrentJob(uri, opt, nil, nil, true); err == nil {
			planned = []*types.Job{j}
		}
	case protocol.MetalinkFile:
		planned, err = p.generator().GenerateFromFile(uri, opt, opt.Get(option.MetalinkBaseURI))
	default:
		err = fmt.Errorf("%w: %s", errpkg.ErrUnrecognizedURI, uri)
	}
	if err != nil {
		return p.reject(policy, uri, err)
	}
	*jobs = append(*jobs, planned...)
	return nil
}

// ForTorrent plans the job of the torrent named by the torrent-file option,
// or of torrentData when it is not empty. uris are extra web seeds.
func (p *Planner) ForTorrent(opt *option.Option, uris []string, torrentData []byte, adjustAnnounce bool) (*types.Job, error) {
	nargs, err := unfold(opt, uris)
	if err != nil {
		return nil, err
	}
	j, err := p.newTorrentJob(opt.Get(option.TorrentFile), opt, nargs, torrentData, adjustAnnounce)
	if err != nil {
		return nil, err
	}
	// -Z does not apply here.
	j.NumConcurrentCommand = opt.GetInt(option.Split)
	return j, nil
}

// ForMetalink plans the jobs of the metalink-file option, or of
// metalinkData when it is not empty.
func (p *Planner) ForMetalink(opt *option.Option, metalinkData []byte) ([]*types.Job, error) {
	baseURI := opt.Get(option.MetalinkBaseURI)
	if len(metalinkData) == 0 {
		return p.generator().GenerateFromFile(opt.Get(option.MetalinkFile), opt, baseURI)
	}
	return p.generator().GenerateFromMemory(metalinkData, opt, baseURI)
}
