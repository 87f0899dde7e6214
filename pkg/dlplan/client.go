package dlplan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"download_planner/internal/config"
	"download_planner/internal/option"
	"download_planner/internal/planner"
	"download_planner/internal/state"
	"download_planner/internal/utils"
)

// Client exposes a stable API for embedding the planner while owning shared
// resources that must be initialized once per process.
type Client struct {
	planner *planner.Planner
	base    *option.Option
	policy  planner.Policy
	journal bool

	closeOnce sync.Once
}

// NewClient resolves the base options and returns a ready-to-use client.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	base := option.NewDefault()
	if opts.ConfPath != "" {
		if err := config.LoadConfFile(opts.ConfPath, base); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(opts.Options))
	for k := range opts.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !option.IsKnown(k) {
			return nil, fmt.Errorf("unknown option %q", k)
		}
		if err := option.Validate(k, opts.Options[k]); err != nil {
			return nil, err
		}
		base.Put(k, opts.Options[k])
	}

	// Debug and verbosity are process-wide switches; configure them once here.
	if opts.LogsDir != "" {
		utils.ConfigureDebug(opts.LogsDir)
	}
	utils.SetVerbose(opts.Verbose)

	if opts.Journal {
		statePath := opts.StatePath
		if statePath == "" {
			statePath = config.GetJournalPath()
		}
		if err := os.MkdirAll(filepath.Dir(statePath), 0o755); err != nil {
			return nil, err
		}
		state.Configure(statePath)
	}

	policy := planner.Lenient
	if opts.Strict {
		policy = planner.Strict
	}
	return &Client{
		planner: planner.New(opts.Logger),
		base:    base,
		policy:  policy,
		journal: opts.Journal,
	}, nil
}

// Option returns the value the client plans with for key.
func (c *Client) Option(key string) string {
	if c == nil {
		return ""
	}
	return c.base.Get(key)
}

func (c *Client) finish(jobs []*Job, err error) ([]*Job, error) {
	if err != nil {
		return nil, err
	}
	if c.journal && len(jobs) > 0 {
		if err := state.RecordJobs(jobs); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// Plan classifies locators and returns their jobs.
func (c *Client) Plan(locators []string) ([]*Job, error) {
	if c == nil || c.planner == nil {
		return nil, errors.New("client not initialized")
	}
	return c.finish(c.planner.ForURI(c.base, locators, planner.Flags{Policy: c.policy}))
}

// PlanListFile plans every entry of a list file; "-" reads stdin.
func (c *Client) PlanListFile(path string) ([]*Job, error) {
	if c == nil || c.planner == nil {
		return nil, errors.New("client not initialized")
	}
	opt := c.base.Copy()
	opt.Put(option.InputFile, path)
	return c.finish(c.planner.ForURIList(opt))
}

// PlanTorrent plans a torrent read from path, or from data when it is not
// empty. webSeeds are extra HTTP/FTP sources.
func (c *Client) PlanTorrent(path string, data []byte, webSeeds []string) (*Job, error) {
	if c == nil || c.planner == nil {
		return nil, errors.New("client not initialized")
	}
	opt := c.base.Copy()
	opt.Put(option.TorrentFile, path)
	j, err := c.planner.ForTorrent(opt, webSeeds, data, true)
	if err != nil {
		return nil, err
	}
	if _, err := c.finish([]*Job{j}, nil); err != nil {
		return nil, err
	}
	return j, nil
}

// PlanMetalink plans a metalink read from path, or from data when it is
// not empty.
func (c *Client) PlanMetalink(path string, data []byte) ([]*Job, error) {
	if c == nil || c.planner == nil {
		return nil, errors.New("client not initialized")
	}
	opt := c.base.Copy()
	opt.Put(option.MetalinkFile, path)
	return c.finish(c.planner.ForMetalink(opt, data))
}

// Shutdown releases the journal. It is safe to call multiple times from
// different goroutines.
func (c *Client) Shutdown() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		if c.journal {
			state.CloseDB()
		}
		utils.CloseDebug()
	})
	return nil
}
