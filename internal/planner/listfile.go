package planner

import (
	"fmt"
	"io"
	"os"

	"download_planner/internal/download/types"
	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
	"download_planner/internal/urilist"
)

// ForURIList plans every entry of the list file named by input-file. "-"
// reads from standard input. Failing to open the file or a malformed entry
// aborts the whole call.
func (p *Planner) ForURIList(opt *option.Option) ([]*types.Job, error) {
	name := opt.Get(option.InputFile)
	if name == "-" {
		return p.ForURIListReader(p.stdin(), opt)
	}

	fi, err := os.Stat(name)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: no such file", errpkg.ErrFileAccess, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errpkg.ErrFileAccess, name, err)
	}
	defer f.Close()

	jobs, err := p.ForURIListReader(f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return jobs, nil
}

// ForURIListReader is ForURIList over an already opened list.
func (p *Planner) ForURIListReader(r io.Reader, opt *option.Option) ([]*types.Job, error) {
	parser := urilist.NewParser(r)
	var jobs []*types.Job
	for {
		entry, err := parser.Next()
		if err == io.EOF {
			return jobs, nil
		}
		if err != nil {
			return nil, err
		}
		if len(entry.URIs) == 0 {
			continue
		}

		planned, err := p.ForURI(entryOption(opt, entry.Option), entry.URIs, Flags{})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", entry.Line, err)
		}
		p.logger().Debug("planned list entry", "line", entry.Line, "uris", len(entry.URIs), "jobs", len(planned))
		jobs = append(jobs, planned...)
	}
}

// entryOption narrows the global option for one list entry: the global out
// never applies, and only request options may be overridden inline.
func entryOption(global, inline *option.Option) *option.Option {
	opt := global.Copy()
	opt.Remove(option.Out)
	for _, key := range inline.Keys() {
		if IsRequestOption(key) {
			opt.Put(key, inline.Get(key))
		}
	}
	return opt
}
