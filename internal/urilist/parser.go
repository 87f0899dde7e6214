// Package urilist reads download list files. Each entry is a line of
// tab-separated locators followed by zero or more indented key=value lines
// holding options for that entry alone:
//
//	http://a/f.iso	http://b/f.iso
//	  dir=/data
//	  out=f.iso
//
// Blank lines and lines starting with '#' are skipped.
package urilist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
)

const maxLineSize = 1 << 20

// Entry is one locator group and its inline options.
type Entry struct {
	URIs   []string
	Option *option.Option
	Line   int
}

// Parser yields entries one at a time from an underlying reader.
type Parser struct {
	sc      *bufio.Scanner
	line    int
	pending string
	held    bool
	done    bool
}

func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Parser{sc: sc}
}

func (p *Parser) readLine() (string, bool) {
	if p.held {
		p.held = false
		return p.pending, true
	}
	if p.done || !p.sc.Scan() {
		p.done = true
		return "", false
	}
	p.line++
	return strings.TrimRight(p.sc.Text(), "\r"), true
}

func (p *Parser) unread(line string) {
	p.pending = line
	p.held = true
}

func isOptionLine(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

func isSkippable(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || t[0] == '#'
}

// Next returns the next entry or io.EOF when the input is exhausted.
// Inline option lines without '=' or with a value rejected by the key's
// validator yield an error wrapping ErrMalformedOption.
func (p *Parser) Next() (*Entry, error) {
	var entry *Entry
	for {
		line, ok := p.readLine()
		if !ok {
			break
		}
		if isSkippable(line) {
			continue
		}
		if !isOptionLine(line) {
			entry = &Entry{
				URIs:   splitURIs(line),
				Option: option.New(),
				Line:   p.line,
			}
			break
		}
		// option lines before any locator line belong to nothing
	}
	if entry == nil {
		if err := p.sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	for {
		line, ok := p.readLine()
		if !ok {
			break
		}
		if isSkippable(line) {
			continue
		}
		if !isOptionLine(line) {
			p.unread(line)
			break
		}
		key, value, err := parseOptionLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
		entry.Option.Put(key, value)
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	return entry, nil
}

func splitURIs(line string) []string {
	var uris []string
	for _, f := range strings.Split(line, "\t") {
		if f = strings.TrimSpace(f); f != "" {
			uris = append(uris, f)
		}
	}
	return uris
}

func parseOptionLine(line string) (string, string, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: %q is not key=value", errpkg.ErrMalformedOption, strings.TrimSpace(line))
	}
	if err := option.Validate(key, value); err != nil {
		return "", "", err
	}
	return key, value, nil
}

// ReadAll drains r into a slice of entries.
func ReadAll(r io.Reader) ([]*Entry, error) {
	p := NewParser(r)
	var entries []*Entry
	for {
		e, err := p.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
}
