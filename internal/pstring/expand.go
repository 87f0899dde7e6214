// Package pstring unfolds parameterized URIs such as
// "http://host/{a,b}/file[001-100].png" into the concrete URIs they denote.
package pstring

import (
	"fmt"
	"strconv"
	"strings"

	errpkg "download_planner/internal/errors"
)

// segment holds the strings one piece of a template can take, in order.
type segment []string

// maxExpansion caps the URIs one template, or one loop in it, may yield.
const maxExpansion = 1 << 20

// maxAlphaWidth keeps a letter bound within int: 26^13 < 2^63.
const maxAlphaWidth = 13

// Expand returns every URI described by template. Alternatives are written
// "{a,b,c}"; loops are written "[start-end]" or "[start-end:step]" over
// decimal numbers or letters. The leftmost segment varies slowest.
func Expand(template string) ([]string, error) {
	segs, err := parse(template)
	if err != nil {
		return nil, err
	}
	out := []string{""}
	for _, seg := range segs {
		if len(out)*len(seg) > maxExpansion {
			return nil, fmt.Errorf("%w: %q expands to more than %d URIs", errpkg.ErrMalformedPattern, template, maxExpansion)
		}
		next := make([]string, 0, len(out)*len(seg))
		for _, prefix := range out {
			for _, v := range seg {
				next = append(next, prefix+v)
			}
		}
		out = next
	}
	return out, nil
}

// ExpandAll expands every template in order and concatenates the results.
func ExpandAll(templates []string) ([]string, error) {
	var out []string
	for _, t := range templates {
		uris, err := Expand(t)
		if err != nil {
			return nil, err
		}
		out = append(out, uris...)
	}
	return out, nil
}

func parse(s string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: missing '}' in %q", errpkg.ErrMalformedPattern, s)
			}
			flush()
			segs = append(segs, segment(strings.Split(s[i+1:i+end], ",")))
			i += end
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: missing ']' in %q", errpkg.ErrMalformedPattern, s)
			}
			loop, err := parseLoop(s[i+1 : i+end])
			if err != nil {
				return nil, err
			}
			flush()
			segs = append(segs, loop)
			i += end
		default:
			lit.WriteByte(s[i])
		}
	}
	flush()
	return segs, nil
}

func parseLoop(body string) (segment, error) {
	step := 1
	if colon := strings.IndexByte(body, ':'); colon >= 0 {
		n, err := strconv.Atoi(body[colon+1:])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: step must be a positive number: %q", errpkg.ErrMalformedPattern, body)
		}
		step = n
		body = body[:colon]
	}
	first, last, ok := strings.Cut(body, "-")
	if !ok || first == "" || last == "" {
		return nil, fmt.Errorf("%w: loop range missing: %q", errpkg.ErrMalformedPattern, body)
	}

	var (
		start, end int
		format     func(int) string
	)
	switch {
	case isNumber(first) && isNumber(last):
		var err error
		if start, err = strconv.Atoi(first); err != nil {
			return nil, fmt.Errorf("%w: %v", errpkg.ErrMalformedPattern, err)
		}
		if end, err = strconv.Atoi(last); err != nil {
			return nil, fmt.Errorf("%w: %v", errpkg.ErrMalformedPattern, err)
		}
		width := len(first)
		format = func(n int) string { return fmt.Sprintf("%0*d", width, n) }
	case len(first) > maxAlphaWidth || len(last) > maxAlphaWidth:
		return nil, fmt.Errorf("%w: loop bound too wide: %q", errpkg.ErrMalformedPattern, body)
	case isAlpha(first, 'a') && isAlpha(last, 'a'):
		start, end = alphaToNum(first, 'a'), alphaToNum(last, 'a')
		width := len(first)
		format = func(n int) string { return numToAlpha(n, width, 'a') }
	case isAlpha(first, 'A') && isAlpha(last, 'A'):
		start, end = alphaToNum(first, 'A'), alphaToNum(last, 'A')
		width := len(first)
		format = func(n int) string { return numToAlpha(n, width, 'A') }
	default:
		return nil, fmt.Errorf("%w: invalid loop range %q", errpkg.ErrMalformedPattern, body)
	}

	if end < start {
		return segment{}, nil
	}
	count := (end-start)/step + 1
	if count > maxExpansion {
		return nil, fmt.Errorf("%w: loop %q yields more than %d values", errpkg.ErrMalformedPattern, body, maxExpansion)
	}
	seg := make(segment, 0, count)
	for i := 0; i < count; i++ {
		seg = append(seg, format(start+i*step))
	}
	return seg, nil
}

func isNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func isAlpha(s string, base byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < base || s[i] > base+25 {
			return false
		}
	}
	return s != ""
}

// alphaToNum reads s as a base-26 number where base ('a' or 'A') is zero.
func alphaToNum(s string, base byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*26 + int(s[i]-base)
	}
	return n
}

func numToAlpha(n, width int, base byte) string {
	var buf []byte
	for n > 0 {
		buf = append(buf, base+byte(n%26))
		n /= 26
	}
	for len(buf) < width {
		buf = append(buf, base)
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
