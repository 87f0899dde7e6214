package option

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	errpkg "download_planner/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("posint", validatePositiveInt)
	_ = validate.RegisterValidation("size", validateSize)
	_ = validate.RegisterValidation("intrange", validateIntRange)
}

// Validate checks value against the rule registered for key. Unknown keys
// and free-form keys are accepted as is.
func Validate(key, value string) error {
	p, ok := prefs[key]
	if !ok || p.tag == "" {
		return nil
	}
	if err := validate.Var(value, p.tag); err != nil {
		return fmt.Errorf("%w: %s=%q", errpkg.ErrMalformedOption, key, value)
	}
	return nil
}

func validatePositiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n > 0
}

func validateSize(fl validator.FieldLevel) bool {
	_, err := ParseSize(fl.Field().String())
	return err == nil
}

func validateIntRange(fl validator.FieldLevel) bool {
	_, err := ParseIntRange(fl.Field().String())
	return err == nil
}

// ParseSize parses a byte count with an optional K or M suffix, both
// binary multiples: "1M" is 1048576.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	switch s[len(s)-1] {
	case 'K', 'k', 'M', 'm':
		s += "iB"
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// IntRange is an inclusive range of integers.
type IntRange struct {
	Lo, Hi int
}

// IntSequence is a list of ranges such as "1-3,7". Membership is tested
// against the ranges, so a wide range costs no more than a narrow one.
type IntSequence []IntRange

// Contains reports whether n falls in any range of s.
func (s IntSequence) Contains(n int) bool {
	for _, r := range s {
		if n >= r.Lo && n <= r.Hi {
			return true
		}
	}
	return false
}

// ParseIntRange parses a comma separated list of non-negative integers and
// inclusive ranges ("1-3,7"). An empty string yields an empty sequence.
func ParseIntRange(s string) (IntSequence, error) {
	var seq IntSequence
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.IndexByte(part, '-'); i >= 0 {
			lo, hi = part[:i], part[i+1:]
		}
		start, err := strconv.Atoi(lo)
		if err != nil || start < 0 {
			return nil, fmt.Errorf("%w: bad range %q", errpkg.ErrMalformedOption, part)
		}
		end, err := strconv.Atoi(hi)
		if err != nil || end < start {
			return nil, fmt.Errorf("%w: bad range %q", errpkg.ErrMalformedOption, part)
		}
		seq = append(seq, IntRange{Lo: start, Hi: end})
	}
	return seq, nil
}

// ParseIndexPathMap reads "index=path" lines as produced by repeated
// index-out options.
func ParseIndexPathMap(s string) (map[int]string, error) {
	m := make(map[int]string)
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		idx, path, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: index-out %q", errpkg.ErrMalformedOption, line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: index-out %q", errpkg.ErrMalformedOption, line)
		}
		m[n] = path
	}
	return m, sc.Err()
}

// SplitList splits a comma separated value, trimming blanks and dropping
// empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
