package urilist

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
)

func TestReadAll(t *testing.T) {
	input := strings.Join([]string{
		"# mirrors",
		"http://a/f.iso\thttp://b/f.iso",
		"  dir=/data",
		"\tout=f.iso",
		"",
		"magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567",
		"   ",
		"  split=3",
		"ftp://c/g.tar",
	}, "\n")

	entries, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"http://a/f.iso", "http://b/f.iso"}, entries[0].URIs)
	assert.Equal(t, "/data", entries[0].Option.Get(option.Dir))
	assert.Equal(t, "f.iso", entries[0].Option.Get(option.Out))
	assert.Equal(t, 2, entries[0].Line)

	assert.Equal(t, 3, entries[1].Option.GetInt(option.Split))
	assert.Equal(t, 1, entries[1].Option.Len())

	assert.Equal(t, []string{"ftp://c/g.tar"}, entries[2].URIs)
	assert.Equal(t, 0, entries[2].Option.Len())
}

func TestLeadingOptionLinesIgnored(t *testing.T) {
	entries, err := ReadAll(strings.NewReader("  dir=/x\nhttp://a/f\r\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"http://a/f"}, entries[0].URIs)
	assert.False(t, entries[0].Option.Defined(option.Dir))
}

func TestUnknownKeysAreKept(t *testing.T) {
	entries, err := ReadAll(strings.NewReader("http://a/f\n  bogus=1\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", entries[0].Option.Get("bogus"))
}

func TestMalformedOptionLine(t *testing.T) {
	for _, input := range []string{
		"http://a/f\n  no-equals-sign\n",
		"http://a/f\n  split=zero\n",
		"http://a/f\n  =value\n",
	} {
		_, err := ReadAll(strings.NewReader(input))
		assert.ErrorIs(t, err, errpkg.ErrMalformedOption, input)
	}
}

func TestNextReturnsEOF(t *testing.T) {
	p := NewParser(strings.NewReader("# nothing here\n\n"))
	_, err := p.Next()
	assert.Equal(t, io.EOF, err)
}
