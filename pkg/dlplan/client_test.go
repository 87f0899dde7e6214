package dlplan

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/state"
)

func newTestClient(t *testing.T, opts *ClientOptions) *Client {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewClient(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Shutdown() })
	return c
}

func TestClientPlan(t *testing.T) {
	c := newTestClient(t, &ClientOptions{Options: map[string]string{"split": "2", "dir": "/dl"}})
	assert.Equal(t, "2", c.Option("split"))

	jobs, err := c.Plan([]string{"http://a/f", "https://b/f"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, KindStream, jobs[0].Kind)
	assert.Equal(t, 2, jobs[0].NumConcurrentCommand)
}

func TestClientRejectsBadOptions(t *testing.T) {
	_, err := NewClient(&ClientOptions{Options: map[string]string{"split": "-1"}})
	assert.ErrorIs(t, err, errpkg.ErrMalformedOption)

	_, err = NewClient(&ClientOptions{Options: map[string]string{"no-such": "1"}})
	assert.Error(t, err)
}

func TestClientStrict(t *testing.T) {
	c := newTestClient(t, &ClientOptions{Strict: true})
	_, err := c.Plan([]string{"gopher://x"})
	assert.ErrorIs(t, err, errpkg.ErrUnrecognizedURI)
}

func TestClientListFileAndJournal(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("http://a/f\nhttp://b/g\n"), 0o644))

	c := newTestClient(t, &ClientOptions{Journal: true, StatePath: filepath.Join(dir, "journal.db")})
	jobs, err := c.PlanListFile(list)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	records, err := state.LoadRecords()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestClientMetalinkFromMemory(t *testing.T) {
	c := newTestClient(t, &ClientOptions{})
	doc := []byte(`<metalink xmlns="urn:ietf:params:xml:ns:metalink"><file name="a"><url>http://m/a</url></file></metalink>`)
	jobs, err := c.PlanMetalink("", doc)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, KindMetalinkFile, jobs[0].Kind)

	_, err = c.PlanTorrent("", []byte("not a torrent"), nil)
	assert.ErrorIs(t, err, errpkg.ErrDescriptorParse)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindStream, Classify("sftp://h/f"))
	assert.Equal(t, KindUnknown, Classify("nope"))
}
