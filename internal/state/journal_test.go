package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"download_planner/internal/download/types"
	"download_planner/internal/option"
	"download_planner/internal/protocol"
)

func setupJournal(t *testing.T) {
	t.Helper()
	CloseDB()
	Configure(filepath.Join(t.TempDir(), "state", "journal.db"))
	t.Cleanup(CloseDB)
}

func magnetJob() *types.Job {
	j := types.NewJob(option.New())
	j.Kind = protocol.TorrentMagnet
	j.Context = types.NewContext(types.MetadataPieceSize, 0, "[METADATA]x")
	j.Context.Attrs = &types.TorrentAttrs{InfoHash: "abcd"}
	j.Metadata = types.NewMetadataInfo("magnet:?xt=urn:btih:abcd")
	return j
}

func streamJob(uri string) *types.Job {
	j := types.NewJob(option.New())
	j.Kind = protocol.Stream
	j.NumConcurrentCommand = 5
	j.Context = types.NewContext(1<<20, 0, "/dl/f")
	j.Context.FirstFileEntry().URIs = []string{uri, uri}
	return j
}

func TestRecordAndLoad(t *testing.T) {
	setupJournal(t)

	jobs := []*types.Job{magnetJob(), streamJob("http://a/f")}
	require.NoError(t, RecordJobs(jobs))

	records, err := LoadRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	byGID := map[string]Record{}
	for _, r := range records {
		byGID[r.GID] = r
	}
	m := byGID[jobs[0].GID]
	assert.Equal(t, protocol.TorrentMagnet, m.Kind)
	assert.Equal(t, "abcd", m.InfoHash)
	assert.Equal(t, "magnet:?xt=urn:btih:abcd", m.MetadataURI)

	s := byGID[jobs[1].GID]
	assert.Equal(t, protocol.Stream, s.Kind)
	assert.Equal(t, "/dl/f", s.Path)
	assert.Equal(t, 2, s.URICount)
	assert.Equal(t, 5, s.Concurrency)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestIsKnownAndFilter(t *testing.T) {
	setupJournal(t)

	known, err := IsKnown("magnet:?xt=urn:btih:abcd")
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, RecordJobs([]*types.Job{magnetJob()}))

	known, err = IsKnown("magnet:?xt=urn:btih:abcd")
	require.NoError(t, err)
	assert.True(t, known)

	known, err = IsKnown("")
	require.NoError(t, err)
	assert.False(t, known)

	fresh := streamJob("http://b/g")
	kept, err := FilterKnown([]*types.Job{magnetJob(), fresh})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, fresh.GID, kept[0].GID)
}

func TestUnconfigured(t *testing.T) {
	CloseDB()
	Configure("")
	_, err := LoadRecords()
	assert.Error(t, err)
	assert.Error(t, RecordJobs(nil))
}
