package types

import (
	"fmt"

	"download_planner/internal/option"
)

// Piece size used while only the info hash of a torrent is known.
const MetadataPieceSize = 16 * 1024

// FileEntry is one target file of a download together with the URIs it is
// fetched from.
type FileEntry struct {
	Path                   string
	Length                 int64
	Offset                 int64
	URIs                   []string
	MaxConnectionPerServer int
	// Requested is false when a file filter excluded the entry.
	Requested bool
}

// TorrentAttrs are the facts decoded from a torrent file or magnet link.
type TorrentAttrs struct {
	Name         string
	InfoHash     string
	AnnounceList [][]string
	URLList      []string
	Private      bool
	Comment      string
	CreatedBy    string
	CreationDate int64
	// MetadataSize is the size of the bencoded info dictionary, zero for
	// magnet links.
	MetadataSize int
}

// Context describes what a job downloads: its files, piece layout and
// optional digest.
type Context struct {
	PieceLength        int64
	FileEntries        []*FileEntry
	DigestAlgo         string
	Digest             []byte
	PieceHashAlgo      string
	PieceHashes        [][]byte
	TotalLengthUnknown bool
	Attrs              *TorrentAttrs
}

// NewContext returns a Context with a single file entry at path. Length
// zero means the size is learnt later.
func NewContext(pieceLength int64, totalLength int64, path string) *Context {
	return &Context{
		PieceLength: pieceLength,
		FileEntries: []*FileEntry{{Path: path, Length: totalLength, Requested: true}},
	}
}

// FirstFileEntry returns the first entry or nil.
func (c *Context) FirstFileEntry() *FileEntry {
	if len(c.FileEntries) == 0 {
		return nil
	}
	return c.FileEntries[0]
}

// TotalLength sums the length of every entry.
func (c *Context) TotalLength() int64 {
	var total int64
	for _, fe := range c.FileEntries {
		total += fe.Length
	}
	return total
}

// MarkTotalLengthUnknown flags a download whose size is not yet known.
func (c *Context) MarkTotalLengthUnknown() {
	c.TotalLengthUnknown = true
}

// SetDigest records the whole-file digest.
func (c *Context) SetDigest(algo string, digest []byte) {
	c.DigestAlgo = algo
	c.Digest = digest
}

// SetFileFilter marks only the 1-based indexes in filter as requested. An
// empty filter requests every entry.
func (c *Context) SetFileFilter(filter option.IntSequence) {
	for i, fe := range c.FileEntries {
		fe.Requested = len(filter) == 0 || filter.Contains(i+1)
	}
}

// SetFilePathWithIndex changes the path of the entry at 1-based index.
func (c *Context) SetFilePathWithIndex(index int, path string) error {
	if index < 1 || index > len(c.FileEntries) {
		return fmt.Errorf("no file entry at index %d", index)
	}
	c.FileEntries[index-1].Path = path
	return nil
}
