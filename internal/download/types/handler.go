package types

import (
	"bytes"
	"os"
	"strings"
	"sync"
)

// PostDownloadHandler is run by the engine once a job finished. CanHandle
// tells whether the finished job is of interest to it.
type PostDownloadHandler interface {
	Name() string
	CanHandle(ctx *Context) bool
}

// FollowTorrentHandler turns a downloaded .torrent file into a new job.
type FollowTorrentHandler struct{}

func (FollowTorrentHandler) Name() string { return "follow-torrent" }

func (FollowTorrentHandler) CanHandle(ctx *Context) bool {
	fe := ctx.FirstFileEntry()
	return ctx.Attrs == nil && fe != nil && strings.HasSuffix(strings.ToLower(fe.Path), ".torrent")
}

// FollowMetalinkHandler turns a downloaded metalink document into jobs.
type FollowMetalinkHandler struct{}

func (FollowMetalinkHandler) Name() string { return "follow-metalink" }

func (FollowMetalinkHandler) CanHandle(ctx *Context) bool {
	fe := ctx.FirstFileEntry()
	if fe == nil {
		return false
	}
	p := strings.ToLower(fe.Path)
	return strings.HasSuffix(p, ".metalink") || strings.HasSuffix(p, ".meta4")
}

// UTMetadataHandler builds the real torrent job once the info dictionary
// of a magnet link has been fetched from peers.
type UTMetadataHandler struct{}

func (UTMetadataHandler) Name() string { return "ut_metadata" }

func (UTMetadataHandler) CanHandle(ctx *Context) bool {
	return ctx.Attrs != nil && ctx.TotalLengthUnknown
}

// DiskWriter stores downloaded bytes.
type DiskWriter interface {
	WriteAt(p []byte, off int64) (int, error)
	Close() error
}

// DiskWriterFactory creates the writer for a job's payload.
type DiskWriterFactory interface {
	NewDiskWriter(path string) (DiskWriter, error)
}

// DefaultDiskWriterFactory writes to the file system.
type DefaultDiskWriterFactory struct{}

func (DefaultDiskWriterFactory) NewDiskWriter(path string) (DiskWriter, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ByteArrayDiskWriterFactory keeps the payload in memory.
type ByteArrayDiskWriterFactory struct{}

func (ByteArrayDiskWriterFactory) NewDiskWriter(string) (DiskWriter, error) {
	return &ByteArrayDiskWriter{}, nil
}

// ByteArrayDiskWriter is an in-memory DiskWriter.
type ByteArrayDiskWriter struct {
	mu  sync.Mutex
	buf []byte
}

func (w *ByteArrayDiskWriter) WriteAt(p []byte, off int64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	end := int(off) + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[off:], p)
	return len(p), nil
}

func (w *ByteArrayDiskWriter) Close() error { return nil }

// Bytes returns a copy of what has been written so far.
func (w *ByteArrayDiskWriter) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bytes.Clone(w.buf)
}
