package types

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vfaronov/httpheader"

	"download_planner/internal/option"
	"download_planner/internal/protocol"
)

// Content types a server may answer with when it offers a metalink
// description instead of the file itself.
var MetalinkContentTypes = []string{
	"application/metalink4+xml",
	"application/metalink+xml",
}

// Job is one self-contained unit of work for the download engine.
type Job struct {
	GID string
	// Kind is the class of locator the job was planned from.
	Kind    protocol.Kind
	Option  *option.Option
	Context *Context
	// NumConcurrentCommand is the number of segment fetchers the engine
	// should run at once.
	NumConcurrentCommand     int
	PauseRequested           bool
	PostDownloadHandlers     []PostDownloadHandler
	DiskWriterFactory        DiskWriterFactory
	Metadata                 *MetadataInfo
	InMemory                 bool
	FileAllocationEnabled    bool
	PreLocalFileCheckEnabled bool
	AcceptTypes              []httpheader.AcceptElem
}

// NewJob returns a job owning a private copy of opt. Follow handlers and
// accept types are derived from the follow-torrent and follow-metalink
// options.
func NewJob(opt *option.Option) *Job {
	j := &Job{
		GID:                      uuid.New().String(),
		Option:                   opt.Copy(),
		NumConcurrentCommand:     1,
		DiskWriterFactory:        DefaultDiskWriterFactory{},
		FileAllocationEnabled:    true,
		PreLocalFileCheckEnabled: true,
		AcceptTypes:              []httpheader.AcceptElem{{Type: "*/*", Q: 1}},
	}
	if following(opt.Get(option.FollowTorrent)) {
		j.AddPostDownloadHandler(FollowTorrentHandler{})
	}
	if following(opt.Get(option.FollowMetalink)) {
		j.AddPostDownloadHandler(FollowMetalinkHandler{})
		for _, t := range MetalinkContentTypes {
			j.AcceptTypes = append(j.AcceptTypes, httpheader.AcceptElem{Type: t, Q: 1})
		}
	}
	return j
}

func following(v string) bool {
	return v == option.True || v == "mem"
}

// ConsumeOneshotOptions reads the pause request from opt and strips every
// one-shot key from the job's own option.
func (j *Job) ConsumeOneshotOptions(opt *option.Option) {
	j.PauseRequested = opt.GetBool(option.Pause)
	for _, k := range option.OneshotKeys {
		j.Option.Remove(k)
	}
}

// SetDownloadContext attaches ctx to the job.
func (j *Job) SetDownloadContext(ctx *Context) {
	j.Context = ctx
}

func (j *Job) ClearPostDownloadHandlers() {
	j.PostDownloadHandlers = nil
}

func (j *Job) AddPostDownloadHandler(h PostDownloadHandler) {
	j.PostDownloadHandlers = append(j.PostDownloadHandlers, h)
}

// MarkInMemoryDownload flags a job whose payload never reaches the disk.
func (j *Job) MarkInMemoryDownload() {
	j.InMemory = true
}

// RemoveAcceptType drops mime from the accept list.
func (j *Job) RemoveAcceptType(mime string) {
	kept := j.AcceptTypes[:0]
	for _, e := range j.AcceptTypes {
		if !strings.EqualFold(e.Type, mime) {
			kept = append(kept, e)
		}
	}
	j.AcceptTypes = kept
}

// RemoveMetalinkContentTypes keeps servers from answering web-seed
// requests with a metalink document.
func (j *Job) RemoveMetalinkContentTypes() {
	for _, t := range MetalinkContentTypes {
		j.RemoveAcceptType(t)
	}
}

// AcceptHeader renders the accept list as request headers.
func (j *Job) AcceptHeader() http.Header {
	h := make(http.Header)
	httpheader.SetAccept(h, j.AcceptTypes)
	return h
}

// MetadataInfo identifies the descriptor a job was created from so that it
// can be resumed or de-duplicated later.
type MetadataInfo struct {
	URI string
	// DataOnly is set when the descriptor was read from memory and has no
	// location of its own.
	DataOnly bool
}

func NewMetadataInfo(uri string) *MetadataInfo {
	return &MetadataInfo{URI: uri}
}

func NewMetadataInfoDataOnly() *MetadataInfo {
	return &MetadataInfo{DataOnly: true}
}

func (m *MetadataInfo) String() string {
	if m.DataOnly {
		return "[in-memory]"
	}
	return m.URI
}

// MetadataFromFirstFileEntry builds a record from the first URI of the
// first file entry. It returns nil when there is none.
func MetadataFromFirstFileEntry(ctx *Context) *MetadataInfo {
	fe := ctx.FirstFileEntry()
	if fe == nil || len(fe.URIs) == 0 {
		return nil
	}
	return NewMetadataInfo(fe.URIs[0])
}
