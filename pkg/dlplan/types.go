package dlplan

import (
	"download_planner/internal/download/types"
	"download_planner/internal/protocol"
)

// Re-exported job model for consumers.
type Job = types.Job
type Context = types.Context
type FileEntry = types.FileEntry
type TorrentAttrs = types.TorrentAttrs
type MetadataInfo = types.MetadataInfo
type Kind = protocol.Kind

const (
	KindUnknown       = protocol.Unknown
	KindStream        = protocol.Stream
	KindTorrentFile   = protocol.TorrentFile
	KindTorrentMagnet = protocol.TorrentMagnet
	KindMetalinkFile  = protocol.MetalinkFile
)

// Classify returns the kind of locator without planning it.
func Classify(locator string) Kind {
	return protocol.Classify(locator)
}
