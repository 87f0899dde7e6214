// Package protocol classifies user supplied locators: stream URIs, magnet
// links, local torrent files and local metalink files.
package protocol

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/h2non/filetype"
)

// Kind is the protocol class of a locator.
type Kind int

const (
	Unknown Kind = iota
	Stream
	TorrentFile
	TorrentMagnet
	MetalinkFile
)

func (k Kind) String() string {
	switch k {
	case Stream:
		return "stream"
	case TorrentFile:
		return "torrent"
	case TorrentMagnet:
		return "magnet"
	case MetalinkFile:
		return "metalink"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String. Unrecognized names are Unknown.
func ParseKind(s string) Kind {
	for k := Stream; k <= MetalinkFile; k++ {
		if k.String() == s {
			return k
		}
	}
	return Unknown
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// sniffLen bounds how much of a local file is read while sniffing.
const sniffLen = 512

var streamSchemes = []string{"http", "https", "ftp", "sftp"}

var (
	torrentType  = filetype.NewType("torrent", "application/x-bittorrent")
	metalinkType = filetype.NewType("metalink", "application/metalink4+xml")
)

func init() {
	filetype.AddMatcher(torrentType, matchTorrent)
	filetype.AddMatcher(metalinkType, matchMetalink)
}

// matchTorrent recognizes a bencoded dictionary whose first key is a
// length-prefixed string, which is how every torrent file begins.
func matchTorrent(buf []byte) bool {
	return len(buf) > 1 && buf[0] == 'd' && buf[1] >= '0' && buf[1] <= '9'
}

func matchMetalink(buf []byte) bool {
	buf = bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf"))
	buf = bytes.TrimLeft(buf, " \t\r\n")
	return bytes.HasPrefix(buf, []byte("<?xml")) || bytes.HasPrefix(buf, []byte("<metalink"))
}

// Detector classifies locators. With IgnoreLocalPath set, local files are
// never opened and classify as Unknown.
type Detector struct {
	IgnoreLocalPath bool
}

// Classify returns the protocol class of locator. Stream schemes always
// win, then magnet links, then local torrent files, then local metalink
// files.
func (d Detector) Classify(locator string) Kind {
	switch {
	case IsStreamProtocol(locator):
		return Stream
	case GuessTorrentMagnet(locator):
		return TorrentMagnet
	case d.IgnoreLocalPath:
		return Unknown
	case GuessTorrentFile(locator):
		return TorrentFile
	case GuessMetalinkFile(locator):
		return MetalinkFile
	default:
		return Unknown
	}
}

// Classify uses a Detector that is allowed to sniff local files.
func Classify(locator string) Kind {
	return Detector{}.Classify(locator)
}

// IsStreamProtocol reports whether locator starts with a directly fetchable
// scheme followed by "://".
func IsStreamProtocol(locator string) bool {
	scheme, _, ok := strings.Cut(locator, "://")
	if !ok {
		return false
	}
	for _, s := range streamSchemes {
		if strings.EqualFold(scheme, s) {
			return true
		}
	}
	return false
}

// GuessTorrentMagnet reports whether locator is a magnet link carrying a
// BitTorrent info hash.
func GuessTorrentMagnet(locator string) bool {
	if !strings.HasPrefix(locator, "magnet:?") {
		return false
	}
	_, err := metainfo.ParseMagnetUri(locator)
	return err == nil
}

// GuessTorrentFile reports whether path names a regular file that looks
// like a torrent.
func GuessTorrentFile(path string) bool {
	head := sniff(path)
	return head != nil && filetype.Is(head, torrentType.Extension)
}

// GuessMetalinkFile reports whether path names a regular file that looks
// like a metalink document.
func GuessMetalinkFile(path string) bool {
	head := sniff(path)
	return head != nil && filetype.Is(head, metalinkType.Extension)
}

// sniff returns the first bytes of a regular file, or nil.
func sniff(path string) []byte {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil
	}
	return buf[:n]
}
