// Package metalink decodes Metalink 4 (RFC 5854) and Metalink 3 documents
// and turns their file entries into download jobs.
package metalink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	errpkg "download_planner/internal/errors"
)

// Lowest preference a resource can have. Priorities follow Metalink 4:
// smaller is better.
const lowestPriority = 999999

// Resource is one mirror of a file.
type Resource struct {
	URL            string
	Type           string
	Location       string
	Priority       int
	MaxConnections int
}

// MetaURL points at another descriptor (usually a torrent) for the file.
type MetaURL struct {
	URL       string
	MediaType string
	Priority  int
}

// Checksum is a whole-file digest in hex.
type Checksum struct {
	Algo string
	Hex  string
}

// Entry is one <file> element.
type Entry struct {
	Name           string
	Size           int64
	Version        string
	Languages      []string
	OSes           []string
	Resources      []*Resource
	MetaURLs       []*MetaURL
	Checksums      []Checksum
	PieceLength    int64
	PieceHashAlgo  string
	PieceHashes    []string
	MaxConnections int
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"metalink"`
	Files4  []xmlFile `xml:"file"`
	Files3  []xmlFile `xml:"files>file"`
}

type xmlFile struct {
	Name         string          `xml:"name,attr"`
	Size         string          `xml:"size"`
	Version      string          `xml:"version"`
	Language     []string        `xml:"language"`
	OS           []string        `xml:"os"`
	Hash         []xmlHash       `xml:"hash"`
	Pieces       []xmlPieces     `xml:"pieces"`
	Verification xmlVerification `xml:"verification"`
	URL          []xmlURL        `xml:"url"`
	MetaURL      []xmlMetaURL    `xml:"metaurl"`
	Resources    xmlResources    `xml:"resources"`
}

type xmlHash struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type xmlPieces struct {
	Length string    `xml:"length,attr"`
	Type   string    `xml:"type,attr"`
	Hash   []xmlHash `xml:"hash"`
}

type xmlVerification struct {
	Hash   []xmlHash   `xml:"hash"`
	Pieces []xmlPieces `xml:"pieces"`
}

type xmlResources struct {
	MaxConnections string   `xml:"maxconnections,attr"`
	URL            []xmlURL `xml:"url"`
}

type xmlURL struct {
	Location       string `xml:"location,attr"`
	Priority       string `xml:"priority,attr"`
	Preference     string `xml:"preference,attr"`
	Type           string `xml:"type,attr"`
	MaxConnections string `xml:"maxconnections,attr"`
	Value          string `xml:",chardata"`
}

type xmlMetaURL struct {
	MediaType string `xml:"mediatype,attr"`
	Priority  string `xml:"priority,attr"`
	Value     string `xml:",chardata"`
}

// Parse decodes a metalink document. Entries without a name or without any
// resource are dropped.
func Parse(r io.Reader) ([]*Entry, error) {
	var doc xmlDocument
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
			return input, nil
		}
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: metalink: %v", errpkg.ErrDescriptorParse, err)
	}

	var entries []*Entry
	for _, f := range doc.Files4 {
		if e := convertFile(f, false); e != nil {
			entries = append(entries, e)
		}
	}
	for _, f := range doc.Files3 {
		if e := convertFile(f, true); e != nil {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: metalink: no usable file entry", errpkg.ErrDescriptorParse)
	}
	return entries, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) ([]*Entry, error) {
	return Parse(bytes.NewReader(data))
}

func convertFile(f xmlFile, v3 bool) *Entry {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil
	}
	e := &Entry{
		Name:           name,
		Version:        strings.TrimSpace(f.Version),
		MaxConnections: atoiOr(f.Resources.MaxConnections, -1),
	}
	e.Size, _ = strconv.ParseInt(strings.TrimSpace(f.Size), 10, 64)
	for _, l := range f.Language {
		if l = strings.TrimSpace(l); l != "" {
			e.Languages = append(e.Languages, l)
		}
	}
	for _, o := range f.OS {
		if o = strings.TrimSpace(o); o != "" {
			e.OSes = append(e.OSes, o)
		}
	}

	hashes := append(append([]xmlHash{}, f.Hash...), f.Verification.Hash...)
	for _, h := range hashes {
		algo := canonicalAlgo(h.Type)
		hex := strings.ToLower(strings.TrimSpace(h.Value))
		if algo != "" && hex != "" {
			e.Checksums = append(e.Checksums, Checksum{Algo: algo, Hex: hex})
		}
	}
	pieces := append(append([]xmlPieces{}, f.Pieces...), f.Verification.Pieces...)
	for _, p := range pieces {
		length, err := strconv.ParseInt(strings.TrimSpace(p.Length), 10, 64)
		algo := canonicalAlgo(p.Type)
		if err != nil || length <= 0 || algo == "" || len(p.Hash) == 0 {
			continue
		}
		if e.PieceHashAlgo != "" && strength(algo) <= strength(e.PieceHashAlgo) {
			continue
		}
		e.PieceLength = length
		e.PieceHashAlgo = algo
		e.PieceHashes = e.PieceHashes[:0]
		for _, h := range p.Hash {
			e.PieceHashes = append(e.PieceHashes, strings.ToLower(strings.TrimSpace(h.Value)))
		}
	}

	urls := f.URL
	if v3 {
		urls = f.Resources.URL
	}
	for _, u := range urls {
		loc := strings.TrimSpace(u.Value)
		if loc == "" {
			continue
		}
		res := &Resource{
			URL:            loc,
			Type:           strings.ToLower(strings.TrimSpace(u.Type)),
			Location:       strings.ToLower(strings.TrimSpace(u.Location)),
			MaxConnections: atoiOr(u.MaxConnections, -1),
		}
		if v3 {
			res.Priority = preferenceToPriority(u.Preference)
		} else {
			res.Priority = clampPriority(atoiOr(u.Priority, lowestPriority))
		}
		if res.Type == "" {
			res.Type = schemeOf(loc)
		}
		e.Resources = append(e.Resources, res)
	}
	for _, m := range f.MetaURL {
		loc := strings.TrimSpace(m.Value)
		if loc == "" {
			continue
		}
		e.MetaURLs = append(e.MetaURLs, &MetaURL{
			URL:       loc,
			MediaType: strings.ToLower(strings.TrimSpace(m.MediaType)),
			Priority:  clampPriority(atoiOr(m.Priority, lowestPriority)),
		})
	}
	if len(e.Resources) == 0 && len(e.MetaURLs) == 0 {
		return nil
	}
	return e
}

// Metalink 3 preference runs 0..100 with larger being better.
func preferenceToPriority(pref string) int {
	p := atoiOr(pref, -1)
	if p < 0 || p > 100 {
		return lowestPriority
	}
	return 101 - p
}

func clampPriority(p int) int {
	if p < 1 || p > lowestPriority {
		return lowestPriority
	}
	return p
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func schemeOf(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

var algoNames = map[string]string{
	"md5":     "md5",
	"sha1":    "sha-1",
	"sha-1":   "sha-1",
	"sha224":  "sha-224",
	"sha-224": "sha-224",
	"sha256":  "sha-256",
	"sha-256": "sha-256",
	"sha384":  "sha-384",
	"sha-384": "sha-384",
	"sha512":  "sha-512",
	"sha-512": "sha-512",
}

func canonicalAlgo(t string) string {
	return algoNames[strings.ToLower(strings.TrimSpace(t))]
}

func strength(algo string) int {
	switch algo {
	case "md5":
		return 1
	case "sha-1":
		return 2
	case "sha-224":
		return 3
	case "sha-256":
		return 4
	case "sha-384":
		return 5
	case "sha-512":
		return 6
	}
	return 0
}

// StrongestChecksum returns the checksum with the strongest algorithm, or
// nil when the entry carries none.
func (e *Entry) StrongestChecksum() *Checksum {
	var best *Checksum
	for i := range e.Checksums {
		c := &e.Checksums[i]
		if best == nil || strength(c.Algo) > strength(best.Algo) {
			best = c
		}
	}
	return best
}
