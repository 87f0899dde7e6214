package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"download_planner/internal/download/types"
)

type fileView struct {
	Path      string   `json:"path"`
	Length    int64    `json:"length"`
	Requested bool     `json:"requested"`
	URIs      []string `json:"uris,omitempty"`
}

type jobView struct {
	GID         string     `json:"gid"`
	Kind        string     `json:"kind"`
	Concurrency int        `json:"concurrency"`
	Paused      bool       `json:"paused"`
	InMemory    bool       `json:"in_memory"`
	PieceLength int64      `json:"piece_length"`
	Metadata    string     `json:"metadata,omitempty"`
	InfoHash    string     `json:"info_hash,omitempty"`
	Digest      string     `json:"digest,omitempty"`
	Accept      string     `json:"accept"`
	Hooks       []string   `json:"hooks,omitempty"`
	Files       []fileView `json:"files"`
}

func viewOf(j *types.Job) jobView {
	v := jobView{
		GID:         j.GID,
		Kind:        j.Kind.String(),
		Concurrency: j.NumConcurrentCommand,
		Paused:      j.PauseRequested,
		InMemory:    j.InMemory,
		Accept:      j.AcceptHeader().Get("Accept"),
	}
	if j.Metadata != nil {
		v.Metadata = j.Metadata.String()
	}
	for _, h := range j.PostDownloadHandlers {
		v.Hooks = append(v.Hooks, h.Name())
	}
	if ctx := j.Context; ctx != nil {
		v.PieceLength = ctx.PieceLength
		if ctx.Attrs != nil {
			v.InfoHash = ctx.Attrs.InfoHash
		}
		if ctx.DigestAlgo != "" {
			v.Digest = ctx.DigestAlgo + "=" + hex.EncodeToString(ctx.Digest)
		}
		for _, fe := range ctx.FileEntries {
			v.Files = append(v.Files, fileView{
				Path:      fe.Path,
				Length:    fe.Length,
				Requested: fe.Requested,
				URIs:      fe.URIs,
			})
		}
	}
	return v
}

func writeJSON(w io.Writer, jobs []*types.Job) error {
	views := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, viewOf(j))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatLength(n int64) string {
	if n <= 0 {
		return "unknown size"
	}
	return humanize.IBytes(uint64(n))
}

// writePlan prints one block per job.
func writePlan(w io.Writer, jobs []*types.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "Nothing to download.")
		return
	}
	for i, j := range jobs {
		v := viewOf(j)
		flags := []string{v.Kind, fmt.Sprintf("x%d", v.Concurrency)}
		if v.Paused {
			flags = append(flags, "paused")
		}
		if v.InMemory {
			flags = append(flags, "in-memory")
		}
		fmt.Fprintf(w, "#%d [%s] %s\n", i+1, shortID(v.GID), strings.Join(flags, " "))
		if v.Metadata != "" {
			fmt.Fprintf(w, "  from   %s\n", v.Metadata)
		}
		if v.InfoHash != "" {
			fmt.Fprintf(w, "  hash   %s\n", v.InfoHash)
		}
		if v.Digest != "" {
			fmt.Fprintf(w, "  digest %s\n", v.Digest)
		}
		if v.PieceLength > 0 {
			fmt.Fprintf(w, "  pieces %s\n", humanize.IBytes(uint64(v.PieceLength)))
		}
		for _, f := range v.Files {
			mark := " "
			if !f.Requested {
				mark = "-"
			}
			path := f.Path
			if path == "" {
				path = "(name from server)"
			}
			fmt.Fprintf(w, "  %s file %s (%s)\n", mark, path, formatLength(f.Length))
			for _, u := range collapse(f.URIs) {
				fmt.Fprintf(w, "      %s\n", u)
			}
		}
	}
}

// collapse folds runs of the same URI into "uri (xN)".
func collapse(uris []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, u := range uris {
		if counts[u] == 0 {
			order = append(order, u)
		}
		counts[u]++
	}
	out := make([]string, 0, len(order))
	for _, u := range order {
		if n := counts[u]; n > 1 {
			out = append(out, fmt.Sprintf("%s (x%d)", u, n))
		} else {
			out = append(out, u)
		}
	}
	return out
}
