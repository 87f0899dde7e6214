package bittorrent

import (
	"download_planner/internal/download/types"
	"download_planner/internal/option"
)

// AdjustAnnounceURI applies bt-exclude-tracker and then bt-tracker to the
// announce list of attrs. An excluded "*" removes every tracker; each added
// tracker becomes a tier of its own.
func AdjustAnnounceURI(attrs *types.TorrentAttrs, opt *option.Option) {
	RemoveAnnounceURI(attrs, option.SplitList(opt.Get(option.BtExcludeTracker)))
	AddAnnounceURI(attrs, option.SplitList(opt.Get(option.BtTracker)))
}

func RemoveAnnounceURI(attrs *types.TorrentAttrs, uris []string) {
	if len(uris) == 0 {
		return
	}
	exclude := make(map[string]bool, len(uris))
	for _, u := range uris {
		if u == "*" {
			attrs.AnnounceList = nil
			return
		}
		exclude[u] = true
	}
	var tiers [][]string
	for _, tier := range attrs.AnnounceList {
		var kept []string
		for _, u := range tier {
			if !exclude[u] {
				kept = append(kept, u)
			}
		}
		if len(kept) > 0 {
			tiers = append(tiers, kept)
		}
	}
	attrs.AnnounceList = tiers
}

func AddAnnounceURI(attrs *types.TorrentAttrs, uris []string) {
	for _, u := range uris {
		attrs.AnnounceList = append(attrs.AnnounceList, []string{u})
	}
}
