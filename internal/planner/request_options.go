package planner

import (
	"sort"

	"download_planner/internal/option"
)

// requestOptions are the keys a list-file entry may set for itself. Anything
// else written inline is ignored.
var requestOptions = map[string]struct{}{
	option.Dir:                          {},
	option.CheckIntegrity:               {},
	option.Continue:                     {},
	option.AllProxy:                     {},
	option.AllProxyUser:                 {},
	option.AllProxyPasswd:               {},
	option.ConnectTimeout:               {},
	option.DryRun:                       {},
	option.LowestSpeedLimit:             {},
	option.MaxFileNotFound:              {},
	option.MaxTries:                     {},
	option.NoProxy:                      {},
	option.Out:                          {},
	option.ProxyMethod:                  {},
	option.RemoteTime:                   {},
	option.Split:                        {},
	option.Timeout:                      {},
	option.HTTPAuthChallenge:            {},
	option.HTTPNoCache:                  {},
	option.HTTPUser:                     {},
	option.HTTPPasswd:                   {},
	option.HTTPProxy:                    {},
	option.HTTPProxyUser:                {},
	option.HTTPProxyPasswd:              {},
	option.HTTPSProxy:                   {},
	option.HTTPSProxyUser:               {},
	option.HTTPSProxyPasswd:             {},
	option.Referer:                      {},
	option.EnableHTTPKeepAlive:          {},
	option.EnableHTTPPipelining:         {},
	option.Header:                       {},
	option.UseHead:                      {},
	option.UserAgent:                    {},
	option.FTPUser:                      {},
	option.FTPPasswd:                    {},
	option.FTPPasv:                      {},
	option.FTPProxy:                     {},
	option.FTPProxyUser:                 {},
	option.FTPProxyPasswd:               {},
	option.FTPType:                      {},
	option.FTPReuseConnection:           {},
	option.NoNetrc:                      {},
	option.ReuseURI:                     {},
	option.SelectFile:                   {},
	option.BtEnableLPD:                  {},
	option.BtExternalIP:                 {},
	option.BtHashCheckSeed:              {},
	option.BtMaxOpenFiles:               {},
	option.BtMaxPeers:                   {},
	option.BtMetadataOnly:               {},
	option.BtMinCryptoLevel:             {},
	option.BtPrioritizePiece:            {},
	option.BtRequireCrypto:              {},
	option.BtRequestPeerSpeedLimit:      {},
	option.BtSaveMetadata:               {},
	option.BtSeedUnverified:             {},
	option.BtStopTimeout:                {},
	option.BtTrackerInterval:            {},
	option.BtTrackerTimeout:             {},
	option.BtTrackerConnectTimeout:      {},
	option.EnablePeerExchange:           {},
	option.FollowTorrent:                {},
	option.IndexOut:                     {},
	option.MaxUploadLimit:               {},
	option.SeedRatio:                    {},
	option.SeedTime:                     {},
	option.FollowMetalink:               {},
	option.MetalinkServers:              {},
	option.MetalinkLanguage:             {},
	option.MetalinkLocation:             {},
	option.MetalinkOS:                   {},
	option.MetalinkVersion:              {},
	option.MetalinkPreferredProtocol:    {},
	option.MetalinkEnableUniqueProtocol: {},
	option.AllowOverwrite:               {},
	option.AllowPieceLengthChange:       {},
	option.AsyncDNS:                     {},
	option.AutoFileRenaming:             {},
	option.FileAllocation:               {},
	option.MaxDownloadLimit:             {},
	option.NoFileAllocationLimit:        {},
	option.ParameterizedURI:             {},
	option.RealtimeChunkChecksum:        {},
	option.RemoveControlFile:            {},
	option.AlwaysResume:                 {},
	option.MaxResumeFailureTries:        {},
	option.HTTPAcceptGzip:               {},
	option.MaxConnectionPerServer:       {},
	option.MinSplitSize:                 {},
	option.ConditionalGet:               {},
	option.EnableAsyncDNS6:              {},
	option.BtTracker:                    {},
	option.BtExcludeTracker:             {},
	option.RetryWait:                    {},
	option.MetalinkBaseURI:              {},
	option.Pause:                        {},
	option.StreamPieceSelector:          {},
	option.HashCheckOnly:                {},
	option.Checksum:                     {},
	option.PieceLength:                  {},
}

// RequestOptions returns the per-entry keys in sorted order.
func RequestOptions() []string {
	keys := make([]string, 0, len(requestOptions))
	for k := range requestOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsRequestOption reports whether a list-file entry may set key.
func IsRequestOption(key string) bool {
	_, ok := requestOptions[key]
	return ok
}
