package option

// Preference keys. The names follow the long command-line flag of each option.
const (
	Dir                          = "dir"
	Out                          = "out"
	CheckIntegrity               = "check-integrity"
	Continue                     = "continue"
	AllProxy                     = "all-proxy"
	AllProxyUser                 = "all-proxy-user"
	AllProxyPasswd               = "all-proxy-passwd"
	ConnectTimeout               = "connect-timeout"
	DryRun                       = "dry-run"
	LowestSpeedLimit             = "lowest-speed-limit"
	MaxFileNotFound              = "max-file-not-found"
	MaxTries                     = "max-tries"
	NoProxy                      = "no-proxy"
	ProxyMethod                  = "proxy-method"
	RemoteTime                   = "remote-time"
	Split                        = "split"
	Timeout                      = "timeout"
	HTTPAuthChallenge            = "http-auth-challenge"
	HTTPNoCache                  = "http-no-cache"
	HTTPUser                     = "http-user"
	HTTPPasswd                   = "http-passwd"
	HTTPProxy                    = "http-proxy"
	HTTPProxyUser                = "http-proxy-user"
	HTTPProxyPasswd              = "http-proxy-passwd"
	HTTPSProxy                   = "https-proxy"
	HTTPSProxyUser               = "https-proxy-user"
	HTTPSProxyPasswd             = "https-proxy-passwd"
	Referer                      = "referer"
	EnableHTTPKeepAlive          = "enable-http-keep-alive"
	EnableHTTPPipelining         = "enable-http-pipelining"
	Header                       = "header"
	UseHead                      = "use-head"
	UserAgent                    = "user-agent"
	FTPUser                      = "ftp-user"
	FTPPasswd                    = "ftp-passwd"
	FTPPasv                      = "ftp-pasv"
	FTPProxy                     = "ftp-proxy"
	FTPProxyUser                 = "ftp-proxy-user"
	FTPProxyPasswd               = "ftp-proxy-passwd"
	FTPType                      = "ftp-type"
	FTPReuseConnection           = "ftp-reuse-connection"
	NoNetrc                      = "no-netrc"
	ReuseURI                     = "reuse-uri"
	SelectFile                   = "select-file"
	BtEnableLPD                  = "bt-enable-lpd"
	BtExternalIP                 = "bt-external-ip"
	BtHashCheckSeed              = "bt-hash-check-seed"
	BtMaxOpenFiles               = "bt-max-open-files"
	BtMaxPeers                   = "bt-max-peers"
	BtMetadataOnly               = "bt-metadata-only"
	BtMinCryptoLevel             = "bt-min-crypto-level"
	BtPrioritizePiece            = "bt-prioritize-piece"
	BtRequireCrypto              = "bt-require-crypto"
	BtRequestPeerSpeedLimit      = "bt-request-peer-speed-limit"
	BtSaveMetadata               = "bt-save-metadata"
	BtSeedUnverified             = "bt-seed-unverified"
	BtStopTimeout                = "bt-stop-timeout"
	BtTrackerInterval            = "bt-tracker-interval"
	BtTrackerTimeout             = "bt-tracker-timeout"
	BtTrackerConnectTimeout      = "bt-tracker-connect-timeout"
	EnablePeerExchange           = "enable-peer-exchange"
	FollowTorrent                = "follow-torrent"
	IndexOut                     = "index-out"
	MaxUploadLimit               = "max-upload-limit"
	SeedRatio                    = "seed-ratio"
	SeedTime                     = "seed-time"
	FollowMetalink               = "follow-metalink"
	MetalinkServers              = "metalink-servers"
	MetalinkLanguage             = "metalink-language"
	MetalinkLocation             = "metalink-location"
	MetalinkOS                   = "metalink-os"
	MetalinkVersion              = "metalink-version"
	MetalinkPreferredProtocol    = "metalink-preferred-protocol"
	MetalinkEnableUniqueProtocol = "metalink-enable-unique-protocol"
	AllowOverwrite               = "allow-overwrite"
	AllowPieceLengthChange       = "allow-piece-length-change"
	AsyncDNS                     = "async-dns"
	AutoFileRenaming             = "auto-file-renaming"
	FileAllocation               = "file-allocation"
	MaxDownloadLimit             = "max-download-limit"
	NoFileAllocationLimit        = "no-file-allocation-limit"
	ParameterizedURI             = "parameterized-uri"
	RealtimeChunkChecksum        = "realtime-chunk-checksum"
	RemoveControlFile            = "remove-control-file"
	AlwaysResume                 = "always-resume"
	MaxResumeFailureTries        = "max-resume-failure-tries"
	HTTPAcceptGzip               = "http-accept-gzip"
	MaxConnectionPerServer       = "max-connection-per-server"
	MinSplitSize                 = "min-split-size"
	ConditionalGet               = "conditional-get"
	EnableAsyncDNS6              = "enable-async-dns6"
	BtTracker                    = "bt-tracker"
	BtExcludeTracker             = "bt-exclude-tracker"
	RetryWait                    = "retry-wait"
	MetalinkBaseURI              = "metalink-base-uri"
	Pause                        = "pause"
	StreamPieceSelector          = "stream-piece-selector"
	HashCheckOnly                = "hash-check-only"
	Checksum                     = "checksum"
	PieceLength                  = "piece-length"

	// Keys that only make sense globally.
	InputFile       = "input-file"
	TorrentFile     = "torrent-file"
	MetalinkFile    = "metalink-file"
	ForceSequential = "force-sequential"
	ConfPath        = "conf-path"
)

// Values used by boolean options.
const (
	True  = "true"
	False = "false"
)

// OneshotKeys are consumed by the job they were given to and never passed
// on to the jobs it spawns.
var OneshotKeys = []string{Pause}

type pref struct {
	def string
	tag string
}

// prefs holds the default value and validator tag of every known key.
// Keys with an empty tag accept free-form text.
var prefs = map[string]pref{
	Dir:                          {def: "."},
	Out:                          {},
	CheckIntegrity:               {def: False, tag: "oneof=true false"},
	Continue:                     {def: False, tag: "oneof=true false"},
	AllProxy:                     {},
	AllProxyUser:                 {},
	AllProxyPasswd:               {},
	ConnectTimeout:               {def: "60", tag: "posint"},
	DryRun:                       {def: False, tag: "oneof=true false"},
	LowestSpeedLimit:             {def: "0", tag: "size"},
	MaxFileNotFound:              {def: "0", tag: "number"},
	MaxTries:                     {def: "5", tag: "number"},
	NoProxy:                      {},
	ProxyMethod:                  {def: "get", tag: "oneof=get tunnel"},
	RemoteTime:                   {def: False, tag: "oneof=true false"},
	Split:                        {def: "5", tag: "posint"},
	Timeout:                      {def: "60", tag: "posint"},
	HTTPAuthChallenge:            {def: False, tag: "oneof=true false"},
	HTTPNoCache:                  {def: False, tag: "oneof=true false"},
	HTTPUser:                     {},
	HTTPPasswd:                   {},
	HTTPProxy:                    {},
	HTTPProxyUser:                {},
	HTTPProxyPasswd:              {},
	HTTPSProxy:                   {},
	HTTPSProxyUser:               {},
	HTTPSProxyPasswd:             {},
	Referer:                      {},
	EnableHTTPKeepAlive:          {def: True, tag: "oneof=true false"},
	EnableHTTPPipelining:         {def: False, tag: "oneof=true false"},
	Header:                       {},
	UseHead:                      {def: False, tag: "oneof=true false"},
	UserAgent:                    {def: "dlplan"},
	FTPUser:                      {},
	FTPPasswd:                    {},
	FTPPasv:                      {def: True, tag: "oneof=true false"},
	FTPProxy:                     {},
	FTPProxyUser:                 {},
	FTPProxyPasswd:               {},
	FTPType:                      {def: "binary", tag: "oneof=binary ascii"},
	FTPReuseConnection:           {def: True, tag: "oneof=true false"},
	NoNetrc:                      {def: False, tag: "oneof=true false"},
	ReuseURI:                     {def: True, tag: "oneof=true false"},
	SelectFile:                   {tag: "intrange"},
	BtEnableLPD:                  {def: False, tag: "oneof=true false"},
	BtExternalIP:                 {tag: "ip"},
	BtHashCheckSeed:              {def: True, tag: "oneof=true false"},
	BtMaxOpenFiles:               {def: "100", tag: "posint"},
	BtMaxPeers:                   {def: "55", tag: "number"},
	BtMetadataOnly:               {def: False, tag: "oneof=true false"},
	BtMinCryptoLevel:             {def: "plain", tag: "oneof=plain arc4"},
	BtPrioritizePiece:            {},
	BtRequireCrypto:              {def: False, tag: "oneof=true false"},
	BtRequestPeerSpeedLimit:      {def: "50K", tag: "size"},
	BtSaveMetadata:               {def: False, tag: "oneof=true false"},
	BtSeedUnverified:             {def: False, tag: "oneof=true false"},
	BtStopTimeout:                {def: "0", tag: "number"},
	BtTrackerInterval:            {def: "0", tag: "number"},
	BtTrackerTimeout:             {def: "60", tag: "posint"},
	BtTrackerConnectTimeout:      {def: "60", tag: "posint"},
	EnablePeerExchange:           {def: True, tag: "oneof=true false"},
	FollowTorrent:                {def: True, tag: "oneof=true false mem"},
	IndexOut:                     {},
	MaxUploadLimit:               {def: "0", tag: "size"},
	SeedRatio:                    {def: "1.0", tag: "numeric"},
	SeedTime:                     {tag: "number"},
	FollowMetalink:               {def: True, tag: "oneof=true false mem"},
	MetalinkServers:              {def: "5", tag: "posint"},
	MetalinkLanguage:             {},
	MetalinkLocation:             {},
	MetalinkOS:                   {},
	MetalinkVersion:              {},
	MetalinkPreferredProtocol:    {def: "none", tag: "oneof=http https ftp none"},
	MetalinkEnableUniqueProtocol: {def: True, tag: "oneof=true false"},
	AllowOverwrite:               {def: False, tag: "oneof=true false"},
	AllowPieceLengthChange:       {def: False, tag: "oneof=true false"},
	AsyncDNS:                     {def: True, tag: "oneof=true false"},
	AutoFileRenaming:             {def: True, tag: "oneof=true false"},
	FileAllocation:               {def: "prealloc", tag: "oneof=none prealloc trunc falloc"},
	MaxDownloadLimit:             {def: "0", tag: "size"},
	NoFileAllocationLimit:        {def: "5M", tag: "size"},
	ParameterizedURI:             {def: False, tag: "oneof=true false"},
	RealtimeChunkChecksum:        {def: True, tag: "oneof=true false"},
	RemoveControlFile:            {def: False, tag: "oneof=true false"},
	AlwaysResume:                 {def: True, tag: "oneof=true false"},
	MaxResumeFailureTries:        {def: "0", tag: "number"},
	HTTPAcceptGzip:               {def: False, tag: "oneof=true false"},
	MaxConnectionPerServer:       {def: "1", tag: "posint"},
	MinSplitSize:                 {def: "20M", tag: "size"},
	ConditionalGet:               {def: False, tag: "oneof=true false"},
	EnableAsyncDNS6:              {def: False, tag: "oneof=true false"},
	BtTracker:                    {},
	BtExcludeTracker:             {},
	RetryWait:                    {def: "0", tag: "number"},
	MetalinkBaseURI:              {},
	Pause:                        {tag: "oneof=true false"},
	StreamPieceSelector:          {def: "default", tag: "oneof=default inorder geom"},
	HashCheckOnly:                {def: False, tag: "oneof=true false"},
	Checksum:                     {},
	PieceLength:                  {def: "1M", tag: "size"},
	InputFile:                    {},
	TorrentFile:                  {},
	MetalinkFile:                 {},
	ForceSequential:              {def: False, tag: "oneof=true false"},
	ConfPath:                     {},
}

// IsKnown reports whether key names a registered preference.
func IsKnown(key string) bool {
	_, ok := prefs[key]
	return ok
}

// NewDefault returns an Option holding the default value of every preference
// that has one.
func NewDefault() *Option {
	o := New()
	for key, p := range prefs {
		if p.def != "" {
			o.Put(key, p.def)
		}
	}
	return o
}
