package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"download_planner/internal/config"
	"download_planner/internal/option"
)

// optionFlag binds a command line flag to a preference key. The flag is
// named after the key.
type optionFlag struct {
	key       string
	shorthand string
	usage     string
	boolean   bool
	// repeated flags are joined with newlines
	repeated bool
}

var optionFlags = []optionFlag{
	{key: option.InputFile, shorthand: "i", usage: "Read locators from a list file (- for stdin)"},
	{key: option.Dir, shorthand: "d", usage: "Directory to store downloaded files"},
	{key: option.Out, shorthand: "o", usage: "File name of the downloaded file"},
	{key: option.Split, shorthand: "s", usage: "Number of connections per job"},
	{key: option.MaxConnectionPerServer, shorthand: "x", usage: "Maximum connections to one server"},
	{key: option.MinSplitSize, usage: "Do not split ranges smaller than this (K or M suffix)"},
	{key: option.PieceLength, usage: "Piece length of stream jobs (K or M suffix)"},
	{key: option.ParameterizedURI, shorthand: "P", usage: "Expand {a,b} and [1-9] in URIs", boolean: true},
	{key: option.ForceSequential, shorthand: "Z", usage: "Plan every locator as its own job", boolean: true},
	{key: option.TorrentFile, shorthand: "T", usage: "Path to a .torrent file"},
	{key: option.MetalinkFile, shorthand: "M", usage: "Path to a metalink file"},
	{key: option.MetalinkBaseURI, usage: "Base URI for relative metalink URLs"},
	{key: option.MetalinkServers, usage: "Connections per metalink job"},
	{key: option.MetalinkLanguage, usage: "Only plan metalink files in this language"},
	{key: option.MetalinkOS, usage: "Only plan metalink files for this OS"},
	{key: option.MetalinkVersion, usage: "Only plan metalink files of this version"},
	{key: option.MetalinkLocation, usage: "Preferred mirror locations, comma separated"},
	{key: option.MetalinkPreferredProtocol, usage: "Preferred protocol: http, https, ftp or none"},
	{key: option.MetalinkEnableUniqueProtocol, usage: "Use one protocol per mirror host", boolean: true},
	{key: option.SelectFile, usage: "Indexes of torrent or metalink files to download, e.g. 1-3,7"},
	{key: option.IndexOut, usage: "Path of the file at an index, INDEX=PATH", repeated: true},
	{key: option.Checksum, usage: "Expected digest, TYPE=HEX"},
	{key: option.Pause, usage: "Add planned jobs paused", boolean: true},
	{key: option.BtTracker, usage: "Extra trackers, comma separated"},
	{key: option.BtExcludeTracker, usage: "Trackers to drop, comma separated, * for all"},
	{key: option.FollowTorrent, usage: "Follow downloaded torrents: true, false or mem"},
	{key: option.FollowMetalink, usage: "Follow downloaded metalinks: true, false or mem"},
	{key: option.ConfPath, usage: "Path to the configuration file"},
}

func registerOptionFlags(cmd *cobra.Command) {
	for _, f := range optionFlags {
		switch {
		case f.boolean:
			cmd.Flags().BoolP(f.key, f.shorthand, false, f.usage)
		case f.repeated:
			cmd.Flags().StringArrayP(f.key, f.shorthand, nil, f.usage)
		default:
			cmd.Flags().StringP(f.key, f.shorthand, "", f.usage)
		}
	}
}

// buildOption layers defaults, the conf file and explicitly set flags.
func buildOption(cmd *cobra.Command) (*option.Option, error) {
	opt := option.NewDefault()

	confPath := config.GetConfPath()
	if cmd.Flags().Changed(option.ConfPath) {
		confPath, _ = cmd.Flags().GetString(option.ConfPath)
	}
	if err := config.LoadConfFile(confPath, opt); err != nil {
		return nil, err
	}

	for _, f := range optionFlags {
		if f.key == option.ConfPath || !cmd.Flags().Changed(f.key) {
			continue
		}
		var value string
		switch {
		case f.boolean:
			b, _ := cmd.Flags().GetBool(f.key)
			value = strconv.FormatBool(b)
		case f.repeated:
			values, _ := cmd.Flags().GetStringArray(f.key)
			value = strings.Join(values, "\n")
		default:
			value, _ = cmd.Flags().GetString(f.key)
		}
		if err := option.Validate(f.key, value); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.key, err)
		}
		opt.Put(f.key, value)
	}
	return opt, nil
}
