package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"download_planner/internal/clipboard"
	"download_planner/internal/config"
	"download_planner/internal/download/types"
	"download_planner/internal/option"
	"download_planner/internal/planner"
	"download_planner/internal/state"
	"download_planner/internal/utils"
)

// Version information - set via ldflags during build.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var errNoLocator = errors.New("specify at least one locator, -i, -T or -M")

// Number of trace files kept in the logs directory.
const logRetentionCount = 5

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "dlplan [locator]...",
		Short: "Plan downloads from URIs, torrents, magnet links and metalinks",
		Long: `dlplan classifies every locator it is given, expands parameterized URIs
and prints the download jobs a download engine would run: target files,
source URIs and how many connections each job may open.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetVerbose(verbose)
			initializeGlobalState()
		},
		RunE: runPlan,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	registerOptionFlags(cmd)
	cmd.Flags().Bool("strict", false, "Abort on the first locator that cannot be planned")
	cmd.Flags().Bool("clipboard", false, "Read a locator from the clipboard")
	cmd.Flags().Bool("json", false, "Print the plan as JSON")
	cmd.Flags().Bool("journal", false, "Record planned jobs in the journal")
	cmd.Flags().Bool("skip-known", false, "Drop jobs whose descriptor is already in the journal")
	cmd.SetVersionTemplate("dlplan v{{.Version}}\n")
	cmd.AddCommand(newJournalCmd())
	return cmd
}

// initializeGlobalState prepares directories, DB, and logging for CLI usage.
func initializeGlobalState() {
	if err := config.EnsureDirs(); err != nil {
		utils.Debug("Failed to create app dirs: %v", err)
	}

	// Config journal state
	state.Configure(config.GetJournalPath())

	// Config logging
	utils.ConfigureDebug(config.GetLogsDir())
	utils.CleanupLogs(logRetentionCount)
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if utils.IsVerbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runPlan(cmd *cobra.Command, args []string) error {
	opt, err := buildOption(cmd)
	if err != nil {
		return err
	}

	// Check for clipboard flag to append a locator without manual paste.
	clipboardFlag, _ := cmd.Flags().GetBool("clipboard")
	if clipboardFlag {
		locator, err := clipboard.ReadLocator()
		if err != nil {
			if errors.Is(err, clipboard.ErrInvalidLocator) {
				return fmt.Errorf("clipboard does not contain a download URI or magnet link")
			}
			return fmt.Errorf("reading from clipboard: %w", err)
		}
		args = append(args, locator)
		utils.Debug("Locator from clipboard: %s", locator)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	p := planner.New(newLogger(cmd.ErrOrStderr()))
	p.Stdin = cmd.InOrStdin()

	jobs, err := plan(p, opt, args, strict)
	if err != nil {
		return err
	}
	utils.Debug("Planned %d job(s) from %d locator(s)", len(jobs), len(args))

	if skip, _ := cmd.Flags().GetBool("skip-known"); skip {
		if jobs, err = state.FilterKnown(jobs); err != nil {
			return err
		}
	}
	if record, _ := cmd.Flags().GetBool("journal"); record && len(jobs) > 0 {
		if err := state.RecordJobs(jobs); err != nil {
			return err
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), jobs)
	}
	writePlan(cmd.OutOrStdout(), jobs)
	return nil
}

// plan picks the entry point the way the options ask for: a list file, a
// torrent or metalink descriptor, then plain locators.
func plan(p *planner.Planner, opt *option.Option, args []string, strict bool) ([]*types.Job, error) {
	if len(args) == 0 && opt.Blank(option.TorrentFile) && opt.Blank(option.MetalinkFile) && opt.Blank(option.InputFile) {
		return nil, errNoLocator
	}
	var jobs []*types.Job
	if !opt.Blank(option.TorrentFile) {
		j, err := p.ForTorrent(opt, args, nil, true)
		if err != nil {
			return nil, err
		}
		return []*types.Job{j}, nil
	}
	if !opt.Blank(option.MetalinkFile) {
		planned, err := p.ForMetalink(opt, nil)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, planned...)
	}
	if !opt.Blank(option.InputFile) {
		planned, err := p.ForURIList(opt)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, planned...)
	}
	if len(args) > 0 {
		policy := planner.Lenient
		if strict {
			policy = planner.Strict
		}
		planned, err := p.ForURI(opt, args, planner.Flags{Policy: policy})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, planned...)
	}
	return jobs, nil
}

func Execute() {
	err := rootCmd.Execute()
	utils.CloseDebug()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
