package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"camclone/internal/app"
	"camclone/internal/config"
	"camclone/internal/domain"
	appErrors "camclone/internal/errors"
	"camclone/internal/geo"
	"camclone/internal/infra/drive"
	"camclone/internal/infra/exif"
	"camclone/internal/infra/exiftool"
	osfs "camclone/internal/infra/fs"
	"camclone/internal/infra/magick"
	"camclone/internal/logging"
	"camclone/internal/policy"
	"camclone/internal/presentation"
	"camclone/internal/tui"
)

var (
	flagFrom         string
	flagTo           string
	flagDryRun       bool
	flagIgnoreGeotag bool
	flagAfter        string
	flagNoUI         bool
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone images according to the policies defined in the config file",
	RunE:  runClone,
}

func init() {
	cloneCmd.Flags().StringVar(&flagFrom, "from", "", "origin path to import")
	cloneCmd.Flags().StringVar(&flagTo, "to", "", "destination path to export")
	cloneCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would happen without writing")
	cloneCmd.Flags().BoolVar(&flagIgnoreGeotag, "ignore-geotag", false, "skip gps backfill entirely")
	cloneCmd.Flags().StringVar(&flagAfter, "after", "", "only import files taken after this date (YYYY, YYYY-MM or YYYY-MM-DD)")
	cloneCmd.Flags().BoolVar(&flagNoUI, "no-ui", false, "plain output instead of the progress view")
}

func runClone(cmd *cobra.Command, args []string) error {
	// An interrupt cancels the context; in-flight files finish or fail
	// cleanly before the run returns.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := logging.New(flagVerbose)
	defer logger.Sync()

	confPath, err := configPath()
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}
	conf, err := config.Load(confPath)
	if err != nil {
		if os.IsNotExist(err) {
			return appErrors.Wrap(appErrors.InvalidConfig, "config", confPath,
				errors.New("no configuration found, run 'camclone init' first"))
		}
		return appErrors.Wrap(appErrors.InvalidConfig, "config", confPath, err)
	}

	if flagFrom != "" {
		conf.Import.From = config.ExpandHome(flagFrom)
	}
	if flagTo != "" {
		conf.Import.To = config.ExpandHome(flagTo)
	}
	if conf.Import.From == "" || conf.Import.To == "" {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", confPath,
			errors.New("both import paths are required"))
	}

	filesystem := osfs.OSFS{}
	if _, err := filesystem.Stat(conf.Import.From); err != nil {
		return appErrors.Wrap(appErrors.NotFound, "stat", conf.Import.From, err)
	}

	metadata := exiftool.New()
	if err := metadata.Check(ctx); err != nil {
		return appErrors.Wrap(appErrors.Internal, "setup", "", err)
	}
	codec := magick.New()
	if tableNeedsCodec(conf.Table) {
		if err := codec.Check(ctx); err != nil {
			return appErrors.Wrap(appErrors.Internal, "setup", "", err)
		}
	}

	var resume *time.Time
	if flagAfter != "" {
		after, err := app.ParseAfter(flagAfter)
		if err != nil {
			return appErrors.Wrap(appErrors.InvalidConfig, "after", "", err)
		}
		resume = &after
	} else {
		resume = app.ComputeResumePoint(filesystem, conf.Import.To)
	}
	if resume != nil {
		logger.Verbosef("Resume point %s", resume.Format("2006-01-02"))
	}

	searcher := buildSearcher(ctx, resume, logger)

	planner := &app.Planner{
		FS:        filesystem,
		Probe:     exif.Reader{},
		Inspector: metadata,
		Geo:       searcher,
		Policies:  conf.Table,
		Logger:    logger,
	}
	executor := &app.Executor{
		FS:     filesystem,
		Codec:  codec,
		Gps:    metadata,
		Logger: logger,
	}

	if err := filesystem.MkdirAll(conf.Import.To, 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", conf.Import.To, err)
	}

	printer := presentation.Printer{Writer: os.Stdout, Verbose: flagVerbose}

	if flagDryRun {
		plan, fileErrors, err := planner.Plan(ctx, conf.Import.From, conf.Import.To, resume)
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "plan", conf.Import.From, err)
		}
		printer.PrintDryRun(plan)
		printFileErrors(fileErrors)
		return nil
	}

	if flagNoUI {
		return runPlain(ctx, planner, executor, printer, conf, resume)
	}
	return runWithUI(ctx, cancel, planner, executor, conf, resume)
}

func runPlain(ctx context.Context, planner *app.Planner, executor *app.Executor, printer presentation.Printer, conf config.Config, resume *time.Time) error {
	plan, planErrors, err := planner.Plan(ctx, conf.Import.From, conf.Import.To, resume)
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "plan", conf.Import.From, err)
	}

	stats, execErrors := executor.Execute(ctx, plan)
	fileErrors := append(planErrors, execErrors...)
	stats.Failed += len(planErrors)

	printer.PrintRun(plan, stats, fileErrors)
	return nil
}

func runWithUI(ctx context.Context, cancel context.CancelFunc, planner *app.Planner, executor *app.Executor, conf config.Config, resume *time.Time) error {
	model := tui.NewModel(tui.Config{
		SourceDir: conf.Import.From,
		TargetDir: conf.Import.To,
	})
	program := tea.NewProgram(model)

	planner.OnProgress = func(current, total int) {
		program.Send(tui.ScanProgressMsg{Current: current, Total: total})
	}
	executor.OnProgress = func(current, total int, file string) {
		program.Send(tui.ExecProgressMsg{Current: current, Total: total, File: file})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		plan, planErrors, err := planner.Plan(ctx, conf.Import.From, conf.Import.To, resume)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return
		}
		program.Send(tui.PlanReadyMsg{Plan: plan})

		stats, execErrors := executor.Execute(ctx, plan)
		stats.Failed += len(planErrors)
		program.Send(tui.RunDoneMsg{Stats: stats, Errors: append(planErrors, execErrors...)})
	}()

	final, err := program.Run()
	// Quitting the view cancels the run; wait for the in-flight file before
	// returning.
	cancel()
	<-done
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "ui", "", err)
	}
	if m, ok := final.(tui.Model); ok && m.Phase == tui.PhaseError && m.Err != nil {
		return appErrors.Wrap(appErrors.Internal, "clone", "", m.Err)
	}
	return nil
}

// buildSearcher picks the gps search capability once at startup: a real
// cache-backed searcher when track logs are reachable, the null one
// otherwise. Missing credentials degrade to no matches, never to a failure.
func buildSearcher(ctx context.Context, resume *time.Time, logger logging.Logger) geo.Searcher {
	if flagIgnoreGeotag {
		return geo.NullSearcher{}
	}

	secretPath, err := config.ClientSecretPath()
	if err != nil {
		return geo.NullSearcher{}
	}
	secret, err := os.ReadFile(secretPath)
	if err != nil {
		logger.Verbosef("no drive client credentials, geotagging disabled")
		return geo.NullSearcher{}
	}
	cred, err := credPath()
	if err != nil {
		return geo.NullSearcher{}
	}
	session, err := drive.NewSession(secret, cred)
	if err != nil {
		logger.Warnf("drive credentials unusable, geotagging disabled: %v", err)
		return geo.NullSearcher{}
	}

	var start time.Time
	if resume != nil {
		start = *resume
	}
	return app.BuildGeoSearcher(ctx, drive.NewClient(session), app.DefaultMatchWindow, start, time.Now(), logger)
}

func tableNeedsCodec(table policy.Table) bool {
	for _, p := range table {
		if p.Bypass {
			continue
		}
		if p.Resize.Kind != policy.ResizePreserve || p.Quality > 0 || p.Format != policy.FormatPreserve {
			return true
		}
	}
	return false
}

func printFileErrors(fileErrors []domain.FileError) {
	if len(fileErrors) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%d files could not be inspected:\n", len(fileErrors))
	for _, fe := range fileErrors {
		fmt.Fprintf(os.Stderr, "- %s (%s): %v\n", fe.Path, fe.Stage, fe.Err)
	}
}
