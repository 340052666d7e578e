// Package app wires configuration, the transform engine, the Fermat
// test loop and the user interface into a runnable application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/gfncheck/internal/cli"
	"github.com/agbru/gfncheck/internal/config"
	apperrors "github.com/agbru/gfncheck/internal/errors"
	"github.com/agbru/gfncheck/internal/fermat"
	"github.com/agbru/gfncheck/internal/logging"
	"github.com/agbru/gfncheck/internal/metrics"
	"github.com/agbru/gfncheck/internal/server"
	"github.com/agbru/gfncheck/internal/transform"
	"github.com/agbru/gfncheck/internal/tui"
)

// Version is stamped by the build.
var Version = "dev"

// Application is one configured gfncheck invocation.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
}

// HasVersionFlag reports whether args request the version string.
func HasVersionFlag(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version line.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "gfncheck %s\n", Version)
}

// IsHelpError reports whether err is the flag package's help request.
func IsHelpError(err error) bool { return errors.Is(err, flag.ErrHelp) }

// New parses args into an Application. Flag errors and validation
// failures are reported on errWriter.
func New(args []string, errWriter io.Writer) (*Application, error) {
	app := &Application{ErrWriter: errWriter}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errWriter)
	app.Config.RegisterFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	app.Config.ApplyEnv(fs)

	// Positional form: gfncheck <b> <n> [expected-residue].
	if rest := fs.Args(); len(rest) >= 2 && app.Config.Base == 0 {
		b, err1 := strconv.ParseUint(rest[0], 10, 32)
		n, err2 := strconv.ParseUint(rest[1], 10, 32)
		if err1 != nil || err2 != nil {
			return nil, apperrors.NewConfigError("positional arguments must be <b> <n>, got %q %q", rest[0], rest[1])
		}
		app.Config.Base, app.Config.Size = b, n
		if len(rest) >= 3 {
			app.Config.ExpectedResidue = rest[2]
		}
	}

	if err := app.Config.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return nil, err
	}
	return app, nil
}

// Run executes the test and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.NewDefaultLogger()
	cfg := a.Config

	eng, err := transform.New(uint32(cfg.Base), int(cfg.Size), transform.Options{
		Threads:    resolveThreads(cfg),
		Width:      cfg.Width,
		Registers:  1,
		CheckError: cfg.CheckError,
	})
	if err != nil {
		log.Error("engine construction failed", err)
		fmt.Fprintln(a.ErrWriter, err)
		return apperrors.ExitErrorConfig
	}

	col := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := server.NewMetrics(col.Registry(), log)
		go func() {
			if err := srv.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error("metrics server failed", err)
			}
		}()
	}

	tester := fermat.NewTester(eng, log, col)
	tester.ErrorWarn = cfg.ErrorWarn
	tester.ErrorAbort = cfg.ErrorAbort
	tester.CheckpointPath = cfg.CheckpointPath
	tester.CheckpointInterval = cfg.CheckpointInterval

	var res fermat.Result
	if cfg.TUI {
		res, err = runWithTUI(ctx, cfg, tester)
	} else {
		res, err = runWithSpinner(ctx, cfg, tester)
	}

	if err != nil {
		if apperrors.IsContextError(err) {
			fmt.Fprintln(out, "interrupted")
		} else {
			fmt.Fprintln(a.ErrWriter, err)
		}
		return apperrors.ExitCode(err)
	}

	cli.NewPresenter().PresentResult(cfg.Describe(), res, cfg.ExpectedResidue, out)

	if cfg.ExpectedResidue != "" {
		want, perr := strconv.ParseUint(cfg.ExpectedResidue, 16, 64)
		if perr != nil {
			fmt.Fprintln(a.ErrWriter, apperrors.NewConfigError("expected residue %q is not hex", cfg.ExpectedResidue))
			return apperrors.ExitErrorConfig
		}
		if want != res.Residue {
			rerr := apperrors.ResidueError{Got: res.Residue, Want: want}
			fmt.Fprintln(a.ErrWriter, rerr)
			return apperrors.ExitCode(rerr)
		}
	}
	return apperrors.ExitSuccess
}

// resolveThreads picks the worker count: the flag if set, otherwise the
// CPU count capped by what the block structure of this size supports.
func resolveThreads(cfg config.AppConfig) int {
	t := cfg.Threads
	if t == 0 {
		t = runtime.NumCPU()
	}
	if limit := transform.MaxThreadsFor(int(cfg.Size)); t > limit {
		t = limit
	}
	return t
}

// runWithSpinner drives the test with the spinner progress display.
func runWithSpinner(ctx context.Context, cfg config.AppConfig, tester *fermat.Tester) (fermat.Result, error) {
	updates := make(chan fermat.Progress, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go cli.NewProgressDisplay(cfg.Describe()).Run(&wg, updates)

	res, err := tester.Run(ctx, func(p fermat.Progress) {
		select {
		case updates <- p:
		default: // display lag never stalls the loop
		}
	})
	close(updates)
	wg.Wait()
	return res, err
}

// runWithTUI drives the test under the bubbletea dashboard.
func runWithTUI(ctx context.Context, cfg config.AppConfig, tester *fermat.Tester) (fermat.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(tui.NewModel(cfg.Describe(), cancel))

	done := make(chan struct{})
	var res fermat.Result
	var err error
	go func() {
		defer close(done)
		res, err = tester.Run(ctx, func(p fermat.Progress) {
			prog.Send(tui.ProgressMsg(p))
		})
		prog.Send(tui.DoneMsg{Result: res, Err: err})
	}()

	if _, terr := prog.Run(); terr != nil {
		cancel()
	}
	<-done
	return res, err
}
