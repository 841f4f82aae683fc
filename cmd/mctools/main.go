// Command mctools presses random number keys while a mouse button is held.
//
// A global hotkey arms and disarms it from any window; a terminal dashboard
// shows the armed state and edits the key range, which can be saved to disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/jasonlovesdoggo/mctools"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/config"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/dashboard"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/emitter"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/input"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/input/native"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/input/uiohook"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
	"github.com/jasonlovesdoggo/mctools/internal"
	"github.com/posener/complete"
)

var (
	configPath    = flag.String("config", config.DefaultPath, "file the key range is saved to (.json, .toml or .yaml)")
	toggleKey     = flag.String("toggle-key", "f12", "global key that arms and disarms automation")
	triggerButton = flag.String("trigger-button", "right", "mouse button that runs automation while held")
	interval      = flag.Duration("interval", emitter.DefaultInterval, "pause after each key press")
	lockMode      = flag.String("lock-mode", "snapshot", "how a session holds shared state: snapshot or exclusive")
	poll          = flag.Duration("poll", dashboard.DefaultPoll, "longest wait for a terminal key before redrawing")
	refresh       = flag.Duration("refresh", dashboard.DefaultRefresh, "how often the dashboard re-reads shared state")
	metricsAddr   = flag.String("metrics-addr", "", "address to serve Prometheus metrics on, empty to disable")
)

func main() {
	internal.Predictors["config"] = complete.PredictFiles("*")
	internal.Predictors["lock-mode"] = complete.PredictSet("snapshot", "exclusive")
	internal.Predictors["trigger-button"] = complete.PredictSet("left", "right", "center", "x1", "x2")
	internal.Predictors["log-level"] = complete.PredictSet("debug", "info", "warn", "error")
	internal.HandleStartup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		slog.Error("exiting with error", "err", err)
		fmt.Fprintf(os.Stderr, "mctools: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	lg := slog.Default().With("version", mctools.Version)

	mode, err := emitter.ParseMode(*lockMode)
	if err != nil {
		return err
	}
	toggleCode, err := uiohook.KeyCode(*toggleKey)
	if err != nil {
		return err
	}
	buttonCode, err := uiohook.ButtonCode(*triggerButton)
	if err != nil {
		return err
	}

	store := config.NewStore(*configPath, lg)
	st := state.New(store.Load())

	registerArmedGauge(st)
	if *metricsAddr != "" {
		RegisterMetricsHandler(*metricsAddr, lg)
	}

	em := emitter.New(st, countingKeyboard{native.Keyboard{}}, emitter.Options{
		Interval: *interval,
		Mode:     mode,
	}, lg)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	lis := input.NewListener(native.NewSource(), lg)
	lis.BindKey(*toggleKey, toggleCode, func() {
		armed := st.Toggle()
		toggles.WithLabelValues("hotkey").Inc()
		lg.Info("armed toggled from hotkey", "armed", armed)
	})
	lis.BindButton(*triggerButton, buttonCode, func(btn *input.Button) {
		res, err := em.Run(ctx, btn)
		observeSession(res)
		if err != nil {
			lg.Error("automation session failed", "err", err)
		}
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := lis.Run(ctx); err != nil {
			cancel(fmt.Errorf("input listener: %w", err))
		}
	}()

	ctrl := dashboard.NewController(st, store, lg)
	ctrl.OnToggle = func(bool) { toggles.WithLabelValues("menu").Inc() }

	dashErr := runDashboard(ctx, ctrl, st, lg)
	cause := context.Cause(ctx)
	cancel(nil)
	wg.Wait()

	if dashErr != nil {
		return dashErr
	}
	if cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	lg.Info("quit")
	return nil
}

// runDashboard owns the terminal: it is put into full-screen mode here and
// always restored before returning, including when the dashboard panics.
func runDashboard(ctx context.Context, ctrl *dashboard.Controller, st *state.State, lg *slog.Logger) (err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard panicked: %v", r)
		}
		screen.Fini()
	}()

	dash := dashboard.New(screen, st, ctrl, dashboard.Options{
		Poll:    *poll,
		Refresh: *refresh,
		Version: mctools.Version,
		Hint:    fmt.Sprintf("%s arms (global)  hold %s mouse to run", strings.ToUpper(*toggleKey), *triggerButton),
	}, lg)
	return dash.Run(ctx)
}
