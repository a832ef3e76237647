package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/voicemention/component"
	"github.com/kbukum/voicemention/logger"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// App owns a service's components and lifecycle; C is its config type.
//
// Startup runs: start registered components, OnStart hooks, OnConfigure
// callbacks, start components registered by those callbacks, ready check,
// OnReady hooks. Shutdown runs OnStop hooks, then stops components in
// reverse.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	onStart         []Hook
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onReady         []Hook
	onStop          []Hook
}

// NewApp defaults and validates cfg, then builds the logger from its
// logging block unless WithLogger was given.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	s := collect(opts)
	if s.log == nil {
		logger.Init(base.Logging)
		s.log = logger.GetGlobalLogger()
	}
	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(s.log),
		Logger:          s.log,
		Summary:         NewSummary(base.Name, base.Version, s.summaryOut),
		gracefulTimeout: s.gracefulTimeout,
	}, nil
}

// RegisterComponent may be called from OnConfigure; such components start
// right after configuration.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

func (a *App[C]) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }
func (a *App[C]) OnStop(hooks ...Hook)  { a.onStop = append(a.onStop, hooks...) }

// OnConfigure callbacks see started infrastructure and wire the service.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck lists every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		item := fmt.Sprintf("%s=%s", h.Name, h.Status)
		if h.Message != "" {
			item += " (" + h.Message + ")"
		}
		bad = append(bad, item)
	}
	if bad != nil {
		return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Run serves until SIGINT, SIGTERM or the end of ctx.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		a.stop()
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.waitForSignal(ctx)
	return a.stop()
}

// RunTask starts the app, runs task and shuts down. A signal cancels the
// task's context.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.stop()
		return err
	}
	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	taskErr := task(taskCtx)
	cancel()

	stopErr := a.stop()
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d: %w", i, err)
		}
	}
	return nil
}

func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	phases := []struct {
		failure string
		run     func() error
	}{
		{"initialization failed", func() error { return a.Components.StartAll(ctx) }},
		{"onStart hook failed", func() error { return runHooks(ctx, a.onStart) }},
		{"configuration failed", func() error {
			for _, fn := range a.onConfigure {
				if err := fn(ctx, a); err != nil {
					return err
				}
			}
			return nil
		}},
		{"late start failed", func() error { return a.Components.StartAll(ctx) }},
		{"onReady hook failed", func() error {
			if err := a.ReadyCheck(ctx); err != nil {
				a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
			}
			return runHooks(ctx, a.onReady)
		}},
	}
	for _, p := range phases {
		if err := p.run(); err != nil {
			return fmt.Errorf("%s: %w", p.failure, err)
		}
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Display(ctx, a.Components)
	return nil
}

func (a *App[C]) waitForSignal(ctx context.Context) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	if ctx.Err() != nil {
		a.Logger.Info("Context canceled, shutting down")
		return
	}
	a.Logger.Info("Received shutdown signal")
}

// stop runs within the graceful timeout and reports the first error.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := runHooks(ctx, a.onStop)
	if hookErr != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", hookErr))
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_all", stopErr))
	}
	a.Logger.Info("Application shutdown complete")
	if hookErr != nil {
		return hookErr
	}
	return stopErr
}
