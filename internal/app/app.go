// Package app provides the application structure and wiring for the
// script runner. It assembles the language registry, workspace,
// process supervisor, and run coordinator, and manages their
// lifecycle. It also hosts the leveled logger the other packages
// accept through their Logger interfaces.
package app

import (
	"context"
	"io"

	"github.com/dshills/runpad/internal/language"
	"github.com/dshills/runpad/internal/process"
	"github.com/dshills/runpad/internal/run"
	"github.com/dshills/runpad/internal/workspace"
)

// Application is the assembled script runner.
type Application struct {
	log         *Logger
	languages   *language.Registry
	workspace   *workspace.Workspace
	supervisor  *process.Supervisor
	coordinator *run.Coordinator

	opts Options
}

// Options configures the application.
type Options struct {
	// LanguagesPath is an optional TOML file with additional language
	// definitions, loaded on top of the built-ins.
	LanguagesPath string

	// LogLevel sets logging verbosity ("debug", "info", "warn",
	// "error"). Empty means the default level.
	LogLevel string

	// LogOutput overrides the log destination.
	LogOutput io.Writer

	// LineBuffer overrides the output line channel capacity.
	LineBuffer int
}

// New creates an application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger
	cfg := DefaultLoggerConfig()
	if app.opts.LogLevel != "" {
		cfg.Level = ParseLogLevel(app.opts.LogLevel)
	}
	if app.opts.LogOutput != nil {
		cfg.Output = app.opts.LogOutput
	}
	app.log = NewLogger(cfg)

	// 2. Language registry
	app.languages = language.NewRegistry()
	if app.opts.LanguagesPath != "" {
		if err := app.languages.LoadFile(app.opts.LanguagesPath); err != nil {
			return &InitError{Component: "languages", Err: err}
		}
	}

	// 3. Workspace
	ws, err := workspace.New(
		workspace.WithLogger(app.log.WithComponent("workspace")),
	)
	if err != nil {
		return &InitError{Component: "workspace", Err: err}
	}
	app.workspace = ws

	// 4. Process supervisor
	supOpts := []process.SupervisorOption{
		process.WithLogger(app.log.WithComponent("supervisor")),
	}
	if app.opts.LineBuffer > 0 {
		supOpts = append(supOpts, process.WithLineBuffer(app.opts.LineBuffer))
	}
	app.supervisor = process.NewSupervisor(supOpts...)

	// 5. Run coordinator
	coordinator, err := run.New(
		app.supervisor, app.workspace, app.languages,
		run.WithLogger(app.log.WithComponent("coordinator")),
	)
	if err != nil {
		app.workspace.Remove()
		return &InitError{Component: "coordinator", Err: err}
	}
	app.coordinator = coordinator

	return nil
}

// Execute starts one asynchronous run of source under the language
// with id langID, reporting through sink. See run.Coordinator.
func (app *Application) Execute(source, langID string, sink run.Sink) (string, error) {
	return app.coordinator.Execute(source, langID, sink)
}

// Stop force-terminates the active run, if any, and reports whether
// one was active.
func (app *Application) Stop() bool {
	return app.coordinator.Stop()
}

// Shutdown stops any active run, drains its events, and removes the
// scratch workspace. The context bounds the wait.
func (app *Application) Shutdown(ctx context.Context) error {
	return app.coordinator.Shutdown(ctx)
}

// Languages returns the language registry.
func (app *Application) Languages() *language.Registry {
	return app.languages
}

// Metrics returns the coordinator's run metrics.
func (app *Application) Metrics() *run.Metrics {
	return app.coordinator.Metrics()
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.log
}

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
