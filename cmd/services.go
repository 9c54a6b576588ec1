package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/chronozen/internal/adapters/git"
	"github.com/xvierd/chronozen/internal/adapters/notification"
	"github.com/xvierd/chronozen/internal/adapters/pace"
	"github.com/xvierd/chronozen/internal/adapters/storage"
	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/logging"
	"github.com/xvierd/chronozen/internal/ports"
	"github.com/xvierd/chronozen/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	log        *zap.Logger
	storage    ports.Storage
	git        ports.GitDetector
	notifier   *notification.Notifier
	engine     *services.CountdownEngine
	presets    *services.PresetService
	pomodoro   *services.PomodoroService
	history    *services.HistoryService
	state      *services.StateService
	pace       *services.PaceService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(ctx context.Context) error {
	ctx = withContext(ctx)

	// Load configuration
	if err := resolveConfigPath(); err != nil {
		return err
	}
	var err error
	app.config, err = config.LoadFrom(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", app.configPath, err)
	}

	app.log, err = logging.New(logging.Options{Level: app.config.Log.Level, File: app.config.Log.File})
	if err != nil {
		return err
	}
	app.log = app.log.With(zap.String("version", Version))

	// Determine database path
	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	workingDir, _ := os.Getwd()
	app.git = git.NewDetector(workingDir)
	app.notifier = notification.New(app.config.Notifications)

	app.presets, err = services.NewPresetService(app.config.Timer.Presets, app.config.Timer.DefaultPreset)
	if err != nil {
		return fmt.Errorf("invalid presets: %w", err)
	}

	app.engine, err = services.NewCountdownEngine(app.presets.Default().Seconds,
		services.WithTickInterval(time.Duration(app.config.Timer.TickInterval)),
		services.WithLogger(app.log),
	)
	if err != nil {
		return err
	}
	if err := app.engine.UpdatePlan(app.config.Plan()); err != nil {
		return err
	}

	app.history = services.NewHistoryService(app.storage, app.git)
	app.history.SetWorkingDir(workingDir)

	app.pomodoro = services.NewPomodoroService(app.engine,
		services.WithNotifier(app.notifier),
		services.WithRecorder(app.history),
		services.WithServiceLogger(app.log),
	)
	app.state = services.NewStateService(app.pomodoro, app.presets, app.history)

	advisor, err := pace.New(ctx, app.config.Pace, app.log)
	if err != nil {
		app.log.Warn("pace advisor disabled", zap.Error(err))
	}
	app.pace = services.NewPaceService(advisor, app.engine,
		services.WithMinInterval(time.Duration(app.config.Pace.MinInterval)),
		services.WithAdviceTimeout(time.Duration(app.config.Pace.Timeout)),
		services.WithPaceLogger(app.log),
	)

	return nil
}

// resolveConfigPath picks the --config flag or the default location.
func resolveConfigPath() error {
	if configPath != "" {
		app.configPath = configPath
		return nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	app.configPath = path
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.engine != nil {
		_ = app.engine.Close()
		app.engine = nil
	}
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.log != nil {
		_ = app.log.Sync()
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
