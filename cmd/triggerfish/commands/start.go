package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/internal/telemetry"
	"github.com/marmos91/triggerfish/pkg/config"
	"github.com/marmos91/triggerfish/pkg/controlplane/api"
	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/intake"
	"github.com/marmos91/triggerfish/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Triggerfish daemon",
	Long: `Start the Triggerfish daemon with the specified configuration.

By default, the daemon runs in the background. Use --foreground to run in
the foreground for debugging or when managed by a process supervisor.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/triggerfish/config.yaml.

Examples:
  # Start in background (default)
  triggerfish start

  # Start in foreground
  triggerfish start --foreground

  # Start with custom config file
  triggerfish start --config /etc/triggerfish/config.yaml

  # Start with environment variable overrides
  TRIGGERFISH_LOGGING_LEVEL=DEBUG triggerfish start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/triggerfish/triggerfish.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/triggerfish/triggerfish.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	// Handle daemon mode (background)
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "triggerfish",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "triggerfish",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	fmt.Println("Triggerfish - Storage event microcontrollers")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Initialize metrics FIRST so the recorders are created against a
	// live registry.
	var metricsServer *metrics.Server
	var recorders config.RuntimeMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsServer, err = metrics.NewServer(cfg.Metrics.Port)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		recorders = config.RuntimeMetrics{
			Engine: metrics.NewEngineMetrics(),
			Queue:  metrics.NewQueueMetrics(),
			Cache:  metrics.NewCacheMetrics(),
			S3:     metrics.NewS3Metrics(),
		}
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Initialize control plane store (deployments and users)
	cpStore, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize control plane store: %w", err)
	}
	defer func() { _ = cpStore.Close() }()

	// Ensure admin user exists (generates random password on first run)
	adminPassword, err := cpStore.EnsureAdminUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	if adminPassword != "" {
		logger.Info("Admin user created", "username", "admin")
		fmt.Printf("\n*** IMPORTANT: Admin user created with password: %s ***\n", adminPassword)
		fmt.Println("Please save this password. It will not be shown again.")
		fmt.Println()
	}

	// Assemble the data path: gateway, attribute cache, warming queue,
	// journal, registry, engine, timers.
	rt, err := config.InitializeRuntime(ctx, cfg, config.RuntimeOptions{
		Deployments: cpStore,
		Metrics:     recorders,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}
	rt.Start(ctx)
	defer rt.Shutdown(cfg.ShutdownTimeout)

	// Intake server receives platform events and hands them to the engine
	intakeServer, err := intake.NewServer(cfg.Intake, rt.Engine)
	if err != nil {
		return fmt.Errorf("failed to create intake server: %w", err)
	}
	logger.Info("Intake server configured", "port", intakeServer.Port())

	// Admin API server
	apiServer, err := api.NewServer(cfg.ControlPlane, api.Dependencies{
		Store:          cpStore,
		Registry:       rt.Registry,
		Queue:          rt.Queue,
		Journal:        rt.Journal,
		JournalEnabled: rt.JournalEnabled,
		Gateway:        rt.Gateway,
		Metadata:       rt.Attributes,
		Version:        Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	logger.Info("API server configured", "port", apiServer.Port())

	// Write PID file if specified
	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	// Start all servers. Each Start blocks until ctx is cancelled, so a
	// failure in any one tears the rest down through the shared context.
	serverDone := make(chan error, 3)
	serverCount := 2
	go func() { serverDone <- intakeServer.Start(ctx) }()
	go func() { serverDone <- apiServer.Start(ctx) }()
	if metricsServer != nil {
		serverCount++
		go func() { serverDone <- metricsServer.Start(ctx) }()
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Daemon is running. Press Ctrl+C to stop.")

	var runErr error
	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

	case err := <-serverDone:
		signal.Stop(sigChan)
		serverCount--
		if err != nil {
			logger.Error("Server error", "error", err)
			runErr = err
		}
		cancel()
	}

	// Drain the remaining servers so graceful shutdown completes before
	// the runtime is torn down.
	for i := 0; i < serverCount; i++ {
		if err := <-serverDone; err != nil && runErr == nil {
			logger.Error("Server shutdown error", "error", err)
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("Daemon stopped gracefully")
	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}

// startDaemon starts the daemon as a background process.
func startDaemon() error {
	stateDir := GetDefaultStateDir()
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Set default PID file if not specified
	pidPath := pidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	// Check if already running
	if _, err := os.Stat(pidPath); err == nil {
		pidData, err := os.ReadFile(pidPath)
		if err == nil {
			var pid int
			if _, err := fmt.Sscanf(string(pidData), "%d", &pid); err == nil {
				if process, err := os.FindProcess(pid); err == nil {
					if err := process.Signal(syscall.Signal(0)); err == nil {
						return fmt.Errorf("triggerfish is already running (PID %d)\nUse 'triggerfish stop' to stop the running instance", pid)
					}
				}
			}
		}
		// Stale PID file, remove it
		_ = os.Remove(pidPath)
	}

	// Set default log file if not specified
	logPath := logFile
	if logPath == "" {
		logPath = GetDefaultLogFile()
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	daemonArgs := []string{"start", "--foreground", "--pid-file", pidPath}
	if GetConfigFile() != "" {
		daemonArgs = append(daemonArgs, "--config", GetConfigFile())
	}

	daemon := exec.Command(executable, daemonArgs...)

	logFileHandle, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	daemon.Stdout = logFileHandle
	daemon.Stderr = logFileHandle

	// Detach from parent process
	daemon.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := daemon.Start(); err != nil {
		_ = logFileHandle.Close()
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	_ = logFileHandle.Close()

	fmt.Printf("Triggerfish started in background (PID %d)\n", daemon.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidPath)
	fmt.Printf("  Log file: %s\n", logPath)
	fmt.Println("\nUse 'triggerfish stop' to stop the daemon")
	fmt.Println("Use 'triggerfish status' to check daemon status")

	return nil
}
