// Package main is the entry point for the dLOOP flash-loan sizer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	leverageDomain "github.com/dloop-labs/flashsizer/business/leverage/domain"
	sizingApp "github.com/dloop-labs/flashsizer/business/sizing/app"
	sizingDomain "github.com/dloop-labs/flashsizer/business/sizing/domain"
	"github.com/dloop-labs/flashsizer/business/sizing/infra"
	"github.com/dloop-labs/flashsizer/internal/apm"
	"github.com/dloop-labs/flashsizer/internal/asset"
	"github.com/dloop-labs/flashsizer/internal/circuitbreaker"
	"github.com/dloop-labs/flashsizer/internal/config"
	"github.com/dloop-labs/flashsizer/internal/health"
	"github.com/dloop-labs/flashsizer/internal/logger"
	"github.com/dloop-labs/flashsizer/internal/metrics"
	"github.com/dloop-labs/flashsizer/internal/ratelimit"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	scenarioPath := flag.String("scenario", "", "Path to scenario file to evaluate")
	watch := flag.Bool("watch", false, "Re-evaluate the scenario continuously")
	execute := flag.Bool("execute", false, "Execute proceed decisions on the replay venue")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flashsizer %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, *scenarioPath, *watch, *execute); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, scenarioPath string, watch, execute bool) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if scenarioPath == "" {
		return fmt.Errorf("a scenario file is required (-scenario)")
	}

	// Setup logger
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	log := logger.New(os.Stderr, logLevel, cfg.App.Name, apm.TraceID)
	log.Info(ctx, "starting flash sizer",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		provider := apm.Provider(cfg.Telemetry.TraceProvider)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(provider, log))
		log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.NewPrometheusConfig()),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server
	healthServer := health.NewServer(cfg.App.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.App.HealthPort)
	}
	defer healthServer.Stop(ctx)

	// Load and bind the scenario
	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	bound, err := infra.BindScenario(scenario, asset.DevRegistry())
	if err != nil {
		return fmt.Errorf("failed to bind scenario: %w", err)
	}
	log.Info(ctx, "scenario loaded", "name", bound.Name, "kind", bound.Op.Kind)

	healthServer.RegisterCheck("scenario", func(ctx context.Context) (bool, string) {
		return true, bound.Name
	})

	// Wire the engine and evaluator
	policy := sizingDomain.Policy{
		SlippageBps:     cfg.Policy.SlippageBps,
		FlashFeeBps:     cfg.Policy.FlashFeeBps,
		ProtocolFeeBps:  cfg.Policy.ProtocolFeeBps,
		MinProfitBps:    cfg.Policy.MinProfitBps,
		AcceptBreakEven: cfg.Policy.AcceptBreakEven,
	}
	engine, err := sizingApp.NewEngine(policy)
	if err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	leverageConfig := leverageDomain.Config{
		TargetBps:     cfg.Vault.TargetBps,
		LowerBps:      cfg.Vault.LowerBps,
		UpperBps:      cfg.Vault.UpperBps,
		MaxSubsidyBps: cfg.Vault.MaxSubsidyBps,
	}

	breakerCfg := circuitbreaker.DefaultConfig("replay-venue")
	breakerCfg.MaxFailures = cfg.Venue.BreakerMaxFailures
	breakerCfg.Timeout = cfg.Venue.BreakerOpenTimeout
	venue := infra.NewBreakerVenue(infra.NewReplayVenue(bound.Fills), breakerCfg, log)

	var sizingMetrics *metrics.SizingMetrics
	if cfg.Telemetry.Enabled {
		sizingMetrics, err = metrics.NewSizingMetrics("sizing")
		if err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}
	}

	reporter := infra.NewConsoleReporter()
	if err := reporter.Start(ctx); err != nil {
		return err
	}
	defer reporter.Stop()

	evaluator := sizingApp.NewEvaluator(engine, venue, reporter, log, sizingMetrics)

	evaluateOnce := func() error {
		decision, err := evaluator.Evaluate(ctx, bound.Position, leverageConfig, bound.Op)
		if err != nil {
			return err
		}
		if decision.Proceed && execute {
			if _, err := evaluator.Execute(ctx, bound.Op, decision); err != nil {
				return err
			}
		}
		return nil
	}

	if !watch {
		return evaluateOnce()
	}

	// Watch mode: re-evaluate on a paced loop until cancelled.
	limiter := ratelimit.New(cfg.Venue.EvaluationsPerMinute)
	for {
		if err := limiter.Wait(ctx); err != nil {
			log.Info(ctx, "watch loop stopping", "reason", err)
			return nil
		}
		if err := evaluateOnce(); err != nil {
			log.Error(ctx, "evaluation cycle failed", "error", err)
			// Back off briefly on hard failures so a broken scenario
			// does not spin the loop.
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}
