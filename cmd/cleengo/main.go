package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"cleengo/cleeng"
	"cleengo/cleeng/entity"
	"cleengo/cleeng/transport"
	"cleengo/internal/cache"
	"cleengo/internal/config"
	"cleengo/internal/sandbox"
	"cleengo/internal/script"
)

const usage = `usage: cleengo [-config file] [-env file] <command>

commands:
  call <method> [paramsJSON]   run one call and print its result
  batch <file>                 run [{"method":...,"params":{...}}, ...] as one batch
  access <offerId> [ip]        print granted or denied for the customer token
  sandbox                      serve the script handlers until interrupted
`

func main() {
	// Parse flags
	configPath := flag.String("config", "", "path to config file")
	envPath := flag.String("env", ".env", "path to .env file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Basic logger for startup errors
	startLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := config.LoadEnv(*envPath); err != nil {
		startLog.Fatal().Err(err).Msg("failed to load env file")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		startLog.Fatal().Err(err).Msg("failed to load config")
	}

	logger := setupLogger(cfg.LogLevel)

	if flag.Arg(0) == "sandbox" {
		runSandbox(cfg, logger)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tr, closeTransport, err := buildTransport(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create transport")
	}
	defer closeTransport()

	client := newClient(cfg, tr, logger)

	if err := run(ctx, client, flag.Args(), os.Stdout); err != nil {
		logger.Error().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
		stop()
		closeTransport()
		os.Exit(1)
	}
}

func newClient(cfg *config.Config, tr cleeng.Transport, logger zerolog.Logger) *cleeng.Client {
	client := cleeng.New(cleeng.Config{
		Endpoint:         cfg.Endpoint,
		Transport:        tr,
		BatchMode:        cfg.BatchMode,
		PublisherToken:   cfg.PublisherToken,
		DistributorToken: cfg.DistributorToken,
		CustomerToken:    cfg.CustomerToken,
		CookieName:       cfg.CookieName,
		AppID:            cfg.AppID,
		Logger:           logger,
	})
	if cfg.Sandbox && cfg.Endpoint == "" {
		client.EnableSandbox()
	}
	return client
}

// run executes one CLI command against client and writes results to out.
// Each command is committed as its own batch, so results are populated
// whatever batchMode the config sets.
func run(ctx context.Context, client *cleeng.Client, args []string, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch args[0] {
	case "call":
		if len(args) < 2 {
			return errors.New("call requires a method")
		}
		params := cleeng.Params{}
		if len(args) > 2 {
			if err := json.Unmarshal([]byte(args[2]), &params); err != nil {
				return fmt.Errorf("invalid params JSON: %w", err)
			}
		}
		var result entity.Entity
		err := client.Batch(ctx, func() error {
			var err error
			result, err = client.Invoke(ctx, args[1], params)
			return err
		})
		if err != nil {
			return err
		}
		return enc.Encode(result)

	case "batch":
		if len(args) < 2 {
			return errors.New("batch requires a file")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read batch file: %w", err)
		}
		var calls []struct {
			Method string        `json:"method"`
			Params cleeng.Params `json:"params"`
		}
		if err := json.Unmarshal(data, &calls); err != nil {
			return fmt.Errorf("failed to parse batch file: %w", err)
		}

		results := make([]entity.Entity, 0, len(calls))
		err = client.Batch(ctx, func() error {
			for _, c := range calls {
				result, err := client.Invoke(ctx, c.Method, c.Params)
				if err != nil {
					return err
				}
				results = append(results, result)
			}
			return nil
		})
		if err != nil {
			return err
		}
		return enc.Encode(results)

	case "access":
		if len(args) < 2 {
			return errors.New("access requires an offer id")
		}
		ip := ""
		if len(args) > 2 {
			ip = args[2]
		}
		var status *entity.AccessStatus
		err := client.Batch(ctx, func() error {
			var err error
			status, err = client.GetAccessStatus(ctx, args[1], ip)
			return err
		})
		if err != nil {
			return err
		}
		granted, err := status.Granted()
		if err != nil {
			return err
		}
		if granted {
			fmt.Fprintln(out, "granted")
		} else {
			fmt.Fprintln(out, "denied")
		}
		return nil
	}

	return fmt.Errorf("unknown command %q", args[0])
}

// buildTransport creates the configured transport with its decorators. The
// returned func releases it.
func buildTransport(cfg *config.Config, logger zerolog.Logger) (cleeng.Transport, func(), error) {
	var (
		base    transport.Caller
		closers []func()
	)

	switch cfg.Transport {
	case config.TransportWS:
		ws := transport.NewWS(transport.WSConfig{
			MessageTimeout: cfg.GetRequestTimeoutDuration(),
			Logger:         logger,
		})
		base = ws
		closers = append(closers, func() { ws.Close() })
	case config.TransportScript:
		m, err := newScriptManager(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		base = script.NewTransport(m)
		closers = append(closers, m.Close)
	default:
		h := transport.NewHTTP(transport.HTTPConfig{
			Timeout: cfg.GetRequestTimeoutDuration(),
			Logger:  logger,
		})
		base = h
		closers = append(closers, h.Close)
	}

	if cfg.IsBreakerEnabled() {
		base = transport.NewBreaker(base, transport.BreakerConfig{
			FailureThreshold:    cfg.Breaker.FailureThreshold,
			RecoveryTimeout:     cfg.Breaker.GetRecoveryTimeoutDuration(),
			HalfOpenMaxRequests: cfg.Breaker.HalfOpenMaxRequests,
			Logger:              logger,
		})
	}

	if cfg.IsRateLimited() {
		base = transport.NewLimited(base, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	if cfg.IsCacheEnabled() {
		rules, err := cache.NewRules(cfg.Cache.Methods, cfg.Cache.DisabledMethods)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compile cache rules: %w", err)
		}
		mc, err := cache.NewMemoryCache(cfg.Cache.Size, cfg.Cache.GetTTLDuration())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create cache: %w", err)
		}
		base = transport.NewCached(base, transport.CachedConfig{
			Cache:  mc,
			Rules:  rules,
			Logger: logger,
		})
		closers = append(closers, mc.Close)
		logger.Info().
			Int("size", cfg.Cache.Size).
			Int("ttl", cfg.Cache.TTL).
			Msg("cache enabled")
	}

	closed := false
	closeAll := func() {
		if closed {
			return
		}
		closed = true
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return base, closeAll, nil
}

func newScriptManager(cfg *config.Config, logger zerolog.Logger) (*script.Manager, error) {
	m := script.NewManager(logger)
	m.SetTimeout(cfg.GetScriptTimeoutDuration())
	if err := m.LoadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load default scripts: %w", err)
	}
	if dir := cfg.GetScriptDirectory(); dir != "" {
		if err := m.LoadFromDirectory(dir); err != nil {
			return nil, fmt.Errorf("failed to load scripts: %w", err)
		}
	}
	return m, nil
}

func runSandbox(cfg *config.Config, logger zerolog.Logger) {
	m, err := newScriptManager(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create script manager")
	}

	srv := sandbox.New(sandbox.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		MaxBodySize: cfg.Server.MaxBodySize,
	}, m, logger)

	logger.Info().
		Strs("methods", m.Methods()).
		Msg("starting cleengo sandbox")

	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	m.Close()
}

// setupLogger configures the zerolog logger
func setupLogger(level string) zerolog.Logger {
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Logs go to stderr so command output on stdout stays parseable
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
