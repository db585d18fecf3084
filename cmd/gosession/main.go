package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/joy-dx/gosession"
	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/relays"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitError   = 1
	exitExpired = 2
)

func main() {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		usage(os.Stderr)
		os.Exit(exitError)
	}
	os.Exit(run(opts))
}

func run(opts options) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	opts.apply(cfg)

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: build logger: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	cfg.WithRelay(relays.NewZapRelay(logger))

	var reg *prometheus.Registry
	if cfg.Metrics.Enable {
		reg = prometheus.NewRegistry()
		cfg.WithRegisterer(reg)
		defer dumpMetrics(reg)
	}

	cfg.WithOnSessionExpired(func(ctx context.Context, err error) {
		fmt.Fprintln(os.Stderr, "session expired, run login")
	})

	svc := gosession.NewSessionSvc(cfg)
	if err := svc.Hydrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	defer svc.Close()

	if err := dispatch(ctx, svc, opts.command, opts.args, os.Stdout); err != nil {
		if errors.Is(err, dto.ErrSessionExpired) {
			return exitExpired
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return 0
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Pretty {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func dumpMetrics(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gather metrics: %v\n", err)
		return
	}
	enc := expfmt.NewEncoder(os.Stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			fmt.Fprintf(os.Stderr, "encode metrics: %v\n", err)
			return
		}
	}
}
