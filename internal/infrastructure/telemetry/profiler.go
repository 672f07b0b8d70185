package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profiler wraps a running Pyroscope session
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	stopOnce sync.Once
}

// StartProfiler starts continuous profiling. A disabled config yields a no-op Profiler.
func StartProfiler(cfg config.ProfilingConfig, applicationName string, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger.Named("profiler")}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, errors.New("profiler server address is required when profiling is enabled")
	}

	tags := map[string]string{}
	if hostname, err := os.Hostname(); err == nil {
		tags["hostname"] = hostname
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   applicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            p.logger.Sugar(),
		Tags:              tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	p.logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", applicationName),
	)
	return p, nil
}

func (p *Profiler) Running() bool {
	return p.profiler != nil
}

// Stop flushes pending profiles. Safe to call more than once.
func (p *Profiler) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		if p.profiler == nil {
			return
		}
		if err = p.profiler.Stop(); err != nil {
			err = fmt.Errorf("failed to stop profiler: %w", err)
		}
	})
	return err
}
