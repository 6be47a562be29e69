package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/config"
	"github.com/tagbridge/tagbridge-go/pkg/connection"
	"github.com/tagbridge/tagbridge-go/pkg/log"
	"github.com/tagbridge/tagbridge-go/pkg/mqtt"
	"github.com/tagbridge/tagbridge-go/pkg/opcua"
)

// simulationConfig is used with --simulate when no file is given.
const simulationConfig = `
device_id: "1"
endpoint:
  namespace_index: 2
  namespace_uri: urn:tagbridge:sim
outbound:
  - node: ns=2;s=device1_temperature
    topic: device1/{device_id}/temperature
  - node: ns=2;s=device1_humidity
    topic: device1/{device_id}/humidity
inbound:
  - topic: device1/+/command
    node: ns=2;s=device1_command
`

const metricsShutdownTimeout = 5 * time.Second

// run loads the configuration, wires the bridge and blocks until ctx is
// cancelled or the bridge fails.
func run(ctx context.Context, opts options, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}

	table, err := cfg.BuildTable()
	if err != nil {
		return err
	}

	trace, closeTrace, err := newTrace(cfg.Trace, logger)
	if err != nil {
		return err
	}
	defer closeTrace()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := bridge.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var (
		bus      bridge.Bus
		endpoint bridge.DataEndpoint
		sim      *simulator
	)
	if opts.Simulate {
		sim, err = newSimulator(cfg, opts.SimInterval, logger)
		if err != nil {
			return err
		}
		bus, endpoint = sim.bus, sim.space
		logger.Info("simulation mode, no network connections are made")
	} else {
		bus = mqtt.New(mqttConfig(cfg, logger))
		endpoint = opcua.New(opcuaConfig(cfg, logger))
	}

	ctrl, err := bridge.NewController(bus, endpoint, table, controllerConfig(cfg, logger, trace, metrics))
	if err != nil {
		return err
	}
	logger.Info("starting bridge",
		"bridge_id", ctrl.BridgeID(),
		"broker", cfg.Bus.Broker(),
		"endpoint", cfg.Endpoint.URI,
		"outbound", len(table.OutboundNodes()),
		"inbound", len(table.InboundPatterns()))

	var metricsLn net.Listener
	if cfg.Metrics.Listen != "" {
		metricsLn, err = net.Listen("tcp", cfg.Metrics.Listen)
		if err != nil {
			return fmt.Errorf("metrics listen %s: %w", cfg.Metrics.Listen, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	if metricsLn != nil {
		g.Go(func() error {
			return serveMetrics(gctx, metricsLn, reg, logger)
		})
	}
	if sim != nil {
		g.Go(func() error {
			sim.run(gctx)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("bridge stopped", "bridge_id", ctrl.BridgeID(), "state", ctrl.State())
	return err
}

// loadConfig reads the file named by opts, or the built-in simulation
// mapping, and applies the log level override.
func loadConfig(opts options) (config.File, error) {
	var (
		cfg config.File
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cfg, err = config.Parse(strings.NewReader(simulationConfig), nil)
	}
	if err != nil {
		return config.File{}, err
	}

	if opts.LogLevel != "" {
		if _, err := config.ParseLevel(opts.LogLevel); err != nil {
			return config.File{}, &config.Error{Field: "log-level", Err: err}
		}
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// newTrace builds the routing trace sink. The returned close function is
// always safe to call.
func newTrace(cfg config.TraceConfig, logger *slog.Logger) (log.Logger, func(), error) {
	var (
		sinks []log.Logger
		file  *log.FileLogger
	)
	if cfg.File != "" {
		fl, err := log.NewFileLogger(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		file = fl
		sinks = append(sinks, fl)
		logger.Info("tracing to file", "path", cfg.File)
	}
	if cfg.Console {
		sinks = append(sinks, log.NewSlogAdapter(logger.With("component", "trace")))
	}

	closeFn := func() {
		if file == nil {
			return
		}
		written, failed := file.Stats()
		if err := file.Close(); err != nil {
			logger.Warn("closing trace file", "error", err)
		}
		logger.Debug("trace file closed", "written", written, "failed", failed)
	}

	switch len(sinks) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return sinks[0], closeFn, nil
	default:
		return log.NewMultiLogger(sinks...), closeFn, nil
	}
}

func retryPolicy(cfg config.File) connection.Policy {
	policy := connection.DefaultPolicy()
	policy.Attempts = cfg.ConnectAttempts
	return policy
}

func mqttConfig(cfg config.File, logger *slog.Logger) mqtt.Config {
	mc := mqtt.DefaultConfig()
	mc.Broker = cfg.Bus.Broker()
	mc.ClientID = cfg.Bus.ClientID
	mc.Username = cfg.Bus.Username
	mc.Password = cfg.Bus.Password
	mc.QoS = cfg.Bus.QoS
	if cfg.Bus.KeepAlive > 0 {
		mc.KeepAlive = cfg.Bus.KeepAlive
	}
	mc.Retry = retryPolicy(cfg)
	mc.Logger = logger
	return mc
}

func opcuaConfig(cfg config.File, logger *slog.Logger) opcua.Config {
	oc := opcua.DefaultConfig()
	oc.URI = cfg.Endpoint.URI
	oc.Retry = retryPolicy(cfg)
	oc.Logger = logger
	return oc
}

func controllerConfig(cfg config.File, logger *slog.Logger, trace log.Logger, metrics *bridge.Metrics) bridge.ControllerConfig {
	cc := bridge.DefaultControllerConfig()
	cc.NamespaceIndex = cfg.Endpoint.NamespaceIndex
	cc.NamespaceURI = cfg.Endpoint.NamespaceURI
	cc.QueueSize = cfg.QueueSize
	cc.ShutdownTimeout = cfg.ShutdownTimeout
	cc.DeviceID = bridge.StaticDeviceID(cfg.DeviceID)
	cc.Logger = logger
	cc.Trace = trace
	cc.Metrics = metrics
	return cc
}

// serveMetrics serves /metrics on ln until ctx is cancelled.
func serveMetrics(ctx context.Context, ln net.Listener, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
