package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tagbridge/tagbridge-go/pkg/address"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TAGBRIDGE_"

// Defaults.
const (
	DefaultBusHost         = "localhost"
	DefaultBusPort         = 1883
	DefaultEndpointURI     = "opc.tcp://localhost:4840"
	DefaultNamespaceIndex  = 2
	DefaultDeviceID        = "1"
	DefaultQueueSize       = 64
	DefaultShutdownTimeout = 10 * time.Second
	DefaultConnectAttempts = 5
	DefaultKeepAlive       = 30 * time.Second
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// File is the configuration file layout.
type File struct {
	// DeviceID is substituted for {device_id} in outbound topics.
	DeviceID string `yaml:"device_id" env:"DEVICE_ID"`

	Bus      BusConfig      `yaml:"bus" envPrefix:"BUS_"`
	Endpoint EndpointConfig `yaml:"endpoint" envPrefix:"ENDPOINT_"`

	// Outbound maps data points to topic templates, in subscription order.
	Outbound []OutboundMapping `yaml:"outbound" env:"-"`

	// Inbound maps topic filters to data points, first match wins.
	Inbound []InboundMapping `yaml:"inbound" env:"-"`

	Trace   TraceConfig   `yaml:"trace" envPrefix:"TRACE_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`

	// QueueSize buffers each routing direction.
	QueueSize int `yaml:"queue_size" env:"QUEUE_SIZE"`

	// ShutdownTimeout bounds capability release.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// ConnectAttempts is how often each capability connect is tried at
	// startup before giving up.
	ConnectAttempts int `yaml:"connect_attempts" env:"CONNECT_ATTEMPTS"`
}

// BusConfig configures the MQTT broker connection.
type BusConfig struct {
	Host      string        `yaml:"host" env:"HOST"`
	Port      int           `yaml:"port" env:"PORT"`
	Username  string        `yaml:"username" env:"USERNAME"`
	Password  string        `yaml:"password" env:"PASSWORD"`
	ClientID  string        `yaml:"client_id" env:"CLIENT_ID"`
	QoS       byte          `yaml:"qos" env:"QOS"`
	KeepAlive time.Duration `yaml:"keep_alive" env:"KEEP_ALIVE"`
}

// Broker returns the broker URL.
func (b BusConfig) Broker() string {
	return fmt.Sprintf("tcp://%s:%d", b.Host, b.Port)
}

// EndpointConfig configures the OPC UA server connection.
type EndpointConfig struct {
	URI            string `yaml:"uri" env:"URI"`
	NamespaceIndex int    `yaml:"namespace_index" env:"NAMESPACE_INDEX"`

	// NamespaceURI, if set, must be the namespace at NamespaceIndex.
	NamespaceURI string `yaml:"namespace_uri" env:"NAMESPACE_URI"`
}

// OutboundMapping is one data point to topic template entry.
type OutboundMapping struct {
	Node  string `yaml:"node"`
	Topic string `yaml:"topic"`
}

// InboundMapping is one topic filter to data point entry.
type InboundMapping struct {
	Topic string `yaml:"topic"`
	Node  string `yaml:"node"`
}

// TraceConfig configures the routing trace.
type TraceConfig struct {
	// File receives CBOR trace events when set.
	File string `yaml:"file" env:"FILE"`

	// Console mirrors trace events to the operational log at debug level.
	Console bool `yaml:"console" env:"CONSOLE"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address serving /metrics. Empty disables it.
	Listen string `yaml:"listen" env:"LISTEN"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// DefaultFile returns a File with every default filled in and no mappings.
func DefaultFile() File {
	return File{
		DeviceID: DefaultDeviceID,
		Bus: BusConfig{
			Host:      DefaultBusHost,
			Port:      DefaultBusPort,
			KeepAlive: DefaultKeepAlive,
		},
		Endpoint: EndpointConfig{
			URI:            DefaultEndpointURI,
			NamespaceIndex: DefaultNamespaceIndex,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
		QueueSize:       DefaultQueueSize,
		ShutdownTimeout: DefaultShutdownTimeout,
		ConnectAttempts: DefaultConnectAttempts,
	}
}

// Load reads path, applies environment overrides from the process
// environment and validates the result.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(bytes.NewReader(data), nil)
}

// Parse decodes r over DefaultFile, applies overrides from environ (the
// process environment when nil) and validates the result. Unknown keys are
// rejected.
func Parse(r io.Reader, environ map[string]string) (File, error) {
	f := DefaultFile()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, &Error{Field: "yaml", Err: err}
	}

	if err := ApplyEnv(&f, environ); err != nil {
		return File{}, err
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// ApplyEnv overrides fields of f from TAGBRIDGE_* variables in environ, or
// the process environment when environ is nil.
func ApplyEnv(f *File, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(f, opts); err != nil {
		return &Error{Field: "env", Err: err}
	}
	return nil
}

// Validate checks the settings that are not covered by BuildTable.
func (f File) Validate() error {
	switch {
	case f.Bus.Host == "":
		return &Error{Field: "bus.host", Err: ErrRequired}
	case f.Bus.Port <= 0 || f.Bus.Port > 65535:
		return &Error{Field: "bus.port", Err: fmt.Errorf("%w: %d", ErrOutOfRange, f.Bus.Port)}
	case f.Bus.QoS > 2:
		return &Error{Field: "bus.qos", Err: fmt.Errorf("%w: %d", ErrOutOfRange, f.Bus.QoS)}
	case f.Bus.KeepAlive < 0:
		return &Error{Field: "bus.keep_alive", Err: fmt.Errorf("%w: %s", ErrOutOfRange, f.Bus.KeepAlive)}
	case f.Endpoint.URI == "":
		return &Error{Field: "endpoint.uri", Err: ErrRequired}
	case !strings.HasPrefix(f.Endpoint.URI, "opc.tcp://"):
		return &Error{Field: "endpoint.uri", Err: fmt.Errorf("%w: %q is not an opc.tcp URI", ErrInvalidValue, f.Endpoint.URI)}
	case f.Endpoint.NamespaceIndex < 0 || f.Endpoint.NamespaceIndex > 65535:
		return &Error{Field: "endpoint.namespace_index", Err: fmt.Errorf("%w: %d", ErrOutOfRange, f.Endpoint.NamespaceIndex)}
	case f.DeviceID == "":
		return &Error{Field: "device_id", Err: ErrRequired}
	case f.QueueSize < 0:
		return &Error{Field: "queue_size", Err: fmt.Errorf("%w: %d", ErrOutOfRange, f.QueueSize)}
	case f.ShutdownTimeout <= 0:
		return &Error{Field: "shutdown_timeout", Err: fmt.Errorf("%w: %s", ErrOutOfRange, f.ShutdownTimeout)}
	case f.ConnectAttempts < 1:
		return &Error{Field: "connect_attempts", Err: fmt.Errorf("%w: %d", ErrOutOfRange, f.ConnectAttempts)}
	case f.Log.Format != LogFormatText && f.Log.Format != LogFormatJSON:
		return &Error{Field: "log.format", Err: fmt.Errorf("%w: %q", ErrInvalidValue, f.Log.Format)}
	}

	if _, err := ParseLevel(f.Log.Level); err != nil {
		return &Error{Field: "log.level", Err: err}
	}
	if len(f.Outbound) == 0 && len(f.Inbound) == 0 {
		return &Error{Field: "outbound", Err: fmt.Errorf("%w: no mappings configured", ErrRequired)}
	}
	return nil
}

// BuildTable builds the address table from the mapping sections.
func (f File) BuildTable() (*address.Table, error) {
	outbound := make([]address.Outbound, 0, len(f.Outbound))
	for _, m := range f.Outbound {
		outbound = append(outbound, address.Outbound{NodeID: m.Node, Template: m.Topic})
	}
	inbound := make([]address.Inbound, 0, len(f.Inbound))
	for _, m := range f.Inbound {
		inbound = append(inbound, address.Inbound{Pattern: m.Topic, NodeID: m.Node})
	}
	return address.NewTable(outbound, inbound)
}
