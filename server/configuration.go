package server

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/xmidt-org/envprobe/xmetrics"
)

// Configuration provides the options common to envprobe's binaries.  Logging is configured
// separately, from the "log" subtree.
type Configuration struct {
	// ServerName is the human-readable name for this server, used in log entries
	ServerName string `mapstructure:"serverName"`

	// Service is the service identity reported by the status index
	Service string `mapstructure:"service"`

	// Version is the service version reported by the status index
	Version string `mapstructure:"version"`

	// Greeting is the first line of the feature-test fallback body
	Greeting string `mapstructure:"greeting"`

	// Port is the primary port for this server.  It is also read from the PORT environment variable.
	Port uint16 `mapstructure:"-"`

	// MetricsPort is the port serving Prometheus metrics.  Zero disables the metrics server.
	MetricsPort uint16 `mapstructure:"-"`

	// FeatureTest enables the fallback greeting for unknown paths and the /crash route
	FeatureTest bool `mapstructure:"featureTest"`

	// EnvFile lists dotenv files overlaid onto the captured environment
	EnvFile []string `mapstructure:"envFile"`

	// HeartbeatInterval is the period of the heartbeat worker
	HeartbeatInterval time.Duration `mapstructure:"heartbeatInterval"`

	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`

	// ShutdownTimeout bounds the graceful shutdown of the listeners
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	// MaxConnections caps the open connections of each listener.  Zero means no limit.
	MaxConnections int `mapstructure:"maxConnections"`

	// Metrics configures the Prometheus registry
	Metrics xmetrics.Options `mapstructure:"metrics"`
}

// PrimaryAddress returns the listen address for the primary server, bound to all interfaces
func (c *Configuration) PrimaryAddress() string {
	return net.JoinHostPort("", strconv.Itoa(int(c.Port)))
}

// MetricsAddress returns the listen address for the metrics server, or the empty string
// if the metrics server is disabled
func (c *Configuration) MetricsAddress() string {
	if c.MetricsPort == 0 {
		return ""
	}

	return net.JoinHostPort("", strconv.Itoa(int(c.MetricsPort)))
}

// MetricsServerName returns the name used for the metrics server's logs
func (c *Configuration) MetricsServerName() string {
	return c.ServerName + metricsSuffix
}

// decodeHook converts the string forms found in files and environment variables
var decodeHook = viper.DecodeHook(
	mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	),
)

// FromViper produces a Configuration from a Viper instance, normally one created with NewViper.
func FromViper(v *viper.Viper) (*Configuration, error) {
	c := new(Configuration)
	if err := v.Unmarshal(c, decodeHook); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	var err error
	if c.Port, err = cast.ToUint16E(v.Get(PortKey)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PortKey, err)
	}

	if c.Port == 0 {
		return nil, fmt.Errorf("invalid %s: must be nonzero", PortKey)
	}

	if c.MetricsPort, err = cast.ToUint16E(v.Get(MetricsPortKey)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", MetricsPortKey, err)
	}

	if c.HeartbeatInterval <= 0 {
		return nil, fmt.Errorf("invalid %s: %s", HeartbeatIntervalKey, c.HeartbeatInterval)
	}

	return c, nil
}
