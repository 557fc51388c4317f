package server

import (
	"time"
)

const (
	// DefaultServerName is the default value for the server name, used in logs and as the metrics server suffix base
	DefaultServerName = "envprobe"

	// DefaultService is the service identity reported by the status index
	DefaultService = "Full-Stack Demo API"

	// DefaultVersion is the version reported by the status index
	DefaultVersion = "1.0.0"

	// DefaultGreeting is the first line of the feature-test fallback body
	DefaultGreeting = "Hello from Arcane!"

	// DefaultPort is the default value for the port of the primary server
	DefaultPort uint16 = 8080

	// DefaultMetricsPort is the default value for the port on which Prometheus metrics are served
	DefaultMetricsPort uint16 = 9090

	// DefaultHeartbeatInterval is the default period between worker heartbeats
	DefaultHeartbeatInterval = 30 * time.Second

	DefaultReadTimeout       = 10 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second

	// DefaultLogLevel makes the per-request and heartbeat entries visible without any configuration
	DefaultLogLevel = "INFO"

	// metricsSuffix is the string appended to server name's to produce the metrics server name
	metricsSuffix = ".metrics"
)

// configuration keys
const (
	ServerNameKey        = "serverName"
	ServiceKey           = "service"
	VersionKey           = "version"
	GreetingKey          = "greeting"
	PortKey              = "port"
	MetricsPortKey       = "metricsPort"
	FeatureTestKey       = "featureTest"
	EnvFileKey           = "envFile"
	HeartbeatIntervalKey = "heartbeatInterval"
	ReadTimeoutKey       = "readTimeout"
	ReadHeaderTimeoutKey = "readHeaderTimeout"
	WriteTimeoutKey      = "writeTimeout"
	IdleTimeoutKey       = "idleTimeout"
	ShutdownTimeoutKey   = "shutdownTimeout"
	MaxConnectionsKey    = "maxConnections"
	LogLevelKey          = "log.level"

	// PortEnvironmentVariable is the unprefixed variable that platforms use to assign a listen port
	PortEnvironmentVariable = "PORT"
)

// command line flags
const (
	FileFlag        = "file"
	PortFlag        = "port"
	MetricsPortFlag = "metrics-port"
	FeatureTestFlag = "feature-test"
	EnvFileFlag     = "env-file"
)
