package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applicationName = "envprobetest"

func newTestFlagSet() *pflag.FlagSet {
	f := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	ConfigureFlagSet(applicationName, f)
	return f
}

func writeConfigFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeDefaults(t *testing.T) {
	t.Setenv(PortEnvironmentVariable, "")
	os.Unsetenv(PortEnvironmentVariable)

	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	v := NewViper(applicationName)
	c, err := Initialize(applicationName, nil, nil, v)
	require.NoError(err)
	require.NotNil(c)
	assert.Equal(DefaultLogLevel, v.GetString(LogLevelKey))

	assert.Equal(DefaultServerName, c.ServerName)
	assert.Equal(DefaultService, c.Service)
	assert.Equal(DefaultVersion, c.Version)
	assert.Equal(DefaultGreeting, c.Greeting)
	assert.Equal(DefaultPort, c.Port)
	assert.Equal(DefaultMetricsPort, c.MetricsPort)
	assert.False(c.FeatureTest)
	assert.Empty(c.EnvFile)
	assert.Equal(DefaultHeartbeatInterval, c.HeartbeatInterval)
	assert.Equal(DefaultReadTimeout, c.ReadTimeout)
	assert.Equal(DefaultReadHeaderTimeout, c.ReadHeaderTimeout)
	assert.Equal(DefaultWriteTimeout, c.WriteTimeout)
	assert.Equal(DefaultIdleTimeout, c.IdleTimeout)
	assert.Equal(DefaultShutdownTimeout, c.ShutdownTimeout)

	assert.Equal(":8080", c.PrimaryAddress())
	assert.Equal(":9090", c.MetricsAddress())
	assert.Equal("envprobe.metrics", c.MetricsServerName())
}

func TestInitializePortEnvironment(t *testing.T) {
	t.Setenv(PortEnvironmentVariable, "3000")

	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	c, err := Initialize(applicationName, nil, newTestFlagSet(), NewViper(applicationName))
	require.NoError(err)
	assert.Equal(uint16(3000), c.Port)
	assert.Equal(":3000", c.PrimaryAddress())
}

func TestInitializeInvalidPort(t *testing.T) {
	for _, value := range []string{"abc", "0", "-1"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv(PortEnvironmentVariable, value)

			c, err := Initialize(applicationName, nil, newTestFlagSet(), NewViper(applicationName))
			assert.Nil(t, c)
			assert.Error(t, err)
		})
	}
}

func TestInitializeFlags(t *testing.T) {
	t.Setenv(PortEnvironmentVariable, "3000")

	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	c, err := Initialize(
		applicationName,
		[]string{"--port", "8181", "--metrics-port", "0", "--feature-test", "--env-file", "a.env,b.env"},
		newTestFlagSet(),
		NewViper(applicationName),
	)

	require.NoError(err)
	assert.Equal(uint16(8181), c.Port)
	assert.Zero(c.MetricsPort)
	assert.Empty(c.MetricsAddress())
	assert.True(c.FeatureTest)
	assert.Equal([]string{"a.env", "b.env"}, c.EnvFile)
}

func TestInitializeFile(t *testing.T) {
	t.Setenv(PortEnvironmentVariable, "")
	os.Unsetenv(PortEnvironmentVariable)

	var (
		assert  = assert.New(t)
		require = require.New(t)

		file = writeConfigFile(t, "envprobe.yaml", `
serverName: "statusd"
service: "Feature Test App"
version: "2.1.0"
port: 8282
metricsPort: 9191
featureTest: true
envFile: "one.env,two.env"
heartbeatInterval: "5s"
shutdownTimeout: "1s"
metrics:
  namespace: "arcane"
`)
	)

	c, err := Initialize(applicationName, []string{"-f", file}, newTestFlagSet(), NewViper(applicationName))
	require.NoError(err)
	assert.Equal("statusd", c.ServerName)
	assert.Equal("Feature Test App", c.Service)
	assert.Equal("2.1.0", c.Version)
	assert.Equal(uint16(8282), c.Port)
	assert.Equal(uint16(9191), c.MetricsPort)
	assert.True(c.FeatureTest)
	assert.Equal([]string{"one.env", "two.env"}, c.EnvFile)
	assert.Equal(5*time.Second, c.HeartbeatInterval)
	assert.Equal(time.Second, c.ShutdownTimeout)
	assert.Equal("arcane", c.Metrics.Namespace)
}

func TestLoggingOptions(t *testing.T) {
	t.Setenv(PortEnvironmentVariable, "")
	os.Unsetenv(PortEnvironmentVariable)

	t.Run("Defaults", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
			v       = NewViper(applicationName)
		)

		_, err := Initialize(applicationName, nil, newTestFlagSet(), v)
		require.NoError(err)

		o, err := LoggingOptions(v)
		require.NoError(err)
		assert.Equal(DefaultLogLevel, o.Level)
		assert.False(o.JSON)
	})

	t.Run("FileWithoutLevel", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
			v       = NewViper(applicationName)
			file    = writeConfigFile(t, "envprobe.yaml", "log:\n  json: true\n")
		)

		_, err := Initialize(applicationName, []string{"-f", file}, newTestFlagSet(), v)
		require.NoError(err)

		o, err := LoggingOptions(v)
		require.NoError(err)
		assert.Equal(DefaultLogLevel, o.Level)
		assert.True(o.JSON)
	})

	t.Run("FileWithLevel", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
			v       = NewViper(applicationName)
			file    = writeConfigFile(t, "envprobe.yaml", "log:\n  level: \"DEBUG\"\n")
		)

		_, err := Initialize(applicationName, []string{"-f", file}, newTestFlagSet(), v)
		require.NoError(err)

		o, err := LoggingOptions(v)
		require.NoError(err)
		assert.Equal("DEBUG", o.Level)
	})
}

func TestInitializeErrors(t *testing.T) {
	t.Run("UnknownFlag", func(t *testing.T) {
		c, err := Initialize(applicationName, []string{"--unknown"}, newTestFlagSet(), NewViper(applicationName))
		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		c, err := Initialize(applicationName, []string{"-f", filepath.Join(t.TempDir(), "missing.yaml")}, newTestFlagSet(), NewViper(applicationName))
		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("BadInterval", func(t *testing.T) {
		file := writeConfigFile(t, "envprobe.yaml", "heartbeatInterval: \"-1s\"\n")
		c, err := Initialize(applicationName, []string{"-f", file}, newTestFlagSet(), NewViper(applicationName))
		assert.Nil(t, c)
		assert.Error(t, err)
	})
}
