package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/envprobe/logging"
)

// flagKeys maps each command line flag onto the configuration key it overrides
var flagKeys = map[string]string{
	PortFlag:        PortKey,
	MetricsPortFlag: MetricsPortKey,
	FeatureTestFlag: FeatureTestKey,
	EnvFileFlag:     EnvFileKey,
}

// ConfigureFlagSet adds the standard envprobe flags to the given FlagSet
func ConfigureFlagSet(applicationName string, f *pflag.FlagSet) {
	f.StringP(FileFlag, "f", "", fmt.Sprintf("the configuration file to use.  Overrides the search path for %s.(json|yaml|toml)", applicationName))
	f.Uint16P(PortFlag, "p", DefaultPort, "the port on which the status server listens")
	f.Uint16(MetricsPortFlag, DefaultMetricsPort, "the port on which metrics are served, 0 to disable")
	f.Bool(FeatureTestFlag, false, "enable the fallback greeting and the /crash route")
	f.StringSlice(EnvFileFlag, nil, "dotenv files overlaid onto the process environment snapshot")
}

// SetDefaults registers the default value of every configuration key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(ServerNameKey, DefaultServerName)
	v.SetDefault(ServiceKey, DefaultService)
	v.SetDefault(VersionKey, DefaultVersion)
	v.SetDefault(GreetingKey, DefaultGreeting)
	v.SetDefault(PortKey, DefaultPort)
	v.SetDefault(MetricsPortKey, DefaultMetricsPort)
	v.SetDefault(FeatureTestKey, false)
	v.SetDefault(HeartbeatIntervalKey, DefaultHeartbeatInterval)
	v.SetDefault(ReadTimeoutKey, DefaultReadTimeout)
	v.SetDefault(ReadHeaderTimeoutKey, DefaultReadHeaderTimeout)
	v.SetDefault(WriteTimeoutKey, DefaultWriteTimeout)
	v.SetDefault(IdleTimeoutKey, DefaultIdleTimeout)
	v.SetDefault(ShutdownTimeoutKey, DefaultShutdownTimeout)
	v.SetDefault(LogLevelKey, DefaultLogLevel)
	v.SetDefault(MaxConnectionsKey, 0)
}

// NewViper produces a Viper instance configured with envprobe conventions.
// The applicationName is used as the configuration file name, the environment prefix,
// and to generate the path under /etc and $HOME to look for configuration files.
// Automatic environment mode is turned on, and the port also honors the bare PORT variable.
func NewViper(applicationName string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(applicationName)
	v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
	v.AddConfigPath(".")

	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv(PortKey, strings.ToUpper(applicationName)+"_PORT", PortEnvironmentVariable)

	SetDefaults(v)
	return v
}

// ParseAndBind parses the given flag set using the supplied arguments and then binds
// each flag that was explicitly set to its configuration key.  Arguments must not include
// the program name.  A --file flag replaces the configuration search path.
func ParseAndBind(v *viper.Viper, f *pflag.FlagSet, arguments []string) error {
	if err := f.Parse(arguments); err != nil {
		return err
	}

	var err error
	f.Visit(func(flag *pflag.Flag) {
		if key, ok := flagKeys[flag.Name]; ok && err == nil {
			err = v.BindPFlag(key, flag)
		}
	})

	if err != nil {
		return err
	}

	if file := f.Lookup(FileFlag); file != nil && len(file.Value.String()) > 0 {
		v.SetConfigFile(file.Value.String())
	}

	return nil
}

// ReadInConfig loads the configuration file.  A file that cannot be found on the search path is
// not an error; an explicitly named file that cannot be read is.
func ReadInConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return err
}

// Initialize runs the full bootstrap: flags, Viper, and the configuration file.  The returned Viper
// can be used to read other subtrees, such as logging.
func Initialize(applicationName string, arguments []string, f *pflag.FlagSet, v *viper.Viper) (*Configuration, error) {
	if f == nil {
		f = pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	}

	if f.Lookup(FileFlag) == nil {
		ConfigureFlagSet(applicationName, f)
	}

	if err := ParseAndBind(v, f, arguments); err != nil {
		return nil, fmt.Errorf("unable to parse command line: %w", err)
	}

	if err := ReadInConfig(v); err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}

	return FromViper(v)
}

// LoggingOptions reads the log subtree.  A configuration file with a log section replaces the
// subtree's defaults, so an unset level falls back to DefaultLogLevel here.
func LoggingOptions(v *viper.Viper) (*logging.Options, error) {
	o, err := logging.FromViper(logging.Sub(v))
	if err != nil {
		return nil, fmt.Errorf("unable to read logging options: %w", err)
	}

	if len(o.Level) == 0 {
		o.Level = DefaultLogLevel
	}

	return o, nil
}
