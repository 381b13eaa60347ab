package cmd

import (
	"time"

	"github.com/khanhnv2901/framecheck/internal/checker"
	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var defaultTimeoutSeconds = int(constants.DefaultTimeout / time.Second)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Check    CheckRuntimeConfig
	Serve    ServeRuntimeConfig
}

// DefaultValues represent operator-level defaults, typically derived from env/config.
type DefaultValues struct {
	TimeoutSecs int
	Lang        string
	Concurrency int
}

// CheckRuntimeConfig consolidates flag-driven settings for the check command.
type CheckRuntimeConfig struct {
	TimeoutSecs      int
	Concurrency      int
	Format           string
	Lang             string
	ProgressEnabled  bool
	FailOnVulnerable bool
}

// ServeRuntimeConfig holds the serve command settings.
type ServeRuntimeConfig struct {
	Addr            string
	TimeoutSecs     int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	Lang            string
	AllowPrivate    bool
}

type defaultOverrides struct {
	LogLevel     string
	TimeoutSecs  *int
	Lang         string
	Concurrency  *int
	AllowPrivate *bool
	ServeAddr    string
	CORSOrigins  []string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			TimeoutSecs: defaultTimeoutSeconds,
			Lang:        string(checker.DefaultLocale),
			Concurrency: constants.DefaultConcurrency,
		},
		Check: CheckRuntimeConfig{
			TimeoutSecs: defaultTimeoutSeconds,
			Concurrency: constants.DefaultConcurrency,
			Format:      "text",
			Lang:        string(checker.DefaultLocale),
		},
		Serve: ServeRuntimeConfig{
			Addr:            constants.DefaultListenAddr,
			TimeoutSecs:     defaultTimeoutSeconds,
			ShutdownTimeout: constants.DefaultShutdownTimeout,
			CORSOrigins:     []string{},
			Lang:            string(checker.DefaultLocale),
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("log_level") {
		overrides.LogLevel = viper.GetString("log_level")
	}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.lang") {
		overrides.Lang = viper.GetString("defaults.lang")
	}

	if viper.IsSet("defaults.concurrency") {
		val := viper.GetInt("defaults.concurrency")
		overrides.Concurrency = &val
	}

	if viper.IsSet("serve.allow_private") {
		val := viper.GetBool("serve.allow_private")
		overrides.AllowPrivate = &val
	}

	if viper.IsSet("serve.addr") {
		overrides.ServeAddr = viper.GetString("serve.addr")
	}

	if viper.IsSet("serve.cors_origins") {
		overrides.CORSOrigins = viper.GetStringSlice("serve.cors_origins")
	}

	return overrides
}

// applyConfigDefaults merges config file and environment defaults into the
// runtime config when the user did not explicitly override the matching flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()

	if overrides.LogLevel != "" {
		setStringFlagIfUnset(cmd.Flags(), "log-level", overrides.LogLevel)
	}

	if overrides.TimeoutSecs != nil {
		cliConfig.Defaults.TimeoutSecs = *overrides.TimeoutSecs
		applyIntDefault(checkCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Check.TimeoutSecs = v
		})
		applyIntDefault(serveCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Serve.TimeoutSecs = v
		})
	}

	if overrides.Lang != "" {
		cliConfig.Defaults.Lang = overrides.Lang
		setStringFlagIfUnset(checkCmd.Flags(), "lang", overrides.Lang)
		setStringFlagIfUnset(serveCmd.Flags(), "lang", overrides.Lang)
	}

	if overrides.Concurrency != nil {
		cliConfig.Defaults.Concurrency = *overrides.Concurrency
		applyIntDefault(checkCmd.Flags(), "concurrency", *overrides.Concurrency, func(v int) {
			cliConfig.Check.Concurrency = v
		})
	}

	if overrides.AllowPrivate != nil {
		applyBoolDefault(serveCmd.Flags(), "allow-private", *overrides.AllowPrivate, func(v bool) {
			cliConfig.Serve.AllowPrivate = v
		})
	}

	if overrides.ServeAddr != "" {
		setStringFlagIfUnset(serveCmd.Flags(), "addr", overrides.ServeAddr)
	}

	if len(overrides.CORSOrigins) > 0 {
		if flag := serveCmd.Flags().Lookup("cors-origins"); flag == nil || !flag.Changed {
			cliConfig.Serve.CORSOrigins = append([]string(nil), overrides.CORSOrigins...)
		}
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
