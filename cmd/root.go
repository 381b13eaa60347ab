package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/khanhnv2901/framecheck/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FRAMECHECK"

var cfgFile string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "framecheck",
	Short: "Check whether websites are protected against clickjacking",
	Long: `framecheck fetches a page and inspects its X-Frame-Options and
Content-Security-Policy frame-ancestors headers to tell whether other sites
can embed it in a frame.

Run it once from the terminal with "framecheck check <url>..." or expose it
as a small REST service with "framecheck serve".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		applyConfigDefaults(cmd)

		log, err := logger.New(logLevel)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		storeAppContext(cmd, &AppContext{Logger: log, Config: cliConfig})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx := getAppContext(cmd); appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
	},
}

// initConfig loads .env, the optional config file and FRAMECHECK_* overrides.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return nil
	}

	viper.AddConfigPath("$HOME")
	viper.SetConfigName(".framecheck")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.framecheck.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
