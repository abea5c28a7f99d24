package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "SDKPKG"
	defaultConfigFile = "sdkpkg.toml"
	defaultMaxRetries = 3
)

// addConfigFlags declares the flags every command shares
func addConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (default ./"+defaultConfigFile+" when present)")
	fs.StringP("sdk-root", "s", "", "SDK root directory")
	fs.Bool("force-http", false, "Download https archives over http")
	fs.Duration("http-timeout", 0, "Download timeout, 0 waits forever")
	fs.String("retry", models.RetryNever, "Action when a directory rename is blocked (never, always, prompt)")
	fs.Int("max-retries", defaultMaxRetries, "Number of rename retries with --retry=always")
}

// loadConfig merges, from lowest to highest precedence, the defaults, the
// config file, the SDKPKG_* environment variables and the flags of cmd
func loadConfig(cmd *cobra.Command) (*models.InstallConfig, error) {
	v := viper.New()

	v.SetDefault("sdk-root", "")
	v.SetDefault("force-http", false)
	v.SetDefault("http-timeout", time.Duration(0))
	v.SetDefault("retry", models.RetryNever)
	v.SetDefault("max-retries", defaultMaxRetries)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("sdk-root", envPrefix+"_SDK_ROOT", "ANDROID_SDK_ROOT"); err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path == "" && utils.IsFile(defaultConfigFile) {
		path = defaultConfigFile
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, models.NewInstallError(models.ErrInvalidConfig, "",
				fmt.Errorf("failed to read config %s: %w", path, err))
		}
		logrus.Debugf("Loaded config from %s", path)
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	config := &models.InstallConfig{
		SdkRoot:     v.GetString("sdk-root"),
		ForceHTTP:   v.GetBool("force-http"),
		HTTPTimeout: v.GetDuration("http-timeout"),
		RetryPolicy: v.GetString("retry"),
		MaxRetries:  v.GetInt("max-retries"),
		Verbose:     v.GetBool("verbose"),
	}
	if config.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	logrus.Debugf("Configuration: %+v", config)
	return config, nil
}

func validateConfig(config *models.InstallConfig) error {
	if config.SdkRoot == "" {
		return &models.InstallError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("sdk-root is required"),
		}
	}

	if !monitor.ValidRetryPolicy(config.RetryPolicy) {
		return &models.InstallError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("unknown retry policy %q", config.RetryPolicy),
		}
	}

	if config.MaxRetries < 0 {
		return &models.InstallError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("max-retries must not be negative"),
		}
	}

	if config.HTTPTimeout < 0 {
		return &models.InstallError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("http-timeout must not be negative"),
		}
	}

	return nil
}
