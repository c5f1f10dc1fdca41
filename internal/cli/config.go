package cli

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/polybuild/pkg/errors"
)

// Configuration keys. Each key is also a flag name and, upper-cased with
// dashes replaced by underscores, a POLYBUILD_* environment variable.
const (
	keySource     = "source"
	keyDest       = "dest"
	keyJobs       = "jobs"
	keyNoCache    = "no-cache"
	keyCacheRedis = "cache-redis"
	keyCacheScope = "cache-scope"
	keyBrowsers   = "browsers"
	keyWatch      = "watch"
	keyIgnore     = "watch-ignore"
	keyMetrics    = "metrics-file"
	keyVerbose    = "verbose"
)

// configFileEnv names the config file when --config is not given.
const configFileEnv = envPrefix + "_CONFIG_FILE"

// newConfig creates the viper instance with environment binding.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the config file. The file is taken from, in order:
// the --config flag, $POLYBUILD_CONFIG_FILE, or ./polybuild.toml. Only
// the implicit default may be missing.
func (c *CLI) loadConfig(file string) error {
	if file == "" {
		file = os.Getenv(configFileEnv)
	}
	if file != "" {
		c.config.SetConfigFile(file)
	} else {
		c.config.AddConfigPath(".")
		c.config.SetConfigName(appName)
		c.config.SetConfigType("toml")
	}

	err := c.config.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || (file == "" && stderrors.As(err, &notFound)) {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
}

// bindFlags binds the flags of the executing command to the config so
// values resolve flag > env > config file > flag default. Binding happens
// per execution because several commands share flag names.
func (c *CLI) bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = c.config.BindPFlag(f.Name, f)
		}
	})
	return err
}
