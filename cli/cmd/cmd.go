package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "ECB_RATES"
	DefaultConfigFile = "./config.yml"
)

type rootOptions struct {
	configFile string
	debug      bool
}

func NewRootCommand() *cobra.Command {
	v := viper.New()
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "ecb-rates",
		Short:         "ECB reference rate converter",
		Version:       "v1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, opts, cmd.Flags().Changed("config"))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", DefaultConfigFile, "Path to config file")

	rootCmd.AddCommand(convert(v), configCommand(v))

	return rootCmd
}

func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// initConfig reads the config file when it exists. A missing file is an error
// only when --config was given explicitly.
func initConfig(v *viper.Viper, opts *rootOptions, explicit bool) error {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	absolutePath, err := filepath.Abs(opts.configFile)
	if err != nil {
		return err
	}

	v.SetConfigFile(absolutePath)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error while reading config file %s: %w", absolutePath, err)
		}
	}

	if opts.debug {
		v.Set("log.level", "debug")
	}

	return nil
}
