package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/malusev998/ecb-rates/calendar"
	"github.com/malusev998/ecb-rates/fetchers"
)

type (
	Config struct {
		Fetcher   FetcherConfig   `mapstructure:"fetcher" yaml:"fetcher"`
		Registry  RegistryConfig  `mapstructure:"registry" yaml:"registry"`
		Calendar  CalendarConfig  `mapstructure:"calendar" yaml:"calendar"`
		Export    ExportConfig    `mapstructure:"export" yaml:"export"`
		Storage   []string        `mapstructure:"storage" yaml:"storage"`
		Migrate   bool            `mapstructure:"migrate" yaml:"migrate"`
		Databases DatabasesConfig `mapstructure:"databases" yaml:"databases"`
		Log       LogConfig       `mapstructure:"log" yaml:"log"`
	}

	FetcherConfig struct {
		Provider          string        `mapstructure:"provider" yaml:"provider"`
		URL               string        `mapstructure:"url" yaml:"url"`
		Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
		ReferenceCurrency string        `mapstructure:"reference_currency" yaml:"reference_currency"`
		ExrType           string        `mapstructure:"exr_type" yaml:"exr_type"`
		ExrSuffix         string        `mapstructure:"exr_suffix" yaml:"exr_suffix"`
	}

	RegistryConfig struct {
		Path string `mapstructure:"path" yaml:"path"`
	}

	CalendarConfig struct {
		Lookback      int      `mapstructure:"lookback" yaml:"lookback"`
		Strategy      string   `mapstructure:"strategy" yaml:"strategy"`
		ExtraHolidays []string `mapstructure:"extra_holidays" yaml:"extra_holidays"`
	}

	ExportConfig struct {
		Dir string `mapstructure:"dir" yaml:"dir"`
	}

	DatabasesConfig struct {
		MySQL   MySQLDatabase   `mapstructure:"mysql" yaml:"mysql"`
		MongoDB MongoDBDatabase `mapstructure:"mongodb" yaml:"mongodb"`
		SQLite  SQLiteDatabase  `mapstructure:"sqlite" yaml:"sqlite"`
	}

	MySQLDatabase struct {
		User     string `mapstructure:"user" yaml:"user"`
		Password string `mapstructure:"password" yaml:"password"`
		Addr     string `mapstructure:"addr" yaml:"addr"`
		DB       string `mapstructure:"db" yaml:"db"`
		Table    string `mapstructure:"table" yaml:"table"`
	}

	MongoDBDatabase struct {
		URI        string `mapstructure:"uri" yaml:"uri"`
		DB         string `mapstructure:"db" yaml:"db"`
		Collection string `mapstructure:"collection" yaml:"collection"`
	}

	SQLiteDatabase struct {
		Path string `mapstructure:"path" yaml:"path"`
	}

	LogConfig struct {
		Level string `mapstructure:"level" yaml:"level"`
		File  string `mapstructure:"file" yaml:"file"`
	}
)

const redacted = "xxxxx"

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetcher.provider", "ecb")
	v.SetDefault("fetcher.url", fetchers.ECBURL)
	v.SetDefault("fetcher.timeout", 30*time.Second)
	v.SetDefault("fetcher.reference_currency", fetchers.ReferenceCurrency)
	v.SetDefault("fetcher.exr_type", "")
	v.SetDefault("fetcher.exr_suffix", "")

	v.SetDefault("registry.path", "")

	v.SetDefault("calendar.lookback", calendar.DefaultLookback)
	v.SetDefault("calendar.strategy", string(calendar.HolidayStrategy))
	v.SetDefault("calendar.extra_holidays", []string{})

	v.SetDefault("export.dir", ".")

	v.SetDefault("storage", []string{})
	v.SetDefault("migrate", false)

	v.SetDefault("databases.mysql.user", "")
	v.SetDefault("databases.mysql.password", "")
	v.SetDefault("databases.mysql.addr", "localhost:3306")
	v.SetDefault("databases.mysql.db", "")
	v.SetDefault("databases.mysql.table", "exchange_rates")

	v.SetDefault("databases.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("databases.mongodb.db", "ecb_rates")
	v.SetDefault("databases.mongodb.collection", "exchange_rates")

	v.SetDefault("databases.sqlite.path", "ecb-rates.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

func loadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error while parsing configuration: %w", err)
	}

	return cfg, nil
}

// Redacted returns a copy safe to print: passwords and URI credentials are masked.
func (c Config) Redacted() Config {
	if c.Databases.MySQL.Password != "" {
		c.Databases.MySQL.Password = redacted
	}

	if u, err := url.Parse(c.Databases.MongoDB.URI); err == nil && u.User != nil {
		c.Databases.MongoDB.URI = u.Redacted()
	}

	return c
}

func configCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}
