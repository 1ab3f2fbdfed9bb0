package config

import (
	"github.com/spf13/viper"
)

// Config holds the optimizer defaults. CLI flags override these values.
type Config struct {
	TimeLimitSecs int    `mapstructure:"TIME_LIMIT_SECS"`
	OutputFormat  string `mapstructure:"OUTPUT_FORMAT"`
	DBPath        string `mapstructure:"DB_PATH"`
	Verbose       bool   `mapstructure:"VERBOSE"`
}

// LoadConfig reads defaults from an optional .env file in the working
// directory, with environment variables taking precedence
func LoadConfig() (c Config, err error) {
	viper.SetDefault("TIME_LIMIT_SECS", 300)
	viper.SetDefault("OUTPUT_FORMAT", "text")
	viper.SetDefault("DB_PATH", "")
	viper.SetDefault("VERBOSE", false)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Continue even if file is not found
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	err = viper.Unmarshal(&c)
	return
}
