package cmd

import (
	"log"

	"github.com/irisvela/kindred/internal/community"
	"github.com/irisvela/kindred/internal/match"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "kindred"

	defaultConnectMessage = "Hi! Your profile resonated with me and I think we could build something meaningful together. Open to a chat?"
)

type Config struct {
	Search      *community.SearchParams `mapstructure:"search"`
	ExcludeFile string                  `mapstructure:"exclude-file"`
	UserAgent   string                  `mapstructure:"user-agent"`
	TokenFile   string                  `mapstructure:"token-file"`
	Match       *match.Filters          `mapstructure:"match"`
	Connect     *ConnectConfig          `mapstructure:"connect"`
	AI          *AIConfig               `mapstructure:"ai"`
}

type ConnectConfig struct {
	Message string   `mapstructure:"message"`
	Exclude []string `mapstructure:"exclude"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "kindred is a simple cli for finding aligned collaborators in your community and reaching out to them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "KINDRED_TOKEN_FILE"); err != nil {
		log.Fatalf("binding KINDRED_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is kindred.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only the match command needs a config file.
	if matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A broken config file is not recoverable.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}

	if config.Search == nil {
		config.Search = &community.SearchParams{}
	}

	if config.Connect == nil {
		config.Connect = &ConnectConfig{}
	}

	if config.Connect.Message == "" {
		config.Connect.Message = defaultConnectMessage
	}

	return config, nil
}
