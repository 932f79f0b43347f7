package main

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	ManifestSource string `yaml:"manifest_source"`
	DataSource     string `yaml:"data_source"`

	DBPath string `yaml:"db_path"`

	RefreshSchedule string `yaml:"refresh_schedule"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.ManifestSource, "MANIFEST_SOURCE")
	envOverride(&cfg.DataSource, "DATA_SOURCE")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.RefreshSchedule, "REFRESH_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./safetydash.db"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultAnthropicModel
	}

	// Validate required fields
	if cfg.ManifestSource == "" {
		log.Fatalf("Required config 'manifest_source' is not set (via config.yaml or env var)")
	}

	// The data files default to living next to the manifest.
	if cfg.DataSource == "" {
		cfg.DataSource = sourceDir(cfg.ManifestSource)
	}

	if cfg.RefreshSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cfg.RefreshSchedule); err != nil {
			log.Fatalf("invalid refresh_schedule '%s': %v", cfg.RefreshSchedule, err)
		}
	}

	if cfg.SlackBotToken != "" && cfg.ReportChannelID == "" {
		log.Fatalf("report_channel_id is required when slack_bot_token is set")
	}
	if cfg.ReportChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("slack_bot_token is required when report_channel_id is set")
	}
	if cfg.ExternalHTTPTimeoutSeconds < 0 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 0", cfg.ExternalHTTPTimeoutSeconds)
	}

	return cfg
}

// Source returns the manifest/data source pair the loaders consume.
func (c Config) Source() Source {
	return Source{Manifest: c.ManifestSource, Data: c.DataSource}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func sourceDir(manifest string) string {
	if isHTTPSource(manifest) {
		if i := strings.LastIndex(manifest, "/"); i > len("https://") {
			return manifest[:i]
		}
		return manifest
	}
	return filepath.Dir(manifest)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
