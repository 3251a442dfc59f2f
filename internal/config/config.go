package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	NER     NERConfig     `yaml:"ner" mapstructure:"ner"`
	OCR     OCRConfig     `yaml:"ocr" mapstructure:"ocr"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ExtractConfig configures the contact extraction pipeline.
type ExtractConfig struct {
	DefaultCountry     string `yaml:"default_country" mapstructure:"default_country"`
	DefaultCountryCode string `yaml:"default_country_code" mapstructure:"default_country_code"`
	MaxPhoneLen        int    `yaml:"max_phone_len" mapstructure:"max_phone_len"`
	VocabPath          string `yaml:"vocab_path" mapstructure:"vocab_path"`
}

// NERConfig configures the entity-recognition collaborator.
type NERConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // off, http, anthropic
	URL            string `yaml:"url" mapstructure:"url"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	AnthropicKey   string `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
}

// OCRConfig configures image-to-text extraction.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // tesseract, mistral
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	Language      string `yaml:"language" mapstructure:"language"`
	MistralKey    string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
}

// StoreConfig configures the contact database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite, postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CARDSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("extract.default_country", "TH")
	v.SetDefault("extract.default_country_code", "+66")
	v.SetDefault("extract.max_phone_len", 15)
	v.SetDefault("ner.provider", "off")
	v.SetDefault("ner.timeout_secs", 5)
	v.SetDefault("ner.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "cardscan.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
