// Package config loads the backend configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"imagestego-backend/models"
)

// ServerConfig is the configuration of the local HTTP API server.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// CodecConfig configures the steganographic codec.
type CodecConfig struct {
	Delimiter string `yaml:"delimiter"`
	Verbose   bool   `yaml:"verbose"`
}

// TTSConfig configures spoken playback of extracted messages.
type TTSConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Voice          string `yaml:"voice"`
	WordsPerMinute int    `yaml:"words_per_minute"`
}

// FullConfig is the complete backend configuration.
type FullConfig struct {
	Server ServerConfig `yaml:"server"`
	Codec  CodecConfig  `yaml:"codec"`
	TTS    TTSConfig    `yaml:"tts"`
}

// Default returns the configuration used when no file is present.
func Default() *FullConfig {
	return &FullConfig{
		Server: ServerConfig{
			Port:         "8080",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Codec: CodecConfig{
			Delimiter: models.DefaultDelimiter,
		},
		TTS: TTSConfig{
			Enabled:        true,
			Voice:          "en",
			WordsPerMinute: 150,
		},
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep
// their defaults. The PORT environment variable, when set, overrides the
// configured port.
func Load(path string) (*FullConfig, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %v", path, err)
	}

	applyEnv(conf)
	normalize(conf)
	return conf, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist.
func LoadOrDefault(path string) (*FullConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		conf := Default()
		applyEnv(conf)
		return conf, nil
	}
	return Load(path)
}

// Save writes the configuration as YAML.
func Save(path string, conf *FullConfig) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %v", path, err)
	}
	return nil
}

// StegoConfig converts the codec section to the model the codec consumes.
func (c *FullConfig) StegoConfig() *models.StegoConfig {
	return &models.StegoConfig{
		Delimiter: c.Codec.Delimiter,
		Verbose:   c.Codec.Verbose,
	}
}

func applyEnv(conf *FullConfig) {
	if port := os.Getenv("PORT"); port != "" {
		conf.Server.Port = port
	}
}

func normalize(conf *FullConfig) {
	if conf.Server.Port == "" {
		conf.Server.Port = "8080"
	}
	if conf.Codec.Delimiter == "" {
		conf.Codec.Delimiter = models.DefaultDelimiter
	}
	if conf.TTS.WordsPerMinute <= 0 {
		conf.TTS.WordsPerMinute = 150
	}
}
