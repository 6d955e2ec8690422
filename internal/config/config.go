package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ThresholdConfig holds the two confidence cutoffs. AutoSelect drives which
// detections start out selected in the bulk confirm view; LowCut drives the
// "show low confidence" visibility filter. The two are intentionally
// independent knobs.
type ThresholdConfig struct {
	AutoSelect float64
	LowCut     float64
}

type DetectConfig struct {
	Source string // "backend" or "gemini"
	Model  string
}

type Config struct {
	Backend    BackendConfig
	Thresholds ThresholdConfig
	Detect     DetectConfig
	TokenFile  string
}

// Load reads configuration from an optional curator.yaml plus CURATOR_*
// environment variables, with defaults for everything.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("curator")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "curator"))
	}

	v.SetEnvPrefix("CURATOR")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: v.GetString("backend.baseurl"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Thresholds: ThresholdConfig{
			AutoSelect: v.GetFloat64("thresholds.autoselect"),
			LowCut:     v.GetFloat64("thresholds.lowcut"),
		},
		Detect: DetectConfig{
			Source: v.GetString("detect.source"),
			Model:  v.GetString("detect.model"),
		},
		TokenFile: v.GetString("tokenfile"),
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.baseurl", "http://localhost:3000")
	v.SetDefault("backend.timeout", "30s")

	v.SetDefault("thresholds.autoselect", 90.0)
	v.SetDefault("thresholds.lowcut", 80.0)

	v.SetDefault("detect.source", "backend")
	v.SetDefault("detect.model", "")
}

// DefaultTokenFile returns the credentials file location used when no
// explicit tokenfile is configured.
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".curator-credentials.json"
	}
	return filepath.Join(dir, "curator", "credentials.json")
}
