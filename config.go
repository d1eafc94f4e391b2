package plinth

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// UploadConfig tunes the upload helpers for a service. All fields have
// working defaults, so services that never call LoadUploadConfig get the
// same behavior as ones running with an empty config.toml.
type UploadConfig struct {
	MaxMemoryMB      int64  `toml:"upload_max_memory_mb"`
	TempDir          string `toml:"upload_temp_dir"`
	CleanupSchedule  string `toml:"upload_cleanup_schedule"`
	CleanupMaxAgeMin int    `toml:"upload_cleanup_max_age_min"`
}

// LoadUploadConfig reads upload settings from config.toml, then applies
// environment variable overrides.
func LoadUploadConfig() UploadConfig {
	cfg := UploadConfig{
		// Defaults
		MaxMemoryMB:      32,
		TempDir:          "uploads",
		CleanupSchedule:  "*/15 * * * *",
		CleanupMaxAgeMin: 60,
	}

	// Missing file is fine - defaults apply
	if _, err := toml.DecodeFile("config.toml", &cfg); err != nil && !os.IsNotExist(err) {
		panic("failed to decode config file: " + err.Error())
	}

	// Environment variables override config file
	if v := os.Getenv("UPLOAD_MAX_MEMORY_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxMemoryMB = n
		}
	}
	if v := os.Getenv("UPLOAD_TEMP_DIR"); v != "" {
		cfg.TempDir = v
	}
	if v := os.Getenv("UPLOAD_CLEANUP_SCHEDULE"); v != "" {
		cfg.CleanupSchedule = v
	}
	if v := os.Getenv("UPLOAD_CLEANUP_MAX_AGE_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CleanupMaxAgeMin = n
		}
	}

	return cfg
}
