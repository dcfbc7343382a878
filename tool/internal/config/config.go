package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	APIBaseURL     string
	TokenPath      string
	LogPath        string
	DownloadDir    string
	InboxDir       string
	MaxUploadFiles int
	RequestTimeout time.Duration
	Username       string
}

var cfg AppConfig

// Init reads path (yaml) on top of the defaults. A missing file is not an error.
func Init(path string) AppConfig {
	base := filepath.Join(os.TempDir(), "banglaixanh")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BLX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("tool.api.base_url", "http://127.0.0.1:9400")
	v.SetDefault("tool.api.timeout", "60s")
	v.SetDefault("tool.token_path", filepath.Join(base, "tool.token"))
	v.SetDefault("tool.log_path", filepath.Join(base, "tool.log"))
	v.SetDefault("tool.download_dir", "downloads")
	v.SetDefault("tool.inbox_dir", "")
	v.SetDefault("tool.max_upload_files", 5)
	v.SetDefault("tool.username", "")
	_ = v.ReadInConfig()

	cfg = AppConfig{
		APIBaseURL:     v.GetString("tool.api.base_url"),
		TokenPath:      v.GetString("tool.token_path"),
		LogPath:        v.GetString("tool.log_path"),
		DownloadDir:    v.GetString("tool.download_dir"),
		InboxDir:       v.GetString("tool.inbox_dir"),
		MaxUploadFiles: v.GetInt("tool.max_upload_files"),
		RequestTimeout: v.GetDuration("tool.api.timeout"),
		Username:       v.GetString("tool.username"),
	}
	if cfg.MaxUploadFiles <= 0 {
		cfg.MaxUploadFiles = 5
	}
	return cfg
}

func Get() AppConfig { return cfg }

func TokenFilePath() string {
	if cfg.TokenPath == "" {
		return filepath.Join(os.TempDir(), "banglaixanh", "tool.token")
	}
	return cfg.TokenPath
}
