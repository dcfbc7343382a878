package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

func (h HTTP) Addr() string { return fmt.Sprintf("%s:%d", h.Host, h.Port) }

type DB struct {
	Driver string // mysql | sqlite
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string // sqlite file, ":memory:" allowed
}

type Redis struct {
	Addr     string // empty disables redis
	Password string
	DB       int
	CacheTTL time.Duration
}

type Storage struct {
	Path    string
	LinkTTL time.Duration
	// PublicURL prefixes download links; empty yields server-relative links.
	PublicURL string
}

type Admin struct {
	Username string
	Password string
}

type Config struct {
	HTTP HTTP
	DB   DB
	JWT  struct {
		Secret string
		Issuer string
		ExpMin int
	}
	Redis    Redis
	Storage  Storage
	Admin    Admin
	SeedFile string
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("backend.host", "127.0.0.1")
	v.SetDefault("backend.port", 9400)
	v.SetDefault("backend.db.driver", "sqlite")
	v.SetDefault("backend.db.host", "127.0.0.1")
	v.SetDefault("backend.db.port", 3306)
	v.SetDefault("backend.db.user", "root")
	v.SetDefault("backend.db.pass", "")
	v.SetDefault("backend.db.name", "banglaixanh")
	v.SetDefault("backend.db.path", "banglaixanh.db")
	v.SetDefault("backend.redis.addr", "")
	v.SetDefault("backend.redis.db", 0)
	v.SetDefault("backend.redis.cache_ttl", "30m")
	v.SetDefault("backend.storage.path", "converted")
	v.SetDefault("backend.storage.link_ttl", "10m")
	v.SetDefault("backend.storage.public_url", "")
	v.SetDefault("backend.admin.username", "admin")
	v.SetDefault("backend.admin.password", "admin123")
	v.SetDefault("backend.seed_file", "")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("backend.host"), Port: v.GetInt("backend.port")},
		DB: DB{
			Driver: v.GetString("backend.db.driver"),
			Host:   v.GetString("backend.db.host"),
			Port:   v.GetInt("backend.db.port"),
			User:   v.GetString("backend.db.user"),
			Pass:   v.GetString("backend.db.pass"),
			Name:   v.GetString("backend.db.name"),
			Path:   v.GetString("backend.db.path"),
		},
		Redis: Redis{
			Addr:     v.GetString("backend.redis.addr"),
			Password: v.GetString("backend.redis.password"),
			DB:       v.GetInt("backend.redis.db"),
			CacheTTL: v.GetDuration("backend.redis.cache_ttl"),
		},
		Storage: Storage{
			Path:      v.GetString("backend.storage.path"),
			LinkTTL:   v.GetDuration("backend.storage.link_ttl"),
			PublicURL: v.GetString("backend.storage.public_url"),
		},
		Admin: Admin{
			Username: v.GetString("backend.admin.username"),
			Password: v.GetString("backend.admin.password"),
		},
		SeedFile: v.GetString("backend.seed_file"),
	}
	if cfg.Storage.LinkTTL <= 0 {
		cfg.Storage.LinkTTL = 10 * time.Minute
	}
	cfg.JWT.Secret = v.GetString("backend.jwt.secret")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
	}
	cfg.JWT.Issuer = v.GetString("backend.jwt.issuer")
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "banglaixanh"
	}
	cfg.JWT.ExpMin = v.GetInt("backend.jwt.exp_min")
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 60
	}
	return cfg, nil
}
