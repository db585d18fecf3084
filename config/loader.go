package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "GOSESSION"

// Load reads an optional YAML file and GOSESSION_* environment overrides
// (GOSESSION_API_BASE_URL, GOSESSION_STORE_BACKEND, ...) on top of the defaults.
func Load(path string) (*SessionSvcConfig, error) {
	def := DefaultSessionSvcConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.login_path", def.API.LoginPath)
	v.SetDefault("api.refresh_path", def.API.RefreshPath)
	v.SetDefault("api.request_timeout", def.API.RequestTimeout.String())
	v.SetDefault("api.user_agent", def.API.UserAgent)
	v.SetDefault("api.extra_headers", map[string]string{})

	v.SetDefault("store.backend", def.Store.Backend)
	v.SetDefault("store.file_path", def.Store.FilePath)
	v.SetDefault("store.prefix", "")
	v.SetDefault("store.redis.addr", def.Store.Redis.Addr)
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.s3.bucket", "")
	v.SetDefault("store.s3.key", def.Store.S3.Key)
	v.SetDefault("store.s3.region", def.Store.S3.Region)
	v.SetDefault("store.s3.endpoint", "")
	v.SetDefault("store.s3.force_path_style", false)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.pretty", false)
	v.SetDefault("otel.enable", false)
	v.SetDefault("metrics.enable", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := def
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.API.ExtraHeaders == nil {
		cfg.API.ExtraHeaders = def.API.ExtraHeaders
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
