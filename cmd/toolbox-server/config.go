package main

import (
	"errors"
	"os"
	"strconv"
	"time"
	"toolbox-backend/lib/configutil"
	configlibsql "toolbox-backend/lib/configutil/libsql"
	"toolbox-backend/services/shortener"
)

type SpotifyConfig struct {
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type ShortenerConfig struct {
	Database configlibsql.Struct `json:"database"`
	// when set, records are kept in mongodb instead of Database
	MongoUrl      string `json:"mongo_url"`
	MongoDatabase string `json:"mongo_database"`
}

type BinDbConfig struct {
	Database configlibsql.Struct `json:"database"`
	// csv imported on startup when the table is empty
	Csv string `json:"csv"`
}

type TtsConfig struct {
	ExpirySeconds int `json:"expiry_seconds"`
}

type WhoisConfig struct {
	CacheSize       int `json:"cache_size"`
	CacheTtlMinutes int `json:"cache_ttl_minutes"`
}

type Config struct {
	Port      int     `json:"port"`
	BaseUrl   string  `json:"base_url"`
	RateLimit float64 `json:"rate_limit"`
	Burst     int     `json:"burst"`
	TmpDir    string  `json:"tmp_dir"`

	Spotify   SpotifyConfig   `json:"spotify"`
	Shortener ShortenerConfig `json:"shortener"`
	BinDb     BinDbConfig     `json:"bindb"`
	Tts       TtsConfig       `json:"tts"`
	Whois     WhoisConfig     `json:"whois"`
}

func defaultConfig() Config {
	return Config{
		Port:      8000,
		BaseUrl:   "http://localhost:8000",
		RateLimit: 10,
		Shortener: ShortenerConfig{
			Database:      configlibsql.Struct{File: "shortener.db"},
			MongoDatabase: shortener.DefaultMongoDatabase,
		},
		BinDb: BinDbConfig{
			Database: configlibsql.Struct{File: "bindb.db"},
		},
		Tts: TtsConfig{ExpirySeconds: 60},
	}
}

// LoadConfig decodes config.json5 (and its local override) on top of the
// defaults, then applies secrets from the environment. Keys missing from
// the files keep their defaults, explicit zeros like `rate_limit: 0` stick.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	err := configutil.ReadConfigInto(path, &cfg)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg.BaseUrl = configutil.EnvOr("BASE_URL", cfg.BaseUrl)
	cfg.Spotify.ClientId = configutil.EnvOr("SPOTIFY_CLIENT_ID", cfg.Spotify.ClientId)
	cfg.Spotify.ClientSecret = configutil.EnvOr("SPOTIFY_CLIENT_SECRET", cfg.Spotify.ClientSecret)
	cfg.Shortener.MongoUrl = configutil.EnvOr("MONGO_URL", cfg.Shortener.MongoUrl)
	if port, err := strconv.Atoi(configutil.EnvOr("PORT", "")); err == nil {
		cfg.Port = port
	}
	return cfg, nil
}

func (c Config) ttsExpiry() time.Duration {
	return time.Duration(c.Tts.ExpirySeconds) * time.Second
}

func (c Config) whoisCacheTtl() time.Duration {
	return time.Duration(c.Whois.CacheTtlMinutes) * time.Minute
}
