package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	t.Setenv("BASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("MONGO_URL", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
	require.Equal(t, "url_shortener", cfg.Shortener.MongoDatabase)

	require.NoError(t, os.WriteFile(path, []byte(`{
		// public origin
		base_url: "https://tools.example",
		rate_limit: 2.5,
		bindb: { csv: "bins.csv" },
		spotify: { client_id: "from-file" },
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		port: 9100,
		tts: { expiry_seconds: 120 },
	}`), 0600))
	t.Setenv("SPOTIFY_CLIENT_SECRET", "from-env")

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://tools.example", cfg.BaseUrl)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, 2.5, cfg.RateLimit)
	require.Equal(t, "bins.csv", cfg.BinDb.Csv)
	require.Equal(t, "bindb.db", cfg.BinDb.Database.File)
	require.Equal(t, "shortener.db", cfg.Shortener.Database.File)
	require.Equal(t, "from-file", cfg.Spotify.ClientId)
	require.Equal(t, "from-env", cfg.Spotify.ClientSecret)
	require.Equal(t, time.Minute*2, cfg.ttsExpiry())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		rate_limit: 0,
		burst: 0,
	}`), 0600))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0.0, cfg.RateLimit)
	require.Equal(t, 0, cfg.Burst)
	require.Equal(t, "https://tools.example", cfg.BaseUrl)

	t.Setenv("PORT", "7000")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Port)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{ port: `), 0600))
	_, err := LoadConfig(path)
	require.Error(t, err)
}
