package configutil

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads the given .env files into the process environment,
// existing variables are never overwritten. missing files are skipped.
func LoadDotenv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_, err := os.Stat(f)
		if os.IsNotExist(err) {
			continue
		}
		err = godotenv.Load(f)
		if err != nil {
			slog.Warn("failed to load dotenv file", "file", f, "err", err)
			continue
		}
		slog.Info("loaded environment overrides", "file", f)
	}
}

// EnvOr returns the value of the environment variable `key` if it is set
// and non-empty, otherwise it returns `fallback`.
func EnvOr(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	return v
}
