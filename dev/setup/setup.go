package setup

import (
	"encoding/json"
	"log/slog"
	"os"
	devenv "toolbox-backend/dev/env"

	"github.com/joho/godotenv"
	"github.com/tcnksm/go-input"
)

var askOpts = &input.Options{
	Default: "",
	Mask:    false,
	Loop:    true,
}

// AskSecrets prompts for the upstream credentials the server reads from
// the environment and stores them in `.env`, keys already present are
// left alone.
func AskSecrets(path string) error {
	env, err := godotenv.Read(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if env == nil {
		env = map[string]string{}
	}

	ui := input.DefaultUI()
	for _, key := range []string{"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET"} {
		if env[key] != "" {
			slog.Info("secret already provided", "key", key)
			continue
		}
		value, err := ui.Ask(key+":", &input.Options{Mask: key == "SPOTIFY_CLIENT_SECRET", Loop: true, Required: true})
		if err != nil {
			return err
		}
		env[key] = value
	}
	if env["BASE_URL"] == "" {
		env["BASE_URL"] = "http://localhost:8000"
	}
	return godotenv.Write(env, path)
}

// AskMongoTestConfig points the mongo store tests at an existing
// deployment so they don't need docker.
func AskMongoTestConfig() error {
	path, err := devenv.GetStateFilePath("mongo_test.json5")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		slog.Info("mongo test config has already been provided", "path", path)
		return nil
	}

	ui := input.DefaultUI()
	uri, err := ui.Ask("mongodb uri (leave empty to use testcontainers):", &input.Options{})
	if err != nil {
		return err
	}
	if uri == "" {
		return nil
	}
	database, err := ui.Ask("mongodb database:", askOpts)
	if err != nil {
		return err
	}

	contents, err := json.Marshal(devenv.MongoTestConfig{Uri: uri, Database: database})
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0600)
}
