package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	devenv "toolbox-backend/dev/env"
	"toolbox-backend/lib/configutil"
	bindbdb "toolbox-backend/services/bindb/db"
	shortenerdb "toolbox-backend/services/shortener/db"
)

func createDb(filename, schema string) error {
	dbPath, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return err
	}

	_, err = os.Stat(dbPath)
	if err == nil {
		fmt.Println("database already created at", dbPath)
		return nil
	}

	fmt.Println("creating database at", dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(schema)
	return err
}

func CreateEmptyServiceDBs() error {
	err := createDb("bindb.db", bindbdb.Schema)
	if err != nil {
		return err
	}
	return createDb("shortener.db", shortenerdb.Schema)
}

const localConfig = `{
  bindb: { database: { file: "dev/.state/bindb.db" } },
  shortener: { database: { file: "dev/.state/shortener.db" } },
}
`

// WriteLocalConfig points config.local.json5 at the dev databases unless
// the file already exists.
func WriteLocalConfig() error {
	local := configutil.LocalPath("config.json5")
	_, err := os.Stat(local)
	if err == nil {
		slog.Info("local config already exists, leaving it alone", "file", local)
		return nil
	}
	return os.WriteFile(local, []byte(localConfig), 0644)
}

func PrintConfigLocations() {
	slog.Info("the mongo store tests read dev/.state/mongo_test.json5 and fall back to a testcontainers mongo, run `go test -v ./services/shortener` to see which one was used.")
}
