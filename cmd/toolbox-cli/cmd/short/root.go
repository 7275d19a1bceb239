package short

import (
	"context"
	"toolbox-backend/cmd/toolbox-cli/utils"
	configlibsql "toolbox-backend/lib/configutil/libsql"
	"toolbox-backend/services/shortener"
	"toolbox-backend/services/shortener/db"

	"github.com/spf13/cobra"
)

var (
	database string
	mongoUrl string
	baseUrl  string
)

var RootCmd = &cobra.Command{
	Use:   "short",
	Short: "The 'short' subcommand inspects and prunes the short url store.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&database, "db", "shortener.db", "Path to the shortener sqlite database.")
	RootCmd.PersistentFlags().StringVar(&mongoUrl, "mongo", "", "Use the mongodb deployment at this uri instead of sqlite.")
	RootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", "http://localhost:8000", "Public origin short urls are printed with.")
}

func openService(ctx context.Context) (shortener.Service, func()) {
	var store shortener.Store
	if mongoUrl != "" {
		mongo, err := shortener.NewMongoStore(ctx, mongoUrl, shortener.DefaultMongoDatabase)
		if err != nil {
			utils.Fatal(err)
		}
		store = mongo
	} else {
		conn, err := configlibsql.Struct{File: database}.OpenDB(db.Schema)
		if err != nil {
			utils.Fatal(err)
		}
		store = shortener.NewSqlStore(conn)
	}
	return shortener.NewService(store, baseUrl), func() { store.Close() }
}
