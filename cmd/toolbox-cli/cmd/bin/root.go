package bin

import (
	"toolbox-backend/cmd/toolbox-cli/utils"
	configlibsql "toolbox-backend/lib/configutil/libsql"
	"toolbox-backend/services/bindb"
	"toolbox-backend/services/bindb/db"

	"github.com/spf13/cobra"
)

var database string

var RootCmd = &cobra.Command{
	Use:   "bin",
	Short: "The 'bin' subcommand imports and queries the BIN database.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&database, "db", "bindb.db", "Path to the BIN sqlite database.")
}

func openService() bindb.Service {
	conn, err := configlibsql.Struct{File: database}.OpenDB(db.Schema)
	if err != nil {
		utils.Fatal(err)
	}
	return bindb.NewService(conn)
}
