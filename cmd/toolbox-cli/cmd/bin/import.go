package bin

import (
	"fmt"
	"toolbox-backend/cmd/toolbox-cli/utils"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import BIN rows from a csv file, existing bins are replaced.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		count, err := service.ImportFile(cmd.Context(), args[0])
		if err != nil {
			utils.Fatal(err)
		}
		total, err := service.Count(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}
		fmt.Printf("imported %d rows, %d bins in database\n", count, total)
	},
}
