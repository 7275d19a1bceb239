package short

import (
	"time"
	"toolbox-backend/cmd/toolbox-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(deleteCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <code>",
	Short: "Print the click statistics of a short code.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, closeStore := openService(cmd.Context())
		defer closeStore()

		record, err := service.Stats(cmd.Context(), args[0])
		if err != nil {
			utils.Fatal(err)
		}
		lastClicked := "never"
		if record.LastClicked != nil {
			lastClicked = record.LastClicked.Format(time.DateTime)
		}

		t := utils.NewTable()
		t.AppendRows([]table.Row{
			{"Short url", service.ShortUrl(record.ShortCode)},
			{"Long url", record.LongUrl},
			{"Clicks", record.Clicks},
			{"Created", record.CreatedAt.Format(time.DateTime)},
			{"Last clicked", lastClicked},
		})
		t.Render()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <code>",
	Short: "Delete a short code.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, closeStore := openService(cmd.Context())
		defer closeStore()

		longUrl, err := service.Delete(cmd.Context(), args[0])
		if err != nil {
			utils.Fatal(err)
		}
		cmd.Printf("deleted %s -> %s\n", args[0], longUrl)
	},
}
