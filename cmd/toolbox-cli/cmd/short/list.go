package short

import (
	"time"
	"toolbox-backend/cmd/toolbox-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var limit int

func init() {
	listCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records.")
	RootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recently created short urls.",
	Run: func(cmd *cobra.Command, args []string) {
		service, closeStore := openService(cmd.Context())
		defer closeStore()

		records, err := service.List(cmd.Context(), limit)
		if err != nil {
			utils.Fatal(err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Code", "Url", "Clicks", "Created", "Last clicked"})
		for _, r := range records {
			lastClicked := "-"
			if r.LastClicked != nil {
				lastClicked = r.LastClicked.Format(time.DateTime)
			}
			t.AppendRow(table.Row{r.ShortCode, r.LongUrl, r.Clicks, r.CreatedAt.Format(time.DateTime), lastClicked})
		}
		t.AppendFooter(table.Row{"", "", len(records)})
		t.Render()
	},
}
