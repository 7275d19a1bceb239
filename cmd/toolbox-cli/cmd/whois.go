package cmd

import (
	"strings"
	"toolbox-backend/cmd/toolbox-cli/utils"
	"toolbox-backend/services/whois"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rdap bool

func init() {
	whoisCmd.Flags().BoolVar(&rdap, "rdap", false, "Query rdap.org instead of scraping whois.com.")
	rootCmd.AddCommand(whoisCmd)
}

var whoisCmd = &cobra.Command{
	Use:   "whois <domain>",
	Short: "Look up the registration of a domain.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := whois.NewService(whois.Options{})
		t := utils.NewTable()

		if rdap {
			record, _, err := service.Rdap(cmd.Context(), args[0])
			if err != nil {
				utils.Fatal(err)
			}
			t.AppendRows([]table.Row{
				{"Domain", record.Domain},
				{"Handle", utils.OrDash(record.Handle)},
				{"Status", utils.OrDash(strings.Join(record.Status, ", "))},
				{"Registered", utils.OrDash(record.Registered)},
				{"Expires", utils.OrDash(record.Expires)},
				{"Updated", utils.OrDash(record.Updated)},
				{"Name servers", utils.OrDash(strings.Join(record.NameServers, "\n"))},
				{"Registrar", utils.OrDash(record.Registrar.Name)},
				{"Abuse email", utils.OrDash(record.Registrar.AbuseEmail)},
			})
			t.Render()
			return
		}

		record, _, err := service.Whois(cmd.Context(), args[0])
		if err != nil {
			utils.Fatal(err)
		}
		t.AppendRows([]table.Row{
			{"Domain", record.Domain},
			{"Registered", utils.OrDash(record.RegisteredOn)},
			{"Expires", utils.OrDash(record.ExpiresOn)},
			{"Updated", utils.OrDash(record.UpdatedOn)},
			{"Status", utils.OrDash(record.Status)},
			{"Name servers", utils.OrDash(strings.Join(record.NameServers, "\n"))},
			{"Registrar", utils.OrDash(record.Registrar)},
			{"IANA id", utils.OrDash(record.IanaId)},
			{"Registrant", utils.OrDash(strings.TrimSpace(record.RegistrantState + " " + record.RegistrantCountry))},
		})
		t.Render()
	},
}
