package bin

import (
	"toolbox-backend/cmd/toolbox-cli/utils"
	"toolbox-backend/services/bindb"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	country string
	bank    string
	amount  int
)

func init() {
	lookupCmd.Flags().StringVar(&country, "country", "", "List bins issued in a country code instead.")
	lookupCmd.Flags().StringVar(&bank, "bank", "", "List bins whose issuer contains this text instead.")
	lookupCmd.Flags().IntVar(&amount, "amount", 20, "Maximum rows for --country and --bank.")
	RootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [bin]",
	Short: "Print the details of a bin, or the bins of a country or bank.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		ctx := cmd.Context()

		var rows []bindb.Info
		switch {
		case len(args) == 1:
			info, err := service.Lookup(ctx, args[0])
			if err != nil {
				utils.Fatal(err)
			}
			rows = []bindb.Info{info}
		case country != "":
			found, err := service.ByCountry(ctx, country, amount)
			if err != nil {
				utils.Fatal(err)
			}
			rows = found
		case bank != "":
			found, err := service.ByBank(ctx, bank, amount)
			if err != nil {
				utils.Fatal(err)
			}
			rows = found
		default:
			cmd.Usage()
			return
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Bin", "Brand", "Type", "Level", "Issuer", "Country"})
		for _, info := range rows {
			t.AppendRow(table.Row{
				info.Bin,
				utils.OrDash(info.Brand),
				utils.OrDash(info.Type),
				utils.OrDash(info.Level),
				utils.OrDash(info.Issuer),
				info.CountryFlag + " " + info.CountryName,
			})
		}
		t.Render()
	},
}
