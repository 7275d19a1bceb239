package bin

import (
	"fmt"
	"toolbox-backend/cmd/toolbox-cli/utils"
	"toolbox-backend/services/cardgen"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	genAmount int
	genMonth  string
	genYear   string
	genCvv    string
)

func init() {
	genCmd.Flags().IntVar(&genAmount, "amount", 10, "Number of cards to generate.")
	genCmd.Flags().StringVar(&genMonth, "month", "", "Expiry month, random when empty.")
	genCmd.Flags().StringVar(&genYear, "year", "", "Expiry year, random when empty.")
	genCmd.Flags().StringVar(&genCvv, "cvv", "", "Fixed cvv, random when empty.")
	RootCmd.AddCommand(genCmd)
}

var genCmd = &cobra.Command{
	Use:   "gen <bin|mm|yy|cvv>",
	Short: "Generate luhn valid test card numbers from a bin pattern.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req, err := cardgen.Parse(args[0], genMonth, genYear, genCvv)
		if err != nil {
			utils.Fatal(err)
		}
		result, err := cardgen.NewService(openService()).Generate(cmd.Context(), req, genAmount)
		if err != nil {
			utils.Fatal(err)
		}

		fmt.Printf("%s | %s | %s\n", result.Details.Bank, result.Details.Country, result.Details.Info)
		t := utils.NewTable()
		t.AppendHeader(table.Row{"Number", "Expiry", "CVV"})
		for _, card := range result.Cards {
			t.AppendRow(table.Row{card.Number, card.Month + "/" + card.Year, card.Cvv})
		}
		t.Render()
	},
}
